package handler

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/ai4local/ai4local/internal/service"
)

type AIHandler struct {
	ai *service.AIService
}

func NewAIHandler(ai *service.AIService) *AIHandler {
	return &AIHandler{ai: ai}
}

// forward relays a validated JSON body to the AI service and writes its
// answer unchanged.
func (h *AIHandler) forward(w http.ResponseWriter, r *http.Request, op string, call func(context.Context, json.RawMessage) (json.RawMessage, error)) {
	body, err := io.ReadAll(r.Body)
	r.Body.Close()
	if err != nil || !json.Valid(body) {
		respondWithError(w, http.StatusBadRequest, msgInvalidPayload)
		return
	}

	out, err := call(r.Context(), body)
	if err != nil {
		respondWithServiceError(w, r, op, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(out)
}

func (h *AIHandler) GenerateText(w http.ResponseWriter, r *http.Request) {
	h.forward(w, r, "Text generation", h.ai.ForwardGenerateText)
}

func (h *AIHandler) Embed(w http.ResponseWriter, r *http.Request) {
	h.forward(w, r, "Embedding", h.ai.ForwardEmbed)
}

func (h *AIHandler) SemanticSearch(w http.ResponseWriter, r *http.Request) {
	h.forward(w, r, "Semantic search", h.ai.ForwardSemanticSearch)
}

func (h *AIHandler) ContentSuggestions(w http.ResponseWriter, r *http.Request) {
	var input service.SuggestionsInput
	if !decodeJSON(w, r, &input) {
		return
	}

	out, err := h.ai.ContentSuggestions(input)
	if err != nil {
		respondWithServiceError(w, r, "Content suggestions", err)
		return
	}

	respondWithJSON(w, http.StatusOK, out)
}

func (h *AIHandler) OptimizeContent(w http.ResponseWriter, r *http.Request) {
	var input service.OptimizeInput
	if !decodeJSON(w, r, &input) {
		return
	}

	out, err := h.ai.OptimizeContent(r.Context(), input)
	if err != nil {
		respondWithServiceError(w, r, "Content optimization", err)
		return
	}

	respondWithJSON(w, http.StatusOK, out)
}

// Status answers 503 unless the AI service reports healthy
func (h *AIHandler) Status(w http.ResponseWriter, r *http.Request) {
	status := h.ai.Status(r.Context())

	code := http.StatusOK
	if !status.Healthy() {
		code = http.StatusServiceUnavailable
	}
	respondWithJSON(w, code, status)
}
