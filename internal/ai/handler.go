package ai

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/ai4local/ai4local/internal/domain"
	"github.com/ai4local/ai4local/internal/middleware"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// NewRouter mounts the AI service routes.
func NewRouter(service *Service, logger *slog.Logger) http.Handler {
	h := NewHandler(service)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recoverer(logger))
	r.Use(cors.AllowAll().Handler)

	r.Get("/", h.Root)
	r.Get("/health", h.Health)
	r.Post("/generate-text", h.GenerateText)
	r.Post("/embed", h.Embed)
	r.Post("/semantic-search", h.SemanticSearch)
	r.Handle("/metrics", promhttp.Handler())

	return r
}

func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]string{
		"message": "AI4Local AI Service",
		"status":  "running",
	})
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "ai",
	})
}

func (h *Handler) GenerateText(w http.ResponseWriter, r *http.Request) {
	var req GenerateTextRequest
	if !decode(w, r, &req) {
		return
	}
	resp, err := h.service.GenerateText(r.Context(), req)
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, resp)
}

func (h *Handler) Embed(w http.ResponseWriter, r *http.Request) {
	var req EmbedRequest
	if !decode(w, r, &req) {
		return
	}
	resp, err := h.service.Embed(r.Context(), req)
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, resp)
}

func (h *Handler) SemanticSearch(w http.ResponseWriter, r *http.Request) {
	var req SemanticSearchRequest
	if !decode(w, r, &req) {
		return
	}
	resp, err := h.service.SemanticSearch(r.Context(), req)
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, resp)
}

func decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		respondWithError(w, http.StatusUnprocessableEntity, "invalid request body")
		return false
	}
	return true
}

func respondWithServiceError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, domain.ErrInvalidInput) {
		respondWithError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	slog.ErrorContext(r.Context(), "AI request failed", "path", r.URL.Path, "error", err)
	respondWithError(w, http.StatusInternalServerError, err.Error())
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, map[string]string{"error": message})
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(payload)
}
