package handler

import (
	"io"
	"net/http"
	"strings"

	"github.com/ai4local/ai4local/internal/model"
	"github.com/ai4local/ai4local/internal/service"
)

type CampaignHandler struct {
	campaigns *service.CampaignService
}

func NewCampaignHandler(campaigns *service.CampaignService) *CampaignHandler {
	return &CampaignHandler{campaigns: campaigns}
}

type CampaignResponse struct {
	Message  string          `json:"message,omitempty"`
	Campaign *model.Campaign `json:"campaign"`
}

type GeneratedContentResponse struct {
	Message          string          `json:"message"`
	GeneratedContent string          `json:"generated_content"`
	Campaign         *model.Campaign `json:"campaign"`
}

type TemplatesResponse struct {
	Templates map[model.CampaignType][]service.CampaignTemplate `json:"templates"`
}

func (h *CampaignHandler) ListCampaigns(w http.ResponseWriter, r *http.Request) {
	org, ok := orgID(w, r)
	if !ok {
		return
	}

	page, err := h.campaigns.List(r.Context(), org, service.CampaignQuery{
		Status:      r.URL.Query().Get("status"),
		Type:        r.URL.Query().Get("type"),
		PageRequest: pageRequest(r),
	})
	if err != nil {
		respondWithServiceError(w, r, "Campaign list", err)
		return
	}

	respondWithJSON(w, http.StatusOK, page)
}

func (h *CampaignHandler) CreateCampaign(w http.ResponseWriter, r *http.Request) {
	org, ok := orgID(w, r)
	if !ok {
		return
	}

	var input service.CampaignInput
	if !decodeJSON(w, r, &input) {
		return
	}

	campaign, err := h.campaigns.Create(r.Context(), org, input)
	if err != nil {
		respondWithServiceError(w, r, "Campaign creation", err)
		return
	}

	respondWithJSON(w, http.StatusCreated, CampaignResponse{Message: "campaign created successfully", Campaign: campaign})
}

func (h *CampaignHandler) GetCampaign(w http.ResponseWriter, r *http.Request) {
	org, ok := orgID(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	campaign, err := h.campaigns.Get(r.Context(), org, id)
	if err != nil {
		respondWithServiceError(w, r, "Campaign lookup", err)
		return
	}

	respondWithJSON(w, http.StatusOK, CampaignResponse{Campaign: campaign})
}

func (h *CampaignHandler) UpdateCampaign(w http.ResponseWriter, r *http.Request) {
	org, ok := orgID(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var patch service.CampaignPatch
	if !decodeJSON(w, r, &patch) {
		return
	}

	campaign, err := h.campaigns.Update(r.Context(), org, id, patch)
	if err != nil {
		respondWithServiceError(w, r, "Campaign update", err)
		return
	}

	respondWithJSON(w, http.StatusOK, CampaignResponse{Message: "campaign updated successfully", Campaign: campaign})
}

func (h *CampaignHandler) DeleteCampaign(w http.ResponseWriter, r *http.Request) {
	org, ok := orgID(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.campaigns.Delete(r.Context(), org, id); err != nil {
		respondWithServiceError(w, r, "Campaign deletion", err)
		return
	}

	respondWithJSON(w, http.StatusOK, MessageResponse{Message: "campaign deleted successfully"})
}

// GenerateContent accepts an empty body, falling back to the campaign title
func (h *CampaignHandler) GenerateContent(w http.ResponseWriter, r *http.Request) {
	org, ok := orgID(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var input service.GenerateContentInput
	body, err := io.ReadAll(r.Body)
	r.Body.Close()
	if err != nil {
		respondWithError(w, http.StatusBadRequest, msgInvalidPayload)
		return
	}
	if strings.TrimSpace(string(body)) != "" {
		r.Body = io.NopCloser(strings.NewReader(string(body)))
		if !decodeJSON(w, r, &input) {
			return
		}
	}

	campaign, err := h.campaigns.GenerateContent(r.Context(), org, id, input)
	if err != nil {
		respondWithServiceError(w, r, "Content generation", err)
		return
	}

	respondWithJSON(w, http.StatusOK, GeneratedContentResponse{
		Message:          "content generated successfully",
		GeneratedContent: campaign.GeneratedContent,
		Campaign:         campaign,
	})
}

func (h *CampaignHandler) PreviewCampaign(w http.ResponseWriter, r *http.Request) {
	org, ok := orgID(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	preview, err := h.campaigns.Preview(r.Context(), org, id)
	if err != nil {
		respondWithServiceError(w, r, "Campaign preview", err)
		return
	}

	respondWithJSON(w, http.StatusOK, preview)
}

func (h *CampaignHandler) Templates(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, TemplatesResponse{Templates: h.campaigns.Templates()})
}
