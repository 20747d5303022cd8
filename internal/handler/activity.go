package handler

import (
	"net/http"

	"github.com/ai4local/ai4local/internal/service"
)

type ActivityHandler struct {
	activity *service.ActivityService
}

func NewActivityHandler(activity *service.ActivityService) *ActivityHandler {
	return &ActivityHandler{activity: activity}
}

func (h *ActivityHandler) ListActivity(w http.ResponseWriter, r *http.Request) {
	org, ok := orgID(w, r)
	if !ok {
		return
	}

	page, err := h.activity.List(r.Context(), org, service.ActivityQuery{
		EntityType:  r.URL.Query().Get("entity_type"),
		Action:      r.URL.Query().Get("action"),
		PageRequest: pageRequest(r),
	})
	if err != nil {
		respondWithServiceError(w, r, "Activity list", err)
		return
	}

	respondWithJSON(w, http.StatusOK, page)
}
