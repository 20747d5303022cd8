package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/ai4local/ai4local/internal/domain"
	"github.com/ai4local/ai4local/internal/middleware"
	"github.com/ai4local/ai4local/internal/service"
	"github.com/go-chi/chi/v5"
	chmw "github.com/go-chi/chi/v5/middleware"
)

const (
	msgNotFound       = "endpoint not found"
	msgInternalError  = "internal server error"
	msgInvalidPayload = "invalid request payload"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

// respondWithError sends an error response with a message
func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, ErrorResponse{Error: message})
}

// respondWithJSON sends a JSON response
func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)

	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

var statusBySentinel = []struct {
	err    error
	status int
}{
	{domain.ErrInvalidEmail, http.StatusBadRequest},
	{domain.ErrPasswordTooWeak, http.StatusBadRequest},
	{domain.ErrInvalidCSVFile, http.StatusBadRequest},
	{domain.ErrInvalidSchedule, http.StatusBadRequest},
	{domain.ErrInvalidCampaignState, http.StatusBadRequest},
	{domain.ErrInvalidCampaignType, http.StatusBadRequest},
	{domain.ErrCampaignAlreadySent, http.StatusBadRequest},

	{domain.ErrInvalidCredentials, http.StatusUnauthorized},
	{domain.ErrTokenMissing, http.StatusUnauthorized},
	{domain.ErrInvalidTokenFormat, http.StatusUnauthorized},
	{domain.ErrTokenExpired, http.StatusUnauthorized},
	{domain.ErrInvalidToken, http.StatusUnauthorized},

	{domain.ErrForbidden, http.StatusForbidden},
	{domain.ErrAccountDisabled, http.StatusForbidden},

	{domain.ErrUserNotFound, http.StatusNotFound},
	{domain.ErrOrganizationNotFound, http.StatusNotFound},
	{domain.ErrCustomerNotFound, http.StatusNotFound},
	{domain.ErrCampaignNotFound, http.StatusNotFound},
	{domain.ErrProductNotFound, http.StatusNotFound},
	{domain.ErrCourseNotFound, http.StatusNotFound},
	{domain.ErrPaymentNotFound, http.StatusNotFound},
	{domain.ErrNotFound, http.StatusNotFound},

	{domain.ErrEmailAlreadyExists, http.StatusConflict},
	{domain.ErrCustomerEmailExists, http.StatusConflict},

	{domain.ErrRateLimited, http.StatusTooManyRequests},

	{domain.ErrAIService, http.StatusInternalServerError},
}

// errorStatus maps a service error to an HTTP status and a client-facing
// message. Unknown errors are hidden behind a generic 500.
func errorStatus(err error) (int, string) {
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		return http.StatusBadRequest, verr.Message
	}
	if errors.Is(err, domain.ErrInvalidInput) {
		return http.StatusBadRequest, err.Error()
	}

	for _, s := range statusBySentinel {
		if errors.Is(err, s.err) {
			return s.status, s.err.Error()
		}
	}

	if errors.Is(err, domain.ErrAIUnreachable) {
		return http.StatusInternalServerError, err.Error()
	}
	return http.StatusInternalServerError, msgInternalError
}

// respondWithServiceError logs err and answers with its mapped status
func respondWithServiceError(w http.ResponseWriter, r *http.Request, op string, err error) {
	status, message := errorStatus(err)

	if status >= http.StatusInternalServerError {
		slog.ErrorContext(r.Context(), op+" failed", "error", err, "requestID", chmw.GetReqID(r.Context()))
	} else {
		slog.InfoContext(r.Context(), op+" rejected", "status", status, "error", err, "requestID", chmw.GetReqID(r.Context()))
	}

	respondWithError(w, status, message)
}

// decodeJSON reads the request body into v
func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	defer r.Body.Close()

	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		respondWithError(w, http.StatusBadRequest, msgInvalidPayload)
		return false
	}
	return true
}

// pathID parses a numeric URL parameter. Non-numeric ids do not match any
// route, so they answer 404.
func pathID(w http.ResponseWriter, r *http.Request, name string) (uint, bool) {
	id, err := strconv.ParseUint(chi.URLParam(r, name), 10, 64)
	if err != nil || id == 0 {
		respondWithError(w, http.StatusNotFound, msgNotFound)
		return 0, false
	}
	return uint(id), true
}

// orgID is the organization of the authenticated caller. Routes under
// /orgs/{org_id} have already checked it against the URL.
func orgID(w http.ResponseWriter, r *http.Request) (uint, bool) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, domain.ErrTokenMissing.Error())
		return 0, false
	}
	return claims.OrgID, true
}

func queryInt(r *http.Request, name string) int {
	v, err := strconv.Atoi(r.URL.Query().Get(name))
	if err != nil {
		return 0
	}
	return v
}

func pageRequest(r *http.Request) service.PageRequest {
	return service.PageRequest{
		Page:    queryInt(r, "page"),
		PerPage: queryInt(r, "per_page"),
	}
}

// queryBool parses true/false style values; anything else is unset.
func queryBool(r *http.Request, name string) *bool {
	v, err := strconv.ParseBool(r.URL.Query().Get(name))
	if err != nil {
		return nil
	}
	return &v
}
