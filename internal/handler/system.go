package handler

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ai4local/ai4local/internal/service"
	"gorm.io/gorm"
)

const (
	serviceName   = "ai4local-api"
	dbPingTimeout = 2 * time.Second
)

// Version is the API version reported by the health endpoints.
var Version = "1.0.0"

type SystemHandler struct {
	db        *gorm.DB
	ai        *service.AIService
	staticDir string
}

func NewSystemHandler(db *gorm.DB, ai *service.AIService, staticDir string) *SystemHandler {
	return &SystemHandler{db: db, ai: ai, staticDir: staticDir}
}

type HealthResponse struct {
	Status    string `json:"status"`
	Service   string `json:"service"`
	Timestamp string `json:"timestamp"`
	Version   string `json:"version"`
}

type StatusResponse struct {
	API       string `json:"api"`
	AIService string `json:"ai_service"`
	Database  string `json:"database"`
	Timestamp string `json:"timestamp"`
}

func timestamp() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}

func (h *SystemHandler) Health(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, HealthResponse{
		Status:    "healthy",
		Service:   serviceName,
		Timestamp: timestamp(),
		Version:   Version,
	})
}

// Status reports the AI service and database reachability. It always
// answers 200.
func (h *SystemHandler) Status(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, StatusResponse{
		API:       "healthy",
		AIService: h.ai.Status(r.Context()).Status,
		Database:  h.databaseStatus(r.Context()),
		Timestamp: timestamp(),
	})
}

func (h *SystemHandler) databaseStatus(ctx context.Context) string {
	sqlDB, err := h.db.DB()
	if err != nil {
		return "disconnected"
	}

	ctx, cancel := context.WithTimeout(ctx, dbPingTimeout)
	defer cancel()

	if err := sqlDB.PingContext(ctx); err != nil {
		return "disconnected"
	}
	return "connected"
}

// NotFound answers unknown API paths
func (h *SystemHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	respondWithError(w, http.StatusNotFound, msgNotFound)
}

type EndpointMap struct {
	Message   string            `json:"message"`
	Version   string            `json:"version"`
	Endpoints map[string]string `json:"endpoints"`
}

// SPA serves files from the static directory, falling back to index.html
// for client-side routes and to an endpoint map when no frontend is built.
func (h *SystemHandler) SPA(w http.ResponseWriter, r *http.Request) {
	if h.staticDir != "" {
		name := filepath.Join(h.staticDir, filepath.FromSlash(filepath.Clean("/"+r.URL.Path)))
		if info, err := os.Stat(name); err == nil && !info.IsDir() {
			http.ServeFile(w, r, name)
			return
		}

		index := filepath.Join(h.staticDir, "index.html")
		if _, err := os.Stat(index); err == nil {
			http.ServeFile(w, r, index)
			return
		}
	}

	if strings.HasPrefix(r.URL.Path, "/api/") {
		h.NotFound(w, r)
		return
	}

	respondWithJSON(w, http.StatusOK, EndpointMap{
		Message: "AI4Local API",
		Version: Version,
		Endpoints: map[string]string{
			"health":    "/api/health",
			"status":    "/api/status",
			"auth":      "/api/auth/*",
			"customers": "/api/orgs/{org_id}/customers",
			"campaigns": "/api/orgs/{org_id}/campaigns",
			"products":  "/api/orgs/{org_id}/products",
			"courses":   "/api/orgs/{org_id}/courses",
			"payments":  "/api/orgs/{org_id}/payments",
			"activity":  "/api/orgs/{org_id}/activity",
			"ai":        "/api/ai/*",
			"graphql":   "/graphql",
			"metrics":   "/metrics",
		},
	})
}
