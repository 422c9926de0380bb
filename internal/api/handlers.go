// Package api provides HTTP API handlers.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/verifyyourcart/cartcheck/internal/analysis"
	"github.com/verifyyourcart/cartcheck/internal/database"
	"github.com/verifyyourcart/cartcheck/internal/models"
	"github.com/verifyyourcart/cartcheck/internal/showcase"
)

// Version is reported by the health endpoint.
var Version = "1.0.0"

const maxBodyBytes = 64 << 10

// Analyzer produces analysis results. *analysis.Engine satisfies it.
type Analyzer interface {
	Analyze(ctx context.Context, url, apiKeyOverride string) *models.AnalysisResult
	HasCredential() bool
	ProviderName() string
}

// Handler contains all HTTP handlers.
type Handler struct {
	engine Analyzer
	store  database.Store
}

// NewHandler creates a new handler.
func NewHandler(engine Analyzer, store database.Store) *Handler {
	return &Handler{
		engine: engine,
		store:  store,
	}
}

// HealthCheck returns the service health status.
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	mode := "demo"
	if h.engine.HasCredential() {
		mode = "ai"
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"version":   Version,
		"mode":      mode,
		"provider":  h.engine.ProviderName(),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// Analyze handles product URL analysis requests.
func (h *Handler) Analyze(w http.ResponseWriter, r *http.Request) {
	var req models.AnalyzeRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	url, err := analysis.NormalizeURL(req.URL)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, h.engine.Analyze(r.Context(), url, req.APIKey))
}

// GetAuditLogs returns paginated audit logs.
func (h *Handler) GetAuditLogs(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	if offset < 0 {
		offset = 0
	}

	logs, err := h.store.GetAuditLogs(r.Context(), limit, offset)
	if err != nil {
		log.Error().Err(err).Msg("Failed to get audit logs")
		writeError(w, http.StatusInternalServerError, "Failed to get audit logs")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"logs":   logs,
		"limit":  limit,
		"offset": offset,
	})
}

// ListShowcase returns the names of the sample backend files.
func (h *Handler) ListShowcase(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"files": showcase.List(),
	})
}

// GetShowcaseFile returns one sample backend file as plain text.
func (h *Handler) GetShowcaseFile(w http.ResponseWriter, r *http.Request) {
	data, err := showcase.Get(chi.URLParam(r, "name"))
	if err != nil {
		writeError(w, http.StatusNotFound, "File not found")
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// Helper functions
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
