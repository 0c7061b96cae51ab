package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"txguard-lab/internal/domain/models"
	"txguard-lab/internal/domain/services"
	"txguard-lab/pkg/logger"
)

// PatternsHandler handles the phishing pattern catalog
type PatternsHandler struct {
	catalog *services.CatalogService
	logger  *logger.Logger
}

// NewPatternsHandler creates a new PatternsHandler
func NewPatternsHandler(catalog *services.CatalogService, log *logger.Logger) *PatternsHandler {
	return &PatternsHandler{
		catalog: catalog,
		logger:  log.WithComponent("patterns-handler"),
	}
}

// List handles GET /api/v1/patterns
func (h *PatternsHandler) List(w http.ResponseWriter, r *http.Request) {
	patterns, err := h.catalog.ListAll(r.Context())
	if err != nil {
		respondServiceError(w, r, h.logger, err, "failed to fetch phishing patterns")
		return
	}
	respondJSON(w, r, http.StatusOK, patterns)
}

// ListByType handles GET /api/v1/patterns/{type}
func (h *PatternsHandler) ListByType(w http.ResponseWriter, r *http.Request) {
	patterns, err := h.catalog.ListByType(r.Context(), chi.URLParam(r, "type"))
	if err != nil {
		respondServiceError(w, r, h.logger, err, "failed to fetch phishing patterns")
		return
	}
	respondJSON(w, r, http.StatusOK, patterns)
}

// Create handles POST /api/v1/patterns
func (h *PatternsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var draft models.PatternDraft
	if err := render.DecodeJSON(r.Body, &draft); err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}

	pattern, err := h.catalog.Add(r.Context(), draft)
	if err != nil {
		respondServiceError(w, r, h.logger, err, "failed to create phishing pattern")
		return
	}

	respondJSON(w, r, http.StatusCreated, pattern)
}

// Delete handles DELETE /api/v1/patterns/{id}
func (h *PatternsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		respondError(w, r, http.StatusBadRequest, "invalid pattern id")
		return
	}

	deleted, err := h.catalog.DeleteByID(r.Context(), id)
	if err != nil {
		respondServiceError(w, r, h.logger, err, "failed to delete phishing pattern")
		return
	}
	if !deleted {
		respondError(w, r, http.StatusNotFound, "pattern not found")
		return
	}

	respondJSON(w, r, http.StatusOK, map[string]any{"success": true, "id": id})
}
