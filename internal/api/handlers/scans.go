package handlers

import (
	"net/http"
	"strconv"

	"txguard-lab/internal/domain/services"
	"txguard-lab/pkg/logger"
)

// ScansHandler handles scan history
type ScansHandler struct {
	scans  *services.ScanService
	logger *logger.Logger
}

// NewScansHandler creates a new ScansHandler
func NewScansHandler(scans *services.ScanService, log *logger.Logger) *ScansHandler {
	return &ScansHandler{
		scans:  scans,
		logger: log.WithComponent("scans-handler"),
	}
}

// List handles GET /api/v1/scans?limit=N
func (h *ScansHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			respondError(w, r, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	scans, err := h.scans.List(r.Context(), limit)
	if err != nil {
		respondServiceError(w, r, h.logger, err, "failed to fetch scans")
		return
	}
	respondJSON(w, r, http.StatusOK, scans)
}

// Get handles GET /api/v1/scans/{id}
func (h *ScansHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		respondError(w, r, http.StatusBadRequest, "invalid scan id")
		return
	}

	detail, err := h.scans.Get(r.Context(), id)
	if err != nil {
		respondServiceError(w, r, h.logger, err, "failed to fetch scan")
		return
	}
	respondJSON(w, r, http.StatusOK, detail)
}

// Delete handles DELETE /api/v1/scans/{id}
func (h *ScansHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		respondError(w, r, http.StatusBadRequest, "invalid scan id")
		return
	}

	deleted, err := h.scans.Delete(r.Context(), id)
	if err != nil {
		respondServiceError(w, r, h.logger, err, "failed to delete scan")
		return
	}
	if !deleted {
		respondError(w, r, http.StatusNotFound, "scan not found")
		return
	}

	respondJSON(w, r, http.StatusOK, map[string]any{"success": true, "id": id})
}
