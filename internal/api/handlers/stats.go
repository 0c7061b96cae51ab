package handlers

import (
	"net/http"

	"txguard-lab/internal/domain/services"
	"txguard-lab/pkg/logger"
)

// StatsHandler handles statistics endpoints
type StatsHandler struct {
	scans  *services.ScanService
	logger *logger.Logger
}

// NewStatsHandler creates a new StatsHandler
func NewStatsHandler(scans *services.ScanService, log *logger.Logger) *StatsHandler {
	return &StatsHandler{
		scans:  scans,
		logger: log.WithComponent("stats"),
	}
}

// Get handles GET /api/v1/stats
func (h *StatsHandler) Get(w http.ResponseWriter, r *http.Request) {
	stats, err := h.scans.Stats(r.Context())
	if err != nil {
		respondServiceError(w, r, h.logger, err, "failed to compute scan statistics")
		return
	}

	w.Header().Set("Cache-Control", "public, max-age=30")
	respondJSON(w, r, http.StatusOK, stats)
}
