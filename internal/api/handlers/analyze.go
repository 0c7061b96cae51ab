package handlers

import (
	"net/http"

	"github.com/go-chi/render"

	"txguard-lab/internal/domain/models"
	"txguard-lab/internal/domain/services"
	"txguard-lab/pkg/logger"
)

// AnalyzeHandler handles transaction analysis
type AnalyzeHandler struct {
	scans  *services.ScanService
	logger *logger.Logger
}

// NewAnalyzeHandler creates a new AnalyzeHandler
func NewAnalyzeHandler(scans *services.ScanService, log *logger.Logger) *AnalyzeHandler {
	return &AnalyzeHandler{
		scans:  scans,
		logger: log.WithComponent("analyze-handler"),
	}
}

// Analyze handles POST /api/v1/analyze
func (h *AnalyzeHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	var req models.AnalyzeRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Transaction == "" {
		respondError(w, r, http.StatusBadRequest, "transaction data is required")
		return
	}

	result, _, err := h.scans.Scan(r.Context(), req.Transaction)
	if err != nil {
		respondServiceError(w, r, h.logger, err, "failed to analyze transaction")
		return
	}

	respondJSON(w, r, http.StatusOK, result)
}
