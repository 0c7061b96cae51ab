package handlers

import (
	"txguard-lab/internal/domain/services"
	"txguard-lab/internal/streaming"
	"txguard-lab/pkg/logger"
)

// Handlers holds all API handlers
type Handlers struct {
	Health    *HealthHandler
	Analyze   *AnalyzeHandler
	Patterns  *PatternsHandler
	Scans     *ScansHandler
	Stats     *StatsHandler
	Streaming *StreamingHandler
}

// Dependencies holds dependencies for handlers
type Dependencies struct {
	Version  string
	Catalog  *services.CatalogService
	Scans    *services.ScanService
	WSHub    *streaming.WebSocketHub
	EventBus *streaming.EventBus
	Checks   map[string]Pinger
	Logger   *logger.Logger
}

// NewHandlers creates all handlers
func NewHandlers(deps Dependencies) *Handlers {
	return &Handlers{
		Health:    NewHealthHandler(deps.Version, deps.Checks, deps.Logger),
		Analyze:   NewAnalyzeHandler(deps.Scans, deps.Logger),
		Patterns:  NewPatternsHandler(deps.Catalog, deps.Logger),
		Scans:     NewScansHandler(deps.Scans, deps.Logger),
		Stats:     NewStatsHandler(deps.Scans, deps.Logger),
		Streaming: NewStreamingHandler(deps.WSHub, deps.EventBus, deps.Logger),
	}
}
