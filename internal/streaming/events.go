package streaming

import (
	"time"

	"github.com/google/uuid"

	"txguard-lab/internal/domain/models"
)

// EventType represents the type of a domain event
type EventType string

const (
	EventTypeScanCompleted  EventType = "scan.completed"
	EventTypePatternAdded   EventType = "pattern.added"
	EventTypePatternDeleted EventType = "pattern.deleted"
)

// Event is a real-time update published to subscribers, WebSocket clients and NATS
type Event struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`

	// Scan details
	ScanID          int64           `json:"scan_id,omitempty"`
	RiskLevel       int             `json:"risk_level"`
	Tier            models.RiskTier `json:"tier,omitempty"`
	FindingCount    int             `json:"finding_count,omitempty"`
	URL             string          `json:"url,omitempty"`
	ContractAddress string          `json:"contract_address,omitempty"`
	FunctionCalls   []string        `json:"function_calls,omitempty"`

	// Pattern details
	PatternID   int64              `json:"pattern_id,omitempty"`
	Pattern     string             `json:"pattern,omitempty"`
	PatternType models.PatternType `json:"pattern_type,omitempty"`
	Severity    models.Severity    `json:"severity,omitempty"`
}

func newEvent(t EventType) *Event {
	return &Event{
		ID:        uuid.New().String(),
		Type:      t,
		Timestamp: time.Now().UTC(),
	}
}

// NewScanCompletedEvent creates an event for a recorded scan
func NewScanCompletedEvent(scan *models.Scan, result *models.AnalysisResult) *Event {
	event := newEvent(EventTypeScanCompleted)
	event.ScanID = scan.ID
	event.RiskLevel = result.RiskLevel
	event.Tier = result.Tier()
	event.FindingCount = len(result.Findings)
	event.URL = result.URL
	event.ContractAddress = result.ContractAddress
	event.FunctionCalls = result.FunctionCalls
	return event
}

// NewPatternAddedEvent creates an event for a new catalog entry
func NewPatternAddedEvent(p *models.PhishingPattern) *Event {
	event := newEvent(EventTypePatternAdded)
	event.PatternID = p.ID
	event.Pattern = p.Pattern
	event.PatternType = p.PatternType
	event.RiskLevel = p.RiskLevel
	event.Tier = models.TierForScore(p.RiskLevel)
	event.Severity = models.SeverityForRisk(p.RiskLevel)
	return event
}

// NewPatternDeletedEvent creates an event for a removed catalog entry
func NewPatternDeletedEvent(id int64) *Event {
	event := newEvent(EventTypePatternDeleted)
	event.PatternID = id
	return event
}

// Subscription represents a client's subscription preferences
type Subscription struct {
	// Filter by event types (empty = all)
	Types []EventType `json:"types,omitempty"`

	// Only events at or above this tier (empty = all)
	MinTier models.RiskTier `json:"min_tier,omitempty"`
}

var tierOrder = map[models.RiskTier]int{
	models.RiskTierLow:    1,
	models.RiskTierMedium: 2,
	models.RiskTierHigh:   3,
}

// Matches checks if an event matches the subscription filters
func (s *Subscription) Matches(event *Event) bool {
	if len(s.Types) > 0 {
		found := false
		for _, t := range s.Types {
			if t == event.Type {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	// events without a tier (pattern.deleted) are never filtered by tier
	if s.MinTier != "" && event.Tier != "" {
		if tierOrder[event.Tier] < tierOrder[s.MinTier] {
			return false
		}
	}

	return true
}
