package streaming

import (
	"context"

	"txguard-lab/internal/domain/models"
)

// EventBusPublisher implements services.EventPublisher using the EventBus
type EventBusPublisher struct {
	eventBus *EventBus
	wsHub    *WebSocketHub
}

// NewEventBusPublisher creates a new publisher adapter. Either argument may be nil.
func NewEventBusPublisher(eventBus *EventBus, wsHub *WebSocketHub) *EventBusPublisher {
	return &EventBusPublisher{
		eventBus: eventBus,
		wsHub:    wsHub,
	}
}

// PublishScanCompleted publishes an event for a recorded scan
func (p *EventBusPublisher) PublishScanCompleted(ctx context.Context, scan *models.Scan, result *models.AnalysisResult) error {
	return p.publish(ctx, NewScanCompletedEvent(scan, result))
}

// PublishPatternAdded publishes an event for a new catalog entry
func (p *EventBusPublisher) PublishPatternAdded(ctx context.Context, pattern *models.PhishingPattern) error {
	return p.publish(ctx, NewPatternAddedEvent(pattern))
}

// PublishPatternDeleted publishes an event for a removed catalog entry
func (p *EventBusPublisher) PublishPatternDeleted(ctx context.Context, id int64) error {
	return p.publish(ctx, NewPatternDeletedEvent(id))
}

func (p *EventBusPublisher) publish(ctx context.Context, event *Event) error {
	// NATS and local subscribers
	if p.eventBus != nil {
		if err := p.eventBus.Publish(ctx, event); err != nil {
			return err
		}
	}

	// WebSocket clients
	if p.wsHub != nil {
		p.wsHub.BroadcastEvent(event)
	}

	return nil
}
