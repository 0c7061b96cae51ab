package services

import (
	"context"
	"time"

	"txguard-lab/internal/domain/models"
)

// PatternStore persists the phishing pattern catalog
type PatternStore interface {
	ListPatterns(ctx context.Context) ([]models.PhishingPattern, error)
	ListPatternsByType(ctx context.Context, t models.PatternType) ([]models.PhishingPattern, error)
	AddPattern(ctx context.Context, draft models.PatternDraft) (*models.PhishingPattern, error)
	DeletePattern(ctx context.Context, id int64) (bool, error)
}

// ScanStore persists scan history. GetScan returns models.ErrNotFound for unknown ids.
type ScanStore interface {
	AddScan(ctx context.Context, draft models.ScanDraft) (*models.Scan, error)
	ListScans(ctx context.Context, limit int) ([]models.Scan, error)
	GetScan(ctx context.Context, id int64) (*models.Scan, error)
	DeleteScan(ctx context.Context, id int64) (bool, error)
	ScanStats(ctx context.Context) (*models.ScanStats, error)
}

// JSONCache is the subset of the Redis cache the services use
type JSONCache interface {
	GetJSON(ctx context.Context, key string, dest any) error
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// EventPublisher receives domain events for streaming
type EventPublisher interface {
	PublishScanCompleted(ctx context.Context, scan *models.Scan, result *models.AnalysisResult) error
	PublishPatternAdded(ctx context.Context, pattern *models.PhishingPattern) error
	PublishPatternDeleted(ctx context.Context, id int64) error
}
