package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"txguard-lab/internal/domain/models"
	"txguard-lab/internal/infrastructure/cache"
	"txguard-lab/pkg/logger"
)

const (
	DefaultScanListLimit = 50
	DefaultMaxInput      = 64 * 1024
	statsCacheTTL        = 30 * time.Second
)

// ScanServiceConfig tunes the scan service
type ScanServiceConfig struct {
	MaxInputLength int // characters
	HistoryLimit   int // upper bound for List
}

// ScanService analyzes transactions and records every outcome
type ScanService struct {
	analyzer  *Analyzer
	store     ScanStore
	cache     JSONCache
	publisher EventPublisher
	cfg       ScanServiceConfig
	logger    *logger.Logger
}

// ScanOption configures a ScanService
type ScanOption func(*ScanService)

// WithScanCache caches aggregate statistics
func WithScanCache(c JSONCache) ScanOption {
	return func(s *ScanService) {
		s.cache = c
	}
}

// WithScanPublisher emits scan.completed events
func WithScanPublisher(p EventPublisher) ScanOption {
	return func(s *ScanService) {
		s.publisher = p
	}
}

// NewScanService creates a new ScanService
func NewScanService(analyzer *Analyzer, store ScanStore, cfg ScanServiceConfig, log *logger.Logger, opts ...ScanOption) *ScanService {
	if cfg.MaxInputLength <= 0 {
		cfg.MaxInputLength = DefaultMaxInput
	}
	s := &ScanService{
		analyzer: analyzer,
		store:    store,
		cfg:      cfg,
		logger:   log.WithComponent("scan-service"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Scan analyzes a transaction and records the outcome. The result is only
// returned once the scan is stored.
func (s *ScanService) Scan(ctx context.Context, transaction string) (*models.AnalysisResult, *models.Scan, error) {
	if strings.TrimSpace(transaction) == "" {
		return nil, nil, fmt.Errorf("%w: transaction is required", models.ErrValidation)
	}
	if n := utf8.RuneCountInString(transaction); n > s.cfg.MaxInputLength {
		return nil, nil, fmt.Errorf("%w: transaction is %d characters, limit is %d",
			models.ErrValidation, n, s.cfg.MaxInputLength)
	}

	result, err := s.analyzer.Analyze(ctx, transaction)
	if err != nil {
		return nil, nil, err
	}

	draft, err := models.NewScanDraft(transaction, result)
	if err != nil {
		return nil, nil, err
	}

	scan, err := s.store.AddScan(ctx, draft)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: failed to record scan: %w", models.ErrUnavailable, err)
	}

	s.invalidateStats(ctx)

	log := s.logger.WithScanID(scan.ID)
	log.Info().
		Int("risk_level", result.RiskLevel).
		Str("tier", string(result.Tier())).
		Int("findings", len(result.Findings)).
		Msg("scan recorded")

	if s.publisher != nil {
		if err := s.publisher.PublishScanCompleted(ctx, scan, result); err != nil {
			log.Warn().Err(err).Msg("failed to publish scan.completed")
		}
	}

	return result, scan, nil
}

// List returns recent scans, newest first. limit is clamped to the history limit.
func (s *ScanService) List(ctx context.Context, limit int) ([]models.Scan, error) {
	if limit <= 0 {
		limit = DefaultScanListLimit
	}
	if s.cfg.HistoryLimit > 0 && limit > s.cfg.HistoryLimit {
		limit = s.cfg.HistoryLimit
	}
	scans, err := s.store.ListScans(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to list scans: %w", models.ErrUnavailable, err)
	}
	return scans, nil
}

// Get returns one scan with its findings decoded
func (s *ScanService) Get(ctx context.Context, id int64) (*models.ScanDetail, error) {
	scan, err := s.store.GetScan(ctx, id)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, fmt.Errorf("scan %d: %w", id, models.ErrNotFound)
		}
		return nil, fmt.Errorf("%w: failed to get scan %d: %w", models.ErrUnavailable, id, err)
	}

	findings, err := scan.DecodeFindings()
	if err != nil {
		return nil, err
	}

	return &models.ScanDetail{Scan: *scan, FindingList: findings}, nil
}

// Delete removes a scan. It reports false when the id does not exist.
func (s *ScanService) Delete(ctx context.Context, id int64) (bool, error) {
	deleted, err := s.store.DeleteScan(ctx, id)
	if err != nil {
		return false, fmt.Errorf("%w: failed to delete scan %d: %w", models.ErrUnavailable, id, err)
	}
	if deleted {
		s.invalidateStats(ctx)
		s.logger.Info().Int64("scan_id", id).Msg("scan deleted")
	}
	return deleted, nil
}

// Stats returns aggregate scan statistics
func (s *ScanService) Stats(ctx context.Context) (*models.ScanStats, error) {
	if s.cache != nil {
		var cached models.ScanStats
		err := s.cache.GetJSON(ctx, cache.KeyScanStats, &cached)
		if err == nil {
			return &cached, nil
		}
		if !cache.IsMiss(err) {
			s.logger.Warn().Err(err).Msg("stats cache read failed")
		}
	}

	stats, err := s.store.ScanStats(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to compute scan stats: %w", models.ErrUnavailable, err)
	}

	if s.cache != nil {
		if err := s.cache.SetJSON(ctx, cache.KeyScanStats, stats, statsCacheTTL); err != nil {
			s.logger.Warn().Err(err).Msg("stats cache write failed")
		}
	}

	return stats, nil
}

func (s *ScanService) invalidateStats(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, cache.KeyScanStats); err != nil {
		s.logger.Warn().Err(err).Msg("stats cache invalidation failed")
	}
}
