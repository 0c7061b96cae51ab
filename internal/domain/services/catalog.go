package services

import (
	"context"
	"fmt"
	"time"

	"txguard-lab/internal/domain/models"
	"txguard-lab/internal/infrastructure/cache"
	"txguard-lab/pkg/logger"
)

// CatalogService manages the phishing pattern catalog and hands out snapshots
// for analysis. The cache and publisher are optional.
type CatalogService struct {
	store     PatternStore
	cache     JSONCache
	publisher EventPublisher
	cacheTTL  time.Duration
	logger    *logger.Logger
}

// CatalogOption configures a CatalogService
type CatalogOption func(*CatalogService)

// WithCatalogCache caches snapshots for ttl
func WithCatalogCache(c JSONCache, ttl time.Duration) CatalogOption {
	return func(s *CatalogService) {
		s.cache = c
		s.cacheTTL = ttl
	}
}

// WithCatalogPublisher emits pattern.added and pattern.deleted events
func WithCatalogPublisher(p EventPublisher) CatalogOption {
	return func(s *CatalogService) {
		s.publisher = p
	}
}

// NewCatalogService creates a new CatalogService
func NewCatalogService(store PatternStore, log *logger.Logger, opts ...CatalogOption) *CatalogService {
	s := &CatalogService{
		store:  store,
		logger: log.WithComponent("catalog"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ListAll returns every pattern in catalog order
func (s *CatalogService) ListAll(ctx context.Context) ([]models.PhishingPattern, error) {
	patterns, err := s.store.ListPatterns(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to list patterns: %w", models.ErrUnavailable, err)
	}
	return patterns, nil
}

// ListByType returns the patterns of one catalog type
func (s *CatalogService) ListByType(ctx context.Context, rawType string) ([]models.PhishingPattern, error) {
	t, err := models.ParsePatternType(rawType)
	if err != nil {
		return nil, err
	}
	patterns, err := s.store.ListPatternsByType(ctx, t)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to list %s patterns: %w", models.ErrUnavailable, t, err)
	}
	return patterns, nil
}

// Add validates and stores a new pattern. Subsequent snapshots include it.
func (s *CatalogService) Add(ctx context.Context, draft models.PatternDraft) (*models.PhishingPattern, error) {
	if err := draft.Validate(); err != nil {
		return nil, err
	}

	pattern, err := s.store.AddPattern(ctx, draft)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to add pattern: %w", models.ErrUnavailable, err)
	}

	s.invalidate(ctx)

	s.logger.Info().
		Int64("pattern_id", pattern.ID).
		Str("type", string(pattern.PatternType)).
		Int("risk_level", pattern.RiskLevel).
		Msg("pattern added")

	if s.publisher != nil {
		if err := s.publisher.PublishPatternAdded(ctx, pattern); err != nil {
			s.logger.Warn().Err(err).Int64("pattern_id", pattern.ID).Msg("failed to publish pattern.added")
		}
	}

	return pattern, nil
}

// DeleteByID removes a pattern. It reports false when the id does not exist.
func (s *CatalogService) DeleteByID(ctx context.Context, id int64) (bool, error) {
	deleted, err := s.store.DeletePattern(ctx, id)
	if err != nil {
		return false, fmt.Errorf("%w: failed to delete pattern %d: %w", models.ErrUnavailable, id, err)
	}
	if !deleted {
		return false, nil
	}

	s.invalidate(ctx)

	s.logger.Info().Int64("pattern_id", id).Msg("pattern deleted")

	if s.publisher != nil {
		if err := s.publisher.PublishPatternDeleted(ctx, id); err != nil {
			s.logger.Warn().Err(err).Int64("pattern_id", id).Msg("failed to publish pattern.deleted")
		}
	}

	return true, nil
}

// Seed inserts the default patterns when the catalog is empty. It returns the
// number of patterns inserted, zero when the catalog already had entries.
func (s *CatalogService) Seed(ctx context.Context) (int, error) {
	existing, err := s.store.ListPatterns(ctx)
	if err != nil {
		return 0, fmt.Errorf("%w: failed to list patterns: %w", models.ErrUnavailable, err)
	}
	if len(existing) > 0 {
		s.logger.Debug().Int("patterns", len(existing)).Msg("catalog already populated, skipping seed")
		return 0, nil
	}

	inserted := 0
	for _, draft := range DefaultPatterns() {
		if _, err := s.store.AddPattern(ctx, draft); err != nil {
			return inserted, fmt.Errorf("%w: failed to seed pattern %q: %w", models.ErrUnavailable, draft.Pattern, err)
		}
		inserted++
	}

	s.invalidate(ctx)
	s.logger.Info().Int("patterns", inserted).Msg("seeded default pattern catalog")

	return inserted, nil
}

// Snapshot returns an immutable copy of the catalog, served from the cache
// when one is configured
func (s *CatalogService) Snapshot(ctx context.Context) (*CatalogSnapshot, error) {
	if s.cache != nil {
		var cached []models.PhishingPattern
		err := s.cache.GetJSON(ctx, cache.KeyCatalogPatterns, &cached)
		if err == nil {
			return NewCatalogSnapshot(cached), nil
		}
		if !cache.IsMiss(err) {
			s.logger.Warn().Err(err).Msg("catalog cache read failed")
		}
	}

	patterns, err := s.store.ListPatterns(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to list patterns: %w", models.ErrUnavailable, err)
	}

	if s.cache != nil {
		if err := s.cache.SetJSON(ctx, cache.KeyCatalogPatterns, patterns, s.cacheTTL); err != nil {
			s.logger.Warn().Err(err).Msg("catalog cache write failed")
		}
	}

	return NewCatalogSnapshot(patterns), nil
}

func (s *CatalogService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, cache.KeyCatalogPatterns); err != nil {
		s.logger.Warn().Err(err).Msg("catalog cache invalidation failed")
	}
}
