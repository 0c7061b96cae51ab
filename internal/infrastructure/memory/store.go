package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"txguard-lab/internal/domain/models"
)

// Store is an in-process pattern catalog and scan history. Safe for
// concurrent use; ids are assigned from independent counters starting at 1.
type Store struct {
	mu sync.RWMutex

	patterns      map[int64]models.PhishingPattern
	scans         map[int64]models.Scan
	nextPatternID int64
	nextScanID    int64

	now func() time.Time
}

// Option configures a Store
type Option func(*Store)

// WithClock overrides the timestamp source
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// NewStore creates an empty store
func NewStore(opts ...Option) *Store {
	s := &Store{
		patterns:      make(map[int64]models.PhishingPattern),
		scans:         make(map[int64]models.Scan),
		nextPatternID: 1,
		nextScanID:    1,
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ListPatterns returns all patterns in insertion order
func (s *Store) ListPatterns(ctx context.Context) ([]models.PhishingPattern, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.sortedPatterns(func(models.PhishingPattern) bool { return true }), nil
}

// ListPatternsByType returns patterns of one type in insertion order
func (s *Store) ListPatternsByType(ctx context.Context, t models.PatternType) ([]models.PhishingPattern, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.sortedPatterns(func(p models.PhishingPattern) bool { return p.PatternType == t }), nil
}

func (s *Store) sortedPatterns(keep func(models.PhishingPattern) bool) []models.PhishingPattern {
	out := make([]models.PhishingPattern, 0, len(s.patterns))
	for _, p := range s.patterns {
		if keep(p) {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// AddPattern stores a pattern under the next id
func (s *Store) AddPattern(ctx context.Context, draft models.PatternDraft) (*models.PhishingPattern, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	p := draft.ToPattern(s.nextPatternID, s.now().UTC())
	s.nextPatternID++
	s.patterns[p.ID] = p
	return &p, nil
}

// DeletePattern removes a pattern, reporting whether it existed
func (s *Store) DeletePattern(ctx context.Context, id int64) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.patterns[id]; !ok {
		return false, nil
	}
	delete(s.patterns, id)
	return true, nil
}

// AddScan records a scan under the next id
func (s *Store) AddScan(ctx context.Context, draft models.ScanDraft) (*models.Scan, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := draft.Validate(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	scan := draft.ToScan(s.nextScanID, s.now().UTC())
	s.nextScanID++
	s.scans[scan.ID] = scan
	return &scan, nil
}

// ListScans returns up to limit scans, newest first
func (s *Store) ListScans(ctx context.Context, limit int) ([]models.Scan, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Scan, 0, len(s.scans))
	for _, scan := range s.scans {
		out = append(out, scan)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// GetScan returns one scan or models.ErrNotFound
func (s *Store) GetScan(ctx context.Context, id int64) (*models.Scan, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	scan, ok := s.scans[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	return &scan, nil
}

// DeleteScan removes a scan, reporting whether it existed
func (s *Store) DeleteScan(ctx context.Context, id int64) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.scans[id]; !ok {
		return false, nil
	}
	delete(s.scans, id)
	return true, nil
}

// ScanStats aggregates the recorded scans
func (s *Store) ScanStats(ctx context.Context) (*models.ScanStats, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := &models.ScanStats{
		ByTier: map[models.RiskTier]int64{
			models.RiskTierHigh:   0,
			models.RiskTierMedium: 0,
			models.RiskTierLow:    0,
		},
	}

	var total int64
	for _, scan := range s.scans {
		stats.TotalScans++
		stats.ByTier[models.TierForScore(scan.RiskLevel)]++
		total += int64(scan.RiskLevel)
		if stats.LastScanAt == nil || scan.CreatedAt.After(*stats.LastScanAt) {
			t := scan.CreatedAt
			stats.LastScanAt = &t
		}
	}
	if stats.TotalScans > 0 {
		stats.AverageRisk = float64(total) / float64(stats.TotalScans)
	}

	return stats, nil
}
