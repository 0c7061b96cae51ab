package services

import "txguard-lab/internal/domain/models"

// CatalogSnapshot is an immutable copy of the pattern catalog taken for one
// analysis. Later catalog mutations never affect it.
type CatalogSnapshot struct {
	patterns []models.PhishingPattern
	byType   map[models.PatternType][]models.PhishingPattern
}

// NewCatalogSnapshot copies patterns into a snapshot
func NewCatalogSnapshot(patterns []models.PhishingPattern) *CatalogSnapshot {
	s := &CatalogSnapshot{
		patterns: make([]models.PhishingPattern, len(patterns)),
		byType:   make(map[models.PatternType][]models.PhishingPattern),
	}
	copy(s.patterns, patterns)
	for _, p := range s.patterns {
		s.byType[p.PatternType] = append(s.byType[p.PatternType], p)
	}
	return s
}

// All returns every pattern in catalog order. Callers must not modify it.
func (s *CatalogSnapshot) All() []models.PhishingPattern {
	return s.patterns
}

// ByType returns the patterns of one type in catalog order
func (s *CatalogSnapshot) ByType(t models.PatternType) []models.PhishingPattern {
	return s.byType[t]
}

// Len returns the number of patterns
func (s *CatalogSnapshot) Len() int {
	return len(s.patterns)
}
