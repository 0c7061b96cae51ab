package models

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// PatternType represents the category of a phishing pattern
type PatternType string

const (
	PatternTypeDomain   PatternType = "domain"
	PatternTypeContract PatternType = "contract"
	PatternTypeFunction PatternType = "function"
	PatternTypeURL      PatternType = "url"

	// PatternTypeGeneral is synthetic: it labels the complex-transaction
	// fallback finding and is never stored in the catalog.
	PatternTypeGeneral PatternType = "general"
)

// CatalogPatternTypes lists the types a catalog entry may carry
var CatalogPatternTypes = []PatternType{
	PatternTypeDomain,
	PatternTypeContract,
	PatternTypeFunction,
	PatternTypeURL,
}

// String returns the string representation
func (t PatternType) String() string {
	return string(t)
}

// IsCatalogType reports whether t may be stored in the catalog
func (t PatternType) IsCatalogType() bool {
	for _, ct := range CatalogPatternTypes {
		if t == ct {
			return true
		}
	}
	return false
}

// ParsePatternType converts a string to a catalog PatternType
func ParsePatternType(s string) (PatternType, error) {
	t := PatternType(strings.ToLower(strings.TrimSpace(s)))
	if !t.IsCatalogType() {
		return "", fmt.Errorf("%w: unsupported pattern type %q", ErrValidation, s)
	}
	return t, nil
}

// Pattern field limits
const (
	PatternMinLength     = 2
	PatternMaxLength     = 255
	DescriptionMinLength = 5
	RiskLevelMin         = 0
	RiskLevelMax         = 100
)

// PhishingPattern is a known phishing indicator with a risk weight
type PhishingPattern struct {
	ID          int64       `json:"id" db:"id"`
	Pattern     string      `json:"pattern" db:"pattern"`
	PatternType PatternType `json:"pattern_type" db:"pattern_type"`
	Description string      `json:"description" db:"description"`
	RiskLevel   int         `json:"risk_level" db:"risk_level"` // 0 - 100
	CreatedAt   time.Time   `json:"created_at" db:"created_at"`
}

// PatternDraft is the input for adding a catalog entry
type PatternDraft struct {
	Pattern     string      `json:"pattern"`
	PatternType PatternType `json:"pattern_type"`
	Description string      `json:"description"`
	RiskLevel   int         `json:"risk_level"`
}

// Validate checks the draft shape before it reaches storage
func (d PatternDraft) Validate() error {
	n := utf8.RuneCountInString(d.Pattern)
	if n < PatternMinLength || n > PatternMaxLength {
		return fmt.Errorf("%w: pattern must be between %d and %d characters",
			ErrValidation, PatternMinLength, PatternMaxLength)
	}
	if !d.PatternType.IsCatalogType() {
		return fmt.Errorf("%w: unsupported pattern type %q", ErrValidation, d.PatternType)
	}
	if utf8.RuneCountInString(d.Description) < DescriptionMinLength {
		return fmt.Errorf("%w: description must be at least %d characters",
			ErrValidation, DescriptionMinLength)
	}
	if d.RiskLevel < RiskLevelMin || d.RiskLevel > RiskLevelMax {
		return fmt.Errorf("%w: risk level must be between %d and %d",
			ErrValidation, RiskLevelMin, RiskLevelMax)
	}
	return nil
}

// ToPattern materializes the draft with an assigned ID
func (d PatternDraft) ToPattern(id int64, createdAt time.Time) PhishingPattern {
	return PhishingPattern{
		ID:          id,
		Pattern:     d.Pattern,
		PatternType: d.PatternType,
		Description: d.Description,
		RiskLevel:   d.RiskLevel,
		CreatedAt:   createdAt,
	}
}

// DenotesApproval reports whether the pattern text is a token approval call
func (p PhishingPattern) DenotesApproval() bool {
	lower := strings.ToLower(p.Pattern)
	return strings.Contains(lower, "approve") || strings.Contains(lower, "approval")
}
