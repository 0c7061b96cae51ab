package services

import (
	"strings"

	"txguard-lab/internal/domain/models"
)

// MatchStrategy compares a transaction fragment against a pattern's text.
// All strategies are case-insensitive.
type MatchStrategy int

const (
	MatchSubstring MatchStrategy = iota
	MatchExact
)

// Matches reports whether pattern matches fragment under the strategy
func (m MatchStrategy) Matches(fragment, pattern string) bool {
	if pattern == "" || fragment == "" {
		return false
	}
	switch m {
	case MatchExact:
		return strings.EqualFold(fragment, pattern)
	default:
		return strings.Contains(strings.ToLower(fragment), strings.ToLower(pattern))
	}
}

// fragmentScope names the part of the transaction a category pass inspects
type fragmentScope int

const (
	scopeRawText fragmentScope = iota
	scopeURL
	scopeAddress
)

func (s fragmentScope) pick(f fragments) (string, bool) {
	switch s {
	case scopeURL:
		return f.url, f.url != ""
	case scopeAddress:
		return f.address, f.address != ""
	default:
		return f.raw, true
	}
}

// categoryPass is one row of the per-type matching table. A pass runs only
// when the blanket pass produced no finding of its type.
type categoryPass struct {
	patternType   models.PatternType
	scope         fragmentScope
	strategy      MatchStrategy
	fixedSeverity models.Severity // empty: derived from the pattern's risk
	detailsPrefix string
	recordsCall   bool
}

func (c categoryPass) severity(p models.PhishingPattern) models.Severity {
	if c.fixedSeverity != "" {
		return c.fixedSeverity
	}
	return models.SeverityForRisk(p.RiskLevel)
}

const blanketDetailsPrefix = "Found suspicious pattern"

// categoryPasses run in order after the blanket pass
var categoryPasses = []categoryPass{
	{
		patternType:   models.PatternTypeDomain,
		scope:         scopeURL,
		strategy:      MatchSubstring,
		fixedSeverity: models.SeverityHigh,
		detailsPrefix: "Found suspicious domain",
	},
	{
		patternType:   models.PatternTypeContract,
		scope:         scopeAddress,
		strategy:      MatchExact,
		fixedSeverity: models.SeverityHigh,
		detailsPrefix: "Found blacklisted contract",
	},
	{
		patternType:   models.PatternTypeFunction,
		scope:         scopeRawText,
		strategy:      MatchSubstring,
		detailsPrefix: "Found suspicious function call",
		recordsCall:   true,
	},
}
