package services

import (
	"context"
	"fmt"
	"unicode/utf8"

	"txguard-lab/internal/domain/models"
	"txguard-lab/pkg/logger"
)

const (
	// inputs longer than this many characters with no findings are flagged
	// as complex
	complexTransactionLength = 100
	complexTransactionRisk   = 20
)

// PatternSource provides the catalog snapshot an analysis runs against
type PatternSource interface {
	Snapshot(ctx context.Context) (*CatalogSnapshot, error)
}

// Analyzer scores transactions against the phishing pattern catalog
type Analyzer struct {
	catalog PatternSource
	logger  *logger.Logger
}

// NewAnalyzer creates a new Analyzer
func NewAnalyzer(catalog PatternSource, log *logger.Logger) *Analyzer {
	return &Analyzer{
		catalog: catalog,
		logger:  log.WithComponent("analyzer"),
	}
}

// Analyze takes one catalog snapshot and evaluates the transaction against it.
// A catalog read failure aborts the analysis; no partial score is returned.
func (a *Analyzer) Analyze(ctx context.Context, transaction string) (*models.AnalysisResult, error) {
	snapshot, err := a.catalog.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load pattern catalog: %w", err)
	}

	result := Evaluate(snapshot, transaction)

	a.logger.Debug().
		Int("patterns", snapshot.Len()).
		Int("findings", len(result.Findings)).
		Int("risk_level", result.RiskLevel).
		Msg("transaction analyzed")

	return result, nil
}

// evaluation accumulates state while the passes run
type evaluation struct {
	result *models.AnalysisResult
	score  int
	advice []string
}

func (e *evaluation) record(p models.PhishingPattern, severity models.Severity, detailsPrefix string, recordsCall bool) {
	e.result.Findings = append(e.result.Findings, models.Finding{
		Type:        p.PatternType,
		Description: p.Description,
		Severity:    severity,
		Details:     fmt.Sprintf("%s: %s", detailsPrefix, p.Pattern),
	})
	e.score += p.RiskLevel

	if recordsCall {
		e.result.FunctionCalls = append(e.result.FunctionCalls, p.Pattern)
	}
	if advice, ok := adviceForMatch(p); ok {
		e.advice = append(e.advice, advice)
	}
}

// Evaluate runs the scoring pipeline over one snapshot. It is pure and never
// fails for string input.
//
// Category passes only run for types the blanket pass did not hit, and what
// they find is added on top of the blanket score rather than replacing it.
func Evaluate(snapshot *CatalogSnapshot, transaction string) *models.AnalysisResult {
	e := &evaluation{
		result: &models.AnalysisResult{
			Findings:      []models.Finding{},
			FunctionCalls: []string{},
		},
	}

	// Blanket pass: every pattern, substring anywhere in the raw text
	for _, p := range snapshot.All() {
		if !MatchSubstring.Matches(transaction, p.Pattern) {
			continue
		}
		e.record(p, models.SeverityForRisk(p.RiskLevel), blanketDetailsPrefix,
			p.PatternType == models.PatternTypeFunction)
	}

	frags := extractFragments(transaction)
	e.result.URL = frags.url
	e.result.ContractAddress = frags.address

	for _, pass := range categoryPasses {
		if e.result.HasFindingOfType(pass.patternType) {
			continue
		}
		fragment, ok := pass.scope.pick(frags)
		if !ok {
			continue
		}
		for _, p := range snapshot.ByType(pass.patternType) {
			if !pass.strategy.Matches(fragment, p.Pattern) {
				continue
			}
			e.record(p, pass.severity(p), pass.detailsPrefix, pass.recordsCall)
		}
	}

	if len(e.result.Findings) == 0 && utf8.RuneCountInString(transaction) > complexTransactionLength {
		e.result.Findings = append(e.result.Findings, models.Finding{
			Type:        models.PatternTypeGeneral,
			Description: "Complex transaction",
			Severity:    models.SeverityLow,
			Details:     "This is a complex transaction. Review carefully before signing.",
		})
		e.score += complexTransactionRisk
		e.advice = append(e.advice, AdviceReviewComplex)
	}

	e.result.RiskLevel = clampRisk(e.score)
	e.advice = append(e.advice, tierAdvice(e.result.RiskLevel))
	e.result.Advice = dedupeAdvice(e.advice)

	return e.result
}

func clampRisk(score int) int {
	if score < models.RiskLevelMin {
		return models.RiskLevelMin
	}
	if score > models.RiskLevelMax {
		return models.RiskLevelMax
	}
	return score
}
