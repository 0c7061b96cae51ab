package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"txguard-lab/internal/domain/models"
	"txguard-lab/pkg/logger"
)

const (
	unlimitedApproval = "approve(0xffffffffffffffffffffffffffffffffffffffff"
	maliciousContract = "0x25f666Aa45A1E9452F923A6AB547750BBe138B75"
)

func seededSnapshot() *CatalogSnapshot {
	drafts := DefaultPatterns()
	patterns := make([]models.PhishingPattern, 0, len(drafts))
	for i, d := range drafts {
		patterns = append(patterns, d.ToPattern(int64(i+1), time.Unix(0, 0)))
	}
	return NewCatalogSnapshot(patterns)
}

func TestEvaluate_UnlimitedApproval(t *testing.T) {
	result := Evaluate(seededSnapshot(), unlimitedApproval+", 1000)")

	assert.Equal(t, 85, result.RiskLevel)
	require.Len(t, result.Findings, 1)
	assert.Equal(t, models.Finding{
		Type:        models.PatternTypeFunction,
		Description: "Unlimited token approval requested",
		Severity:    models.SeverityHigh,
		Details:     "Found suspicious pattern: " + unlimitedApproval,
	}, result.Findings[0])
	assert.Equal(t, []string{unlimitedApproval}, result.FunctionCalls)
	assert.Equal(t, []string{AdviceLimitApproval, AdviceReject}, result.Advice)
	assert.Equal(t, "0xffffffffffffffffffffffffffffffffffffffff", result.ContractAddress)
	assert.Empty(t, result.URL)
}

func TestEvaluate_FakeDomain(t *testing.T) {
	result := Evaluate(seededSnapshot(), "Visit https://uniswapp.org/swap?token=ETH")

	assert.Equal(t, 90, result.RiskLevel)
	assert.Equal(t, "https://uniswapp.org/swap?token=ETH", result.URL)
	require.Len(t, result.Findings, 1)
	assert.Equal(t, models.PatternTypeDomain, result.Findings[0].Type)
	assert.Equal(t, models.SeverityHigh, result.Findings[0].Severity)
	assert.Equal(t, []string{AdviceVerifyDomain, AdviceReject}, result.Advice)
	assert.Empty(t, result.FunctionCalls)
}

func TestEvaluate_BlacklistedContract(t *testing.T) {
	result := Evaluate(seededSnapshot(), maliciousContract)

	assert.Equal(t, 95, result.RiskLevel)
	assert.Equal(t, maliciousContract, result.ContractAddress)
	require.Len(t, result.Findings, 1)
	assert.Equal(t, models.PatternTypeContract, result.Findings[0].Type)
	assert.Equal(t, []string{AdviceVerifyContract, AdviceReject}, result.Advice)
}

func TestEvaluate_CaseInsensitive(t *testing.T) {
	result := Evaluate(seededSnapshot(), "https://UNISWAPP.ORG/pool")

	assert.Equal(t, 90, result.RiskLevel)
	assert.True(t, result.HasFindingOfType(models.PatternTypeDomain))
}

func TestEvaluate_ScoreIsCapped(t *testing.T) {
	input := "pancakesswap.finance uniswapp.org metamaask.io sushiswapv3.com wallet-connect.cc"
	result := Evaluate(seededSnapshot(), input)

	assert.Equal(t, 100, result.RiskLevel)
	assert.Len(t, result.Findings, 5)
	// one advice line per kind, not per finding
	assert.Equal(t, []string{AdviceVerifyDomain, AdviceReject}, result.Advice)
}

func TestEvaluate_MediumRiskFunction(t *testing.T) {
	result := Evaluate(seededSnapshot(), "transferFrom(0xabc, 0xdef, 5)")

	assert.Equal(t, 60, result.RiskLevel)
	require.Len(t, result.Findings, 1)
	assert.Equal(t, models.SeverityMedium, result.Findings[0].Severity)
	assert.Equal(t, []string{"transferFrom("}, result.FunctionCalls)
	assert.Equal(t, []string{AdviceProceedCaution}, result.Advice)
}

func TestEvaluate_SetApprovalForAllGetsApprovalAdvice(t *testing.T) {
	result := Evaluate(seededSnapshot(), "setApprovalForAll(0xoperator, true)")

	assert.Equal(t, 80, result.RiskLevel)
	assert.Equal(t, []string{AdviceLimitApproval, AdviceReject}, result.Advice)
}

func TestEvaluate_ComplexFallback(t *testing.T) {
	t.Run("at threshold", func(t *testing.T) {
		result := Evaluate(seededSnapshot(), strings.Repeat("a", 100))

		assert.Equal(t, 0, result.RiskLevel)
		assert.Empty(t, result.Findings)
		assert.Equal(t, []string{AdviceAlwaysVerify}, result.Advice)
	})

	t.Run("over threshold", func(t *testing.T) {
		result := Evaluate(seededSnapshot(), strings.Repeat("a", 101))

		assert.Equal(t, 20, result.RiskLevel)
		require.Len(t, result.Findings, 1)
		assert.Equal(t, models.PatternTypeGeneral, result.Findings[0].Type)
		assert.Equal(t, models.SeverityLow, result.Findings[0].Severity)
		assert.Equal(t, []string{AdviceReviewComplex, AdviceAlwaysVerify}, result.Advice)
	})

	t.Run("counts characters not bytes", func(t *testing.T) {
		result := Evaluate(seededSnapshot(), strings.Repeat("é", 60))

		assert.Equal(t, 0, result.RiskLevel)
	})

	t.Run("not applied when something matched", func(t *testing.T) {
		result := Evaluate(seededSnapshot(), strings.Repeat("a", 200)+" transferFrom(")

		assert.Equal(t, 60, result.RiskLevel)
		assert.False(t, result.HasFindingOfType(models.PatternTypeGeneral))
	})
}

func TestEvaluate_EmptyCatalog(t *testing.T) {
	result := Evaluate(NewCatalogSnapshot(nil), "https://uniswapp.org "+maliciousContract)

	assert.Equal(t, 0, result.RiskLevel)
	assert.Empty(t, result.Findings)
	assert.NotNil(t, result.FunctionCalls)
	assert.Equal(t, "https://uniswapp.org", result.URL)
	assert.Equal(t, maliciousContract, result.ContractAddress)
}

func TestEvaluate_ZeroRiskPattern(t *testing.T) {
	snapshot := NewCatalogSnapshot([]models.PhishingPattern{
		{ID: 1, Pattern: "harmless.example", PatternType: models.PatternTypeDomain, Description: "Watched domain", RiskLevel: 0},
	})

	result := Evaluate(snapshot, "https://harmless.example")

	assert.Equal(t, 0, result.RiskLevel)
	require.Len(t, result.Findings, 1)
	assert.Equal(t, models.SeverityLow, result.Findings[0].Severity)
	assert.Equal(t, []string{AdviceVerifyDomain, AdviceAlwaysVerify}, result.Advice)
}

type stubSource struct {
	snapshot *CatalogSnapshot
	err      error
}

func (s stubSource) Snapshot(context.Context) (*CatalogSnapshot, error) {
	return s.snapshot, s.err
}

func TestAnalyzer_Analyze(t *testing.T) {
	a := NewAnalyzer(stubSource{snapshot: seededSnapshot()}, logger.NewNop())

	result, err := a.Analyze(context.Background(), maliciousContract)
	require.NoError(t, err)
	assert.Equal(t, 95, result.RiskLevel)
}

func TestAnalyzer_CatalogFailure(t *testing.T) {
	boom := errors.New("connection refused")
	a := NewAnalyzer(stubSource{err: boom}, logger.NewNop())

	result, err := a.Analyze(context.Background(), "anything")
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Nil(t, result)
}
