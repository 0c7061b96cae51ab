package repository

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"txguard-lab/internal/domain/models"
	"txguard-lab/internal/infrastructure/database"
	"txguard-lab/pkg/logger"
)

// openTestStore connects to TXGUARD_TEST_DATABASE_URL and starts from empty tables
func openTestStore(t *testing.T) *Store {
	t.Helper()

	dsn := os.Getenv("TXGUARD_TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TXGUARD_TEST_DATABASE_URL not set, skipping PostgreSQL tests")
	}

	ctx := context.Background()
	db, err := database.Connect(ctx, dsn, 4, 0, 0, logger.NewNop())
	if err != nil {
		t.Skipf("PostgreSQL not available: %v", err)
	}
	t.Cleanup(db.Close)

	require.NoError(t, db.EnsureSchema(ctx))
	_, err = db.Pool().Exec(ctx, `TRUNCATE phishing_patterns, scans RESTART IDENTITY`)
	require.NoError(t, err)

	return NewStore(db)
}

func TestPatternRepository(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	p, err := store.AddPattern(ctx, models.PatternDraft{
		Pattern:     "uniswapp.org",
		PatternType: models.PatternTypeDomain,
		Description: "Fake Uniswap domain",
		RiskLevel:   90,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), p.ID)
	assert.False(t, p.CreatedAt.IsZero())

	_, err = store.AddPattern(ctx, models.PatternDraft{
		Pattern:     "transferFrom(",
		PatternType: models.PatternTypeFunction,
		Description: "Token transfer",
		RiskLevel:   60,
	})
	require.NoError(t, err)

	all, err := store.ListPatterns(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	domains, err := store.ListPatternsByType(ctx, models.PatternTypeDomain)
	require.NoError(t, err)
	require.Len(t, domains, 1)
	assert.Equal(t, "uniswapp.org", domains[0].Pattern)

	ok, err := store.DeletePattern(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = store.DeletePattern(ctx, p.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestScanRepository(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	withURL, err := store.AddScan(ctx, models.ScanDraft{
		TransactionData: "https://uniswapp.org",
		URL:             "https://uniswapp.org",
		RiskLevel:       90,
		Findings:        `[{"type":"domain","description":"Fake Uniswap domain","severity":"high"}]`,
	})
	require.NoError(t, err)
	require.NotNil(t, withURL.URL)
	assert.Nil(t, withURL.ContractAddress)

	plain, err := store.AddScan(ctx, models.ScanDraft{TransactionData: "hello", RiskLevel: 0, Findings: "[]"})
	require.NoError(t, err)

	scans, err := store.ListScans(ctx, 10)
	require.NoError(t, err)
	require.Len(t, scans, 2)
	assert.Equal(t, plain.ID, scans[0].ID)

	got, err := store.GetScan(ctx, withURL.ID)
	require.NoError(t, err)
	findings, err := got.DecodeFindings()
	require.NoError(t, err)
	assert.Len(t, findings, 1)

	_, err = store.GetScan(ctx, 9999)
	assert.ErrorIs(t, err, models.ErrNotFound)

	stats, err := store.ScanStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.TotalScans)
	assert.Equal(t, int64(1), stats.ByTier[models.RiskTierHigh])
	assert.Equal(t, int64(1), stats.ByTier[models.RiskTierLow])
	assert.InDelta(t, 45.0, stats.AverageRisk, 0.001)
	assert.NotNil(t, stats.LastScanAt)

	ok, err := store.DeleteScan(ctx, plain.ID)
	require.NoError(t, err)
	assert.True(t, ok)
}
