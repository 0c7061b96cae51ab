package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"txguard-lab/internal/domain/models"
	"txguard-lab/internal/infrastructure/cache"
	"txguard-lab/internal/infrastructure/memory"
	"txguard-lab/pkg/logger"
)

type scanFixture struct {
	svc   *ScanService
	store *memory.Store
	cache *mapCache
	pub   *recordingPublisher
}

func newScanFixture(t *testing.T, cfg ScanServiceConfig) *scanFixture {
	t.Helper()

	tick := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	store := memory.NewStore(memory.WithClock(func() time.Time {
		tick = tick.Add(time.Second)
		return tick
	}))
	catalog := NewCatalogService(store, logger.NewNop())
	_, err := catalog.Seed(context.Background())
	require.NoError(t, err)

	f := &scanFixture{store: store, cache: newMapCache(), pub: &recordingPublisher{}}
	f.svc = NewScanService(NewAnalyzer(catalog, logger.NewNop()), store, cfg, logger.NewNop(),
		WithScanCache(f.cache), WithScanPublisher(f.pub))
	return f
}

func TestScanService_ScanRecordsOutcome(t *testing.T) {
	ctx := context.Background()
	f := newScanFixture(t, ScanServiceConfig{})

	result, scan, err := f.svc.Scan(ctx, "Visit https://uniswapp.org/swap?token=ETH")
	require.NoError(t, err)

	assert.Equal(t, 90, result.RiskLevel)
	assert.Equal(t, int64(1), scan.ID)
	assert.Equal(t, 90, scan.RiskLevel)
	require.NotNil(t, scan.URL)
	assert.Equal(t, "https://uniswapp.org/swap?token=ETH", *scan.URL)
	assert.Nil(t, scan.ContractAddress)
	assert.Equal(t, []int64{1}, f.pub.scans)

	detail, err := f.svc.Get(ctx, scan.ID)
	require.NoError(t, err)
	assert.Equal(t, result.Findings, detail.FindingList)
}

func TestScanService_NoFindingsStoresEmptyArray(t *testing.T) {
	f := newScanFixture(t, ScanServiceConfig{})

	_, scan, err := f.svc.Scan(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, "[]", scan.Findings)
	assert.Zero(t, scan.RiskLevel)
}

func TestScanService_RejectsBadInput(t *testing.T) {
	ctx := context.Background()
	f := newScanFixture(t, ScanServiceConfig{MaxInputLength: 10})

	_, _, err := f.svc.Scan(ctx, "   \n\t")
	assert.ErrorIs(t, err, models.ErrValidation)

	_, _, err = f.svc.Scan(ctx, strings.Repeat("a", 11))
	assert.ErrorIs(t, err, models.ErrValidation)

	scans, err := f.svc.List(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, scans)
	assert.Empty(t, f.pub.scans)
}

func TestScanService_ListNewestFirst(t *testing.T) {
	ctx := context.Background()
	f := newScanFixture(t, ScanServiceConfig{HistoryLimit: 2})

	for _, tx := range []string{"first", "second", "third"} {
		_, _, err := f.svc.Scan(ctx, tx)
		require.NoError(t, err)
	}

	scans, err := f.svc.List(ctx, 10)
	require.NoError(t, err)
	require.Len(t, scans, 2)
	assert.Equal(t, "third", scans[0].TransactionData)
	assert.Equal(t, "second", scans[1].TransactionData)
}

func TestScanService_GetAndDelete(t *testing.T) {
	ctx := context.Background()
	f := newScanFixture(t, ScanServiceConfig{})

	_, scan, err := f.svc.Scan(ctx, maliciousContract)
	require.NoError(t, err)

	deleted, err := f.svc.Delete(ctx, scan.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	_, err = f.svc.Get(ctx, scan.ID)
	assert.ErrorIs(t, err, models.ErrNotFound)

	deleted, err = f.svc.Delete(ctx, scan.ID)
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestScanService_StatsCachedAndInvalidated(t *testing.T) {
	ctx := context.Background()
	f := newScanFixture(t, ScanServiceConfig{})

	_, _, err := f.svc.Scan(ctx, maliciousContract)
	require.NoError(t, err)
	_, _, err = f.svc.Scan(ctx, "transferFrom(")
	require.NoError(t, err)

	stats, err := f.svc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.TotalScans)
	assert.Equal(t, int64(1), stats.ByTier[models.RiskTierHigh])
	assert.Equal(t, int64(1), stats.ByTier[models.RiskTierMedium])
	assert.InDelta(t, 77.5, stats.AverageRisk, 0.001)
	assert.True(t, f.cache.has(cache.KeyScanStats))

	_, _, err = f.svc.Scan(ctx, "hello")
	require.NoError(t, err)
	assert.False(t, f.cache.has(cache.KeyScanStats))

	stats, err = f.svc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.TotalScans)
}

func TestScanService_StoreFailureAbortsScan(t *testing.T) {
	catalog := NewCatalogService(memory.NewStore(), logger.NewNop())
	pub := &recordingPublisher{}
	svc := NewScanService(NewAnalyzer(catalog, logger.NewNop()), failingStore{}, ScanServiceConfig{},
		logger.NewNop(), WithScanPublisher(pub))

	result, scan, err := svc.Scan(context.Background(), "transferFrom(")
	assert.ErrorIs(t, err, models.ErrUnavailable)
	assert.Nil(t, result)
	assert.Nil(t, scan)
	assert.Empty(t, pub.scans)
}
