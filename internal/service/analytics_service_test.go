package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/Roxeraf/pfep/internal/analytics"
	"github.com/Roxeraf/pfep/internal/catalog"
	"github.com/Roxeraf/pfep/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func f64(v float64) *float64 { return &v }

// memoryRatingCache records Get/Set traffic so tests can observe how the
// service keys its cache.
type memoryRatingCache struct {
	entries map[string]*domain.SupplierRatingReport
	gets    int
	hits    int
	sets    int
}

func newMemoryRatingCache() *memoryRatingCache {
	return &memoryRatingCache{entries: make(map[string]*domain.SupplierRatingReport)}
}

func (c *memoryRatingCache) key(revision uint64, filter domain.Filter) string {
	return fmt.Sprintf("%d|%v|%v", revision, filter.Suppliers, filter.PartNumbers)
}

func (c *memoryRatingCache) Get(ctx context.Context, revision uint64, filter domain.Filter) (*domain.SupplierRatingReport, bool, error) {
	c.gets++
	report, ok := c.entries[c.key(revision, filter)]
	if ok {
		c.hits++
	}
	return report, ok, nil
}

func (c *memoryRatingCache) Set(ctx context.Context, revision uint64, filter domain.Filter, report *domain.SupplierRatingReport) error {
	c.sets++
	c.entries[c.key(revision, filter)] = report
	return nil
}

func (c *memoryRatingCache) InvalidateAll(ctx context.Context) error {
	c.entries = make(map[string]*domain.SupplierRatingReport)
	return nil
}

func seededStore() *catalog.Store {
	store := catalog.NewStore()
	store.Upsert(domain.PartRecord{PartNumber: "P1", Supplier: "Acme", AvgLeadTimeDays: f64(5), UsageRate: f64(10), RemainingUsageTimeDays: f64(8)})
	store.Upsert(domain.PartRecord{PartNumber: "P2", Supplier: "Borealis", AvgLeadTimeDays: f64(20), UsageRate: f64(2), RemainingUsageTimeDays: f64(1)})
	return store
}

func TestSupplierRatingsCachesPerRevision(t *testing.T) {
	store := seededStore()
	memCache := newMemoryRatingCache()
	svc := NewAnalyticsService(store, memCache, analytics.UsageRateVsMaxInventory(), 0)

	first, err := svc.SupplierRatings(context.Background(), domain.Filter{})
	require.NoError(t, err)
	require.Len(t, first.Suppliers, 2)
	assert.Equal(t, 1, memCache.sets)
	assert.Equal(t, 0, memCache.hits)

	second, err := svc.SupplierRatings(context.Background(), domain.Filter{})
	require.NoError(t, err)
	assert.Equal(t, 1, memCache.hits, "same revision and filter should hit the cache")
	assert.Equal(t, first, second)

	// A catalog mutation advances the revision; the next read must recompute.
	store.Upsert(domain.PartRecord{PartNumber: "P3", Supplier: "Acme", AvgLeadTimeDays: f64(5), UsageRate: f64(4)})
	third, err := svc.SupplierRatings(context.Background(), domain.Filter{})
	require.NoError(t, err)
	assert.Equal(t, 1, memCache.hits, "mutated catalog must miss the cache")
	assert.Equal(t, 2, memCache.sets)

	for _, s := range third.Suppliers {
		if s.Supplier == "Acme" {
			assert.Equal(t, 2, s.PartCount)
		}
	}
}

func TestSupplierRatingsFilterHasOwnCacheKey(t *testing.T) {
	store := seededStore()
	memCache := newMemoryRatingCache()
	svc := NewAnalyticsService(store, memCache, analytics.UsageRateVsMaxInventory(), 0)

	_, err := svc.SupplierRatings(context.Background(), domain.Filter{})
	require.NoError(t, err)

	filtered, err := svc.SupplierRatings(context.Background(), domain.Filter{Suppliers: []string{"Acme"}})
	require.NoError(t, err)
	require.Len(t, filtered.Suppliers, 1)
	assert.Equal(t, 0, memCache.hits, "different filters must not share entries")
	assert.Equal(t, 2, memCache.sets)
}

func TestForecastUsesConfiguredHorizon(t *testing.T) {
	store := catalog.NewStore()
	store.Upsert(domain.PartRecord{PartNumber: "P1", Supplier: "Acme", UsageRate: f64(10)})
	svc := NewAnalyticsService(store, nil, analytics.OverstockRule{}, 7)

	// One row is one observation, so the forecast declines with the
	// explicit insufficient-data sentinel rather than guessing.
	_, err := svc.Forecast(context.Background(), "P1", 0)
	assert.ErrorIs(t, err, analytics.ErrInsufficientData)
}

func TestInventoryAlertsUsesConfiguredRule(t *testing.T) {
	store := catalog.NewStore()
	store.Upsert(domain.PartRecord{PartNumber: "BIG", Supplier: "Acme", CurrentInventory: f64(80), MaxInventory: f64(50), UsageRate: f64(1)})
	svc := NewAnalyticsService(store, nil, analytics.CurrentInventoryAboveMax(), 0)

	report, err := svc.InventoryAlerts(context.Background(), domain.Filter{})
	require.NoError(t, err)
	require.Len(t, report.OverstockFlagged, 1)
	assert.Equal(t, analytics.RuleInventoryAboveMax, report.OverstockFlagged[0].Rule)
	assert.Equal(t, analytics.RuleInventoryAboveMax, svc.OverstockRuleName())
}

func TestDefaultsWhenUnconfigured(t *testing.T) {
	svc := NewAnalyticsService(catalog.NewStore(), nil, analytics.OverstockRule{}, 0)
	assert.Equal(t, analytics.RuleUsageRateVsMaxInventory, svc.OverstockRuleName())
}
