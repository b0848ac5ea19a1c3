// internal/service/analytics_service.go
package service

import (
	"context"

	"github.com/Roxeraf/pfep/internal/analytics"
	"github.com/Roxeraf/pfep/internal/cache"
	"github.com/Roxeraf/pfep/internal/catalog"
	"github.com/Roxeraf/pfep/internal/domain"
	"github.com/rs/zerolog/log"
)

// AnalyticsService runs the computation layer over catalog snapshots. Every
// call takes its own snapshot, so concurrent requests never contend.
type AnalyticsService struct {
	store         *catalog.Store
	cache         cache.RatingCache
	overstockRule analytics.OverstockRule
	horizon       int
}

func NewAnalyticsService(store *catalog.Store, cacheImpl cache.RatingCache, overstockRule analytics.OverstockRule, horizon int) *AnalyticsService {
	if cacheImpl == nil {
		cacheImpl = cache.NewNoopRatingCache()
	}
	if overstockRule.Evaluate == nil {
		overstockRule = analytics.UsageRateVsMaxInventory()
	}
	if horizon <= 0 {
		horizon = analytics.DefaultForecastHorizon
	}
	return &AnalyticsService{
		store:         store,
		cache:         cacheImpl,
		overstockRule: overstockRule,
		horizon:       horizon,
	}
}

// SupplierRatings aggregates the catalog by supplier and returns the ranked
// rating table, cached per catalog revision and filter.
func (s *AnalyticsService) SupplierRatings(ctx context.Context, filter domain.Filter) (*domain.SupplierRatingReport, error) {
	revision := s.store.Revision()

	if report, ok, err := s.cache.Get(ctx, revision, filter); err == nil && ok {
		return report, nil
	} else if err != nil {
		log.Warn().Err(err).Msg("ratings: cache get failed")
	}

	metrics, warnings, err := analytics.AggregateSuppliers(s.store.Snapshot(), filter)
	if err != nil {
		return nil, err
	}

	report := &domain.SupplierRatingReport{
		Suppliers: analytics.ScoreSuppliers(metrics),
		Warnings:  warnings,
	}

	if err := s.cache.Set(ctx, revision, filter, report); err != nil {
		log.Warn().Err(err).Msg("ratings: cache set failed")
	}

	return report, nil
}

// InventoryAlerts classifies the filtered catalog against the inventory
// thresholds using the configured overstock rule.
func (s *AnalyticsService) InventoryAlerts(ctx context.Context, filter domain.Filter) (*domain.ThresholdReport, error) {
	return analytics.ClassifyInventory(s.store.Snapshot(), filter, s.overstockRule)
}

// Forecast fits and projects the usage trend for one part. A horizon of 0
// falls back to the configured default.
func (s *AnalyticsService) Forecast(ctx context.Context, partNumber string, horizon int) (*domain.ForecastSeries, error) {
	if horizon <= 0 {
		horizon = s.horizon
	}
	return analytics.ForecastUsage(s.store.Snapshot(), partNumber, horizon)
}

// OverstockRuleName exposes the active rule so API consumers can see which
// definition produced their alerts.
func (s *AnalyticsService) OverstockRuleName() string {
	return s.overstockRule.Name
}
