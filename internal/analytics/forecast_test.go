package analytics

import (
	"reflect"
	"testing"

	"github.com/Roxeraf/pfep/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func forecastCatalog(partNumber string, usageRates ...float64) domain.CatalogSnapshot {
	catalog := make(domain.CatalogSnapshot, 0, len(usageRates))
	for _, rate := range usageRates {
		catalog = append(catalog, domain.PartRecord{
			PartNumber: partNumber,
			Supplier:   "Acme",
			UsageRate:  f64(rate),
		})
	}
	return catalog
}

func TestForecastUsage_TwoPointsExactLine(t *testing.T) {
	series, err := ForecastUsage(forecastCatalog("P1", 10, 14), "P1", 0)
	require.NoError(t, err)

	assert.InDelta(t, 4.0, series.Slope, 1e-9)
	assert.InDelta(t, 10.0, series.Intercept, 1e-9)
	assert.True(t, series.SyntheticDayAxis)
	assert.Nil(t, series.Validation, "no holdout below 5 points")

	// Default horizon applies when none is configured.
	require.Len(t, series.Projection, DefaultForecastHorizon)
	assert.Equal(t, 2, series.Projection[0].DayOffset)
	assert.InDelta(t, 18.0, series.Projection[0].UsageRate, 1e-9)
}

func TestForecastUsage_SynthesizedDayAxis(t *testing.T) {
	series, err := ForecastUsage(forecastCatalog("P1", 5, 6, 7), "P1", 10)
	require.NoError(t, err)

	require.Len(t, series.Observations, 3)
	for i, obs := range series.Observations {
		assert.Equal(t, i, obs.DayOffset, "consecutive integer offsets")
	}
	assert.Equal(t, 3, series.Projection[0].DayOffset)
	assert.Equal(t, 12, series.Projection[len(series.Projection)-1].DayOffset)
}

func TestForecastUsage_InsufficientData(t *testing.T) {
	_, err := ForecastUsage(forecastCatalog("P1", 10), "P1", 30)
	assert.ErrorIs(t, err, ErrInsufficientData)

	// Rows without a usage rate do not count as observations.
	catalog := forecastCatalog("P1", 10)
	catalog = append(catalog, domain.PartRecord{PartNumber: "P1", Supplier: "Acme"})
	_, err = ForecastUsage(catalog, "P1", 30)
	assert.ErrorIs(t, err, ErrInsufficientData)

	// An unknown part is the same signal, not a fault.
	_, err = ForecastUsage(forecastCatalog("P1", 10, 14), "NOPE", 30)
	assert.ErrorIs(t, err, ErrInsufficientData)
}

func TestForecastUsage_HoldoutValidationIsDeterministic(t *testing.T) {
	catalog := forecastCatalog("P1", 10, 12, 9, 14, 13, 16, 15, 18, 17, 20)

	first, err := ForecastUsage(catalog, "P1", 30)
	require.NoError(t, err)
	require.NotNil(t, first.Validation)
	assert.Equal(t, 2, first.Validation.HoldoutPoints, "two of ten points held out")

	second, err := ForecastUsage(catalog, "P1", 30)
	require.NoError(t, err)

	if !reflect.DeepEqual(first, second) {
		t.Fatalf("repeated forecasts on identical input diverged:\n%+v\n%+v", first, second)
	}
}

func TestForecastUsage_NegativeProjectionAllowed(t *testing.T) {
	series, err := ForecastUsage(forecastCatalog("P1", 10, 5), "P1", 5)
	require.NoError(t, err)

	assert.InDelta(t, -5.0, series.Slope, 1e-9)
	last := series.Projection[len(series.Projection)-1]
	assert.Less(t, last.UsageRate, 0.0, "declining trend is reported, not clamped")
}

func TestForecastUsage_EmptyCatalog(t *testing.T) {
	_, err := ForecastUsage(domain.CatalogSnapshot{}, "P1", 30)
	assert.ErrorIs(t, err, ErrEmptyCatalog)
}
