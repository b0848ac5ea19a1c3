// internal/analytics/forecast.go
package analytics

import (
	"math"
	"math/rand"
	"sort"

	"github.com/Roxeraf/pfep/internal/domain"
)

const (
	// DefaultForecastHorizon is the number of future day offsets projected
	// when the caller does not configure one.
	DefaultForecastHorizon = 30

	// minObservations is the smallest series an OLS line can be fitted to.
	minObservations = 2

	// minForValidation is the series length from which a 20% holdout split
	// is carved out for validation.
	minForValidation = 5

	// holdoutSeed fixes the validation split so repeated calls on the same
	// input reproduce the same fit.
	holdoutSeed = 1
)

// ForecastUsage fits a least-squares trend line to the usage rates recorded
// for one part and projects it a fixed horizon forward.
//
// The catalog has no real per-day history, so the day axis is synthesized:
// each row matching the part number (duplicates included, in catalog order;
// rows without a usage rate are skipped as missing-field soft conditions)
// is assigned a consecutive integer offset, offset 0 being the earliest and
// the last offset standing in for today. The result carries SyntheticDayAxis
// so callers never present the projection as true usage history.
//
// Fewer than 2 usable observations yields ErrInsufficientData. With 5 or
// more, a deterministic 20% split is held out and the fit's mean absolute
// error on it is reported. Projected values are not clamped: a negative
// projection is a valid signal of a declining trend.
func ForecastUsage(snapshot domain.CatalogSnapshot, partNumber string, horizon int) (*domain.ForecastSeries, error) {
	if err := validate(snapshot); err != nil {
		return nil, err
	}
	if horizon <= 0 {
		horizon = DefaultForecastHorizon
	}

	var observations []domain.ForecastPoint
	for _, rec := range snapshot {
		if rec.PartNumber != partNumber || rec.UsageRate == nil {
			continue
		}
		observations = append(observations, domain.ForecastPoint{
			DayOffset: len(observations),
			UsageRate: *rec.UsageRate,
		})
	}

	if len(observations) < minObservations {
		return nil, ErrInsufficientData
	}

	series := &domain.ForecastSeries{
		PartNumber:       partNumber,
		SyntheticDayAxis: true,
		Observations:     observations,
	}

	training := observations
	var holdout []domain.ForecastPoint
	if len(observations) >= minForValidation {
		training, holdout = splitHoldout(observations)
	}

	slope, intercept := fitLine(training)
	series.Slope = slope
	series.Intercept = intercept

	if len(holdout) > 0 {
		series.Validation = &domain.ForecastValidation{
			HoldoutPoints: len(holdout),
			MeanAbsError:  meanAbsError(holdout, slope, intercept),
		}
	}

	lastOffset := observations[len(observations)-1].DayOffset
	series.Projection = make([]domain.ForecastPoint, 0, horizon)
	for step := 1; step <= horizon; step++ {
		day := lastOffset + step
		series.Projection = append(series.Projection, domain.ForecastPoint{
			DayOffset: day,
			UsageRate: slope*float64(day) + intercept,
		})
	}

	return series, nil
}

// splitHoldout carves a fixed-seed 20% validation set (at least one point)
// out of the observations, keeping both halves in day-offset order.
func splitHoldout(points []domain.ForecastPoint) (training, holdout []domain.ForecastPoint) {
	n := len(points)
	k := n / 5

	rng := rand.New(rand.NewSource(holdoutSeed))
	picked := rng.Perm(n)[:k]
	sort.Ints(picked)

	held := make(map[int]bool, k)
	for _, idx := range picked {
		held[idx] = true
	}

	training = make([]domain.ForecastPoint, 0, n-k)
	holdout = make([]domain.ForecastPoint, 0, k)
	for i, p := range points {
		if held[i] {
			holdout = append(holdout, p)
		} else {
			training = append(training, p)
		}
	}
	return training, holdout
}

// fitLine computes the ordinary least squares slope and intercept over the
// given points. With exactly two points this is the exact line through them.
func fitLine(points []domain.ForecastPoint) (slope, intercept float64) {
	n := float64(len(points))
	var sumX, sumY, sumXY, sumXX float64
	for _, p := range points {
		x := float64(p.DayOffset)
		sumX += x
		sumY += p.UsageRate
		sumXY += x * p.UsageRate
		sumXX += x * x
	}

	denom := n*sumXX - sumX*sumX
	if denom == 0 {
		// All observations share one day offset; the best line is flat.
		return 0, sumY / n
	}

	slope = (n*sumXY - sumX*sumY) / denom
	intercept = (sumY - slope*sumX) / n
	return slope, intercept
}

func meanAbsError(points []domain.ForecastPoint, slope, intercept float64) float64 {
	var total float64
	for _, p := range points {
		predicted := slope*float64(p.DayOffset) + intercept
		total += math.Abs(predicted - p.UsageRate)
	}
	return total / float64(len(points))
}
