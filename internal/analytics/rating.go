// internal/analytics/rating.go
package analytics

import (
	"math"
	"sort"

	"github.com/Roxeraf/pfep/internal/domain"
)

// Raw score weights. Lead time enters as a reciprocal so shorter lead times
// score higher.
const (
	leadTimeWeight       = 0.4
	partCountWeight      = 0.3
	remainingUsageWeight = 0.3
)

// ScoreSuppliers converts aggregated supplier metrics into a normalized
// 0-100 rating and returns the entries ranked: descending by rating, ties
// broken by supplier name ascending.
//
// A zero or missing average lead time makes the reciprocal term undefined;
// it is pinned to the largest finite float64 so a zero lead time ranks as
// best possible instead of dropping the supplier. A negative raw score
// (possible when a supplier's average remaining usage time is negative) is
// floored at 0 so every rating stays within [0, 100]. When every raw score
// is zero the normalization would divide by zero, so all ratings collapse
// to 0 and the ordering still holds.
//
// The input slice is not modified.
func ScoreSuppliers(metrics []domain.SupplierMetrics) []domain.SupplierMetrics {
	scored := make([]domain.SupplierMetrics, len(metrics))
	copy(scored, metrics)

	raws := make([]float64, len(scored))
	var maxRaw float64
	for i, m := range scored {
		raws[i] = math.Max(0, rawScore(m))
		if raws[i] > maxRaw {
			maxRaw = raws[i]
		}
	}

	for i := range scored {
		if maxRaw > 0 {
			scored[i].Rating = round2(raws[i] / maxRaw * 100)
		} else {
			scored[i].Rating = 0
		}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].Rating != scored[j].Rating {
			return scored[i].Rating > scored[j].Rating
		}
		return scored[i].Supplier < scored[j].Supplier
	})

	return scored
}

func rawScore(m domain.SupplierMetrics) float64 {
	reciprocalLead := math.MaxFloat64
	if m.AvgLeadTime != nil && *m.AvgLeadTime > 0 {
		reciprocalLead = 1 / *m.AvgLeadTime
	}

	remaining := 0.0
	if m.AvgRemainingUsageTime != nil {
		remaining = *m.AvgRemainingUsageTime
	}

	return leadTimeWeight*reciprocalLead + partCountWeight*float64(m.PartCount) + remainingUsageWeight*remaining
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
