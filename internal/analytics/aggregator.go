// internal/analytics/aggregator.go
package analytics

import (
	"sort"

	"github.com/Roxeraf/pfep/internal/domain"
)

// AggregateSuppliers groups a catalog snapshot by supplier and computes the
// per-supplier statistics the rating scorer consumes.
//
// Filters intersect: a record passes only when it matches every non-empty
// axis. Missing numeric values are excluded from the means they would feed
// (they never contribute zero) but the record still counts toward PartCount.
// TotalUsageRate sums usage rates with missing treated as zero.
//
// Duplicate part numbers are aggregated as separate observations and reported
// back as data-quality warnings. Output order is unspecified; ScoreSuppliers
// establishes the deterministic ranking.
func AggregateSuppliers(snapshot domain.CatalogSnapshot, filter domain.Filter) ([]domain.SupplierMetrics, []domain.DataQualityWarning, error) {
	if err := validate(snapshot); err != nil {
		return nil, nil, err
	}

	type group struct {
		supplier          string
		partCount         int
		totalUsage        float64
		leadTimeSum       float64
		leadTimeN         int
		remainingUsageSum float64
		remainingUsageN   int
	}

	groups := make(map[string]*group)
	var order []string
	seenParts := make(map[string]int)

	for _, rec := range snapshot {
		if !filter.Match(rec) {
			continue
		}

		seenParts[rec.PartNumber]++

		g, ok := groups[rec.Supplier]
		if !ok {
			g = &group{supplier: rec.Supplier}
			groups[rec.Supplier] = g
			order = append(order, rec.Supplier)
		}

		g.partCount++
		if rec.UsageRate != nil {
			g.totalUsage += *rec.UsageRate
		}
		if rec.AvgLeadTimeDays != nil {
			g.leadTimeSum += *rec.AvgLeadTimeDays
			g.leadTimeN++
		}
		if rec.RemainingUsageTimeDays != nil {
			g.remainingUsageSum += *rec.RemainingUsageTimeDays
			g.remainingUsageN++
		}
	}

	metrics := make([]domain.SupplierMetrics, 0, len(order))
	for _, supplier := range order {
		g := groups[supplier]
		m := domain.SupplierMetrics{
			Supplier:       g.supplier,
			PartCount:      g.partCount,
			TotalUsageRate: g.totalUsage,
		}
		if g.leadTimeN > 0 {
			avg := g.leadTimeSum / float64(g.leadTimeN)
			m.AvgLeadTime = &avg
		}
		if g.remainingUsageN > 0 {
			avg := g.remainingUsageSum / float64(g.remainingUsageN)
			m.AvgRemainingUsageTime = &avg
		}
		metrics = append(metrics, m)
	}

	var warnings []domain.DataQualityWarning
	for pn, n := range seenParts {
		if n > 1 {
			warnings = append(warnings, domain.DataQualityWarning{PartNumber: pn, Occurrences: n})
		}
	}
	sort.Slice(warnings, func(i, j int) bool { return warnings[i].PartNumber < warnings[j].PartNumber })

	return metrics, warnings, nil
}

// validate enforces the minimal well-formedness contract shared by every
// analytics entry point: a non-empty snapshot whose records all carry a part
// number key.
func validate(snapshot domain.CatalogSnapshot) error {
	if len(snapshot) == 0 {
		return ErrEmptyCatalog
	}
	for i, rec := range snapshot {
		if rec.PartNumber == "" {
			return malformedRecord(i)
		}
	}
	return nil
}
