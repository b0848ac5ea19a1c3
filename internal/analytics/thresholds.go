// internal/analytics/thresholds.go
package analytics

import (
	"github.com/Roxeraf/pfep/internal/domain"
)

// Rule names accepted by OverstockRuleByName.
const (
	RuleUnderstock              = "current_inventory_below_min"
	RuleUsageRateVsMaxInventory = "usage_rate_vs_max_inventory"
	RuleInventoryAboveMax       = "current_inventory_above_max"
)

// OverstockRule is a named, swappable overstock check. It returns the two
// operand values of the comparison plus whether the record is flagged;
// records lacking either operand are skipped, never an error.
type OverstockRule struct {
	Name     string
	Evaluate func(r domain.PartRecord) (value, bound float64, flagged bool)
}

// UsageRateVsMaxInventory is the default overstock rule: it flags a part when
// its daily usage rate exceeds the max inventory bound. The comparison mixes
// a rate with a capacity, which is dimensionally odd, but existing PFEP
// sheets depend on it. It is exposed as a named rule (with both operands
// echoed in each alert) so deployments can read the literal definition and
// swap in a consistent check such as CurrentInventoryAboveMax.
func UsageRateVsMaxInventory() OverstockRule {
	return OverstockRule{
		Name: RuleUsageRateVsMaxInventory,
		Evaluate: func(r domain.PartRecord) (float64, float64, bool) {
			if r.UsageRate == nil || r.MaxInventory == nil {
				return 0, 0, false
			}
			return *r.UsageRate, *r.MaxInventory, *r.UsageRate > *r.MaxInventory
		},
	}
}

// CurrentInventoryAboveMax is the dimensionally consistent alternative:
// current inventory above the configured maximum.
func CurrentInventoryAboveMax() OverstockRule {
	return OverstockRule{
		Name: RuleInventoryAboveMax,
		Evaluate: func(r domain.PartRecord) (float64, float64, bool) {
			if r.CurrentInventory == nil || r.MaxInventory == nil {
				return 0, 0, false
			}
			return *r.CurrentInventory, *r.MaxInventory, *r.CurrentInventory > *r.MaxInventory
		},
	}
}

// OverstockRuleByName resolves a configured rule name.
func OverstockRuleByName(name string) (OverstockRule, error) {
	switch name {
	case RuleUsageRateVsMaxInventory, "":
		return UsageRateVsMaxInventory(), nil
	case RuleInventoryAboveMax:
		return CurrentInventoryAboveMax(), nil
	default:
		return OverstockRule{}, ErrUnknownOverstockRule
	}
}

// ClassifyInventory walks the filtered snapshot and classifies each record
// against the inventory bounds, preserving catalog order in both lists.
//
// Understock is fixed policy: current inventory strictly below the minimum,
// both fields present. Overstock is delegated to the supplied rule; pass the
// zero value to use UsageRateVsMaxInventory. Records missing the fields a
// rule needs are excluded from that rule's list only.
func ClassifyInventory(snapshot domain.CatalogSnapshot, filter domain.Filter, rule OverstockRule) (*domain.ThresholdReport, error) {
	if err := validate(snapshot); err != nil {
		return nil, err
	}
	if rule.Evaluate == nil {
		rule = UsageRateVsMaxInventory()
	}

	report := &domain.ThresholdReport{
		Understocked:     []domain.StockAlert{},
		OverstockFlagged: []domain.StockAlert{},
	}

	for _, rec := range snapshot {
		if !filter.Match(rec) {
			continue
		}

		if rec.CurrentInventory != nil && rec.MinInventory != nil && *rec.CurrentInventory < *rec.MinInventory {
			report.Understocked = append(report.Understocked, domain.StockAlert{
				PartNumber: rec.PartNumber,
				Supplier:   rec.Supplier,
				Rule:       RuleUnderstock,
				Value:      *rec.CurrentInventory,
				Bound:      *rec.MinInventory,
			})
		}

		if value, bound, flagged := rule.Evaluate(rec); flagged {
			report.OverstockFlagged = append(report.OverstockFlagged, domain.StockAlert{
				PartNumber: rec.PartNumber,
				Supplier:   rec.Supplier,
				Rule:       rule.Name,
				Value:      value,
				Bound:      bound,
			})
		}
	}

	return report, nil
}
