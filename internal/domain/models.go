// internal/domain/models.go
package domain

import "time"

// PartRecord is one Plan-For-Every-Part row: a single part with its supplier,
// packaging, inventory policy and usage figures. PartNumber is the unique key.
//
// Numeric planning fields are pointers: nil means the value was absent or
// unparseable in the source data. A missing value is excluded from averages
// and never silently treated as zero.
type PartRecord struct {
	PartNumber          string `json:"part_number" db:"part_number"`
	Description         string `json:"description" db:"description"`
	Supplier            string `json:"supplier" db:"supplier"`
	Packaging           string `json:"packaging" db:"packaging"`
	StorageLocation     string `json:"storage_location" db:"storage_location"`
	UnitOfMeasure       string `json:"unit_of_measure" db:"unit_of_measure"`
	PackagingDimensions string `json:"packaging_dimensions" db:"packaging_dimensions"`
	ReusablePackaging   bool   `json:"reusable_packaging" db:"reusable_packaging"`

	UsageRate                     *float64 `json:"usage_rate,omitempty" db:"usage_rate"`
	MinInventory                  *float64 `json:"min_inventory,omitempty" db:"min_inventory"`
	MaxInventory                  *float64 `json:"max_inventory,omitempty" db:"max_inventory"`
	LeadTime                      *float64 `json:"lead_time,omitempty" db:"lead_time"`
	AvgLeadTimeDays               *float64 `json:"avg_lead_time_days,omitempty" db:"avg_lead_time_days"`
	OrderFrequencyDays            *float64 `json:"order_frequency_days,omitempty" db:"order_frequency_days"`
	CurrentInventory              *float64 `json:"current_inventory,omitempty" db:"current_inventory"`
	AverageDailyUsage             *float64 `json:"average_daily_usage,omitempty" db:"average_daily_usage"`
	RemainingUsageTimeDays        *float64 `json:"remaining_usage_time_days,omitempty" db:"remaining_usage_time_days"`
	ReusablePackagingLeadTimeDays *float64 `json:"reusable_packaging_lead_time_days,omitempty" db:"reusable_packaging_lead_time_days"`

	// LastUpdated is stamped by the storage layer on every create/update.
	LastUpdated time.Time `json:"last_updated" db:"last_updated"`
}

// CatalogSnapshot is an immutable point-in-time copy of the part catalog,
// in insertion order. Analytics functions only ever read it.
type CatalogSnapshot []PartRecord

// Filter narrows a snapshot by supplier and/or part number. An empty set
// means no restriction on that axis; when both are set a record must match
// both to pass.
type Filter struct {
	Suppliers   []string `json:"suppliers,omitempty"`
	PartNumbers []string `json:"part_numbers,omitempty"`
}

// Match reports whether a record passes the filter. Supplier comparison is
// case-sensitive exact match.
func (f Filter) Match(r PartRecord) bool {
	if len(f.Suppliers) > 0 && !contains(f.Suppliers, r.Supplier) {
		return false
	}
	if len(f.PartNumbers) > 0 && !contains(f.PartNumbers, r.PartNumber) {
		return false
	}
	return true
}

// IsEmpty reports whether the filter restricts nothing.
func (f Filter) IsEmpty() bool {
	return len(f.Suppliers) == 0 && len(f.PartNumbers) == 0
}

func contains(values []string, v string) bool {
	for _, s := range values {
		if s == v {
			return true
		}
	}
	return false
}

// SupplierMetrics is the per-supplier aggregate, recomputed on every call and
// never persisted. AvgLeadTime and AvgRemainingUsageTime are nil when the
// supplier has no rows carrying that field.
type SupplierMetrics struct {
	Supplier              string   `json:"supplier"`
	AvgLeadTime           *float64 `json:"avg_lead_time,omitempty"`
	PartCount             int      `json:"part_count"`
	TotalUsageRate        float64  `json:"total_usage_rate"`
	AvgRemainingUsageTime *float64 `json:"avg_remaining_usage_time,omitempty"`
	Rating                float64  `json:"rating"`
}

// DataQualityWarning flags a part number that appears on more than one
// catalog row. Duplicates are aggregated as separate observations, not
// masked, but the caller should know the key is not unique.
type DataQualityWarning struct {
	PartNumber  string `json:"part_number"`
	Occurrences int    `json:"occurrences"`
}

// SupplierRatingReport is the ranked supplier table returned to callers.
type SupplierRatingReport struct {
	Suppliers []SupplierMetrics    `json:"suppliers"`
	Warnings  []DataQualityWarning `json:"warnings,omitempty"`
}

// StockAlert is one part flagged by a threshold rule. Value and Bound are the
// two operands of the rule that fired, so callers see the literal comparison.
type StockAlert struct {
	PartNumber string  `json:"part_number"`
	Supplier   string  `json:"supplier"`
	Rule       string  `json:"rule"`
	Value      float64 `json:"value"`
	Bound      float64 `json:"bound"`
}

// ThresholdReport carries both alert lists, each in catalog order.
type ThresholdReport struct {
	Understocked     []StockAlert `json:"understocked"`
	OverstockFlagged []StockAlert `json:"overstock_flagged"`
}

// ForecastPoint is one (day offset, usage rate) pair. Offsets are synthetic:
// consecutive integers assigned to the matching catalog rows, not real dates.
type ForecastPoint struct {
	DayOffset int     `json:"day_offset"`
	UsageRate float64 `json:"usage_rate"`
}

// ForecastValidation summarizes the held-out validation split, when one was
// taken.
type ForecastValidation struct {
	HoldoutPoints int     `json:"holdout_points"`
	MeanAbsError  float64 `json:"mean_abs_error"`
}

// ForecastSeries is the fitted trend for one part: the observations the fit
// was built from plus the projected points. SyntheticDayAxis is always true
// and is kept on the wire so consumers do not mistake the projection for one
// based on real usage history.
type ForecastSeries struct {
	PartNumber       string              `json:"part_number"`
	SyntheticDayAxis bool                `json:"synthetic_day_axis"`
	Observations     []ForecastPoint     `json:"observations"`
	Projection       []ForecastPoint     `json:"projection"`
	Slope            float64             `json:"slope"`
	Intercept        float64             `json:"intercept"`
	Validation       *ForecastValidation `json:"validation,omitempty"`
}
