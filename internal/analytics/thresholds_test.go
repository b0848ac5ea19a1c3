package analytics

import (
	"testing"

	"github.com/Roxeraf/pfep/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyInventory_Understock(t *testing.T) {
	catalog := domain.CatalogSnapshot{
		{PartNumber: "LOW", Supplier: "Acme", CurrentInventory: f64(5), MinInventory: f64(10)},
		{PartNumber: "OK", Supplier: "Acme", CurrentInventory: f64(20), MinInventory: f64(10)},
		{PartNumber: "NOMIN", Supplier: "Acme", CurrentInventory: f64(1)},
		{PartNumber: "NOINV", Supplier: "Acme", MinInventory: f64(10)},
	}

	report, err := ClassifyInventory(catalog, domain.Filter{}, OverstockRule{})
	require.NoError(t, err)

	require.Len(t, report.Understocked, 1)
	alert := report.Understocked[0]
	assert.Equal(t, "LOW", alert.PartNumber)
	assert.Equal(t, RuleUnderstock, alert.Rule)
	assert.Equal(t, 5.0, alert.Value)
	assert.Equal(t, 10.0, alert.Bound)
}

func TestClassifyInventory_DefaultOverstockRule(t *testing.T) {
	catalog := domain.CatalogSnapshot{
		{PartNumber: "HOT", Supplier: "Acme", UsageRate: f64(150), MaxInventory: f64(100)},
		{PartNumber: "COLD", Supplier: "Acme", UsageRate: f64(10), MaxInventory: f64(100)},
		{PartNumber: "NODATA", Supplier: "Acme", MaxInventory: f64(100)},
	}

	report, err := ClassifyInventory(catalog, domain.Filter{}, OverstockRule{})
	require.NoError(t, err)

	require.Len(t, report.OverstockFlagged, 1)
	alert := report.OverstockFlagged[0]
	assert.Equal(t, "HOT", alert.PartNumber)
	// The alert names the rule and echoes both operands so the caller sees
	// the literal rate-vs-capacity comparison that fired.
	assert.Equal(t, RuleUsageRateVsMaxInventory, alert.Rule)
	assert.Equal(t, 150.0, alert.Value)
	assert.Equal(t, 100.0, alert.Bound)
}

func TestClassifyInventory_SwappableOverstockRule(t *testing.T) {
	catalog := domain.CatalogSnapshot{
		// Flagged by the inventory rule but not the usage-rate rule.
		{PartNumber: "FULL", Supplier: "Acme", CurrentInventory: f64(500), MaxInventory: f64(100), UsageRate: f64(1)},
	}

	report, err := ClassifyInventory(catalog, domain.Filter{}, CurrentInventoryAboveMax())
	require.NoError(t, err)
	require.Len(t, report.OverstockFlagged, 1)
	assert.Equal(t, RuleInventoryAboveMax, report.OverstockFlagged[0].Rule)

	report, err = ClassifyInventory(catalog, domain.Filter{}, UsageRateVsMaxInventory())
	require.NoError(t, err)
	assert.Empty(t, report.OverstockFlagged)
}

func TestClassifyInventory_PreservesCatalogOrder(t *testing.T) {
	catalog := domain.CatalogSnapshot{
		{PartNumber: "Z", Supplier: "S", CurrentInventory: f64(0), MinInventory: f64(1)},
		{PartNumber: "A", Supplier: "S", CurrentInventory: f64(0), MinInventory: f64(1)},
		{PartNumber: "M", Supplier: "S", CurrentInventory: f64(0), MinInventory: f64(1)},
	}

	report, err := ClassifyInventory(catalog, domain.Filter{}, OverstockRule{})
	require.NoError(t, err)
	require.Len(t, report.Understocked, 3)
	assert.Equal(t, "Z", report.Understocked[0].PartNumber)
	assert.Equal(t, "A", report.Understocked[1].PartNumber)
	assert.Equal(t, "M", report.Understocked[2].PartNumber)
}

func TestClassifyInventory_EmptyCatalog(t *testing.T) {
	_, err := ClassifyInventory(domain.CatalogSnapshot{}, domain.Filter{}, OverstockRule{})
	assert.ErrorIs(t, err, ErrEmptyCatalog)
}

func TestOverstockRuleByName(t *testing.T) {
	rule, err := OverstockRuleByName("")
	require.NoError(t, err)
	assert.Equal(t, RuleUsageRateVsMaxInventory, rule.Name)

	rule, err = OverstockRuleByName(RuleInventoryAboveMax)
	require.NoError(t, err)
	assert.Equal(t, RuleInventoryAboveMax, rule.Name)

	_, err = OverstockRuleByName("bogus")
	assert.ErrorIs(t, err, ErrUnknownOverstockRule)
}

// Scenario from the planning workflow: two parts from one supplier, one of
// them under the minimum.
func TestAggregateAndClassify_EndToEnd(t *testing.T) {
	catalog := domain.CatalogSnapshot{
		{PartNumber: "P1", Supplier: "A", AvgLeadTimeDays: f64(5), CurrentInventory: f64(100), MinInventory: f64(50)},
		{PartNumber: "P2", Supplier: "A", AvgLeadTimeDays: f64(5), CurrentInventory: f64(10), MinInventory: f64(50)},
	}

	metrics, _, err := AggregateSuppliers(catalog, domain.Filter{})
	require.NoError(t, err)
	require.Len(t, metrics, 1)
	assert.Equal(t, "A", metrics[0].Supplier)
	assert.Equal(t, 2, metrics[0].PartCount)
	require.NotNil(t, metrics[0].AvgLeadTime)
	assert.InDelta(t, 5.0, *metrics[0].AvgLeadTime, 1e-9)

	report, err := ClassifyInventory(catalog, domain.Filter{}, OverstockRule{})
	require.NoError(t, err)
	require.Len(t, report.Understocked, 1)
	assert.Equal(t, "P2", report.Understocked[0].PartNumber)
}
