// internal/ingest/mapper.go
package ingest

import (
	"strconv"
	"strings"

	"github.com/Roxeraf/pfep/internal/domain"
	"github.com/rs/zerolog/log"
)

// Canonical column keys after header normalization. Uploads may carry any
// column set; this mapping step is the only place where loose spreadsheet
// headers become the fixed PartRecord schema.
const (
	colPartNumber         = "part number"
	colDescription        = "description"
	colSupplier           = "supplier"
	colPackaging          = "packaging"
	colStorageLocation    = "storage location"
	colUnitOfMeasure      = "unit of measure"
	colPackagingDims      = "packaging dimensions"
	colReusablePackaging  = "reusable packaging"
	colUsageRate          = "usage rate"
	colMinInventory       = "min inventory"
	colMaxInventory       = "max inventory"
	colLeadTime           = "lead time"
	colAvgLeadTimeDays    = "avg lead time days"
	colOrderFrequencyDays = "order frequency days"
	colCurrentInventory   = "current inventory"
	colAverageDailyUsage  = "average daily usage"
	colRemainingUsageTime = "remaining usage time days"
	colReusablePackLead   = "reusable packaging lead time days"
)

// RowIssue records a soft problem found while mapping one upload row.
// Issues never abort the import; the affected value is simply missing.
type RowIssue struct {
	Row    int    `json:"row"`
	Column string `json:"column"`
	Value  string `json:"value"`
	Reason string `json:"reason"`
}

// MapRows converts raw tabular data (header + rows) into PartRecords.
//
// Numeric cells that fail to parse become missing values, reported as
// issues. Rows without a part number are dropped entirely, since the
// storage layer cannot key them. LastUpdated is left zero; the catalog
// store stamps it on upsert.
func MapRows(header []string, rows [][]string) ([]domain.PartRecord, []RowIssue) {
	colMap := make(map[string]int, len(header))
	for i, col := range header {
		colMap[normalizeHeader(col)] = i
	}

	var (
		records []domain.PartRecord
		issues  []RowIssue
	)

	for rowIdx, row := range rows {
		cell := func(key string) string {
			i, ok := colMap[key]
			if !ok || i >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[i])
		}

		partNumber := cell(colPartNumber)
		if partNumber == "" {
			issues = append(issues, RowIssue{
				Row:    rowIdx,
				Column: colPartNumber,
				Reason: "missing part number, row dropped",
			})
			continue
		}

		rec := domain.PartRecord{
			PartNumber:          partNumber,
			Description:         cell(colDescription),
			Supplier:            cell(colSupplier),
			Packaging:           cell(colPackaging),
			StorageLocation:     cell(colStorageLocation),
			UnitOfMeasure:       cell(colUnitOfMeasure),
			PackagingDimensions: cell(colPackagingDims),
			ReusablePackaging:   parseBool(cell(colReusablePackaging)),
		}

		numeric := func(key string) *float64 {
			raw := cell(key)
			if raw == "" {
				return nil
			}
			v, err := strconv.ParseFloat(strings.ReplaceAll(raw, ",", ""), 64)
			if err != nil {
				issues = append(issues, RowIssue{
					Row:    rowIdx,
					Column: key,
					Value:  raw,
					Reason: "not a number, treated as missing",
				})
				return nil
			}
			return &v
		}

		rec.UsageRate = numeric(colUsageRate)
		rec.MinInventory = numeric(colMinInventory)
		rec.MaxInventory = numeric(colMaxInventory)
		rec.LeadTime = numeric(colLeadTime)
		rec.AvgLeadTimeDays = numeric(colAvgLeadTimeDays)
		rec.OrderFrequencyDays = numeric(colOrderFrequencyDays)
		rec.CurrentInventory = numeric(colCurrentInventory)
		rec.AverageDailyUsage = numeric(colAverageDailyUsage)
		rec.RemainingUsageTimeDays = numeric(colRemainingUsageTime)
		rec.ReusablePackagingLeadTimeDays = numeric(colReusablePackLead)

		records = append(records, rec)
	}

	if len(issues) > 0 {
		log.Warn().Int("rows", len(rows)).Int("issues", len(issues)).Msg("upload mapped with data issues")
	}

	return records, issues
}

// normalizeHeader folds header variants ("Part_Number", " part number ",
// "PART NUMBER") onto one canonical key.
func normalizeHeader(h string) string {
	h = strings.ToLower(strings.TrimSpace(h))
	h = strings.ReplaceAll(h, "_", " ")
	h = strings.ReplaceAll(h, "-", " ")
	return strings.Join(strings.Fields(h), " ")
}

func parseBool(s string) bool {
	switch strings.ToLower(s) {
	case "true", "yes", "y", "1":
		return true
	default:
		return false
	}
}
