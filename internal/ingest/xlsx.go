// internal/ingest/xlsx.go
package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/Roxeraf/pfep/internal/domain"
	"github.com/xuri/excelize/v2"
)

const exportSheetName = "PFEP"

// exportHeader is the fixed column order of exported workbooks, mirroring
// the canonical PartRecord schema.
var exportHeader = []string{
	"Part Number", "Description", "Supplier", "Packaging", "Storage Location",
	"Unit of Measure", "Packaging Dimensions", "Reusable Packaging",
	"Usage Rate", "Min Inventory", "Max Inventory", "Lead Time",
	"Avg Lead Time Days", "Order Frequency Days", "Current Inventory",
	"Average Daily Usage", "Remaining Usage Time Days",
	"Reusable Packaging Lead Time Days", "Last Updated",
}

// ReadTable reads header and data rows from an upload. XLSX files go
// through excelize (first sheet only); everything else is treated as CSV.
func ReadTable(r io.Reader, filename string) ([]string, [][]string, error) {
	if strings.EqualFold(filepath.Ext(filename), ".xlsx") {
		return readXLSX(r)
	}
	return readCSV(r)
}

func readXLSX(r io.Reader) ([]string, [][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open xlsx: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil, fmt.Errorf("xlsx has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read rows from sheet %s: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, nil, fmt.Errorf("xlsx sheet %s is empty", sheets[0])
	}

	return rows[0], rows[1:], nil
}

func readCSV(r io.Reader) ([]string, [][]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	var rows [][]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("error reading CSV record: %w", err)
		}
		rows = append(rows, record)
	}

	return header, rows, nil
}

// WriteWorkbook renders a catalog snapshot as an XLSX workbook and returns
// the encoded bytes, ready for download or archiving.
func WriteWorkbook(snapshot domain.CatalogSnapshot) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), exportSheetName); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	headerRow := make([]interface{}, len(exportHeader))
	for i, h := range exportHeader {
		headerRow[i] = h
	}
	if err := f.SetSheetRow(exportSheetName, "A1", &headerRow); err != nil {
		return nil, fmt.Errorf("failed to write header: %w", err)
	}

	for i, rec := range snapshot {
		cellRef, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		row := []interface{}{
			rec.PartNumber, rec.Description, rec.Supplier, rec.Packaging,
			rec.StorageLocation, rec.UnitOfMeasure, rec.PackagingDimensions,
			rec.ReusablePackaging,
			optCell(rec.UsageRate), optCell(rec.MinInventory),
			optCell(rec.MaxInventory), optCell(rec.LeadTime),
			optCell(rec.AvgLeadTimeDays), optCell(rec.OrderFrequencyDays),
			optCell(rec.CurrentInventory), optCell(rec.AverageDailyUsage),
			optCell(rec.RemainingUsageTimeDays), optCell(rec.ReusablePackagingLeadTimeDays),
			rec.LastUpdated.Format(time.RFC3339),
		}
		if err := f.SetSheetRow(exportSheetName, cellRef, &row); err != nil {
			return nil, fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to encode workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// optCell keeps missing numeric values as empty cells instead of zeros.
func optCell(v *float64) interface{} {
	if v == nil {
		return nil
	}
	return *v
}
