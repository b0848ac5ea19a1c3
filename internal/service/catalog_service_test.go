package service

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/Roxeraf/pfep/internal/catalog"
	"github.com/Roxeraf/pfep/internal/domain"
	"github.com/Roxeraf/pfep/internal/ingest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// failingWriter simulates a down database: every write errors.
type failingWriter struct{}

func (failingWriter) Upsert(ctx context.Context, rec domain.PartRecord) error {
	return errors.New("connection refused")
}

func (failingWriter) UpsertBatch(ctx context.Context, recs []domain.PartRecord) (int, error) {
	return 0, errors.New("connection refused")
}

func (failingWriter) Delete(ctx context.Context, partNumber string) (bool, error) {
	return false, errors.New("connection refused")
}

func TestUpsertRequiresPartNumber(t *testing.T) {
	svc := NewCatalogService(catalog.NewStore(), nil)

	_, err := svc.Upsert(context.Background(), domain.PartRecord{Supplier: "Acme"})
	assert.Error(t, err)
	assert.Equal(t, 0, len(svc.Snapshot()))
}

func TestUpsertSurvivesWriterFailure(t *testing.T) {
	svc := NewCatalogService(catalog.NewStore(), failingWriter{})

	saved, err := svc.Upsert(context.Background(), domain.PartRecord{PartNumber: "P1", Supplier: "Acme"})
	require.Error(t, err, "persistence failure must surface")
	assert.Equal(t, "P1", saved.PartNumber)

	// The in-memory catalog keeps the edit either way.
	rec, ok := svc.Get("P1")
	require.True(t, ok)
	assert.Equal(t, "Acme", rec.Supplier)
}

func TestImportTableMergeAndReplace(t *testing.T) {
	svc := NewCatalogService(catalog.NewStore(), nil)

	header := []string{"Part Number", "Supplier", "Usage Rate"}
	total, issues, err := svc.ImportTable(context.Background(), header, [][]string{
		{"P1", "Acme", "10"},
		{"P2", "Borealis", "2"},
	}, false)
	require.NoError(t, err)
	assert.Empty(t, issues)
	assert.Equal(t, 2, total)

	// Merge keeps existing rows and upserts the overlap.
	total, _, err = svc.ImportTable(context.Background(), header, [][]string{
		{"P2", "Borealis", "5"},
		{"P3", "Acme", "1"},
	}, false)
	require.NoError(t, err)
	assert.Equal(t, 3, total)

	p2, ok := svc.Get("P2")
	require.True(t, ok)
	assert.Equal(t, 5.0, *p2.UsageRate)

	// Replace swaps the whole catalog for the upload.
	total, _, err = svc.ImportTable(context.Background(), header, [][]string{
		{"P9", "Cirrus", "7"},
	}, true)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	_, ok = svc.Get("P1")
	assert.False(t, ok)
}

func TestImportTableReportsIssuesWithoutAborting(t *testing.T) {
	svc := NewCatalogService(catalog.NewStore(), nil)

	header := []string{"Part Number", "Supplier", "Usage Rate"}
	total, issues, err := svc.ImportTable(context.Background(), header, [][]string{
		{"P1", "Acme", "n/a"},
		{"", "Ghost", "3"},
	}, false)
	require.NoError(t, err)
	assert.Equal(t, 1, total, "the keyless row is dropped, the coerced one kept")
	assert.NotEmpty(t, issues)

	p1, ok := svc.Get("P1")
	require.True(t, ok)
	assert.Nil(t, p1.UsageRate, "unparseable cells become missing values")
}

func TestExportRoundTripsThroughIngest(t *testing.T) {
	svc := NewCatalogService(catalog.NewStore(), nil)
	_, err := svc.Upsert(context.Background(), domain.PartRecord{PartNumber: "P1", Supplier: "Acme", UsageRate: f64(10)})
	require.NoError(t, err)

	data, err := svc.Export()
	require.NoError(t, err)
	require.NotEmpty(t, data)

	header, rows, err := ingest.ReadTable(bytes.NewReader(data), "export.xlsx")
	require.NoError(t, err)
	records, issues := ingest.MapRows(header, rows)
	require.Empty(t, issues)
	require.Len(t, records, 1)
	assert.Equal(t, "P1", records[0].PartNumber)
	assert.Equal(t, 10.0, *records[0].UsageRate)
}
