// internal/service/catalog_service.go
package service

import (
	"context"
	"fmt"

	"github.com/Roxeraf/pfep/internal/catalog"
	"github.com/Roxeraf/pfep/internal/domain"
	"github.com/Roxeraf/pfep/internal/ingest"
	"github.com/rs/zerolog/log"
)

// PartWriter is the optional persistence hook behind the in-memory catalog.
// When configured, writes go through to the database after the store accepts
// them; reads always come from the store.
type PartWriter interface {
	Upsert(ctx context.Context, rec domain.PartRecord) error
	UpsertBatch(ctx context.Context, recs []domain.PartRecord) (int, error)
	Delete(ctx context.Context, partNumber string) (bool, error)
}

// CatalogService owns catalog mutations: manual add/edit/delete plus bulk
// upload. It enforces upsert-by-part-number semantics end to end.
type CatalogService struct {
	store  *catalog.Store
	writer PartWriter
}

func NewCatalogService(store *catalog.Store, writer PartWriter) *CatalogService {
	return &CatalogService{store: store, writer: writer}
}

// Snapshot returns the current catalog for display.
func (s *CatalogService) Snapshot() domain.CatalogSnapshot {
	return s.store.Snapshot()
}

// Get returns a single record.
func (s *CatalogService) Get(partNumber string) (domain.PartRecord, bool) {
	return s.store.Get(partNumber)
}

// Upsert saves one record, stamping LastUpdated, and writes through to the
// database when persistence is configured.
func (s *CatalogService) Upsert(ctx context.Context, rec domain.PartRecord) (domain.PartRecord, error) {
	if rec.PartNumber == "" {
		return domain.PartRecord{}, fmt.Errorf("part number is required")
	}

	saved := s.store.Upsert(rec)

	if s.writer != nil {
		if err := s.writer.Upsert(ctx, saved); err != nil {
			return saved, fmt.Errorf("part saved in memory but not persisted: %w", err)
		}
	}
	return saved, nil
}

// Delete removes a record by key.
func (s *CatalogService) Delete(ctx context.Context, partNumber string) (bool, error) {
	existed := s.store.Delete(partNumber)
	if !existed {
		return false, nil
	}

	if s.writer != nil {
		if _, err := s.writer.Delete(ctx, partNumber); err != nil {
			return true, fmt.Errorf("part deleted in memory but not persisted: %w", err)
		}
	}
	return true, nil
}

// ImportTable maps an uploaded table into the catalog. When replace is true
// the upload becomes the new catalog; otherwise it merges by part number.
// Mapping issues are soft: they are returned for display, never abort.
func (s *CatalogService) ImportTable(ctx context.Context, header []string, rows [][]string, replace bool) (int, []ingest.RowIssue, error) {
	records, issues := ingest.MapRows(header, rows)

	total := s.store.ImportRecords(records, replace)

	if s.writer != nil && len(records) > 0 {
		// Persist the stamped copies so LastUpdated matches the store.
		written, err := s.writer.UpsertBatch(ctx, s.store.Snapshot())
		if err != nil {
			return total, issues, fmt.Errorf("upload imported in memory but not persisted: %w", err)
		}
		log.Info().Int("written", written).Msg("upload persisted")
	}

	return total, issues, nil
}

// Export renders the catalog as an XLSX workbook.
func (s *CatalogService) Export() ([]byte, error) {
	return ingest.WriteWorkbook(s.store.Snapshot())
}
