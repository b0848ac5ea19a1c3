// internal/catalog/postgres/part_repository.go
package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Roxeraf/pfep/internal/domain"
	"github.com/jmoiron/sqlx"
)

// PartRepository persists PartRecords in the parts table. part_number is a
// unique key enforced at the database level; every write goes through an
// upsert so repeated edits cannot create duplicate rows.
type PartRepository struct {
	db *DB
}

func NewPartRepository(db *DB) *PartRepository {
	return &PartRepository{db: db}
}

const createPartsTable = `
    CREATE TABLE IF NOT EXISTS parts (
        id BIGSERIAL PRIMARY KEY,
        part_number TEXT NOT NULL UNIQUE,
        description TEXT NOT NULL DEFAULT '',
        supplier TEXT NOT NULL DEFAULT '',
        packaging TEXT NOT NULL DEFAULT '',
        storage_location TEXT NOT NULL DEFAULT '',
        unit_of_measure TEXT NOT NULL DEFAULT '',
        packaging_dimensions TEXT NOT NULL DEFAULT '',
        reusable_packaging BOOLEAN NOT NULL DEFAULT FALSE,
        usage_rate DOUBLE PRECISION,
        min_inventory DOUBLE PRECISION,
        max_inventory DOUBLE PRECISION,
        lead_time DOUBLE PRECISION,
        avg_lead_time_days DOUBLE PRECISION,
        order_frequency_days DOUBLE PRECISION,
        current_inventory DOUBLE PRECISION,
        average_daily_usage DOUBLE PRECISION,
        remaining_usage_time_days DOUBLE PRECISION,
        reusable_packaging_lead_time_days DOUBLE PRECISION,
        last_updated TIMESTAMPTZ NOT NULL DEFAULT NOW()
    )
`

// EnsureSchema creates the parts table when it does not exist yet.
func (r *PartRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createPartsTable); err != nil {
		return fmt.Errorf("failed to ensure parts schema: %w", err)
	}
	return nil
}

const upsertPartQuery = `
    INSERT INTO parts (
        part_number, description, supplier, packaging, storage_location,
        unit_of_measure, packaging_dimensions, reusable_packaging,
        usage_rate, min_inventory, max_inventory, lead_time,
        avg_lead_time_days, order_frequency_days, current_inventory,
        average_daily_usage, remaining_usage_time_days,
        reusable_packaging_lead_time_days, last_updated
    ) VALUES (
        :part_number, :description, :supplier, :packaging, :storage_location,
        :unit_of_measure, :packaging_dimensions, :reusable_packaging,
        :usage_rate, :min_inventory, :max_inventory, :lead_time,
        :avg_lead_time_days, :order_frequency_days, :current_inventory,
        :average_daily_usage, :remaining_usage_time_days,
        :reusable_packaging_lead_time_days, :last_updated
    )
    ON CONFLICT (part_number) DO UPDATE SET
        description = EXCLUDED.description,
        supplier = EXCLUDED.supplier,
        packaging = EXCLUDED.packaging,
        storage_location = EXCLUDED.storage_location,
        unit_of_measure = EXCLUDED.unit_of_measure,
        packaging_dimensions = EXCLUDED.packaging_dimensions,
        reusable_packaging = EXCLUDED.reusable_packaging,
        usage_rate = EXCLUDED.usage_rate,
        min_inventory = EXCLUDED.min_inventory,
        max_inventory = EXCLUDED.max_inventory,
        lead_time = EXCLUDED.lead_time,
        avg_lead_time_days = EXCLUDED.avg_lead_time_days,
        order_frequency_days = EXCLUDED.order_frequency_days,
        current_inventory = EXCLUDED.current_inventory,
        average_daily_usage = EXCLUDED.average_daily_usage,
        remaining_usage_time_days = EXCLUDED.remaining_usage_time_days,
        reusable_packaging_lead_time_days = EXCLUDED.reusable_packaging_lead_time_days,
        last_updated = EXCLUDED.last_updated
`

// Upsert inserts or updates a single record by part number.
func (r *PartRepository) Upsert(ctx context.Context, rec domain.PartRecord) error {
	if rec.PartNumber == "" {
		return fmt.Errorf("record missing part number")
	}
	if _, err := r.db.NamedExecContext(ctx, upsertPartQuery, rec); err != nil {
		return fmt.Errorf("failed to upsert part %s: %w", rec.PartNumber, err)
	}
	return nil
}

// UpsertBatch writes a batch of records inside one transaction.
func (r *PartRepository) UpsertBatch(ctx context.Context, recs []domain.PartRecord) (int, error) {
	written := 0
	err := r.db.WithTx(ctx, func(tx *sql.Tx) error {
		for _, rec := range recs {
			if rec.PartNumber == "" {
				continue
			}
			query, args, err := sqlx.Named(upsertPartQuery, rec)
			if err != nil {
				return fmt.Errorf("failed to bind part %s: %w", rec.PartNumber, err)
			}
			if _, err := tx.ExecContext(ctx, r.db.Rebind(query), args...); err != nil {
				return fmt.Errorf("failed to upsert part %s: %w", rec.PartNumber, err)
			}
			written++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return written, nil
}

// List returns the full catalog in insertion order.
func (r *PartRepository) List(ctx context.Context) (domain.CatalogSnapshot, error) {
	var rows []domain.PartRecord
	query := `
        SELECT part_number, description, supplier, packaging, storage_location,
               unit_of_measure, packaging_dimensions, reusable_packaging,
               usage_rate, min_inventory, max_inventory, lead_time,
               avg_lead_time_days, order_frequency_days, current_inventory,
               average_daily_usage, remaining_usage_time_days,
               reusable_packaging_lead_time_days, last_updated
        FROM parts
        ORDER BY id
    `
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("failed to list parts: %w", err)
	}
	return domain.CatalogSnapshot(rows), nil
}

// Delete removes a record by part number, reporting whether it existed.
func (r *PartRepository) Delete(ctx context.Context, partNumber string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM parts WHERE part_number = $1`, partNumber)
	if err != nil {
		return false, fmt.Errorf("failed to delete part %s: %w", partNumber, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
