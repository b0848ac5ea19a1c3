package catalog

import (
	"testing"
	"time"

	"github.com/Roxeraf/pfep/internal/domain"
)

func TestStore_UpsertByKey(t *testing.T) {
	s := NewStore()

	s.Upsert(domain.PartRecord{PartNumber: "P1", Supplier: "Acme"})
	s.Upsert(domain.PartRecord{PartNumber: "P2", Supplier: "Borealis"})
	// Editing P1 must replace it, not append a duplicate row.
	s.Upsert(domain.PartRecord{PartNumber: "P1", Supplier: "Acme", Description: "updated"})

	if s.Len() != 2 {
		t.Fatalf("expected 2 records after re-upsert, got %d", s.Len())
	}

	snapshot := s.Snapshot()
	if snapshot[0].PartNumber != "P1" || snapshot[1].PartNumber != "P2" {
		t.Fatalf("insertion order not preserved: %+v", snapshot)
	}
	if snapshot[0].Description != "updated" {
		t.Fatalf("upsert did not replace record: %+v", snapshot[0])
	}
}

func TestStore_StampsLastUpdated(t *testing.T) {
	s := NewStore()
	fixed := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return fixed }

	rec := s.Upsert(domain.PartRecord{PartNumber: "P1"})
	if !rec.LastUpdated.Equal(fixed) {
		t.Fatalf("expected LastUpdated %v, got %v", fixed, rec.LastUpdated)
	}
}

func TestStore_SnapshotIsACopy(t *testing.T) {
	s := NewStore()
	s.Upsert(domain.PartRecord{PartNumber: "P1", Supplier: "Acme"})

	snapshot := s.Snapshot()
	snapshot[0].Supplier = "mutated"

	if got, _ := s.Get("P1"); got.Supplier != "Acme" {
		t.Fatalf("snapshot mutation leaked into store: %+v", got)
	}
}

func TestStore_ImportReplaceAndMerge(t *testing.T) {
	s := NewStore()
	s.Upsert(domain.PartRecord{PartNumber: "OLD"})

	n := s.ImportRecords([]domain.PartRecord{
		{PartNumber: "P1"},
		{PartNumber: "P2"},
		{PartNumber: ""}, // keyless rows are dropped at the storage boundary
		{PartNumber: "P1", Description: "second occurrence wins"},
	}, true)

	if n != 2 {
		t.Fatalf("expected 2 records after replace import, got %d", n)
	}
	if _, ok := s.Get("OLD"); ok {
		t.Fatal("replace import kept a pre-existing record")
	}
	if got, _ := s.Get("P1"); got.Description != "second occurrence wins" {
		t.Fatalf("duplicate key in batch was not upserted: %+v", got)
	}

	s.ImportRecords([]domain.PartRecord{{PartNumber: "P3"}}, false)
	if s.Len() != 3 {
		t.Fatalf("merge import should keep existing records, got %d", s.Len())
	}
}

func TestStore_RevisionAdvancesOnMutation(t *testing.T) {
	s := NewStore()
	r0 := s.Revision()

	s.Upsert(domain.PartRecord{PartNumber: "P1"})
	r1 := s.Revision()
	if r1 == r0 {
		t.Fatal("revision did not advance on upsert")
	}

	s.Delete("P1")
	if s.Revision() == r1 {
		t.Fatal("revision did not advance on delete")
	}
	if s.Len() != 0 {
		t.Fatalf("delete left %d records", s.Len())
	}
}
