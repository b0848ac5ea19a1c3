// internal/catalog/store.go
package catalog

import (
	"sync"
	"time"

	"github.com/Roxeraf/pfep/internal/domain"
)

// Store is the in-memory part catalog. It owns the one piece of mutable
// state in the system: an insertion-ordered set of PartRecords keyed by
// part number with true upsert semantics, so repeated edits can never
// produce duplicate keys.
//
// Analytics never touches the store directly; it gets an immutable
// Snapshot() per call, which makes concurrent requests safe without any
// locking on the computation side.
type Store struct {
	mu       sync.RWMutex
	order    []string
	records  map[string]domain.PartRecord
	revision uint64

	now func() time.Time
}

func NewStore() *Store {
	return &Store{
		records: make(map[string]domain.PartRecord),
		now:     time.Now,
	}
}

// Upsert inserts or replaces the record with the same part number, stamping
// LastUpdated. Insertion order is preserved for existing keys.
func (s *Store) Upsert(rec domain.PartRecord) domain.PartRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.upsertLocked(rec)
}

func (s *Store) upsertLocked(rec domain.PartRecord) domain.PartRecord {
	rec.LastUpdated = s.now()
	if _, exists := s.records[rec.PartNumber]; !exists {
		s.order = append(s.order, rec.PartNumber)
	}
	s.records[rec.PartNumber] = rec
	s.revision++
	return rec
}

// ImportRecords upserts a batch. When replace is true the catalog is cleared
// first, matching the "upload replaces the table" workflow; otherwise the
// batch merges into the existing catalog by part number.
func (s *Store) ImportRecords(recs []domain.PartRecord, replace bool) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	if replace {
		s.order = nil
		s.records = make(map[string]domain.PartRecord, len(recs))
	}
	for _, rec := range recs {
		if rec.PartNumber == "" {
			continue
		}
		s.upsertLocked(rec)
	}
	return len(s.order)
}

// Get returns the record for a part number.
func (s *Store) Get(partNumber string) (domain.PartRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.records[partNumber]
	return rec, ok
}

// Delete removes a record, reporting whether it existed.
func (s *Store) Delete(partNumber string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.records[partNumber]; !ok {
		return false
	}
	delete(s.records, partNumber)
	for i, pn := range s.order {
		if pn == partNumber {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	s.revision++
	return true
}

// Snapshot returns an immutable point-in-time copy of the catalog in
// insertion order. Callers may hand it to analytics or mutate their copy
// freely; the store is unaffected.
func (s *Store) Snapshot() domain.CatalogSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snapshot := make(domain.CatalogSnapshot, 0, len(s.order))
	for _, pn := range s.order {
		snapshot = append(snapshot, s.records[pn])
	}
	return snapshot
}

// Revision increases on every mutation; cache keys include it so stale
// entries simply stop being addressed.
func (s *Store) Revision() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.revision
}

// Len reports the number of records.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order)
}
