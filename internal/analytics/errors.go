// internal/analytics/errors.go
package analytics

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyCatalog is returned when an analytics call receives a
	// zero-record snapshot. Nothing to report, not a fault.
	ErrEmptyCatalog = errors.New("catalog snapshot is empty")

	// ErrInsufficientData is returned by the forecaster when fewer than two
	// observations exist for the selected part.
	ErrInsufficientData = errors.New("insufficient data: at least 2 observations required")

	// ErrMalformedSnapshot is returned when a snapshot record is missing its
	// part number key. Uniqueness cannot be guaranteed, so the whole call fails.
	ErrMalformedSnapshot = errors.New("malformed snapshot: record without part number")

	// ErrUnknownOverstockRule is returned when a configured overstock rule
	// name does not resolve to a registered rule.
	ErrUnknownOverstockRule = errors.New("unknown overstock rule")
)

// malformedRecord wraps ErrMalformedSnapshot with the offending row index.
func malformedRecord(index int) error {
	return fmt.Errorf("row %d: %w", index, ErrMalformedSnapshot)
}
