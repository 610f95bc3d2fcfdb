package storage

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when no entity matches the requested ID, or when a
// referenced file is missing from disk.
var ErrNotFound = errors.New("not found")

// QuotaError reports that an upload was rejected because it would push total
// storage past the configured limit. Used and Limit are in bytes.
type QuotaError struct {
	Used  int64
	Limit int64
}

func (e *QuotaError) Error() string {
	return fmt.Sprintf("storage quota exceeded: using %.1fMB of %.0fMB", toMB(e.Used), toMB(e.Limit))
}

// ValidationError reports caller-supplied input the storage layer cannot use,
// such as a file name that is empty once sanitized.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func toMB(n int64) float64 {
	return float64(n) / (1 << 20)
}
