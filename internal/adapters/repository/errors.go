package repository

import (
	"errors"
	"fmt"
)

// Sentinel kinds for catalog errors.
var (
	// ErrDataFormat marks a catalog resource that is missing, unreadable or
	// structurally invalid.
	ErrDataFormat = errors.New("catalog data format")
)

// FormatError describes why a catalog resource was rejected.
// It matches ErrDataFormat with errors.Is.
type FormatError struct {
	Source   string // source name, e.g. "embedded:teams_data.json"
	Location string // JSON pointer of the offending value, empty if unknown
	Err      error
}

func (e *FormatError) Error() string {
	if e.Location != "" {
		return fmt.Sprintf("%s: %s at %s: %v", ErrDataFormat, e.Source, e.Location, e.Err)
	}
	return fmt.Sprintf("%s: %s: %v", ErrDataFormat, e.Source, e.Err)
}

func (e *FormatError) Unwrap() []error { return []error{ErrDataFormat, e.Err} }
