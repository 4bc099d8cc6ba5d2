package core

import (
	"errors"
	"fmt"
)

// Sentinel causes wrapped by LoadError.
var (
	ErrMissingColumn = errors.New("missing required column")
	ErrMalformedRow  = errors.New("malformed row")
	ErrEmptyDataset  = errors.New("dataset has no launch records")
)

// LoadError is returned when a dataset cannot be loaded from its source.
// A LoadError at startup is fatal: the dashboard does not serve requests.
type LoadError struct {
	Source string
	Err    error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("failed to load dataset from %s: %v", e.Source, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// MissingColumnError builds the error for a header lacking a required column.
func MissingColumnError(column string) error {
	return fmt.Errorf("%w %q", ErrMissingColumn, column)
}

// MalformedRowError builds the error for an unparsable row.
// Rows are numbered from 1, excluding the header.
func MalformedRowError(row int, reason string) error {
	return fmt.Errorf("%w %d: %s", ErrMalformedRow, row, reason)
}
