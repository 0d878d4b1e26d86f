package dataset

import (
	"errors"
	"fmt"
)

var (
	// ErrLookup is returned when a state name has no entry in the geographic lookup.
	ErrLookup = errors.New("region lookup failed")
	// ErrMalformedDate is returned when a daily row carries an unparseable date.
	ErrMalformedDate = errors.New("malformed date")
	// ErrMissingColumn is returned when a CSV header lacks a required column.
	ErrMissingColumn = errors.New("missing column")
)

// LookupError reports a state name that could not be resolved to a code.
type LookupError struct {
	Name string
	Row  int
}

func (e *LookupError) Error() string {
	if e.Row > 0 {
		return fmt.Sprintf("row %d: no region code for state %q", e.Row, e.Name)
	}
	return fmt.Sprintf("no region code for state %q", e.Name)
}

func (e *LookupError) Unwrap() error { return ErrLookup }

// DateError reports a daily row whose date field does not parse.
type DateError struct {
	Value string
	Row   int
}

func (e *DateError) Error() string {
	return fmt.Sprintf("row %d: cannot parse date %q", e.Row, e.Value)
}

func (e *DateError) Unwrap() error { return ErrMalformedDate }
