package kpi

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrMissingColumn matches any MissingColumnError via errors.Is.
	ErrMissingColumn = errors.New("missing column")
	// ErrSummaryUnavailable is returned when the executive summary lacks its inputs.
	ErrSummaryUnavailable = errors.New("executive summary unavailable")
)

// MissingColumnError names every column an aggregation needed but the dataset lacks.
type MissingColumnError struct {
	Columns []string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("missing column(s): %s", strings.Join(e.Columns, ", "))
}

func (e *MissingColumnError) Is(target error) bool { return target == ErrMissingColumn }

// ComputationError reports a non-numeric cell in a column that must be numeric.
// Row is 1-based and counts data rows only.
type ComputationError struct {
	Column string
	Row    int
	Value  interface{}
}

func (e *ComputationError) Error() string {
	return fmt.Sprintf("column %q row %d: value %q is not numeric", e.Column, e.Row, fmt.Sprint(e.Value))
}
