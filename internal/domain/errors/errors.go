package errors

import "fmt"

// RangeError reports a row or column access outside the table bounds.
// The access is rejected before any state is touched.
type RangeError struct {
	Kind  string // "row" or "column"
	Index int    // requested index
	Limit int    // exclusive upper bound
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("%s %d out of range [0,%d)", e.Kind, e.Index, e.Limit)
}

func NewRowOutOfRange(row, numRows int) *RangeError {
	return &RangeError{Kind: "row", Index: row, Limit: numRows}
}

func NewColumnOutOfRange(col, numCols int) *RangeError {
	return &RangeError{Kind: "column", Index: col, Limit: numCols}
}

// LoadError reports malformed input at load time. Load aborts on the first
// bad row rather than silently truncating.
type LoadError struct {
	Row    int // offending row index (-1 if not row-specific)
	Got    int
	Want   int
	Reason string
}

func (e *LoadError) Error() string {
	if e.Row >= 0 {
		return fmt.Sprintf("load: row %d: %s (got %d, want %d)", e.Row, e.Reason, e.Got, e.Want)
	}
	return fmt.Sprintf("load: %s (got %d, want %d)", e.Reason, e.Got, e.Want)
}

func NewFieldCountMismatch(row, got, want int) *LoadError {
	return &LoadError{Row: row, Got: got, Want: want, Reason: "field count mismatch"}
}

func NewColumnCountMismatch(got, want int) *LoadError {
	return &LoadError{Row: -1, Got: got, Want: want, Reason: "column count mismatch"}
}
