package schema

import "fmt"

// Schema describes which column feeds which derived structure. The engine
// reads column roles from here instead of hard-coding column numbers, so the
// four query templates keep their semantics for any column arrangement.
type Schema struct {
	NumCols          int    // total columns per row
	PrimaryColumn    int    // column keying the primary index
	CompositeColumns [2]int // column pair keying the secondary index
	SumColumn        int    // column tracked by the running total and the secondary aggregate
	UpdateSource     int    // column read by the bulk update
	UpdateTarget     int    // column written by the bulk update
}

// Canonical returns the four-column layout the query templates were designed
// for: col0 keys the primary index and feeds the running total, (col1, col2)
// key the secondary index, and the bulk update applies col3 += col2.
func Canonical() Schema {
	return Schema{
		NumCols:          4,
		PrimaryColumn:    0,
		CompositeColumns: [2]int{1, 2},
		SumColumn:        0,
		UpdateSource:     2,
		UpdateTarget:     3,
	}
}

// Validate checks that every column role refers to a real column and that the
// composite pair is two distinct columns.
func (s Schema) Validate() error {
	if s.NumCols < 1 {
		return fmt.Errorf("schema needs at least one column, got %d", s.NumCols)
	}
	roles := map[string]int{
		"primary":          s.PrimaryColumn,
		"composite first":  s.CompositeColumns[0],
		"composite second": s.CompositeColumns[1],
		"sum":              s.SumColumn,
		"update source":    s.UpdateSource,
		"update target":    s.UpdateTarget,
	}
	for role, col := range roles {
		if col < 0 || col >= s.NumCols {
			return fmt.Errorf("%s column %d out of range [0,%d)", role, col, s.NumCols)
		}
	}
	if s.CompositeColumns[0] == s.CompositeColumns[1] {
		return fmt.Errorf("composite columns must be distinct, both are %d", s.CompositeColumns[0])
	}
	return nil
}

// IsComposite reports whether col is one of the composite key columns.
func (s Schema) IsComposite(col int) bool {
	return col == s.CompositeColumns[0] || col == s.CompositeColumns[1]
}
