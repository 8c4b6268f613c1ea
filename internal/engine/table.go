package engine

import "github.com/leengari/memtable/internal/storage/loader"

// Table is the contract shared by the indexed engine and the baseline scan
// tables. All implementations answer the same four query templates; they
// differ only in how much work each answer costs.
type Table interface {
	// Load builds the table from the loader in a single pass. It fails if a
	// row's field count does not match the loader's declared column count.
	Load(l loader.DataLoader) error

	// GetIntField returns the field at (row, col).
	GetIntField(row, col int) (int32, error)

	// PutIntField writes value at (row, col), repairing every derived
	// structure before returning.
	PutIntField(row, col int, value int32) error

	// ColumnSum implements SELECT SUM(col0) FROM table.
	ColumnSum() int64

	// PredicatedColumnSum implements
	// SELECT SUM(col0) FROM table WHERE col1 > threshold1 AND col2 < threshold2.
	PredicatedColumnSum(threshold1, threshold2 int32) int64

	// PredicatedAllColumnsSum implements
	// SELECT SUM(col0) + ... + SUM(coln) FROM table WHERE col0 > threshold.
	PredicatedAllColumnsSum(threshold int32) int64

	// PredicatedUpdate implements
	// UPDATE(col3 = col3 + col2) WHERE col0 < threshold, returning the number
	// of rows updated.
	PredicatedUpdate(threshold int32) int
}
