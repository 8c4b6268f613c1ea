package engine

import (
	"github.com/leengari/memtable/internal/domain/data"
	dberrors "github.com/leengari/memtable/internal/domain/errors"
	"github.com/leengari/memtable/internal/domain/schema"
	"github.com/leengari/memtable/internal/storage/loader"
)

// ScanTable is an unindexed baseline: a bare backing buffer answering every
// query by a full scan. It exists for comparison runs and as the brute-force
// oracle the indexed engine is checked against.
type ScanTable struct {
	layout  data.Layout
	schema  schema.Schema
	numRows int
	buf     *data.Buffer
}

// NewRowTable creates a baseline table with a row-major backing store.
func NewRowTable(s schema.Schema) (*ScanTable, error) {
	return newScanTable(data.RowMajor, s)
}

// NewColumnTable creates a baseline table with a column-major backing store.
func NewColumnTable(s schema.Schema) (*ScanTable, error) {
	return newScanTable(data.ColumnMajor, s)
}

func newScanTable(layout data.Layout, s schema.Schema) (*ScanTable, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &ScanTable{layout: layout, schema: s}, nil
}

func (t *ScanTable) NumRows() int { return t.numRows }

func (t *ScanTable) NumCols() int { return t.schema.NumCols }

// Load fills the backing buffer. No derived structures exist to build.
func (t *ScanTable) Load(l loader.DataLoader) error {
	if got := l.NumCols(); got != t.schema.NumCols {
		return dberrors.NewColumnCountMismatch(got, t.schema.NumCols)
	}
	rows, err := l.Rows()
	if err != nil {
		return err
	}
	t.numRows = len(rows)
	t.buf = data.NewBuffer(t.layout, t.numRows, t.schema.NumCols)
	rowWidth := data.FieldLen * t.schema.NumCols
	for rowID, row := range rows {
		if len(row) != rowWidth {
			return dberrors.NewFieldCountMismatch(rowID, len(row)/data.FieldLen, t.schema.NumCols)
		}
		for col := 0; col < t.schema.NumCols; col++ {
			t.buf.Put(rowID, col, data.FieldAt(row, col))
		}
	}
	return nil
}

func (t *ScanTable) checkRange(row, col int) error {
	if row < 0 || row >= t.numRows {
		return dberrors.NewRowOutOfRange(row, t.numRows)
	}
	if col < 0 || col >= t.schema.NumCols {
		return dberrors.NewColumnOutOfRange(col, t.schema.NumCols)
	}
	return nil
}

func (t *ScanTable) GetIntField(row, col int) (int32, error) {
	if err := t.checkRange(row, col); err != nil {
		return 0, err
	}
	return t.buf.Get(row, col), nil
}

func (t *ScanTable) PutIntField(row, col int, value int32) error {
	if err := t.checkRange(row, col); err != nil {
		return err
	}
	t.buf.Put(row, col, value)
	return nil
}

func (t *ScanTable) ColumnSum() int64 {
	var sum int64
	for row := 0; row < t.numRows; row++ {
		sum += int64(t.buf.Get(row, t.schema.SumColumn))
	}
	return sum
}

func (t *ScanTable) PredicatedColumnSum(threshold1, threshold2 int32) int64 {
	c1, c2 := t.schema.CompositeColumns[0], t.schema.CompositeColumns[1]
	var sum int64
	for row := 0; row < t.numRows; row++ {
		if t.buf.Get(row, c1) > threshold1 && t.buf.Get(row, c2) < threshold2 {
			sum += int64(t.buf.Get(row, t.schema.SumColumn))
		}
	}
	return sum
}

func (t *ScanTable) PredicatedAllColumnsSum(threshold int32) int64 {
	var sum int64
	for row := 0; row < t.numRows; row++ {
		if t.buf.Get(row, t.schema.PrimaryColumn) <= threshold {
			continue
		}
		for col := 0; col < t.schema.NumCols; col++ {
			sum += int64(t.buf.Get(row, col))
		}
	}
	return sum
}

func (t *ScanTable) PredicatedUpdate(threshold int32) int {
	s := t.schema
	count := 0
	for row := 0; row < t.numRows; row++ {
		if t.buf.Get(row, s.PrimaryColumn) >= threshold {
			continue
		}
		src := t.buf.Get(row, s.UpdateSource)
		dst := t.buf.Get(row, s.UpdateTarget)
		t.buf.Put(row, s.UpdateTarget, src+dst)
		count++
	}
	return count
}
