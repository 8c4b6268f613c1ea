package data

import "encoding/binary"

// FieldLen is the width in bytes of one encoded field.
const FieldLen = 4

// Layout selects how a flat buffer maps (row, col) pairs to byte offsets.
// The choice affects cache locality of scans, not correctness.
type Layout int

const (
	// RowMajor lays fields out row by row: row 0 | row 1 | ... | row n.
	RowMajor Layout = iota
	// ColumnMajor lays fields out column by column: col 0 | col 1 | ... | col m.
	ColumnMajor
)

func (l Layout) String() string {
	if l == ColumnMajor {
		return "column-major"
	}
	return "row-major"
}

// Offset returns the byte offset of field (row, col) in a buffer holding
// numRows x numCols fixed-width fields under this layout.
func (l Layout) Offset(row, col, numRows, numCols int) int {
	if l == ColumnMajor {
		return (col*numRows + row) * FieldLen
	}
	return (row*numCols + col) * FieldLen
}

// Buffer is a flat backing store of numRows x numCols fixed-width signed
// integers. Fields are encoded big-endian.
type Buffer struct {
	layout  Layout
	numRows int
	numCols int
	buf     []byte
}

// NewBuffer allocates a zeroed buffer for numRows x numCols fields.
func NewBuffer(layout Layout, numRows, numCols int) *Buffer {
	return &Buffer{
		layout:  layout,
		numRows: numRows,
		numCols: numCols,
		buf:     make([]byte, FieldLen*numRows*numCols),
	}
}

func (b *Buffer) NumRows() int { return b.numRows }

func (b *Buffer) NumCols() int { return b.numCols }

// Get reads the field at (row, col). Bounds are the caller's responsibility.
func (b *Buffer) Get(row, col int) int32 {
	off := b.layout.Offset(row, col, b.numRows, b.numCols)
	return int32(binary.BigEndian.Uint32(b.buf[off:]))
}

// Put writes the field at (row, col). Bounds are the caller's responsibility.
func (b *Buffer) Put(row, col int, v int32) {
	off := b.layout.Offset(row, col, b.numRows, b.numCols)
	binary.BigEndian.PutUint32(b.buf[off:], uint32(v))
}

// FieldAt decodes the i-th field of a fixed-width encoded row.
func FieldAt(row []byte, i int) int32 {
	return int32(binary.BigEndian.Uint32(row[i*FieldLen:]))
}

// EncodeRow encodes the given fields into a fixed-width row.
func EncodeRow(fields []int32) []byte {
	row := make([]byte, FieldLen*len(fields))
	for i, v := range fields {
		binary.BigEndian.PutUint32(row[i*FieldLen:], uint32(v))
	}
	return row
}
