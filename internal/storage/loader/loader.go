package loader

import (
	"fmt"
	"io"

	"github.com/leengari/memtable/internal/domain/data"
	dberrors "github.com/leengari/memtable/internal/domain/errors"
)

// DataLoader yields fixed-width encoded rows and the column count they were
// encoded with. The engine reads a loader exactly once, at load time.
type DataLoader interface {
	NumCols() int
	Rows() ([][]byte, error)
}

// SliceLoader serves rows from in-memory field slices. Mostly useful in tests
// and small harnesses.
type SliceLoader struct {
	numCols int
	rows    [][]int32
}

func NewSliceLoader(numCols int, rows [][]int32) *SliceLoader {
	return &SliceLoader{numCols: numCols, rows: rows}
}

func (l *SliceLoader) NumCols() int { return l.numCols }

func (l *SliceLoader) Rows() ([][]byte, error) {
	out := make([][]byte, len(l.rows))
	for i, fields := range l.rows {
		if len(fields) != l.numCols {
			return nil, dberrors.NewFieldCountMismatch(i, len(fields), l.numCols)
		}
		out[i] = data.EncodeRow(fields)
	}
	return out, nil
}

// BinaryLoader serves rows from a raw stream of fixed-width fields with no
// framing: every numCols*FieldLen bytes is one row.
type BinaryLoader struct {
	numCols int
	raw     []byte
}

func NewBinaryLoader(r io.Reader, numCols int) (*BinaryLoader, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading row stream: %w", err)
	}
	return &BinaryLoader{numCols: numCols, raw: raw}, nil
}

func (l *BinaryLoader) NumCols() int { return l.numCols }

func (l *BinaryLoader) Rows() ([][]byte, error) {
	rowWidth := data.FieldLen * l.numCols
	if rowWidth == 0 {
		return nil, dberrors.NewColumnCountMismatch(0, 1)
	}
	if rem := len(l.raw) % rowWidth; rem != 0 {
		return nil, dberrors.NewFieldCountMismatch(len(l.raw)/rowWidth, rem/data.FieldLen, l.numCols)
	}
	rows := make([][]byte, len(l.raw)/rowWidth)
	for i := range rows {
		rows[i] = l.raw[i*rowWidth : (i+1)*rowWidth]
	}
	return rows, nil
}
