package loader

import (
	"bytes"
	"fmt"
	"os"

	"github.com/leengari/memtable/internal/domain/data"
	dberrors "github.com/leengari/memtable/internal/domain/errors"
)

// CSVLoader parses a file of comma-separated integers, one row per line.
// The column count is taken from the first row; every later row must match.
type CSVLoader struct {
	numCols int
	rows    [][]byte
}

var comma = []byte{','}

func NewCSVLoader(path string) (*CSVLoader, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return parseCSV(content)
}

func parseCSV(content []byte) (*CSVLoader, error) {
	l := &CSVLoader{}
	rowID := 0
	for len(content) > 0 {
		line, rest, _ := bytes.Cut(content, []byte{'\n'})
		content = rest
		line = bytes.TrimSuffix(line, []byte{'\r'})
		if len(line) == 0 {
			continue
		}

		fields, err := parseIntLine(line)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", rowID, err)
		}
		if l.numCols == 0 {
			l.numCols = len(fields)
		} else if len(fields) != l.numCols {
			return nil, dberrors.NewFieldCountMismatch(rowID, len(fields), l.numCols)
		}
		l.rows = append(l.rows, data.EncodeRow(fields))
		rowID++
	}
	return l, nil
}

func parseIntLine(line []byte) ([]int32, error) {
	var fields []int32
	for {
		field, rest, more := bytes.Cut(line, comma)
		v, err := parseInt(bytes.TrimSpace(field))
		if err != nil {
			return nil, err
		}
		fields = append(fields, v)
		if !more {
			return fields, nil
		}
		line = rest
	}
}

func parseInt(b []byte) (int32, error) {
	if len(b) == 0 {
		return 0, fmt.Errorf("empty field")
	}
	neg := false
	if b[0] == '-' {
		neg = true
		b = b[1:]
		if len(b) == 0 {
			return 0, fmt.Errorf("invalid integer %q", "-")
		}
	}
	var n int64
	for _, c := range b {
		if c < '0' || c > '9' {
			return 0, fmt.Errorf("invalid integer %q", b)
		}
		n = n*10 + int64(c-'0')
		if n > 1<<31 {
			return 0, fmt.Errorf("integer %q overflows field width", b)
		}
	}
	if neg {
		n = -n
	}
	if n < -1<<31 || n > 1<<31-1 {
		return 0, fmt.Errorf("integer %q overflows field width", b)
	}
	return int32(n), nil
}

func (l *CSVLoader) NumCols() int { return l.numCols }

func (l *CSVLoader) Rows() ([][]byte, error) { return l.rows, nil }
