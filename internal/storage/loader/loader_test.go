package loader

import (
	"bytes"
	"errors"
	"testing"

	"github.com/leengari/memtable/internal/domain/data"
	dberrors "github.com/leengari/memtable/internal/domain/errors"
)

func TestSliceLoader(t *testing.T) {
	l := NewSliceLoader(4, [][]int32{
		{3, 5, 2, 0},
		{7, 1, 9, 0},
	})
	rows, err := l.Rows()
	if err != nil {
		t.Fatalf("Rows: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}
	if got := data.FieldAt(rows[1], 2); got != 9 {
		t.Errorf("row 1 col 2 = %d, want 9", got)
	}
}

func TestSliceLoaderFieldCountMismatch(t *testing.T) {
	l := NewSliceLoader(4, [][]int32{
		{3, 5, 2, 0},
		{7, 1},
	})
	_, err := l.Rows()
	var le *dberrors.LoadError
	if !errors.As(err, &le) {
		t.Fatalf("want LoadError, got %v", err)
	}
	if le.Row != 1 || le.Got != 2 || le.Want != 4 {
		t.Errorf("unexpected load error detail: %+v", le)
	}
}

func TestBinaryLoader(t *testing.T) {
	raw := append(data.EncodeRow([]int32{1, 2, 3, 4}), data.EncodeRow([]int32{-5, 6, -7, 8})...)
	l, err := NewBinaryLoader(bytes.NewReader(raw), 4)
	if err != nil {
		t.Fatalf("NewBinaryLoader: %v", err)
	}
	rows, err := l.Rows()
	if err != nil {
		t.Fatalf("Rows: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}
	if got := data.FieldAt(rows[1], 0); got != -5 {
		t.Errorf("row 1 col 0 = %d, want -5", got)
	}
}

func TestBinaryLoaderTruncated(t *testing.T) {
	raw := data.EncodeRow([]int32{1, 2, 3}) // 3 fields, not 4
	l, err := NewBinaryLoader(bytes.NewReader(raw), 4)
	if err != nil {
		t.Fatalf("NewBinaryLoader: %v", err)
	}
	if _, err := l.Rows(); err == nil {
		t.Error("expected error for truncated stream")
	}
}

func TestParseCSV(t *testing.T) {
	l, err := parseCSV([]byte("3,5,2,0\n7,1,9,0\r\n-3, 8 ,1,0\n\n"))
	if err != nil {
		t.Fatalf("parseCSV: %v", err)
	}
	if l.NumCols() != 4 {
		t.Fatalf("NumCols = %d, want 4", l.NumCols())
	}
	rows, _ := l.Rows()
	if len(rows) != 3 {
		t.Fatalf("got %d rows, want 3", len(rows))
	}
	if got := data.FieldAt(rows[2], 0); got != -3 {
		t.Errorf("row 2 col 0 = %d, want -3", got)
	}
	if got := data.FieldAt(rows[2], 1); got != 8 {
		t.Errorf("row 2 col 1 = %d, want 8", got)
	}
}

func TestParseCSVErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"ragged row", "1,2,3,4\n5,6,7\n"},
		{"junk field", "1,2,x,4\n"},
		{"bare minus", "1,-,3,4\n"},
		{"overflow", "1,2,3,99999999999\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := parseCSV([]byte(tt.input)); err == nil {
				t.Error("expected parse error, got nil")
			}
		})
	}
}

func TestParseInt(t *testing.T) {
	tests := []struct {
		in   string
		want int32
	}{
		{"0", 0},
		{"123", 123},
		{"-123", -123},
		{"2147483647", 2147483647},
		{"-2147483648", -2147483648},
	}
	for _, tt := range tests {
		got, err := parseInt([]byte(tt.in))
		if err != nil {
			t.Errorf("parseInt(%q): %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("parseInt(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
	if _, err := parseInt([]byte("2147483648")); err == nil {
		t.Error("expected overflow error for 2147483648")
	}
}
