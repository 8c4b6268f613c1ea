package engine

import (
	"time"

	"github.com/google/uuid"

	"github.com/leengari/memtable/internal/domain/data"
	dberrors "github.com/leengari/memtable/internal/domain/errors"
	"github.com/leengari/memtable/internal/domain/schema"
	"github.com/leengari/memtable/internal/index"
	"github.com/leengari/memtable/internal/storage/loader"
)

// IndexedTable is the indexed, incrementally maintained storage engine. It
// owns a column-major backing buffer, a per-row sum cache, an ordered primary
// index keyed by the primary column, and an ordered secondary index keyed by
// the composite column pair. Every point write flows through a single repair
// routine that keeps all four structures mutually consistent.
//
// The table is single-threaded: operations run to completion before the next
// begins, and no other component may mutate its structures.
type IndexedTable struct {
	schema  schema.Schema
	numRows int
	buf     *data.Buffer
	rowSums []int64

	// primary maps a primary-column value to its rows; bucket aggregate is
	// the sum of rowSums over members.
	primary *index.Tree[int32]
	// secondary maps a (col1, col2) pair to its rows; bucket aggregate is the
	// sum of the sum-column value over members. Ordered col1-descending,
	// col2-ascending.
	secondary *index.Tree[index.CompositeKey]
	// sumTotal is the running total of the sum column across all rows.
	sumTotal int64

	observers []Observer
}

// NewIndexedTable creates an empty table for the given schema.
func NewIndexedTable(s schema.Schema) (*IndexedTable, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &IndexedTable{
		schema:    s,
		primary:   index.NewTree(index.IntLess),
		secondary: index.NewTree(index.CompositeLess),
	}, nil
}

func (t *IndexedTable) NumRows() int { return t.numRows }

func (t *IndexedTable) NumCols() int { return t.schema.NumCols }

// AddObserver registers an observer to receive lifecycle events
func (t *IndexedTable) AddObserver(observer Observer) {
	t.observers = append(t.observers, observer)
}

// notify sends an event to all registered observers
func (t *IndexedTable) notify(event Event) {
	event.Timestamp = time.Now()
	for _, observer := range t.observers {
		observer.OnEvent(event)
	}
}

// Load builds every structure in one pass over the loader's rows: backing
// buffer, row-sum cache, both indexes, and the running total. A field count
// mismatch aborts the load.
func (t *IndexedTable) Load(l loader.DataLoader) error {
	opID := uuid.New().String()
	t.notify(Event{Type: EventLoadStart, OpID: opID})

	if got := l.NumCols(); got != t.schema.NumCols {
		return dberrors.NewColumnCountMismatch(got, t.schema.NumCols)
	}
	rows, err := l.Rows()
	if err != nil {
		return err
	}

	s := t.schema
	t.numRows = len(rows)
	t.buf = data.NewBuffer(data.ColumnMajor, t.numRows, s.NumCols)
	t.rowSums = make([]int64, t.numRows)
	t.primary = index.NewTree(index.IntLess)
	t.secondary = index.NewTree(index.CompositeLess)
	t.sumTotal = 0

	rowWidth := data.FieldLen * s.NumCols
	for rowID, row := range rows {
		if len(row) != rowWidth {
			return dberrors.NewFieldCountMismatch(rowID, len(row)/data.FieldLen, s.NumCols)
		}
		var rowSum int64
		for col := 0; col < s.NumCols; col++ {
			v := data.FieldAt(row, col)
			t.buf.Put(rowID, col, v)
			rowSum += int64(v)
		}
		t.rowSums[rowID] = rowSum

		sumVal := int64(t.buf.Get(rowID, s.SumColumn))
		t.primary.Add(t.buf.Get(rowID, s.PrimaryColumn), uint32(rowID), rowSum)
		t.secondary.Add(t.compositeKey(rowID), uint32(rowID), sumVal)
		t.sumTotal += sumVal
	}

	t.notify(Event{Type: EventLoadEnd, OpID: opID, Data: t.numRows})
	return nil
}

func (t *IndexedTable) compositeKey(row int) index.CompositeKey {
	return index.CompositeKey{
		Col1: t.buf.Get(row, t.schema.CompositeColumns[0]),
		Col2: t.buf.Get(row, t.schema.CompositeColumns[1]),
	}
}

func (t *IndexedTable) checkRange(row, col int) error {
	if row < 0 || row >= t.numRows {
		return dberrors.NewRowOutOfRange(row, t.numRows)
	}
	if col < 0 || col >= t.schema.NumCols {
		return dberrors.NewColumnOutOfRange(col, t.schema.NumCols)
	}
	return nil
}

// GetIntField returns the field at (row, col) with no side effects.
func (t *IndexedTable) GetIntField(row, col int) (int32, error) {
	if err := t.checkRange(row, col); err != nil {
		return 0, err
	}
	return t.buf.Get(row, col), nil
}

// PutIntField writes value at (row, col) and repairs the row-sum cache, both
// indexes, and the running total. Writing the current value is a no-op.
func (t *IndexedTable) PutIntField(row, col int, value int32) error {
	if err := t.checkRange(row, col); err != nil {
		return err
	}
	t.put(row, col, value)
	return nil
}

// put is the repair entry point. Arguments are already range-checked.
func (t *IndexedTable) put(row, col int, value int32) {
	old := t.buf.Get(row, col)
	if old == value {
		return
	}
	s := t.schema
	rid := uint32(row)
	delta := int64(value) - int64(old)

	oldRowSum := t.rowSums[row]
	t.buf.Put(row, col, value)
	newRowSum := oldRowSum + delta
	t.rowSums[row] = newRowSum

	if col == s.PrimaryColumn {
		// The row moves buckets. The old bucket loses the row's pre-update
		// row sum, the new bucket gains the post-update one.
		t.primary.Remove(old, rid, oldRowSum)
		t.primary.Add(value, rid, newRowSum)
	} else {
		// Membership unchanged, but the row sum moved by delta.
		t.primary.Adjust(t.buf.Get(row, s.PrimaryColumn), delta)
	}

	if s.IsComposite(col) {
		// The composite key changed: remove-then-reinsert, never mutate a
		// live key. The contribution is the sum-column value as it was while
		// the row sat in the old bucket.
		newSum := int64(t.buf.Get(row, s.SumColumn))
		oldSum := newSum
		if col == s.SumColumn {
			oldSum = newSum - delta
		}
		oldKey := t.compositeKey(row)
		if col == s.CompositeColumns[0] {
			oldKey.Col1 = old
		} else {
			oldKey.Col2 = old
		}
		t.secondary.Remove(oldKey, rid, oldSum)
		t.secondary.Add(t.compositeKey(row), rid, newSum)
	} else if col == s.SumColumn {
		// Value update in place: the key pair is untouched but the tracked
		// column contributes delta more to its bucket.
		t.secondary.Adjust(t.compositeKey(row), delta)
	}

	if col == s.SumColumn {
		t.sumTotal += delta
	}
}

// ColumnSum returns the running total of the sum column. O(1).
func (t *IndexedTable) ColumnSum() int64 {
	return t.sumTotal
}

// PredicatedColumnSum scans the secondary index in its natural order. The
// col1-descending order lets the scan stop for good at the first bucket with
// Col1 <= threshold1; buckets failing the col2 predicate are skipped, not
// terminal, since col2 is only locally ordered within one col1 value.
func (t *IndexedTable) PredicatedColumnSum(threshold1, threshold2 int32) int64 {
	opID := uuid.New().String()
	t.notify(Event{Type: EventQueryStart, OpID: opID, Data: "predicated_column_sum"})

	var sum int64
	t.secondary.Ascend(func(b *index.Bucket[index.CompositeKey]) bool {
		if b.Key.Col1 <= threshold1 {
			return false
		}
		if b.Key.Col2 >= threshold2 {
			return true
		}
		sum += b.Agg
		return true
	})

	t.notify(Event{Type: EventQueryEnd, OpID: opID, Data: sum})
	return sum
}

// PredicatedAllColumnsSum scans the primary index in descending key order,
// stopping at the first key <= threshold, and sums bucket row-sum aggregates.
func (t *IndexedTable) PredicatedAllColumnsSum(threshold int32) int64 {
	opID := uuid.New().String()
	t.notify(Event{Type: EventQueryStart, OpID: opID, Data: "predicated_all_columns_sum"})

	var sum int64
	t.primary.Descend(func(b *index.Bucket[int32]) bool {
		if b.Key <= threshold {
			return false
		}
		sum += b.Agg
		return true
	})

	t.notify(Event{Type: EventQueryEnd, OpID: opID, Data: sum})
	return sum
}

// PredicatedUpdate applies target += source to every row whose primary key is
// below threshold. Qualifying row ids are captured before any write: the
// writes adjust aggregates of buckets the selecting scan already visited
// (membership never changes, the primary column is untouched), and the tree
// must not be mutated mid-iteration.
func (t *IndexedTable) PredicatedUpdate(threshold int32) int {
	opID := uuid.New().String()
	t.notify(Event{Type: EventUpdateStart, OpID: opID, Data: threshold})

	var rows []uint32
	t.primary.Ascend(func(b *index.Bucket[int32]) bool {
		if b.Key >= threshold {
			return false
		}
		b.Rows.Iterate(func(r uint32) bool {
			rows = append(rows, r)
			return true
		})
		return true
	})

	s := t.schema
	for _, r := range rows {
		row := int(r)
		src := t.buf.Get(row, s.UpdateSource)
		dst := t.buf.Get(row, s.UpdateTarget)
		t.put(row, s.UpdateTarget, src+dst)
	}

	t.notify(Event{Type: EventUpdateEnd, OpID: opID, Data: len(rows)})
	return len(rows)
}
