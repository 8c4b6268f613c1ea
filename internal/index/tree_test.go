package index

import (
	"reflect"
	"testing"
)

func TestAddCreatesAndAccumulates(t *testing.T) {
	tr := NewTree(IntLess)
	tr.Add(5, 0, 10)
	tr.Add(5, 1, 20)
	tr.Add(3, 2, 7)

	if tr.Len() != 2 {
		t.Fatalf("Len = %d, want 2", tr.Len())
	}
	b, ok := tr.Get(5)
	if !ok {
		t.Fatal("bucket 5 missing")
	}
	if b.Agg != 30 {
		t.Errorf("bucket 5 agg = %d, want 30", b.Agg)
	}
	if got := b.Rows.GetCardinality(); got != 2 {
		t.Errorf("bucket 5 cardinality = %d, want 2", got)
	}
}

func TestRemoveDeletesEmptyBucket(t *testing.T) {
	tr := NewTree(IntLess)
	tr.Add(5, 0, 10)
	tr.Add(5, 1, 20)

	tr.Remove(5, 0, 10)
	b, ok := tr.Get(5)
	if !ok || b.Agg != 20 {
		t.Fatalf("bucket 5 after partial remove: ok=%v agg=%v", ok, b)
	}

	tr.Remove(5, 1, 20)
	if _, ok := tr.Get(5); ok {
		t.Error("empty bucket 5 should be deleted")
	}
	if tr.Len() != 0 {
		t.Errorf("Len = %d, want 0", tr.Len())
	}
}

func TestRemoveNonMemberPanics(t *testing.T) {
	tr := NewTree(IntLess)
	tr.Add(5, 0, 10)
	defer func() {
		if recover() == nil {
			t.Error("removing a non-member row should panic")
		}
	}()
	tr.Remove(5, 99, 0)
}

func TestAdjustMissingBucketPanics(t *testing.T) {
	tr := NewTree(IntLess)
	defer func() {
		if recover() == nil {
			t.Error("adjusting a missing bucket should panic")
		}
	}()
	tr.Adjust(42, 1)
}

func TestAdjustInPlace(t *testing.T) {
	tr := NewTree(IntLess)
	tr.Add(5, 0, 10)
	tr.Adjust(5, -4)
	b, _ := tr.Get(5)
	if b.Agg != 6 {
		t.Errorf("agg = %d, want 6", b.Agg)
	}
}

func TestIntAscendDescend(t *testing.T) {
	tr := NewTree(IntLess)
	for i, k := range []int32{7, 3, 9, 3, 1} {
		tr.Add(k, uint32(i), 1)
	}

	var asc []int32
	tr.Ascend(func(b *Bucket[int32]) bool {
		asc = append(asc, b.Key)
		return true
	})
	if want := []int32{1, 3, 7, 9}; !reflect.DeepEqual(asc, want) {
		t.Errorf("ascend order = %v, want %v", asc, want)
	}

	var desc []int32
	tr.Descend(func(b *Bucket[int32]) bool {
		desc = append(desc, b.Key)
		return true
	})
	if want := []int32{9, 7, 3, 1}; !reflect.DeepEqual(desc, want) {
		t.Errorf("descend order = %v, want %v", desc, want)
	}
}

func TestAscendEarlyTermination(t *testing.T) {
	tr := NewTree(IntLess)
	for i, k := range []int32{1, 2, 3, 4, 5} {
		tr.Add(k, uint32(i), 1)
	}
	var visited []int32
	tr.Ascend(func(b *Bucket[int32]) bool {
		if b.Key >= 3 {
			return false
		}
		visited = append(visited, b.Key)
		return true
	})
	if want := []int32{1, 2}; !reflect.DeepEqual(visited, want) {
		t.Errorf("visited = %v, want %v", visited, want)
	}
}

func TestCompositeOrder(t *testing.T) {
	tr := NewTree(CompositeLess)
	keys := []CompositeKey{
		{Col1: 5, Col2: 5},
		{Col1: 1, Col2: 1},
		{Col1: 5, Col2: 1},
		{Col1: 1, Col2: 5},
	}
	for i, k := range keys {
		tr.Add(k, uint32(i), 1)
	}

	var order []CompositeKey
	tr.Ascend(func(b *Bucket[CompositeKey]) bool {
		order = append(order, b.Key)
		return true
	})
	want := []CompositeKey{
		{Col1: 5, Col2: 1},
		{Col1: 5, Col2: 5},
		{Col1: 1, Col2: 1},
		{Col1: 1, Col2: 5},
	}
	if !reflect.DeepEqual(order, want) {
		t.Errorf("composite order = %v, want %v", order, want)
	}
}

func TestCompositeRebucketing(t *testing.T) {
	// A key change is always remove-then-reinsert; the bucket for the old key
	// must not retain the row.
	tr := NewTree(CompositeLess)
	old := CompositeKey{Col1: 5, Col2: 2}
	next := CompositeKey{Col1: 8, Col2: 2}
	tr.Add(old, 0, 3)
	tr.Remove(old, 0, 3)
	tr.Add(next, 0, 3)

	if _, ok := tr.Get(old); ok {
		t.Error("old bucket should be gone")
	}
	b, ok := tr.Get(next)
	if !ok || b.Agg != 3 || !b.Rows.Contains(0) {
		t.Errorf("new bucket wrong: ok=%v bucket=%+v", ok, b)
	}
}
