// Package index provides the ordered-map-with-aggregate primitive shared by
// the table engine's indexes: an ordered mapping from a key to the set of row
// ids holding that key, plus a running aggregate maintained alongside the
// membership.
package index

import (
	"fmt"

	"github.com/RoaringBitmap/roaring"
	"github.com/tidwall/btree"
)

// Bucket is one index entry: the rows sharing a key and their aggregate.
// The key never changes while the bucket is in a tree; key changes are
// expressed as remove-then-reinsert by the caller.
type Bucket[K any] struct {
	Key  K
	Rows *roaring.Bitmap
	Agg  int64
}

// Tree is an ordered map from keys to buckets. Iteration order is defined by
// the comparator passed at construction, which lets a caller pick the order
// that makes its range predicate resolvable with early termination.
//
// The tree is not safe for concurrent use; the engine owns it exclusively.
type Tree[K any] struct {
	tr *btree.BTreeG[*Bucket[K]]
}

func NewTree[K any](less func(a, b K) bool) *Tree[K] {
	byKey := func(a, b *Bucket[K]) bool { return less(a.Key, b.Key) }
	return &Tree[K]{tr: btree.NewBTreeGOptions(byKey, btree.Options{NoLocks: true})}
}

// Len returns the number of non-empty buckets.
func (t *Tree[K]) Len() int { return t.tr.Len() }

// Get returns the bucket for key, or (nil, false) when no row holds the key.
func (t *Tree[K]) Get(key K) (*Bucket[K], bool) {
	return t.tr.Get(&Bucket[K]{Key: key})
}

// Add inserts row into the bucket for key, creating the bucket when absent,
// and grows the bucket aggregate by delta.
func (t *Tree[K]) Add(key K, row uint32, delta int64) {
	b, ok := t.Get(key)
	if !ok {
		b = &Bucket[K]{Key: key, Rows: roaring.New()}
		t.tr.Set(b)
	}
	b.Rows.Add(row)
	b.Agg += delta
}

// Remove takes row out of the bucket for key and shrinks the aggregate by
// delta, deleting the bucket once empty. Removing a row that is not a member
// means the incremental maintenance protocol has desynchronized the index
// from the backing store, which is unrecoverable.
func (t *Tree[K]) Remove(key K, row uint32, delta int64) {
	b, ok := t.Get(key)
	if !ok || !b.Rows.Contains(row) {
		panic(fmt.Sprintf("index desync: row %d not in bucket %v", row, key))
	}
	b.Rows.Remove(row)
	b.Agg -= delta
	if b.Rows.IsEmpty() {
		t.tr.Delete(b)
	}
}

// Adjust grows the aggregate of an existing bucket in place. Used when a
// row's value contribution changes without the row changing buckets.
func (t *Tree[K]) Adjust(key K, delta int64) {
	b, ok := t.Get(key)
	if !ok {
		panic(fmt.Sprintf("index desync: no bucket %v to adjust", key))
	}
	b.Agg += delta
}

// Ascend visits buckets in comparator order until fn returns false.
func (t *Tree[K]) Ascend(fn func(*Bucket[K]) bool) {
	t.tr.Scan(fn)
}

// Descend visits buckets in reverse comparator order until fn returns false.
func (t *Tree[K]) Descend(fn func(*Bucket[K]) bool) {
	t.tr.Reverse(fn)
}
