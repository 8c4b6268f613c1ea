package index

// CompositeKey is the immutable two-column key of the secondary index.
type CompositeKey struct {
	Col1 int32
	Col2 int32
}

// IntLess orders primary index keys ascending.
func IntLess(a, b int32) bool { return a < b }

// CompositeLess orders composite keys by Col1 descending, ties by Col2
// ascending. Under this order "Col1 > t1 AND Col2 < t2" is a forward scan
// that can stop for good at the first bucket with Col1 <= t1, while Col2 is
// filtered per bucket: buckets sharing a Col1 are only locally ordered by
// Col2, so the second axis never justifies terminating the scan.
func CompositeLess(a, b CompositeKey) bool {
	if a.Col1 != b.Col1 {
		return a.Col1 > b.Col1
	}
	return a.Col2 < b.Col2
}
