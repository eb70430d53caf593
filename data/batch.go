package data

import (
	"github.com/RoaringBitmap/roaring"
)

// Batch is a view over the rows of one column produced by a single pull.
//
// Array is the backing slice ([]int64, []bool, []time.Time or []string).
// When Indices is non-nil, logical row i lives at Array[Indices[i]];
// otherwise it lives at Array[i]. Nulls, when non-nil, holds the physical
// offsets whose value is null, so it stays valid under any indirection.
//
// A Batch is a snapshot: its contents are only valid until the operator
// that produced it is pulled again.
type Batch struct {
	Array   any
	Indices []int
	Count   int
	Nulls   *roaring.Bitmap
}

// All returns a batch over the first count entries of array, without indirection.
func All(array any, count int) Batch {
	return Batch{Array: array, Count: count}
}

// Indirect returns a batch that reads array through indices.
func Indirect(array any, indices []int) Batch {
	return Batch{Array: array, Indices: indices, Count: len(indices)}
}

// WithNulls returns a copy of the batch carrying the given null bitmap.
func (b Batch) WithNulls(nulls *roaring.Bitmap) Batch {
	b.Nulls = nulls
	return b
}

// Index returns the physical offset of logical row i.
func (b Batch) Index(i int) int {
	if b.Indices != nil {
		return b.Indices[i]
	}
	return i
}

// IsNull reports whether logical row i is null.
func (b Batch) IsNull(i int) bool {
	if b.Nulls == nil {
		return false
	}
	return b.Nulls.Contains(uint32(b.Index(i)))
}

// HasNulls reports whether any physical offset is marked null.
func (b Batch) HasNulls() bool {
	return b.Nulls != nil && !b.Nulls.IsEmpty()
}

// Value returns the boxed value of logical row i, or nil when it is null.
func (b Batch) Value(i int) any {
	if b.IsNull(i) {
		return nil
	}
	return ValueAt(b.Array, b.Index(i))
}

// Remap selects the given logical rows of b. The resulting indirection
// points straight into b's backing array, so chains of filters never
// produce more than one level of indirection. scratch is reused as the
// storage for the new indices.
func Remap(b Batch, logical []int, scratch *[]int) Batch {
	Allocate(scratch, len(logical))
	indices := (*scratch)[:len(logical)]
	for i, row := range logical {
		indices[i] = b.Index(row)
	}
	return Batch{Array: b.Array, Indices: indices, Count: len(indices), Nulls: b.Nulls}
}

// Values returns the typed backing array of the batch. The caller must
// still go through Index to honor the indirection.
func Values[T any](b Batch) []T {
	values, _ := b.Array.([]T)
	return values
}

// Get returns the typed value of logical row i.
func Get[T any](b Batch, i int) T {
	return Values[T](b)[b.Index(i)]
}
