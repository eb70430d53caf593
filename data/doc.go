// Package data defines the columnar batch model shared by every pipeline stage.
//
// A pull from an operator produces, for each column, a Batch: a backing
// array, a row count and an optional indirection that maps logical rows to
// physical offsets. Filters express their result by building a new
// indirection over the upstream array rather than copying values:
//
//	values := []int64{20, 25, 30}
//	all := data.All(values, 3)
//	adults := data.Remap(all, []int{1, 2}, &scratch)
//	data.Get[int64](adults, 0) // 25
//
// Column metadata is described by ColumnDetails and an ordered Schema.
// Schema lookups compare names case-insensitively and fail with
// ErrColumnNotFound.
package data
