package pipeline

import (
	"github.com/vegasq/colflow/data"
)

// Getter returns the current batch of one column. The batch stays valid
// until the operator that produced the getter is pulled again.
type Getter func() (data.Batch, error)

// Operator is one stage of a pipeline.
//
// Schema is fixed once the operator is constructed. ColumnGetter may be
// called before the first pull; the returned Getter always yields the
// batch of the most recent pull. Next pulls up to desired rows (desired
// must be positive) and returns how many were produced; 0 means the stream
// is exhausted, and every later call returns 0 as well. Close releases
// owned resources and closes the upstream operator; calling it again is a
// no-op.
type Operator interface {
	Schema() data.Schema
	ColumnGetter(index int) Getter
	Next(desired int) (int, error)
	Close() error
}

// ColumnFunc computes one column from the given input columns of source.
type ColumnFunc func(source Operator, inputs []int) (data.Batch, error)

// Transformer rewrites the values of a string8 batch.
type Transformer interface {
	Transform(batch data.Batch) (data.Batch, error)
}

// Wrapper is the base of single-upstream operators. Everything passes
// through to Source unless the embedding operator overrides it.
type Wrapper struct {
	Source Operator
	closed bool
}

// Schema returns the upstream schema.
func (w *Wrapper) Schema() data.Schema {
	return w.Source.Schema()
}

// ColumnGetter returns the upstream getter.
func (w *Wrapper) ColumnGetter(index int) Getter {
	return w.Source.ColumnGetter(index)
}

// Next pulls from upstream.
func (w *Wrapper) Next(desired int) (int, error) {
	return w.Source.Next(desired)
}

// Close closes the upstream operator once.
func (w *Wrapper) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true
	if w.Source == nil {
		return nil
	}
	return w.Source.Close()
}
