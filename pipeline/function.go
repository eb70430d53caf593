package pipeline

import (
	"github.com/vegasq/colflow/data"
)

// Function appends a column computed by a ColumnFunc over input columns.
type Function struct {
	Wrapper

	fn          ColumnFunc
	inputs      []int
	schema      data.Schema
	destination int
	cache       pullCache
}

// NewFunction adds destination, of type resultType, computed by fn from
// the named input columns.
func NewFunction(source Operator, fn ColumnFunc, resultType data.ColumnType, destination string, inputs []string) (*Function, error) {
	upstream := source.Schema()
	f := &Function{Wrapper: Wrapper{Source: source}, fn: fn}

	for _, name := range inputs {
		index, err := upstream.IndexOf(name)
		if err != nil {
			return nil, err
		}
		f.inputs = append(f.inputs, index)
	}

	schema, err := upstream.Append(data.ColumnDetails{Name: destination, Type: resultType, Nullable: true})
	if err != nil {
		return nil, err
	}
	f.schema = schema
	f.destination = len(schema) - 1

	return f, nil
}

// Schema returns the upstream schema plus the computed column.
func (f *Function) Schema() data.Schema {
	return f.schema
}

// Next pulls from upstream and invalidates the computed batch.
func (f *Function) Next(desired int) (int, error) {
	f.cache.advance()
	return f.Source.Next(desired)
}

// ColumnGetter computes the destination column once per pull.
func (f *Function) ColumnGetter(index int) Getter {
	if index != f.destination {
		return f.Source.ColumnGetter(index)
	}
	return f.cache.getter(index, func() (data.Batch, error) {
		return f.fn(f.Source, f.inputs)
	})
}
