package pipeline

import (
	"github.com/cockroachdb/errors"

	"github.com/vegasq/colflow/data"
)

// ErrTypeMismatch is returned when a stage is applied to a column of the wrong type.
var ErrTypeMismatch = errors.New("column type mismatch")

// String8Transform appends a string8 column produced by running a
// Transformer over a string8 source column.
type String8Transform struct {
	Wrapper

	transformer Transformer
	column      int
	destination int
	schema      data.Schema
	cache       pullCache
}

// NewString8Transform writes transformer(column) into destination.
func NewString8Transform(source Operator, transformer Transformer, column, destination string) (*String8Transform, error) {
	upstream := source.Schema()
	index, err := upstream.IndexOf(column)
	if err != nil {
		return nil, err
	}
	if upstream[index].Type != data.String8 {
		return nil, errors.Wrapf(ErrTypeMismatch, "column %q is %s, expected string8", upstream[index].Name, upstream[index].Type)
	}

	schema, err := upstream.Append(data.ColumnDetails{Name: destination, Type: data.String8, Nullable: true})
	if err != nil {
		return nil, err
	}

	return &String8Transform{
		Wrapper:     Wrapper{Source: source},
		transformer: transformer,
		column:      index,
		destination: len(schema) - 1,
		schema:      schema,
	}, nil
}

// Schema returns the upstream schema plus the transformed column.
func (s *String8Transform) Schema() data.Schema {
	return s.schema
}

// Next pulls from upstream and invalidates the transformed batch.
func (s *String8Transform) Next(desired int) (int, error) {
	s.cache.advance()
	return s.Source.Next(desired)
}

// ColumnGetter transforms the source column once per pull.
func (s *String8Transform) ColumnGetter(index int) Getter {
	if index != s.destination {
		return s.Source.ColumnGetter(index)
	}

	upstream := s.Source.ColumnGetter(s.column)
	return s.cache.getter(index, func() (data.Batch, error) {
		batch, err := upstream()
		if err != nil {
			return data.Batch{}, err
		}
		return s.transformer.Transform(batch)
	})
}
