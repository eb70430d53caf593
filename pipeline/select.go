package pipeline

import (
	"github.com/cockroachdb/errors"

	"github.com/vegasq/colflow/data"
)

// ColumnSelector projects the upstream to the named columns, in order.
type ColumnSelector struct {
	Wrapper

	mapping []int
	schema  data.Schema
}

// NewColumnSelector resolves columns against the upstream schema.
func NewColumnSelector(source Operator, columns []string) (*ColumnSelector, error) {
	upstream := source.Schema()
	s := &ColumnSelector{
		Wrapper: Wrapper{Source: source},
		mapping: make([]int, 0, len(columns)),
		schema:  make(data.Schema, 0, len(columns)),
	}

	for _, name := range columns {
		index, err := upstream.IndexOf(name)
		if err != nil {
			return nil, err
		}
		if _, err := s.schema.IndexOf(upstream[index].Name); err == nil {
			return nil, errors.Wrapf(data.ErrDuplicateColumn, "%q selected twice", name)
		}
		s.mapping = append(s.mapping, index)
		s.schema = append(s.schema, upstream[index])
	}

	return s, nil
}

// Schema returns the selected columns.
func (s *ColumnSelector) Schema() data.Schema {
	return s.schema
}

// ColumnGetter delegates to the upstream column.
func (s *ColumnSelector) ColumnGetter(index int) Getter {
	return s.Source.ColumnGetter(s.mapping[index])
}
