package pipeline

import (
	"github.com/vegasq/colflow/data"
)

var schemaColumns = data.Schema{
	{Name: "Name", Type: data.String8},
	{Name: "Type", Type: data.String8},
	{Name: "Nullable", Type: data.Bool},
}

// SchemaTransformer replaces the data stream with one row per upstream
// column describing its name, type and nullability. The upstream is
// never pulled.
type SchemaTransformer struct {
	Wrapper

	names    []string
	types    []string
	nullable []bool

	offset int
	count  int
}

// NewSchemaTransformer describes the schema of source.
func NewSchemaTransformer(source Operator) *SchemaTransformer {
	upstream := source.Schema()
	s := &SchemaTransformer{
		Wrapper:  Wrapper{Source: source},
		names:    make([]string, len(upstream)),
		types:    make([]string, len(upstream)),
		nullable: make([]bool, len(upstream)),
	}
	for i, col := range upstream {
		s.names[i] = col.Name
		s.types[i] = col.Type.String()
		s.nullable[i] = col.Nullable
	}
	return s
}

// Schema returns the Name, Type, Nullable description columns.
func (s *SchemaTransformer) Schema() data.Schema {
	return schemaColumns
}

// ColumnGetter returns the current window of the description rows.
func (s *SchemaTransformer) ColumnGetter(index int) Getter {
	return func() (data.Batch, error) {
		end := s.offset + s.count
		switch index {
		case 0:
			return data.All(s.names[s.offset:end], s.count), nil
		case 1:
			return data.All(s.types[s.offset:end], s.count), nil
		default:
			return data.All(s.nullable[s.offset:end], s.count), nil
		}
	}
}

// Next advances through the description rows.
func (s *SchemaTransformer) Next(desired int) (int, error) {
	s.offset += s.count
	remaining := len(s.names) - s.offset
	if desired > remaining {
		desired = remaining
	}
	s.count = desired
	return s.count, nil
}
