package pipeline

import (
	"reflect"

	"github.com/RoaringBitmap/roaring"
	"github.com/cockroachdb/errors"

	"github.com/vegasq/colflow/data"
)

// MemorySource serves fixed in-memory columns. Each column is a backing
// array matching its declared type; nulls, when given, hold the offsets
// that are null.
type MemorySource struct {
	schema  data.Schema
	columns []any
	nulls   []*roaring.Bitmap
	rows    int

	offset  int
	count   int
	indices []int

	// Pulls counts calls to Next; Closes counts calls to Close.
	Pulls  int
	Closes int
}

// NewMemorySource validates that every column has the same length and the
// backing type its schema entry declares.
func NewMemorySource(schema data.Schema, columns ...any) (*MemorySource, error) {
	if len(columns) != len(schema) {
		return nil, errors.Newf("%d columns for a schema of %d", len(columns), len(schema))
	}

	m := &MemorySource{
		schema:  schema,
		columns: columns,
		nulls:   make([]*roaring.Bitmap, len(columns)),
	}
	for i, column := range columns {
		want := schema[i].Type.NewArray(0)
		if reflect.TypeOf(want) != reflect.TypeOf(column) {
			return nil, errors.Newf("column %q: got %T, want %T", schema[i].Name, column, want)
		}
		n := data.ArrayLen(column)
		if i == 0 {
			m.rows = n
		} else if n != m.rows {
			return nil, errors.Newf("column %q has %d rows, expected %d", schema[i].Name, n, m.rows)
		}
	}
	return m, nil
}

// SetNulls marks the given rows of a column as null.
func (m *MemorySource) SetNulls(column int, rows ...uint32) {
	m.nulls[column] = roaring.BitmapOf(rows...)
}

// Schema returns the declared columns.
func (m *MemorySource) Schema() data.Schema {
	return m.schema
}

// ColumnGetter returns the rows of the current window.
func (m *MemorySource) ColumnGetter(index int) Getter {
	return func() (data.Batch, error) {
		b := data.Indirect(m.columns[index], m.indices[:m.count])
		return b.WithNulls(m.nulls[index]), nil
	}
}

// Next advances the window by up to desired rows.
func (m *MemorySource) Next(desired int) (int, error) {
	m.Pulls++
	m.offset += m.count
	m.count = min(desired, m.rows-m.offset)

	data.Allocate(&m.indices, m.count)
	for i := range m.count {
		m.indices[i] = m.offset + i
	}
	return m.count, nil
}

// Close records the call.
func (m *MemorySource) Close() error {
	m.Closes++
	return nil
}
