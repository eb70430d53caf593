package pipeline

import (
	"strings"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/vegasq/colflow/data"
)

// WhereFilter keeps the rows whose column value satisfies a comparison
// against a literal. Surviving rows are exposed through an indirection
// over the upstream arrays; nothing is copied.
type WhereFilter struct {
	Wrapper

	getter    Getter
	predicate func(b data.Batch, matched []int) []int

	matched []int
	scratch map[int]*[]int
	cache   pullCache
}

// NewWhereFilter builds a filter on column. The literal is parsed as the
// column's type.
func NewWhereFilter(source Operator, column string, op CompareOperator, literal string) (*WhereFilter, error) {
	index, err := source.Schema().IndexOf(column)
	if err != nil {
		return nil, err
	}
	colType := source.Schema()[index].Type

	value, err := data.ParseValue(colType, literal)
	if err != nil {
		return nil, errors.Wrapf(err, "where %s", column)
	}

	var predicate func(b data.Batch, matched []int) []int
	switch colType {
	case data.Int:
		predicate = matchRows(comparer(op, value.(int64), compareOrdered[int64]))
	case data.String8:
		predicate = matchRows(comparer(op, value.(string), strings.Compare))
	case data.DateTime:
		predicate = matchRows(comparer(op, value.(time.Time), time.Time.Compare))
	case data.Bool:
		if op.ordered() {
			return nil, errors.Wrapf(ErrUnsupportedComparison, "%s on bool column %q", op, column)
		}
		predicate = matchRows(comparer(op, value.(bool), compareBools))
	}

	return &WhereFilter{
		Wrapper:   Wrapper{Source: source},
		getter:    source.ColumnGetter(index),
		predicate: predicate,
		scratch:   make(map[int]*[]int),
	}, nil
}

// matchRows appends the logical rows of b whose non-null value passes keep.
func matchRows[T any](keep func(T) bool) func(b data.Batch, matched []int) []int {
	return func(b data.Batch, matched []int) []int {
		values := data.Values[T](b)
		for i := 0; i < b.Count; i++ {
			if b.IsNull(i) {
				continue
			}
			if keep(values[b.Index(i)]) {
				matched = append(matched, i)
			}
		}
		return matched
	}
}

// Next pulls upstream until a pull has at least one surviving row or the
// upstream is exhausted.
func (f *WhereFilter) Next(desired int) (int, error) {
	f.cache.advance()
	for {
		count, err := f.Source.Next(desired)
		if err != nil {
			f.matched = f.matched[:0]
			return 0, err
		}
		if count == 0 {
			f.matched = f.matched[:0]
			return 0, nil
		}

		batch, err := f.getter()
		if err != nil {
			return 0, err
		}
		f.matched = f.predicate(batch, f.matched[:0])
		if len(f.matched) > 0 {
			return len(f.matched), nil
		}
	}
}

// ColumnGetter returns the upstream column seen through the surviving rows.
func (f *WhereFilter) ColumnGetter(index int) Getter {
	upstream := f.Source.ColumnGetter(index)
	scratch, ok := f.scratch[index]
	if !ok {
		scratch = new([]int)
		f.scratch[index] = scratch
	}

	return f.cache.getter(index, func() (data.Batch, error) {
		batch, err := upstream()
		if err != nil {
			return data.Batch{}, err
		}
		return data.Remap(batch, f.matched, scratch), nil
	})
}
