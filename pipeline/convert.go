package pipeline

import (
	"time"

	"github.com/cockroachdb/errors"

	"github.com/vegasq/colflow/data"
)

// ErrConversion is returned at runtime when a strict conversion meets a
// value it cannot convert.
var ErrConversion = errors.New("conversion failed")

// ErrUnsupportedConversion is returned when no conversion exists between two types.
var ErrUnsupportedConversion = errors.New("unsupported conversion")

// TypeConverter converts one column to another type in place.
//
// When strict, a value that cannot be converted fails the pull. Otherwise
// the value is replaced by the default, or by null when there is no
// default.
type TypeConverter struct {
	Wrapper

	column       int
	schema       data.Schema
	convert      func(any) (any, error)
	defaultValue any
	strict       bool

	buffer ColumnBuffer
	cache  pullCache
}

// NewTypeConverter converts column to target. defaultValue, when non-nil,
// is parsed as the target type.
func NewTypeConverter(source Operator, column string, target data.ColumnType, defaultValue *string, strict bool) (*TypeConverter, error) {
	upstream := source.Schema()
	index, err := upstream.IndexOf(column)
	if err != nil {
		return nil, err
	}

	from := upstream[index].Type
	convert, err := converterFor(from, target)
	if err != nil {
		return nil, errors.Wrapf(err, "column %q", upstream[index].Name)
	}

	c := &TypeConverter{
		Wrapper: Wrapper{Source: source},
		column:  index,
		convert: convert,
		strict:  strict,
	}

	if defaultValue != nil {
		c.defaultValue, err = data.ParseValue(target, *defaultValue)
		if err != nil {
			return nil, errors.Wrap(err, "default value")
		}
	}

	c.schema = make(data.Schema, len(upstream))
	copy(c.schema, upstream)
	c.schema[index].Type = target
	c.schema[index].Nullable = upstream[index].Nullable || (!strict && defaultValue == nil)

	return c, nil
}

// Schema returns the upstream schema with the converted column retyped.
func (c *TypeConverter) Schema() data.Schema {
	return c.schema
}

// Next pulls from upstream and invalidates the converted batch.
func (c *TypeConverter) Next(desired int) (int, error) {
	c.cache.advance()
	return c.Source.Next(desired)
}

// ColumnGetter converts the target column; other columns pass through.
func (c *TypeConverter) ColumnGetter(index int) Getter {
	upstream := c.Source.ColumnGetter(index)
	if index != c.column || c.Source.Schema()[index].Type == c.schema[index].Type {
		return upstream
	}

	target := c.schema[index].Type
	name := c.schema[index].Name
	return c.cache.getter(index, func() (data.Batch, error) {
		batch, err := upstream()
		if err != nil {
			return data.Batch{}, err
		}

		nulls := c.buffer.ResetNulls()
		out := c.buffer.Array(target, batch.Count)
		for i := 0; i < batch.Count; i++ {
			if batch.IsNull(i) {
				nulls.Add(uint32(i))
				continue
			}

			value := batch.Value(i)
			converted, err := c.convert(value)
			if err != nil {
				if c.strict {
					return data.Batch{}, errors.Wrapf(ErrConversion, "column %q row %d: %q to %s: %v",
						name, i, data.FormatValue(value), target, err)
				}
				if c.defaultValue == nil {
					nulls.Add(uint32(i))
					continue
				}
				converted = c.defaultValue
			}
			setAt(out, i, converted)
		}

		return c.buffer.Batch(out, batch.Count), nil
	})
}

// converterFor returns the value conversion from one column type to another.
func converterFor(from, to data.ColumnType) (func(any) (any, error), error) {
	if from == to {
		return func(v any) (any, error) { return v, nil }, nil
	}

	switch {
	case from == data.String8:
		return func(v any) (any, error) { return data.ParseValue(to, v.(string)) }, nil
	case to == data.String8:
		return func(v any) (any, error) { return data.FormatValue(v), nil }, nil
	case from == data.Int && to == data.Bool:
		return func(v any) (any, error) { return v.(int64) != 0, nil }, nil
	case from == data.Bool && to == data.Int:
		return func(v any) (any, error) {
			if v.(bool) {
				return int64(1), nil
			}
			return int64(0), nil
		}, nil
	case from == data.Int && to == data.DateTime:
		return func(v any) (any, error) { return time.Unix(v.(int64), 0).UTC(), nil }, nil
	case from == data.DateTime && to == data.Int:
		return func(v any) (any, error) { return v.(time.Time).Unix(), nil }, nil
	default:
		return nil, errors.Wrapf(ErrUnsupportedConversion, "%s to %s", from, to)
	}
}
