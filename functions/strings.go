package functions

import (
	"strings"
	"unicode/utf8"

	"github.com/cockroachdb/errors"

	"github.com/vegasq/colflow/data"
	"github.com/vegasq/colflow/pipeline"
)

// inputBatches fetches the current batch of every input column.
func inputBatches(source pipeline.Operator, inputs []int) ([]data.Batch, error) {
	batches := make([]data.Batch, len(inputs))
	for i, index := range inputs {
		batch, err := source.ColumnGetter(index)()
		if err != nil {
			return nil, errors.Wrapf(err, "input %d", i)
		}
		batches[i] = batch
	}
	return batches, nil
}

// textAt returns logical row i of b as text. Non-string columns are
// formatted the way sinks write them. ok is false for null.
func textAt(b data.Batch, i int) (text string, ok bool) {
	if b.IsNull(i) {
		return "", false
	}
	if values, isString := b.Array.([]string); isString {
		return values[b.Index(i)], true
	}
	return data.FormatValue(data.ValueAt(b.Array, b.Index(i))), true
}

func exactly(name string, want int, inputs []int) error {
	if len(inputs) != want {
		return errors.Wrapf(ErrArity, "%s takes %d inputs, got %d", name, want, len(inputs))
	}
	return nil
}

// mapString builds a one-input function applying f to every non-null value.
func mapString(f func(string) string) func() pipeline.ColumnFunc {
	return func() pipeline.ColumnFunc {
		var buffer pipeline.ColumnBuffer
		return func(source pipeline.Operator, inputs []int) (data.Batch, error) {
			if err := exactly("string function", 1, inputs); err != nil {
				return data.Batch{}, err
			}
			batches, err := inputBatches(source, inputs)
			if err != nil {
				return data.Batch{}, err
			}

			in := batches[0]
			nulls := buffer.ResetNulls()
			out := buffer.Array(data.String8, in.Count).([]string)
			for i := 0; i < in.Count; i++ {
				text, ok := textAt(in, i)
				if !ok {
					nulls.Add(uint32(i))
					continue
				}
				out[i] = f(text)
			}
			return buffer.Batch(out, in.Count), nil
		}
	}
}

// newLength counts the characters of each value.
func newLength() pipeline.ColumnFunc {
	var buffer pipeline.ColumnBuffer
	return func(source pipeline.Operator, inputs []int) (data.Batch, error) {
		if err := exactly("String.Length", 1, inputs); err != nil {
			return data.Batch{}, err
		}
		batches, err := inputBatches(source, inputs)
		if err != nil {
			return data.Batch{}, err
		}

		in := batches[0]
		nulls := buffer.ResetNulls()
		out := buffer.Array(data.Int, in.Count).([]int64)
		for i := 0; i < in.Count; i++ {
			text, ok := textAt(in, i)
			if !ok {
				nulls.Add(uint32(i))
				continue
			}
			out[i] = int64(utf8.RuneCountInString(text))
		}
		return buffer.Batch(out, in.Count), nil
	}
}

// newConcat joins its inputs row by row. Null inputs contribute nothing;
// the result is null only when every input is null.
func newConcat() pipeline.ColumnFunc {
	var (
		buffer  pipeline.ColumnBuffer
		builder strings.Builder
	)
	return func(source pipeline.Operator, inputs []int) (data.Batch, error) {
		if len(inputs) == 0 {
			return data.Batch{}, errors.Wrap(ErrArity, "String.Concat takes at least 1 input")
		}
		batches, err := inputBatches(source, inputs)
		if err != nil {
			return data.Batch{}, err
		}

		count := batches[0].Count
		nulls := buffer.ResetNulls()
		out := buffer.Array(data.String8, count).([]string)
		for i := 0; i < count; i++ {
			builder.Reset()
			present := false
			for _, b := range batches {
				if text, ok := textAt(b, i); ok {
					builder.WriteString(text)
					present = true
				}
			}
			if !present {
				nulls.Add(uint32(i))
				out[i] = ""
				continue
			}
			out[i] = builder.String()
		}
		return buffer.Batch(out, count), nil
	}
}
