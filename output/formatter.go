package output

import (
	"io"
	"slices"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/vegasq/colflow/data"
	"github.com/vegasq/colflow/pipeline"
)

// ErrUnknownFormat is returned for a formatter name that is not supported.
var ErrUnknownFormat = errors.New("unknown output format")

// Formatter defines the interface for result formatters.
//
// Format drains source and writes every row in the formatter's format. It
// does not close source.
type Formatter interface {
	// Format writes all rows of source
	Format(source pipeline.Operator) error

	// SetOutput changes the output writer
	SetOutput(w io.Writer)
}

var formatters = map[string]func(w io.Writer, batchSize int) Formatter{
	"table": func(w io.Writer, batchSize int) Formatter { return &TableFormatter{writer: w, batchSize: batchSize} },
	"csv":   func(w io.Writer, batchSize int) Formatter { return &CSVFormatter{writer: w, batchSize: batchSize} },
	"jsonl": func(w io.Writer, batchSize int) Formatter { return &JSONFormatter{writer: w, batchSize: batchSize} },
}

// Formats returns the supported formatter names, sorted.
func Formats() []string {
	names := make([]string, 0, len(formatters))
	for name := range formatters {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// NewFormatter returns the named formatter writing to w. A non-positive
// batchSize selects pipeline.DefaultBatchSize.
func NewFormatter(name string, w io.Writer, batchSize int) (Formatter, error) {
	build, ok := formatters[strings.ToLower(name)]
	if !ok {
		return nil, errors.Wrapf(ErrUnknownFormat, "%q (expected one of %s)", name, strings.Join(Formats(), ", "))
	}
	if batchSize <= 0 {
		batchSize = pipeline.DefaultBatchSize
	}
	return build(w, batchSize), nil
}

// drain pulls source to exhaustion, handing each pull's batches to emit.
func drain(source pipeline.Operator, batchSize int, emit func(batches []data.Batch, count int) error) error {
	if batchSize <= 0 {
		batchSize = pipeline.DefaultBatchSize
	}
	schema := source.Schema()
	getters := make([]pipeline.Getter, len(schema))
	for i := range schema {
		getters[i] = source.ColumnGetter(i)
	}

	batches := make([]data.Batch, len(schema))
	for {
		n, err := source.Next(batchSize)
		if err != nil {
			return err
		}
		if n == 0 {
			return nil
		}
		for i, get := range getters {
			if batches[i], err = get(); err != nil {
				return errors.Wrapf(err, "column %q", schema[i].Name)
			}
		}
		if err := emit(batches, n); err != nil {
			return err
		}
	}
}
