package output

import (
	"os"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/parquet-go/parquet-go"
	"github.com/parquet-go/parquet-go/compress"

	"github.com/vegasq/colflow/data"
	"github.com/vegasq/colflow/pipeline"
)

// ParquetWriter writes every row pulled through it to a parquet file and
// passes the rows on unchanged.
//
// The file schema is a flat group, which parquet orders by column name, so
// a file read back lists its columns alphabetically.
type ParquetWriter struct {
	pipeline.Wrapper

	path    string
	schema  *parquet.Schema
	codec   compress.Codec
	opened  bool
	file    *os.File
	writer  *parquet.Writer
	getters []pipeline.Getter
	leaves  []int
	levels  []int
	encode  []func(data.Batch, int) parquet.Value
	rows    []parquet.Row
}

// NewParquetWriter writes to path with a schema derived from source. The
// file is created on the first pull.
func NewParquetWriter(source pipeline.Operator, path string, opts Options) (*ParquetWriter, error) {
	codec, err := CompressionCodec(opts.Compression)
	if err != nil {
		return nil, err
	}

	schema := source.Schema()
	group := make(parquet.Group, len(schema))
	for _, col := range schema {
		node := parquetNode(col.Type)
		if col.Nullable {
			node = parquet.Optional(node)
		}
		group[col.Name] = node
	}
	pqSchema := parquet.NewSchema("colflow", group)

	w := &ParquetWriter{
		Wrapper: pipeline.Wrapper{Source: source},
		path:    path,
		schema:  pqSchema,
		codec:   codec,
		getters: make([]pipeline.Getter, len(schema)),
		leaves:  make([]int, len(schema)),
		levels:  make([]int, len(schema)),
		encode:  make([]func(data.Batch, int) parquet.Value, len(schema)),
	}
	for i, col := range schema {
		leaf, ok := pqSchema.Lookup(col.Name)
		if !ok {
			return nil, errors.Newf("column %q missing from parquet schema", col.Name)
		}
		w.leaves[i] = leaf.ColumnIndex
		if col.Nullable {
			w.levels[i] = 1
		}
		w.encode[i] = encoder(col.Type)
		w.getters[i] = source.ColumnGetter(i)
	}

	return w, nil
}

func (w *ParquetWriter) open() error {
	w.opened = true
	file, err := os.Create(w.path)
	if err != nil {
		return errors.Wrap(err, "failed to create file")
	}
	w.file = file
	w.writer = parquet.NewWriter(file, w.schema, parquet.Compression(w.codec))
	return nil
}

func parquetNode(t data.ColumnType) parquet.Node {
	switch t {
	case data.Int:
		return parquet.Int(64)
	case data.Bool:
		return parquet.Leaf(parquet.BooleanType)
	case data.DateTime:
		return parquet.Timestamp(parquet.Nanosecond)
	default:
		return parquet.String()
	}
}

func encoder(t data.ColumnType) func(data.Batch, int) parquet.Value {
	switch t {
	case data.Int:
		return func(b data.Batch, i int) parquet.Value { return parquet.Int64Value(data.Get[int64](b, i)) }
	case data.Bool:
		return func(b data.Batch, i int) parquet.Value { return parquet.BooleanValue(data.Get[bool](b, i)) }
	case data.DateTime:
		return func(b data.Batch, i int) parquet.Value {
			return parquet.Int64Value(data.Get[time.Time](b, i).UnixNano())
		}
	default:
		return func(b data.Batch, i int) parquet.Value {
			return parquet.ByteArrayValue([]byte(data.Get[string](b, i)))
		}
	}
}

// Next pulls from upstream and writes the rows.
func (w *ParquetWriter) Next(desired int) (int, error) {
	if !w.opened {
		if err := w.open(); err != nil {
			return 0, err
		}
	}
	if w.file == nil {
		return 0, errors.New("parquet writer is closed")
	}

	n, err := w.Source.Next(desired)
	if err != nil || n == 0 {
		return n, err
	}

	batches := make([]data.Batch, len(w.getters))
	for i, get := range w.getters {
		if batches[i], err = get(); err != nil {
			return 0, err
		}
	}

	data.Allocate(&w.rows, n)
	for row := 0; row < n; row++ {
		record := w.rows[row][:0]
		for range w.leaves {
			record = append(record, parquet.Value{})
		}
		for i, b := range batches {
			leaf := w.leaves[i]
			if b.IsNull(row) {
				record[leaf] = parquet.NullValue().Level(0, 0, leaf)
				continue
			}
			record[leaf] = w.encode[i](b, row).Level(0, w.levels[i], leaf)
		}
		w.rows[row] = record
	}

	if _, err := w.writer.WriteRows(w.rows[:n]); err != nil {
		return 0, errors.Wrap(err, "failed to write rows")
	}
	return n, nil
}

// Close writes the file footer, closes the file, then closes the upstream.
// A writer that was never pulled leaves no file behind.
func (w *ParquetWriter) Close() error {
	if w.file == nil {
		return w.Wrapper.Close()
	}

	err := w.writer.Close()
	err = errors.CombineErrors(err, w.file.Close())
	w.file = nil
	return errors.CombineErrors(err, w.Wrapper.Close())
}
