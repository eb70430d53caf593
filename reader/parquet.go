package reader

import (
	"io"
	"os"
	"strconv"
	"time"

	"github.com/RoaringBitmap/roaring"
	"github.com/cockroachdb/errors"
	"github.com/parquet-go/parquet-go"

	"github.com/vegasq/colflow/data"
	"github.com/vegasq/colflow/pipeline"
)

// ParquetReader streams the rows of a parquet file as batches.
//
// It keeps both the OS file handle and the parquet row reader open until
// Close.
type ParquetReader struct {
	file   *os.File
	rows   *parquet.Reader
	fields []FieldInfo
	decode []func(parquet.Value) any
	schema data.Schema

	buffer  []parquet.Row
	columns []pipeline.ColumnBuffer
	arrays  []any
	nulls   []*roaring.Bitmap
	count   int
	done    bool
	closed  bool
}

// OpenParquet opens path and maps its schema onto columns.
//
// Example:
//
//	source, err := reader.OpenParquet("data.parquet")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer source.Close()
func OpenParquet(path string) (*ParquetReader, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open file")
	}

	stat, err := file.Stat()
	if err != nil {
		_ = file.Close()
		return nil, errors.Wrap(err, "failed to stat file")
	}

	pqFile, err := parquet.OpenFile(file, stat.Size())
	if err != nil {
		_ = file.Close()
		return nil, errors.Wrapf(err, "failed to open parquet file %s", path)
	}

	fields, err := DescribeFields(pqFile.Schema())
	if err != nil {
		_ = file.Close()
		return nil, errors.Wrap(err, path)
	}

	r := &ParquetReader{
		file:    file,
		rows:    parquet.NewReader(pqFile),
		fields:  fields,
		decode:  make([]func(parquet.Value) any, len(fields)),
		schema:  make(data.Schema, len(fields)),
		columns: make([]pipeline.ColumnBuffer, len(fields)),
		arrays:  make([]any, len(fields)),
		nulls:   make([]*roaring.Bitmap, len(fields)),
	}
	leaves := pqFile.Schema().Fields()
	for i, info := range fields {
		r.schema[i] = info.Column
		r.decode[i] = decoder(leaves[i], info.Column.Type)
	}
	return r, nil
}

// Fields returns the parquet metadata of every column.
func (r *ParquetReader) Fields() []FieldInfo {
	return r.fields
}

// Schema returns the columns mapped from the parquet schema.
func (r *ParquetReader) Schema() data.Schema {
	return r.schema
}

// ColumnGetter returns the column values of the most recent pull.
func (r *ParquetReader) ColumnGetter(index int) pipeline.Getter {
	return func() (data.Batch, error) {
		if r.arrays[index] == nil {
			return data.All(r.schema[index].Type.NewArray(0), 0), nil
		}
		return r.columns[index].Batch(r.arrays[index], r.count), nil
	}
}

// Next reads up to desired rows into the column buffers.
func (r *ParquetReader) Next(desired int) (int, error) {
	r.count = 0
	if r.done {
		return 0, nil
	}

	data.Allocate(&r.buffer, desired)
	n, err := r.rows.ReadRows(r.buffer)
	if err != nil && !errors.Is(err, io.EOF) {
		return 0, errors.Wrap(err, "failed to read rows")
	}
	if errors.Is(err, io.EOF) {
		r.done = true
	}

	for col := range r.schema {
		r.nulls[col] = r.columns[col].ResetNulls()
		r.arrays[col] = r.columns[col].Array(r.schema[col].Type, n)
	}
	for i, row := range r.buffer[:n] {
		for _, value := range row {
			col := value.Column()
			if col < 0 || col >= len(r.schema) {
				return 0, errors.Newf("row %d has a value for unknown column %d", i, col)
			}
			if value.IsNull() {
				r.nulls[col].Add(uint32(i))
				continue
			}
			setValue(r.arrays[col], i, r.decode[col](value))
		}
	}

	r.count = n
	return n, nil
}

// Close closes the row reader and the file. Calling it again is a no-op.
func (r *ParquetReader) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true
	return errors.CombineErrors(r.rows.Close(), r.file.Close())
}

// decoder returns the conversion from a parquet value to the column's Go value.
func decoder(field parquet.Field, t data.ColumnType) func(parquet.Value) any {
	switch t {
	case data.Bool:
		return func(v parquet.Value) any { return v.Boolean() }
	case data.Int:
		if field.Type().Kind() == parquet.Int32 {
			return func(v parquet.Value) any { return int64(v.Int32()) }
		}
		return func(v parquet.Value) any { return v.Int64() }
	case data.DateTime:
		return timeDecoder(field)
	}

	switch field.Type().Kind() {
	case parquet.Boolean:
		return func(v parquet.Value) any { return strconv.FormatBool(v.Boolean()) }
	case parquet.Int32:
		return func(v parquet.Value) any { return strconv.FormatInt(int64(v.Int32()), 10) }
	case parquet.Int64:
		return func(v parquet.Value) any { return strconv.FormatInt(v.Int64(), 10) }
	case parquet.Float:
		return func(v parquet.Value) any { return strconv.FormatFloat(float64(v.Float()), 'g', -1, 32) }
	case parquet.Double:
		return func(v parquet.Value) any { return strconv.FormatFloat(v.Double(), 'g', -1, 64) }
	case parquet.ByteArray, parquet.FixedLenByteArray:
		return func(v parquet.Value) any { return string(v.ByteArray()) }
	default:
		return func(v parquet.Value) any { return v.String() }
	}
}

// timeDecoder reads DATE as days and TIMESTAMP in its annotated unit.
func timeDecoder(field parquet.Field) func(parquet.Value) any {
	lt := field.Type().LogicalType()
	if lt != nil && lt.Date != nil {
		return func(v parquet.Value) any {
			return time.Unix(int64(v.Int32())*86400, 0).UTC()
		}
	}

	unit := time.Millisecond
	if lt != nil && lt.Timestamp != nil {
		switch {
		case lt.Timestamp.Unit.Nanos != nil:
			unit = time.Nanosecond
		case lt.Timestamp.Unit.Micros != nil:
			unit = time.Microsecond
		}
	}
	return func(v parquet.Value) any {
		return time.Unix(0, v.Int64()*int64(unit)).UTC()
	}
}

// setValue stores a decoded value into a typed column array.
func setValue(array any, i int, v any) {
	switch a := array.(type) {
	case []int64:
		a[i], _ = v.(int64)
	case []bool:
		a[i], _ = v.(bool)
	case []time.Time:
		a[i], _ = v.(time.Time)
	case []string:
		a[i], _ = v.(string)
	}
}
