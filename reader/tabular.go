package reader

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/vegasq/colflow/data"
	"github.com/vegasq/colflow/pipeline"
)

// ErrMalformedRow is returned when a data row does not match the header.
var ErrMalformedRow = errors.New("malformed row")

// sniffLimit bounds how much of the file is inspected to pick a delimiter.
const sniffLimit = 64 * 1024

// TabularReader streams a delimited text file. The first row is the
// header; every column is read as string8 and empty fields are empty
// strings.
type TabularReader struct {
	path   string
	file   *os.File
	csv    *csv.Reader
	schema data.Schema

	columns [][]string
	count   int
	line    int
	done    bool
	closed  bool
}

// Delimiter returns the field separator used for path: tab for .tsv files,
// comma otherwise.
func Delimiter(path string) rune {
	if strings.EqualFold(filepath.Ext(path), ".tsv") {
		return '\t'
	}
	return ','
}

// OpenTabular opens path and reads its header. A header line containing a
// tab selects tab as the delimiter regardless of the suffix.
func OpenTabular(path string) (*TabularReader, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open file")
	}

	buffered := bufio.NewReaderSize(file, sniffLimit)
	comma := Delimiter(path)
	head, _ := buffered.Peek(sniffLimit)
	if end := bytes.IndexByte(head, '\n'); end >= 0 {
		head = head[:end]
	}
	if bytes.IndexByte(head, '\t') >= 0 {
		comma = '\t'
	}

	r := &TabularReader{path: path, file: file, csv: csv.NewReader(buffered)}
	r.csv.Comma = comma
	r.csv.ReuseRecord = true

	header, err := r.csv.Read()
	if err != nil {
		_ = file.Close()
		if errors.Is(err, io.EOF) {
			return nil, errors.Newf("%s: missing header row", path)
		}
		return nil, errors.Wrapf(err, "%s: failed to read header", path)
	}
	r.line = 1

	for _, name := range header {
		name = strings.TrimSpace(name)
		if r.schema, err = r.schema.Append(data.ColumnDetails{Name: name, Type: data.String8}); err != nil {
			_ = file.Close()
			return nil, errors.Wrapf(err, "%s: header", path)
		}
	}
	r.columns = make([][]string, len(r.schema))

	return r, nil
}

// Schema returns one string8 column per header field.
func (r *TabularReader) Schema() data.Schema {
	return r.schema
}

// ColumnGetter returns the column values of the most recent pull.
func (r *TabularReader) ColumnGetter(index int) pipeline.Getter {
	return func() (data.Batch, error) {
		return data.All(r.columns[index], r.count), nil
	}
}

// Next reads up to desired rows.
func (r *TabularReader) Next(desired int) (int, error) {
	r.count = 0
	if r.done {
		return 0, nil
	}

	for col := range r.columns {
		data.Allocate(&r.columns[col], desired)
	}

	for r.count < desired {
		record, err := r.csv.Read()
		if errors.Is(err, io.EOF) {
			r.done = true
			break
		}
		r.line++
		if err != nil {
			if errors.Is(err, csv.ErrFieldCount) {
				return 0, errors.Wrapf(ErrMalformedRow, "%s line %d: %d fields, header has %d",
					r.path, r.line, len(record), len(r.schema))
			}
			return 0, errors.Wrapf(err, "%s line %d", r.path, r.line)
		}

		for col, field := range record {
			r.columns[col][r.count] = strings.Clone(field)
		}
		r.count++
	}

	return r.count, nil
}

// Close closes the file. Calling it again is a no-op.
func (r *TabularReader) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true
	return r.file.Close()
}
