package output

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/vegasq/colflow/data"
	"github.com/vegasq/colflow/pipeline"
)

// TabularWriter writes every row pulled through it to a delimited text
// file and passes the rows on unchanged. Nulls are written as empty fields.
type TabularWriter struct {
	pipeline.Wrapper

	path    string
	opened  bool
	file    *os.File
	csv     *csv.Writer
	getters []pipeline.Getter
	record  []string
}

// NewTabularWriter writes to path. The file is created, and the header
// written, on the first pull. Files ending in .tsv are tab separated;
// everything else uses commas.
func NewTabularWriter(source pipeline.Operator, path string) (*TabularWriter, error) {
	schema := source.Schema()
	w := &TabularWriter{
		Wrapper: pipeline.Wrapper{Source: source},
		path:    path,
		getters: make([]pipeline.Getter, len(schema)),
		record:  make([]string, len(schema)),
	}
	for i := range schema {
		w.getters[i] = source.ColumnGetter(i)
	}
	return w, nil
}

func (w *TabularWriter) open() error {
	w.opened = true
	file, err := os.Create(w.path)
	if err != nil {
		return errors.Wrap(err, "failed to create file")
	}

	w.file = file
	w.csv = csv.NewWriter(file)
	if strings.EqualFold(filepath.Ext(w.path), ".tsv") {
		w.csv.Comma = '\t'
	}
	if err := w.csv.Write(w.Source.Schema().Names()); err != nil {
		return errors.Wrapf(err, "%s: failed to write header", w.path)
	}
	return nil
}

// Next pulls from upstream and writes the rows.
func (w *TabularWriter) Next(desired int) (int, error) {
	if !w.opened {
		if err := w.open(); err != nil {
			return 0, err
		}
	}
	if w.file == nil {
		return 0, errors.New("tabular writer is closed")
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
	for row := 0; row < n; row++ {
		for i, b := range batches {
			w.record[i] = data.FormatValue(b.Value(row))
		}
		if err := w.csv.Write(w.record); err != nil {
			return 0, errors.Wrap(err, "failed to write row")
		}
	}
	return n, nil
}

// Close flushes and closes the file, then closes the upstream. A writer
// that was never pulled leaves no file behind.
func (w *TabularWriter) Close() error {
	if w.file == nil {
		return w.Wrapper.Close()
	}

	w.csv.Flush()
	err := w.csv.Error()
	err = errors.CombineErrors(err, w.file.Close())
	w.file = nil
	return errors.CombineErrors(err, w.Wrapper.Close())
}
