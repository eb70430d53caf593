package output

import (
	"bufio"
	"encoding/json"
	"io"

	"github.com/cockroachdb/errors"

	"github.com/vegasq/colflow/data"
	"github.com/vegasq/colflow/pipeline"
)

// JSONFormatter outputs rows as JSON Lines, keys in schema order
type JSONFormatter struct {
	writer    io.Writer
	batchSize int
}

// NewJSONFormatter creates a new JSON Lines formatter
func NewJSONFormatter(w io.Writer) *JSONFormatter {
	return &JSONFormatter{writer: w, batchSize: pipeline.DefaultBatchSize}
}

// SetOutput sets the output writer
func (j *JSONFormatter) SetOutput(w io.Writer) {
	j.writer = w
}

// Format writes one JSON object per row
func (j *JSONFormatter) Format(source pipeline.Operator) error {
	schema := source.Schema()
	keys := make([][]byte, len(schema))
	for i, col := range schema {
		key, err := json.Marshal(col.Name)
		if err != nil {
			return errors.Wrapf(err, "column %q", col.Name)
		}
		keys[i] = key
	}

	out := bufio.NewWriter(j.writer)
	err := drain(source, j.batchSize, func(batches []data.Batch, count int) error {
		for row := 0; row < count; row++ {
			_ = out.WriteByte('{')
			for i, b := range batches {
				if i > 0 {
					_ = out.WriteByte(',')
				}
				value, err := json.Marshal(b.Value(row))
				if err != nil {
					return errors.Wrapf(err, "column %q row %d", schema[i].Name, row)
				}
				_, _ = out.Write(keys[i])
				_ = out.WriteByte(':')
				_, _ = out.Write(value)
			}
			if _, err := out.WriteString("}\n"); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	return out.Flush()
}
