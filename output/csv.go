package output

import (
	"encoding/csv"
	"io"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/vegasq/colflow/data"
	"github.com/vegasq/colflow/pipeline"
)

// CSVFormatter outputs rows as CSV with a header row
type CSVFormatter struct {
	writer    io.Writer
	batchSize int
}

// NewCSVFormatter creates a new CSV formatter
func NewCSVFormatter(w io.Writer) *CSVFormatter {
	return &CSVFormatter{writer: w, batchSize: pipeline.DefaultBatchSize}
}

// SetOutput sets the output writer
func (c *CSVFormatter) SetOutput(w io.Writer) {
	c.writer = w
}

// Format writes the schema as a header, then every row of source
func (c *CSVFormatter) Format(source pipeline.Operator) error {
	csvWriter := csv.NewWriter(c.writer)

	if err := csvWriter.Write(source.Schema().Names()); err != nil {
		return errors.Wrap(err, "failed to write CSV header")
	}

	record := make([]string, len(source.Schema()))
	err := drain(source, c.batchSize, func(batches []data.Batch, count int) error {
		for row := 0; row < count; row++ {
			for i, b := range batches {
				record[i] = formatCell(b.Value(row))
			}
			if err := csvWriter.Write(record); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	// Flush and check for errors
	csvWriter.Flush()
	if err := csvWriter.Error(); err != nil {
		return errors.Wrap(err, "failed to flush CSV writer")
	}
	return nil
}

// formatCell renders a value for display
func formatCell(v any) string {
	text := data.FormatValue(v)

	// Sanitize against CSV injection by prefixing characters that could
	// trigger formula execution in spreadsheet applications
	if len(text) > 0 {
		switch text[0] {
		case '=', '+', '-', '@', '\t', '\r', '\n', '|':
			if _, isString := v.(string); isString {
				return "'" + strings.ReplaceAll(text, "'", "''")
			}
		}
	}
	return text
}
