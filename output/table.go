package output

import (
	"io"

	"github.com/olekukonko/tablewriter"

	"github.com/vegasq/colflow/data"
	"github.com/vegasq/colflow/pipeline"
)

// NullText is how the table formatter shows a null value.
const NullText = "NULL"

// TableFormatter renders rows as an aligned text table. The table is laid
// out once all rows are known, so the whole result is held in memory.
type TableFormatter struct {
	writer    io.Writer
	batchSize int
}

// NewTableFormatter creates a new table formatter
func NewTableFormatter(w io.Writer) *TableFormatter {
	return &TableFormatter{writer: w, batchSize: pipeline.DefaultBatchSize}
}

// SetOutput sets the output writer
func (t *TableFormatter) SetOutput(w io.Writer) {
	t.writer = w
}

// Format renders every row of source
func (t *TableFormatter) Format(source pipeline.Operator) error {
	table := tablewriter.NewWriter(t.writer)
	table.SetHeader(source.Schema().Names())
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)

	width := len(source.Schema())
	err := drain(source, t.batchSize, func(batches []data.Batch, count int) error {
		for row := 0; row < count; row++ {
			record := make([]string, width)
			for i, b := range batches {
				if b.IsNull(row) {
					record[i] = NullText
					continue
				}
				record[i] = data.FormatValue(b.Value(row))
			}
			table.Append(record)
		}
		return nil
	})
	if err != nil {
		return err
	}

	table.Render()
	return nil
}
