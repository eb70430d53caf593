package pipeline

import (
	"github.com/vegasq/colflow/data"
)

// CountColumn is the name of the column produced by CountAggregator.
const CountColumn = "Count"

// CountAggregator drains its upstream and emits a single row holding the
// number of rows it saw.
type CountAggregator struct {
	Wrapper

	count []int64
	done  bool
}

// NewCountAggregator counts the rows of source.
func NewCountAggregator(source Operator) *CountAggregator {
	return &CountAggregator{Wrapper: Wrapper{Source: source}, count: make([]int64, 1)}
}

// Schema is a single, non-nullable int column.
func (c *CountAggregator) Schema() data.Schema {
	return data.Schema{{Name: CountColumn, Type: data.Int}}
}

// ColumnGetter returns the one-row count batch.
func (c *CountAggregator) ColumnGetter(index int) Getter {
	return func() (data.Batch, error) {
		return data.All(c.count, 1), nil
	}
}

// Next counts the whole upstream on the first call and returns one row.
func (c *CountAggregator) Next(desired int) (int, error) {
	if c.done {
		return 0, nil
	}

	var total int64
	for {
		n, err := c.Source.Next(desired)
		if err != nil {
			return 0, err
		}
		if n == 0 {
			break
		}
		total += int64(n)
	}

	c.count[0] = total
	c.done = true
	return 1, nil
}
