package pipeline

import (
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/vegasq/colflow/data"
)

// DefaultBatchSize is the number of rows requested per pull.
const DefaultBatchSize = 10240

// RunResult describes a run bounded by a timeout.
type RunResult struct {
	RunID      string
	RowCount   int64
	IsComplete bool
	Timeout    time.Duration
	Elapsed    time.Duration
}

// Runner drives a pipeline by pulling from its last operator.
type Runner struct {
	BatchSize int
	Logger    *zap.Logger

	now func() time.Time
}

// NewRunner returns a Runner pulling batchSize rows at a time. A
// non-positive batchSize selects DefaultBatchSize; a nil logger discards
// output.
func NewRunner(batchSize int, logger *zap.Logger) *Runner {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{BatchSize: batchSize, Logger: logger, now: time.Now}
}

func (r *Runner) clock() time.Time {
	if r.now == nil {
		return time.Now()
	}
	return r.now()
}

// Run pulls until the pipeline is exhausted and returns the row count.
func (r *Runner) Run(op Operator) (int64, error) {
	runID := uuid.NewString()
	start := r.clock()
	r.Logger.Debug("run started", zap.String("run_id", runID), zap.Int("batch_size", r.BatchSize))

	var rows int64
	for {
		n, err := op.Next(r.BatchSize)
		if err != nil {
			r.Logger.Error("run failed", zap.String("run_id", runID), zap.Int64("rows", rows), zap.Error(err))
			return rows, err
		}
		if n == 0 {
			break
		}
		rows += int64(n)
	}

	r.Logger.Info("run finished",
		zap.String("run_id", runID),
		zap.Int64("rows", rows),
		zap.Duration("elapsed", r.clock().Sub(start)))
	return rows, nil
}

// RunAndClose runs the pipeline and closes it on every exit path.
func (r *Runner) RunAndClose(op Operator) (rows int64, err error) {
	defer func() {
		err = errors.CombineErrors(err, op.Close())
	}()
	return r.Run(op)
}

// RunUntilTimeout pulls until the pipeline is exhausted or, checked
// between pulls, more than timeout has elapsed. A run stopped early is
// reported with IsComplete false. The pipeline is not closed.
func (r *Runner) RunUntilTimeout(op Operator, timeout time.Duration) (RunResult, error) {
	result := RunResult{RunID: uuid.NewString(), Timeout: timeout}
	start := r.clock()

	for {
		n, err := op.Next(r.BatchSize)
		if err != nil {
			result.Elapsed = r.clock().Sub(start)
			return result, err
		}
		result.RowCount += int64(n)

		if n == 0 {
			result.IsComplete = true
			break
		}
		if r.clock().Sub(start) > timeout {
			break
		}
	}

	result.Elapsed = r.clock().Sub(start)
	r.Logger.Info("timed run finished",
		zap.String("run_id", result.RunID),
		zap.Int64("rows", result.RowCount),
		zap.Bool("complete", result.IsComplete),
		zap.Duration("timeout", timeout),
		zap.Duration("elapsed", result.Elapsed))
	return result, nil
}

// SingleValue pulls once and returns the first value of the first column.
// The pipeline is closed afterwards.
func SingleValue[T any](r *Runner, op Operator) (value T, err error) {
	defer func() {
		err = errors.CombineErrors(err, op.Close())
	}()

	getter := op.ColumnGetter(0)
	n, err := op.Next(r.BatchSize)
	if err != nil {
		return value, err
	}
	if n == 0 {
		return value, errors.New("pipeline produced no rows")
	}

	batch, err := getter()
	if err != nil {
		return value, err
	}
	values, ok := batch.Array.([]T)
	if !ok {
		return value, errors.Newf("column %q holds %T", op.Schema()[0].Name, batch.Array)
	}
	return values[batch.Index(0)], nil
}

// ToList collects every value of the named column. The pipeline is
// closed afterwards. Null values are returned as the zero value of T.
func ToList[T any](r *Runner, op Operator, column string) (result []T, err error) {
	defer func() {
		err = errors.CombineErrors(err, op.Close())
	}()

	index, err := op.Schema().IndexOf(column)
	if err != nil {
		return nil, err
	}
	getter := op.ColumnGetter(index)

	for {
		n, err := op.Next(r.BatchSize)
		if err != nil {
			return nil, err
		}
		if n == 0 {
			return result, nil
		}

		batch, err := getter()
		if err != nil {
			return nil, err
		}
		values, ok := batch.Array.([]T)
		if !ok {
			return nil, errors.Newf("column %q holds %T", column, batch.Array)
		}
		for i := 0; i < batch.Count; i++ {
			if batch.IsNull(i) {
				var zero T
				result = append(result, zero)
				continue
			}
			result = append(result, values[batch.Index(i)])
		}
	}
}

// Rows collects the whole output of the pipeline as boxed rows keyed by
// column name. Nulls are nil. The pipeline is closed afterwards.
func Rows(r *Runner, op Operator) (rows []map[string]any, err error) {
	defer func() {
		err = errors.CombineErrors(err, op.Close())
	}()

	schema := op.Schema()
	getters := make([]Getter, len(schema))
	for i := range schema {
		getters[i] = op.ColumnGetter(i)
	}

	batches := make([]data.Batch, len(schema))
	for {
		n, err := op.Next(r.BatchSize)
		if err != nil {
			return nil, err
		}
		if n == 0 {
			return rows, nil
		}

		for i, get := range getters {
			if batches[i], err = get(); err != nil {
				return nil, err
			}
		}
		for row := 0; row < n; row++ {
			record := make(map[string]any, len(schema))
			for i, col := range schema {
				record[col.Name] = batches[i].Value(row)
			}
			rows = append(rows, record)
		}
	}
}
