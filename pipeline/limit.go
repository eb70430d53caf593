package pipeline

// RowLimiter passes at most limit rows downstream.
type RowLimiter struct {
	Wrapper
	remaining int
}

// NewRowLimiter caps the upstream at limit rows.
func NewRowLimiter(source Operator, limit int) *RowLimiter {
	return &RowLimiter{Wrapper: Wrapper{Source: source}, remaining: limit}
}

// Next pulls no more than the remaining row budget.
func (l *RowLimiter) Next(desired int) (int, error) {
	if l.remaining <= 0 {
		return 0, nil
	}
	if desired > l.remaining {
		desired = l.remaining
	}

	count, err := l.Source.Next(desired)
	if err != nil {
		return 0, err
	}
	if count == 0 {
		l.remaining = 0
		return 0, nil
	}
	l.remaining -= count
	return count, nil
}
