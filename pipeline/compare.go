package pipeline

import (
	"cmp"

	"github.com/cockroachdb/errors"
)

// CompareOperator is the comparison applied by a where stage.
type CompareOperator int

const (
	LessThan CompareOperator = iota
	LessThanOrEqual
	GreaterThan
	GreaterThanOrEqual
	Equals
	NotEquals
)

// ErrUnknownOperator is returned for a comparison token outside the supported set.
var ErrUnknownOperator = errors.New("unknown compare operator")

// ErrUnsupportedComparison is returned when an operator cannot be applied to a column type.
var ErrUnsupportedComparison = errors.New("unsupported comparison")

var operatorTokens = map[string]CompareOperator{
	"<":  LessThan,
	"<=": LessThanOrEqual,
	">":  GreaterThan,
	">=": GreaterThanOrEqual,
	"=":  Equals,
	"==": Equals,
	"!=": NotEquals,
	"<>": NotEquals,
}

// ParseCompareOperator maps an operator token to a CompareOperator.
func ParseCompareOperator(token string) (CompareOperator, error) {
	if op, ok := operatorTokens[token]; ok {
		return op, nil
	}
	return 0, errors.Wrapf(ErrUnknownOperator, "%q (expected one of < <= > >= = == != <>)", token)
}

// String returns the canonical token of the operator.
func (op CompareOperator) String() string {
	switch op {
	case LessThan:
		return "<"
	case LessThanOrEqual:
		return "<="
	case GreaterThan:
		return ">"
	case GreaterThanOrEqual:
		return ">="
	case Equals:
		return "="
	case NotEquals:
		return "!="
	default:
		return "?"
	}
}

// ordered reports whether the operator needs an ordering rather than equality.
func (op CompareOperator) ordered() bool {
	return op != Equals && op != NotEquals
}

// matches applies op to the result of a three-way comparison.
func (op CompareOperator) matches(c int) bool {
	switch op {
	case LessThan:
		return c < 0
	case LessThanOrEqual:
		return c <= 0
	case GreaterThan:
		return c > 0
	case GreaterThanOrEqual:
		return c >= 0
	case Equals:
		return c == 0
	case NotEquals:
		return c != 0
	default:
		return false
	}
}

// comparer builds a predicate comparing values against a fixed literal.
func comparer[T any](op CompareOperator, literal T, compare func(a, b T) int) func(T) bool {
	return func(v T) bool {
		return op.matches(compare(v, literal))
	}
}

func compareOrdered[T cmp.Ordered](a, b T) int {
	return cmp.Compare(a, b)
}

func compareBools(a, b bool) int {
	switch {
	case a == b:
		return 0
	case !a:
		return -1
	default:
		return 1
	}
}
