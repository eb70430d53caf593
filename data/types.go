package data

import (
	"strings"
	"time"

	"github.com/cockroachdb/errors"
)

// ColumnType is the semantic type tag of a column.
type ColumnType int

const (
	// Int columns are backed by []int64
	Int ColumnType = iota
	// Bool columns are backed by []bool
	Bool
	// DateTime columns are backed by []time.Time
	DateTime
	// String8 columns are backed by []string holding UTF-8 text
	String8
)

// ErrUnknownType is returned when a type name is not one of the supported names.
var ErrUnknownType = errors.New("unknown type")

var typeNames = map[ColumnType]string{
	Int:      "int",
	Bool:     "bool",
	DateTime: "datetime",
	String8:  "string8",
}

// String returns the configuration name of the type.
func (t ColumnType) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return "unknown"
}

// ParseColumnType resolves a type name (case-insensitive) to a ColumnType.
func ParseColumnType(name string) (ColumnType, error) {
	lower := strings.ToLower(name)
	for t, n := range typeNames {
		if n == lower {
			return t, nil
		}
	}
	return 0, errors.Wrapf(ErrUnknownType, "%q (expected int, bool, datetime or string8)", name)
}

// NewArray allocates a backing array of the given length for the type.
func (t ColumnType) NewArray(length int) any {
	switch t {
	case Int:
		return make([]int64, length)
	case Bool:
		return make([]bool, length)
	case DateTime:
		return make([]time.Time, length)
	default:
		return make([]string, length)
	}
}

// ArrayLen returns the length of a backing array created for any ColumnType.
func ArrayLen(array any) int {
	switch a := array.(type) {
	case []int64:
		return len(a)
	case []bool:
		return len(a)
	case []time.Time:
		return len(a)
	case []string:
		return len(a)
	default:
		return 0
	}
}

// ValueAt returns the boxed value at a physical offset of a backing array.
func ValueAt(array any, offset int) any {
	switch a := array.(type) {
	case []int64:
		return a[offset]
	case []bool:
		return a[offset]
	case []time.Time:
		return a[offset]
	case []string:
		return a[offset]
	default:
		return nil
	}
}
