package data

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
)

// DateTimeLayouts are the layouts accepted when parsing datetime text, in
// the order they are tried.
var DateTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// Allocate makes sure *buf can hold size elements. The slice grows
// geometrically and is reused across calls; existing contents are not
// preserved when it grows.
func Allocate[T any](buf *[]T, size int) {
	if cap(*buf) >= size {
		*buf = (*buf)[:size]
		return
	}
	newCap := 2 * cap(*buf)
	if newCap < size {
		newCap = size
	}
	*buf = make([]T, size, newCap)
}

// ParseValue parses text as a value of type t.
func ParseValue(t ColumnType, text string) (any, error) {
	switch t {
	case Int:
		v, err := strconv.ParseInt(strings.TrimSpace(text), 10, 64)
		if err != nil {
			return nil, errors.Wrapf(err, "parse %q as int", text)
		}
		return v, nil
	case Bool:
		v, err := strconv.ParseBool(strings.TrimSpace(text))
		if err != nil {
			return nil, errors.Wrapf(err, "parse %q as bool", text)
		}
		return v, nil
	case DateTime:
		return ParseDateTime(text)
	default:
		return text, nil
	}
}

// ParseDateTime parses text with the first matching layout of DateTimeLayouts.
// Values without a zone are taken as UTC.
func ParseDateTime(text string) (time.Time, error) {
	trimmed := strings.TrimSpace(text)
	for _, layout := range DateTimeLayouts {
		if t, err := time.Parse(layout, trimmed); err == nil {
			return t, nil
		}
	}
	return time.Time{}, errors.Newf("parse %q as datetime", text)
}

// FormatValue renders a value as text, the way sinks write it.
func FormatValue(v any) string {
	if v == nil {
		return ""
	}

	switch val := v.(type) {
	case string:
		return val
	case int64:
		return strconv.FormatInt(val, 10)
	case int, int8, int16, int32:
		return fmt.Sprintf("%d", val)
	case uint, uint8, uint16, uint32, uint64:
		return fmt.Sprintf("%d", val)
	case float32, float64:
		return fmt.Sprintf("%g", val)
	case bool:
		return strconv.FormatBool(val)
	case time.Time:
		return val.Format(time.RFC3339Nano)
	case []byte:
		return string(val)
	default:
		return fmt.Sprintf("%v", val)
	}
}
