package data

import (
	"strings"

	"github.com/cockroachdb/errors"
)

// ErrColumnNotFound is returned when a column name does not resolve against a schema.
var ErrColumnNotFound = errors.New("column not found")

// ErrDuplicateColumn is returned when a stage would add a column whose name is already taken.
var ErrDuplicateColumn = errors.New("duplicate column")

// ColumnDetails describes one column of an operator's output.
type ColumnDetails struct {
	Name     string
	Type     ColumnType
	Nullable bool
}

// Schema is the ordered column list of an operator. It is fixed once the
// operator has been constructed.
type Schema []ColumnDetails

// IndexOf returns the position of the named column. Names compare
// case-insensitively.
func (s Schema) IndexOf(name string) (int, error) {
	for i, col := range s {
		if strings.EqualFold(col.Name, name) {
			return i, nil
		}
	}
	return -1, errors.Wrapf(ErrColumnNotFound, "%q (available: %s)", name, strings.Join(s.Names(), ", "))
}

// Names returns the column names in order.
func (s Schema) Names() []string {
	names := make([]string, len(s))
	for i, col := range s {
		names[i] = col.Name
	}
	return names
}

// Append returns a copy of the schema with col added at the end.
func (s Schema) Append(col ColumnDetails) (Schema, error) {
	if _, err := s.IndexOf(col.Name); err == nil {
		return nil, errors.Wrapf(ErrDuplicateColumn, "%q", col.Name)
	}
	out := make(Schema, len(s), len(s)+1)
	copy(out, s)
	return append(out, col), nil
}
