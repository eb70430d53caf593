package reader

import (
	"github.com/cockroachdb/errors"
	"github.com/parquet-go/parquet-go"

	"github.com/vegasq/colflow/data"
)

// ErrUnsupportedField is returned for parquet fields that do not map onto a
// flat column: groups, repeated fields and lists.
var ErrUnsupportedField = errors.New("unsupported parquet field")

// FieldInfo describes one leaf column of a parquet file and the column it
// becomes once read.
type FieldInfo struct {
	Name         string `json:"name"`
	PhysicalType string `json:"physical_type"`
	LogicalType  string `json:"logical_type"`
	Optional     bool   `json:"optional"`

	Column data.ColumnDetails `json:"-"`
}

// DescribeFields maps the top-level fields of a parquet schema to columns.
func DescribeFields(schema *parquet.Schema) ([]FieldInfo, error) {
	fields := schema.Fields()
	infos := make([]FieldInfo, 0, len(fields))

	for _, field := range fields {
		if !field.Leaf() || field.Repeated() {
			return nil, errors.Wrapf(ErrUnsupportedField, "%q is nested or repeated", field.Name())
		}

		info := FieldInfo{
			Name:         field.Name(),
			PhysicalType: physicalType(field),
			LogicalType:  logicalType(field),
			Optional:     field.Optional(),
		}
		info.Column = data.ColumnDetails{
			Name:     field.Name(),
			Type:     columnType(field),
			Nullable: field.Optional(),
		}
		infos = append(infos, info)
	}

	return infos, nil
}

// physicalType returns the physical type name of a parquet field.
func physicalType(field parquet.Field) string {
	switch field.Type().Kind() {
	case parquet.Boolean:
		return "BOOLEAN"
	case parquet.Int32:
		return "INT32"
	case parquet.Int64:
		return "INT64"
	case parquet.Int96:
		return "INT96"
	case parquet.Float:
		return "FLOAT"
	case parquet.Double:
		return "DOUBLE"
	case parquet.ByteArray:
		return "BYTE_ARRAY"
	case parquet.FixedLenByteArray:
		return "FIXED_LEN_BYTE_ARRAY"
	default:
		return "UNKNOWN"
	}
}

// logicalType returns the logical type annotation, or "" when there is none.
func logicalType(field parquet.Field) string {
	lt := field.Type().LogicalType()
	if lt == nil {
		return ""
	}
	return lt.String()
}

// columnType picks the column type a parquet field is read as. Anything
// without a natural int, bool or datetime reading becomes string8.
func columnType(field parquet.Field) data.ColumnType {
	if lt := field.Type().LogicalType(); lt != nil {
		switch {
		case lt.Timestamp != nil, lt.Date != nil:
			return data.DateTime
		case lt.UTF8 != nil, lt.Enum != nil, lt.Json != nil, lt.UUID != nil:
			return data.String8
		}
	}

	switch field.Type().Kind() {
	case parquet.Boolean:
		return data.Bool
	case parquet.Int32, parquet.Int64:
		return data.Int
	default:
		return data.String8
	}
}
