package reader

import (
	"path/filepath"
	"strings"

	"github.com/vegasq/colflow/pipeline"
)

// ParquetSuffix is the file suffix that selects the parquet format.
const ParquetSuffix = ".parquet"

// IsParquet reports whether path names a parquet file.
func IsParquet(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ParquetSuffix)
}

// Open returns a source operator for path: the parquet reader for
// .parquet files and the tabular reader for everything else.
func Open(path string) (pipeline.Operator, error) {
	if IsParquet(path) {
		return OpenParquet(path)
	}
	return OpenTabular(path)
}
