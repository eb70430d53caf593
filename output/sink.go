package output

import (
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/parquet-go/parquet-go"
	"github.com/parquet-go/parquet-go/compress"

	"github.com/vegasq/colflow/pipeline"
)

// ErrUnknownCodec is returned for a compression name that is not supported.
var ErrUnknownCodec = errors.New("unknown compression codec")

// ParquetSuffix is the file suffix that selects the parquet writer.
const ParquetSuffix = ".parquet"

// Options configure the sinks.
type Options struct {
	// Compression is the parquet codec: none, snappy, gzip, zstd, lz4 or brotli.
	Compression string
}

var codecs = map[string]compress.Codec{
	"none":   &parquet.Uncompressed,
	"snappy": &parquet.Snappy,
	"gzip":   &parquet.Gzip,
	"zstd":   &parquet.Zstd,
	"lz4":    &parquet.Lz4Raw,
	"brotli": &parquet.Brotli,
}

// CompressionCodec resolves a codec name. The empty name selects snappy.
func CompressionCodec(name string) (compress.Codec, error) {
	if name == "" {
		return &parquet.Snappy, nil
	}
	codec, ok := codecs[strings.ToLower(name)]
	if !ok {
		return nil, errors.Wrapf(ErrUnknownCodec, "%q (expected none, snappy, gzip, zstd, lz4 or brotli)", name)
	}
	return codec, nil
}

// Open wraps source in the sink for path: the parquet writer for .parquet
// files and the tabular writer for everything else. The sink creates path
// on the first pull and writes every row pulled through it.
func Open(source pipeline.Operator, path string, opts Options) (pipeline.Operator, error) {
	if strings.EqualFold(filepath.Ext(path), ParquetSuffix) {
		return NewParquetWriter(source, path, opts)
	}
	return NewTabularWriter(source, path)
}
