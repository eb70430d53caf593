package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vegasq/colflow/output"
	"github.com/vegasq/colflow/pipeline"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "colflow.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, pipeline.DefaultBatchSize, cfg.Pipeline.BatchSize)
	assert.Zero(t, cfg.Pipeline.Timeout.Duration)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Empty(t, cfg.Log.File)
	assert.Equal(t, output.Options{Compression: "snappy"}, cfg.SinkOptions())
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
[pipeline]
batch_size = 512
timeout = "1m30s"

[log]
level = "debug"
file = "/tmp/colflow.log"

[parquet]
compression = "zstd"
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 512, cfg.Pipeline.BatchSize)
	assert.Equal(t, 90*time.Second, cfg.Pipeline.Timeout.Duration)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "/tmp/colflow.log", cfg.Log.File)
	assert.Equal(t, "zstd", cfg.Parquet.Compression)

	// unset keys keep their defaults
	assert.Equal(t, 100, cfg.Log.MaxSizeMB)
	assert.Equal(t, 3, cfg.Log.MaxBackups)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		invalid bool
	}{
		{"zero batch size", "[pipeline]\nbatch_size = 0", true},
		{"negative timeout", "[pipeline]\ntimeout = \"-1s\"", true},
		{"unknown level", "[log]\nlevel = \"loud\"", true},
		{"negative backups", "[log]\nmax_backups = -1", true},
		{"unknown codec", "[parquet]\ncompression = \"rar\"", true},
		{"unknown key", "[pipeline]\nthreads = 4", true},
		{"bad duration", "[pipeline]\ntimeout = \"soon\"", false},
		{"not toml", "[pipeline", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			require.Error(t, err)
			assert.Equal(t, tt.invalid, errors.Is(err, ErrInvalid), "got %v", err)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestUnknownCodecKeepsCause(t *testing.T) {
	cfg := Default()
	cfg.Parquet.Compression = "rar"
	err := cfg.Validate()
	assert.True(t, errors.Is(err, output.ErrUnknownCodec))
	assert.True(t, errors.Is(err, ErrInvalid))
}

func TestDurationText(t *testing.T) {
	var d Duration
	require.NoError(t, d.UnmarshalText([]byte("250ms")))
	assert.Equal(t, 250*time.Millisecond, d.Duration)

	text, err := d.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "250ms", string(text))
}
