// Package config loads colflow settings from TOML.
package config

import (
	"time"

	"github.com/BurntSushi/toml"
	"github.com/cockroachdb/errors"
	"go.uber.org/zap/zapcore"

	"github.com/vegasq/colflow/output"
	"github.com/vegasq/colflow/pipeline"
)

// ErrInvalid is returned by Validate.
var ErrInvalid = errors.New("invalid configuration")

// Config is the whole configuration file.
type Config struct {
	Pipeline Pipeline `toml:"pipeline"`
	Log      Log      `toml:"log"`
	Parquet  Parquet  `toml:"parquet"`
}

// Pipeline controls how queries are run.
type Pipeline struct {
	BatchSize int `toml:"batch_size"`
	// Timeout bounds a run; zero runs to completion.
	Timeout Duration `toml:"timeout"`
}

// Log controls the logger built by internal/logging.
type Log struct {
	Level string `toml:"level"`
	// File, when set, receives JSON logs through a rotating writer.
	File       string `toml:"file"`
	MaxSizeMB  int    `toml:"max_size_mb"`
	MaxBackups int    `toml:"max_backups"`
}

// Parquet configures parquet sinks.
type Parquet struct {
	Compression string `toml:"compression"`
}

// Duration is a time.Duration written as "30s" or "5m" in TOML.
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return errors.Wrapf(err, "duration %q", text)
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Default returns the settings used when no file is given.
func Default() Config {
	return Config{
		Pipeline: Pipeline{BatchSize: pipeline.DefaultBatchSize},
		Log:      Log{Level: "info", MaxSizeMB: 100, MaxBackups: 3},
		Parquet:  Parquet{Compression: "snappy"},
	}
}

// Load reads path over the defaults and validates the result. Keys the
// file does not set keep their default; unknown keys are an error.
func Load(path string) (Config, error) {
	cfg := Default()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, errors.Wrapf(err, "failed to load config %s", path)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return Config{}, errors.Wrapf(ErrInvalid, "%s: unknown key %q", path, undecoded[0].String())
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, errors.Wrap(err, path)
	}
	return cfg, nil
}

// Validate checks every setting.
func (c Config) Validate() error {
	if c.Pipeline.BatchSize <= 0 {
		return errors.Wrapf(ErrInvalid, "pipeline.batch_size must be positive, got %d", c.Pipeline.BatchSize)
	}
	if c.Pipeline.Timeout.Duration < 0 {
		return errors.Wrapf(ErrInvalid, "pipeline.timeout must not be negative, got %s", c.Pipeline.Timeout)
	}
	if _, err := c.Log.ZapLevel(); err != nil {
		return err
	}
	if c.Log.MaxSizeMB < 0 || c.Log.MaxBackups < 0 {
		return errors.Wrap(ErrInvalid, "log.max_size_mb and log.max_backups must not be negative")
	}
	if _, err := output.CompressionCodec(c.Parquet.Compression); err != nil {
		return errors.Mark(errors.Wrap(err, "parquet.compression"), ErrInvalid)
	}
	return nil
}

// ZapLevel parses Level.
func (l Log) ZapLevel() (zapcore.Level, error) {
	level, err := zapcore.ParseLevel(l.Level)
	if err != nil {
		return 0, errors.Mark(errors.Wrap(err, "log.level"), ErrInvalid)
	}
	return level, nil
}

// SinkOptions returns the options for output sinks.
func (c Config) SinkOptions() output.Options {
	return output.Options{Compression: c.Parquet.Compression}
}
