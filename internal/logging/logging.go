// Package logging builds the zap logger used by the colflow commands.
package logging

import (
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/vegasq/colflow/internal/config"
)

// New returns a logger writing human-readable lines to stderr and, when
// cfg.File is set, JSON lines to a rotating file. The returned function
// flushes and releases the file.
func New(cfg config.Log) (*zap.Logger, func(), error) {
	return build(cfg, os.Stderr)
}

func build(cfg config.Log, console io.Writer) (*zap.Logger, func(), error) {
	level, err := cfg.ZapLevel()
	if err != nil {
		return nil, nil, err
	}

	consoleEncoder := zap.NewDevelopmentEncoderConfig()
	consoleEncoder.EncodeLevel = zapcore.CapitalLevelEncoder
	cores := []zapcore.Core{
		zapcore.NewCore(zapcore.NewConsoleEncoder(consoleEncoder), zapcore.Lock(zapcore.AddSync(console)), level),
	}

	var rotator *lumberjack.Logger
	if cfg.File != "" {
		rotator = &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
		}
		cores = append(cores, zapcore.NewCore(
			zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
			zapcore.AddSync(rotator),
			level))
	}

	logger := zap.New(zapcore.NewTee(cores...))
	cleanup := func() {
		_ = logger.Sync()
		if rotator != nil {
			_ = rotator.Close()
		}
	}
	return logger, cleanup, nil
}
