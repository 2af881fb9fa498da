// Package logging wires structured logging via go.uber.org/zap (§10.1), grounded on
// qlp-hq-QLP's internal/logger package: same encoder selection by format and level
// mapping, adapted from a package-global singleton to an injected *zap.Logger value,
// because the engine is invoked per-job — possibly concurrently for different jobs
// (§5) — and this repo carries no singletons (§9).
package logging

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Format selects the log encoder.
type Format string

const (
	JSON    Format = "json"
	Console Format = "console"
)

// Config holds logger configuration, mirroring the teacher's EngineConfig
// struct-plus-constructor pattern.
type Config struct {
	Level      zapcore.Level
	Format     Format
	OutputPath string
}

// Default returns the default logger configuration: info level, console encoder,
// stdout.
func Default() Config {
	return Config{
		Level:      zapcore.InfoLevel,
		Format:     Console,
		OutputPath: "stdout",
	}
}

// New builds a *zap.Logger from cfg.
func New(cfg Config) (*zap.Logger, error) {
	var encoderConfig zapcore.EncoderConfig
	var encoder zapcore.Encoder

	if cfg.Format == JSON {
		encoderConfig = zap.NewProductionEncoderConfig()
		encoderConfig.TimeKey = "timestamp"
		encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		encoder = zapcore.NewJSONEncoder(encoderConfig)
	} else {
		encoderConfig = zap.NewDevelopmentEncoderConfig()
		encoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("2006-01-02T15:04:05")
		encoder = zapcore.NewConsoleEncoder(encoderConfig)
	}

	var writeSyncer zapcore.WriteSyncer
	switch cfg.OutputPath {
	case "", "stdout":
		writeSyncer = zapcore.AddSync(os.Stdout)
	case "stderr":
		writeSyncer = zapcore.AddSync(os.Stderr)
	default:
		f, err := os.OpenFile(cfg.OutputPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, fmt.Errorf("logging.New: open %s: %w", cfg.OutputPath, err)
		}
		writeSyncer = zapcore.AddSync(f)
	}

	core := zapcore.NewCore(encoder, writeSyncer, cfg.Level)
	return zap.New(core, zap.AddCaller()), nil
}

// NopLogger returns a logger that discards everything, used when no logger is
// injected.
func NopLogger() *zap.Logger {
	return zap.NewNop()
}
