// Package logging builds the zap loggers used by docparse commands and
// services.
package logging

import (
	"log"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Style selects the log output format.
type Style string

const (
	StyleNoop     Style = "noop"
	StyleJson     Style = "json"
	StyleTerminal Style = "terminal"
	StyleLogfmt   Style = "logfmt"
)

// Level names follow zapcore: debug, info, warn, error.
type Level string

// Config selects the level and style for NewLogger.
type Config struct {
	Level Level `json:"level,omitempty" yaml:"level,omitempty"`
	Style Style `json:"style,omitempty" yaml:"style,omitempty"`
}

// NewLogger builds a zap logger from c. A nil config or empty fields fall
// back to terminal style at info level. Unparseable levels keep the
// default, an unknown style aborts startup.
func NewLogger(c *Config) *zap.Logger {
	style := StyleTerminal
	level := zapcore.InfoLevel
	if c != nil {
		if c.Style != "" {
			style = c.Style
		}
		if c.Level != "" {
			if lvl, err := zapcore.ParseLevel(string(c.Level)); err == nil {
				level = lvl
			}
		}
	}

	switch style {
	case StyleNoop:
		return zap.NewNop()
	case StyleJson:
		return buildFromConfig(zap.NewProductionConfig(), level)
	case StyleTerminal:
		return buildFromConfig(zap.NewDevelopmentConfig(), level)
	case StyleLogfmt:
		core := zapcore.NewCore(
			NewLogfmtEncoder(logfmtEncoderConfig()),
			zapcore.AddSync(os.Stderr),
			level,
		)
		return zap.New(core, zap.AddCaller(), zap.AddStacktrace(zap.ErrorLevel))
	default:
		log.Fatalf("invalid logging style '%s': must be one of: terminal, json, logfmt, noop", style)
		return nil
	}
}

func buildFromConfig(cfg zap.Config, level zapcore.Level) *zap.Logger {
	cfg.Level = zap.NewAtomicLevelAt(level)
	logger, err := cfg.Build(zap.AddCaller(), zap.AddStacktrace(zap.ErrorLevel))
	if err != nil {
		log.Fatalf("can't initialize zap logger: %v", err)
	}
	return logger
}

// Logfmt lines look like:
// ts=15:04:05 lvl=info caller=file.go:42 msg="message" key=value
func logfmtEncoderConfig() zapcore.EncoderConfig {
	return zapcore.EncoderConfig{
		TimeKey:       "ts",
		LevelKey:      "lvl",
		NameKey:       "logger",
		CallerKey:     "caller",
		MessageKey:    "msg",
		StacktraceKey: "stacktrace",
		LineEnding:    zapcore.DefaultLineEnding,
	}
}
