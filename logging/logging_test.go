package logging

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestNewLoggerDefaults(t *testing.T) {
	logger := NewLogger(nil)
	if logger == nil {
		t.Fatal("NewLogger(nil) returned nil")
	}
	if !logger.Core().Enabled(zapcore.InfoLevel) {
		t.Error("default logger should log at info level")
	}
	if logger.Core().Enabled(zapcore.DebugLevel) {
		t.Error("default logger should not log at debug level")
	}
}

func TestNewLoggerStyles(t *testing.T) {
	for _, style := range []Style{StyleNoop, StyleJson, StyleTerminal, StyleLogfmt} {
		logger := NewLogger(&Config{Style: style})
		if logger == nil {
			t.Errorf("NewLogger(style=%s) returned nil", style)
		}
	}
}

func TestNewLoggerLevels(t *testing.T) {
	logger := NewLogger(&Config{Style: StyleLogfmt, Level: "debug"})
	if !logger.Core().Enabled(zapcore.DebugLevel) {
		t.Error("debug config should enable debug level")
	}

	logger = NewLogger(&Config{Style: StyleLogfmt, Level: "not-a-level"})
	if logger.Core().Enabled(zapcore.DebugLevel) {
		t.Error("unparseable level should fall back to info")
	}
	if !logger.Core().Enabled(zapcore.InfoLevel) {
		t.Error("unparseable level should still log at info")
	}
}
