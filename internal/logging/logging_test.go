package logging

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestNewLevels(t *testing.T) {
	for _, tt := range []struct {
		level, format string
		enabled       zapcore.Level
		disabled      zapcore.Level
	}{
		{"warn", "console", zapcore.WarnLevel, zapcore.InfoLevel},
		{"debug", "json", zapcore.DebugLevel, zapcore.DebugLevel - 1},
		{"", "console", zapcore.InfoLevel, zapcore.DebugLevel},
	} {
		logger, err := New(tt.level, tt.format)
		if err != nil {
			t.Fatalf("New(%q, %q): %v", tt.level, tt.format, err)
		}
		if !logger.Core().Enabled(tt.enabled) {
			t.Errorf("level %q should enable %v", tt.level, tt.enabled)
		}
		if logger.Core().Enabled(tt.disabled) {
			t.Errorf("level %q should not enable %v", tt.level, tt.disabled)
		}
	}
}

func TestNewRejectsUnknownLevel(t *testing.T) {
	if _, err := New("chatty", "console"); err == nil {
		t.Error("expected error for unknown level")
	}
}
