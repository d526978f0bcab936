package commands

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input   string
		want    LogLevel
		wantErr bool
	}{
		{"debug", LogLevelDebug, false},
		{"INFO", LogLevelInfo, false},
		{"warn", LogLevelWarn, false},
		{"warning", LogLevelWarn, false},
		{" error ", LogLevelError, false},
		{"silent", LogLevelSilent, false},
		{"off", LogLevelSilent, false},
		{"trace", LogLevelSilent, true},
		{"", LogLevelSilent, true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseLogLevel(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "Valid levels")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, LogLevelWarn)

	logger.Info("hidden")
	logger.Warn("document skipped", "locator", "openapi.yaml")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "WARN")
	assert.Contains(t, out, "document skipped")
	assert.Contains(t, out, "locator=openapi.yaml")
}

func TestNewLogger_Silent(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, LogLevelSilent)
	logger.Error("nothing")
	assert.Empty(t, buf.String())
}

func TestRewriteLogLevel(t *testing.T) {
	a := rewriteLogLevel(nil, slog.Any(slog.LevelKey, slog.LevelError))
	assert.Equal(t, "ERROR", a.Value.String())

	a = rewriteLogLevel([]string{"group"}, slog.Any(slog.LevelKey, slog.LevelError))
	assert.Equal(t, slog.LevelError, a.Value.Any())
}
