package parser

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNopLogger(t *testing.T) {
	l := NopLogger{}
	assert.NotPanics(t, func() {
		l.Debug("m", "k", "v")
		l.Info("m")
		l.Warn("m")
		l.Error("m")
	})
	_, ok := l.With("k", "v").(NopLogger)
	assert.True(t, ok, "With should return NopLogger")
}

func TestSlogAdapter(t *testing.T) {
	newAdapter := func(level slog.Level) (*SlogAdapter, *bytes.Buffer) {
		var buf bytes.Buffer
		h := slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: level})
		return NewSlogAdapter(slog.New(h)), &buf
	}

	t.Run("nil uses default", func(t *testing.T) {
		assert.NotNil(t, NewSlogAdapter(nil).logger)
	})

	t.Run("levels", func(t *testing.T) {
		tests := []struct {
			level string
			log   func(Logger)
		}{
			{"DEBUG", func(l Logger) { l.Debug("msg", "foo", "bar") }},
			{"INFO", func(l Logger) { l.Info("msg", "foo", "bar") }},
			{"WARN", func(l Logger) { l.Warn("msg", "foo", "bar") }},
			{"ERROR", func(l Logger) { l.Error("msg", "foo", "bar") }},
		}
		for _, tt := range tests {
			t.Run(tt.level, func(t *testing.T) {
				a, buf := newAdapter(slog.LevelDebug)
				tt.log(a)
				assert.Contains(t, buf.String(), "level="+tt.level)
				assert.Contains(t, buf.String(), "foo=bar")
			})
		}
	})

	t.Run("below level is dropped", func(t *testing.T) {
		a, buf := newAdapter(slog.LevelWarn)
		a.Info("quiet")
		assert.Empty(t, buf.String())
	})

	t.Run("With adds attributes", func(t *testing.T) {
		a, buf := newAdapter(slog.LevelDebug)
		a.With("component", "resolver").Debug("m", "extra", "data")
		assert.Contains(t, buf.String(), "component=resolver")
		assert.Contains(t, buf.String(), "extra=data")
	})
}

func TestLoggerOrNop(t *testing.T) {
	assert.Equal(t, NopLogger{}, LoggerOrNop(nil))
	a := NewSlogAdapter(nil)
	assert.Same(t, a, LoggerOrNop(a))
}
