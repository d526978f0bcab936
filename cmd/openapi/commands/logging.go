package commands

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/lmittmann/tint"
)

// LogLevel is the verbosity of diagnostic logging on stderr.
type LogLevel int

const (
	LogLevelDebug LogLevel = iota
	LogLevelInfo
	LogLevelWarn
	LogLevelError
	LogLevelSilent
)

// DefaultLogLevel is used when neither --log-level nor OPENAPI_LOG is set.
const DefaultLogLevel = "warn"

// ParseLogLevel converts a flag or environment value into a LogLevel.
func ParseLogLevel(s string) (LogLevel, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LogLevelDebug, nil
	case "info":
		return LogLevelInfo, nil
	case "warn", "warning":
		return LogLevelWarn, nil
	case "error":
		return LogLevelError, nil
	case "silent", "off":
		return LogLevelSilent, nil
	}
	return LogLevelSilent, fmt.Errorf("invalid log level '%s'. Valid levels: debug, info, warn, error, silent", s)
}

func (l LogLevel) toSlogLevel() slog.Level {
	switch l {
	case LogLevelDebug:
		return slog.LevelDebug
	case LogLevelInfo:
		return slog.LevelInfo
	case LogLevelWarn:
		return slog.LevelWarn
	case LogLevelError:
		return slog.LevelError
	default:
		return slog.Level(100)
	}
}

func rewriteLogLevel(groups []string, a slog.Attr) slog.Attr {
	if a.Key == slog.LevelKey && len(groups) == 0 {
		level, ok := a.Value.Any().(slog.Level)
		if !ok {
			return a
		}

		var levelText string
		switch level {
		case slog.LevelDebug:
			levelText = "DEBUG"
		case slog.LevelInfo:
			levelText = color.GreenString("INFO")
		case slog.LevelWarn:
			levelText = color.YellowString("WARN")
		case slog.LevelError:
			levelText = color.RedString("ERROR")
		default:
			levelText = level.String()
		}
		a.Value = slog.StringValue(levelText)
	}
	return a
}

// NewLogger creates a human-readable logger writing to w.
func NewLogger(w io.Writer, level LogLevel) *slog.Logger {
	return slog.New(tint.NewHandler(w, &tint.Options{
		Level:       level.toSlogLevel(),
		TimeFormat:  time.TimeOnly,
		NoColor:     color.NoColor,
		ReplaceAttr: rewriteLogLevel,
	}))
}
