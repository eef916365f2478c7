package logger

import (
	"io"
	"log/slog"
	"maps"
	"os"
	"slices"
)

type LoggerAdapter struct {
	logger *slog.Logger
}

// NewLoggerAdapter writes JSON to stdout in production and human readable
// text with debug output everywhere else.
func NewLoggerAdapter(env string) *LoggerAdapter {
	return newLoggerAdapter(os.Stdout, env)
}

func newLoggerAdapter(w io.Writer, env string) *LoggerAdapter {
	var handler slog.Handler
	if env == "production" {
		handler = slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo})
	} else {
		handler = slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug})
	}
	return &LoggerAdapter{logger: slog.New(handler)}
}

func (l *LoggerAdapter) Debug(msg string, fields map[string]interface{}) {
	l.logger.Debug(msg, attrs(fields)...)
}

func (l *LoggerAdapter) Info(msg string, fields map[string]interface{}) {
	l.logger.Info(msg, attrs(fields)...)
}

func (l *LoggerAdapter) Warn(msg string, fields map[string]interface{}) {
	l.logger.Warn(msg, attrs(fields)...)
}

func (l *LoggerAdapter) Error(msg string, fields map[string]interface{}) {
	l.logger.Error(msg, attrs(fields)...)
}

// attrs sorts by key so lines with the same fields always read the same.
func attrs(fields map[string]interface{}) []any {
	if len(fields) == 0 {
		return nil
	}
	out := make([]any, 0, len(fields))
	for _, key := range slices.Sorted(maps.Keys(fields)) {
		out = append(out, slog.Any(key, fields[key]))
	}
	return out
}
