package bagtensor

import (
	"context"
	"io"
	"log/slog"
	"os"
	"time"
)

// Logger wraps slog.Logger with pipeline-specific helpers.
// This provides structured logging with consistent field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
// level sets the minimum log level (e.g., slog.LevelDebug, slog.LevelInfo).
func NewJSONLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// NoopLogger creates a Logger that discards all log output.
func NoopLogger() *Logger {
	return NewLogger(slog.NewTextHandler(io.Discard, nil))
}

// WithRun adds the run id to every record.
func (l *Logger) WithRun(id string) *Logger {
	return &Logger{
		Logger: l.Logger.With("run", id),
	}
}

// LogStage logs the completion of a pipeline stage.
func (l *Logger) LogStage(ctx context.Context, stage string, items int, d time.Duration, err error) {
	if err != nil {
		l.ErrorContext(ctx, "stage failed",
			"stage", stage,
			"error", err,
		)
		return
	}
	l.InfoContext(ctx, "stage completed",
		"stage", stage,
		"items", items,
		"duration", d,
	)
}

// LogShard logs a written shard.
func (l *Logger) LogShard(ctx context.Context, name string, reviews, values int, bytes int64, err error) {
	if err != nil {
		l.ErrorContext(ctx, "shard write failed",
			"shard", name,
			"error", err,
		)
		return
	}
	l.DebugContext(ctx, "shard written",
		"shard", name,
		"reviews", reviews,
		"values", values,
		"bytes", bytes,
	)
}

// LogRepair logs the outcome of the coverage repair of a split.
func (l *Logger) LogRepair(ctx context.Context, users, items, words, skipped int) {
	if users+items+words == 0 {
		l.DebugContext(ctx, "split needed no coverage repair")
		return
	}
	l.InfoContext(ctx, "split coverage repaired",
		"users", users,
		"items", items,
		"words", words,
		"skipped", skipped,
	)
}

// LogWarning logs a non-fatal condition.
func (l *Logger) LogWarning(ctx context.Context, err error, args ...any) {
	l.WarnContext(ctx, err.Error(), args...)
}
