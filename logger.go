package statkit

import (
	"context"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with statkit-specific context.
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
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NoopLogger creates a Logger that discards all log output.
// Use this to disable logging entirely.
func NoopLogger() *Logger {
	return &Logger{
		Logger: slog.New(slog.DiscardHandler),
	}
}

// WithClusters adds a cluster-count field to the logger.
func (l *Logger) WithClusters(k int) *Logger {
	return &Logger{
		Logger: l.Logger.With("clusters", k),
	}
}

// WithVariables adds a variable-count field to the logger.
func (l *Logger) WithVariables(n int) *Logger {
	return &Logger{
		Logger: l.Logger.With("variables", n),
	}
}

// WithSplitKey adds the split-group key values to the logger.
func (l *Logger) WithSplitKey(key []float64) *Logger {
	return &Logger{
		Logger: l.Logger.With("split_key", key),
	}
}

// LogClusterRun logs the outcome of one per-group clustering run.
func (l *Logger) LogClusterRun(ctx context.Context, group, iterations, cases int, converged bool) {
	if converged {
		l.DebugContext(ctx, "clustering converged",
			"group", group,
			"iterations", iterations,
			"cases", cases,
		)
	} else {
		l.InfoContext(ctx, "clustering stopped at iteration cap",
			"group", group,
			"iterations", iterations,
			"cases", cases,
		)
	}
}
