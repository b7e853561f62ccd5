package sourceafis

import (
	"context"
	"io"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with matcher-specific helpers.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a Logger with the given handler.
// If handler is nil, uses a text handler to stderr at info level.
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

// NewTextLogger creates a Logger that writes human-readable text to w.
func NewTextLogger(w io.Writer, level slog.Level) *Logger {
	return NewLogger(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// NewJSONLogger creates a Logger that writes JSON to w.
func NewJSONLogger(w io.Writer, level slog.Level) *Logger {
	return NewLogger(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
}

// NoopLogger discards everything.
func NoopLogger() *Logger {
	return NewLogger(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{
		Level: slog.Level(1000), // Unreachable level
	}))
}

// LogMatch logs a single comparison.
func (l *Logger) LogMatch(ctx context.Context, minutiae int, score float64, err error) {
	if err != nil {
		l.WarnContext(ctx, "match interrupted",
			"candidate_minutiae", minutiae,
			"score", score,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "match completed",
			"candidate_minutiae", minutiae,
			"score", score,
		)
	}
}

// LogMatchAll logs a one-to-many comparison.
func (l *Logger) LogMatchAll(ctx context.Context, candidates, workers int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "batch match failed",
			"candidates", candidates,
			"workers", workers,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "batch match completed",
			"candidates", candidates,
			"workers", workers,
		)
	}
}
