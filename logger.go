package bip39crack

import (
	"context"
	"log/slog"
	"os"
	"time"
)

// Logger wraps slog.Logger with bip39crack-specific context.
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

// WithRun adds a run ID field to the logger.
func (l *Logger) WithRun(id string) *Logger {
	return &Logger{
		Logger: l.Logger.With("run", id),
	}
}

// WithWorker adds a worker ID field to the logger.
func (l *Logger) WithWorker(id int) *Logger {
	return &Logger{
		Logger: l.Logger.With("worker", id),
	}
}

// LogRunStart logs the start of a search run.
func (l *Logger) LogRunStart(ctx context.Context, workers, candidates, skipped int, tryLimit int64) {
	l.InfoContext(ctx, "search started",
		"workers", workers,
		"candidates", candidates,
		"skipped", skipped,
		"try_limit", tryLimit,
	)
}

// LogMatch logs a digest match. The sentence itself goes to the MatchSink only.
func (l *Logger) LogMatch(ctx context.Context, worker, candidate int) {
	l.InfoContext(ctx, "match found",
		"worker", worker,
		"candidate", candidate,
	)
}

// LogWorkerFinished logs the end of one worker. The worker ID comes from
// WithWorker.
func (l *Logger) LogWorkerFinished(ctx context.Context, attempts int64, err error) {
	if err != nil {
		l.ErrorContext(ctx, "worker failed",
			"attempts", attempts,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "worker finished",
			"attempts", attempts,
		)
	}
}

// LogRunFinished logs the end of a search run.
func (l *Logger) LogRunFinished(ctx context.Context, attempts int64, matches int, elapsed time.Duration, err error) {
	if err != nil {
		l.ErrorContext(ctx, "search finished with error",
			"attempts", attempts,
			"matches", matches,
			"elapsed", elapsed,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "search finished",
			"attempts", attempts,
			"matches", matches,
			"elapsed", elapsed,
		)
	}
}

// LogCheckpoint logs a checkpoint save.
func (l *Logger) LogCheckpoint(ctx context.Context, exhausted int, err error) {
	if err != nil {
		l.WarnContext(ctx, "checkpoint save failed",
			"exhausted", exhausted,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "checkpoint saved",
			"exhausted", exhausted,
		)
	}
}
