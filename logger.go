package mmprep

import (
	"context"
	"log/slog"
	"os"

	"github.com/hupe1980/mmprep/align"
)

// Logger wraps slog.Logger with mmprep-specific context.
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

// WithSource adds a source name field to the logger.
func (l *Logger) WithSource(name string) *Logger {
	return &Logger{
		Logger: l.Logger.With("source", name),
	}
}

// LogLoad logs an annotation file that was read.
func (l *Logger) LogLoad(ctx context.Context, file string, entries int) {
	l.DebugContext(ctx, "annotation loaded",
		"file", file,
		"entries", entries,
	)
}

// LogJoin logs the outcome of a key intersection, one line per input.
func (l *Logger) LogJoin(ctx context.Context, name string, res align.Result) {
	l.InfoContext(ctx, "keys joined",
		"join", name,
		"kept", res.Len(),
	)
	for _, c := range res.Sources {
		if c.Dropped > 0 {
			l.InfoContext(ctx, "keys excluded from join",
				"join", name,
				"input", c.Name,
				"keys", c.Keys,
				"dropped", c.Dropped,
			)
		}
	}
}

// LogMissingFile logs an image file that does not exist.
func (l *Logger) LogMissingFile(ctx context.Context, path string) {
	l.DebugContext(ctx, "image excluded",
		"path", path,
	)
}

// LogFilter logs keys dropped for reason.
func (l *Logger) LogFilter(ctx context.Context, reason string, dropped int) {
	if dropped == 0 {
		return
	}
	l.InfoContext(ctx, "keys filtered",
		"reason", reason,
		"dropped", dropped,
	)
}

// LogConvert logs a finished conversion.
func (l *Logger) LogConvert(ctx context.Context, name string, images int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "conversion failed",
			"source", name,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "conversion completed",
			"source", name,
			"images", images,
		)
	}
}

// LogSave logs a record write.
func (l *Logger) LogSave(ctx context.Context, name string, bytes int64, err error) {
	if err != nil {
		l.ErrorContext(ctx, "record save failed",
			"record", name,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "record saved",
			"record", name,
			"bytes", bytes,
		)
	}
}
