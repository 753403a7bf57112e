package simplenotes

import (
	"context"
	"log/slog"
)

// NoopEventSink is a no-operation implementation of EventSink
type NoopEventSink struct{}

// NewNoopEventSink creates a new no-operation event sink
func NewNoopEventSink() EventSink {
	return &NoopEventSink{}
}

// NoteSaved does nothing and returns nil
func (n *NoopEventSink) NoteSaved(ctx context.Context, result *SaveResult) error {
	return nil
}

// NoteDeleted does nothing and returns nil
func (n *NoopEventSink) NoteDeleted(ctx context.Context, result *DeleteResult) error {
	return nil
}

// LoggingEventSink writes one structured log line per event
type LoggingEventSink struct {
	logger *slog.Logger
}

// NewLoggingEventSink creates an event sink logging to logger, or to the
// default logger when nil.
func NewLoggingEventSink(logger *slog.Logger) EventSink {
	if logger == nil {
		logger = slog.Default()
	}
	return &LoggingEventSink{logger: logger}
}

func (l *LoggingEventSink) NoteSaved(ctx context.Context, result *SaveResult) error {
	l.logger.InfoContext(ctx, "note saved",
		"name", result.Name,
		"file_url", result.FileURL,
		"outcome", result.Status.Outcome(),
		"warnings", result.Status.Warnings())
	return nil
}

func (l *LoggingEventSink) NoteDeleted(ctx context.Context, result *DeleteResult) error {
	l.logger.InfoContext(ctx, "note deleted",
		"name", result.Name,
		"row_deleted", result.RowDeleted,
		"blob_deleted", result.BlobDeleted,
		"outcome", result.Status.Outcome())
	return nil
}
