package main

import (
	"context"
	"log/slog"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// spanLogger is a SpanExporter that writes every finished span as a debug log line.
type spanLogger struct {
	logger *slog.Logger
}

func newSpanLogger(logger *slog.Logger) *spanLogger {
	return &spanLogger{logger: logger}
}

func (e *spanLogger) ExportSpans(ctx context.Context, spans []sdktrace.ReadOnlySpan) error {
	for _, span := range spans {
		e.logger.DebugContext(ctx, "span finished",
			"span_name", span.Name(),
			"trace_id", span.SpanContext().TraceID().String(),
			"span_id", span.SpanContext().SpanID().String(),
			"status", span.Status().Code.String(),
			"duration_ms", float64(span.EndTime().Sub(span.StartTime()).Microseconds())/1000,
		)
	}

	return nil
}

func (e *spanLogger) Shutdown(context.Context) error {
	return nil
}
