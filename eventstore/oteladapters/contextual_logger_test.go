package oteladapters_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/AntonStoeckl/library-circulation-go/eventstore/oteladapters"
)

func Test_SlogBridgeLogger_AllLevels(t *testing.T) {
	// arrange
	var buf bytes.Buffer
	logger := oteladapters.NewSlogBridgeLoggerWithHandler(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	ctx := context.Background()

	// act
	logger.DebugContext(ctx, "debug message")
	logger.InfoContext(ctx, "info message", "book_id", "b-1")
	logger.WarnContext(ctx, "warn message")
	logger.ErrorContext(ctx, "error message")

	// assert
	output := buf.String()
	assert.Contains(t, output, `"msg":"debug message"`)
	assert.Contains(t, output, `"book_id":"b-1"`)
	assert.Contains(t, output, `"level":"WARN"`)
	assert.Contains(t, output, `"level":"ERROR"`)
	assert.NotContains(t, output, "trace_id")
}

func Test_SlogBridgeLogger_AddsTraceCorrelation(t *testing.T) {
	// arrange
	var buf bytes.Buffer
	logger := oteladapters.NewSlogBridgeLoggerWithHandler(slog.NewJSONHandler(&buf, nil))
	provider := sdktrace.NewTracerProvider()
	ctx, span := provider.Tracer("test").Start(context.Background(), "command.handle")
	defer span.End()

	// act
	logger.InfoContext(ctx, "borrow request approved")

	// assert
	output := buf.String()
	assert.Contains(t, output, `"trace_id":"`+span.SpanContext().TraceID().String()+`"`)
	assert.Contains(t, output, `"span_id":"`+span.SpanContext().SpanID().String()+`"`)
}

func Test_TraceCorrelatingHandler_KeepsAttrsAndGroups(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(oteladapters.NewTraceCorrelatingHandler(slog.NewJSONHandler(&buf, nil))).
		With("component", "audit").
		WithGroup("entry")

	logger.Info("written", "action", "RETURN")

	assert.Contains(t, buf.String(), `"component":"audit"`)
	assert.Contains(t, buf.String(), `"entry":{"action":"RETURN"}`)
}

func Test_NewSlogBridgeLogger_UsesGlobalProvider(t *testing.T) {
	logger := oteladapters.NewSlogBridgeLogger("circulation")

	assert.NotNil(t, logger.Logger())
	logger.InfoContext(context.Background(), "does not panic without a configured provider")
}
