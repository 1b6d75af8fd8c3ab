// Package oteladapters connects the eventstore observability interfaces to OpenTelemetry.
//
// TracingCollector creates one span per event store or handler operation. SlogBridgeLogger and
// TraceCorrelatingHandler put trace and span IDs on log records, so logs and traces can be joined.
package oteladapters
