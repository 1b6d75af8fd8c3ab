// Package spies provides test doubles for the observability ports of the event store:
// a MetricsCollectorSpy, a TracingCollectorSpy and a ContextualLoggerSpy.
// They record every call so tests can assert on metric names, labels, span statuses and log messages.
package spies
