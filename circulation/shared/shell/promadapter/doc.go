// Package promadapter implements eventstore.MetricsCollector on top of the Prometheus client.
//
// Durations become histograms (in seconds), counters become counters and values become gauges.
// Each metric is created on first use with the label names of that first call.
package promadapter
