package promadapter

import (
	"errors"
	"regexp"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/AntonStoeckl/library-circulation-go/eventstore"
)

var invalidNameChars = regexp.MustCompile(`[^a-zA-Z0-9_]`)

// MetricsCollector maps the generic metrics port to Prometheus vectors.
type MetricsCollector struct {
	registerer prometheus.Registerer
	namespace  string
	buckets    []float64
	logger     eventstore.Logger

	mu         sync.Mutex
	histograms map[string]*vec[*prometheus.HistogramVec]
	counters   map[string]*vec[*prometheus.CounterVec]
	gauges     map[string]*vec[*prometheus.GaugeVec]
}

type vec[V any] struct {
	labelNames []string
	collector  V
}

// Option configures a MetricsCollector.
type Option func(*MetricsCollector)

// WithNamespace prefixes all metric names, e.g. "circulation".
func WithNamespace(namespace string) Option {
	return func(c *MetricsCollector) {
		c.namespace = sanitize(namespace)
	}
}

// WithBuckets overrides the histogram buckets (in seconds).
func WithBuckets(buckets []float64) Option {
	return func(c *MetricsCollector) {
		if len(buckets) > 0 {
			c.buckets = slices.Clone(buckets)
		}
	}
}

// WithLogger reports registration failures, which are otherwise silent.
func WithLogger(logger eventstore.Logger) Option {
	return func(c *MetricsCollector) {
		c.logger = logger
	}
}

// NewMetricsCollector creates a collector registering its vectors on registerer.
func NewMetricsCollector(registerer prometheus.Registerer, opts ...Option) *MetricsCollector {
	c := &MetricsCollector{
		registerer: registerer,
		buckets:    []float64{.001, .0025, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		histograms: make(map[string]*vec[*prometheus.HistogramVec]),
		counters:   make(map[string]*vec[*prometheus.CounterVec]),
		gauges:     make(map[string]*vec[*prometheus.GaugeVec]),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

func (c *MetricsCollector) RecordDuration(metric string, duration time.Duration, labels map[string]string) {
	c.mu.Lock()
	v, ok := c.histograms[metric]
	if !ok {
		names := labelNamesOf(labels)
		v = &vec[*prometheus.HistogramVec]{
			labelNames: names,
			collector: prometheus.NewHistogramVec(prometheus.HistogramOpts{
				Namespace: c.namespace,
				Name:      sanitize(metric),
				Help:      "Duration of " + metric + " in seconds",
				Buckets:   c.buckets,
			}, names),
		}
		v.collector = register(c, v.collector)
		c.histograms[metric] = v
	}
	c.mu.Unlock()

	v.collector.WithLabelValues(labelValuesOf(v.labelNames, labels)...).Observe(duration.Seconds())
}

func (c *MetricsCollector) IncrementCounter(metric string, labels map[string]string) {
	c.mu.Lock()
	v, ok := c.counters[metric]
	if !ok {
		names := labelNamesOf(labels)
		v = &vec[*prometheus.CounterVec]{
			labelNames: names,
			collector: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: c.namespace,
				Name:      sanitize(metric),
				Help:      "Count of " + metric,
			}, names),
		}
		v.collector = register(c, v.collector)
		c.counters[metric] = v
	}
	c.mu.Unlock()

	v.collector.WithLabelValues(labelValuesOf(v.labelNames, labels)...).Inc()
}

func (c *MetricsCollector) RecordValue(metric string, value float64, labels map[string]string) {
	c.mu.Lock()
	v, ok := c.gauges[metric]
	if !ok {
		names := labelNamesOf(labels)
		v = &vec[*prometheus.GaugeVec]{
			labelNames: names,
			collector: prometheus.NewGaugeVec(prometheus.GaugeOpts{
				Namespace: c.namespace,
				Name:      sanitize(metric),
				Help:      "Current value of " + metric,
			}, names),
		}
		v.collector = register(c, v.collector)
		c.gauges[metric] = v
	}
	c.mu.Unlock()

	v.collector.WithLabelValues(labelValuesOf(v.labelNames, labels)...).Set(value)
}

// register returns the already registered collector when an equal one exists.
func register[V prometheus.Collector](c *MetricsCollector, collector V) V {
	if c.registerer == nil {
		return collector
	}

	err := c.registerer.Register(collector)
	if err == nil {
		return collector
	}

	var alreadyRegistered prometheus.AlreadyRegisteredError
	if errors.As(err, &alreadyRegistered) {
		if existing, ok := alreadyRegistered.ExistingCollector.(V); ok {
			return existing
		}
	}

	if c.logger != nil {
		c.logger.Warn("registering prometheus collector failed", "error", err.Error())
	}

	return collector
}

func labelNamesOf(labels map[string]string) []string {
	names := make([]string, 0, len(labels))
	for name := range labels {
		names = append(names, sanitize(name))
	}

	slices.Sort(names)

	return slices.Compact(names)
}

// labelValuesOf orders values by names. Labels unknown to the vector are dropped, missing ones are empty.
func labelValuesOf(names []string, labels map[string]string) []string {
	sanitized := make(map[string]string, len(labels))
	for name, value := range labels {
		sanitized[sanitize(name)] = value
	}

	values := make([]string, len(names))
	for i, name := range names {
		values[i] = sanitized[name]
	}

	return values
}

func sanitize(name string) string {
	name = invalidNameChars.ReplaceAllString(strings.TrimSpace(name), "_")
	if name != "" && name[0] >= '0' && name[0] <= '9' {
		name = "_" + name
	}

	return name
}

var _ eventstore.MetricsCollector = (*MetricsCollector)(nil)
