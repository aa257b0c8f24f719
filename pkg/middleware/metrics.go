package middleware

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/ripple-dev/ripple/pkg/ripple"
)

// MetricsConfig configures the Prometheus metrics decorator.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "ripple").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for sink dispatch duration.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// MetricsOption configures the Prometheus metrics decorator.
type MetricsOption func(*MetricsConfig)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) MetricsOption {
	return func(c *MetricsConfig) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the histogram buckets.
func WithBuckets(buckets []float64) MetricsOption {
	return func(c *MetricsConfig) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) MetricsOption {
	return func(c *MetricsConfig) {
		c.Registry = registry
	}
}

// defaultMetricsConfig returns the default metrics configuration.
func defaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Namespace: "ripple",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// metrics holds the Prometheus collectors for one decorator instance.
type metrics struct {
	changesTotal *prometheus.CounterVec
	pulsesTotal  prometheus.Counter
	sinkDuration prometheus.Histogram
}

// initMetrics registers the collectors with the configured registry.
func initMetrics(config MetricsConfig) *metrics {
	factory := promauto.With(config.Registry)

	return &metrics{
		changesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "changes_total",
			Help:        "Total number of model mutations by operation",
			ConstLabels: config.ConstLabels,
		}, []string{"op"}),

		pulsesTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "invalidation_pulses_total",
			Help:        "Total number of derived-value invalidation pulses",
			ConstLabels: config.ConstLabels,
		}),

		sinkDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "sink_duration_seconds",
			Help:        "Notification dispatch duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}),
	}
}

// Metrics wraps next with Prometheus instrumentation. Each call registers
// a fresh set of collectors, so wrap once per registry; pass WithRegistry
// to avoid collisions on the default registerer.
//
// next may be nil when only the metrics are wanted.
func Metrics(next ripple.Sink, opts ...MetricsOption) ripple.Sink {
	config := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&config)
	}
	m := initMetrics(config)

	return func(target *ripple.Object, key string, change *ripple.Change) {
		start := time.Now()

		if change == nil {
			m.pulsesTotal.Inc()
		} else {
			m.changesTotal.WithLabelValues(change.Op.String()).Inc()
		}

		if next != nil {
			next(target, key, change)
		}

		m.sinkDuration.Observe(time.Since(start).Seconds())
	}
}
