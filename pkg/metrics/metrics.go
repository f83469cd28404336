// Package metrics exposes Prometheus instrumentation for load controllers.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Config configures a Collector.
type Config struct {
	// Namespace is the metrics namespace (default: "statekit").
	Namespace string

	// Subsystem is the metrics subsystem (default: "load").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// Option configures a Collector.
type Option func(*Config)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) Option {
	return func(c *Config) { c.Namespace = namespace }
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) Option {
	return func(c *Config) { c.Subsystem = subsystem }
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) Option {
	return func(c *Config) { c.ConstLabels = labels }
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) Option {
	return func(c *Config) { c.Registry = registry }
}

func defaultConfig() Config {
	return Config{
		Namespace: "statekit",
		Subsystem: "load",
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Collector holds the Prometheus metrics recorded by load controllers.
type Collector struct {
	loadsTotal      *prometheus.CounterVec
	commitsTotal    *prometheus.CounterVec
	supersededTotal prometheus.Counter
	cleanupsTotal   prometheus.Counter
	inFlight        prometheus.Gauge
}

// NewCollector creates a Collector and registers its metrics.
func NewCollector(opts ...Option) *Collector {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	factory := promauto.With(cfg.Registry)

	return &Collector{
		loadsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   cfg.Namespace,
			Subsystem:   cfg.Subsystem,
			Name:        "invocations_total",
			Help:        "Load invocations by mode (sync or async).",
			ConstLabels: cfg.ConstLabels,
		}, []string{"mode"}),
		commitsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   cfg.Namespace,
			Subsystem:   cfg.Subsystem,
			Name:        "commits_total",
			Help:        "State commits by result (data or error).",
			ConstLabels: cfg.ConstLabels,
		}, []string{"result"}),
		supersededTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   cfg.Namespace,
			Subsystem:   cfg.Subsystem,
			Name:        "superseded_total",
			Help:        "Invocations whose result was discarded because a newer generation took over.",
			ConstLabels: cfg.ConstLabels,
		}),
		cleanupsTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   cfg.Namespace,
			Subsystem:   cfg.Subsystem,
			Name:        "cleanups_total",
			Help:        "Disposer cleanups run when a generation was disposed.",
			ConstLabels: cfg.ConstLabels,
		}),
		inFlight: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   cfg.Namespace,
			Subsystem:   cfg.Subsystem,
			Name:        "in_flight",
			Help:        "Asynchronous invocations currently running.",
			ConstLabels: cfg.ConstLabels,
		}),
	}
}

// RecordLoad records an invocation. Mode is "sync" or "async".
func (c *Collector) RecordLoad(mode string) {
	if c == nil {
		return
	}
	c.loadsTotal.WithLabelValues(mode).Inc()
}

// RecordCommit records a state commit. Result is "data" or "error".
func (c *Collector) RecordCommit(result string) {
	if c == nil {
		return
	}
	c.commitsTotal.WithLabelValues(result).Inc()
}

// RecordSuperseded records a discarded stale result.
func (c *Collector) RecordSuperseded() {
	if c == nil {
		return
	}
	c.supersededTotal.Inc()
}

// RecordCleanups records n cleanups run while disposing a generation.
func (c *Collector) RecordCleanups(n int) {
	if c == nil || n == 0 {
		return
	}
	c.cleanupsTotal.Add(float64(n))
}

// IncInFlight marks an asynchronous invocation as started.
func (c *Collector) IncInFlight() {
	if c == nil {
		return
	}
	c.inFlight.Inc()
}

// DecInFlight marks an asynchronous invocation as settled.
func (c *Collector) DecInFlight() {
	if c == nil {
		return
	}
	c.inFlight.Dec()
}
