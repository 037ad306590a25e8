package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Registry manages all Prometheus metrics for the query engine.
type Registry struct {
	config   Config
	registry *prometheus.Registry

	// Compile metrics
	compilesTotal *prometheus.CounterVec

	// Evaluation metrics
	evaluationsTotal *prometheus.CounterVec
	evalDuration     prometheus.Histogram

	// $where metrics
	whereEvalsTotal *prometheus.CounterVec
}

// Global registry instance
var (
	globalRegistry *Registry
	once           sync.Once
)

// NewRegistry creates a new metrics registry with the given configuration.
func NewRegistry(config Config) *Registry {
	reg := prometheus.NewRegistry()

	r := &Registry{
		config:   config,
		registry: reg,
	}

	r.registerQueryMetrics()

	if config.EnableProcessMetrics {
		reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	}
	if config.EnableRuntimeMetrics {
		reg.MustRegister(collectors.NewGoCollector())
	}

	return r
}

// Global returns the global registry instance, initializing it with default
// config if needed.
func Global() *Registry {
	once.Do(func() {
		if globalRegistry == nil {
			globalRegistry = NewRegistry(DefaultConfig())
		}
	})
	return globalRegistry
}

// SetGlobal sets the global registry instance.
func SetGlobal(r *Registry) {
	globalRegistry = r
}

// PrometheusRegistry returns the underlying Prometheus registry.
func (r *Registry) PrometheusRegistry() *prometheus.Registry {
	return r.registry
}

// Config returns the registry configuration.
func (r *Registry) Config() Config {
	return r.config
}

func (r *Registry) registerQueryMetrics() {
	ns := r.config.Namespace

	buckets := r.config.EvalDurationBuckets
	if len(buckets) == 0 {
		buckets = DefaultEvalDurationBuckets()
	}

	r.compilesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   ns,
			Subsystem:   "query",
			Name:        "compiles_total",
			Help:        "Total number of query compilations by status",
			ConstLabels: r.config.DefaultLabels,
		},
		[]string{"status"},
	)

	r.evaluationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   ns,
			Subsystem:   "query",
			Name:        "evaluations_total",
			Help:        "Total number of document evaluations by result",
			ConstLabels: r.config.DefaultLabels,
		},
		[]string{"result"},
	)

	r.evalDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace:   ns,
			Subsystem:   "query",
			Name:        "evaluation_duration_seconds",
			Help:        "Document evaluation duration in seconds",
			Buckets:     buckets,
			ConstLabels: r.config.DefaultLabels,
		},
	)

	r.whereEvalsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   ns,
			Subsystem:   "query",
			Name:        "where_evaluations_total",
			Help:        "Total number of $where script evaluations by status",
			ConstLabels: r.config.DefaultLabels,
		},
		[]string{"status"},
	)

	r.registry.MustRegister(
		r.compilesTotal,
		r.evaluationsTotal,
		r.evalDuration,
		r.whereEvalsTotal,
	)
}

// RecordCompile records the outcome of one query compilation.
func (r *Registry) RecordCompile(err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	r.compilesTotal.WithLabelValues(status).Inc()
}

// RecordEvaluation records the outcome and duration of one evaluation.
func (r *Registry) RecordEvaluation(matched bool, err error, elapsed time.Duration) {
	result := "miss"
	switch {
	case err != nil:
		result = "error"
	case matched:
		result = "match"
	}
	r.evaluationsTotal.WithLabelValues(result).Inc()
	r.evalDuration.Observe(elapsed.Seconds())
}

// RecordWhere records one $where script run.
func (r *Registry) RecordWhere(err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	r.whereEvalsTotal.WithLabelValues(status).Inc()
}
