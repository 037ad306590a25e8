// Package metrics provides Prometheus metrics collection for the query
// engine: compile counts, evaluation outcomes and latency, and $where
// script runs.
package metrics

// Config holds configuration for the metrics module.
type Config struct {
	// Namespace is the prefix for all metrics (default: "sift")
	Namespace string

	// DefaultLabels are applied to all metrics
	DefaultLabels map[string]string

	// EnableProcessMetrics enables Go process metrics (CPU, memory, goroutines)
	EnableProcessMetrics bool

	// EnableRuntimeMetrics enables Go runtime metrics
	EnableRuntimeMetrics bool

	// EvalDurationBuckets overrides the evaluation latency histogram buckets
	EvalDurationBuckets []float64
}

// DefaultConfig returns the default metrics configuration.
func DefaultConfig() Config {
	return Config{
		Namespace:            "sift",
		EnableProcessMetrics: false,
		EnableRuntimeMetrics: false,
		EvalDurationBuckets:  DefaultEvalDurationBuckets(),
	}
}

// DefaultEvalDurationBuckets returns latency buckets tuned for in-memory
// evaluation: sub-microsecond fast paths up to script-heavy calls.
func DefaultEvalDurationBuckets() []float64 {
	return []float64{
		0.0000001, 0.0000005,
		0.000001, 0.000005,
		0.00001, 0.00005,
		0.0001, 0.0005,
		0.001, 0.005,
		0.01, 0.05, 0.1,
	}
}
