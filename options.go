package sift

import (
	"log/slog"

	"github.com/georgefloros/sift-go/pkg/metrics"
)

// Option configures compilation and evaluation.
type Option func(*config)

type config struct {
	logger     *slog.Logger
	metrics    *metrics.Registry
	allowWhere bool
}

func newConfig(opts []Option) config {
	cfg := config{
		logger:     slog.New(slog.DiscardHandler),
		allowWhere: true,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// WithLogger attaches a structured logger. The engine logs compilations at
// debug level and $where script failures at warn level.
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *config) {
		if logger != nil {
			cfg.logger = logger
		}
	}
}

// WithMetrics attaches a metrics registry recording compiles, evaluations,
// and $where script runs.
func WithMetrics(r *metrics.Registry) Option {
	return func(cfg *config) {
		cfg.metrics = r
	}
}

// WithoutWhere makes compilation reject $where operators. The operator is
// enabled by default; embedders that cannot afford script evaluation use
// this to close the surface at compile time.
func WithoutWhere() Option {
	return func(cfg *config) {
		cfg.allowWhere = false
	}
}
