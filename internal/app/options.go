package app

import (
	"time"

	"github.com/example/shopplan/internal/logger"
	"github.com/example/shopplan/internal/metrics"
	"github.com/example/shopplan/internal/ports/secondary"
)

// Option configures the ambient dependencies of a service.
type Option func(*options)

type options struct {
	logger  logger.Logger
	metrics secondary.MetricsSink
	now     func() time.Time
}

// WithLogger sets the service logger.
func WithLogger(l logger.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithMetrics sets the sink that receives planner events.
func WithMetrics(m secondary.MetricsSink) Option {
	return func(o *options) {
		if m != nil {
			o.metrics = m
		}
	}
}

// WithClock overrides the time source; tests use it to pin "now".
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

func applyOptions(opts []Option) options {
	o := options{
		logger:  logger.NopLogger{},
		metrics: metrics.NopSink{},
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
