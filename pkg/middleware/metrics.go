package middleware

import (
	"context"
	stderrors "errors"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/htoml-dev/htoml/internal/errors"
	"github.com/htoml-dev/htoml/pkg/compiler"
)

// MetricsConfig configures the Prometheus metrics middleware.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "htoml").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for compile duration.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// MetricsOption configures the Prometheus metrics middleware.
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

func defaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Namespace: "htoml",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// metrics holds the compile metrics registered on one registry.
type metrics struct {
	compilesTotal   *prometheus.CounterVec
	compileDuration prometheus.Histogram
	compileErrors   *prometheus.CounterVec
	outputBytes     prometheus.Histogram
}

// registered caches metrics per registry so several middleware instances
// (or a dev server restart) share one set of collectors.
var (
	registeredMu sync.Mutex
	registered   = map[prometheus.Registerer]*metrics{}
)

func metricsFor(config MetricsConfig) *metrics {
	registeredMu.Lock()
	defer registeredMu.Unlock()

	if m, ok := registered[config.Registry]; ok {
		return m
	}
	m := &metrics{
		compilesTotal: register(config.Registry, prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "compiles_total",
			Help:        "Total number of documents compiled",
			ConstLabels: config.ConstLabels,
		}, []string{"status"})),

		compileDuration: register(config.Registry, prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "compile_duration_seconds",
			Help:        "Document compile duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		})),

		compileErrors: register(config.Registry, prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "compile_errors_total",
			Help:        "Total number of failed compiles by error code",
			ConstLabels: config.ConstLabels,
		}, []string{"code"})),

		outputBytes: register(config.Registry, prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "output_bytes",
			Help:        "Size of generated HTML pages in bytes",
			ConstLabels: config.ConstLabels,
			Buckets:     prometheus.ExponentialBuckets(256, 4, 8), // 256B to 4MB
		})),
	}
	registered[config.Registry] = m
	return m
}

// register registers c, or returns the collector already registered under
// the same descriptor.
func register[C prometheus.Collector](reg prometheus.Registerer, c C) C {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if stderrors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing
			}
		}
		panic(err)
	}
	return c
}

// Prometheus creates middleware that records Prometheus metrics for every
// compile.
//
// Example:
//
//	reg := prometheus.NewRegistry()
//	c := compiler.New(compiler.Config{
//	    Middleware: []compiler.Middleware{
//	        middleware.Prometheus(middleware.WithRegistry(reg)),
//	    },
//	})
func Prometheus(opts ...MetricsOption) compiler.Middleware {
	config := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&config)
	}
	m := metricsFor(config)

	return func(next compiler.CompileFunc) compiler.CompileFunc {
		return func(ctx context.Context, req compiler.Request) (*compiler.Result, error) {
			start := time.Now()
			res, err := next(ctx, req)
			m.compileDuration.Observe(time.Since(start).Seconds())

			if err != nil {
				m.compilesTotal.WithLabelValues("error").Inc()
				m.compileErrors.WithLabelValues(errorCode(err)).Inc()
				return res, err
			}
			m.compilesTotal.WithLabelValues("success").Inc()
			m.outputBytes.Observe(float64(len(res.HTML)))
			return res, nil
		}
	}
}

// errorCode returns a bounded label for err: its registry code, or a small
// set of fallbacks.
func errorCode(err error) string {
	if code := errors.CodeOf(err); code != "" {
		return code
	}
	switch {
	case stderrors.Is(err, context.Canceled):
		return "canceled"
	case stderrors.Is(err, context.DeadlineExceeded):
		return "timeout"
	default:
		return "internal"
	}
}
