// Package middleware provides compiler middleware for observability.
//
// This package includes:
//   - Prometheus metrics for every compile
//   - OpenTelemetry tracing for every compile
//
// # Prometheus Metrics
//
// The Prometheus middleware records:
//   - htoml_compiles_total: compiles by status (success or error)
//   - htoml_compile_duration_seconds: compile duration histogram
//   - htoml_compile_errors_total: failed compiles by error code
//   - htoml_output_bytes: size of the generated pages
//
// Add it to the compiler chain:
//
//	c := compiler.New(compiler.Config{
//	    Middleware: []compiler.Middleware{
//	        middleware.Prometheus(),
//	    },
//	})
//
// Then expose the metrics:
//
//	http.Handle("/metrics", promhttp.Handler())
//
// # OpenTelemetry Middleware
//
// The OpenTelemetry middleware starts an "htoml.compile" span per document.
// The span context is passed down the chain, so later middleware and the
// compiler itself run inside it.
//
//	middleware.OpenTelemetry(
//	    middleware.WithTracerName("my-site"),
//	    middleware.WithFilter(func(req compiler.Request) bool {
//	        return !strings.HasPrefix(req.Name, "drafts/")
//	    }),
//	)
//
// The tracer comes from the global provider unless WithTracerProvider is
// given. Configure it in main() before compiling.
package middleware
