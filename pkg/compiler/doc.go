// Package compiler turns htoml documents into HTML.
//
// A Compiler parses TOML source, renders it with a render.Renderer into a
// pooled buffer and returns the finished page. Every compile runs through a
// chain of Middleware, which is where metrics and tracing hook in:
//
//	c := compiler.New(compiler.Config{
//	    Middleware: []compiler.Middleware{
//	        middleware.Prometheus(),
//	        middleware.OpenTelemetry(),
//	    },
//	})
//	res, err := c.Compile(ctx, "index.toml", src)
//
// CompileFile adds the file handling used by the CLI: it reads the source,
// compiles it and atomically writes the .html file next to it (or into an
// output directory).
//
// A compile either succeeds completely or fails with an *errors.HtomlError.
// Nothing is written when it fails.
package compiler
