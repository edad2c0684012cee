package compiler

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/natefinch/atomic"
	"github.com/oxtoacart/bpool"

	"github.com/htoml-dev/htoml/internal/errors"
	"github.com/htoml-dev/htoml/pkg/document"
	"github.com/htoml-dev/htoml/pkg/render"
)

// DefaultBufferPoolSize is the number of render buffers kept for reuse.
const DefaultBufferPoolSize = 64

// Request is one document to compile.
type Request struct {
	// Name identifies the document in errors and logs, usually its path.
	Name string

	// Source is the TOML text.
	Source []byte
}

// Result is a compiled page.
type Result struct {
	Name     string
	HTML     string
	Duration time.Duration
}

// CompileFunc compiles a single request.
type CompileFunc func(ctx context.Context, req Request) (*Result, error)

// Middleware wraps a CompileFunc. The first middleware in a chain is the
// outermost.
type Middleware func(next CompileFunc) CompileFunc

// Config configures a Compiler.
type Config struct {
	// Render configures the HTML renderer.
	Render render.RendererConfig

	// Logger receives debug output. Defaults to slog.Default().
	Logger *slog.Logger

	// Middleware wraps every compile.
	Middleware []Middleware

	// BufferPoolSize is the number of buffers kept for reuse.
	// Default: DefaultBufferPoolSize
	BufferPoolSize int
}

// Compiler converts TOML sources to HTML. It is safe for concurrent use.
type Compiler struct {
	renderer *render.Renderer
	logger   *slog.Logger
	pool     *bpool.BufferPool
	compile  CompileFunc
}

// New creates a Compiler.
func New(config Config) *Compiler {
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	if config.BufferPoolSize <= 0 {
		config.BufferPoolSize = DefaultBufferPoolSize
	}

	c := &Compiler{
		renderer: render.NewRenderer(config.Render),
		logger:   config.Logger,
		pool:     bpool.NewBufferPool(config.BufferPoolSize),
	}

	c.compile = Chain(c.run, config.Middleware...)
	return c
}

// Chain wraps fn with mw so that mw[0] runs first.
func Chain(fn CompileFunc, mw ...Middleware) CompileFunc {
	for i := len(mw) - 1; i >= 0; i-- {
		if mw[i] != nil {
			fn = mw[i](fn)
		}
	}
	return fn
}

// Renderer returns the underlying renderer.
func (c *Compiler) Renderer() *render.Renderer {
	return c.renderer
}

// Compile parses src and renders it to a complete HTML page.
func (c *Compiler) Compile(ctx context.Context, name string, src []byte) (*Result, error) {
	return c.compile(ctx, Request{Name: name, Source: src})
}

// run is the innermost CompileFunc.
func (c *Compiler) run(ctx context.Context, req Request) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start := time.Now()

	doc, err := document.Parse(req.Name, req.Source)
	if err != nil {
		return nil, err
	}

	buf := c.pool.Get()
	defer c.pool.Put(buf)

	if err := c.renderer.RenderToWriter(buf, doc); err != nil {
		return nil, err
	}

	res := &Result{
		Name:     req.Name,
		HTML:     buf.String(),
		Duration: time.Since(start),
	}
	c.logger.Debug("compiled document",
		"name", req.Name,
		"bytes", len(res.HTML),
		"duration", res.Duration,
	)
	return res, nil
}

// CompileFile reads path, compiles it and writes the page to OutputPath.
// It returns the result and the path written.
func (c *Compiler) CompileFile(ctx context.Context, path, outDir string) (*Result, string, error) {
	res, err := c.CompileFileContent(ctx, path)
	if err != nil {
		return nil, "", err
	}

	out := OutputPath(path, outDir)
	if err := WriteOutput(out, res.HTML); err != nil {
		return nil, "", err
	}
	c.logger.Debug("wrote output", "source", path, "output", out)
	return res, out, nil
}

// CompileFileContent reads and compiles path without writing anything.
func (c *Compiler) CompileFileContent(ctx context.Context, path string) (*Result, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.New(errors.CodeReadFile).WithSubject(path).Wrap(err)
	}
	return c.Compile(ctx, path, src)
}

// OutputPath returns the .html path for a source file. With an empty outDir
// the page sits next to its source.
func OutputPath(path, outDir string) string {
	base := filepath.Base(path)
	name := strings.TrimSuffix(base, filepath.Ext(base)) + ".html"
	if outDir == "" {
		return filepath.Join(filepath.Dir(path), name)
	}
	return filepath.Join(outDir, name)
}

// WriteOutput atomically replaces path with html, creating parent
// directories as needed.
func WriteOutput(path, html string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.New(errors.CodeWriteFile).WithSubject(path).Wrap(err)
		}
	}
	if err := atomic.WriteFile(path, strings.NewReader(html)); err != nil {
		return errors.New(errors.CodeWriteFile).WithSubject(path).Wrap(err)
	}
	return nil
}
