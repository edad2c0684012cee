package dev

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/htoml-dev/htoml/internal/config"
	"github.com/htoml-dev/htoml/pkg/compiler"
	"github.com/htoml-dev/htoml/pkg/middleware"
	"github.com/htoml-dev/htoml/pkg/render"
)

// ServerOptions configures the development server.
type ServerOptions struct {
	// Config is the project configuration.
	Config *config.Config

	// Logger receives server logs. Defaults to slog.Default().
	Logger *slog.Logger

	// Registry collects compile metrics and backs /metrics.
	// Defaults to a new registry.
	Registry *prometheus.Registry

	// OnReload is called after browsers are told to reload.
	OnReload func(clients int)
}

// Server is the development server.
type Server struct {
	config       *config.Config
	options      ServerOptions
	logger       *slog.Logger
	pages        *pages
	watcher      *Watcher
	reloadServer *ReloadServer
	registry     *prometheus.Registry
	handler      http.Handler
	changeCh     chan Change
	httpServer   *http.Server
	mu           sync.Mutex
	running      bool
	hotReload    bool
}

// NewServer creates a new development server.
func NewServer(options ServerOptions) (*Server, error) {
	cfg := options.Config
	if cfg == nil {
		cfg = config.New()
	}
	logger := options.Logger
	if logger == nil {
		logger = slog.Default()
	}
	registry := options.Registry
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	cache, err := newPageCache(int64(cfg.Serve.CacheSize))
	if err != nil {
		return nil, err
	}

	c := compiler.New(compiler.Config{
		Render: render.RendererConfig{Escape: cfg.Escape},
		Logger: logger,
		Middleware: []compiler.Middleware{
			middleware.Prometheus(middleware.WithRegistry(registry)),
			middleware.OpenTelemetry(),
		},
	})

	watcher := NewWatcher(WatcherConfig{
		Paths:    CollectWatchPaths(cfg),
		Ignore:   append(append([]string{}, DefaultIgnore...), cfg.Serve.Ignore...),
		Interval: 100 * time.Millisecond,
	})

	hotReload := cfg.HotReloadEnabled()
	var reloadServer *ReloadServer
	if hotReload {
		reloadServer = NewReloadServer()
	}

	s := &Server{
		config:  cfg,
		options: options,
		logger:  logger,
		pages: &pages{
			root:     cfg.RootPath(),
			compiler: c,
			cache:    cache,
		},
		watcher:      watcher,
		reloadServer: reloadServer,
		registry:     registry,
		hotReload:    hotReload,
	}
	s.handler = s.routes()
	return s, nil
}

// routes builds the HTTP router.
func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	r.Use(s.logRequests)

	if s.reloadEnabled() {
		r.Get(ReloadPath, s.reloadServer.HandleWebSocket)
	}
	r.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
	r.Get("/*", s.serve)
	r.Head("/*", s.serve)

	return r
}

// Handler returns the server's HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Start starts watching and serving. It blocks until ctx is done or the
// listener fails.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return nil
	}
	s.running = true
	s.changeCh = make(chan Change, 64)
	s.httpServer = &http.Server{
		Addr:              s.config.ServeAddress(),
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.mu.Unlock()

	s.watcher.OnChange(func(change Change) {
		select {
		case s.changeCh <- change:
		default:
			// The queue is full; a reload for the pending batch is enough.
		}
	})
	go s.watcher.Start(ctx)
	go s.processChanges(ctx)

	s.logger.Info("serving documents", "root", s.pages.root, "url", s.config.ServeURL(), "hotReload", s.hotReload)

	errCh := make(chan error, 1)
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case <-ctx.Done():
		s.Stop()
		return nil
	case err := <-errCh:
		s.Stop()
		return err
	}
}

// Stop stops the development server.
func (s *Server) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}

	s.running = false
	s.watcher.Stop()
	if s.reloadServer != nil {
		s.reloadServer.Close()
	}
	s.pages.cache.close()

	if s.httpServer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.httpServer.Shutdown(ctx)
	}
}

// serve answers a page request: a document compiled to HTML when one maps
// to the URL, a static file otherwise.
func (s *Server) serve(w http.ResponseWriter, r *http.Request) {
	docPath, ok := s.pages.resolve(r.URL.Path)
	if !ok {
		http.FileServer(http.Dir(s.pages.root)).ServeHTTP(w, r)
		return
	}

	out, err := s.pages.render(r.Context(), docPath)
	if err != nil {
		s.logger.Error("compile failed", "path", docPath, "error", err)
		s.notifyError(err)
		s.writeHTML(w, http.StatusInternalServerError, errorPage(err))
		return
	}
	s.writeHTML(w, http.StatusOK, out)
}

func (s *Server) writeHTML(w http.ResponseWriter, status int, page string) {
	if s.reloadEnabled() {
		page = InjectClientScript(page)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	w.Write([]byte(page))
}

// logRequests logs each request at debug level.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
		)
	})
}

// processChanges serializes file change handling and coalesces bursts.
func (s *Server) processChanges(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case change := <-s.changeCh:
			changes := []Change{change}
			draining := true
			for draining {
				select {
				case next := <-s.changeCh:
					changes = append(changes, next)
				default:
					draining = false
				}
			}
			s.handleChanges(ctx, changes)
		}
	}
}

// handleChanges invalidates cached pages for a batch of changes, recompiles
// changed documents to surface errors, and reloads browsers.
func (s *Server) handleChanges(ctx context.Context, changes []Change) {
	if len(changes) == 0 {
		return
	}

	var failed error
	for _, change := range changes {
		s.logger.Info("changed", "path", change.Path, "type", change.Type.String(), "removed", change.Removed)
		switch change.Type {
		case ChangeConfig:
			s.logger.Warn("htoml.json changed; restart the server to apply it")
		case ChangeDocument:
			s.pages.cache.invalidate(change.Path)
			if change.Removed {
				continue
			}
			if _, err := s.pages.render(ctx, change.Path); err != nil && failed == nil {
				failed = err
			}
		}
	}

	if failed != nil {
		s.logger.Error("compile failed", "error", failed)
		s.notifyError(failed)
		return
	}
	s.clearReloadError()
	s.notifyReload()
}

func (s *Server) reloadEnabled() bool {
	return s.hotReload && s.reloadServer != nil
}

func (s *Server) notifyReload() {
	if !s.reloadEnabled() {
		return
	}

	s.reloadServer.NotifyReload()
	if s.options.OnReload != nil {
		s.options.OnReload(s.reloadServer.ClientCount())
	}
	s.logger.Debug("reloaded browsers", "clients", s.reloadServer.ClientCount())
}

func (s *Server) notifyError(err error) {
	if !s.reloadEnabled() {
		return
	}
	s.reloadServer.NotifyError(errorReport(err))
}

func (s *Server) clearReloadError() {
	if !s.reloadEnabled() {
		return
	}
	s.reloadServer.ClearError()
}

func isWithinDir(path, dir string) bool {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return false
	}
	absPath = filepath.Clean(absPath)
	absDir = filepath.Clean(absDir)
	if absPath == absDir {
		return true
	}
	if !strings.HasSuffix(absDir, string(os.PathSeparator)) {
		absDir += string(os.PathSeparator)
	}
	return strings.HasPrefix(absPath, absDir)
}
