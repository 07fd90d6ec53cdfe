// Package server serves the landing page and its live sessions.
package server

import (
	"bytes"
	"context"
	stderrors "errors"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.opentelemetry.io/otel/trace"

	clientdist "github.com/vango-dev/landing/client/dist"
	"github.com/vango-dev/landing/internal/config"
	"github.com/vango-dev/landing/internal/errors"
	"github.com/vango-dev/landing/internal/site"
	"github.com/vango-dev/landing/pkg/assets"
	"github.com/vango-dev/landing/pkg/dom"
	"github.com/vango-dev/landing/pkg/live"
	"github.com/vango-dev/landing/pkg/middleware"
	"github.com/vango-dev/landing/pkg/render"
)

// LivePath is the WebSocket endpoint.
const LivePath = render.DefaultLiveURL

const immutableCache = "public, max-age=31536000, immutable"

// contentHistory is how many content versions stay available to pages
// rendered before a content swap.
const contentHistory = 8

// Server is the HTTP server for one site.
type Server struct {
	cfg     *config.Config
	mu      sync.RWMutex
	content site.Content

	// versions holds recent content by version, oldest first in order.
	versions map[string]site.Content
	order    []string

	base     *slog.Logger
	logger   *slog.Logger
	tracer   trace.TracerProvider
	registry *prometheus.Registry
	metrics  *middleware.Metrics

	manifest *assets.Manifest
	renderer *render.Renderer
	manager  *live.Manager
	router   chi.Router

	httpServer *http.Server
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// WithTracerProvider sets the tracer provider for HTTP and live spans.
// The global provider is used otherwise.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(s *Server) { s.tracer = tp }
}

// WithRegistry sets the Prometheus registry. A new registry with the Go
// and process collectors is used otherwise.
func WithRegistry(r *prometheus.Registry) Option {
	return func(s *Server) { s.registry = r }
}

// New builds the server for content.
func New(cfg *config.Config, content site.Content, opts ...Option) *Server {
	s := &Server{
		cfg:      cfg,
		logger:   slog.Default(),
		versions: make(map[string]site.Content),
	}
	s.setContent(content)
	for _, opt := range opts {
		opt(s)
	}
	s.base = s.logger
	s.logger = s.logger.With("component", "server")

	if s.registry == nil {
		s.registry = prometheus.NewRegistry()
		s.registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}
	if cfg.Server.Metrics {
		s.metrics = middleware.NewMetrics(middleware.WithRegistry(s.registry))
	}

	s.manifest = site.Manifest()
	s.renderer = render.NewRenderer(render.RendererConfig{
		Assets: assets.NewResolver(s.manifest, cfg.Site.AssetPrefix),
	})
	s.manager = s.newManager()
	s.router = s.buildRouter()
	return s
}

func (s *Server) otelOptions() []middleware.OTelOption {
	if s.tracer == nil {
		return nil
	}
	return []middleware.OTelOption{middleware.WithTracerProvider(s.tracer)}
}

func (s *Server) newManager() *live.Manager {
	opts := []live.ManagerOption{
		live.WithLogger(s.base),
		live.WithMiddleware(middleware.OpenTelemetry(s.otelOptions()...)),
	}
	if s.metrics != nil {
		opts = append(opts,
			live.WithMiddleware(s.metrics.Middleware()),
			live.WithObserver(s.metrics),
		)
	}
	return live.NewManager(s.newDocument, s.cfg.LiveConfig(), opts...)
}

// newDocument builds the session document. Ids are assigned in tree order,
// so it matches the page rendered by handlePage from the content version
// the client sends as "v". Clients without a version get the current
// content.
func (s *Server) newDocument(r *http.Request) (*dom.Document, error) {
	v := r.URL.Query().Get("v")
	if v == "" {
		return site.NewDocument(s.Content()), nil
	}
	s.mu.RLock()
	c, ok := s.versions[v]
	s.mu.RUnlock()
	if !ok {
		return nil, live.ErrStalePage
	}
	return site.NewDocument(c), nil
}

// Content returns the current page copy.
func (s *Server) Content() site.Content {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.content
}

// SetContent replaces the page copy. New page loads use c; sessions for
// pages rendered from one of the last few versions still get matching
// documents, older pages are told to reload.
func (s *Server) SetContent(c site.Content) {
	s.setContent(c)
	s.logger.Info("content updated", "title", c.Title, "version", c.Version())
}

func (s *Server) setContent(c site.Content) {
	v := c.Version()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.content = c
	if _, ok := s.versions[v]; ok {
		return
	}
	s.versions[v] = c
	s.order = append(s.order, v)
	if len(s.order) > contentHistory {
		delete(s.versions, s.order[0])
		s.order = s.order[1:]
	}
}

func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(s.requestLogger)
	r.Use(chimw.Recoverer)
	r.Use(middleware.Tracing(s.otelOptions()...))

	if origins := s.cfg.Server.AllowedOrigins; len(origins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: origins,
			AllowedMethods: []string{http.MethodGet, http.MethodHead, http.MethodOptions},
			AllowedHeaders: []string{"Accept", "Content-Type"},
			MaxAge:         300,
		}))
	}

	// The WebSocket route stays outside the HTTP metrics, whose duration
	// would measure the whole session.
	r.Get(LivePath, s.manager.ServeHTTP)

	r.Group(func(r chi.Router) {
		if s.metrics != nil {
			r.Use(s.metrics.HTTP)
		}
		r.Get("/", s.handlePage)
		r.Get(site.IndexPath, s.handlePage)
		r.Get(site.ClientPath, s.handleAsset(site.ClientPath, "text/javascript; charset=utf-8", clientdist.LiveJS))
		r.Get(site.StylesheetPath, s.handleAsset(site.StylesheetPath, "text/css; charset=utf-8", site.Stylesheet()))
		r.Get("/healthz", s.handleHealth)
	})

	if s.cfg.Server.Metrics {
		r.Handle("/metrics", middleware.Handler(s.registry))
	}
	return r
}

// requestLogger logs each request at debug level.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", chimw.GetReqID(r.Context()),
		)
	})
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	page := site.PageData(s.Content(), site.Options{LiveURL: s.cfg.Site.LiveURL})
	var buf bytes.Buffer
	if err := s.renderer.RenderPage(&buf, page); err != nil {
		s.logger.Error("render failed", "error", errors.New("E204").Wrap(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	w.Write(buf.Bytes())
}

// handleAsset serves an embedded asset. Requests carrying the current
// version are cached for a year.
func (s *Server) handleAsset(path, contentType string, data []byte) http.HandlerFunc {
	version := assets.Version(data)
	modTime := time.Now()
	return func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Content-Type", contentType)
		h.Set("ETag", `"`+version+`"`)
		if r.URL.Query().Get("v") == version {
			h.Set("Cache-Control", immutableCache)
		} else {
			h.Set("Cache-Control", "no-cache")
		}
		http.ServeContent(w, r, path, modTime, bytes.NewReader(data))
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if s.manager.Closing() {
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte(`{"status":"stopping"}`))
		return
	}
	w.Write([]byte(`{"status":"ok"}`))
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler { return s.router }

// Manager returns the live session manager.
func (s *Server) Manager() *live.Manager { return s.manager }

// Registry returns the metrics registry.
func (s *Server) Registry() *prometheus.Registry { return s.registry }

// ListenAndServe listens on the configured address and serves until ctx
// is done, then shuts down.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Server.Addr)
	if err != nil {
		return errors.New("E201").Wrap(err).WithDetailf("Address %s is unavailable.", s.cfg.Server.Addr)
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is done, then closes live sessions and
// drains in-flight requests within the shutdown timeout.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	s.httpServer = &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
		ErrorLog:          slog.NewLogLogger(s.logger.Handler(), slog.LevelWarn),
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", ln.Addr().String())
		errCh <- s.httpServer.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if err != nil && !stderrors.Is(err, http.ErrServerClosed) {
			return errors.New("E202").Wrap(err)
		}
		return nil
	case <-ctx.Done():
	}

	return s.Shutdown()
}

// Shutdown stops the server within the configured shutdown timeout.
func (s *Server) Shutdown() error {
	timeout := s.cfg.Server.ShutdownTimeout.Std()
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	s.logger.Info("shutting down", "sessions", s.manager.Count())
	liveErr := s.manager.Shutdown(ctx)
	var httpErr error
	if s.httpServer != nil {
		httpErr = s.httpServer.Shutdown(ctx)
	}
	if err := stderrors.Join(liveErr, httpErr); err != nil {
		return errors.New("E203").Wrap(err)
	}
	return nil
}

// URL returns the page URL for addr, for console output.
func URL(addr string) string {
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return "http://" + addr
	}
	if host == "" || host == "0.0.0.0" || host == "::" {
		host = "localhost"
	}
	return "http://" + net.JoinHostPort(host, port) + "/"
}
