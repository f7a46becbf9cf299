package gateway

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/aretw0/lifecycle"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/aretw0/clipmemo/pkg/core"
)

// Server hosts the app shell and memo API behind the cache controller.
// Every request flows through the controller, so the offline behavior is
// identical whether the upstream is in-process or remote.
type Server struct {
	config     Config
	controller *Controller
	api        *API
	logger     *slog.Logger
	httpServer *http.Server
}

// NewServer assembles the full gateway in local mode: an in-process
// upstream (shell files plus API) fronted by the cache controller.
func NewServer(manager *core.Manager, store core.Store, cfg Config, logger *slog.Logger) (*Server, error) {
	if logger == nil {
		logger = slog.Default()
	}

	caches, err := OpenCaches(cfg.CacheDir(), KnownCaches()...)
	if err != nil {
		return nil, fmt.Errorf("failed to open caches: %w", err)
	}

	prompts := NewPromptCoordinator(cfg.PromptTTL)
	api := NewAPI(manager, prompts, logger)

	var fetcher Fetcher
	if cfg.Upstream != "" {
		fetcher, err = NewProxyFetcher(cfg.Upstream)
		if err != nil {
			return nil, err
		}
	} else {
		fetcher = HandlerFetcher(localUpstream(api, cfg))
	}
	controller := NewController(caches, fetcher, store, cfg, logger)

	s := &Server{
		config:     cfg,
		controller: controller,
		api:        api,
		logger:     logger,
	}
	s.httpServer = &http.Server{
		Addr:              cfg.Listen,
		Handler:           s.router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s, nil
}

// Controller exposes the cache controller, mainly for lifecycle endpoints
// and tests.
func (s *Server) Controller() *Controller {
	return s.controller
}

func (s *Server) router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(s.logger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.config.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", displayModeHeader},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Everything funnels through the controller so caching strategies and
	// offline fallbacks apply uniformly.
	r.Handle("/*", s.controller)
	return r
}

// localUpstream is the in-process origin: the API under /api plus the app
// shell from disk.
func localUpstream(api *API, cfg Config) http.Handler {
	mux := chi.NewRouter()
	mux.Mount("/api", api.Routes())
	if cfg.ShellDir != "" {
		mux.Handle("/*", http.FileServer(http.Dir(cfg.ShellDir)))
	} else {
		mux.Handle("/*", http.NotFoundHandler())
	}
	return mux
}

// HandlerFetcher adapts an in-process handler to the Fetcher interface by
// recording its response.
func HandlerFetcher(h http.Handler) Fetcher {
	return FetcherFunc(func(r *http.Request) (*CachedResponse, error) {
		rec := newResponseRecorder()
		h.ServeHTTP(rec, r)
		return rec.result(), nil
	})
}

// responseRecorder captures a handler's output as a CachedResponse.
type responseRecorder struct {
	status int
	header http.Header
	body   bytes.Buffer
}

func newResponseRecorder() *responseRecorder {
	return &responseRecorder{status: http.StatusOK, header: make(http.Header)}
}

func (r *responseRecorder) Header() http.Header { return r.header }

func (r *responseRecorder) WriteHeader(status int) { r.status = status }

func (r *responseRecorder) Write(p []byte) (int, error) { return r.body.Write(p) }

func (r *responseRecorder) result() *CachedResponse {
	return &CachedResponse{
		Status:   r.status,
		Header:   r.header,
		Body:     r.body.Bytes(),
		StoredAt: time.Now(),
	}
}

// Run installs, activates and serves until the context is canceled. The
// shutdown goroutine is tracked by the process lifecycle so teardown waits
// for the listener to drain.
func (s *Server) Run(ctx context.Context) error {
	if err := s.controller.Install(ctx); err != nil {
		return fmt.Errorf("install failed: %w", err)
	}
	if err := s.controller.Activate(ctx); err != nil {
		return fmt.Errorf("activate failed: %w", err)
	}

	lifecycle.Go(ctx, func(ctx context.Context) error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.httpServer.Shutdown(shutdownCtx)
	})

	s.logger.Info("gateway listening", "addr", s.config.Listen)
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}
