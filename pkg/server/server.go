package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"aromatiq-hq/neroli/pkg/audit"
	"aromatiq-hq/neroli/pkg/catalog"
	"aromatiq-hq/neroli/pkg/config"
	"aromatiq-hq/neroli/pkg/formula"
	"aromatiq-hq/neroli/pkg/policy/manager"
	"aromatiq-hq/neroli/pkg/telemetry/metrics"
)

// Dependencies bundles the shared components the server exposes.
// Catalog, Audit, and Pruner may be nil when the corresponding feature
// is disabled in configuration; Metrics may be nil to skip recording.
type Dependencies struct {
	Manager *manager.Manager
	Catalog *catalog.Store
	Audit   *audit.Store
	Pruner  *audit.Pruner
	Metrics *metrics.Collector
	Logger  *slog.Logger
}

// Server is the HTTP API server for compliance validation, rule
// retrieval, signal simulation, and the ingredient catalog.
type Server struct {
	config   *config.Config
	logger   *slog.Logger
	manager  *manager.Manager
	catalog  *catalog.Store
	audit    *audit.Store
	pruner   *audit.Pruner
	metrics  *metrics.Collector
	profiler *formula.Profiler

	startTime    time.Time
	httpServer   *http.Server
	shutdownOnce sync.Once

	mu      sync.RWMutex
	running bool
}

// New creates the API server. The manager should have loaded at least
// once before Run; until then table-backed endpoints answer 503.
func New(cfg *config.Config, deps Dependencies) (*Server, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if deps.Manager == nil {
		return nil, fmt.Errorf("manager cannot be nil")
	}

	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "server")

	// A nil *catalog.Store must stay a nil interface for the profiler's
	// nil check to hold.
	var cat formula.Catalog
	if deps.Catalog != nil {
		cat = deps.Catalog
	}

	return &Server{
		config:    cfg,
		logger:    logger,
		manager:   deps.Manager,
		catalog:   deps.Catalog,
		audit:     deps.Audit,
		pruner:    deps.Pruner,
		metrics:   deps.Metrics,
		profiler:  formula.NewProfiler(cat, logger),
		startTime: time.Now(),
	}, nil
}

// Run starts the HTTP listener and the background workers (table file
// watcher, audit retention scheduler) and blocks until ctx is
// cancelled or a worker fails.
func (s *Server) Run(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return fmt.Errorf("server is already running")
	}
	s.running = true
	s.httpServer = &http.Server{
		Addr:           s.config.Server.ListenAddress,
		Handler:        s.routes(),
		ReadTimeout:    s.config.Server.ReadTimeout,
		WriteTimeout:   s.config.Server.WriteTimeout,
		IdleTimeout:    s.config.Server.IdleTimeout,
		MaxHeaderBytes: s.config.Server.MaxHeaderBytes,
	}
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
	}()

	g, ctx := errgroup.WithContext(ctx)

	if s.pruner != nil {
		if err := s.pruner.Start(ctx); err != nil {
			return fmt.Errorf("start retention scheduler: %w", err)
		}
	}

	g.Go(func() error {
		s.logger.Info("HTTP server listening",
			"address", s.config.Server.ListenAddress,
		)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	if s.config.Tables.Watch {
		g.Go(func() error {
			return s.manager.Watch(ctx)
		})
	}

	g.Go(func() error {
		<-ctx.Done()
		return s.Shutdown(context.Background())
	})

	return g.Wait()
}

// Shutdown gracefully stops the HTTP listener and the retention
// scheduler. In-flight requests get until the configured shutdown
// timeout to finish. Safe to call multiple times.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		s.logger.Info("Initiating graceful shutdown",
			"timeout", s.config.Server.ShutdownTimeout.String(),
		)

		shutdownCtx, cancel := context.WithTimeout(ctx, s.config.Server.ShutdownTimeout)
		defer cancel()

		if s.httpServer != nil {
			if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
				s.logger.Error("Error during server shutdown", "error", err)
				shutdownErr = fmt.Errorf("server shutdown: %w", err)
			}
		}

		if s.pruner != nil {
			s.pruner.Stop()
		}

		s.logger.Info("Server stopped")
	})

	return shutdownErr
}

// IsRunning reports whether Run is active.
func (s *Server) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.running
}

// Handler returns the configured HTTP handler. Exposed for tests and
// embedding.
func (s *Server) Handler() http.Handler {
	return s.routes()
}
