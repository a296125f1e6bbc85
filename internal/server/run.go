package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/iwvelando/capital-longevity/internal/config"
	"github.com/iwvelando/capital-longevity/internal/session"
	"github.com/iwvelando/capital-longevity/pkg/constants"
	"go.uber.org/zap"
)

const sessionSweepInterval = time.Minute

// Server owns the HTTP listener and the resources behind the dashboard API.
type Server struct {
	logger     *zap.Logger
	httpServer *http.Server
	store      session.Store
	limiter    *RateLimiter
	metrics    *Metrics
}

// New wires the session store, rate limiter and metrics described by cfg
// into a server for the dashboard configuration conf.
func New(logger *zap.Logger, conf *config.Configuration, cfg *Config, version string) (*Server, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg == nil {
		cfg = DefaultConfig()
	}

	store, err := session.NewStore(cfg.SessionOptions())
	if err != nil {
		return nil, fmt.Errorf("failed to create session store: %w", err)
	}

	var limiter *RateLimiter
	if cfg.RateLimit.Requests > 0 {
		limiter = NewRateLimiter(cfg.RateLimit.Requests, cfg.RateLimitWindow())
	}

	metrics := NewMetrics()
	handler := NewHandler(logger, conf, Options{
		MaxRequestSize: cfg.RequestSizeBytes(),
		Version:        version,
		Store:          store,
		SessionTTL:     cfg.SessionTTL(),
		Limiter:        limiter,
		Metrics:        metrics,
	})

	return &Server{
		logger: logger,
		httpServer: &http.Server{
			Addr:              cfg.Address,
			Handler:           handler,
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       60 * time.Second,
		},
		store:   store,
		limiter: limiter,
		metrics: metrics,
	}, nil
}

// Handler returns the HTTP handler served by Run.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Addr returns the configured listen address.
func (s *Server) Addr() string {
	return s.httpServer.Addr
}

// Run serves HTTP until ctx is cancelled, then shuts down gracefully and
// releases the store and limiter.
func (s *Server) Run(ctx context.Context) error {
	defer s.release()

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting web server",
			zap.String("op", "server.Run"),
			zap.String("address", s.httpServer.Addr),
		)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	if memory, ok := s.store.(*session.MemoryStore); ok {
		go s.sweepSessions(ctx, memory)
	}

	select {
	case err := <-errCh:
		return fmt.Errorf("web server failed: %w", err)
	case <-ctx.Done():
	}

	s.logger.Info("shutting down web server", zap.String("op", "server.Run"))
	shutdownCtx, cancel := context.WithTimeout(context.Background(), constants.ShutdownTimeoutSeconds*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("error during server shutdown: %w", err)
	}
	return nil
}

func (s *Server) sweepSessions(ctx context.Context, memory *session.MemoryStore) {
	ticker := time.NewTicker(sessionSweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed := memory.Sweep(); removed > 0 {
				s.logger.Debug("expired sessions removed",
					zap.String("op", "server.sweepSessions"),
					zap.Int("removed", removed),
				)
			}
		}
	}
}

func (s *Server) release() {
	if s.limiter != nil {
		s.limiter.Stop()
	}
	if err := s.store.Close(); err != nil {
		s.logger.Warn("failed to close session store",
			zap.String("op", "server.release"),
			zap.Error(err),
		)
	}
}
