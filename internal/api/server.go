package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sigco3111/core-quant/internal/api/handler"
	"github.com/sigco3111/core-quant/internal/api/middleware"
	"github.com/sigco3111/core-quant/internal/metrics"
	"go.uber.org/zap"
)

// Config holds server configuration.
type Config struct {
	Host        string
	Port        int
	APIKey      string
	MetricsPath string
}

// Deps are the collaborators the endpoints need.
type Deps struct {
	Strategies *handler.StrategyHandler
	Backtests  *handler.BacktestHandler
	Metrics    *metrics.Registry
}

// Server is the HTTP server for the strategy API.
type Server struct {
	httpServer *http.Server
	logger     *zap.Logger
}

// NewServer creates the HTTP server and wires up all routes.
func NewServer(cfg Config, deps Deps, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}

	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/health", handleHealth)
	mux.HandleFunc("POST /api/strategies", deps.Strategies.Create)
	mux.HandleFunc("GET /api/strategies", deps.Strategies.List)
	mux.HandleFunc("GET /api/strategies/{id}", deps.Strategies.Get)
	mux.HandleFunc("PUT /api/strategies/{id}", deps.Strategies.Update)
	mux.HandleFunc("DELETE /api/strategies/{id}", deps.Strategies.Delete)
	mux.HandleFunc("POST /api/backtest", deps.Backtests.Run)
	mux.HandleFunc("POST /api/backtest/batch", deps.Backtests.RunBatch)

	var root http.Handler = mux
	root = middleware.APIKeyAuth(cfg.APIKey)(root)
	if deps.Metrics != nil {
		root = metrics.HTTPMiddleware(deps.Metrics)(root)
	}

	// The metrics endpoint sits outside auth so scrapers need no key.
	outer := http.NewServeMux()
	outer.Handle("/", root)
	if deps.Metrics != nil {
		path := cfg.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		outer.Handle("GET "+path, promhttp.HandlerFor(deps.Metrics.Registry, promhttp.HandlerOpts{}))
	}

	return &Server{
		httpServer: &http.Server{
			Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
			Handler:      outer,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		logger: logger,
	}
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	s.logger.Info("starting HTTP server", zap.String("addr", s.httpServer.Addr))
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down HTTP server")
	return s.httpServer.Shutdown(ctx)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
