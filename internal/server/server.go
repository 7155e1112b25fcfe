package server

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/datasight/datasight-ai/internal/analytics/ml"
	"github.com/datasight/datasight-ai/internal/audit"
	"github.com/datasight/datasight-ai/internal/config"
	"github.com/datasight/datasight-ai/internal/db"
	"github.com/datasight/datasight-ai/internal/llm/adapter"
	"github.com/datasight/datasight-ai/internal/pipeline"
)

// Server is the dataset analyzer HTTP service. Each request runs its own
// pipeline instance; no analysis state crosses request boundaries.
type Server struct {
	config   *config.Config
	logger   *audit.Logger
	pipeline *pipeline.Pipeline
	history  db.HistoryStore

	httpServer *http.Server

	mu      sync.RWMutex
	running bool
}

// New wires all components from configuration.
func New(cfg *config.Config, logger *audit.Logger, history db.HistoryStore) (*Server, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if logger == nil {
		logger = audit.NewNop()
	}

	completer, err := adapter.New(&adapter.Config{
		Provider: adapter.ProviderType(cfg.LLM.Provider),
		APIKey:   cfg.LLM.APIKey,
		BaseURL:  cfg.LLM.BaseURL,
		Model:    cfg.LLM.Model,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize LLM provider: %w", err)
	}
	if completer == nil {
		logger.App().Warn("no LLM provider configured; routing falls back to the deterministic rule and narratives to defaults")
	}

	opts := pipeline.Options{
		Detection: ml.Options{
			Seed:            cfg.Analysis.Seed,
			OutlierFraction: cfg.Analysis.OutlierFraction,
			RowsPerCluster:  cfg.Analysis.RowsPerCluster,
			MinClusters:     cfg.Analysis.MinClusters,
			MaxClusters:     cfg.Analysis.MaxClusters,
			Restarts:        cfg.Analysis.Restarts,
			MaxIter:         ml.DefaultOptions().MaxIter,
		},
		LLMTimeout: time.Duration(cfg.LLM.TimeoutSeconds) * time.Second,
	}

	return &Server{
		config:   cfg,
		logger:   logger,
		pipeline: pipeline.New(completer, opts, logger.App()),
		history:  history,
	}, nil
}

// Start begins serving HTTP.
func (s *Server) Start() error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return fmt.Errorf("server is already running")
	}
	s.running = true
	s.mu.Unlock()

	mux := http.NewServeMux()
	s.registerHandlers(mux)

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port),
		Handler:      mux,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second, // analyses block on external completions
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		s.logger.App().Info("HTTP server listening",
			zap.String("host", s.config.Server.Host),
			zap.Int("port", s.config.Server.Port),
			zap.String("llm_provider", s.config.LLM.Provider))
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.App().Error("HTTP server error", zap.Error(err))
		}
	}()

	return nil
}

// Stop shuts the server down gracefully.
func (s *Server) Stop() error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return fmt.Errorf("server is not running")
	}
	s.running = false
	s.mu.Unlock()

	if s.httpServer != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("error shutting down HTTP server: %w", err)
		}
	}
	return nil
}

// IsRunning reports whether the server is serving.
func (s *Server) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.running
}

// registerHandlers registers HTTP handlers
func (s *Server) registerHandlers(mux *http.ServeMux) {
	// Liveness: legacy root probe plus the conventional paths
	mux.HandleFunc("/", s.handleHealth)
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/ready", s.handleReady)

	// Info endpoint
	mux.HandleFunc("/info", s.handleInfo)

	// Analysis endpoints
	mux.HandleFunc("/api/analyze", s.handleAnalyze)
	mux.HandleFunc("/api/v1/analyses/recent", s.handleRecentAnalyses)

	// Prometheus metrics
	mux.Handle("/metrics", promhttp.Handler())
}
