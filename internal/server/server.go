// Package server exposes the assistant over HTTP: the chat endpoint, the
// dashboard endpoint, health and Prometheus metrics.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"orumaiv/internal/common/config"
	"orumaiv/internal/common/logger"
	"orumaiv/internal/common/observability"
	"orumaiv/internal/orchestrator"
)

// Server wraps the gin engine and the underlying http.Server.
type Server struct {
	engine       *gin.Engine
	http         *http.Server
	orchestrator *orchestrator.Orchestrator
	obs          *observability.Observability
	logger       logger.Logger
}

func New(cfg config.ServerConfig, orch *orchestrator.Orchestrator, obs *observability.Observability, log logger.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)

	s := &Server{
		engine:       gin.New(),
		orchestrator: orch,
		obs:          obs,
		logger:       log.WithFields(map[string]interface{}{"component": "server"}),
	}

	s.engine.Use(gin.Recovery())
	s.engine.Use(corsMiddleware(cfg.AllowedOrigins))
	s.engine.Use(s.requestLogger())
	s.registerRoutes()

	s.http = &http.Server{
		Addr:         cfg.Address,
		Handler:      s.engine,
		ReadTimeout:  config.GetDuration(cfg.ReadTimeout),
		WriteTimeout: config.GetDuration(cfg.WriteTimeout),
	}

	return s
}

func (s *Server) registerRoutes() {
	s.engine.GET("/health", s.handleHealth)
	s.engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := s.engine.Group("/api")
	{
		api.POST("/chat", s.handleChat)
		api.POST("/dashboard", s.handleDashboard)
	}
}

// Handler exposes the router, used by tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Start blocks serving requests until the listener fails or Shutdown runs.
func (s *Server) Start() error {
	s.logger.Info("http server listening", map[string]interface{}{"address": s.http.Addr})
	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(allowedOrigins) == 0 {
		corsCfg.AllowAllOrigins = true
		corsCfg.AllowCredentials = false
	} else {
		corsCfg.AllowOrigins = allowedOrigins
	}
	return cors.New(corsCfg)
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := http.StatusText(c.Writer.Status())
		if s.obs != nil {
			s.obs.RecordRequest(c.Request.Context(), c.Request.URL.Path, status)
			s.obs.RecordRequestDuration(c.Request.Context(), time.Since(start), c.Request.URL.Path, status)
		}

		s.logger.Info("request completed", map[string]interface{}{
			"method":      c.Request.Method,
			"path":        c.Request.URL.Path,
			"status":      c.Writer.Status(),
			"duration_ms": time.Since(start).Milliseconds(),
		})
	}
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
