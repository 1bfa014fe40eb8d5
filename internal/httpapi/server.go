// Package httpapi is the HTTP surface over the reservation manager:
// request binding and validation, error-to-status translation, and the
// websocket event feed.
package httpapi

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"rsvp/internal/config"
	"rsvp/internal/events"
	"rsvp/internal/httpapi/middleware"
	"rsvp/internal/reservation"
)

// Server wraps a configured gin engine and the http.Server serving it.
type Server struct {
	router     *gin.Engine
	logger     *slog.Logger
	config     *config.Config
	httpServer *http.Server
}

// New wires the reservation manager and event hub into a ready-to-run
// HTTP server.
func New(cfg *config.Config, logger *slog.Logger, mgr *reservation.Manager, hub *events.Hub) *Server {
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	s := &Server{
		config: cfg,
		logger: logger,
		router: router,
		httpServer: &http.Server{
			Addr:         ":" + cfg.Port,
			Handler:      router,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
	}

	s.setupMiddleware()
	s.setupRoutes(NewHandler(mgr, hub, cfg.DefaultPageSize))

	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		s.logger.Error("panic recovered", "error", recovered)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "an unexpected error occurred"})
	}))

	s.router.Use(func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)
		status := c.Writer.Status()

		attrs := []any{"method", c.Request.Method, "path", c.Request.URL.Path, "status", status, "latency", latency}
		switch {
		case status >= 500:
			s.logger.Error("http request", attrs...)
		case status >= 400:
			s.logger.Warn("http request", attrs...)
		default:
			s.logger.Info("http request", attrs...)
		}
	})

	if s.config.EnableCORS {
		s.router.Use(middleware.CORS(s.config.CORSOrigins))
	}
}

func (s *Server) setupRoutes(h *Handler) {
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy", "time": time.Now().UTC()})
	})

	s.router.GET("/events", h.Events)

	v1 := s.router.Group("/api/v1")
	{
		v1.POST("/reservations", h.Reserve)
		v1.GET("/reservations", h.Query)
		v1.GET("/reservations/:id", h.Get)
		v1.POST("/reservations/:id/confirm", h.ChangeStatus)
		v1.PATCH("/reservations/:id/note", h.UpdateNote)

		admin := v1.Group("/")
		admin.Use(middleware.RequireAdmin(s.config.JWTSecret))
		{
			admin.POST("/reservations/:id/block", h.Block)
			admin.DELETE("/reservations/:id", h.Delete)
		}
	}
}

// Start blocks serving HTTP until the server is shut down.
func (s *Server) Start() error {
	s.logger.Info("starting http server", "address", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// Router exposes the underlying engine, mainly for tests.
func (s *Server) Router() *gin.Engine { return s.router }
