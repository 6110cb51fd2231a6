// Package http provides the relay's HTTP servers: the public API with health
// and readiness checks, delivery reports and synchronous dispatch, and the metrics server.
package http

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/metric"

	"github.com/allisson/sms-relay/internal/metrics"
	smsHTTP "github.com/allisson/sms-relay/internal/sms/http"
)

const readinessTimeout = 2 * time.Second

// ReadinessCheck reports whether one dependency can serve traffic.
type ReadinessCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

// RouterConfig carries the handlers and options of the public router.
type RouterConfig struct {
	DeliveryReportHandler  *smsHTTP.DeliveryReportHandler
	SendingHandler         *smsHTTP.SendingHandler
	DeliveryReportUsername string
	DeliveryReportPassword string
	CORSEnabled            bool
	CORSAllowOrigins       string
	MeterProvider          metric.MeterProvider
	MetricsNamespace       string
}

// Server is the public HTTP server.
type Server struct {
	server *http.Server
	router *gin.Engine
	checks []ReadinessCheck
	logger *slog.Logger
}

// NewServer creates a Server. SetupRouter must be called before Start.
func NewServer(checks []ReadinessCheck, host string, port int, logger *slog.Logger) *Server {
	return &Server{
		checks: checks,
		logger: logger,
		server: &http.Server{
			Addr:         fmt.Sprintf("%s:%d", host, port),
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 60 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
	}
}

// SetupRouter registers middleware and routes.
func (s *Server) SetupRouter(cfg RouterConfig) {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestIDMiddleware())
	router.Use(CustomLoggerMiddleware(s.logger))

	if cors := createCORSMiddleware(cfg.CORSEnabled, cfg.CORSAllowOrigins, s.logger); cors != nil {
		router.Use(cors)
	}
	if cfg.MeterProvider != nil {
		router.Use(metrics.HTTPMetricsMiddleware(cfg.MeterProvider, cfg.MetricsNamespace))
	}

	router.GET("/health", s.healthHandler)
	router.GET("/ready", s.readinessHandler)

	api := router.Group("/notifications/sms/api/v1")
	if cfg.DeliveryReportHandler != nil {
		api.POST("/reports",
			BasicAuthMiddleware(cfg.DeliveryReportUsername, cfg.DeliveryReportPassword, s.logger),
			cfg.DeliveryReportHandler.ReceiveHandler,
		)
	}
	if cfg.SendingHandler != nil {
		api.POST("/instantmessage/send", cfg.SendingHandler.InstantMessageHandler)
		api.POST("/otp", cfg.SendingHandler.OneTimePasswordHandler)
	}

	s.router = router
}

func (s *Server) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

func (s *Server) readinessHandler(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), readinessTimeout)
	defer cancel()

	status := "ready"
	code := http.StatusOK
	components := make(map[string]string, len(s.checks))
	for _, check := range s.checks {
		if err := check.Check(ctx); err != nil {
			s.logger.Warn("readiness check failed", slog.String("component", check.Name), slog.Any("error", err))
			components[check.Name] = "error"
			status = "not_ready"
			code = http.StatusServiceUnavailable
			continue
		}
		components[check.Name] = "ok"
	}

	c.JSON(code, gin.H{"status": status, "components": components})
}

// Start serves until Shutdown is called.
func (s *Server) Start(ctx context.Context) error {
	if s.router == nil {
		return errors.New("router not configured")
	}
	s.server.Handler = s.router

	s.logger.Info("starting http server", slog.String("addr", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.server.Shutdown(ctx)
}
