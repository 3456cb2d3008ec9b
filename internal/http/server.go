// Package http provides HTTP server implementation and request handlers.
package http

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	auditHTTP "github.com/ledgerlock/ledgerlock/internal/audit/http"
	"github.com/ledgerlock/ledgerlock/internal/config"
	contentHTTP "github.com/ledgerlock/ledgerlock/internal/content/http"
	"github.com/ledgerlock/ledgerlock/internal/metrics"
	sessionHTTP "github.com/ledgerlock/ledgerlock/internal/session/http"
	tenantHTTP "github.com/ledgerlock/ledgerlock/internal/tenant/http"
)

// Server represents the API HTTP server.
type Server struct {
	server *http.Server
	router *gin.Engine
	db     *sql.DB
	logger *slog.Logger
}

// Handlers groups the route handlers mounted on the API server.
type Handlers struct {
	Session *sessionHTTP.SessionHandler
	Tenant  *tenantHTTP.TenantHandler
	Field   *contentHTTP.FieldHandler
	Audit   *auditHTTP.AuditHandler
}

// NewServer creates a new HTTP server. The router is attached separately via
// SetupRouter so tests can exercise handlers without full wiring.
func NewServer(
	db *sql.DB,
	host string,
	port int,
	logger *slog.Logger,
) *Server {
	return &Server{
		db:     db,
		logger: logger,
		server: &http.Server{
			Addr:         fmt.Sprintf("%s:%d", host, port),
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
	}
}

// SetupRouter builds the Gin router with all middleware and API routes.
// metricsProvider may be nil when metrics are disabled.
func (s *Server) SetupRouter(cfg *config.Config, handlers Handlers, metricsProvider *metrics.Provider) {
	gin.SetMode(cfg.GetGinMode())

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestid.New(requestid.WithGenerator(func() string {
		return uuid.Must(uuid.NewV7()).String()
	})))
	router.Use(CustomLoggerMiddleware(s.logger))

	if metricsProvider != nil {
		router.Use(metrics.HTTPMetricsMiddleware(metricsProvider.MeterProvider(), cfg.MetricsNamespace))
	}

	if corsMiddleware := createCORSMiddleware(cfg.CORSEnabled, cfg.CORSAllowOrigins, s.logger); corsMiddleware != nil {
		router.Use(corsMiddleware)
	}

	// Health and readiness endpoints
	router.GET("/health", s.healthHandler)
	router.GET("/ready", s.readinessHandler)

	v1 := router.Group("/v1")
	if cfg.RateLimitEnabled {
		v1.Use(RateLimitMiddleware(cfg.RateLimitRequestsPerSec, cfg.RateLimitBurst, s.logger))
	}

	// Session lifecycle. Unlock carries a passphrase, so it additionally gets
	// per-IP rate limiting.
	sessions := v1.Group("/sessions")
	unlockChain := make([]gin.HandlerFunc, 0, 2)
	if cfg.RateLimitUnlockEnabled {
		unlockChain = append(unlockChain, sessionHTTP.UnlockRateLimitMiddleware(
			cfg.RateLimitUnlockRequestsPerSec,
			cfg.RateLimitUnlockBurst,
			s.logger,
		))
	}
	unlockChain = append(unlockChain, handlers.Session.UnlockHandler)
	sessions.POST("/unlock", unlockChain...)
	sessions.GET("/status", handlers.Session.StatusHandler)
	sessions.POST("/lock", handlers.Session.LockHandler)

	// Tenant provisioning
	v1.POST("/tenants", handlers.Tenant.CreateHandler)

	// Per-tenant field and audit chain operations
	tenants := v1.Group("/tenants/:id")
	tenants.POST("/fields/encrypt", handlers.Field.EncryptHandler)
	tenants.POST("/fields/decrypt", handlers.Field.DecryptHandler)
	tenants.GET("/audit/verify", handlers.Audit.VerifyHandler)
	tenants.GET("/audit/events", handlers.Audit.EventsHandler)

	s.router = router
}

// healthHandler reports process liveness.
func (s *Server) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// readinessHandler reports whether the server can serve traffic, checking
// database connectivity.
func (s *Server) readinessHandler(c *gin.Context) {
	components := gin.H{}
	ready := true

	if s.db == nil {
		components["database"] = "error"
		ready = false
	} else {
		pingCtx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := s.db.PingContext(pingCtx); err != nil {
			s.logger.Error("readiness database ping failed", slog.Any("error", err))
			components["database"] = "error"
			ready = false
		} else {
			components["database"] = "ok"
		}
	}

	if !ready {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":     "not_ready",
			"components": components,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":     "ready",
		"components": components,
	})
}

// Start starts the HTTP server. SetupRouter must have been called first; a
// server without routes only exposes health endpoints.
func (s *Server) Start(ctx context.Context) error {
	if s.router == nil {
		router := gin.New()
		router.Use(gin.Recovery())
		router.GET("/health", s.healthHandler)
		router.GET("/ready", s.readinessHandler)
		s.router = router
	}

	s.server.Handler = s.router

	s.logger.Info("starting http server", slog.String("addr", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.server.Shutdown(ctx)
}
