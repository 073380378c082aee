// Package http provides HTTP server adapter for the application layer.
// This is a thin adapter layer that translates HTTP requests to application service calls.
package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/homieapp/homie/internal/application/service"
	"github.com/homieapp/homie/internal/dashboard"
)

// Logger interface for logging operations
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// DefaultServerConfig returns default server configuration
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Host:         "0.0.0.0",
		Port:         8080,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
}

// IntakeConfig controls access to the public intake endpoints
type IntakeConfig struct {
	AllowGuest bool
	APIToken   string
}

// Dependencies are the application services the server exposes
type Dependencies struct {
	Records    service.RecordService
	Intake     service.IntakeService
	Forms      FormSessions
	Dashboard  dashboard.Source
	Renderer   *dashboard.Renderer
	IntakeAuth IntakeConfig
}

// Server is the HTTP server adapter
type Server struct {
	config     ServerConfig
	httpServer *http.Server
	router     *gin.Engine
	handlers   *Handlers
	intake     IntakeConfig
	logger     Logger
}

// NewServer creates a new HTTP server with the given services
func NewServer(config ServerConfig, deps Dependencies, logger Logger) *Server {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	server := &Server{
		config:   config,
		router:   router,
		handlers: NewHandlers(deps, logger),
		intake:   deps.IntakeAuth,
		logger:   logger,
	}

	server.setupMiddleware()
	server.setupRoutes()

	return server
}

// setupMiddleware configures middleware for the router
func (s *Server) setupMiddleware() {
	s.router.Use(gin.Recovery())
	s.router.Use(s.loggingMiddleware())
}

// loggingMiddleware creates a logging middleware
func (s *Server) loggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()

		s.logger.Info("HTTP request",
			"method", method,
			"path", path,
			"status", status,
			"latency", latency.String(),
			"client_ip", c.ClientIP(),
		)
	}
}

// intakeAuth rejects intake calls without the API token unless guests are allowed
func (s *Server) intakeAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if s.intake.AllowGuest {
			c.Next()
			return
		}
		if s.intake.APIToken == "" || c.GetHeader("Authorization") != "token "+s.intake.APIToken {
			c.AbortWithStatusJSON(http.StatusUnauthorized, Response{
				Success: false,
				Error:   "authentication required",
			})
			return
		}
		c.Next()
	}
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() {
	h := s.handlers

	s.router.GET("/health", h.HealthCheck)

	api := s.router.Group("/api")
	{
		// Form sessions
		api.POST("/forms/:kind", h.OpenForm)
		api.POST("/forms/:kind/:name", h.LoadForm)
		api.GET("/forms/sessions/:id", h.GetForm)
		api.DELETE("/forms/sessions/:id", h.CloseForm)
		api.PATCH("/forms/sessions/:id/fields/:field", h.ChangeField)
		api.POST("/forms/sessions/:id/items", h.AddItem)
		api.DELETE("/forms/sessions/:id/items/:idx", h.RemoveItem)
		api.POST("/forms/sessions/:id/save", h.SaveForm)

		// Reference records
		api.GET("/resource/:kind/:name", h.GetResource)
		api.POST("/resource/:kind", h.CreateResource)
		api.PUT("/resource/:kind/:name", h.UpdateResource)

		// Aggregates
		api.GET("/method/organization-dashboard", h.OrganizationDashboardData)
		api.GET("/method/workspace/:section", h.WorkspaceData)

		// Intake
		intake := api.Group("/method", s.intakeAuth())
		intake.POST("/create_donation", h.CreateDonation)
		intake.POST("/create_payment", h.CreatePayment)
	}

	app := s.router.Group("/app")
	{
		app.GET("/organization-dashboard/:name", h.OrganizationDashboardPage)
		app.GET("/organization-dashboard/:name/content", h.OrganizationDashboardContent)
		app.GET("/organization-dashboard/:name/export.xlsx", h.OrganizationDashboardExport)
		app.GET("/workspace-dashboard", h.WorkspaceDashboardPage)
	}
}

// Start starts the HTTP server
func (s *Server) Start(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
	}

	s.logger.Info("Starting HTTP server", "address", addr)

	errCh := make(chan error, 1)
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("HTTP server shutdown requested")
		return s.Stop()
	case err := <-errCh:
		s.logger.Error("HTTP server error", "error", err)
		return err
	}
}

// Stop gracefully stops the HTTP server
func (s *Server) Stop() error {
	if s.httpServer == nil {
		return nil
	}

	s.logger.Info("Stopping HTTP server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		s.logger.Error("HTTP server shutdown error", "error", err)
		return err
	}

	s.logger.Info("HTTP server stopped")
	return nil
}

// Router returns the underlying gin router (for testing)
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Address returns the server address
func (s *Server) Address() string {
	return fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
}
