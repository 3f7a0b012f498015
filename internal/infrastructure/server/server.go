package server

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"
	"golang.org/x/time/rate"

	_ "github.com/classdash/core/docs"
	httpHandlers "github.com/classdash/core/internal/adapters/http"
	"github.com/classdash/core/internal/application/services"
	"github.com/classdash/core/internal/infrastructure/config"
	"github.com/classdash/core/internal/infrastructure/container"
	"github.com/classdash/core/internal/infrastructure/logger"
	"github.com/classdash/core/internal/infrastructure/metrics"
	"github.com/classdash/core/internal/ports"
)

const streamPath = "/api/v1/dashboard/stream"

// Server represents the HTTP server
type Server struct {
	echo    *echo.Echo
	config  *config.Config
	logger  *logger.Logger
	metrics *metrics.Metrics
	store   ports.KeyValueStore
}

// CustomValidator wraps the validator
type CustomValidator struct {
	validator *validator.Validate
}

// Validate validates structs
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

// New creates a new server instance
func New(c *container.Container) (*Server, error) {
	e := echo.New()

	// Set custom validator
	e.Validator = &CustomValidator{validator: validator.New()}

	// Configure Echo
	e.HideBanner = true
	e.HidePort = true

	// Custom error handler
	e.HTTPErrorHandler = customErrorHandler(c.Logger)

	// Initialize handlers
	handlerLogger := c.Logger.WithComponent("http")
	authHandler := httpHandlers.NewAuthHandler(c.Auth, handlerLogger)
	dashboardHandler := httpHandlers.NewDashboardHandler(c.Dashboard, c.State, handlerLogger)
	settingsHandler := httpHandlers.NewSettingsHandler(c.Settings, handlerLogger)
	todoHandler := httpHandlers.NewTodoHandler(c.Todos, handlerLogger)
	pomodoroHandler := httpHandlers.NewPomodoroHandler(c.Pomodoro, handlerLogger)
	adminHandler := httpHandlers.NewAdminHandler(c.Admin, handlerLogger)

	server := &Server{
		echo:    e,
		config:  c.Config,
		logger:  c.Logger,
		metrics: c.Metrics,
		store:   c.Store,
	}

	// Setup middleware
	server.setupMiddleware()

	// Setup metrics
	if c.Config.Metrics.Enabled {
		server.setupMetrics()
	}

	// Setup routes
	server.setupRoutes(routes{
		auth:      authHandler,
		dashboard: dashboardHandler,
		settings:  settingsHandler,
		todos:     todoHandler,
		pomodoro:  pomodoroHandler,
		admin:     adminHandler,
	}, c.Auth)

	return server, nil
}

type routes struct {
	auth      *httpHandlers.AuthHandler
	dashboard *httpHandlers.DashboardHandler
	settings  *httpHandlers.SettingsHandler
	todos     *httpHandlers.TodoHandler
	pomodoro  *httpHandlers.PomodoroHandler
	admin     *httpHandlers.AdminHandler
}

// Handler exposes the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.echo
}

// setupMiddleware configures middleware
func (s *Server) setupMiddleware() {
	// Recovery middleware
	s.echo.Use(middleware.Recover())

	// Logger middleware
	s.echo.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:       true,
		LogStatus:    true,
		LogMethod:    true,
		LogLatency:   true,
		LogError:     true,
		LogRemoteIP:  true,
		LogUserAgent: true,
		LogValuesFunc: func(c echo.Context, values middleware.RequestLoggerValues) error {
			fields := []interface{}{
				"method", values.Method,
				"uri", values.URI,
				"status", values.Status,
				"latency_ms", float64(values.Latency.Nanoseconds()) / 1000000,
				"remote_ip", values.RemoteIP,
				"user_agent", values.UserAgent,
			}

			if values.Error != nil {
				fields = append(fields, "error", values.Error.Error())
				s.logger.Errorw("HTTP request failed", fields...)
			} else {
				s.logger.Infow("HTTP request", fields...)
			}

			return nil
		},
	}))

	// CORS middleware
	s.echo.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: strings.Split(s.config.Security.CORSAllowedOrigins, ","),
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		AllowMethods: []string{http.MethodGet, http.MethodHead, http.MethodPut, http.MethodPatch, http.MethodPost, http.MethodDelete},
	}))

	// Rate limiting middleware
	if s.config.Security.RateLimitRequests > 0 {
		limit := rate.Limit(s.config.Security.RateLimitRequests)
		if window := s.config.Security.RateLimitWindow; window > 0 {
			limit = rate.Limit(float64(s.config.Security.RateLimitRequests) / window.Seconds())
		}
		s.echo.Use(middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
			Store: middleware.NewRateLimiterMemoryStoreWithConfig(
				middleware.RateLimiterMemoryStoreConfig{
					Rate:      limit,
					Burst:     s.config.Security.RateLimitRequests,
					ExpiresIn: s.config.Security.RateLimitWindow,
				},
			),
			IdentifierExtractor: func(ctx echo.Context) (string, error) {
				return ctx.RealIP(), nil
			},
			ErrorHandler: func(context echo.Context, err error) error {
				return context.JSON(http.StatusForbidden, map[string]string{"message": "rate limit exceeded"})
			},
			DenyHandler: func(context echo.Context, identifier string, err error) error {
				return context.JSON(http.StatusTooManyRequests, map[string]string{"message": "rate limit exceeded"})
			},
		}))
	}

	// Security headers
	s.echo.Use(middleware.SecureWithConfig(middleware.SecureConfig{
		XSSProtection:      "1; mode=block",
		ContentTypeNosniff: "nosniff",
		XFrameOptions:      "DENY",
		HSTSMaxAge:         31536000,
	}))

	// Request ID middleware
	s.echo.Use(middleware.RequestID())

	// Timeout middleware, not applied to the event stream
	s.echo.Use(middleware.TimeoutWithConfig(middleware.TimeoutConfig{
		Skipper: func(c echo.Context) bool {
			return c.Request().URL.Path == streamPath
		},
		Timeout: 30 * time.Second,
	}))
}

// setupRoutes configures all routes
func (s *Server) setupRoutes(h routes, authService *services.AuthService) {
	// Health check routes
	s.echo.GET("/health", s.healthCheck)
	s.echo.GET("/health/detailed", s.detailedHealthCheck)
	s.echo.GET("/ready", s.readinessCheck)

	// Swagger documentation
	s.echo.GET("/swagger/*", echoSwagger.WrapHandler)

	// API v1 routes
	v1 := s.echo.Group("/api/v1")

	v1.GET("/dashboard", h.dashboard.GetDashboard)
	v1.GET("/dashboard/stream", h.dashboard.StreamDashboard)
	v1.GET("/dataset", h.dashboard.GetDataset)

	settingsGroup := v1.Group("/settings")
	settingsGroup.GET("", h.settings.GetSettings)
	settingsGroup.PUT("", h.settings.SaveSettings)
	settingsGroup.GET("/classes", h.settings.ListClasses)

	todoGroup := v1.Group("/todos")
	todoGroup.GET("", h.todos.ListTodos)
	todoGroup.POST("", h.todos.AddTodo)
	todoGroup.DELETE("/done", h.todos.ClearDone)
	todoGroup.PATCH("/:id/toggle", h.todos.ToggleTodo)
	todoGroup.DELETE("/:id", h.todos.DeleteTodo)

	pomodoroGroup := v1.Group("/pomodoro")
	pomodoroGroup.GET("", h.pomodoro.GetPomodoro)
	pomodoroGroup.POST("/toggle", h.pomodoro.TogglePomodoro)
	pomodoroGroup.POST("/reset", h.pomodoro.ResetPomodoro)
	pomodoroGroup.PUT("/config", h.pomodoro.ConfigurePomodoro)

	// Admin routes
	v1.POST("/admin/login", h.auth.Login)

	adminGroup := v1.Group("/admin", s.authMiddleware(authService))
	adminGroup.GET("/credentials", h.settings.GetCredentials)
	adminGroup.PUT("/credentials", h.settings.SaveCredentials)
	adminGroup.DELETE("/credentials", h.settings.ClearCredentials)
	adminGroup.PUT("/dataset", h.admin.ReplaceDataset)
	adminGroup.POST("/dataset/refresh", h.dashboard.RefreshDataset)
	adminGroup.PUT("/timings", h.admin.SetTimings)
	adminGroup.PUT("/schedule/:class/:day", h.admin.SetDaySchedule)
	adminGroup.POST("/tests", h.admin.AddTest)
	adminGroup.DELETE("/tests/:name", h.admin.RemoveTest)
	adminGroup.POST("/publish", h.admin.Publish)
}

// setupMetrics records request counts and latencies and exposes /metrics
func (s *Server) setupMetrics() {
	s.echo.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)

			duration := time.Since(start)
			status := c.Response().Status

			s.metrics.RequestsTotal.WithLabelValues(
				c.Request().Method,
				c.Path(),
				fmt.Sprintf("%d", status),
			).Inc()

			s.metrics.RequestDuration.WithLabelValues(
				c.Request().Method,
				c.Path(),
			).Observe(duration.Seconds())

			return err
		}
	})

	s.echo.GET("/metrics", echo.WrapHandler(s.metrics.Handler()))
}

// Health check handlers
func (s *Server) healthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) detailedHealthCheck(c echo.Context) error {
	status := "ok"
	checks := make(map[string]interface{})

	store := map[string]interface{}{"driver": s.config.Storage.Driver, "status": "ok"}
	if err := s.pingStore(c.Request().Context()); err != nil {
		status = "error"
		store["status"] = "error"
		store["error"] = err.Error()
	}
	if st, ok := s.store.(interface{ Stats() map[string]interface{} }); ok {
		store["stats"] = st.Stats()
	}
	checks["store"] = store

	response := map[string]interface{}{
		"status": status,
		"time":   time.Now().UTC().Format(time.RFC3339),
		"checks": checks,
		"version": map[string]string{
			"app": s.config.App.Version,
		},
	}

	if status == "ok" {
		return c.JSON(http.StatusOK, response)
	}
	return c.JSON(http.StatusServiceUnavailable, response)
}

func (s *Server) readinessCheck(c echo.Context) error {
	if err := s.pingStore(c.Request().Context()); err != nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{
			"status": "not_ready",
			"reason": "store_not_ready",
		})
	}

	return c.JSON(http.StatusOK, map[string]string{
		"status": "ready",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) pingStore(ctx context.Context) error {
	p, ok := s.store.(ports.Pinger)
	if !ok {
		return nil
	}
	return p.Ping(ctx)
}

// Start starts the HTTP server
func (s *Server) Start(address string) error {
	s.logger.Infow("Starting server", "address", address)

	srv := &http.Server{
		Addr:         address,
		ReadTimeout:  s.config.Server.ReadTimeout,
		WriteTimeout: s.config.Server.WriteTimeout,
		IdleTimeout:  s.config.Server.IdleTimeout,
	}
	return s.echo.StartServer(srv)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Infow("Shutting down server")
	return s.echo.Shutdown(ctx)
}

// customErrorHandler handles HTTP errors
func customErrorHandler(logger *logger.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		var (
			code = http.StatusInternalServerError
			msg  interface{}
		)

		if he, ok := err.(*echo.HTTPError); ok {
			code = he.Code
			msg = map[string]interface{}{"message": he.Message}
			if he.Internal != nil {
				err = fmt.Errorf("%v, %v", err, he.Internal)
			}
		} else if e, ok := err.(validator.ValidationErrors); ok {
			code = http.StatusBadRequest
			msg = map[string]string{"message": "validation failed", "details": e.Error()}
		} else {
			msg = map[string]string{"message": http.StatusText(code)}
		}

		if code == http.StatusInternalServerError {
			logger.Errorw("Internal server error", "error", err, "path", c.Request().URL.Path)
		}

		// Send response
		if !c.Response().Committed {
			if c.Request().Method == http.MethodHead {
				err = c.NoContent(code)
			} else {
				err = c.JSON(code, msg)
			}
			if err != nil {
				logger.Errorw("Error sending response", "error", err)
			}
		}
	}
}
