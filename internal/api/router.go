package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/billable/timesheet-api/internal/api/handler"
	"github.com/billable/timesheet-api/internal/api/middleware"
	"github.com/billable/timesheet-api/internal/core/domain"
	"github.com/billable/timesheet-api/internal/core/ports"
)

// RouterDeps carries the services and settings the HTTP layer needs.
type RouterDeps struct {
	Auth      ports.AuthService
	Projects  ports.ProjectService
	Billing   ports.BillingService
	TimeLogs  ports.TimeLogService
	JWTSecret string
	// Readiness checks keyed by dependency name, e.g. "mongodb".
	Checks map[string]handler.DependencyCheck
	// Metrics overrides the default Prometheus registry when set.
	Metrics *prometheus.Registry
	Log     zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps RouterDeps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(deps.Log))

	var (
		registerer prometheus.Registerer = prometheus.DefaultRegisterer
		gatherer   prometheus.Gatherer   = prometheus.DefaultGatherer
	)
	if deps.Metrics != nil {
		registerer, gatherer = deps.Metrics, deps.Metrics
	}
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "timesheet_http",
		Registerer: registerer,
	}))

	authHandler := handler.NewAuthHandler(deps.Auth)
	projectHandler := handler.NewProjectHandler(deps.Projects, deps.Billing)
	timeLogHandler := handler.NewTimeLogHandler(deps.TimeLogs)
	healthHandler := handler.NewHealthHandler(deps.Checks)

	authMiddleware := middleware.Auth(deps.JWTSecret)
	adminOnly := middleware.RBAC(domain.RoleAdmin)

	// --- Health probes, metrics and docs (no auth required) ---
	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")

	// --- Auth routes ---
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)
	api.GET("/auth/me", authHandler.Me, authMiddleware)
	api.PUT("/auth/updatedetails", authHandler.UpdateDetails, authMiddleware)
	api.POST("/auth/users", authHandler.CreateUser, authMiddleware, adminOnly)

	// --- Projects ---
	projects := api.Group("/projects", authMiddleware)
	projects.GET("", projectHandler.List)
	projects.GET("/:id", projectHandler.Get)
	projects.POST("", projectHandler.Create, adminOnly)
	projects.PUT("/:id", projectHandler.Update, adminOnly)
	projects.DELETE("/:id", projectHandler.Archive, adminOnly)
	projects.GET("/:id/billing-summary", projectHandler.BillingSummary, adminOnly)

	// --- Time logs ---
	timelogs := api.Group("/timelogs", authMiddleware)
	timelogs.GET("", timeLogHandler.List)
	timelogs.POST("", timeLogHandler.Create)
	timelogs.GET("/:id", timeLogHandler.Get)
	timelogs.PUT("/:id", timeLogHandler.Update)
	timelogs.PUT("/:id/status", timeLogHandler.UpdateStatus)
	timelogs.DELETE("/:id", timeLogHandler.Delete)

	return e
}

// requestLogger writes one zerolog line per request.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Error != nil {
				ev = log.Warn().Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
