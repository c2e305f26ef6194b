// Package router wires the HTTP surface: middleware stack, public auth
// endpoints, and the authenticated API under /api/v1.
package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/worklane/backend/internal/infrastructure/auth"
	"github.com/worklane/backend/internal/infrastructure/config"
	"github.com/worklane/backend/internal/infrastructure/logger"
	"github.com/worklane/backend/internal/interfaces/http/handler"
	"github.com/worklane/backend/internal/interfaces/http/middleware"
	"go.uber.org/zap"
)

// maxRequestBody caps JSON request bodies. Bulk payout runs are the
// largest legitimate payload and fit comfortably.
const maxRequestBody = 1 << 20 // 1MB

// loginRateLimit throttles credential guessing per client IP.
const (
	loginRateLimit  = 10
	loginRateWindow = time.Minute
)

// Handlers collects the handlers the router wires up
type Handlers struct {
	Auth     *handler.AuthHandler
	Employee *handler.EmployeeHandler
	Project  *handler.ProjectHandler
	Salary   *handler.SalaryHandler
	Ledger   *handler.LedgerHandler
	System   *handler.SystemHandler
}

// Config carries the router's dependencies
type Config struct {
	HTTP       config.HTTPConfig
	JWTService *auth.JWTService
	Handlers   Handlers
	Logger     *zap.Logger
}

// New builds the gin engine with the full middleware stack and routes
func New(cfg Config) *gin.Engine {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	middleware.SetupValidator()

	engine := gin.New()
	engine.Use(
		middleware.RequestID(),
		logger.GinMiddleware(cfg.Logger),
		logger.Recovery(cfg.Logger),
		middleware.CORSWithConfig(middleware.CORSConfigFromHTTP(cfg.HTTP)),
		middleware.Secure(),
		middleware.BodyLimit(maxRequestBody),
	)

	// Liveness endpoint outside the versioned API
	engine.GET("/health", cfg.Handlers.System.Health)

	api := engine.Group("/api/v1")
	api.GET("/system/ping", cfg.Handlers.System.Ping)

	loginLimiter := middleware.NewRateLimiter(loginRateLimit, loginRateWindow)

	// Public auth endpoints
	public := api.Group("/auth")
	public.Use(middleware.RateLimit(loginLimiter))
	{
		public.POST("/login", cfg.Handlers.Auth.Login)
		public.POST("/refresh", cfg.Handlers.Auth.Refresh)
	}

	// Everything else requires a valid access token
	authed := api.Group("")
	authed.Use(middleware.JWTAuthMiddlewareWithConfig(middleware.JWTMiddlewareConfig{
		JWTService: cfg.JWTService,
		Logger:     cfg.Logger,
	}))

	adminOnly := middleware.RequireRole("admin")

	authGroup := authed.Group("/auth")
	{
		authGroup.GET("/me", cfg.Handlers.Auth.Me)
		authGroup.POST("/change-password", cfg.Handlers.Auth.ChangePassword)
		authGroup.POST("/register", adminOnly, cfg.Handlers.Auth.Register)
		authGroup.POST("/users/:id/deactivate", adminOnly, cfg.Handlers.Auth.Deactivate)
	}

	employees := authed.Group("/employees")
	{
		employees.GET("", cfg.Handlers.Employee.List)
		employees.GET("/positions", cfg.Handlers.Employee.Positions)
		employees.GET("/:id", cfg.Handlers.Employee.GetByID)
		employees.POST("", cfg.Handlers.Employee.Create)
		employees.PUT("/:id", cfg.Handlers.Employee.Update)
		employees.DELETE("/:id", cfg.Handlers.Employee.Delete)
		employees.GET("/:id/avatar", cfg.Handlers.Employee.AvatarDownloadURL)
		employees.POST("/:id/avatar/upload-url", cfg.Handlers.Employee.RequestAvatarUpload)
		employees.POST("/:id/avatar/confirm", cfg.Handlers.Employee.ConfirmAvatarUpload)
	}

	projects := authed.Group("/projects")
	{
		projects.GET("", cfg.Handlers.Project.List)
		projects.GET("/stats", cfg.Handlers.Project.StatusCounts)
		projects.GET("/:id", cfg.Handlers.Project.GetByID)
		projects.POST("", cfg.Handlers.Project.Create)
		projects.PUT("/:id", cfg.Handlers.Project.Update)
		projects.DELETE("/:id", cfg.Handlers.Project.Delete)
	}

	salaries := authed.Group("/salaries")
	{
		salaries.GET("", cfg.Handlers.Salary.List)
		salaries.GET("/orphans", cfg.Handlers.Salary.ListOrphans)
		salaries.GET("/:id", cfg.Handlers.Salary.GetByID)
		salaries.POST("", cfg.Handlers.Salary.Create)
		salaries.POST("/bulk", cfg.Handlers.Salary.BulkCreate)
		salaries.PUT("/:id", cfg.Handlers.Salary.Update)
		salaries.PATCH("/:id/status", cfg.Handlers.Salary.TransitionStatus)
		salaries.DELETE("/:id", cfg.Handlers.Salary.Delete)
	}

	finance := authed.Group("/finance")
	{
		finance.GET("/entries", cfg.Handlers.Ledger.List)
		finance.GET("/entries/:id", cfg.Handlers.Ledger.GetByID)
		finance.POST("/entries", cfg.Handlers.Ledger.Create)
		finance.PUT("/entries/:id", cfg.Handlers.Ledger.Update)
		finance.DELETE("/entries/:id", cfg.Handlers.Ledger.Delete)
		finance.GET("/stats", cfg.Handlers.Ledger.Stats)
		finance.GET("/categories", cfg.Handlers.Ledger.Categories)
	}

	system := authed.Group("/system")
	{
		system.GET("/info", cfg.Handlers.System.GetSystemInfo)
	}

	return engine
}
