package api

import (
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/fixmycity/report-system/internal/api/handler"
	"github.com/fixmycity/report-system/internal/api/middleware"
	"github.com/fixmycity/report-system/internal/core/domain"
	"github.com/fixmycity/report-system/internal/core/service"
	mongodb "github.com/fixmycity/report-system/internal/infrastructure/db/mongo"
	redisdb "github.com/fixmycity/report-system/internal/infrastructure/db/redis"
	"github.com/fixmycity/report-system/internal/infrastructure/storage"
)

// Options bundles the dependencies the router needs.
type Options struct {
	DB        *mongo.Database
	Redis     *redis.Client
	JWTSecret string
	TokenTTL  time.Duration
	Images    *storage.DiskStore
	Logger    zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(opts Options) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("fixmycity"))

	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(opts.Logger)

	// --- Dependencies ---
	userRepo := mongodb.NewUserRepository(opts.DB)
	reportRepo := mongodb.NewReportRepository(opts.DB)

	authService := service.NewAuthService(userRepo, opts.JWTSecret, opts.TokenTTL)
	reportService := service.NewReportService(reportRepo, opts.Logger)
	userService := service.NewUserService(userRepo, opts.Logger)

	authHandler := handler.NewAuthHandler(authService)
	reportHandler := handler.NewReportHandler(reportService, opts.Images)
	userHandler := handler.NewUserHandler(userService)

	authMW := middleware.Auth(opts.JWTSecret)

	// 10 attempts per minute per IP on the credential endpoints.
	authLimiter := redisdb.NewRateLimiter(opts.Redis, 10, time.Minute)
	authLimit := middleware.RateLimit(func(c echo.Context, scope, key string) (bool, time.Duration, error) {
		return authLimiter.Allow(c.Request().Context(), scope, key)
	}, "auth")

	// --- Auth routes ---
	auth := e.Group("/api/auth")
	auth.POST("/register", authHandler.Register, authLimit)
	auth.POST("/login", authHandler.Login, authLimit)
	auth.GET("/me", authHandler.Me, authMW)

	// --- Report routes ---
	reports := e.Group("/api/reports", authMW)
	reports.POST("", reportHandler.Create,
		middleware.RBAC(domain.RoleCitizen),
		middleware.UploadRateLimit(1, 5))
	reports.GET("", reportHandler.List,
		middleware.RBAC(domain.RoleCitizen, domain.RoleAgent, domain.RoleAdmin))
	reports.GET("/mine", reportHandler.ListMine)
	reports.GET("/:id", reportHandler.Get)
	reports.PUT("/:id/status", reportHandler.UpdateStatus,
		middleware.RBAC(domain.RoleAgent, domain.RoleAdmin))

	// --- User management (admin only) ---
	users := e.Group("/api/users", authMW, middleware.RBAC(domain.RoleAdmin))
	users.GET("", userHandler.List)
	users.GET("/:id", userHandler.Get)
	users.PUT("/:id", userHandler.Update)
	users.DELETE("/:id", userHandler.Delete)

	// --- Static uploads ---
	e.Static("/uploads", opts.Images.Dir())

	// --- Health probes and metrics (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(opts.DB, opts.Redis)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthDepsHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())

	return e
}
