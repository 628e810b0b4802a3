package api

import (
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/teamforge/identity-service/internal/api/handler"
	"github.com/teamforge/identity-service/internal/api/middleware"
	"github.com/teamforge/identity-service/internal/core/domain"
	"github.com/teamforge/identity-service/internal/core/service"
	mongodb "github.com/teamforge/identity-service/internal/infrastructure/db/mongo"
	redisdb "github.com/teamforge/identity-service/internal/infrastructure/db/redis"
	"github.com/teamforge/identity-service/internal/infrastructure/hash"
)

// RouterConfig carries the runtime settings the HTTP layer needs.
type RouterConfig struct {
	JWTSecret  string
	TokenTTL   time.Duration
	BcryptCost int
	CacheTTL   time.Duration
}

// NewRouter builds and returns the Echo instance with all routes registered.
// audit may be nil to disable the asynchronous audit trail.
func NewRouter(db *mongo.Database, rdb *redis.Client, audit service.AuditSink, cfg RouterConfig, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("identity"))

	// --- Dependencies ---
	userRepo := mongodb.NewUserRepository(db)
	hasher := hash.NewBcryptHasher(cfg.BcryptCost)
	cache := redisdb.NewProfileCache(rdb, cfg.CacheTTL)
	userService := service.NewUserService(userRepo, hasher, cache, audit, log)
	authService := service.NewAuthService(userRepo, hasher, cfg.JWTSecret, cfg.TokenTTL)

	authHandler := handler.NewAuthHandler(userService, authService)
	userHandler := handler.NewUserHandler(userService)
	authMW := middleware.Auth(cfg.JWTSecret)

	// --- Auth routes ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)

	// --- User routes ---
	// Creation is the same open registration flow as /auth/register; reads
	// of other users, listing and deactivation are privileged.
	users := e.Group("/users")
	users.POST("", userHandler.Create)
	users.GET("", userHandler.List, authMW, middleware.RBAC(domain.RoleAdmin))
	users.GET("/:id", userHandler.Get, authMW)
	users.PATCH("/:id", userHandler.Update, authMW)
	users.DELETE("/:id", userHandler.Deactivate, authMW, middleware.RBAC(domain.RoleAdmin))

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", readinessHandler.Readiness)

	// --- Ops endpoints ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	return e
}
