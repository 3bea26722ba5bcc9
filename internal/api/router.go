package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/campusreg/registration-system/internal/api/handler"
	"github.com/campusreg/registration-system/internal/api/middleware"
	"github.com/campusreg/registration-system/internal/core/domain"
	"github.com/campusreg/registration-system/internal/core/ratelimit"
	"github.com/campusreg/registration-system/internal/core/service"
	"github.com/campusreg/registration-system/internal/infrastructure/config"
	mongodb "github.com/campusreg/registration-system/internal/infrastructure/db/mongo"
	redisdb "github.com/campusreg/registration-system/internal/infrastructure/db/redis"
)

// defaultCatalog is the class list for the current registration term. The
// catalog proper is owned by the institution; this snapshot is what the
// service enrolls against.
var defaultCatalog = []domain.Class{
	{ID: "1", Name: "Web Development 101", Schedule: "Mon/Wed 10:00", Capacity: 30},
	{ID: "2", Name: "Data Structures", Schedule: "Tue/Thu 09:00", Capacity: 25},
	{ID: "3", Name: "Databases", Schedule: "Mon/Wed 14:00", Capacity: 25},
	{ID: "4", Name: "Operating Systems", Schedule: "Tue/Thu 13:00", Capacity: 20},
	{ID: "5", Name: "Computer Networks", Schedule: "Fri 09:00", Capacity: 20},
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(cfg *config.Config, db *mongo.Database, rdb *redis.Client, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("registration"))

	// --- Dependencies ---
	loginLimiter := ratelimit.New(ratelimit.Policy{
		MaxAttempts: cfg.LoginLimit.MaxAttempts,
		Window:      cfg.LoginLimit.Window,
	})
	enrollLimiter := ratelimit.New(ratelimit.Policy{
		MaxAttempts: cfg.EnrollLimit.MaxAttempts,
		Window:      cfg.EnrollLimit.Window,
	})

	userRepo := mongodb.NewUserRepository(db)
	enrollmentRepo := mongodb.NewEnrollmentRepository(db)
	catalog := service.NewCachedCatalog(
		service.NewStaticCatalog(defaultCatalog),
		redisdb.NewCatalogCache(rdb),
		log,
	)

	authService := service.NewAuthService(userRepo, loginLimiter, cfg.JWTSecret, cfg.TokenTTL, log)
	enrollmentService := service.NewEnrollmentService(enrollmentRepo, catalog, enrollLimiter, log)

	authHandler := handler.NewAuthHandler(authService)
	enrollmentHandler := handler.NewEnrollmentHandler(enrollmentService, catalog)

	// --- Auth routes (public) ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)
	e.POST("/auth/password-strength", authHandler.CheckStrength)

	// --- Protected routes ---
	v1 := e.Group("/v1", middleware.Auth(cfg.JWTSecret))
	v1.GET("/classes", enrollmentHandler.Classes)
	v1.GET("/enrollments", enrollmentHandler.List)
	v1.POST("/enrollments", enrollmentHandler.Enroll)
	v1.DELETE("/enrollments/:class", enrollmentHandler.Unenroll)

	// --- Observability ---
	e.GET("/metrics", echoprometheus.NewHandler())

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)           // liveness  – is the process alive?
	e.GET("/health/ready", readinessHandler.Readiness) // readiness – are dependencies up?

	return e
}
