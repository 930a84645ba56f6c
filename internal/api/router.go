package api

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/viptransport/booking-api/internal/api/handler"
	"github.com/viptransport/booking-api/internal/api/middleware"
	"github.com/viptransport/booking-api/internal/core/domain"
	"github.com/viptransport/booking-api/internal/core/ports"
	"github.com/viptransport/booking-api/internal/core/service"
	"github.com/viptransport/booking-api/internal/infrastructure/config"
	"github.com/viptransport/booking-api/internal/infrastructure/db/postgres"
	"github.com/viptransport/booking-api/internal/infrastructure/federated"
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(pool *pgxpool.Pool, notifier ports.Notifier, cfg *config.Config, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("viptransport"))

	// --- Dependencies ---
	userRepo := postgres.NewUserRepository(pool)
	resetRepo := postgres.NewResetTokenRepository(pool)
	issuer := service.NewJWTIssuer(cfg.JWTSecret, cfg.TokenTTL)
	verifier := federated.NewGoogleVerifier(cfg.Google.ClientID)

	authService := service.NewAuthService(userRepo, resetRepo, issuer, verifier, notifier, log)
	adminService := service.NewAdminService(userRepo)

	authHandler := handler.NewAuthHandler(authService)
	adminHandler := handler.NewAdminHandler(adminService)
	authMiddleware := middleware.Auth(issuer)
	adminOnly := middleware.RBAC(domain.RoleAdmin)

	// --- Auth routes ---
	auth := e.Group("/api/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/google", authHandler.GoogleLogin)
	auth.POST("/forgot-password", authHandler.ForgotPassword)
	auth.POST("/reset-password", authHandler.ResetPassword)
	auth.GET("/profile", authHandler.Profile, authMiddleware)

	// --- Admin routes ---
	admin := e.Group("/api/admin", authMiddleware, adminOnly)
	admin.GET("/users", adminHandler.ListUsers)
	admin.PUT("/users/:id/role", adminHandler.UpdateRole)

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(pool)

	e.GET("/health", healthHandler.Liveness)          // liveness  – is the process alive?
	e.GET("/health/ready", readinessHandler.Readiness) // readiness – are dependencies up?

	// --- Operational endpoints ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}
