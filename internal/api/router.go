package api

import (
	"context"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/aymaseguros/portal-api/docs"
	"github.com/aymaseguros/portal-api/internal/api/handler"
	"github.com/aymaseguros/portal-api/internal/api/middleware"
	"github.com/aymaseguros/portal-api/internal/core/domain"
	"github.com/aymaseguros/portal-api/internal/core/service"
	"github.com/aymaseguros/portal-api/internal/infrastructure/backend"
	"github.com/aymaseguros/portal-api/internal/infrastructure/config"
	mongodb "github.com/aymaseguros/portal-api/internal/infrastructure/db/mongo"
	redisdb "github.com/aymaseguros/portal-api/internal/infrastructure/db/redis"
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(cfg *config.Config, rdb *redis.Client, db *mongo.Database, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("portal"))

	// --- Dependencies ---
	core := backend.NewClient(cfg.Core.BaseURL, cfg.Core.Timeout, log)
	store := redisdb.NewSessionStore(rdb, cfg.SessionTTL, log)
	cache := redisdb.NewViewModelCache(rdb, cfg.SessionTTL)
	audit := mongodb.NewAuditRepository(db)

	sessionService := service.NewSessionService(core, store, cache, audit, cfg.JWTSecret, cfg.SessionTTL, log)
	dashboardService := service.NewDashboardService(core, sessionService, cache, log)
	sessionService.SetWarmup(func(ctx context.Context, s domain.Session) {
		_, _ = dashboardService.Aggregate(ctx, s)
	})

	authHandler := handler.NewAuthHandler(sessionService)
	dashboardHandler := handler.NewDashboardHandler(dashboardService)
	policyHandler := handler.NewPolicyHandler(core, sessionService)
	vehicleHandler := handler.NewVehicleHandler(core, sessionService)
	adminHandler := handler.NewAdminHandler(core, sessionService)
	navigationHandler := handler.NewNavigationHandler()

	authRequired := middleware.Auth(cfg.JWTSecret, sessionService)
	adminOnly := middleware.RequireRole(service.IsAdmin)
	crmAccess := middleware.RequireRole(service.CanManageClients)

	// --- Public routes ---
	e.POST("/api/v1/auth/login", authHandler.Login)

	// --- Authenticated routes ---
	v1 := e.Group("/api/v1", authRequired)
	v1.POST("/auth/logout", authHandler.Logout)
	v1.GET("/auth/session", authHandler.Session)
	v1.GET("/dashboard", dashboardHandler.Get)
	v1.GET("/navigation", navigationHandler.Tabs)
	v1.GET("/policies", policyHandler.List)
	v1.GET("/policies/:id", policyHandler.Get)
	v1.GET("/vehicles", vehicleHandler.List)
	v1.GET("/vehicles/:id", vehicleHandler.Get)

	admin := v1.Group("/admin")
	admin.GET("/clients", adminHandler.Clients, adminOnly)
	admin.GET("/clients/export", adminHandler.ExportClients, adminOnly)
	admin.GET("/metrics", adminHandler.Metrics, adminOnly)
	admin.GET("/leads", adminHandler.Leads, crmAccess)
	admin.GET("/expirations", adminHandler.Expirations, crmAccess)
	admin.POST("/clients/:id/activity", adminHandler.RegisterActivity, crmAccess)

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(rdb, db)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", readinessHandler.Readiness)

	// --- Operational endpoints ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}
