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

	_ "github.com/callsheet/production-system/docs"
	"github.com/callsheet/production-system/internal/api/handler"
	"github.com/callsheet/production-system/internal/api/middleware"
	"github.com/callsheet/production-system/internal/core/domain"
	"github.com/callsheet/production-system/internal/core/service"
	mongodb "github.com/callsheet/production-system/internal/infrastructure/db/mongo"
	redisdb "github.com/callsheet/production-system/internal/infrastructure/db/redis"
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(db *mongo.Database, rdb *redis.Client, jwtSecret string, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("callsheet"))

	// --- Dependencies ---
	profileRepo := mongodb.NewProfileRepository(db)
	productionRepo := mongodb.NewProductionRepository(db)
	rosterRepo := mongodb.NewRosterRepository(db)
	authRepo := mongodb.NewAuthRepository(db)
	visibilityCache := redisdb.NewVisibilityCache(rdb)

	authService := service.NewAuthService(authRepo, profileRepo, jwtSecret, 24*time.Hour, log)
	profileService := service.NewProfileService(profileRepo, log)
	productionService := service.NewProductionService(productionRepo, profileRepo, visibilityCache, log)
	rosterService := service.NewRosterService(rosterRepo, productionRepo, log)

	authHandler := handler.NewAuthHandler(authService)
	profileHandler := handler.NewProfileHandler(profileService)
	productionHandler := handler.NewProductionHandler(productionService)
	castHandler := handler.NewRosterHandler(rosterService, domain.RosterCast)
	creativeHandler := handler.NewRosterHandler(rosterService, domain.RosterCreative)

	// --- Auth routes ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)

	// --- Health probes and operational endpoints (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(db, rdb)
	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", readinessHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	// --- Authenticated API ---
	v1 := e.Group("/v1", middleware.Auth(jwtSecret))

	v1.GET("/profile", profileHandler.Get)
	v1.PUT("/profile", profileHandler.Set)

	v1.POST("/productions", productionHandler.Create)
	v1.GET("/productions", productionHandler.List)
	v1.GET("/productions/:id", productionHandler.Get)
	v1.POST("/productions/:id/admins", productionHandler.AddAdmin)
	v1.GET("/productions/:id/admins/:user_id", productionHandler.IsAdmin)
	v1.DELETE("/productions/:id/admins/:user_id", productionHandler.RemoveAdmin)

	registerRoster := func(prefix string, h *handler.RosterHandler) {
		v1.POST("/productions/:id/"+prefix, h.Add)
		v1.GET("/productions/:id/"+prefix, h.List)
		v1.PATCH("/productions/:id/"+prefix+"/:entry_id", h.Update)
		v1.DELETE("/productions/:id/"+prefix+"/:entry_id", h.Remove)
	}
	registerRoster("cast", castHandler)
	registerRoster("creative", creativeHandler)

	return e
}
