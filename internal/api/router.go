package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/titanicdata/passenger-api/docs"
	"github.com/titanicdata/passenger-api/internal/api/handler"
	"github.com/titanicdata/passenger-api/internal/api/middleware"
	"github.com/titanicdata/passenger-api/internal/core/domain"
	"github.com/titanicdata/passenger-api/internal/core/service"
	"github.com/titanicdata/passenger-api/internal/infrastructure/config"
	mongodb "github.com/titanicdata/passenger-api/internal/infrastructure/db/mongo"
	redisdb "github.com/titanicdata/passenger-api/internal/infrastructure/db/redis"
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(db *mongo.Database, rdb *redis.Client, cfg *config.Config, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("passenger_api"))

	// --- Dependencies ---
	userRepo := mongodb.NewUserRepository(db)
	passengerRepo := mongodb.NewPassengerRepository(db)
	statsCache := redisdb.NewStatsCache(rdb)

	hasher := service.NewBcryptHasher(0)
	codec := service.NewJWTCodec(cfg.JWTSecret, cfg.TokenTTL, nil)
	authService := service.NewAuthService(userRepo, hasher, codec, log)
	passengerService := service.NewPassengerService(passengerRepo, statsCache, log)

	authHandler := handler.NewAuthHandler(authService)
	passengerHandler := handler.NewPassengerHandler(passengerService)
	healthHandler := handler.NewHealthHandler(db, rdb)

	authenticated := middleware.Authenticate(authService)
	active := middleware.RequireActive()
	anyRole := middleware.RequireRole(domain.AnyRole)
	adminOnly := middleware.RequireRole(domain.AdminOnly)

	// --- Auth routes ---
	auth := e.Group("/api/v1/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.GET("/me", authHandler.Me, authenticated, active)
	auth.GET("/users", authHandler.Users, authenticated, active, adminOnly)
	auth.POST("/logout", authHandler.Logout, authenticated, active)

	// --- Passenger routes: reads are public, writes run the gate chain ---
	passengers := e.Group("/api/v1/passengers")
	passengers.GET("", passengerHandler.List)
	passengers.GET("/search/advanced", passengerHandler.Search)
	passengers.GET("/statistics", passengerHandler.Statistics)
	passengers.GET("/:id", passengerHandler.Get)
	passengers.POST("", passengerHandler.Create, authenticated, active, anyRole)
	passengers.PUT("/:id", passengerHandler.Update, authenticated, active, adminOnly)
	passengers.DELETE("/:id", passengerHandler.Delete, authenticated, active, adminOnly)

	// --- Ops routes ---
	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	return e
}
