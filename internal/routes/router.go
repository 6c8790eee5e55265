package routes

import (
	"net/http"
	"time"

	"hopon-backend/internal/config"
	"hopon-backend/internal/delivery/http/handler"
	"hopon-backend/internal/infrastructure/cache"
	"hopon-backend/internal/infrastructure/database/postgres"
	"hopon-backend/internal/infrastructure/events"
	"hopon-backend/internal/logger"
	"hopon-backend/internal/middleware"
	"hopon-backend/internal/usecase/bike"
	"hopon-backend/internal/usecase/ride"
	"hopon-backend/internal/usecase/session"
	"hopon-backend/internal/usecase/user"
	"hopon-backend/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Dependencies are the optional collaborators of the router. Nil fields fall
// back to no-op implementations.
type Dependencies struct {
	Cache   bike.Cache
	Events  ride.EventPublisher
	Limiter *middleware.RateLimiter
	// Clock overrides time.Now in every service; tests use it to expire tokens.
	Clock func() time.Time
}

func (d *Dependencies) withDefaults(cfg *config.Config) {
	if d.Cache == nil {
		d.Cache = cache.NoopCache{}
	}
	if d.Events == nil {
		d.Events = events.NoopPublisher{}
	}
	if d.Limiter == nil {
		d.Limiter = middleware.NewRateLimiter(cfg.RateLimit.GeneralRPS, cfg.RateLimit.GeneralBurst)
	}
}

func SetupRoutes(cfg *config.Config, db *postgres.DB, deps Dependencies) *gin.Engine {
	production := cfg.IsProduction()
	if production {
		gin.SetMode(gin.ReleaseMode)
	}
	deps.withDefaults(cfg)

	router := gin.New()

	// Order matters: recovery first, then request ID so every later log line carries it
	router.Use(middleware.RecoveryMiddleware(!production))
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware(cfg.Server.BasePath))
	router.Use(middleware.MetricsMiddleware())
	router.Use(middleware.SecurityHeadersMiddleware(production))
	router.Use(middleware.CORSMiddleware(&cfg.CORS))
	router.Use(middleware.RequestSizeLimitMiddleware(middleware.DefaultMaxRequestSize))
	router.Use(middleware.RateLimitMiddleware(deps.Limiter))

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	var (
		sessionOpts []session.Option
		bikeOpts    []bike.Option
		rideOpts    []ride.Option
	)
	if deps.Clock != nil {
		sessionOpts = append(sessionOpts, session.WithClock(deps.Clock))
		bikeOpts = append(bikeOpts, bike.WithClock(deps.Clock))
		rideOpts = append(rideOpts, ride.WithClock(deps.Clock))
	}

	userRepository := postgres.NewUserRepository(db)
	bikeRepository := postgres.NewBikeRepository(db)
	rideRepository := postgres.NewRideRepository(db)

	sessions := session.NewManager(cfg.JWT, sessionOpts...)
	userService := user.NewService(userRepository, sessions)
	bikeService := bike.NewService(bikeRepository, deps.Cache, cfg, bikeOpts...)
	rideService := ride.NewService(
		rideRepository, bikeRepository, userRepository,
		db, bikeService, deps.Events, cfg, rideOpts...,
	)

	userHandler := handler.NewUserHandler(userService)
	bikeHandler := handler.NewBikeHandler(bikeService)
	rideHandler := handler.NewRideHandler(rideService)

	requireAuth := middleware.AuthMiddleware(sessions)
	optionalAuth := middleware.OptionalAuthMiddleware(sessions)

	api := router.Group(cfg.Server.BasePath)
	{
		api.GET("/health", func(c *gin.Context) {
			if err := db.Health(c.Request.Context()); err != nil {
				logger.WithRequestID(middleware.GetRequestID(c)).Warn("Health check failed", zap.Error(err))
				utils.ErrorResponse(c, http.StatusServiceUnavailable, "Database connection failed")
				return
			}

			utils.SuccessResponse(c, http.StatusOK, gin.H{
				"message":   "HopOn Backend API is running",
				"timestamp": time.Now().UTC(),
				"version":   cfg.Server.Version,
			})
		})

		userHandler.RegisterRoutes(api, requireAuth)
		bikeHandler.RegisterRoutes(api, optionalAuth, requireAuth)
		rideHandler.RegisterRoutes(api, optionalAuth, requireAuth)
	}

	router.NoRoute(func(c *gin.Context) {
		utils.ErrorResponse(c, http.StatusNotFound, "Endpoint not found")
	})

	logger.Info("All routes initialized")
	return router
}
