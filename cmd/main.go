package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"hopon-backend/internal/config"
	"hopon-backend/internal/infrastructure/cache"
	"hopon-backend/internal/infrastructure/database/postgres"
	"hopon-backend/internal/infrastructure/events"
	"hopon-backend/internal/logger"
	"hopon-backend/internal/middleware"
	"hopon-backend/internal/routes"
	"hopon-backend/internal/usecase/bike"
	"hopon-backend/pkg/mqtt"

	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("Failed to load configuration: " + err.Error() + "\n")
		os.Exit(1)
	}

	if err := logger.Init(cfg.Server.Environment); err != nil {
		os.Stderr.WriteString("Failed to initialize logger: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting application",
		zap.String("environment", cfg.Server.Environment),
		zap.String("version", cfg.Server.Version),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := postgres.NewDB(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("Failed to close database connection", zap.Error(err))
		}
	}()

	if err := db.AutoMigrate(); err != nil {
		logger.Fatal("Failed to migrate database", zap.Error(err))
	}

	deps := routes.Dependencies{
		Cache:   cache.NoopCache{},
		Events:  events.NoopPublisher{},
		Limiter: middleware.NewRateLimiter(cfg.RateLimit.GeneralRPS, cfg.RateLimit.GeneralBurst),
	}

	if cfg.Redis.Addr != "" {
		redisClient, err := cache.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			logger.Warn("Redis unavailable, bike cache disabled", zap.String("addr", cfg.Redis.Addr), zap.Error(err))
		} else {
			defer redisClient.Close()
			deps.Cache = cache.NewRedisCache(redisClient)
		}
	}

	if cfg.MQTT.Broker != "" {
		mqttClient := mqtt.NewClient(&mqtt.Config{
			Broker:               cfg.MQTT.Broker,
			ClientID:             cfg.MQTT.ClientID,
			Username:             cfg.MQTT.Username,
			Password:             cfg.MQTT.Password,
			CleanSession:         true,
			KeepAlive:            60,
			ConnectTimeout:       10,
			AutoReconnect:        true,
			MaxReconnectInterval: time.Minute,
			PublishTimeout:       cfg.MQTT.PublishTimeout,
		}, logger.Logger.WithOptions(zap.AddCallerSkip(-1)).Named("mqtt"))

		if err := mqttClient.Connect(); err != nil {
			logger.Warn("MQTT broker unavailable, ride events disabled", zap.String("broker", cfg.MQTT.Broker), zap.Error(err))
		} else {
			defer mqttClient.Disconnect()
			deps.Events = events.NewMQTTPublisher(mqttClient, cfg.MQTT.TopicPrefix)
		}
	}

	seeder := bike.NewService(postgres.NewBikeRepository(db), deps.Cache, cfg)
	if _, err := seeder.SeedFleet(ctx, cfg.Fleet.Size, cfg.Fleet.DefaultLocation, nil); err != nil {
		logger.Fatal("Failed to seed bike fleet", zap.Error(err))
	}

	go deps.Limiter.Run(ctx)

	router := routes.SetupRoutes(cfg, db, deps)

	addr := net.JoinHostPort(cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("Server starting",
			zap.String("address", addr),
			zap.String("base_path", cfg.Server.BasePath),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("Shutdown Server ...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Failed to shutdown server", zap.Error(err))
		return
	}

	logger.Info("Server exited properly")
}
