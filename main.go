package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"parking-booking/cmd"
	"parking-booking/internal/data/repository"
	"parking-booking/internal/wire"
	"parking-booking/pkg/broker"
	"parking-booking/pkg/cache"
	"parking-booking/pkg/database"
	"parking-booking/pkg/utils"

	"go.uber.org/zap"
)

func main() {
	config, err := utils.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := utils.InitLogger(config.App.Name, config.App.LogPath, config.App.Debug)
	if err != nil {
		log.Printf("Failed to init logger: %v. Using standard log.", err)
		logger, _ = zap.NewProduction()
	}
	defer logger.Sync()

	logger.Info("Starting application",
		zap.String("app", config.App.Name),
		zap.String("port", config.App.Port),
		zap.Bool("debug", config.App.Debug),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.InitDB(config.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	logger.Info("Database connected successfully")

	deps := wire.Deps{
		Repo:   repository.NewRepository(db, logger),
		DB:     db,
		Tokens: utils.NewTokenService(config.JWT.Secret, time.Duration(config.JWT.ExpiryHours)*time.Hour),
	}

	if config.Redis.Addr != "" {
		client, err := cache.NewRedisClient(config.Redis.Addr, config.Redis.Password, config.Redis.DB)
		if err != nil {
			logger.Warn("Redis unavailable, active booking cache disabled", zap.Error(err))
		} else {
			defer client.Close()
			deps.Cache = cache.NewActiveBookingCache(client, config.Redis.ActiveTTL)
			logger.Info("Redis connected", zap.String("addr", config.Redis.Addr))
		}
	}

	if config.AMQP.URL != "" {
		mq, err := broker.NewRabbitMQ(ctx, config.AMQP.URL, config.AMQP.Exchange, logger)
		if err != nil {
			logger.Warn("RabbitMQ unavailable, booking events disabled", zap.Error(err))
		} else {
			defer mq.Close()
			deps.Events = broker.NewBookingPublisher(mq, config.AMQP.Exchange, logger)
		}
	}

	app := wire.Wiring(deps, config, logger)

	if err := cmd.APIServer(ctx, app.Router, config.App.Port, logger); err != nil {
		logger.Error("Server error", zap.Error(err))
	}
}
