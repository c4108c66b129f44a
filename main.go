package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"eventim/internal/app"
	"eventim/internal/config"
	"eventim/internal/database"
	"eventim/pkg/logger"
	"eventim/pkg/rabbitmq"
	"eventim/pkg/redisstore"
	"eventim/pkg/storage"

	"go.uber.org/zap"
)

func main() {
	// --- Configuration ---
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	zlog, err := logger.New(cfg.Env)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer zlog.Sync() //nolint:errcheck

	// --- Database ---
	db, err := database.Open(cfg.DBDriver, cfg.DSN, zlog)
	if err != nil {
		zlog.Fatal("failed to open database", zap.Error(err))
	}
	if err := database.Migrate(db); err != nil {
		zlog.Fatal("failed to migrate database", zap.Error(err))
	}

	deps := app.Deps{DB: db, Logger: zlog}

	// --- Session storage ---
	if cfg.SessionStorage == "redis" {
		store, err := redisstore.New(redisstore.Config{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			Prefix:   cfg.SessionCookieName,
		})
		if err != nil {
			zlog.Fatal("failed to initialize redis session storage", zap.Error(err))
		}
		defer store.Close()
		deps.SessionStorage = store
	}

	// --- Initialize RabbitMQ Client ---
	if cfg.RabbitMQURL != "" {
		mqClient, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL, Exchange: cfg.RabbitMQExchange})
		if err != nil {
			zlog.Fatal("failed to initialize RabbitMQ client", zap.Error(err))
		}
		defer mqClient.Close()
		deps.Publisher = mqClient
	} else {
		zlog.Info("RABBITMQ_URL not set, domain events are not published")
	}

	// --- Image storage ---
	if cfg.ImageStorage == "s3" {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		blobs, err := storage.NewS3Store(ctx, storage.S3Config{
			Bucket:          cfg.S3Bucket,
			Endpoint:        cfg.S3Endpoint,
			Region:          cfg.S3Region,
			AccessKeyID:     cfg.S3AccessKeyID,
			SecretAccessKey: cfg.S3SecretAccessKey,
		})
		cancel()
		if err != nil {
			zlog.Fatal("failed to initialize S3 image storage", zap.Error(err))
		}
		deps.Blobs = blobs
	}

	server := app.New(cfg, deps)

	// --- Start HTTP Server ---
	zlog.Info("starting server", zap.String("port", cfg.AppPort), zap.String("env", cfg.Env))

	// Graceful shutdown handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := server.Listen(cfg.AppPort); err != nil {
			zlog.Fatal("server failed to start", zap.Error(err))
		}
	}()

	<-quit
	zlog.Info("shutting down server")

	if err := server.ShutdownWithTimeout(10 * time.Second); err != nil {
		zlog.Error("error during fiber shutdown", zap.Error(err))
	}

	// Redis and RabbitMQ are closed by the deferred calls above.
	zlog.Info("server gracefully stopped")
}
