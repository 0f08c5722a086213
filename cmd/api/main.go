// cmd/api/main.go
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/trippydrip/storefront-backend/internal/config"
	"github.com/trippydrip/storefront-backend/internal/infrastructure/database/postgres"
	"github.com/trippydrip/storefront-backend/internal/infrastructure/database/redis"
	httpserver "github.com/trippydrip/storefront-backend/internal/interfaces/http"
	"github.com/trippydrip/storefront-backend/internal/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load configuration: " + err.Error())
	}

	log := logger.New(cfg)
	log.WithField("version", cfg.App.Version).Info("Starting " + cfg.App.Name)

	db, err := postgres.NewConnection(cfg)
	if err != nil {
		log.WithError(err).Fatal("Failed to connect to database")
	}
	defer postgres.Close(db)

	if err := postgres.Migrate(db); err != nil {
		log.WithError(err).Fatal("Failed to run migrations")
	}
	if cfg.IsDevelopment() {
		if err := postgres.Seed(db); err != nil {
			log.WithError(err).Warn("Failed to seed catalog")
		}
	}

	redisClient, err := redis.NewConnection(cfg)
	if err != nil {
		log.WithError(err).Fatal("Failed to connect to Redis")
	}
	defer redisClient.Close()

	server, err := httpserver.New(cfg, log, db, redisClient)
	if err != nil {
		log.WithError(err).Fatal("Failed to create server")
	}

	go func() {
		if err := server.Start(); err != nil {
			log.WithError(err).Fatal("Server stopped unexpectedly")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutdown signal received")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.WithError(err).Error("Forced shutdown")
	}

	log.Info("Server exited")
}
