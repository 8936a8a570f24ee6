package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"authapi/internal/cache"
	"authapi/internal/config"
	"authapi/internal/db"
	"authapi/internal/db/migrations"
	"authapi/internal/logging"
	"authapi/internal/routes"
)

// @title Accounts API
// @version 1.0
// @description Registration, login and password reset.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg := config.Load()
	log := logging.New(os.Stdout, cfg.LogLevel)

	ctx := context.Background()
	fatal := func(msg string, err error) {
		log.Error(ctx, msg, "error", err)
		os.Exit(1)
	}

	created, err := db.CreateDatabaseIfNotExists(ctx, cfg.DatabaseURL)
	if err != nil {
		fatal("failed to ensure database exists", err)
	}
	if created {
		log.Info(ctx, "database created")
	}

	database, err := db.New(ctx, cfg.DatabaseURL)
	if err != nil {
		fatal("failed to connect to database", err)
	}
	defer database.Close()
	log.Info(ctx, "connected to database")

	if err := migrations.RunMigrations(ctx, database.DB); err != nil {
		fatal("failed to run migrations", err)
	}

	redisClient, err := cache.NewRedisClient(ctx, cfg.RedisURL)
	if err != nil {
		fatal("failed to connect to redis", err)
	}
	defer redisClient.Close()

	router := routes.SetupRoutes(database.DB, cache.NewRedisCache(redisClient), cfg, log)

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info(ctx, "server starting", "port", cfg.Port, "env", cfg.Environment)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			fatal("failed to start server", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info(ctx, "shutting down server")

	// Give server 5 seconds to finish current requests
	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "server forced to shutdown", "error", err)
	}

	log.Info(ctx, "server exiting")
}
