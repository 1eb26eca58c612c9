package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"inventory/internal/config"
	"inventory/internal/logger"
	"inventory/internal/metrics"
	"inventory/internal/repository"
	"inventory/internal/server"
	"inventory/internal/service"
	"inventory/internal/view"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func gracefulShutdown(apiServer *server.Server, logger *zap.Logger, done chan bool) {
	// Create context that listens for the interrupt signal from the OS.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Listen for the interrupt signal.
	<-ctx.Done()

	logger.Info("Shutting down gracefully, press Ctrl+C again to force")
	stop() // Allow Ctrl+C to force shutdown

	// The context is used to inform the server it has 30 seconds to finish
	// the request it is currently handling
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := apiServer.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	// Close server resources
	if err := apiServer.Close(); err != nil {
		logger.Error("Error closing server resources", zap.Error(err))
	}

	logger.Info("Server exiting")

	// Notify the main goroutine that the shutdown is complete
	done <- true
}

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize logger
	log, err := logger.New(cfg.Server.Env)
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	defer log.Sync()

	log.Info("Starting inventory API",
		zap.String("env", cfg.Server.Env),
		zap.String("port", cfg.Server.Port),
		zap.String("storage", cfg.Storage.Driver),
	)

	if loc, err := view.LoadLocation(cfg.Display.TimeZone); err != nil {
		log.Warn("Unknown display time zone, using Tehran", zap.String("timezone", cfg.Display.TimeZone), zap.Error(err))
	} else {
		view.SetLocation(loc)
	}

	ctx := context.Background()

	// Open storage, running migrations for postgres
	store, err := repository.OpenStore(ctx, cfg, log)
	if err != nil {
		log.Fatal("Failed to open storage", zap.Error(err))
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	repo := repository.NewCollectionRepository(store, cfg.Storage.Namespace, log)
	inventory, err := service.NewInventoryService(ctx, repo, log, service.WithMetrics(metrics.New(registry)))
	if err != nil {
		store.Close()
		log.Fatal("Failed to load inventory", zap.Error(err))
	}

	var redisClient *redis.Client
	if cfg.RateLimit.Requests > 0 {
		redisClient = repository.NewRedisClient(cfg.Redis)
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.RateLimit.Requests),
			zap.Duration("window", cfg.RateLimit.Window),
		)
	}

	// Create server
	srv := server.NewServer(cfg, log, server.Dependencies{
		Inventory: inventory,
		Store:     store,
		Registry:  registry,
		Redis:     redisClient,
	})

	// Create a done channel to signal when the shutdown is complete
	done := make(chan bool, 1)

	// Run graceful shutdown in a separate goroutine
	go gracefulShutdown(srv, log, done)

	log.Info("Server listening", zap.String("addr", srv.Addr))

	err = srv.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		log.Fatal("HTTP server error", zap.Error(err))
	}

	// Wait for the graceful shutdown to complete
	<-done
	log.Info("Graceful shutdown complete")
}
