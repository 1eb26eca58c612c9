package server

import (
	"fmt"
	"net/http"
	"time"

	"inventory/internal/config"
	custommiddleware "inventory/internal/middleware"
	"inventory/internal/repository"
	"inventory/internal/service"
	"inventory/internal/transport"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Dependencies are the resources the server routes to and closes on shutdown
type Dependencies struct {
	Inventory service.InventoryService
	Store     repository.KeyValueStore
	Registry  *prometheus.Registry
	// Redis backs rate limiting. Nil disables it.
	Redis *redis.Client
}

type Server struct {
	*http.Server
	config *config.Config
	logger *zap.Logger
	deps   Dependencies
}

func NewServer(cfg *config.Config, logger *zap.Logger, deps Dependencies) *Server {
	router := chi.NewRouter()

	// Add basic middleware
	for _, mw := range custommiddleware.DefaultMiddlewareStack() {
		router.Use(mw)
	}
	router.Use(custommiddleware.ErrorHandlingMiddleware(logger))
	router.Use(custommiddleware.LoggingMiddleware(logger))
	router.Use(custommiddleware.CORSMiddleware(cfg.CORS.AllowedOrigins, cfg.IsDevelopment()))

	// Health check endpoint
	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		custommiddleware.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
			"status":   "ok",
			"driver":   cfg.Storage.Driver,
			"products": deps.Inventory.Count(),
		})
	})

	if deps.Registry != nil {
		router.Handle("/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
	}

	inventoryHandler := transport.NewInventoryHandler(deps.Inventory, logger)

	router.Group(func(r chi.Router) {
		if deps.Redis != nil && cfg.RateLimit.Requests > 0 {
			r.Use(custommiddleware.RateLimitMiddleware(deps.Redis, custommiddleware.RateLimitConfig{
				RequestsPerWindow: cfg.RateLimit.Requests,
				Window:            cfg.RateLimit.Window,
				KeyPrefix:         rateLimitPrefix(cfg.Storage.Namespace),
			}, logger))
		}
		inventoryHandler.RegisterRoutes(r)
	})

	server := &Server{
		Server: &http.Server{
			Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
			Handler:      router,
			IdleTimeout:  time.Minute,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		config: cfg,
		logger: logger,
		deps:   deps,
	}

	return server
}

func rateLimitPrefix(namespace string) string {
	if namespace == "" {
		return "rate_limit"
	}
	return namespace + ":rate_limit"
}

func (s *Server) Close() error {
	s.logger.Info("Closing server resources")

	if s.deps.Store != nil {
		if err := s.deps.Store.Close(); err != nil {
			s.logger.Error("Failed to close storage", zap.Error(err))
		}
	}

	if s.deps.Redis != nil {
		if err := s.deps.Redis.Close(); err != nil {
			s.logger.Error("Failed to close redis connection", zap.Error(err))
		}
	}

	s.logger.Sync()
	return nil
}
