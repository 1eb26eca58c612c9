package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"inventory/internal/config"
	"inventory/internal/database"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

var ErrUnknownDriver = errors.New("unknown storage driver")

// NewRedisClient creates a redis client from the configuration
func NewRedisClient(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})
}

// OpenStore connects the key/value backend selected by cfg.Storage.Driver.
// The postgres driver applies pending migrations before returning.
func OpenStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (KeyValueStore, error) {
	logger = logger.With(zap.String("driver", cfg.Storage.Driver))

	switch cfg.Storage.Driver {
	case config.DriverMemory:
		logger.Warn("Using in-memory storage, data is lost on exit")
		return NewMemoryStore(), nil

	case config.DriverFile:
		store, err := NewFileStore(cfg.Storage.FilePath, logger)
		if err != nil {
			return nil, err
		}
		logger.Info("Storage opened", zap.String("path", cfg.Storage.FilePath))
		return store, nil

	case config.DriverRedis:
		client := NewRedisClient(cfg.Redis)

		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := client.Ping(pingCtx).Err(); err != nil {
			client.Close()
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		logger.Info("Storage opened", zap.String("addr", cfg.Redis.Addr()))
		return NewRedisStore(client), nil

	case config.DriverPostgres:
		db, err := database.Open(ctx, cfg.Database)
		if err != nil {
			return nil, err
		}
		if err := database.RunMigrations(db, logger); err != nil {
			db.Close()
			return nil, err
		}
		logger.Info("Storage opened",
			zap.String("host", cfg.Database.Host),
			zap.String("database", cfg.Database.Database),
		)
		return NewPostgresStore(db), nil

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, cfg.Storage.Driver)
	}
}
