package repository

import (
	"context"
	"path/filepath"
	"testing"

	"inventory/internal/config"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestOpenStoreDrivers(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)

	tests := []struct {
		name string
		cfg  config.Config
	}{
		{"memory", config.Config{Storage: config.StorageConfig{Driver: config.DriverMemory}}},
		{"file", config.Config{Storage: config.StorageConfig{
			Driver:   config.DriverFile,
			FilePath: filepath.Join(t.TempDir(), "nested", "inventory.json"),
		}}},
		{"redis", config.Config{
			Storage: config.StorageConfig{Driver: config.DriverRedis},
			Redis:   config.RedisConfig{Host: mr.Host(), Port: mr.Port()},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, err := OpenStore(ctx, &tt.cfg, zap.NewNop())
			require.NoError(t, err)
			defer store.Close()

			require.NoError(t, store.Set(ctx, ProductsKey, "[]"))
			value, err := store.Get(ctx, ProductsKey)
			require.NoError(t, err)
			assert.Equal(t, "[]", value)
		})
	}
}

func TestOpenStoreFailures(t *testing.T) {
	ctx := context.Background()

	_, err := OpenStore(ctx, &config.Config{Storage: config.StorageConfig{Driver: "etcd"}}, zap.NewNop())
	assert.ErrorIs(t, err, ErrUnknownDriver)

	mr := miniredis.RunT(t)
	host, port := mr.Host(), mr.Port()
	mr.Close()

	_, err = OpenStore(ctx, &config.Config{
		Storage: config.StorageConfig{Driver: config.DriverRedis},
		Redis:   config.RedisConfig{Host: host, Port: port},
	}, zap.NewNop())
	assert.Error(t, err)
}
