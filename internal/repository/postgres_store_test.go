package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"inventory/internal/config"
	"inventory/internal/database"
	"inventory/internal/domain"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
)

func setupTestDB(t *testing.T) (*sql.DB, config.DatabaseConfig) {
	t.Helper()
	testcontainers.SkipIfProviderIsNotHealthy(t)

	var (
		dbName = "testdb"
		dbPwd  = "password"
		dbUser = "user"
	)

	ctx := context.Background()
	dbContainer, err := postgres.Run(
		ctx,
		"postgres:15",
		postgres.WithDatabase(dbName),
		postgres.WithUsername(dbUser),
		postgres.WithPassword(dbPwd),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	testcontainers.CleanupContainer(t, dbContainer)
	require.NoError(t, err)

	dbHost, err := dbContainer.Host(ctx)
	require.NoError(t, err)
	dbPort, err := dbContainer.MappedPort(ctx, "5432/tcp")
	require.NoError(t, err)

	cfg := config.DatabaseConfig{
		Host:     dbHost,
		Port:     dbPort.Port(),
		User:     dbUser,
		Password: dbPwd,
		Database: dbName,
		Schema:   "public",
		SSLMode:  "disable",
	}

	db, err := database.Open(ctx, cfg)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, database.RunMigrations(db, zap.NewNop()))
	return db, cfg
}

func TestPostgresStore(t *testing.T) {
	db, cfg := setupTestDB(t)
	ctx := context.Background()

	store := NewPostgresStore(db)
	exerciseKeyValueStore(t, store)

	// Migrations are idempotent and OpenStore sees the same rows
	opened, err := OpenStore(ctx, &config.Config{
		Storage:  config.StorageConfig{Driver: config.DriverPostgres},
		Database: cfg,
	}, zap.NewNop())
	require.NoError(t, err)
	defer opened.Close()

	require.NoError(t, store.Set(ctx, "shared", "from-first"))
	value, err := opened.Get(ctx, "shared")
	require.NoError(t, err)
	assert.Equal(t, "from-first", value)
}

// Feature: inventory, Property 6: Collections survive a postgres round trip
func TestProperty_PostgresCollectionRoundTrip(t *testing.T) {
	db, _ := setupTestDB(t)
	ctx := context.Background()
	repo := NewCollectionRepository(NewPostgresStore(db), "pg", zap.NewNop())

	properties := gopter.NewProperties(gopter.DefaultTestParametersWithSeed(42))

	properties.Property("saved products load back equal", prop.ForAll(
		func(products []*domain.Product) bool {
			if err := repo.SaveProducts(ctx, products); err != nil {
				t.Logf("FAIL: Failed to save products: %v", err)
				return false
			}
			loaded, err := repo.LoadProducts(ctx)
			if err != nil {
				t.Logf("FAIL: Failed to load products: %v", err)
				return false
			}
			return sameCollection(products, loaded)
		},
		gen.SliceOf(genProduct()),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}
