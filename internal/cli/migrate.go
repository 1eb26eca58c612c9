package cli

import (
	"database/sql"
	"fmt"

	"inventory/internal/config"
	"inventory/internal/database"
	"inventory/internal/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newMigrateCommand() *cobra.Command {
	migrateCmd := &cobra.Command{
		Use:         "migrate",
		Short:       "Manage the postgres storage schema",
		Annotations: map[string]string{skipStoreAnnotation: ""},
	}

	upCmd := &cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDatabase(cmd, func(db *sql.DB, log *zap.Logger) error {
				return database.RunMigrations(db, log)
			})
		},
	}

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Print the migration status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDatabase(cmd, func(db *sql.DB, log *zap.Logger) error {
				return database.GetMigrationStatus(db)
			})
		},
	}

	migrateCmd.AddCommand(upCmd, statusCmd)
	return migrateCmd
}

func withDatabase(cmd *cobra.Command, fn func(*sql.DB, *zap.Logger) error) error {
	envFile, _ := cmd.Flags().GetString("env-file")
	verbose, _ := cmd.Flags().GetBool("verbose")

	cfg := config.Load(envFile)
	if driver, _ := cmd.Flags().GetString("driver"); cmd.Flags().Changed("driver") {
		cfg.Storage.Driver = driver
	}
	if cfg.Storage.Driver != config.DriverPostgres {
		return fmt.Errorf("migrations only apply to the %s driver, storage driver is %q", config.DriverPostgres, cfg.Storage.Driver)
	}

	log, err := logger.NewCLI(cfg.Server.Env, verbose)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer log.Sync()

	db, err := database.Open(cmd.Context(), cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	return fn(db, log)
}
