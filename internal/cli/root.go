// Package cli implements inventoryctl, a command-line front end to the
// same inventory store the API serves.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"inventory/internal/config"
	"inventory/internal/logger"
	"inventory/internal/repository"
	"inventory/internal/service"
	"inventory/internal/view"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type options struct {
	envFile   string
	driver    string
	filePath  string
	namespace string
	output    string
	verbose   bool
}

// app holds what a command needs once the store is open
type app struct {
	cfg       *config.Config
	logger    *zap.Logger
	store     repository.KeyValueStore
	inventory service.InventoryService
	printer   *printer
}

type appKey struct{}

// appHolder carries the opened app out of cobra so it can be closed after
// the command returns. Cobra skips PersistentPostRunE when RunE fails.
type appHolder struct {
	app *app
}

func (h *appHolder) close() error {
	if h.app == nil {
		return nil
	}
	a := h.app
	h.app = nil

	a.logger.Sync()
	if err := a.store.Close(); err != nil {
		return fmt.Errorf("failed to close storage: %w", err)
	}
	return nil
}

const skipStoreAnnotation = "inventoryctl/skip-store"

// NewRootCommand builds the inventoryctl command tree. Run it with Run so the
// store it opens is released.
func NewRootCommand() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:           "inventoryctl",
		Short:         "Manage inventory categories and products",
		Long:          `Record categories and products, then browse, filter, sort, edit and delete them.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !needsStore(cmd) {
				return nil
			}
			holder := holderFrom(cmd.Context())
			if holder == nil {
				return errors.New("inventoryctl must be executed through cli.Run")
			}
			a, err := openApp(cmd, opts)
			if err != nil {
				return err
			}
			holder.app = a
			return nil
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.envFile, "env-file", ".env", "Environment file to load")
	flags.StringVar(&opts.driver, "driver", "", "Storage driver: memory, file, redis or postgres (default from STORAGE_DRIVER)")
	flags.StringVar(&opts.filePath, "file", "", "Storage file for the file driver (default from STORAGE_FILE_PATH)")
	flags.StringVar(&opts.namespace, "namespace", "", "Storage key namespace (default from STORAGE_NAMESPACE)")
	flags.StringVarP(&opts.output, "output", "o", formatTable, "Output format: table, json or yaml")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "Log at debug level")

	rootCmd.AddCommand(newCategoryCommand())
	rootCmd.AddCommand(newProductCommand())
	rootCmd.AddCommand(newMigrateCommand())

	return rootCmd
}

// Run executes rootCmd and then closes whatever store it opened, whether or
// not the command succeeded.
func Run(ctx context.Context, rootCmd *cobra.Command) error {
	holder := &appHolder{}
	err := rootCmd.ExecuteContext(context.WithValue(ctx, appKey{}, holder))
	return errors.Join(err, holder.close())
}

// Execute runs inventoryctl with the process arguments
func Execute() {
	if err := Run(context.Background(), NewRootCommand()); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func openApp(cmd *cobra.Command, opts *options) (*app, error) {
	p, err := newPrinter(cmd.OutOrStdout(), cmd.ErrOrStderr(), opts.output)
	if err != nil {
		return nil, err
	}

	cfg := config.Load(opts.envFile)
	flags := cmd.Flags()
	if flags.Changed("driver") {
		cfg.Storage.Driver = opts.driver
	}
	if flags.Changed("file") {
		cfg.Storage.FilePath = opts.filePath
	}
	if flags.Changed("namespace") {
		cfg.Storage.Namespace = opts.namespace
	}

	log, err := logger.NewCLI(cfg.Server.Env, opts.verbose)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	loc, err := view.LoadLocation(cfg.Display.TimeZone)
	if err != nil {
		return nil, fmt.Errorf("invalid display time zone %q: %w", cfg.Display.TimeZone, err)
	}
	view.SetLocation(loc)

	store, err := repository.OpenStore(cmd.Context(), cfg, log)
	if err != nil {
		return nil, err
	}

	repo := repository.NewCollectionRepository(store, cfg.Storage.Namespace, log)
	inventory, err := service.NewInventoryService(cmd.Context(), repo, log)
	if err != nil {
		store.Close()
		return nil, err
	}

	return &app{
		cfg:       cfg,
		logger:    log,
		store:     store,
		inventory: inventory,
		printer:   p,
	}, nil
}

// needsStore is false for cobra's built-in commands and anything annotated
// with skipStoreAnnotation
func needsStore(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		switch c.Name() {
		case "help", "completion", cobra.ShellCompRequestCmd, cobra.ShellCompNoDescRequestCmd:
			return false
		}
		if _, ok := c.Annotations[skipStoreAnnotation]; ok {
			return false
		}
	}
	return true
}

func holderFrom(ctx context.Context) *appHolder {
	if ctx == nil {
		return nil
	}
	h, _ := ctx.Value(appKey{}).(*appHolder)
	return h
}

func appFrom(cmd *cobra.Command) *app {
	if h := holderFrom(cmd.Context()); h != nil {
		return h.app
	}
	return nil
}

// rejected returns err unless it only reports a write-through failure, in
// which case the change was applied and its result should still be printed.
func rejected(err error) error {
	if errors.Is(err, service.ErrNotPersisted) {
		return nil
	}
	return err
}
