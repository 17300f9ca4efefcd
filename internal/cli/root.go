// Package cli implements the trailmap command-line interface.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mesh-intelligence/trailmap/internal/catalog"
	"github.com/mesh-intelligence/trailmap/internal/favorites"
	"github.com/mesh-intelligence/trailmap/internal/kv"
	"github.com/mesh-intelligence/trailmap/internal/logging"
	"github.com/mesh-intelligence/trailmap/internal/paths"
	"github.com/mesh-intelligence/trailmap/pkg/trailmap"
	"github.com/mesh-intelligence/trailmap/pkg/types"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// exitError carries the exit code for an error returned by a command.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

func userError(err error) error { return &exitError{code: exitUserError, err: err} }
func sysError(err error) error  { return &exitError{code: exitSysError, err: err} }

// ExitCode maps an error returned by the root command to a process exit
// code. Errors not marked otherwise are user errors.
func ExitCode(err error) int {
	if err == nil {
		return exitSuccess
	}
	var e *exitError
	if errors.As(err, &e) {
		return e.code
	}
	return exitUserError
}

// rootFlags holds global flag values accessible to all subcommands.
type rootFlags struct {
	configDir string
	dataDir   string
	jsonMode  bool
	logLevel  string
}

// app is the state of one CLI invocation.
type app struct {
	flags     rootFlags
	cfg       settings
	configDir string
	dataDir   string
	logger    *zap.Logger
}

// NewRootCmd creates the top-level "trailmap" command with global flags
// and all subcommands registered.
func NewRootCmd() *cobra.Command {
	a := &app{logger: zap.NewNop()}

	root := &cobra.Command{
		Use:     "trailmap",
		Short:   "Browse, filter and bookmark hiking trails",
		Long:    "trailmap lists hiking trails with faceted filters, search, sorting and\npagination, keeps a persistent set of favorites, and serves the same\nbrowsing session over HTTP.",
		Version: trailmap.Version,
		// Do not print usage on errors returned by subcommands.
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			a.logger.Sync()
		},
	}

	root.PersistentFlags().StringVar(&a.flags.configDir, "config-dir", "", "configuration directory (default: platform config dir)")
	root.PersistentFlags().StringVar(&a.flags.dataDir, "data-dir", "", "data directory (default: platform data dir)")
	root.PersistentFlags().BoolVar(&a.flags.jsonMode, "json", false, "output in JSON format")
	root.PersistentFlags().StringVar(&a.flags.logLevel, "log-level", "", "log level: debug, info, warn, error (overrides config)")

	root.AddCommand(newVersionCmd())
	root.AddCommand(a.newInitCmd())
	root.AddCommand(a.newListCmd())
	root.AddCommand(a.newShowCmd())
	root.AddCommand(a.newReviewsCmd())
	root.AddCommand(a.newFacetsCmd())
	root.AddCommand(a.newFeaturedCmd())
	root.AddCommand(a.newStatsCmd())
	root.AddCommand(a.newNearbyCmd())
	root.AddCommand(a.newFavoriteCmd())
	root.AddCommand(a.newServeCmd())

	return root
}

// Execute runs the root command and exits with the appropriate code.
func Execute() {
	root := NewRootCmd()
	if err := root.Execute(); err != nil {
		os.Exit(ExitCode(err))
	}
}

// setup resolves directories, loads configuration and builds the logger.
func (a *app) setup(cmd *cobra.Command, args []string) error {
	if err := loadDotEnv(); err != nil {
		return sysError(err)
	}

	configDir, err := paths.ResolveConfigDir(a.flags.configDir)
	if err != nil {
		return sysError(fmt.Errorf("resolve config dir: %w", err))
	}
	cfg, err := loadConfig(configDir)
	if err != nil {
		return sysError(err)
	}
	dataDir, err := paths.ResolveDataDir(a.flags.dataDir, cfg.DataDir)
	if err != nil {
		return sysError(fmt.Errorf("resolve data dir: %w", err))
	}

	if a.flags.logLevel != "" {
		cfg.Log.Level = a.flags.logLevel
	}
	logger, err := logging.New(cfg.Log)
	if err != nil {
		return userError(err)
	}

	a.cfg = cfg
	a.configDir = configDir
	a.dataDir = dataDir
	a.logger = logger
	a.logger.Debug("configuration loaded",
		zap.String("config_dir", configDir),
		zap.String("data_dir", dataDir),
		zap.String("backend", cfg.Backend))
	return nil
}

func (a *app) source() catalog.Source {
	return catalog.Source{TrailsPath: a.cfg.TrailsFile, ReviewsPath: a.cfg.ReviewsFile}
}

// loadCatalog reads the configured trail data.
func (a *app) loadCatalog() (*catalog.Catalog, error) {
	c, err := catalog.Load(a.source())
	if err != nil {
		return nil, userError(fmt.Errorf("load trails: %w", err))
	}
	return c, nil
}

func (a *app) storeConfig() types.Config {
	return types.Config{Backend: a.cfg.Backend, DataDir: a.dataDir, DSN: a.cfg.DSN}
}

// openFavorites opens the configured backend and the favorites set on it.
// Close the returned KVStore when done.
func (a *app) openFavorites(ctx context.Context, opts ...favorites.Option) (*favorites.Store, types.KVStore, error) {
	store, err := kv.Open(ctx, a.storeConfig())
	if err != nil {
		if errors.Is(err, types.ErrBackendEmpty) || errors.Is(err, types.ErrBackendUnknown) || errors.Is(err, types.ErrDSNEmpty) {
			return nil, nil, userError(err)
		}
		return nil, nil, sysError(fmt.Errorf("open %s store: %w", a.cfg.Backend, err))
	}
	opts = append([]favorites.Option{favorites.WithLogger(a.logger)}, opts...)
	favs, err := favorites.Open(ctx, store, opts...)
	if err != nil {
		store.Close()
		return nil, nil, sysError(fmt.Errorf("open favorites: %w", err))
	}
	return favs, store, nil
}
