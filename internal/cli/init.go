package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/trailmap/internal/paths"
)

// configFile holds the structure init writes to config.yaml.
type configFile struct {
	Backend     string `yaml:"backend"`
	DataDir     string `yaml:"data_dir,omitempty"`
	DSN         string `yaml:"dsn,omitempty"`
	TrailsFile  string `yaml:"trails_file,omitempty"`
	ReviewsFile string `yaml:"reviews_file,omitempty"`
}

func (a *app) newInitCmd() *cobra.Command {
	var (
		backend string
		force   bool
	)
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize trailmap storage",
		Long: `Write config.yaml and create the favorites store in the data directory.

An existing config.yaml is kept unless --force is given.

Example:
  trailmap init
  trailmap init --backend sqlite
  trailmap init --backend sqlite --force`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if backend != "" {
				a.cfg.Backend = backend
			}
			path := filepath.Join(a.configDir, paths.ConfigFileName)
			if err := writeConfig(path, configFile{
				Backend:     a.cfg.Backend,
				DataDir:     a.flags.dataDir,
				DSN:         a.cfg.DSN,
				TrailsFile:  a.cfg.TrailsFile,
				ReviewsFile: a.cfg.ReviewsFile,
			}, force || backend != ""); err != nil {
				return sysError(fmt.Errorf("write config: %w", err))
			}

			if err := os.MkdirAll(a.dataDir, 0o755); err != nil {
				return sysError(fmt.Errorf("create data directory: %w", err))
			}
			_, store, err := a.openFavorites(cmd.Context())
			if err != nil {
				return err
			}
			if err := store.Close(); err != nil {
				return sysError(fmt.Errorf("finalize storage: %w", err))
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Config: %s\n", path)
			fmt.Fprintf(out, "Data:   %s (%s backend)\n", a.dataDir, a.cfg.Backend)
			fmt.Fprintln(out, "trailmap initialized successfully")
			return nil
		},
	}
	cmd.Flags().StringVar(&backend, "backend", "", "favorites backend to record in config.yaml (file, sqlite, postgres, memory)")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing config.yaml")
	return cmd
}

// writeConfig marshals cfg to path. Unless overwrite is set, a config.yaml
// that differs from the first-run default is left alone.
func writeConfig(path string, cfg configFile, overwrite bool) error {
	if !overwrite {
		existing, err := os.ReadFile(path)
		if err == nil && string(existing) != defaultConfigYAML {
			return nil
		}
	}

	data, err := yaml.Marshal(&cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}
