// Package cli wires the crewdash commands: the interactive dashboard plus
// non-interactive export, stats, and cache maintenance.
package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/crewdash/crewdash/internal/config"
)

// isTerminal checks if the given file is a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// NewRootCmd creates the root Cobra command for the crewdash CLI.
// Running it with no subcommand opens the interactive dashboard.
func NewRootCmd(ver string) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "crewdash",
		Short:   "Terminal dashboard for a people roster",
		Long: `crewdash loads a roster of people from a remote directory service,
keeps a short-lived local cache to avoid redundant requests, and provides
incremental search, city/company filters, live aggregates, and CSV export.`,
		Version:       ver,
		SilenceUsage:  true,
		SilenceErrors: true,
		Example: `  # Open the interactive dashboard
  crewdash

  # Point at a different roster service
  crewdash --endpoint https://directory.example.com/api/users

  # Export the full roster as CSV without opening the dashboard
  crewdash export --out .

  # Export only people in New York at Acme
  crewdash export --city "New York" --company Acme

  # Print roster aggregates
  crewdash stats

  # Drop the local cache
  crewdash cache clear`,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			ttl, _ := cmd.Flags().GetInt("cache-ttl")
			if ttl < 0 {
				return fmt.Errorf("cache-ttl must be >= 0, got %d", ttl)
			}
			return setupLogging(cmd)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDashboard(cmd)
		},
	}

	cmd.PersistentFlags().String("config", "", "path to config file (default: ~/.crewdash.yaml)")
	cmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	cmd.PersistentFlags().String("endpoint", "", "roster service endpoint URL")
	cmd.PersistentFlags().Int("cache-ttl", 0, "cache TTL in seconds (0 = use config default)")
	cmd.PersistentFlags().String("cache-dir", "", "cache directory (default: user state dir)")
	cmd.PersistentFlags().Bool("no-cache", false, "disable the roster cache")

	cmd.AddCommand(newDashCmd(), newExportCmd(), newStatsCmd(), newCacheCmd())
	return cmd
}

// setupLogging initializes the global logger from the config file and the
// --debug flag.
func setupLogging(cmd *cobra.Command) error {
	cfgPath, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}

	level := cfg.Logging.Level
	if debug, _ := cmd.Flags().GetBool("debug"); debug {
		level = "debug"
	}
	return config.InitLogger(level, cfg.Logging.File)
}

// loadEffectiveConfig resolves the configuration with flag overrides
// applied on top of file and environment values.
func loadEffectiveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfgPath, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, err
	}

	if endpoint, _ := cmd.Flags().GetString("endpoint"); endpoint != "" {
		cfg.Endpoint = endpoint
	}
	if ttl, _ := cmd.Flags().GetInt("cache-ttl"); ttl > 0 {
		cfg.Cache.TTLSeconds = ttl
	}
	if dir, _ := cmd.Flags().GetString("cache-dir"); dir != "" {
		cfg.Cache.Dir = dir
	}
	if noCache, _ := cmd.Flags().GetBool("no-cache"); noCache {
		cfg.Cache.Enabled = false
	}
	return cfg, nil
}

// Execute runs the root command.
func Execute(ver string) {
	if err := NewRootCmd(ver).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// ttlOf is a small helper converting the config TTL for the cache store.
func ttlOf(cfg *config.Config) time.Duration {
	return cfg.Cache.TTL()
}
