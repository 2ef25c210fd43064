package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/crewdash/crewdash/internal/cache"
	"github.com/crewdash/crewdash/internal/config"
	"github.com/crewdash/crewdash/internal/fetch"
	"github.com/crewdash/crewdash/internal/logging"
)

// buildRuntime resolves the effective configuration and constructs the
// fetch orchestrator plus a logger-carrying context, shared by every
// command that touches the roster.
func buildRuntime(cmd *cobra.Command) (context.Context, *config.Config, *fetch.Orchestrator, error) {
	cfg, err := loadEffectiveConfig(cmd)
	if err != nil {
		return nil, nil, nil, err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = logging.WithContext(ctx, config.GetLogger())

	store, err := cache.NewStore(cfg.Cache.Dir, cfg.Cache.Enabled, ttlOf(cfg))
	if err != nil {
		return nil, nil, nil, fmt.Errorf("initializing cache: %w", err)
	}

	client := fetch.NewClient(cfg.Endpoint)
	return ctx, cfg, fetch.NewOrchestrator(client, store), nil
}

// buildStore constructs just the cache store, for maintenance commands.
func buildStore(cmd *cobra.Command) (*cache.Store, error) {
	cfg, err := loadEffectiveConfig(cmd)
	if err != nil {
		return nil, err
	}
	return cache.NewStore(cfg.Cache.Dir, cfg.Cache.Enabled, ttlOf(cfg))
}
