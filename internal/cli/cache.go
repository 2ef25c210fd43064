package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/crewdash/crewdash/internal/cache"
)

// newCacheCmd creates the "cache" command group.
func newCacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the local roster cache",
	}
	cmd.AddCommand(newCacheClearCmd())
	return cmd
}

// newCacheClearCmd creates "cache clear", dropping the cached roster so the
// next run performs a fresh fetch.
func newCacheClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove the cached roster",
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := buildStore(cmd)
			if err != nil {
				return err
			}
			if err := store.Clear(); err != nil {
				if errors.Is(err, cache.ErrCacheDisabled) {
					cmd.Println("Cache is disabled; nothing to clear.")
					return nil
				}
				return err
			}
			cmd.Println("Cache cleared.")
			return nil
		},
	}
}
