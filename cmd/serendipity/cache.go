package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newCacheCommand() *cobra.Command {
	cacheCommand := &cobra.Command{
		Use:   "cache",
		Short: "Inspect and manage the content cache",
	}

	cacheCommand.AddCommand(&cobra.Command{
		Use:   "stats",
		Short: "Show cache entry and hit/miss counters",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			store, err := newCacheStore(cmd.Context(), cfg.Cache)
			if err != nil {
				return err
			}
			defer func() {
				_ = store.Close()
			}()

			stats, err := store.Stats(cmd.Context())
			if err != nil {
				return err
			}

			fmt.Printf("Backend: %s\n", cfg.Cache.Backend)
			fmt.Printf("Entries: %d\n", stats.Entries)
			fmt.Printf("Hits:    %d\n", stats.Hits)
			fmt.Printf("Misses:  %d\n", stats.Misses)
			return nil
		},
	})

	var expiredOnly bool
	clearCommand := &cobra.Command{
		Use:   "clear",
		Short: "Remove cached content",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			store, err := newCacheStore(cmd.Context(), cfg.Cache)
			if err != nil {
				return err
			}
			defer func() {
				_ = store.Close()
			}()

			if err := store.Clear(cmd.Context(), expiredOnly); err != nil {
				return err
			}
			fmt.Println("Cache cleared.")
			return nil
		},
	}
	clearCommand.Flags().BoolVar(&expiredOnly, "expired-only", false, "only remove expired entries")
	cacheCommand.AddCommand(clearCommand)

	return cacheCommand
}
