package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"booktrack/internal/api"
	"booktrack/internal/metadata/lookupcache"
)

const lookupCacheDisabledNotice = "Lookup cache is disabled (set lookup_cache.enabled = true in booktrack.toml)"

func newCacheCommand(ctx *commandContext) *cobra.Command {
	cacheCmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect and manage the metadata lookup cache",
	}

	cacheCmd.AddCommand(newCacheStatsCommand(ctx))
	cacheCmd.AddCommand(newCachePruneCommand(ctx))

	return cacheCmd
}

func newCacheStatsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show lookup cache usage",
		RunE: func(cmd *cobra.Command, args []string) error {
			cache, err := openLookupCache(cmd, ctx)
			if err != nil || cache == nil {
				return err
			}
			defer func() { _ = cache.Close() }()

			count, err := cache.Count(cmd.Context())
			if err != nil {
				return err
			}
			cfg, _ := ctx.ensureConfig()
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Path:    %s\n", cfg.LookupCache.Path)
			fmt.Fprintf(out, "Entries: %d\n", count)
			fmt.Fprintf(out, "TTL:     %dh\n", cfg.LookupCache.TTLHours)
			return nil
		},
	}
}

func newCachePruneCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "prune",
		Short: "Delete lookups older than the configured TTL",
		RunE: func(cmd *cobra.Command, args []string) error {
			cache, err := openLookupCache(cmd, ctx)
			if err != nil || cache == nil {
				return err
			}
			defer func() { _ = cache.Close() }()

			removed, err := cache.Prune(cmd.Context())
			if err != nil {
				return err
			}
			if removed == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No cache entries pruned")
				return nil
			}
			remaining, err := cache.Count(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Pruned %d entries (%d remaining)\n", removed, remaining)
			return nil
		},
	}
}

// openLookupCache returns nil without an error when the cache is disabled,
// after printing a notice.
func openLookupCache(cmd *cobra.Command, ctx *commandContext) (*lookupcache.Cache, error) {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return nil, err
	}
	logger, err := ctx.ensureLogger()
	if err != nil {
		return nil, err
	}
	cache, err := api.OpenLookupCache(cmd.Context(), cfg, logger)
	if errors.Is(err, api.ErrLookupCacheDisabled) {
		fmt.Fprintln(cmd.OutOrStdout(), lookupCacheDisabledNotice)
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open lookup cache: %w", err)
	}
	return cache, nil
}
