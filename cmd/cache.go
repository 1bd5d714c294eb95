package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Scarvy/readwise-reader-cli/internal/cache"
	"github.com/Scarvy/readwise-reader-cli/internal/config"
)

var flagPruneOlderThan string

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the local result cache",
}

var cacheStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show cache statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		store := cache.NewStore(config.CachePath())
		entries, size, err := store.Stats()
		if err != nil {
			return fmt.Errorf("reading stats: %w", err)
		}

		fmt.Printf("Cache: %s\n", store.Path())
		fmt.Printf("Entries: %d\n", entries)
		fmt.Printf("Size: %s\n", formatBytes(size))
		return nil
	},
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove the cache file",
	RunE: func(cmd *cobra.Command, args []string) error {
		store := cache.NewStore(config.CachePath())
		if err := store.Clear(); err != nil {
			return err
		}
		fmt.Println("Cache cleared.")
		return nil
	},
}

var cachePruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Remove stale entries from the cache",
	Long: `Delete cached query results older than the library freshness window.

Uses cache.library_ttl from config (default: 1d) unless overridden with --older-than.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(flagConfig)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		maxAge := cfg.LibraryTTL()
		if flagPruneOlderThan != "" {
			d, err := parseSince(flagPruneOlderThan)
			if err != nil {
				return fmt.Errorf("invalid --older-than value: %w", err)
			}
			maxAge = d
		}

		store := cache.NewStore(config.CachePath())
		removed, err := store.Prune(maxAge)
		if err != nil {
			return fmt.Errorf("pruning: %w", err)
		}

		if removed == 0 {
			fmt.Println("Nothing to prune.")
		} else {
			fmt.Printf("Pruned %d entr%s older than %s.\n", removed, plural(removed, "y", "ies"), formatDuration(maxAge))
		}
		return nil
	},
}

func init() {
	cachePruneCmd.Flags().StringVar(&flagPruneOlderThan, "older-than", "", "override freshness window (e.g., 30m, 2d)")

	cacheCmd.AddCommand(cacheStatsCmd)
	cacheCmd.AddCommand(cacheClearCmd)
	cacheCmd.AddCommand(cachePruneCmd)
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

func formatDuration(d time.Duration) string {
	days := int(d.Hours() / 24)
	if days > 0 {
		return fmt.Sprintf("%dd", days)
	}
	if d >= time.Hour {
		return fmt.Sprintf("%dh", int(d.Hours()))
	}
	return fmt.Sprintf("%dm", int(d.Minutes()))
}

func formatBytes(b int64) string {
	switch {
	case b >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(b)/(1<<20))
	case b >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(b)/(1<<10))
	default:
		return fmt.Sprintf("%d B", b)
	}
}
