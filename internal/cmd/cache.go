package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sportslens/sportslens/internal/config"
	"github.com/sportslens/sportslens/internal/core/cache"
	"github.com/sportslens/sportslens/internal/output"
)

var cacheStatsOutput string

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect and manage the response cache",
}

var cacheStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show cache hit/miss counters",
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := output.ParseFormat(cacheStatsOutput)
		if err != nil {
			return err
		}

		store, err := openCache()
		if err != nil {
			return err
		}

		var rendered string
		switch format {
		case output.FormatJSON:
			rendered, err = (&output.JSONFormatter{}).FormatStats(store.Stats())
		default:
			rendered, err = (&output.TableFormatter{}).FormatStats(store.Stats())
		}
		if err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), rendered)
		fmt.Fprintf(cmd.OutOrStdout(), "%d entries on disk\n", store.Len())
		return nil
	},
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Drop every cached entry",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openCache()
		if err != nil {
			return err
		}

		entries := store.Len()
		store.Clear()
		fmt.Fprintf(cmd.OutOrStdout(), "cleared %d entries\n", entries)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(cacheCmd)
	cacheCmd.AddCommand(cacheStatsCmd)
	cacheCmd.AddCommand(cacheClearCmd)

	cacheStatsCmd.Flags().StringVar(&cacheStatsOutput, "output", "table", "output format: table, json")
}

// openCache loads the cache without requiring an API key: the cache
// commands never reach the network.
func openCache() (*cache.Cache, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}
	if cfg.Cache.TTL <= 0 {
		return nil, fmt.Errorf("cache.ttl must be positive")
	}

	logger, err := newLogger()
	if err != nil {
		return nil, err
	}

	if _, err := os.Stat(cfg.Cache.File); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("cache file: %w", err)
	}

	return cache.New(cfg.Cache.File, cfg.Cache.TTL, cache.WithLogger(logger)), nil
}
