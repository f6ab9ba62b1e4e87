// Package cmd wires the sportslens command tree.
package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/sportslens/sportslens/internal/config"
	"github.com/sportslens/sportslens/internal/core/cache"
	"github.com/sportslens/sportslens/internal/core/client"
	"github.com/sportslens/sportslens/internal/core/engine"
	"github.com/sportslens/sportslens/internal/observability"
)

var (
	cfgFile string
	verbose bool

	// Version info set by the main package.
	versionInfo struct {
		Version   string
		Commit    string
		BuildDate string
	}
)

// SetVersionInfo is called by the main package to record build metadata.
func SetVersionInfo(version, commit, buildDate string) {
	versionInfo.Version = version
	versionInfo.Commit = commit
	versionInfo.BuildDate = buildDate
}

var rootCmd = &cobra.Command{
	Use:   "sportslens",
	Short: "Cached, rate-limited client for the API-Sports NFL service",
	Long: `sportslens is a client-side access layer for the API-Sports American
Football API. It authenticates requests, throttles outbound call rate,
caches responses on disk with expiration, and reports every outcome as
a uniform envelope.

Use the subcommands to perform specific operations.`,
	SilenceUsage: true,
}

// Execute runs the root command. Called once from main.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (optional; defaults to environment and built-in defaults)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output (sets log level to debug)")

	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
}

// loadConfig loads and validates configuration for commands that need
// the pipeline.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// buildClient constructs the full pipeline from configuration.
func buildClient(cfg *config.Config, logger *zap.Logger) *client.Client {
	store := cache.New(cfg.Cache.File, cfg.Cache.TTL, cache.WithLogger(logger))
	limiter := engine.NewIntervalLimiter(cfg.MinRequestInterval)

	apiClient := client.New(cfg.APIKey, store, limiter, logger)
	if cfg.BaseURL != "" {
		apiClient.BaseURL = cfg.BaseURL
	}
	return apiClient
}

func newLogger() (*zap.Logger, error) {
	return observability.NewCLILogger(verbose)
}
