package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"github.com/Scarvy/readwise-reader-cli/internal/api"
	"github.com/Scarvy/readwise-reader-cli/internal/cache"
	"github.com/Scarvy/readwise-reader-cli/internal/config"
	"github.com/Scarvy/readwise-reader-cli/internal/library"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	flagConfig string
	flagDebug  bool
)

var rootCmd = &cobra.Command{
	Use:          "reader",
	Short:        "Command-line client for the Readwise Reader API",
	Long:         "reader lists, adds, and bulk-uploads documents in a Readwise Reader library,\nwith a local result cache to avoid redundant API calls.",
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "path to config file")
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "enable debug logging")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(uploadCmd)
	rootCmd.AddCommand(libCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(cacheCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("reader %s (commit: %s, built: %s)\n", version, commit, date)
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func SetVersionInfo(v, c, d string) {
	version = v
	commit = c
	date = d
}

func newLogger() hclog.Logger {
	level := hclog.Warn
	if flagDebug {
		level = hclog.Debug
	}
	return hclog.New(&hclog.LoggerOptions{
		Name:  "reader",
		Level: level,
	})
}

// newClient loads config and the env token and builds an API client.
func newClient() (*config.Config, *api.Client, hclog.Logger, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("loading config: %w", err)
	}
	token, err := config.Token()
	if err != nil {
		return nil, nil, nil, err
	}
	log := newLogger()
	client := api.New(api.Config{
		BaseURL:     cfg.BaseURL,
		AuthURL:     cfg.AuthURL,
		Token:       token,
		Timeout:     cfg.TimeoutDuration(),
		MaxAttempts: cfg.Retry.MaxAttempts,
		Logger:      log,
	})
	return cfg, client, log, nil
}

func newService() (*config.Config, *library.Service, error) {
	cfg, client, log, err := newClient()
	if err != nil {
		return nil, nil, err
	}
	store := cache.NewStore(config.CachePath())
	svc := library.NewService(client, store, library.Options{
		Strict: cfg.Strict,
		Logger: log,
	})
	return cfg, svc, nil
}

// parseSince parses durations like "24h" or "30m", plus "Nd" day syntax.
func parseSince(s string) (time.Duration, error) {
	if len(s) > 1 && s[len(s)-1] == 'd' {
		var days int
		if _, err := fmt.Sscanf(s, "%dd", &days); err == nil {
			return time.Duration(days) * 24 * time.Hour, nil
		}
	}
	return time.ParseDuration(s)
}
