package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Scarvy/readwise-reader-cli/internal/api"
	"github.com/Scarvy/readwise-reader-cli/internal/config"
)

var validateCmd = &cobra.Command{
	Use:   "validate <token>",
	Short: "Validate an API token",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(flagConfig)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		client := api.New(api.Config{
			BaseURL: cfg.BaseURL,
			AuthURL: cfg.AuthURL,
			Timeout: cfg.TimeoutDuration(),
			Logger:  newLogger(),
		})

		ok, err := client.ValidateToken(context.Background(), args[0])
		if err != nil {
			return fmt.Errorf("checking token: %w", err)
		}
		if !ok {
			return fmt.Errorf("invalid token - check your token at %s", api.TokenURL)
		}
		fmt.Println("Token is valid.")
		return nil
	},
}
