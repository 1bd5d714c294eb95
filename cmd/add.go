package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Scarvy/readwise-reader-cli/internal/api"
	"github.com/Scarvy/readwise-reader-cli/internal/document"
)

var addCmd = &cobra.Command{
	Use:   "add <url>",
	Short: "Add a document",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, client, _, err := newClient()
		if err != nil {
			return err
		}

		doc := document.Document{URL: args[0]}
		if err := doc.Validate(); err != nil {
			return fmt.Errorf("invalid url %q: %w", args[0], err)
		}

		status, err := client.SaveDocument(context.Background(), doc)
		if err != nil {
			return fmt.Errorf("adding document: %w", err)
		}
		if status == api.AlreadyExists {
			fmt.Println("Already exists.")
		} else {
			fmt.Println("Added!")
		}
		return nil
	},
}
