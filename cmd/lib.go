package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Scarvy/readwise-reader-cli/internal/layout"
	"github.com/Scarvy/readwise-reader-cli/internal/library"
)

var flagView string

var libCmd = &cobra.Command{
	Use:   "lib",
	Short: "Library breakdown",
	Long:  "Show an aggregate view of the full library, including highlights and notes.\nThe full fetch is cached for a day.",
	RunE:  runLib,
}

func init() {
	libCmd.Flags().StringVarP(&flagView, "view", "V", "category", "group by: category, location, tags")
}

func runLib(cmd *cobra.Command, args []string) error {
	cfg, svc, err := newService()
	if err != nil {
		return err
	}

	docs, err := svc.FullLibrary(context.Background(), cfg.LibraryTTL())
	if err != nil {
		return fmt.Errorf("fetching library: %w", err)
	}
	if len(docs) == 0 {
		fmt.Println("Library is empty.")
		return nil
	}

	var rows []library.Breakdown
	switch flagView {
	case "category":
		rows = library.CountByCategory(docs)
	case "location":
		rows = library.CountByLocation(docs)
	case "tags":
		rows = library.CountByTag(docs)
	default:
		return fmt.Errorf("unknown view %q (valid: category, location, tags)", flagView)
	}

	fmt.Println(layout.Breakdown(rows, flagView))
	return nil
}
