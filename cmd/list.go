package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/araddon/dateparse"
	"github.com/spf13/cobra"

	"github.com/Scarvy/readwise-reader-cli/internal/api"
	"github.com/Scarvy/readwise-reader-cli/internal/document"
	"github.com/Scarvy/readwise-reader-cli/internal/layout"
)

var (
	flagLocation     string
	flagCategory     string
	flagUpdatedAfter string
	flagDateRange    string
	flagLayout       string
	flagNumResults   int
	flagNoCache      bool
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List documents",
	Long: `List documents in your Reader library.

Results are cached locally for a short window, so repeating a query does not
hit the API again. By default only documents updated in the last 24 hours are
shown; widen the window with --updated-after or --date-range.`,
	RunE: runList,
}

func init() {
	listCmd.Flags().StringVarP(&flagLocation, "location", "l", "", "filter by location (new, later, archive, feed, shortlist)")
	listCmd.Flags().StringVarP(&flagCategory, "category", "c", "", "filter by category (article, email, rss, ...)")
	listCmd.Flags().StringVarP(&flagUpdatedAfter, "updated-after", "a", "", "only documents updated after this date (most formats accepted)")
	listCmd.Flags().StringVarP(&flagDateRange, "date-range", "d", "", "only documents updated within: day, week, month")
	listCmd.Flags().StringVarP(&flagLayout, "layout", "L", "table", "display as table or list")
	listCmd.Flags().IntVarP(&flagNumResults, "num-results", "n", 0, "number of documents to show")
	listCmd.Flags().BoolVar(&flagNoCache, "no-cache", false, "bypass the local result cache")
}

func runList(cmd *cobra.Command, args []string) error {
	cfg, svc, err := newService()
	if err != nil {
		return err
	}

	var f api.Filter
	if flagLocation != "" {
		loc, err := document.ParseLocation(flagLocation)
		if err != nil {
			return err
		}
		f.Location = loc
	}
	if flagCategory != "" {
		cat, err := document.ParseCategory(flagCategory)
		if err != nil {
			return err
		}
		f.Category = cat
	}

	updatedAfter := time.Now().Add(-24 * time.Hour)
	if flagUpdatedAfter != "" {
		t, err := dateparse.ParseAny(flagUpdatedAfter)
		if err != nil {
			return fmt.Errorf("invalid --updated-after value %q: %w", flagUpdatedAfter, err)
		}
		updatedAfter = t
	}
	if flagDateRange != "" {
		d, err := dateRangeDuration(flagDateRange)
		if err != nil {
			return err
		}
		updatedAfter = time.Now().Add(-d)
	}
	f.UpdatedAfter = updatedAfter

	maxAge := cfg.ListTTL()
	if flagNoCache {
		maxAge = 0
	}

	docs, err := svc.Documents(context.Background(), f, maxAge)
	if err != nil {
		return fmt.Errorf("listing documents: %w", err)
	}
	if len(docs) == 0 {
		fmt.Println("No documents found.")
		return nil
	}

	if flagNumResults > 0 && len(docs) > flagNumResults {
		docs = docs[:flagNumResults]
	}

	switch flagLayout {
	case "list":
		fmt.Println(layout.List(docs))
	case "table":
		fmt.Println(layout.Table(docs))
	default:
		return fmt.Errorf("unknown layout %q (valid: table, list)", flagLayout)
	}
	return nil
}

func dateRangeDuration(s string) (time.Duration, error) {
	switch s {
	case "day":
		return 24 * time.Hour, nil
	case "week":
		return 7 * 24 * time.Hour, nil
	case "month":
		return 30 * 24 * time.Hour, nil
	default:
		return 0, fmt.Errorf("unknown date range %q (valid: day, week, month)", s)
	}
}
