package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Scarvy/readwise-reader-cli/internal/api"
	"github.com/Scarvy/readwise-reader-cli/internal/document"
	"github.com/Scarvy/readwise-reader-cli/internal/readinglist"
)

var flagFileType string

var uploadCmd = &cobra.Command{
	Use:   "upload <file>",
	Short: "Upload a reading list file",
	Long:  "Bulk-add documents from a browser reading-list export (HTML bookmarks or CSV).",
	Args:  cobra.ExactArgs(1),
	RunE:  runUpload,
}

func init() {
	uploadCmd.Flags().StringVar(&flagFileType, "file-type", "html", "reading list format: html or csv")
}

func runUpload(cmd *cobra.Command, args []string) error {
	_, client, log, err := newClient()
	if err != nil {
		return err
	}

	bookmarks, err := readinglist.Build(args[0], flagFileType)
	if err != nil {
		return err
	}
	if len(bookmarks) == 0 {
		fmt.Println("No bookmarks found in file.")
		return nil
	}
	fmt.Printf("Adding %d document(s) from %s\n", len(bookmarks), args[0])

	var added, existing, failed int
	ctx := context.Background()
	for _, b := range bookmarks {
		log.Debug("uploading bookmark", "url", b.URL, "added", b.Added)
		status, err := client.SaveDocument(ctx, document.Document{URL: b.URL, Title: b.Title})
		if err != nil {
			failed++
			log.Warn("adding bookmark failed", "url", b.URL, "error", err)
			continue
		}
		if status == api.AlreadyExists {
			existing++
		} else {
			added++
		}
	}

	fmt.Printf("Added %d, already existed %d, failed %d.\n", added, existing, failed)
	if failed > 0 && added == 0 && existing == 0 {
		return fmt.Errorf("no documents could be added")
	}
	return nil
}
