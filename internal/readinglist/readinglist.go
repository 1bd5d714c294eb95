// Package readinglist extracts bookmarks from browser reading-list exports
// so they can be bulk-added to a Reader library.
package readinglist

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/net/html"
)

// Bookmark is one entry extracted from a reading-list file.
type Bookmark struct {
	Title string
	URL   string
	// Added is when the browser recorded the bookmark; zero when the file
	// format doesn't carry it.
	Added time.Time
}

// Extractor pulls bookmarks out of one reading-list file format.
type Extractor interface {
	Extract(r io.Reader) ([]Bookmark, error)
}

// HTMLExtractor reads browser bookmark exports:
//
//	<DL><p>
//	    <DT><A HREF="https://example.com" ADD_DATE="1679670930960538">Example</A>
//	</DL><p>
type HTMLExtractor struct{}

func (HTMLExtractor) Extract(r io.Reader) ([]Bookmark, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parsing html: %w", err)
	}

	var bookmarks []Bookmark
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "a" {
			b := Bookmark{Title: nodeText(n)}
			for _, attr := range n.Attr {
				switch strings.ToLower(attr.Key) {
				case "href":
					b.URL = attr.Val
				case "add_date":
					b.Added = parseAddDate(attr.Val)
				}
			}
			if b.URL != "" {
				bookmarks = append(bookmarks, b)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	return bookmarks, nil
}

func nodeText(n *html.Node) string {
	var b strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.TrimSpace(b.String())
}

// parseAddDate converts the ADD_DATE attribute, a microsecond epoch
// timestamp in reading-list exports, to UTC. Malformed values yield the
// zero time rather than failing the whole file.
func parseAddDate(s string) time.Time {
	micros, err := strconv.ParseFloat(s, 64)
	if err != nil || micros <= 0 {
		return time.Time{}
	}
	return time.UnixMicro(int64(micros)).UTC()
}

// CSVExtractor reads two-column exports with a header row:
//
//	URL,Title
//	https://example.com,Example Domain
type CSVExtractor struct{}

func (CSVExtractor) Extract(r io.Reader) ([]Bookmark, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parsing csv: %w", err)
	}

	var bookmarks []Bookmark
	for i, row := range rows {
		if i == 0 { // header
			continue
		}
		if len(row) == 0 || strings.TrimSpace(row[0]) == "" {
			continue
		}
		b := Bookmark{URL: strings.TrimSpace(row[0])}
		if len(row) >= 2 {
			b.Title = strings.TrimSpace(row[1])
		}
		bookmarks = append(bookmarks, b)
	}
	return bookmarks, nil
}

// Build reads the reading list at path with the extractor for fileType
// ("html" or "csv").
func Build(path, fileType string) ([]Bookmark, error) {
	var extractor Extractor
	switch fileType {
	case "html":
		extractor = HTMLExtractor{}
	case "csv":
		extractor = CSVExtractor{}
	default:
		return nil, fmt.Errorf("unsupported file type %q (valid: html, csv)", fileType)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening reading list: %w", err)
	}
	defer f.Close()

	return extractor.Extract(f)
}
