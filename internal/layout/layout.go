// Package layout renders documents and library breakdowns for the terminal.
package layout

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/Scarvy/readwise-reader-cli/internal/document"
	"github.com/Scarvy/readwise-reader-cli/internal/library"
)

var (
	// Adaptive colors for dark/light terminals
	colorPrimary = lipgloss.AdaptiveColor{Light: "#5A56E0", Dark: "#7571F9"}
	colorDim     = lipgloss.AdaptiveColor{Light: "#9B9B9B", Dark: "#626262"}
	colorAccent  = lipgloss.AdaptiveColor{Light: "#F25D94", Dark: "#F25D94"}
	colorBorder  = lipgloss.AdaptiveColor{Light: "#DBDBDB", Dark: "#383838"}
	colorGreen   = lipgloss.AdaptiveColor{Light: "#04B575", Dark: "#25D366"}

	titleStyle = lipgloss.NewStyle().
			Foreground(colorPrimary).
			Bold(true)

	dimStyle = lipgloss.NewStyle().
			Foreground(colorDim)

	dimItalicStyle = lipgloss.NewStyle().
			Foreground(colorDim).
			Italic(true)

	tagStyle = lipgloss.NewStyle().
			Foreground(colorAccent)

	progressStyle = lipgloss.NewStyle().
			Foreground(colorGreen)

	headerStyle = lipgloss.NewStyle().
			Foreground(colorPrimary).
			Bold(true).
			Padding(0, 1)

	cellStyle = lipgloss.NewStyle().
			Padding(0, 1)

	barStyle = lipgloss.NewStyle().
			Foreground(colorPrimary)
)

// Table renders documents as a bordered table. Highlights and notes are
// skipped; they have no title or location and only add noise to the view.
func Table(docs []document.Document) string {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorBorder)).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		Headers("TITLE", "AUTHOR", "CATEGORY", "SUMMARY", "TAGS", "LOCATION", "PROGRESS", "UPDATED")

	for _, d := range docs {
		if d.Category == document.CategoryHighlight || d.Category == document.CategoryNote {
			continue
		}
		t.Row(
			truncateStr(orElse(d.Title, "no title"), 40),
			orElse(d.Author, "no author"),
			orElse(string(d.Category), "-"),
			truncateStr(orElse(d.Summary, "no summary"), 50),
			truncateStr(strings.Join(d.Tags.Names(), ", "), 24),
			string(d.Location),
			formatProgress(d.ReadingProgress),
			formatDay(d.UpdatedAt),
		)
	}
	return t.Render()
}

// List renders documents as a vertical list, one block per document.
func List(docs []document.Document) string {
	var b strings.Builder
	rule := dimStyle.Render(strings.Repeat("─", 72))

	for i, d := range docs {
		if i > 0 {
			b.WriteString(rule + "\n")
		}
		b.WriteString(titleStyle.Render(orElse(d.Title, "no title")) + "\n")
		b.WriteString(dimStyle.Render(d.URL) + "\n")

		meta := []string{
			orElse(string(d.Category), "no category"),
			orElse(string(d.Location), "no location"),
			progressStyle.Render(formatProgress(d.ReadingProgress)),
			formatDay(d.UpdatedAt),
		}
		b.WriteString(strings.Join(meta, dimStyle.Render(" · ")) + "\n")

		if names := d.Tags.Names(); len(names) > 0 {
			b.WriteString(tagStyle.Render(strings.Join(names, ", ")) + "\n")
		}
		if d.Summary != "" {
			b.WriteString(truncateStr(d.Summary, 200) + "\n")
		}
	}
	return b.String()
}

// Breakdown renders an aggregate view as labeled bars.
func Breakdown(rows []library.Breakdown, view string) string {
	max := 0
	labelWidth := 0
	for _, r := range rows {
		if r.Count > max {
			max = r.Count
		}
		if len(r.Label) > labelWidth {
			labelWidth = len(r.Label)
		}
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("Library by "+view) + "\n")
	for _, r := range rows {
		bar := ""
		if max > 0 && r.Count > 0 {
			width := r.Count * 40 / max
			if width < 1 {
				width = 1
			}
			bar = barStyle.Render(strings.Repeat("█", width))
		}
		b.WriteString(fmt.Sprintf("%-*s %5d %s\n", labelWidth, r.Label, r.Count, bar))
	}
	return b.String()
}

func formatProgress(p float64) string {
	return fmt.Sprintf("%.1f%%", p*100)
}

func formatDay(t document.Timestamp) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("2006-01-02")
}

func orElse(s, fallback string) string {
	if s == "" {
		return dimItalicStyle.Render(fallback)
	}
	return s
}

func truncateStr(s string, n int) string {
	if n <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	if n <= 3 {
		return string(runes[:n])
	}
	return string(runes[:n-3]) + "..."
}
