package library

import (
	"sort"

	"github.com/Scarvy/readwise-reader-cli/internal/document"
)

// Breakdown is one row of a library aggregate view.
type Breakdown struct {
	Label string
	Count int
}

// CountByCategory tallies documents per category. Known categories appear in
// canonical order even when empty; unknown categories from the API are
// appended after them.
func CountByCategory(docs []document.Document) []Breakdown {
	counts := map[string]int{}
	for _, c := range document.Categories() {
		counts[string(c)] = 0
	}
	var extra []string
	for _, d := range docs {
		label := string(d.Category)
		if label == "" {
			continue
		}
		if _, known := counts[label]; !known {
			extra = append(extra, label)
			counts[label] = 0
		}
		counts[label]++
	}

	var out []Breakdown
	for _, c := range document.Categories() {
		out = append(out, Breakdown{Label: string(c), Count: counts[string(c)]})
	}
	sort.Strings(extra)
	for _, label := range extra {
		out = append(out, Breakdown{Label: label, Count: counts[label]})
	}
	return out
}

// CountByLocation tallies documents per location, known locations first.
func CountByLocation(docs []document.Document) []Breakdown {
	counts := map[string]int{}
	for _, l := range document.Locations() {
		counts[string(l)] = 0
	}
	var extra []string
	for _, d := range docs {
		label := string(d.Location)
		if label == "" {
			continue
		}
		if _, known := counts[label]; !known {
			extra = append(extra, label)
			counts[label] = 0
		}
		counts[label]++
	}

	var out []Breakdown
	for _, l := range document.Locations() {
		out = append(out, Breakdown{Label: string(l), Count: counts[string(l)]})
	}
	sort.Strings(extra)
	for _, label := range extra {
		out = append(out, Breakdown{Label: label, Count: counts[label]})
	}
	return out
}

// CountByTag tallies documents per tag name, most used first.
func CountByTag(docs []document.Document) []Breakdown {
	counts := map[string]int{}
	for _, d := range docs {
		for _, t := range d.Tags {
			counts[t.Name]++
		}
	}
	out := make([]Breakdown, 0, len(counts))
	for label, n := range counts {
		out = append(out, Breakdown{Label: label, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Label < out[j].Label
	})
	return out
}
