package document

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Location is where a document lives in the Reader library.
//
// The remote API may introduce new locations before this client is updated;
// values decoded from API responses are carried through as-is, only CLI input
// is checked against the known set.
type Location string

const (
	LocationNew       Location = "new"
	LocationLater     Location = "later"
	LocationArchive   Location = "archive"
	LocationFeed      Location = "feed"
	LocationShortlist Location = "shortlist"
)

// Locations returns all known locations in canonical order.
func Locations() []Location {
	return []Location{LocationNew, LocationLater, LocationArchive, LocationFeed, LocationShortlist}
}

// ParseLocation resolves CLI input to a known Location.
func ParseLocation(s string) (Location, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, l := range Locations() {
		if string(l) == s {
			return l, nil
		}
	}
	return "", fmt.Errorf("unknown location %q (valid: %s)", s, joinLocations())
}

func joinLocations() string {
	var names []string
	for _, l := range Locations() {
		names = append(names, string(l))
	}
	return strings.Join(names, ", ")
}

// Category is the kind of a Reader document.
type Category string

const (
	CategoryArticle   Category = "article"
	CategoryEmail     Category = "email"
	CategoryRSS       Category = "rss"
	CategoryHighlight Category = "highlight"
	CategoryNote      Category = "note"
	CategoryPDF       Category = "pdf"
	CategoryEPUB      Category = "epub"
	CategoryTweet     Category = "tweet"
	CategoryVideo     Category = "video"
)

// Categories returns all known categories in canonical order.
func Categories() []Category {
	return []Category{
		CategoryArticle, CategoryEmail, CategoryRSS, CategoryHighlight,
		CategoryNote, CategoryPDF, CategoryEPUB, CategoryTweet, CategoryVideo,
	}
}

// ParseCategory resolves CLI input to a known Category.
func ParseCategory(s string) (Category, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, c := range Categories() {
		if string(c) == s {
			return c, nil
		}
	}
	var names []string
	for _, c := range Categories() {
		names = append(names, string(c))
	}
	return "", fmt.Errorf("unknown category %q (valid: %s)", s, strings.Join(names, ", "))
}

// Timestamp decodes the mixed time representations the API ships: RFC 3339
// strings, bare dates, and epoch milliseconds.
type Timestamp struct {
	time.Time
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.Format(time.RFC3339Nano))
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" || s == `""` {
		t.Time = time.Time{}
		return nil
	}
	if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
		t.Time = time.UnixMilli(ms).UTC()
		return nil
	}
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return fmt.Errorf("parsing timestamp %s: %w", s, err)
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02"} {
		if parsed, err := time.Parse(layout, str); err == nil {
			t.Time = parsed
			return nil
		}
	}
	return fmt.Errorf("unrecognized timestamp %q", str)
}

// Tag is the canonical tag representation.
type Tag struct {
	Name    string    `json:"name"`
	Type    string    `json:"type,omitempty"`
	Created Timestamp `json:"created,omitzero"`
}

// TagSet normalizes the two wire forms the API uses for tags, a plain list
// of names or a map of name to tag object, into a single sorted slice.
// It always serializes back out as the map form.
type TagSet []Tag

// Names returns the tag names in order.
func (ts TagSet) Names() []string {
	names := make([]string, 0, len(ts))
	for _, t := range ts {
		names = append(names, t.Name)
	}
	return names
}

func (ts TagSet) MarshalJSON() ([]byte, error) {
	m := make(map[string]Tag, len(ts))
	for _, t := range ts {
		m[t.Name] = t
	}
	return json.Marshal(m)
}

func (ts *TagSet) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "null" {
		*ts = nil
		return nil
	}

	var names []string
	if err := json.Unmarshal(data, &names); err == nil {
		tags := make(TagSet, 0, len(names))
		for _, n := range names {
			tags = append(tags, Tag{Name: n})
		}
		sort.Slice(tags, func(i, j int) bool { return tags[i].Name < tags[j].Name })
		*ts = tags
		return nil
	}

	var m map[string]Tag
	if err := json.Unmarshal(data, &m); err != nil {
		return fmt.Errorf("parsing tags: %w", err)
	}
	tags := make(TagSet, 0, len(m))
	for name, t := range m {
		if t.Name == "" {
			t.Name = name
		}
		tags = append(tags, t)
	}
	sort.Slice(tags, func(i, j int) bool { return tags[i].Name < tags[j].Name })
	*ts = tags
	return nil
}

// Document is one entry in a Reader library. The remote service owns the
// authoritative state; this client only reads documents or requests creation.
// Timestamps are server-set and immutable after creation.
type Document struct {
	ID              string    `json:"id,omitempty"`
	URL             string    `json:"url"`
	Title           string    `json:"title,omitempty"`
	Author          string    `json:"author,omitempty"`
	Source          string    `json:"source,omitempty"`
	Category        Category  `json:"category,omitempty"`
	Location        Location  `json:"location,omitempty"`
	Tags            TagSet    `json:"tags,omitempty"`
	SiteName        string    `json:"site_name,omitempty"`
	WordCount       int       `json:"word_count,omitempty"`
	CreatedAt       Timestamp `json:"created_at,omitzero"`
	UpdatedAt       Timestamp `json:"updated_at,omitzero"`
	PublishedDate   Timestamp `json:"published_date,omitzero"`
	Summary         string    `json:"summary,omitempty"`
	ImageURL        string    `json:"image_url,omitempty"`
	Content         string    `json:"content,omitempty"`
	SourceURL       string    `json:"source_url,omitempty"`
	Notes           string    `json:"notes,omitempty"`
	ParentID        string    `json:"parent_id,omitempty"`
	ReadingProgress float64   `json:"reading_progress"`
}
