package document

import (
	"encoding/json"
	"testing"
	"time"
)

func TestTagSetFromList(t *testing.T) {
	var ts TagSet
	if err := json.Unmarshal([]byte(`["zebra","alpha"]`), &ts); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(ts) != 2 {
		t.Fatalf("expected 2 tags, got %d", len(ts))
	}
	if ts[0].Name != "alpha" || ts[1].Name != "zebra" {
		t.Errorf("tags not sorted: %v", ts.Names())
	}
}

func TestTagSetFromMap(t *testing.T) {
	raw := `{
		"shortlist": {"name": "shortlist", "type": "manual", "created": 1692640034398},
		"golang": {"type": "manual"}
	}`
	var ts TagSet
	if err := json.Unmarshal([]byte(raw), &ts); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(ts) != 2 {
		t.Fatalf("expected 2 tags, got %d", len(ts))
	}
	if ts[0].Name != "golang" {
		t.Errorf("expected map key to fill missing name, got %q", ts[0].Name)
	}
	if ts[1].Name != "shortlist" || ts[1].Type != "manual" {
		t.Errorf("unexpected tag: %+v", ts[1])
	}
	want := time.UnixMilli(1692640034398).UTC()
	if !ts[1].Created.Time.Equal(want) {
		t.Errorf("created = %v, want %v", ts[1].Created.Time, want)
	}
}

func TestTagSetNull(t *testing.T) {
	var ts TagSet
	if err := json.Unmarshal([]byte(`null`), &ts); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if ts != nil {
		t.Errorf("expected nil tag set, got %v", ts)
	}
}

func TestTagSetMarshalsAsMap(t *testing.T) {
	ts := TagSet{{Name: "go"}, {Name: "http"}}
	data, err := json.Marshal(ts)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var m map[string]Tag
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatalf("round trip: %v", err)
	}
	if len(m) != 2 || m["go"].Name != "go" {
		t.Errorf("unexpected map form: %s", data)
	}
}

func TestTimestampForms(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want time.Time
	}{
		{"rfc3339 with offset", `"2023-08-19T13:37:24.567027+00:00"`, time.Date(2023, 8, 19, 13, 37, 24, 567027000, time.UTC)},
		{"epoch millis", `1690416000000`, time.UnixMilli(1690416000000).UTC()},
		{"bare date", `"2023-08-19"`, time.Date(2023, 8, 19, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ts Timestamp
			if err := json.Unmarshal([]byte(tt.raw), &ts); err != nil {
				t.Fatalf("unmarshal %s: %v", tt.raw, err)
			}
			if !ts.Time.Equal(tt.want) {
				t.Errorf("got %v, want %v", ts.Time, tt.want)
			}
		})
	}
}

func TestTimestampNull(t *testing.T) {
	var ts Timestamp
	if err := json.Unmarshal([]byte(`null`), &ts); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !ts.IsZero() {
		t.Errorf("expected zero time, got %v", ts.Time)
	}
}

func TestTimestampRejectsGarbage(t *testing.T) {
	var ts Timestamp
	if err := json.Unmarshal([]byte(`"soonish"`), &ts); err == nil {
		t.Fatal("expected error for unrecognized timestamp")
	}
}

func TestDocumentRoundTrip(t *testing.T) {
	doc := Document{
		ID:              "01h8707jqgjsfzznh281xxashb",
		URL:             "https://example.com/post",
		Title:           "A Post",
		Category:        CategoryArticle,
		Location:        LocationLater,
		Tags:            TagSet{{Name: "go", Type: "manual"}},
		ReadingProgress: 0.25,
	}

	data, err := json.Marshal(doc)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var got Document
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if got.URL != doc.URL {
		t.Errorf("url = %q, want %q", got.URL, doc.URL)
	}
	if got.Category != doc.Category {
		t.Errorf("category = %q, want %q", got.Category, doc.Category)
	}
	if got.Location != doc.Location {
		t.Errorf("location = %q, want %q", got.Location, doc.Location)
	}
	if got.ReadingProgress != doc.ReadingProgress {
		t.Errorf("reading progress = %v, want %v", got.ReadingProgress, doc.ReadingProgress)
	}
	if len(got.Tags) != 1 || got.Tags[0].Name != "go" || got.Tags[0].Type != "manual" {
		t.Errorf("tags = %+v, want %+v", got.Tags, doc.Tags)
	}
}

func TestParseLocation(t *testing.T) {
	loc, err := ParseLocation(" Later ")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if loc != LocationLater {
		t.Errorf("got %q", loc)
	}
	if _, err := ParseLocation("attic"); err == nil {
		t.Error("expected error for unknown location")
	}
}

func TestParseCategory(t *testing.T) {
	cat, err := ParseCategory("PDF")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cat != CategoryPDF {
		t.Errorf("got %q", cat)
	}
	if _, err := ParseCategory("scroll"); err == nil {
		t.Error("expected error for unknown category")
	}
}

func TestUnknownEnumValuesPassThrough(t *testing.T) {
	// The API may ship categories this client doesn't know yet; decoding
	// must not reject them.
	raw := `{"url": "https://example.com", "category": "hologram", "location": "vault"}`
	var d Document
	if err := json.Unmarshal([]byte(raw), &d); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if d.Category != "hologram" || d.Location != "vault" {
		t.Errorf("unknown values mangled: %q, %q", d.Category, d.Location)
	}
}
