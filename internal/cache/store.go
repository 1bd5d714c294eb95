package cache

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// TimeLayout is the format of the freshness marker trailing every cache
// entry: local clock, microsecond precision, no timezone. It matches what
// earlier versions of this tool wrote, so old cache files stay readable.
const TimeLayout = "2006-01-02 15:04:05.000000"

// Store persists query results in a single JSON document on disk. Each entry
// maps a query key to the fetched records plus a trailing timestamp marker:
//
//	{ "<key>": [ <record>, ..., {"time": "2023-08-21 14:03:07.123456"} ] }
//
// Entries are overwritten wholesale, never merged. Writes go through a temp
// file and rename, so a crashed writer can't leave a torn file behind;
// concurrent writers race and the last rename wins.
type Store struct {
	path string
	now  func() time.Time
}

type marker struct {
	Time string `json:"time"`
}

// NewStore returns a Store over the JSON file at path. The file and its
// directory are created lazily on the first Put.
func NewStore(path string) *Store {
	return &Store{path: path, now: time.Now}
}

// Path returns the location of the cache file.
func (s *Store) Path() string { return s.path }

// load reads the whole cache map. A missing, empty, or corrupt file is
// treated as an empty cache rather than an error; the next Put rebuilds it.
func (s *Store) load() map[string][]json.RawMessage {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return map[string][]json.RawMessage{}
	}
	var m map[string][]json.RawMessage
	if err := json.Unmarshal(data, &m); err != nil || m == nil {
		return map[string][]json.RawMessage{}
	}
	return m
}

// entryTime extracts the timestamp marker from an entry. The marker is
// always the trailing element; an entry without one is malformed and
// reported as unusable.
func entryTime(entry []json.RawMessage) (time.Time, bool) {
	if len(entry) == 0 {
		return time.Time{}, false
	}
	var m marker
	if err := json.Unmarshal(entry[len(entry)-1], &m); err != nil || m.Time == "" {
		return time.Time{}, false
	}
	t, err := time.ParseInLocation(TimeLayout, m.Time, time.Local)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// Get returns the records cached under key, with the timestamp marker
// stripped, when the entry exists and was fetched less than maxAge ago.
func (s *Store) Get(key string, maxAge time.Duration) ([]json.RawMessage, bool) {
	entry, ok := s.load()[key]
	if !ok {
		return nil, false
	}
	fetched, ok := entryTime(entry)
	if !ok || s.now().Sub(fetched) >= maxAge {
		return nil, false
	}
	return entry[:len(entry)-1], true
}

// Put overwrites the entry for key with records plus a fresh timestamp
// marker. Empty record sets are never cached: a transient empty response
// must not masquerade as a definitive one.
func (s *Store) Put(key string, records []json.RawMessage) error {
	if len(records) == 0 {
		return nil
	}
	m := s.load()

	stamp, err := json.Marshal(marker{Time: s.now().Format(TimeLayout)})
	if err != nil {
		return fmt.Errorf("encoding timestamp marker: %w", err)
	}
	entry := make([]json.RawMessage, 0, len(records)+1)
	entry = append(entry, records...)
	entry = append(entry, stamp)
	m[key] = entry

	return s.write(m)
}

// Prune drops every entry older than maxAge and reports how many were
// removed.
func (s *Store) Prune(maxAge time.Duration) (int, error) {
	m := s.load()
	removed := 0
	for key, entry := range m {
		fetched, ok := entryTime(entry)
		if !ok || s.now().Sub(fetched) >= maxAge {
			delete(m, key)
			removed++
		}
	}
	if removed == 0 {
		return 0, nil
	}
	return removed, s.write(m)
}

// Clear removes the cache file entirely.
func (s *Store) Clear() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("removing cache file: %w", err)
	}
	return nil
}

// Stats reports the number of cached entries and the file size in bytes.
func (s *Store) Stats() (entries int, size int64, err error) {
	entries = len(s.load())
	info, err := os.Stat(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return entries, 0, nil
	}
	if err != nil {
		return 0, 0, fmt.Errorf("reading cache stats: %w", err)
	}
	return entries, info.Size(), nil
}

// write replaces the cache file atomically: marshal the whole map, write a
// temp file alongside it, rename over the original.
func (s *Store) write(m map[string][]json.RawMessage) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("creating cache dir: %w", err)
	}
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding cache: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".tmp*")
	if err != nil {
		return fmt.Errorf("creating temp cache file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("writing cache: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("closing temp cache file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replacing cache file: %w", err)
	}
	return nil
}
