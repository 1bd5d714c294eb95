// Package library ties the API client, the document assembler, and the disk
// cache together: callers ask for documents matching a filter and the
// service decides whether the cache is fresh enough or a paginated fetch is
// needed.
package library

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/Scarvy/readwise-reader-cli/internal/api"
	"github.com/Scarvy/readwise-reader-cli/internal/cache"
	"github.com/Scarvy/readwise-reader-cli/internal/document"
)

const (
	// DefaultListTTL is the freshness window for filtered list queries.
	DefaultListTTL = time.Minute
	// DefaultLibraryTTL is the freshness window for full-library fetches.
	DefaultLibraryTTL = 24 * time.Hour
)

const dayLayout = "2006-01-02"

// CacheKey derives the cache key for a filter: location, category, and the
// updated-after date at day granularity, joined with underscores. Unset
// fields normalize to "all" so that structurally identical queries share an
// entry.
func CacheKey(f api.Filter) string {
	loc := "all"
	if f.Location != "" {
		loc = string(f.Location)
	}
	cat := "all"
	if f.Category != "" {
		cat = string(f.Category)
	}
	day := "all"
	if !f.UpdatedAfter.IsZero() {
		day = f.UpdatedAfter.Format(dayLayout)
	}
	return loc + "_" + cat + "_" + day
}

// Options tune a Service.
type Options struct {
	// Strict makes fetch failures surface as errors instead of degrading
	// to whatever pages were already fetched.
	Strict bool

	Logger hclog.Logger
}

// Service answers document queries, serving from the cache when an entry is
// still fresh and draining the pagination engine when it is not.
type Service struct {
	client *api.Client
	store  *cache.Store
	strict bool
	log    hclog.Logger
	now    func() time.Time
}

// NewService wires a Service from an API client and a cache store.
func NewService(client *api.Client, store *cache.Store, opts Options) *Service {
	log := opts.Logger
	if log == nil {
		log = hclog.Default()
	}
	return &Service{
		client: client,
		store:  store,
		strict: opts.Strict,
		log:    log,
		now:    time.Now,
	}
}

// Documents returns the documents matching f, from cache when the entry for
// this query is younger than maxAge, otherwise via a full paginated fetch.
func (s *Service) Documents(ctx context.Context, f api.Filter, maxAge time.Duration) ([]document.Document, error) {
	return s.getOrFetch(ctx, CacheKey(f), f, maxAge)
}

// FullLibrary returns every record in the library, including highlights and
// notes, cached per fetch day.
func (s *Service) FullLibrary(ctx context.Context, maxAge time.Duration) ([]document.Document, error) {
	return s.getOrFetch(ctx, s.now().Format(dayLayout), api.Filter{}, maxAge)
}

func (s *Service) getOrFetch(ctx context.Context, key string, f api.Filter, maxAge time.Duration) ([]document.Document, error) {
	if raw, ok := s.store.Get(key, maxAge); ok {
		docs, err := decodeDocuments(raw)
		if err == nil {
			s.log.Debug("serving from cache", "key", key, "documents", len(docs))
			return docs, nil
		}
		// Undecodable entry counts as a miss and gets rebuilt below.
		s.log.Warn("discarding unreadable cache entry", "key", key, "error", err)
	}

	docs, complete, err := s.fetch(ctx, f)
	if err != nil {
		return nil, err
	}

	// Only complete, non-empty result sets are cached: a partial fetch or a
	// transient empty response must not be served as definitive later.
	if complete && len(docs) > 0 {
		raws := make([]json.RawMessage, 0, len(docs))
		for _, d := range docs {
			b, err := json.Marshal(d)
			if err != nil {
				return nil, fmt.Errorf("encoding document %s: %w", d.ID, err)
			}
			raws = append(raws, b)
		}
		if err := s.store.Put(key, raws); err != nil {
			s.log.Warn("caching results failed", "key", key, "error", err)
		}
	}
	return docs, nil
}

// fetch drains the pagination engine, assembling each record. Records that
// fail validation are skipped with a warning rather than sinking the batch.
// complete reports whether the cursor was exhausted normally.
func (s *Service) fetch(ctx context.Context, f api.Filter) (docs []document.Document, complete bool, err error) {
	it := s.client.Documents(ctx, f)
	skipped := 0
	for it.Next() {
		for _, rec := range it.Page() {
			d, err := document.Assemble(rec)
			if err != nil {
				skipped++
				s.log.Warn("skipping record", "error", err)
				continue
			}
			docs = append(docs, d)
		}
	}
	if skipped > 0 {
		s.log.Warn("skipped records that failed validation", "count", skipped)
	}
	if err := it.Err(); err != nil {
		if s.strict {
			return nil, false, err
		}
		s.log.Warn("fetch stopped early, returning partial results", "error", err)
		return docs, false, nil
	}
	return docs, true, nil
}

func decodeDocuments(raw []json.RawMessage) ([]document.Document, error) {
	docs := make([]document.Document, 0, len(raw))
	for _, r := range raw {
		var d document.Document
		if err := json.Unmarshal(r, &d); err != nil {
			return nil, fmt.Errorf("decoding cached document: %w", err)
		}
		docs = append(docs, d)
	}
	return docs, nil
}
