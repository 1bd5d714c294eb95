package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/hashicorp/go-hclog"

	"github.com/Scarvy/readwise-reader-cli/internal/document"
)

const (
	// DefaultBaseURL is the Reader v3 API root.
	DefaultBaseURL = "https://readwise.io/api/v3"
	// DefaultAuthURL is the v2 endpoint used for token checks.
	DefaultAuthURL = "https://readwise.io/api/v2/auth"
	// TokenURL is where users manage their access token; shown in error
	// messages when a token is rejected.
	TokenURL = "https://readwise.io/access_token"

	listEndpoint = "/list/"
	saveEndpoint = "/save/"

	defaultTimeout = 30 * time.Second
)

// Filter narrows a document listing. The zero value fetches the full
// library, including highlights and notes.
type Filter struct {
	ID           string
	Category     document.Category
	Location     document.Location
	UpdatedAfter time.Time
}

func (f Filter) query(cursor string) url.Values {
	q := url.Values{}
	if f.ID != "" {
		q.Set("id", f.ID)
	}
	if f.Category != "" {
		q.Set("category", string(f.Category))
	}
	if f.Location != "" {
		q.Set("location", string(f.Location))
	}
	if !f.UpdatedAfter.IsZero() {
		q.Set("updatedAfter", f.UpdatedAfter.Format(time.RFC3339))
	}
	if cursor != "" {
		q.Set("pageCursor", cursor)
	}
	return q
}

// Config holds the knobs for a Client.
type Config struct {
	// BaseURL is the v3 API root. Default: DefaultBaseURL.
	BaseURL string

	// AuthURL is the token-check endpoint. Default: DefaultAuthURL.
	AuthURL string

	// Token is the API bearer token.
	Token string

	// Timeout applies to every request. Default: 30 seconds.
	Timeout time.Duration

	// MaxAttempts caps how many times a rate-limited request is retried
	// before giving up with ErrRetryExhausted. 0 retries forever.
	MaxAttempts int

	// Logger defaults to hclog.Default().
	Logger hclog.Logger
}

// Client talks to the Reader API. All requests are synchronous and
// sequential; the only blocking suspension is the sleep between rate-limit
// retries.
type Client struct {
	baseURL     string
	authURL     string
	token       string
	maxAttempts int
	http        *http.Client
	log         hclog.Logger
}

// New creates a Client, applying defaults for anything unset.
func New(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.AuthURL == "" {
		cfg.AuthURL = DefaultAuthURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.Logger == nil {
		cfg.Logger = hclog.Default()
	}
	return &Client{
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		authURL:     strings.TrimRight(cfg.AuthURL, "/") + "/",
		token:       cfg.Token,
		maxAttempts: cfg.MaxAttempts,
		http:        &http.Client{Timeout: cfg.Timeout},
		log:         cfg.Logger,
	}
}

func (c *Client) get(ctx context.Context, endpoint string, q url.Values) (*http.Response, error) {
	u := c.baseURL + endpoint
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Authorization", "Token "+c.token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	return resp, nil
}

func (c *Client) post(ctx context.Context, endpoint string, body any) (*http.Response, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encoding request body: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Authorization", "Token "+c.token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	return resp, nil
}

// sleep blocks for d or until ctx is cancelled.
func sleep(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}

// newRetrySchedule returns the delay schedule used when a rate-limited
// response carries no Retry-After hint.
func newRetrySchedule() *backoff.ExponentialBackOff {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = time.Second
	bo.MaxInterval = time.Minute
	bo.MaxElapsedTime = 0
	return bo
}

// SaveStatus reports the outcome of a save request.
type SaveStatus int

const (
	// Saved means the document was created.
	Saved SaveStatus = iota
	// AlreadyExists means the URL was already in the library.
	AlreadyExists
)

// SaveDocument asks the API to add a document to the library. Rate-limited
// responses are retried with the same budget as document listing; any other
// failure is returned immediately.
func (c *Client) SaveDocument(ctx context.Context, doc document.Document) (SaveStatus, error) {
	schedule := newRetrySchedule()
	attempts := 0
	for {
		resp, err := c.post(ctx, saveEndpoint, doc)
		if err != nil {
			return 0, err
		}
		status := resp.StatusCode
		cls, delay := Classify(status, resp.Header)
		hinted := resp.Header.Get(retryAfterHeader) != ""
		drain(resp)

		switch cls {
		case Valid:
			if status == http.StatusOK {
				return AlreadyExists, nil
			}
			return Saved, nil
		case Retry:
			attempts++
			if c.maxAttempts > 0 && attempts >= c.maxAttempts {
				return 0, fmt.Errorf("%w after %d attempts", ErrRetryExhausted, attempts)
			}
			if !hinted {
				delay = schedule.NextBackOff()
			}
			c.log.Warn("rate limited, retrying", "delay", delay)
			if err := sleep(ctx, delay); err != nil {
				return 0, err
			}
		default:
			return 0, fmt.Errorf("%w: %d", statusErr(status), status)
		}
	}
}

// ValidateToken checks a token against the auth endpoint with a single
// request. Unlike document fetches there is no retry loop here: this is a
// one-shot precondition check, so any non-valid classification, including
// rate limiting, reports the token as unusable.
func (c *Client) ValidateToken(ctx context.Context, token string) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.authURL, nil)
	if err != nil {
		return false, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Authorization", "Token "+token)

	resp, err := c.http.Do(req)
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	defer drain(resp)

	cls, _ := Classify(resp.StatusCode, resp.Header)
	return cls == Valid, nil
}
