package api

import (
	"net/http"
	"strconv"
	"time"
)

// Classification buckets an HTTP status code by how the client should react.
type Classification int

const (
	// Valid means the request succeeded.
	Valid Classification = iota
	// Invalid means the request failed and must not be retried.
	Invalid
	// Retry means the request was rate-limited and should be retried after
	// the returned delay.
	Retry
	// Unknown means the status code is outside the documented set.
	Unknown
)

func (c Classification) String() string {
	switch c {
	case Valid:
		return "valid"
	case Invalid:
		return "invalid"
	case Retry:
		return "retry"
	default:
		return "unknown"
	}
}

// DefaultRetryAfter is the retry delay used when a rate-limited response
// carries no Retry-After header.
const DefaultRetryAfter = 5 * time.Second

const retryAfterHeader = "Retry-After"

// Classify maps a response status code to a Classification and extracts the
// server's retry-delay hint. 200/201/204 are Valid, 401/500 Invalid, 429
// Retry; everything else is Unknown. The delay comes from the Retry-After
// header when present, else DefaultRetryAfter.
func Classify(status int, header http.Header) (Classification, time.Duration) {
	var c Classification
	switch status {
	case http.StatusOK, http.StatusCreated, http.StatusNoContent:
		c = Valid
	case http.StatusUnauthorized, http.StatusInternalServerError:
		c = Invalid
	case http.StatusTooManyRequests:
		c = Retry
	default:
		c = Unknown
	}

	delay := DefaultRetryAfter
	if v := header.Get(retryAfterHeader); v != "" {
		if secs, err := strconv.Atoi(v); err == nil && secs >= 0 {
			delay = time.Duration(secs) * time.Second
		}
	}
	return c, delay
}

// statusErr maps a non-retriable status code to its error kind.
func statusErr(status int) error {
	switch {
	case status == http.StatusUnauthorized:
		return ErrAuthInvalid
	case status >= 500:
		return ErrServerError
	default:
		return ErrUnexpectedStatus
	}
}
