package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/cenkalti/backoff/v4"
)

type listResponse struct {
	Results        []json.RawMessage `json:"results"`
	NextPageCursor string            `json:"nextPageCursor"`
}

// PageIter walks a cursor-paginated document listing one page at a time, in
// the order the server returns them. It is finite and not restartable; a
// caller may stop early by simply not calling Next again. Each request is
// stateless past the cursor, so there is nothing to clean up.
//
//	it := client.Documents(ctx, filter)
//	for it.Next() {
//	    use(it.Page())
//	}
//	if err := it.Err(); err != nil { ... }
type PageIter struct {
	ctx      context.Context
	client   *Client
	filter   Filter
	cursor   string
	schedule *backoff.ExponentialBackOff
	attempts int
	page     []json.RawMessage
	err      error
	done     bool
}

// Documents starts a paginated listing of documents matching f.
func (c *Client) Documents(ctx context.Context, f Filter) *PageIter {
	return &PageIter{
		ctx:      ctx,
		client:   c,
		filter:   f,
		schedule: newRetrySchedule(),
	}
}

// Next fetches the next page, retrying through rate limits. It returns false
// when the cursor is exhausted or on the first non-retriable failure; check
// Err to tell the two apart.
func (it *PageIter) Next() bool {
	if it.err != nil || it.done {
		it.page = nil
		return false
	}

	for {
		resp, err := it.client.get(it.ctx, listEndpoint, it.filter.query(it.cursor))
		if err != nil {
			return it.fail(err)
		}

		cls, delay := Classify(resp.StatusCode, resp.Header)
		switch cls {
		case Valid:
			var lr listResponse
			err := json.NewDecoder(resp.Body).Decode(&lr)
			resp.Body.Close()
			if err != nil {
				return it.fail(fmt.Errorf("decoding page: %w", err))
			}
			it.page = lr.Results
			it.attempts = 0
			it.schedule.Reset()
			// The cursor is server-issued and passed through verbatim;
			// absence means this was the last page.
			if lr.NextPageCursor == "" {
				it.done = true
			} else {
				it.cursor = lr.NextPageCursor
			}
			return true

		case Retry:
			hinted := resp.Header.Get(retryAfterHeader) != ""
			drain(resp)
			it.attempts++
			if it.client.maxAttempts > 0 && it.attempts >= it.client.maxAttempts {
				return it.fail(fmt.Errorf("%w after %d attempts", ErrRetryExhausted, it.attempts))
			}
			if !hinted {
				delay = it.schedule.NextBackOff()
			}
			it.client.log.Warn("rate limited, retrying", "delay", delay)
			if err := sleep(it.ctx, delay); err != nil {
				return it.fail(err)
			}
			// Retry with the cursor unchanged.

		default:
			status := resp.StatusCode
			drain(resp)
			return it.fail(fmt.Errorf("%w: %d", statusErr(status), status))
		}
	}
}

// Page returns the records of the page fetched by the last successful Next.
func (it *PageIter) Page() []json.RawMessage { return it.page }

// Err returns the failure that stopped iteration, or nil after a normal end.
func (it *PageIter) Err() error { return it.err }

func (it *PageIter) fail(err error) bool {
	it.err = err
	it.done = true
	it.page = nil
	return false
}

func drain(resp *http.Response) {
	io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
	resp.Body.Close()
}
