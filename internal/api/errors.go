package api

import "errors"

var (
	// ErrTransport wraps network-level failures reaching the API.
	ErrTransport = errors.New("transport failure")

	// ErrAuthInvalid means the API rejected the bearer token.
	ErrAuthInvalid = errors.New("auth token rejected")

	// ErrServerError means the API returned a 5xx response.
	ErrServerError = errors.New("server error")

	// ErrRetryExhausted means the rate-limit retry budget ran out.
	ErrRetryExhausted = errors.New("rate-limit retries exhausted")

	// ErrUnexpectedStatus means the API returned a status code outside the
	// documented set.
	ErrUnexpectedStatus = errors.New("unexpected response status")
)
