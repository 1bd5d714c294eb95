package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/Scarvy/readwise-reader-cli/internal/document"
)

func TestSaveDocumentCreated(t *testing.T) {
	var got document.Document
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if auth := r.Header.Get("Authorization"); auth != "Token test-token" {
			t.Errorf("unexpected auth header %q", auth)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decoding body: %v", err)
		}
		w.WriteHeader(http.StatusCreated)
	})

	c := testClient(t, handler, 0)
	status, err := c.SaveDocument(context.Background(), document.Document{URL: "https://example.com"})
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if status != Saved {
		t.Errorf("expected Saved, got %v", status)
	}
	if got.URL != "https://example.com" {
		t.Errorf("server received url %q", got.URL)
	}
}

func TestSaveDocumentAlreadyExists(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	c := testClient(t, handler, 0)
	status, err := c.SaveDocument(context.Background(), document.Document{URL: "https://example.com"})
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if status != AlreadyExists {
		t.Errorf("expected AlreadyExists, got %v", status)
	}
}

func TestSaveDocumentRetriesRateLimit(t *testing.T) {
	calls := 0
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.Header().Set("Retry-After", "0")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.WriteHeader(http.StatusCreated)
	})

	c := testClient(t, handler, 0)
	status, err := c.SaveDocument(context.Background(), document.Document{URL: "https://example.com"})
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if status != Saved {
		t.Errorf("expected Saved, got %v", status)
	}
	if calls != 2 {
		t.Errorf("expected 2 requests, got %d", calls)
	}
}

func TestSaveDocumentServerError(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	c := testClient(t, handler, 0)
	_, err := c.SaveDocument(context.Background(), document.Document{URL: "https://example.com"})
	if !errors.Is(err, ErrServerError) {
		t.Fatalf("expected ErrServerError, got %v", err)
	}
}

func TestValidateToken(t *testing.T) {
	tests := []struct {
		name   string
		status int
		want   bool
	}{
		{"valid", http.StatusNoContent, true},
		{"rejected", http.StatusUnauthorized, false},
		// One-shot check: rate limiting counts as unusable, no retry loop.
		{"rate limited", http.StatusTooManyRequests, false},
		{"unknown", http.StatusTeapot, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				calls++
				if auth := r.Header.Get("Authorization"); auth != "Token probe" {
					t.Errorf("unexpected auth header %q", auth)
				}
				w.Header().Set("Retry-After", "0")
				w.WriteHeader(tt.status)
			})

			c := testClient(t, handler, 0)
			ok, err := c.ValidateToken(context.Background(), "probe")
			if err != nil {
				t.Fatalf("validate: %v", err)
			}
			if ok != tt.want {
				t.Errorf("ValidateToken = %v, want %v", ok, tt.want)
			}
			if calls != 1 {
				t.Errorf("expected exactly 1 request, got %d", calls)
			}
		})
	}
}

func TestValidateTokenTransportError(t *testing.T) {
	c := New(Config{
		BaseURL: "http://127.0.0.1:1",
		AuthURL: "http://127.0.0.1:1/auth",
		Timeout: time.Second,
		Logger:  hclog.NewNullLogger(),
	})
	_, err := c.ValidateToken(context.Background(), "probe")
	if !errors.Is(err, ErrTransport) {
		t.Fatalf("expected ErrTransport, got %v", err)
	}
}
