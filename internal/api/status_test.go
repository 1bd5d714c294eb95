package api

import (
	"net/http"
	"testing"
	"time"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name   string
		status int
		header http.Header
		want   Classification
		delay  time.Duration
	}{
		{"ok", 200, nil, Valid, DefaultRetryAfter},
		{"created", 201, nil, Valid, DefaultRetryAfter},
		{"no content", 204, nil, Valid, DefaultRetryAfter},
		{"unauthorized", 401, nil, Invalid, DefaultRetryAfter},
		{"server error", 500, nil, Invalid, DefaultRetryAfter},
		{"rate limited with hint", 429, http.Header{"Retry-After": []string{"12"}}, Retry, 12 * time.Second},
		{"rate limited no hint", 429, nil, Retry, 5 * time.Second},
		{"teapot", 418, nil, Unknown, DefaultRetryAfter},
		{"not found", 404, nil, Unknown, DefaultRetryAfter},
	}

	for _, tt := range tests {
		header := tt.header
		if header == nil {
			header = http.Header{}
		}
		got, delay := Classify(tt.status, header)
		if got != tt.want {
			t.Errorf("%s: Classify(%d) = %v, want %v", tt.name, tt.status, got, tt.want)
		}
		if delay != tt.delay {
			t.Errorf("%s: Classify(%d) delay = %v, want %v", tt.name, tt.status, delay, tt.delay)
		}
	}
}

func TestClassifyIgnoresMalformedRetryAfter(t *testing.T) {
	header := http.Header{"Retry-After": []string{"soon"}}
	cls, delay := Classify(429, header)
	if cls != Retry {
		t.Fatalf("expected Retry, got %v", cls)
	}
	if delay != DefaultRetryAfter {
		t.Errorf("expected default delay %v, got %v", DefaultRetryAfter, delay)
	}
}

func TestClassificationString(t *testing.T) {
	if Valid.String() != "valid" || Retry.String() != "retry" {
		t.Errorf("unexpected string forms: %s, %s", Valid, Retry)
	}
}
