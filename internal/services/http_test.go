package services_test

import (
	"net/http"
	"strings"
	"testing"
	"time"

	"lingocast/internal/services"
)

func TestHTTPStatusErrorRetryable(t *testing.T) {
	tests := []struct {
		status int
		want   bool
	}{
		{http.StatusTooManyRequests, true},
		{http.StatusRequestTimeout, true},
		{http.StatusBadGateway, true},
		{http.StatusNotFound, false},
		{http.StatusUnauthorized, false},
	}
	for _, tt := range tests {
		err := &services.HTTPStatusError{StatusCode: tt.status}
		if got := err.Retryable(); got != tt.want {
			t.Fatalf("Retryable(%d) = %v, want %v", tt.status, got, tt.want)
		}
	}
}

func TestNewHTTPStatusErrorCapturesRetryAfter(t *testing.T) {
	resp := &http.Response{StatusCode: http.StatusTooManyRequests, Header: http.Header{}}
	resp.Header.Set("Retry-After", "3")
	err := services.NewHTTPStatusError("generation", resp, []byte("  slow\n down "))
	if err.RetryAfter != 3*time.Second {
		t.Fatalf("unexpected retry after: %s", err.RetryAfter)
	}
	if !strings.Contains(err.Error(), "generation: http 429: slow down") {
		t.Fatalf("unexpected error string: %q", err.Error())
	}
}

func TestSnippetTruncates(t *testing.T) {
	long := strings.Repeat("a", 400)
	got := services.Snippet(long)
	if !strings.HasSuffix(got, "...") || len([]rune(got)) != 163 {
		t.Fatalf("unexpected snippet length %d", len([]rune(got)))
	}
	if services.Snippet("   ") != "<empty>" {
		t.Fatalf("expected placeholder for blank content")
	}
}
