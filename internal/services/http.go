package services

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// HTTPStatusError reports a non-2xx response from an upstream service.
type HTTPStatusError struct {
	Service    string
	StatusCode int
	Body       string
	RetryAfter time.Duration
}

func (e *HTTPStatusError) Error() string {
	service := e.Service
	if service == "" {
		service = "http"
	}
	return fmt.Sprintf("%s: http %d: %s", service, e.StatusCode, Snippet(e.Body))
}

// Retryable reports whether the status is worth retrying (408, 429, 5xx).
func (e *HTTPStatusError) Retryable() bool {
	return e.StatusCode == http.StatusRequestTimeout ||
		e.StatusCode == http.StatusTooManyRequests ||
		e.StatusCode >= http.StatusInternalServerError
}

// NewHTTPStatusError captures the response status, body and Retry-After hint.
func NewHTTPStatusError(service string, resp *http.Response, body []byte) *HTTPStatusError {
	err := &HTTPStatusError{Service: service, Body: strings.TrimSpace(string(body))}
	if resp != nil {
		err.StatusCode = resp.StatusCode
		err.RetryAfter, _ = ParseRetryAfter(resp.Header.Get("Retry-After"))
	}
	return err
}

// ParseRetryAfter decodes either delta-seconds or an HTTP date.
func ParseRetryAfter(value string) (time.Duration, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, false
	}
	if seconds, err := strconv.Atoi(value); err == nil {
		if seconds < 0 {
			return 0, false
		}
		return time.Duration(seconds) * time.Second, true
	}
	if when, err := http.ParseTime(value); err == nil {
		if delay := time.Until(when); delay >= 0 {
			return delay, true
		}
	}
	return 0, false
}

// Snippet collapses whitespace and truncates content for error messages.
func Snippet(content string) string {
	clean := strings.Join(strings.Fields(content), " ")
	if clean == "" {
		return "<empty>"
	}
	const limit = 160
	if runes := []rune(clean); len(runes) > limit {
		clean = string(runes[:limit]) + "..."
	}
	return clean
}
