package transcriptcache

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"lingocast/internal/episode"
	"lingocast/internal/services"
	"lingocast/internal/transcript"
)

// maxTranscriptBytes bounds how much of a response body is read.
const maxTranscriptBytes = 16 << 20

// RemoteStore fetches pre-built transcripts from a content-addressed CDN at
// {base}/transcripts/{key}.json.
type RemoteStore struct {
	baseURL    string
	httpClient *http.Client
}

// NewRemoteStore constructs a RemoteStore. A nil client gets a default one
// with the supplied timeout.
func NewRemoteStore(baseURL string, timeout time.Duration, client *http.Client) *RemoteStore {
	if client == nil {
		client = &http.Client{Timeout: timeout}
	}
	return &RemoteStore{baseURL: strings.TrimRight(baseURL, "/"), httpClient: client}
}

// Fetch returns the transcript stored for key. Every failure, including a
// non-2xx status or an undecodable body, is wrapped with services.ErrCacheMiss.
func (r *RemoteStore) Fetch(ctx context.Context, key episode.Key) (*transcript.Transcript, error) {
	endpoint, err := url.JoinPath(r.baseURL, "transcripts", key.String()+".json")
	if err != nil {
		return nil, services.Wrap(services.ErrCacheMiss, "remote", "build url", "", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, services.Wrap(services.ErrCacheMiss, "remote", "new request", "", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, services.Wrap(services.ErrCacheMiss, "remote", "fetch", "network failure", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxTranscriptBytes))
	if err != nil {
		return nil, services.Wrap(services.ErrCacheMiss, "remote", "read body", "", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, services.Wrap(services.ErrCacheMiss, "remote", "fetch",
			fmt.Sprintf("status %d", resp.StatusCode), services.NewHTTPStatusError("remote", resp, body))
	}
	tr, err := transcript.Decode(body)
	if err != nil {
		return nil, services.Wrap(services.ErrCacheMiss, "remote", "decode", "", err)
	}
	if err := tr.Validate(); err != nil {
		return nil, services.Wrap(services.ErrCacheMiss, "remote", "validate", "", err)
	}
	return tr, nil
}
