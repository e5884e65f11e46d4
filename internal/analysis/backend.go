package analysis

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"lingocast/internal/services"
)

const maxAnalysisBytes = 1 << 20

// Backend analyses lines through the API service.
type Backend struct {
	endpoint   string
	httpClient *http.Client
}

// NewBackend returns an analyzer for the API service at apiBase.
func NewBackend(apiBase string, client *http.Client) (*Backend, error) {
	endpoint, err := url.JoinPath(strings.TrimRight(apiBase, "/"), "ai", "analyze")
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "analysis", "build url", apiBase, err)
	}
	if client == nil {
		client = &http.Client{}
	}
	return &Backend{endpoint: endpoint, httpClient: client}, nil
}

type backendResponse struct {
	Success bool    `json:"success"`
	Message string  `json:"message"`
	Error   string  `json:"error"`
	Data    *Result `json:"data"`
}

// Analyze posts {"text": ...} and decodes {success, data}.
func (b *Backend) Analyze(ctx context.Context, req Request) (*Result, error) {
	encoded, err := json.Marshal(map[string]string{"text": req.Text})
	if err != nil {
		return nil, services.Wrap(services.ErrAnalysis, "analysis", "encode request", "", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, b.endpoint, bytes.NewReader(encoded))
	if err != nil {
		return nil, services.Wrap(services.ErrAnalysis, "analysis", "new request", "", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	if req.RequestID != "" {
		httpReq.Header.Set("X-Request-ID", req.RequestID)
	}

	resp, err := b.httpClient.Do(httpReq)
	if err != nil {
		return nil, services.Wrap(services.ErrAnalysis, "analysis", "request", "network failure", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxAnalysisBytes))
	if err != nil {
		return nil, services.Wrap(services.ErrAnalysis, "analysis", "read body", "", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, services.Wrap(services.ErrAnalysis, "analysis", "request",
			fmt.Sprintf("status %d", resp.StatusCode), services.NewHTTPStatusError("analysis", resp, body))
	}

	var decoded backendResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, services.Wrap(services.ErrAnalysis, "analysis", "decode response", services.Snippet(string(body)), err)
	}
	if !decoded.Success {
		reason := strings.TrimSpace(decoded.Error)
		if reason == "" {
			reason = strings.TrimSpace(decoded.Message)
		}
		if reason == "" {
			reason = "service reported failure"
		}
		return nil, services.Wrap(services.ErrAnalysis, "analysis", "request", reason, nil)
	}
	if decoded.Data.Empty() {
		return nil, services.Wrap(services.ErrAnalysis, "analysis", "decode response", "empty analysis", nil)
	}
	return decoded.Data, nil
}
