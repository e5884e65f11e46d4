package transcriptcache

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"lingocast/internal/episode"
	"lingocast/internal/services"
	"lingocast/internal/transcript"
)

// GenerationRequest describes an on-demand transcript job.
type GenerationRequest struct {
	Key            episode.Key
	Episode        episode.Episode
	TargetLanguage string
	RequestID      string
}

// GenerationService produces transcripts by running the episode audio
// through the backend AI pipeline via POST {api}/ai/transcript.
type GenerationService struct {
	endpoint   string
	httpClient *http.Client
}

// NewGenerationService constructs a client for the backend at apiBase. The
// request deadline comes from the caller's context.
func NewGenerationService(apiBase string, client *http.Client) (*GenerationService, error) {
	endpoint, err := url.JoinPath(strings.TrimRight(apiBase, "/"), "ai", "transcript")
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "generation", "build url", apiBase, err)
	}
	if client == nil {
		client = &http.Client{}
	}
	return &GenerationService{endpoint: endpoint, httpClient: client}, nil
}

type generationPayload struct {
	EpisodeID      string `json:"episodeId"`
	AudioURL       string `json:"audioUrl"`
	Title          string `json:"title"`
	TargetLanguage string `json:"targetLanguage"`
}

type generationResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Error   string `json:"error"`
	Data    *struct {
		Segments []transcript.Line `json:"segments"`
	} `json:"data"`
}

// Generate requests a transcript for req. Network failures, non-2xx
// responses, success=false and empty or malformed payloads are all errors
// wrapped with services.ErrGeneration.
func (g *GenerationService) Generate(ctx context.Context, req GenerationRequest) (*transcript.Transcript, error) {
	if strings.TrimSpace(req.Episode.AudioURL) == "" {
		return nil, services.Wrap(services.ErrGeneration, "generation", "prepare", "episode has no audio url", nil)
	}
	encoded, err := json.Marshal(generationPayload{
		EpisodeID:      req.Key.String(),
		AudioURL:       req.Episode.AudioURL,
		Title:          req.Episode.Title,
		TargetLanguage: req.TargetLanguage,
	})
	if err != nil {
		return nil, services.Wrap(services.ErrGeneration, "generation", "encode request", "", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.endpoint, bytes.NewReader(encoded))
	if err != nil {
		return nil, services.Wrap(services.ErrGeneration, "generation", "new request", "", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	if req.RequestID != "" {
		httpReq.Header.Set("X-Request-ID", req.RequestID)
	}

	resp, err := g.httpClient.Do(httpReq)
	if err != nil {
		return nil, services.Wrap(services.ErrGeneration, "generation", "request", "network failure", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxTranscriptBytes))
	if err != nil {
		return nil, services.Wrap(services.ErrGeneration, "generation", "read body", "", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, services.Wrap(services.ErrGeneration, "generation", "request",
			fmt.Sprintf("status %d", resp.StatusCode), services.NewHTTPStatusError("generation", resp, body))
	}

	var decoded generationResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, services.Wrap(services.ErrGeneration, "generation", "decode response", services.Snippet(string(body)), err)
	}
	if !decoded.Success {
		reason := firstNonEmpty(decoded.Error, decoded.Message, "service reported failure")
		return nil, services.Wrap(services.ErrGeneration, "generation", "request", reason, nil)
	}
	if decoded.Data == nil || len(decoded.Data.Segments) == 0 {
		return nil, services.Wrap(services.ErrGeneration, "generation", "decode response", "no segments returned", transcript.ErrEmptyPayload)
	}
	tr := transcript.New(decoded.Data.Segments)
	if err := tr.Validate(); err != nil {
		return nil, services.Wrap(services.ErrGeneration, "generation", "validate", "", err)
	}
	return tr, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return ""
}

var errNotConfigured = errors.New("generation service not configured")
