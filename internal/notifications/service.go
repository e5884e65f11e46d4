package notifications

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"lingocast/internal/config"
)

const userAgent = "lingocast/1.0"

// Service is the notification surface used by the transcript cache and CLI.
type Service interface {
	NotifyTranscriptReady(ctx context.Context, title string, lines int, elapsed time.Duration) error
	NotifyTranscriptDegraded(ctx context.Context, title string, cause error) error
	TestNotification(ctx context.Context) error
}

// NewService builds an ntfy-backed Service, or a no-op one when no topic is
// configured.
func NewService(cfg *config.Config) Service {
	topic := strings.TrimSpace(cfg.Notifications.NtfyTopic)
	if topic == "" {
		return noopService{}
	}
	timeout := time.Duration(cfg.Notifications.RequestTimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &ntfyService{
		endpoint: topic,
		client:   &http.Client{Timeout: timeout},
	}
}

// Enabled reports whether svc sends anything.
func Enabled(svc Service) bool {
	_, noop := svc.(noopService)
	return svc != nil && !noop
}

type message struct {
	title    string
	body     string
	tags     []string
	priority string
}

type ntfyService struct {
	endpoint string
	client   *http.Client
}

func (n *ntfyService) NotifyTranscriptReady(ctx context.Context, title string, lines int, elapsed time.Duration) error {
	body := fmt.Sprintf("📝 Transcript ready: %s (%d lines)", labelOrUnknown(title), lines)
	if elapsed > 0 {
		body += fmt.Sprintf(" in %s", elapsed.Round(time.Second))
	}
	return n.send(ctx, message{
		title: "Lingocast - Transcript Ready",
		body:  body,
		tags:  []string{"lingocast", "transcript", "ready"},
	})
}

func (n *ntfyService) NotifyTranscriptDegraded(ctx context.Context, title string, cause error) error {
	reason := "unknown"
	if cause != nil {
		reason = strings.TrimSpace(cause.Error())
	}
	return n.send(ctx, message{
		title:    "Lingocast - Transcript Unavailable",
		body:     fmt.Sprintf("⚠️ Transcript unavailable: %s\n%s", labelOrUnknown(title), reason),
		tags:     []string{"lingocast", "transcript", "degraded"},
		priority: "high",
	})
}

func (n *ntfyService) TestNotification(ctx context.Context) error {
	return n.send(ctx, message{
		title:    "Lingocast - Test",
		body:     "🧪 Notification system test",
		tags:     []string{"lingocast", "test"},
		priority: "low",
	})
}

func labelOrUnknown(title string) string {
	if title = strings.TrimSpace(title); title != "" {
		return title
	}
	return "untitled episode"
}

func (n *ntfyService) send(ctx context.Context, msg message) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, strings.NewReader(msg.body))
	if err != nil {
		return fmt.Errorf("build ntfy request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	if msg.title != "" {
		req.Header.Set("Title", msg.title)
	}
	if len(msg.tags) > 0 {
		req.Header.Set("Tags", strings.Join(msg.tags, ","))
	}
	if msg.priority != "" {
		req.Header.Set("Priority", msg.priority)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send ntfy notification: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= http.StatusMultipleChoices {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("ntfy returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

type noopService struct{}

func (noopService) NotifyTranscriptReady(context.Context, string, int, time.Duration) error { return nil }
func (noopService) NotifyTranscriptDegraded(context.Context, string, error) error          { return nil }
func (noopService) TestNotification(context.Context) error                                 { return nil }
