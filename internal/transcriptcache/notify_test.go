package transcriptcache_test

import (
	"context"
	"errors"
	"net/http"
	"reflect"
	"sync"
	"testing"
	"time"

	"lingocast/internal/testsupport"
	"lingocast/internal/transcriptcache"
)

type recordingNotifier struct {
	mu     sync.Mutex
	events []string
}

func (r *recordingNotifier) record(event string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

func (r *recordingNotifier) NotifyTranscriptReady(_ context.Context, title string, _ int, _ time.Duration) error {
	r.record("ready:" + title)
	return nil
}

func (r *recordingNotifier) NotifyTranscriptDegraded(_ context.Context, title string, _ error) error {
	r.record("degraded:" + title)
	return nil
}

func (r *recordingNotifier) TestNotification(context.Context) error { return nil }

func TestGenerationOutcomesAreAnnounced(t *testing.T) {
	lines := testsupport.SampleLines()
	ok := newBackend(t, func(b *backend) {
		b.generation = func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write(testsupport.GenerationJSON(t, lines))
		}
	})
	notifier := &recordingNotifier{}
	ok.cache(t, transcriptcache.WithNotifier(notifier)).Load(context.Background(), sampleEpisode(), nil)

	failing := newBackend(t, nil)
	failing.cache(t, transcriptcache.WithNotifier(notifier)).Load(context.Background(), sampleEpisode(), nil)

	want := []string{"ready:Episodio uno", "degraded:Episodio uno"}
	if len(notifier.events) != len(want) || notifier.events[0] != want[0] || notifier.events[1] != want[1] {
		t.Fatalf("expected %v, got %v", want, notifier.events)
	}
}

func TestUnconfiguredGenerationIsNotAnnounced(t *testing.T) {
	notifier := &recordingNotifier{}
	result := transcriptcache.New(transcriptcache.WithNotifier(notifier)).Load(context.Background(), sampleEpisode(), nil)
	if !result.Degraded {
		t.Fatalf("expected degraded result, got %+v", result)
	}
	if len(notifier.events) != 0 {
		t.Fatalf("expected no notifications, got %v", notifier.events)
	}
}

func TestCancelledGenerationIsNotAnnounced(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	b := newBackend(t, func(b *backend) {
		b.generation = func(w http.ResponseWriter, r *http.Request) {
			close(started)
			select {
			case <-r.Context().Done():
			case <-release:
			}
		}
	})
	t.Cleanup(func() { close(release) })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		<-started
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	notifier := &recordingNotifier{}
	statuses, onStatus := recordStatuses()
	result := b.cache(t, transcriptcache.WithNotifier(notifier)).Load(ctx, sampleEpisode(), onStatus)
	if !errors.Is(result.Err, context.Canceled) {
		t.Fatalf("expected context canceled, got %v", result.Err)
	}
	if result.Transcript == nil || result.Source != transcriptcache.SourceFallback {
		t.Fatalf("expected fallback transcript, got %+v", result)
	}
	if len(notifier.events) != 0 {
		t.Fatalf("expected no notifications, got %v", notifier.events)
	}
	want := []transcriptcache.Status{transcriptcache.StatusLoading, transcriptcache.StatusGenerating}
	if !reflect.DeepEqual(*statuses, want) {
		t.Fatalf("expected statuses %v, got %v", want, *statuses)
	}
}
