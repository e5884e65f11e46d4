package playback_test

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"
	"time"

	"lingocast/internal/playback"
	"lingocast/internal/testsupport"
)

type manualTime struct {
	mu  sync.Mutex
	now time.Time
}

func (m *manualTime) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

func (m *manualTime) Add(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = m.now.Add(d)
}

func near(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestInterpolatorExtrapolatesWhilePlaying(t *testing.T) {
	wall := &manualTime{now: time.Unix(1000, 0)}
	media := testsupport.NewFakeMedia(60)
	clock := playback.NewClock(media)
	interp := playback.NewInterpolator(clock, playback.WithNow(wall.Now))
	defer interp.Close()

	_ = clock.Play()
	media.SetPosition(10)
	clock.HandleTimeUpdate()

	wall.Add(200 * time.Millisecond)
	if got := interp.Position(); !near(got, 10.2) {
		t.Fatalf("expected 10.2, got %v", got)
	}

	if _, err := clock.SetRate(2); err != nil {
		t.Fatalf("SetRate returned error: %v", err)
	}
	if got := interp.Position(); !near(got, 10.4) {
		t.Fatalf("expected 10.4 at 2x, got %v", got)
	}

	wall.Add(10 * time.Second)
	if got := interp.Position(); !near(got, 12) {
		t.Fatalf("expected lead capped at one second, got %v", got)
	}
}

func TestInterpolatorHoldsWhilePausedAndFollowsSeeks(t *testing.T) {
	wall := &manualTime{now: time.Unix(1000, 0)}
	media := testsupport.NewFakeMedia(60)
	clock := playback.NewClock(media)
	interp := playback.NewInterpolator(clock, playback.WithNow(wall.Now))
	defer interp.Close()

	media.SetPosition(7)
	clock.HandleTimeUpdate()
	wall.Add(500 * time.Millisecond)
	if got := interp.Position(); got != 7 {
		t.Fatalf("expected paused position 7, got %v", got)
	}

	if err := clock.Seek(3); err != nil {
		t.Fatalf("Seek returned error: %v", err)
	}
	if got := interp.Position(); got != 3 {
		t.Fatalf("expected seek to re-anchor at 3, got %v", got)
	}
}

func TestFrameLoopDeliversFramesWhilePlaying(t *testing.T) {
	media := testsupport.NewFakeMedia(60)
	clock := playback.NewClock(media)
	interp := playback.NewInterpolator(clock)
	defer interp.Close()
	_ = clock.Play()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	frames := 0
	err := playback.NewFrameLoop(interp, 2*time.Millisecond).Run(ctx, func(float64) {
		frames++
		if frames == 3 {
			cancel()
		}
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected cancellation, got %v", err)
	}
	if frames < 3 {
		t.Fatalf("expected at least three frames, got %d", frames)
	}
}

func TestFrameLoopRejectsZeroInterval(t *testing.T) {
	clock := playback.NewClock(testsupport.NewFakeMedia(60))
	interp := playback.NewInterpolator(clock)
	defer interp.Close()
	if err := playback.NewFrameLoop(interp, 0).Run(context.Background(), func(float64) {}); err == nil {
		t.Fatal("expected interval error")
	}
}
