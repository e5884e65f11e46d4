package playback_test

import (
	"context"
	"testing"
	"time"

	"lingocast/internal/playback"
)

func TestSimulatedMediaAdvancesWithRate(t *testing.T) {
	media := playback.NewSimulatedMedia(30)
	media.Advance(time.Second)
	if media.CurrentTime() != 0 {
		t.Fatalf("expected paused media not to advance, got %v", media.CurrentTime())
	}
	if err := media.Play(); err != nil {
		t.Fatalf("Play returned error: %v", err)
	}
	if err := media.SetPlaybackRate(2); err != nil {
		t.Fatalf("SetPlaybackRate returned error: %v", err)
	}
	if got := media.Advance(1500 * time.Millisecond); got != 3 {
		t.Fatalf("expected 3s after 1.5s at 2x, got %v", got)
	}
}

func TestSimulatedMediaEndsAtDuration(t *testing.T) {
	media := playback.NewSimulatedMedia(2)
	_ = media.Play()
	media.Advance(5 * time.Second)
	if !media.Ended() || !media.Paused() || media.CurrentTime() != 2 {
		t.Fatalf("expected ended at 2s, got pos=%v ended=%v paused=%v", media.CurrentTime(), media.Ended(), media.Paused())
	}
	_ = media.Play()
	if media.Ended() || media.CurrentTime() != 0 {
		t.Fatalf("expected replay from start, got pos=%v", media.CurrentTime())
	}
}

func TestSimulatedMediaRejectsUnsupportedRates(t *testing.T) {
	media := playback.NewSimulatedMedia(10)
	for _, rate := range []float64{0, -1, playback.MaxSimulatedRate + 1} {
		if err := media.SetPlaybackRate(rate); err == nil {
			t.Fatalf("expected rate %v to be rejected", rate)
		}
	}
	if media.PlaybackRate() != 1 {
		t.Fatalf("expected rate unchanged, got %v", media.PlaybackRate())
	}
}

func TestSimulatedMediaRunStopsAtEnd(t *testing.T) {
	media := playback.NewSimulatedMedia(0.05)
	_ = media.Play()
	clock := playback.NewClock(media)
	updates := 0
	clock.Subscribe(func(float64) { updates++ })

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := media.Run(ctx, 5*time.Millisecond, func() { clock.HandleTimeUpdate() }); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if !media.Ended() || updates == 0 {
		t.Fatalf("expected updates until end, got ended=%v updates=%d", media.Ended(), updates)
	}
}
