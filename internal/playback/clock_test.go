package playback_test

import (
	"errors"
	"math"
	"testing"

	"lingocast/internal/playback"
	"lingocast/internal/services"
	"lingocast/internal/testsupport"
)

func TestNextRateWalksLadder(t *testing.T) {
	rate := 1.0
	want := []float64{1.25, 1.5, 2.0, 0.5, 0.75, 1.0}
	for i, expected := range want {
		rate = playback.NextRate(rate)
		if rate != expected {
			t.Fatalf("step %d: got %v want %v", i+1, rate, expected)
		}
	}
}

func TestNextRateOffLadder(t *testing.T) {
	tests := []struct {
		current float64
		want    float64
	}{
		{current: 1.1, want: 1.25},
		{current: 0.3, want: 0.5},
		{current: 1.75, want: 2.0},
		{current: 3.0, want: 0.5},
	}
	for _, tt := range tests {
		if got := playback.NextRate(tt.current); got != tt.want {
			t.Fatalf("NextRate(%v) = %v, want %v", tt.current, got, tt.want)
		}
	}
}

func TestCycleRateReturnsToNormalSpeed(t *testing.T) {
	media := testsupport.NewFakeMedia(60)
	clock := playback.NewClock(media)
	var seen []float64
	for range len(playback.RateLadder) {
		rate, err := clock.CycleRate()
		if err != nil {
			t.Fatalf("CycleRate returned error: %v", err)
		}
		seen = append(seen, rate)
	}
	if seen[len(seen)-1] != 1.0 || clock.Rate() != 1.0 || media.PlaybackRate() != 1.0 {
		t.Fatalf("expected to return to 1.0, saw %v", seen)
	}
}

func TestCycleRateRollsBackWhenRejected(t *testing.T) {
	media := testsupport.NewFakeMedia(60)
	media.RejectRate(1.25)
	clock := playback.NewClock(media)

	rate, err := clock.CycleRate()
	if err == nil {
		t.Fatal("expected rejected rate error")
	}
	if !errors.Is(err, services.ErrPlayback) || !errors.Is(err, testsupport.ErrRateRejected) {
		t.Fatalf("expected playback error wrapping rejection, got %v", err)
	}
	if rate != 1.0 || clock.Rate() != 1.0 || media.PlaybackRate() != 1.0 {
		t.Fatalf("expected rate rolled back to 1.0, got returned=%v clock=%v media=%v", rate, clock.Rate(), media.PlaybackRate())
	}
}

func TestSetRateRejectsInvalidValues(t *testing.T) {
	clock := playback.NewClock(testsupport.NewFakeMedia(60))
	for _, rate := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		if _, err := clock.SetRate(rate); !errors.Is(err, services.ErrValidation) {
			t.Fatalf("SetRate(%v): expected validation error, got %v", rate, err)
		}
	}
	if clock.Rate() != 1.0 {
		t.Fatalf("expected rate unchanged, got %v", clock.Rate())
	}
}

func TestSeekClampsToKnownDuration(t *testing.T) {
	media := testsupport.NewFakeMedia(100)
	clock := playback.NewClock(media)

	for _, tt := range []struct{ in, want float64 }{{-5, 0}, {42.5, 42.5}, {150, 100}} {
		if err := clock.Seek(tt.in); err != nil {
			t.Fatalf("Seek(%v) returned error: %v", tt.in, err)
		}
		if got := clock.Position(); got != tt.want {
			t.Fatalf("Seek(%v): position %v, want %v", tt.in, got, tt.want)
		}
	}
	if !clock.Paused() {
		t.Fatal("expected seek to leave playback paused")
	}
}

func TestSeekWithUnknownDurationOnlyClampsBelow(t *testing.T) {
	for _, duration := range []float64{math.NaN(), math.Inf(1)} {
		clock := playback.NewClock(testsupport.NewFakeMedia(duration))
		if err := clock.Seek(5000); err != nil {
			t.Fatalf("Seek returned error: %v", err)
		}
		if clock.Position() != 5000 {
			t.Fatalf("expected unclamped position, got %v", clock.Position())
		}
	}
}

func TestSeekRejectsNaN(t *testing.T) {
	media := testsupport.NewFakeMedia(100)
	clock := playback.NewClock(media)
	if err := clock.Seek(math.NaN()); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(media.SeekHistory()) != 0 {
		t.Fatal("expected no seek on the media")
	}
}

func TestPlayPauseAreIdempotent(t *testing.T) {
	media := testsupport.NewFakeMedia(60)
	clock := playback.NewClock(media)

	for range 2 {
		if err := clock.Play(); err != nil {
			t.Fatalf("Play returned error: %v", err)
		}
	}
	for range 2 {
		if err := clock.Pause(); err != nil {
			t.Fatalf("Pause returned error: %v", err)
		}
	}
	plays, pauses := media.Counts()
	if plays != 1 || pauses != 1 {
		t.Fatalf("expected one play and one pause, got %d/%d", plays, pauses)
	}
}

func TestPlayFailureIsPlaybackError(t *testing.T) {
	media := testsupport.NewFakeMedia(60)
	media.FailPlay(errors.New("autoplay blocked"))
	clock := playback.NewClock(media)
	if err := clock.Play(); !errors.Is(err, services.ErrPlayback) {
		t.Fatalf("expected playback error, got %v", err)
	}
}

func TestHandleTimeUpdateFansOut(t *testing.T) {
	media := testsupport.NewFakeMedia(60)
	clock := playback.NewClock(media)

	var first, second []float64
	clock.Subscribe(func(pos float64) { first = append(first, pos) })
	unsubscribe := clock.Subscribe(func(pos float64) { second = append(second, pos) })

	media.SetPosition(1.5)
	clock.HandleTimeUpdate()
	unsubscribe()
	media.SetPosition(2.0)
	clock.HandleTimeUpdate()

	if len(first) != 2 || first[1] != 2.0 {
		t.Fatalf("unexpected first subscriber positions: %v", first)
	}
	if len(second) != 1 || second[0] != 1.5 {
		t.Fatalf("unexpected second subscriber positions: %v", second)
	}
	if clock.LastPosition() != 2.0 {
		t.Fatalf("unexpected last position: %v", clock.LastPosition())
	}
}

func TestSeekNotifiesListenersWithClampedTarget(t *testing.T) {
	clock := playback.NewClock(testsupport.NewFakeMedia(10))
	var targets []float64
	clock.OnSeek(func(pos float64) { targets = append(targets, pos) })
	if err := clock.Seek(12); err != nil {
		t.Fatalf("Seek returned error: %v", err)
	}
	if len(targets) != 1 || targets[0] != 10 {
		t.Fatalf("unexpected seek notifications: %v", targets)
	}
}
