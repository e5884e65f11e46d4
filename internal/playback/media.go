package playback

import "math"

// Media is the playback element the clock controls. Positions and durations
// are in seconds. Duration reports NaN or +Inf while unknown.
type Media interface {
	CurrentTime() float64
	SetCurrentTime(seconds float64) error
	Duration() float64
	PlaybackRate() float64
	SetPlaybackRate(rate float64) error
	Play() error
	Pause() error
	Paused() bool
}

// knownDuration reports whether d is a usable upper bound.
func knownDuration(d float64) bool {
	return d > 0 && !math.IsNaN(d) && !math.IsInf(d, 0)
}

// clampPosition bounds pos to [0, duration], applying the upper bound only
// when the duration is known.
func clampPosition(pos, duration float64) float64 {
	if pos < 0 {
		return 0
	}
	if knownDuration(duration) && pos > duration {
		return duration
	}
	return pos
}
