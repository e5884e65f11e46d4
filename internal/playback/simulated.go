package playback

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"
)

// MaxSimulatedRate is the fastest rate SimulatedMedia accepts.
const MaxSimulatedRate = 4.0

// SimulatedMedia is an in-process Media whose position advances with wall
// time while playing. It has no audio output.
type SimulatedMedia struct {
	mu       sync.Mutex
	pos      float64
	duration float64
	rate     float64
	paused   bool
	ended    bool
}

// NewSimulatedMedia returns paused media of the given duration in seconds.
// A non-positive duration is treated as unknown.
func NewSimulatedMedia(duration float64) *SimulatedMedia {
	if !knownDuration(duration) {
		duration = math.NaN()
	}
	return &SimulatedMedia{duration: duration, rate: 1, paused: true}
}

func (m *SimulatedMedia) CurrentTime() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pos
}

func (m *SimulatedMedia) SetCurrentTime(seconds float64) error {
	if math.IsNaN(seconds) || math.IsInf(seconds, 0) {
		return fmt.Errorf("simulated media: invalid position %v", seconds)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pos = clampPosition(seconds, m.duration)
	m.ended = knownDuration(m.duration) && m.pos >= m.duration
	return nil
}

func (m *SimulatedMedia) Duration() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.duration
}

// SetDuration changes the media length, for example once the transcript
// that bounds a simulated episode is known.
func (m *SimulatedMedia) SetDuration(duration float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !knownDuration(duration) {
		duration = math.NaN()
	}
	m.duration = duration
	m.pos = clampPosition(m.pos, duration)
}

func (m *SimulatedMedia) PlaybackRate() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.rate
}

func (m *SimulatedMedia) SetPlaybackRate(rate float64) error {
	if !(rate > 0) || rate > MaxSimulatedRate {
		return fmt.Errorf("simulated media: unsupported rate %v", rate)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rate = rate
	return nil
}

// Play resumes playback. Playing ended media restarts it from zero.
func (m *SimulatedMedia) Play() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ended {
		m.pos = 0
		m.ended = false
	}
	m.paused = false
	return nil
}

func (m *SimulatedMedia) Pause() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.paused = true
	return nil
}

func (m *SimulatedMedia) Paused() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.paused
}

// Ended reports whether playback reached the end of the media.
func (m *SimulatedMedia) Ended() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ended
}

// Advance moves the position forward by elapsed wall time scaled by the
// rate. Reaching the duration pauses the media and marks it ended.
func (m *SimulatedMedia) Advance(elapsed time.Duration) float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.paused || elapsed <= 0 {
		return m.pos
	}
	m.pos += elapsed.Seconds() * m.rate
	if knownDuration(m.duration) && m.pos >= m.duration {
		m.pos = m.duration
		m.paused = true
		m.ended = true
	}
	return m.pos
}

// Run advances the media every interval and calls onUpdate after each step,
// the way a media element raises progress notifications. It returns nil
// once the media ends and the context error when ctx is cancelled.
func (m *SimulatedMedia) Run(ctx context.Context, interval time.Duration, onUpdate func()) error {
	if interval <= 0 {
		return errors.New("simulated media: interval must be positive")
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now := <-ticker.C:
			m.Advance(now.Sub(last))
			last = now
			if onUpdate != nil {
				onUpdate()
			}
			if m.Ended() {
				return nil
			}
		}
	}
}
