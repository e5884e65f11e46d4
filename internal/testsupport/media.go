package testsupport

import (
	"errors"
	"math"
	"sync"
)

// ErrRateRejected is returned by FakeMedia for rates listed in RejectRates.
var ErrRateRejected = errors.New("rate rejected")

// FakeMedia is a scripted playback element. Position only changes through
// SetCurrentTime or SetPosition.
type FakeMedia struct {
	mu          sync.Mutex
	pos         float64
	duration    float64
	rate        float64
	paused      bool
	rejectRates map[float64]bool
	playErr     error

	PlayCalls  int
	PauseCalls int
	Seeks      []float64
}

// NewFakeMedia returns paused media at rate 1. Pass NaN for an unknown
// duration.
func NewFakeMedia(duration float64) *FakeMedia {
	return &FakeMedia{duration: duration, rate: 1, paused: true, rejectRates: map[float64]bool{}}
}

// SetPosition moves the playhead without recording a seek, like natural
// playback progress.
func (m *FakeMedia) SetPosition(pos float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pos = pos
}

// RejectRate makes SetPlaybackRate fail for rate.
func (m *FakeMedia) RejectRate(rate float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rejectRates[rate] = true
}

// FailPlay makes Play return err.
func (m *FakeMedia) FailPlay(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.playErr = err
}

// SeekHistory returns a copy of every position passed to SetCurrentTime.
func (m *FakeMedia) SeekHistory() []float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]float64(nil), m.Seeks...)
}

// Counts returns the number of Play and Pause calls.
func (m *FakeMedia) Counts() (plays, pauses int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.PlayCalls, m.PauseCalls
}

func (m *FakeMedia) CurrentTime() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pos
}

func (m *FakeMedia) SetCurrentTime(seconds float64) error {
	if math.IsNaN(seconds) {
		return errors.New("fake media: NaN position")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pos = seconds
	m.Seeks = append(m.Seeks, seconds)
	return nil
}

func (m *FakeMedia) Duration() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.duration
}

func (m *FakeMedia) PlaybackRate() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.rate
}

func (m *FakeMedia) SetPlaybackRate(rate float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.rejectRates[rate] {
		return ErrRateRejected
	}
	m.rate = rate
	return nil
}

func (m *FakeMedia) Play() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.PlayCalls++
	if m.playErr != nil {
		return m.playErr
	}
	m.paused = false
	return nil
}

func (m *FakeMedia) Pause() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.PauseCalls++
	m.paused = true
	return nil
}

func (m *FakeMedia) Paused() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.paused
}
