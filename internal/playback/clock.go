package playback

import (
	"fmt"
	"log/slog"
	"math"
	"slices"
	"sync"

	"lingocast/internal/logging"
	"lingocast/internal/optimistic"
	"lingocast/internal/services"
)

// PositionFunc receives a playback position in seconds.
type PositionFunc func(pos float64)

// Clock is the single source of truth for the playback position.
type Clock struct {
	media  Media
	rate   *optimistic.Cell[float64]
	logger *slog.Logger

	mu       sync.Mutex
	nextID   int
	updates  map[int]PositionFunc
	seeks    map[int]PositionFunc
	lastSeen float64
}

// ClockOption customizes a Clock.
type ClockOption func(*Clock)

// WithClockLogger sets the logger.
func WithClockLogger(logger *slog.Logger) ClockOption {
	return func(c *Clock) { c.logger = logger }
}

// NewClock wraps media.
func NewClock(media Media, opts ...ClockOption) *Clock {
	c := &Clock{
		media:   media,
		updates: make(map[int]PositionFunc),
		seeks:   make(map[int]PositionFunc),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = logging.NewComponentLogger(c.logger, "playback")
	c.rate = optimistic.NewCell(media.PlaybackRate())
	return c
}

// Position returns the media's current time.
func (c *Clock) Position() float64 {
	return c.media.CurrentTime()
}

// Duration returns the media duration, NaN or +Inf while unknown.
func (c *Clock) Duration() float64 {
	return c.media.Duration()
}

// Paused reports whether the media is paused.
func (c *Clock) Paused() bool {
	return c.media.Paused()
}

// Play starts playback. Calling Play while playing is a no-op.
func (c *Clock) Play() error {
	if !c.media.Paused() {
		return nil
	}
	if err := c.media.Play(); err != nil {
		return services.Wrap(services.ErrPlayback, "playback", "play", "", err)
	}
	return nil
}

// Pause stops playback. Calling Pause while paused is a no-op.
func (c *Clock) Pause() error {
	if c.media.Paused() {
		return nil
	}
	if err := c.media.Pause(); err != nil {
		return services.Wrap(services.ErrPlayback, "playback", "pause", "", err)
	}
	return nil
}

// Toggle flips between playing and paused.
func (c *Clock) Toggle() error {
	if c.media.Paused() {
		return c.Play()
	}
	return c.Pause()
}

// Seek moves the position to t, clamped to the media bounds. It does not
// change the paused state. Seek listeners observe the clamped target.
func (c *Clock) Seek(t float64) error {
	if math.IsNaN(t) {
		return services.Wrap(services.ErrValidation, "playback", "seek", "position is NaN", nil)
	}
	target := clampPosition(t, c.media.Duration())
	if err := c.media.SetCurrentTime(target); err != nil {
		return services.Wrap(services.ErrPlayback, "playback", "seek", fmt.Sprintf("to %.3fs", target), err)
	}
	c.mu.Lock()
	c.lastSeen = target
	listeners := collect(c.seeks)
	c.mu.Unlock()
	for _, fn := range listeners {
		fn(target)
	}
	return nil
}

// Rate returns the displayed playback rate, which includes a change that is
// still being applied.
func (c *Clock) Rate() float64 {
	return c.rate.Get()
}

// CycleRate advances to the next rate on the ladder. The new rate is shown
// immediately and restored to the previous one if the media rejects it.
func (c *Clock) CycleRate() (float64, error) {
	return c.applyRate(NextRate(c.rate.Get()))
}

// SetRate applies an explicit rate with the same rollback behaviour as
// CycleRate.
func (c *Clock) SetRate(rate float64) (float64, error) {
	if !(rate > 0) || math.IsInf(rate, 0) {
		return c.rate.Get(), services.Wrap(services.ErrValidation, "playback", "set rate", fmt.Sprintf("invalid rate %v", rate), nil)
	}
	return c.applyRate(rate)
}

func (c *Clock) applyRate(next float64) (float64, error) {
	err := c.rate.Update(next, c.media.SetPlaybackRate)
	if err != nil {
		current := c.rate.Get()
		logging.WarnWithContext(c.logger, "playback rate rejected", "playback_rate_rejected",
			logging.Float64("requested_rate", next),
			logging.Float64("rate", current),
			logging.Error(err),
			logging.String(logging.FieldImpact, "playback continues at the previous rate"),
		)
		return current, services.Wrap(services.ErrPlayback, "playback", "set rate", fmt.Sprintf("%vx", next), err)
	}
	c.logger.Debug("playback rate changed", logging.Float64("rate", next))
	return next, nil
}

// Subscribe registers fn for every time update. The returned function
// removes the subscription.
func (c *Clock) Subscribe(fn PositionFunc) func() {
	return c.register(c.updates, fn)
}

// OnSeek registers fn for every successful Seek. The returned function
// removes the registration.
func (c *Clock) OnSeek(fn PositionFunc) func() {
	return c.register(c.seeks, fn)
}

func (c *Clock) register(target map[int]PositionFunc, fn PositionFunc) func() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.nextID++
	id := c.nextID
	target[id] = fn
	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(target, id)
	}
}

// HandleTimeUpdate reads the media position and delivers it to every
// subscriber. Hosts call it once per media progress notification.
func (c *Clock) HandleTimeUpdate() float64 {
	pos := c.media.CurrentTime()
	c.mu.Lock()
	c.lastSeen = pos
	subscribers := collect(c.updates)
	c.mu.Unlock()
	for _, fn := range subscribers {
		fn(pos)
	}
	return pos
}

// LastPosition returns the position delivered by the most recent time
// update or seek.
func (c *Clock) LastPosition() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastSeen
}

// collect snapshots callbacks in registration order so they run outside the
// lock.
func collect(m map[int]PositionFunc) []PositionFunc {
	ids := make([]int, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	out := make([]PositionFunc, 0, len(ids))
	for _, id := range ids {
		out = append(out, m[id])
	}
	return out
}
