package playback

import (
	"context"
	"errors"
	"sync"
	"time"
)

const defaultMaxLead = time.Second

// Interpolator estimates the position between coarse progress
// notifications from the last reported position, the elapsed wall time and
// the current rate. Media elements typically report progress only a few
// times per second, which is too coarse for word highlighting.
type Interpolator struct {
	clock   *Clock
	now     func() time.Time
	maxLead time.Duration
	stop    []func()

	mu       sync.Mutex
	anchor   float64
	anchorAt time.Time
}

// InterpolatorOption customizes an Interpolator.
type InterpolatorOption func(*Interpolator)

// WithNow replaces the wall clock.
func WithNow(now func() time.Time) InterpolatorOption {
	return func(i *Interpolator) {
		if now != nil {
			i.now = now
		}
	}
}

// WithMaxLead bounds how far past the last report the estimate may run.
func WithMaxLead(lead time.Duration) InterpolatorOption {
	return func(i *Interpolator) {
		if lead > 0 {
			i.maxLead = lead
		}
	}
}

// NewInterpolator anchors on the clock's time updates and seeks. Call Close
// to detach it.
func NewInterpolator(clock *Clock, opts ...InterpolatorOption) *Interpolator {
	i := &Interpolator{clock: clock, now: time.Now, maxLead: defaultMaxLead}
	for _, opt := range opts {
		opt(i)
	}
	i.anchor = clock.Position()
	i.anchorAt = i.now()
	i.stop = append(i.stop, clock.Subscribe(i.Report), clock.OnSeek(i.Report))
	return i
}

// Report re-anchors the estimate at pos.
func (i *Interpolator) Report(pos float64) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.anchor = pos
	i.anchorAt = i.now()
}

// Position returns the estimated current position.
func (i *Interpolator) Position() float64 {
	i.mu.Lock()
	anchor, at := i.anchor, i.anchorAt
	i.mu.Unlock()
	if i.clock.Paused() {
		return anchor
	}
	lead := i.now().Sub(at)
	if lead < 0 {
		lead = 0
	}
	if lead > i.maxLead {
		lead = i.maxLead
	}
	return clampPosition(anchor+lead.Seconds()*i.clock.Rate(), i.clock.Duration())
}

// Close detaches the interpolator from the clock.
func (i *Interpolator) Close() {
	for _, stop := range i.stop {
		stop()
	}
	i.stop = nil
}

// FrameLoop calls a frame function at a fixed interval with the
// interpolated position while the clock is playing.
type FrameLoop struct {
	interp   *Interpolator
	interval time.Duration
}

// NewFrameLoop returns a loop that ticks every interval.
func NewFrameLoop(interp *Interpolator, interval time.Duration) *FrameLoop {
	return &FrameLoop{interp: interp, interval: interval}
}

// Run blocks until ctx is cancelled.
func (f *FrameLoop) Run(ctx context.Context, frame PositionFunc) error {
	if f.interval <= 0 {
		return errors.New("frame loop: interval must be positive")
	}
	ticker := time.NewTicker(f.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if f.interp.clock.Paused() {
				continue
			}
			frame(f.interp.Position())
		}
	}
}
