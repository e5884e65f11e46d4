package syncengine

import (
	"log/slog"
	"sync"

	"lingocast/internal/logging"
	"lingocast/internal/loop"
	"lingocast/internal/transcript"
)

// Seeker moves the playback position; playback.Clock satisfies it.
type Seeker interface {
	Seek(t float64) error
}

// Frame describes the outcome of one tick.
type Frame struct {
	Position float64
	Line     int
	Word     int

	LineChanged bool
	WordChanged bool
	Scrolled    bool

	// LoopSeek is set when the tick wrapped the loop; highlight fields
	// then carry the previous values.
	LoopSeek   bool
	SeekTarget float64
	Err        error
}

// Engine is the per-tick synchronizer.
type Engine struct {
	seeker   Seeker
	loop     *loop.Controller
	observer Observer
	logger   *slog.Logger

	mu         sync.Mutex
	transcript *transcript.Transcript
	autoScroll bool
	line       int
	word       int
}

// Option customizes an Engine.
type Option func(*Engine)

// WithObserver sets the side-effect receiver.
func WithObserver(observer Observer) Option {
	return func(e *Engine) {
		if observer != nil {
			e.observer = observer
		}
	}
}

// WithAutoScroll sets the initial auto-scroll preference.
func WithAutoScroll(enabled bool) Option {
	return func(e *Engine) { e.autoScroll = enabled }
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) { e.logger = logger }
}

// New returns an engine with auto-scroll enabled and no transcript.
func New(seeker Seeker, loopController *loop.Controller, opts ...Option) *Engine {
	e := &Engine{
		seeker:     seeker,
		loop:       loopController,
		observer:   nopObserver{},
		autoScroll: true,
		line:       -1,
		word:       -1,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.loop == nil {
		e.loop = loop.NewController()
	}
	e.logger = logging.NewComponentLogger(e.logger, "syncengine")
	return e
}

// SetTranscript replaces the transcript and forgets the previous highlight
// so the next tick reports the active line afresh.
func (e *Engine) SetTranscript(tr *transcript.Transcript) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.transcript = tr
	e.line, e.word = -1, -1
}

// Transcript returns the current transcript, which may be nil.
func (e *Engine) Transcript() *transcript.Transcript {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.transcript
}

// SetAutoScroll toggles scrolling to the active line.
func (e *Engine) SetAutoScroll(enabled bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.autoScroll = enabled
}

// AutoScroll reports the auto-scroll preference.
func (e *Engine) AutoScroll() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.autoScroll
}

// Loop returns the loop controller consulted on every tick.
func (e *Engine) Loop() *loop.Controller {
	return e.loop
}

// Active returns the line and word highlighted by the last tick.
func (e *Engine) Active() (line, word int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.line, e.word
}

// Tick processes one playback position.
func (e *Engine) Tick(pos float64) Frame {
	if target, ok := e.loop.Wrap(pos); ok {
		return e.wrapLoop(pos, target)
	}

	e.mu.Lock()
	tr := e.transcript
	line, word := -1, -1
	if idx, ok := tr.ActiveLineIndex(pos); ok {
		line = idx
		if w, ok := tr.ActiveWordIndex(idx, pos); ok {
			word = w
		}
	}
	frame := Frame{Position: pos, Line: line, Word: word}
	frame.LineChanged = line != e.line
	frame.WordChanged = word != e.word || (frame.LineChanged && word >= 0)
	frame.Scrolled = frame.LineChanged && e.autoScroll && line >= 0
	e.line, e.word = line, word
	e.mu.Unlock()

	if frame.LineChanged {
		e.observer.OnActiveLineChanged(line)
	}
	if frame.WordChanged {
		e.observer.OnActiveWordChanged(line, word)
	}
	if frame.Scrolled {
		e.observer.OnScrollTo(line)
	}
	return frame
}

func (e *Engine) wrapLoop(pos, target float64) Frame {
	e.mu.Lock()
	frame := Frame{Position: pos, Line: e.line, Word: e.word, LoopSeek: true, SeekTarget: target}
	e.mu.Unlock()

	if err := e.seeker.Seek(target); err != nil {
		logging.WarnWithContext(e.logger, "loop seek failed", "loop_seek_failed",
			logging.Seconds("position", pos),
			logging.Seconds("target", target),
			logging.Error(err),
			logging.String(logging.FieldImpact, "playback continues past the loop end"),
		)
		frame.Err = err
		return frame
	}
	e.logger.Debug("loop wrapped", logging.Seconds("position", pos), logging.Seconds("target", target))
	e.observer.OnLoopSeek(target)
	return frame
}
