package syncengine_test

import (
	"errors"
	"fmt"
	"slices"
	"testing"

	"lingocast/internal/loop"
	"lingocast/internal/playback"
	"lingocast/internal/syncengine"
	"lingocast/internal/testsupport"
	"lingocast/internal/transcript"
)

type recorder struct {
	events []string
}

func (r *recorder) OnActiveLineChanged(index int) {
	r.events = append(r.events, fmt.Sprintf("line:%d", index))
}

func (r *recorder) OnActiveWordChanged(line, word int) {
	r.events = append(r.events, fmt.Sprintf("word:%d/%d", line, word))
}

func (r *recorder) OnScrollTo(index int) {
	r.events = append(r.events, fmt.Sprintf("scroll:%d", index))
}

func (r *recorder) OnLoopSeek(target float64) {
	r.events = append(r.events, fmt.Sprintf("loop:%g", target))
}

func (r *recorder) take() []string {
	out := r.events
	r.events = nil
	return out
}

func newEngine(t *testing.T, opts ...syncengine.Option) (*syncengine.Engine, *testsupport.FakeMedia, *recorder) {
	t.Helper()
	media := testsupport.NewFakeMedia(60)
	clock := playback.NewClock(media)
	rec := &recorder{}
	engine := syncengine.New(clock, loop.NewController(), append([]syncengine.Option{syncengine.WithObserver(rec)}, opts...)...)
	engine.SetTranscript(transcript.New(testsupport.SampleLines()))
	return engine, media, rec
}

func TestTickHighlightsAndScrollsOnChange(t *testing.T) {
	engine, _, rec := newEngine(t)

	steps := []struct {
		pos  float64
		want []string
	}{
		{pos: 0.5, want: []string{"line:0", "word:0/0", "scroll:0"}},
		{pos: 1.0, want: nil},
		{pos: 1.3, want: []string{"word:0/1"}},
		{pos: 2.6, want: []string{"line:1", "word:1/-1", "scroll:1"}},
		{pos: 5.5, want: []string{"line:-1"}},
		{pos: 6.0, want: []string{"line:2", "scroll:2"}},
		{pos: 20, want: []string{"line:-1"}},
	}
	for _, step := range steps {
		engine.Tick(step.pos)
		if got := rec.take(); !slices.Equal(got, step.want) {
			t.Fatalf("tick %v: got events %v want %v", step.pos, got, step.want)
		}
	}
}

func TestTickReportsFrame(t *testing.T) {
	engine, _, _ := newEngine(t)
	frame := engine.Tick(1.5)
	if frame.Line != 0 || frame.Word != 1 || !frame.LineChanged || !frame.WordChanged || !frame.Scrolled {
		t.Fatalf("unexpected frame: %+v", frame)
	}
	if line, word := engine.Active(); line != 0 || word != 1 {
		t.Fatalf("unexpected active pair %d/%d", line, word)
	}
}

func TestAutoScrollDisabled(t *testing.T) {
	engine, _, rec := newEngine(t, syncengine.WithAutoScroll(false))
	engine.Tick(3)
	if got := rec.take(); !slices.Equal(got, []string{"line:1"}) {
		t.Fatalf("expected line change without scroll, got %v", got)
	}
	engine.SetAutoScroll(true)
	engine.Tick(7)
	if got := rec.take(); !slices.Equal(got, []string{"line:2", "scroll:2"}) {
		t.Fatalf("expected scroll after enabling, got %v", got)
	}
}

func TestLoopSeekLandsExactlyOnA(t *testing.T) {
	engine, media, rec := newEngine(t)
	engine.Loop().Mark(5)
	engine.Loop().Mark(8)

	engine.Tick(6.5)
	rec.take()

	media.SetPosition(8.02)
	frame := engine.Tick(8.02)
	if !frame.LoopSeek || frame.SeekTarget != 5 || frame.Err != nil {
		t.Fatalf("expected loop seek to 5, got %+v", frame)
	}
	if media.CurrentTime() != 5.0 {
		t.Fatalf("expected position exactly 5.0, got %v", media.CurrentTime())
	}
	if got := rec.take(); !slices.Equal(got, []string{"loop:5"}) {
		t.Fatalf("expected only the loop seek event, got %v", got)
	}
	if frame.Line != 2 {
		t.Fatalf("expected previous highlight kept on loop frame, got %d", frame.Line)
	}

	if frame := engine.Tick(8); !frame.LoopSeek {
		t.Fatal("expected position equal to B to wrap")
	}
	if frame := engine.Tick(7.99); frame.LoopSeek {
		t.Fatal("expected no wrap inside the region")
	}
}

type failingSeeker struct{}

func (failingSeeker) Seek(float64) error { return errors.New("seek refused") }

func TestLoopSeekFailureIsReported(t *testing.T) {
	rec := &recorder{}
	controller := loop.NewController()
	controller.Set(1, 2)
	engine := syncengine.New(failingSeeker{}, controller, syncengine.WithObserver(rec))

	frame := engine.Tick(2.5)
	if frame.Err == nil || !frame.LoopSeek {
		t.Fatalf("expected loop frame with error, got %+v", frame)
	}
	if len(rec.take()) != 0 {
		t.Fatal("expected no loop seek event after failure")
	}
}

func TestSetTranscriptResetsHighlight(t *testing.T) {
	engine, _, rec := newEngine(t)
	engine.Tick(3)
	rec.take()

	engine.SetTranscript(transcript.New(testsupport.SampleLines()))
	engine.Tick(3)
	if got := rec.take(); !slices.Equal(got, []string{"line:1", "scroll:1"}) {
		t.Fatalf("expected highlight re-emitted after transcript swap, got %v", got)
	}
}

func TestTickWithoutTranscript(t *testing.T) {
	rec := &recorder{}
	engine := syncengine.New(failingSeeker{}, nil, syncengine.WithObserver(rec))
	frame := engine.Tick(3)
	if frame.Line != -1 || frame.Word != -1 || len(rec.take()) != 0 {
		t.Fatalf("expected empty frame, got %+v", frame)
	}
}

func TestObserverFuncsSkipsNilFields(t *testing.T) {
	var lines []int
	obs := syncengine.ObserverFuncs{LineChanged: func(i int) { lines = append(lines, i) }}
	obs.OnActiveLineChanged(4)
	obs.OnActiveWordChanged(4, 1)
	obs.OnScrollTo(4)
	obs.OnLoopSeek(1)
	if !slices.Equal(lines, []int{4}) {
		t.Fatalf("unexpected lines: %v", lines)
	}
}
