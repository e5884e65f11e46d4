package transcript

import (
	"fmt"
	"math"
	"sort"

	"lingocast/internal/services"
)

// Word is a single timed token inside a line.
type Word struct {
	Word  string  `json:"word"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// Line is one caption of the transcript. Times are seconds from the start of
// the episode and cover the half-open span [Start, End).
type Line struct {
	Start       float64 `json:"start"`
	End         float64 `json:"end"`
	Text        string  `json:"text"`
	Translation string  `json:"translation"`
	Words       []Word  `json:"words,omitempty"`
}

// Contains reports whether pos falls inside [Start, End).
func (l Line) Contains(pos float64) bool {
	return l.Start <= pos && pos < l.End
}

// Transcript is an ordered, read-only sequence of lines.
type Transcript struct {
	lines      []Line
	wellFormed bool
	// wordsSorted[i] reports whether line i's words can be binary searched.
	wordsSorted []bool
}

// New builds a Transcript from lines. The slice is copied.
func New(lines []Line) *Transcript {
	copied := make([]Line, len(lines))
	for i, line := range lines {
		copied[i] = line
		if line.Words != nil {
			copied[i].Words = append([]Word(nil), line.Words...)
		}
	}
	t := &Transcript{
		lines:       copied,
		wellFormed:  spansOrdered(len(copied), func(i int) (float64, float64) { return copied[i].Start, copied[i].End }),
		wordsSorted: make([]bool, len(copied)),
	}
	for i, line := range copied {
		words := line.Words
		t.wordsSorted[i] = spansOrdered(len(words), func(j int) (float64, float64) { return words[j].Start, words[j].End })
	}
	return t
}

// Len returns the number of lines.
func (t *Transcript) Len() int {
	if t == nil {
		return 0
	}
	return len(t.lines)
}

// Line returns the line at index i.
func (t *Transcript) Line(i int) (Line, bool) {
	if t == nil || i < 0 || i >= len(t.lines) {
		return Line{}, false
	}
	return t.lines[i], true
}

// Lines returns a copy of all lines.
func (t *Transcript) Lines() []Line {
	if t == nil {
		return nil
	}
	out := make([]Line, len(t.lines))
	copy(out, t.lines)
	return out
}

// WellFormed reports whether lines are ordered by start and do not overlap.
func (t *Transcript) WellFormed() bool {
	return t != nil && t.wellFormed
}

// Duration returns the end of the last-ending line.
func (t *Transcript) Duration() float64 {
	var end float64
	if t == nil {
		return 0
	}
	for _, line := range t.lines {
		end = math.Max(end, line.End)
	}
	return end
}

// ActiveLineIndex returns the first line whose span contains pos. It reports
// false for positions in gaps between lines and past the final line.
func (t *Transcript) ActiveLineIndex(pos float64) (int, bool) {
	if t == nil || math.IsNaN(pos) {
		return -1, false
	}
	return spanIndex(len(t.lines), t.wellFormed, pos, func(i int) (float64, float64) {
		return t.lines[i].Start, t.lines[i].End
	})
}

// ActiveWordIndex returns the first word of line lineIndex whose span
// contains pos.
func (t *Transcript) ActiveWordIndex(lineIndex int, pos float64) (int, bool) {
	if t == nil || lineIndex < 0 || lineIndex >= len(t.lines) || math.IsNaN(pos) {
		return -1, false
	}
	words := t.lines[lineIndex].Words
	return spanIndex(len(words), t.wordsSorted[lineIndex], pos, func(i int) (float64, float64) {
		return words[i].Start, words[i].End
	})
}

// Validate rejects transcripts that cannot drive playback.
func (t *Transcript) Validate() error {
	if t.Len() == 0 {
		return services.Wrap(services.ErrValidation, "transcript", "validate", "transcript has no lines", nil)
	}
	for i, line := range t.lines {
		if !finite(line.Start) || !finite(line.End) || line.Start < 0 {
			return services.Wrap(services.ErrValidation, "transcript", "validate",
				fmt.Sprintf("line %d has invalid offsets %v..%v", i, line.Start, line.End), nil)
		}
		if line.Start >= line.End {
			return services.Wrap(services.ErrValidation, "transcript", "validate",
				fmt.Sprintf("line %d starts at %v but ends at %v", i, line.Start, line.End), nil)
		}
		prev := line.Start
		for j, word := range line.Words {
			if !finite(word.Start) || !finite(word.End) || word.Start > word.End {
				return services.Wrap(services.ErrValidation, "transcript", "validate",
					fmt.Sprintf("line %d word %d has invalid offsets %v..%v", i, j, word.Start, word.End), nil)
			}
			if word.Start < line.Start || word.End > line.End {
				return services.Wrap(services.ErrValidation, "transcript", "validate",
					fmt.Sprintf("line %d word %d escapes its line", i, j), nil)
			}
			if word.Start < prev {
				return services.Wrap(services.ErrValidation, "transcript", "validate",
					fmt.Sprintf("line %d word %d goes backwards", i, j), nil)
			}
			prev = word.Start
		}
	}
	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// spansOrdered reports whether spans are sorted by start with each span ending
// at or before the next one starts.
func spansOrdered(n int, span func(int) (float64, float64)) bool {
	for i := 1; i < n; i++ {
		prevStart, prevEnd := span(i - 1)
		start, _ := span(i)
		if start < prevStart || start < prevEnd {
			return false
		}
	}
	return true
}

func spanIndex(n int, ordered bool, pos float64, span func(int) (float64, float64)) (int, bool) {
	if n == 0 {
		return -1, false
	}
	if ordered {
		// Last span starting at or before pos; ordering makes it the only candidate.
		i := sort.Search(n, func(i int) bool {
			start, _ := span(i)
			return start > pos
		}) - 1
		if i >= 0 {
			if start, end := span(i); start <= pos && pos < end {
				return i, true
			}
		}
		return -1, false
	}
	for i := range n {
		if start, end := span(i); start <= pos && pos < end {
			return i, true
		}
	}
	return -1, false
}
