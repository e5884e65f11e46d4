package transcript

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrEmptyPayload is returned when a payload decodes but contains no lines.
var ErrEmptyPayload = errors.New("transcript payload has no segments")

type segmentsEnvelope struct {
	Segments []Line `json:"segments"`
}

// Decode parses a transcript document. Both {"segments":[...]} and a bare
// array of lines are accepted.
func Decode(data []byte) (*Transcript, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, ErrEmptyPayload
	}
	var lines []Line
	switch trimmed[0] {
	case '[':
		if err := json.Unmarshal(trimmed, &lines); err != nil {
			return nil, fmt.Errorf("decode transcript array: %w", err)
		}
	case '{':
		var envelope segmentsEnvelope
		if err := json.Unmarshal(trimmed, &envelope); err != nil {
			return nil, fmt.Errorf("decode transcript object: %w", err)
		}
		lines = envelope.Segments
	default:
		return nil, fmt.Errorf("decode transcript: unexpected leading byte %q", trimmed[0])
	}
	if len(lines) == 0 {
		return nil, ErrEmptyPayload
	}
	return New(lines), nil
}

// Encode renders the transcript as {"segments":[...]}.
func Encode(t *Transcript) ([]byte, error) {
	return json.Marshal(segmentsEnvelope{Segments: t.Lines()})
}

// MarshalJSON renders the transcript as a bare array of lines.
func (t *Transcript) MarshalJSON() ([]byte, error) {
	lines := t.Lines()
	if lines == nil {
		lines = []Line{}
	}
	return json.Marshal(lines)
}
