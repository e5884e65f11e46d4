package testsupport

import (
	"encoding/json"
	"testing"

	"lingocast/internal/transcript"
)

// SampleLines returns a small well-formed transcript with a gap between the
// second and third lines.
func SampleLines() []transcript.Line {
	return []transcript.Line{
		{Start: 0, End: 2.5, Text: "Buenos días", Translation: "Good morning", Words: []transcript.Word{
			{Word: "Buenos", Start: 0, End: 1.2},
			{Word: "días", Start: 1.2, End: 2.5},
		}},
		{Start: 2.5, End: 5, Text: "¿Cómo estás?", Translation: "How are you?"},
		{Start: 6, End: 10, Text: "Muy bien, gracias", Translation: "Very well, thanks"},
		{Start: 10, End: 14, Text: "Hasta luego", Translation: "See you later"},
	}
}

// SegmentsJSON encodes lines as {"segments":[...]}.
func SegmentsJSON(t testing.TB, lines []transcript.Line) []byte {
	t.Helper()
	data, err := json.Marshal(map[string]any{"segments": lines})
	if err != nil {
		t.Fatalf("encode segments: %v", err)
	}
	return data
}

// GenerationJSON encodes a successful generation response for lines.
func GenerationJSON(t testing.TB, lines []transcript.Line) []byte {
	t.Helper()
	data, err := json.Marshal(map[string]any{
		"success": true,
		"data":    map[string]any{"segments": lines},
	})
	if err != nil {
		t.Fatalf("encode generation response: %v", err)
	}
	return data
}
