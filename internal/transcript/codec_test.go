package transcript_test

import (
	"errors"
	"reflect"
	"testing"

	"lingocast/internal/transcript"
)

func TestDecodeAcceptsEnvelopeAndBareArray(t *testing.T) {
	want := []transcript.Line{
		{Start: 1, End: 2.5, Text: "Hola", Translation: "Hello", Words: []transcript.Word{{Word: "Hola", Start: 1, End: 1.4}}},
		{Start: 2.5, End: 4, Text: "Adiós", Translation: "Bye"},
	}
	docs := map[string]string{
		"envelope": `{"segments":[{"start":1,"end":2.5,"text":"Hola","translation":"Hello","words":[{"word":"Hola","start":1,"end":1.4}]},{"start":2.5,"end":4,"text":"Adiós","translation":"Bye"}]}`,
		"array":    ` [{"start":1,"end":2.5,"text":"Hola","translation":"Hello","words":[{"word":"Hola","start":1,"end":1.4}]},{"start":2.5,"end":4,"text":"Adiós","translation":"Bye"}]`,
	}
	for name, doc := range docs {
		t.Run(name, func(t *testing.T) {
			tr, err := transcript.Decode([]byte(doc))
			if err != nil {
				t.Fatalf("Decode returned error: %v", err)
			}
			if !reflect.DeepEqual(tr.Lines(), want) {
				t.Fatalf("unexpected lines:\n got %+v\nwant %+v", tr.Lines(), want)
			}
		})
	}
}

func TestDecodeRejectsEmptyAndGarbage(t *testing.T) {
	for _, doc := range []string{"", "  ", `{"segments":[]}`, `[]`, `{}`} {
		if _, err := transcript.Decode([]byte(doc)); !errors.Is(err, transcript.ErrEmptyPayload) {
			t.Fatalf("Decode(%q) = %v, want ErrEmptyPayload", doc, err)
		}
	}
	for _, doc := range []string{"<html>", `{"segments":"nope"}`, `[1,2]`} {
		if _, err := transcript.Decode([]byte(doc)); err == nil {
			t.Fatalf("Decode(%q) expected error", doc)
		}
	}
}

func TestEncodeRoundTrip(t *testing.T) {
	original := transcript.Fallback()
	data, err := transcript.Encode(original)
	if err != nil {
		t.Fatalf("Encode returned error: %v", err)
	}
	decoded, err := transcript.Decode(data)
	if err != nil {
		t.Fatalf("Decode returned error: %v", err)
	}
	if !reflect.DeepEqual(decoded.Lines(), original.Lines()) {
		t.Fatal("round trip changed transcript")
	}
}
