package analysis

import (
	"context"
	"fmt"
	"strings"

	"lingocast/internal/services"
	"lingocast/internal/services/llm"
)

// analysisPrompt instructs the model to return an analysis object. Keep the
// field names in sync with Result.
const analysisPrompt = `You are a language tutor helping a learner understand one line of a podcast transcript.

Explain the line for a learner whose native language is English:

- "vocabulary": the words worth learning, each with "word", "root" (dictionary form), "meaning" and "partOfSpeech".
- "grammarPoints": the notable structures, each with "structure" and "explanation".
- "culturalNuance": one short paragraph about idioms, register or cultural context. Use an empty string when there is nothing to add.

You must respond ONLY with a JSON object like: {"vocabulary": [{"word": "estás", "root": "estar", "meaning": "you are", "partOfSpeech": "verb"}], "grammarPoints": [{"structure": "estar + adjective", "explanation": "temporary state"}], "culturalNuance": ""}`

// Completer issues a JSON-only chat completion; llm.Client satisfies it.
type Completer interface {
	CompleteJSON(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// LLM analyses lines by prompting a chat completion model directly.
type LLM struct {
	completer Completer
}

// NewLLM returns an analyzer backed by completer.
func NewLLM(completer Completer) *LLM {
	return &LLM{completer: completer}
}

// Analyze prompts the model with the line and its translation.
func (a *LLM) Analyze(ctx context.Context, req Request) (*Result, error) {
	var user strings.Builder
	fmt.Fprintf(&user, "Line: %s\n", strings.TrimSpace(req.Text))
	if translation := strings.TrimSpace(req.Translation); translation != "" {
		fmt.Fprintf(&user, "Translation: %s\n", translation)
	}
	content, err := a.completer.CompleteJSON(ctx, analysisPrompt, user.String())
	if err != nil {
		return nil, services.Wrap(services.ErrAnalysis, "analysis", "llm completion", "", err)
	}
	var result Result
	if err := llm.DecodeJSON(content, &result); err != nil {
		return nil, services.Wrap(services.ErrAnalysis, "analysis", "decode llm response", "", err)
	}
	if result.Empty() {
		return nil, services.Wrap(services.ErrAnalysis, "analysis", "decode llm response", "empty analysis", nil)
	}
	return &result, nil
}
