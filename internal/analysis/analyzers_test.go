package analysis_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"lingocast/internal/analysis"
	"lingocast/internal/services"
	"lingocast/internal/services/llm"
	"lingocast/internal/testsupport"
)

const sampleAnalysis = `{"vocabulary":[{"word":"estás","root":"estar","meaning":"you are","partOfSpeech":"verb"}],"grammarPoints":[{"structure":"estar + adjective","explanation":"temporary state"}],"culturalNuance":"Informal greeting."}`

func TestBackendPostsTextAndDecodesResult(t *testing.T) {
	var got map[string]string
	var requestID string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/ai/analyze" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		requestID = r.Header.Get("X-Request-ID")
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		_, _ = w.Write([]byte(`{"success":true,"data":` + sampleAnalysis + `}`))
	}))
	defer server.Close()

	backend, err := analysis.NewBackend(server.URL+"/api/", server.Client())
	if err != nil {
		t.Fatalf("NewBackend returned error: %v", err)
	}
	result, err := backend.Analyze(context.Background(), analysis.Request{Text: "¿Cómo estás?", Translation: "ignored", RequestID: "req-1"})
	if err != nil {
		t.Fatalf("Analyze returned error: %v", err)
	}
	if len(got) != 1 || got["text"] != "¿Cómo estás?" {
		t.Fatalf("expected body with only text, got %v", got)
	}
	if requestID != "req-1" {
		t.Fatalf("unexpected request id header %q", requestID)
	}
	if len(result.Vocabulary) != 1 || result.Vocabulary[0].Root != "estar" || result.Vocabulary[0].PartOfSpeech != "verb" {
		t.Fatalf("unexpected vocabulary: %+v", result.Vocabulary)
	}
	if len(result.GrammarPoints) != 1 || result.CulturalNuance != "Informal greeting." {
		t.Fatalf("unexpected result: %+v", result)
	}
}

func TestBackendFailures(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{name: "server error", status: http.StatusInternalServerError, body: `{"error":"boom"}`},
		{name: "success false", status: http.StatusOK, body: `{"success":false,"error":"quota exceeded"}`},
		{name: "empty data", status: http.StatusOK, body: `{"success":true,"data":{}}`},
		{name: "malformed", status: http.StatusOK, body: `not json`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			backend, err := analysis.NewBackend(server.URL, server.Client())
			if err != nil {
				t.Fatalf("NewBackend returned error: %v", err)
			}
			if _, err := backend.Analyze(context.Background(), analysis.Request{Text: "hola"}); !errors.Is(err, services.ErrAnalysis) {
				t.Fatalf("expected analysis error, got %v", err)
			}
		})
	}
}

func TestBackendStatusErrorIsInspectable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "slow down", http.StatusTooManyRequests)
	}))
	defer server.Close()

	backend, _ := analysis.NewBackend(server.URL, server.Client())
	_, err := backend.Analyze(context.Background(), analysis.Request{Text: "hola"})
	var statusErr *services.HTTPStatusError
	if !errors.As(err, &statusErr) || statusErr.StatusCode != http.StatusTooManyRequests {
		t.Fatalf("expected HTTPStatusError 429, got %v", err)
	}
}

type stubCompleter struct {
	content string
	err     error
	user    string
}

func (s *stubCompleter) CompleteJSON(_ context.Context, _, userPrompt string) (string, error) {
	s.user = userPrompt
	return s.content, s.err
}

func TestLLMAnalyzerDecodesFencedJSON(t *testing.T) {
	stub := &stubCompleter{content: "Here you go:\n```json\n" + sampleAnalysis + "\n```"}
	result, err := analysis.NewLLM(stub).Analyze(context.Background(), analysis.Request{Text: "¿Cómo estás?", Translation: "How are you?"})
	if err != nil {
		t.Fatalf("Analyze returned error: %v", err)
	}
	if result.CulturalNuance != "Informal greeting." {
		t.Fatalf("unexpected result: %+v", result)
	}
	if stub.user != "Line: ¿Cómo estás?\nTranslation: How are you?\n" {
		t.Fatalf("unexpected user prompt %q", stub.user)
	}
}

func TestLLMAnalyzerFailures(t *testing.T) {
	for name, stub := range map[string]*stubCompleter{
		"completion error": {err: errors.New("upstream down")},
		"not json":         {content: "I cannot help with that."},
		"empty object":     {content: "{}"},
	} {
		t.Run(name, func(t *testing.T) {
			if _, err := analysis.NewLLM(stub).Analyze(context.Background(), analysis.Request{Text: "hola"}); !errors.Is(err, services.ErrAnalysis) {
				t.Fatalf("expected analysis error, got %v", err)
			}
		})
	}
}

func TestLLMAnalyzerWithChatClient(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer test-key" {
			t.Errorf("missing bearer token")
		}
		content, _ := json.Marshal(sampleAnalysis)
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":` + string(content) + `}}]}`))
	}))
	defer server.Close()

	client := llm.NewClient(llm.Config{APIKey: "test-key", BaseURL: server.URL, Model: "test/model"}, llm.WithHTTPClient(server.Client()))
	result, err := analysis.NewLLM(client).Analyze(context.Background(), analysis.Request{Text: "hola"})
	if err != nil {
		t.Fatalf("Analyze returned error: %v", err)
	}
	if len(result.Vocabulary) != 1 {
		t.Fatalf("unexpected result: %+v", result)
	}
}

func TestNewAnalyzerFromConfig(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	analyzer, err := analysis.NewAnalyzer(cfg)
	if err != nil || analyzer != nil {
		t.Fatalf("expected no analyzer without api url, got %v, %v", analyzer, err)
	}

	cfg = testsupport.NewConfig(t, testsupport.WithAPI("https://api.example.com"))
	analyzer, err = analysis.NewAnalyzer(cfg)
	if err != nil {
		t.Fatalf("NewAnalyzer returned error: %v", err)
	}
	if _, ok := analyzer.(*analysis.Backend); !ok {
		t.Fatalf("expected backend analyzer, got %T", analyzer)
	}

	cfg = testsupport.NewConfig(t, testsupport.WithLLM("https://llm.example.com/v1/chat/completions", ""))
	if _, err := analysis.NewAnalyzer(cfg); !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error without api key, got %v", err)
	}

	cfg = testsupport.NewConfig(t, testsupport.WithLLM("https://llm.example.com/v1/chat/completions", "key"))
	analyzer, err = analysis.NewAnalyzer(cfg)
	if err != nil {
		t.Fatalf("NewAnalyzer returned error: %v", err)
	}
	if _, ok := analyzer.(*analysis.LLM); !ok {
		t.Fatalf("expected llm analyzer, got %T", analyzer)
	}
}
