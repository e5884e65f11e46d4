// Package llm provides an OpenRouter-compatible chat client that returns JSON
// payloads.
//
// The line analyzer uses it when analysis.provider is "llm": it sends a system
// prompt describing the AnalysisResult shape plus the transcript line, and
// decodes the reply with DecodeJSON, which strips code fences and surrounding
// prose.
//
// # Retry Behaviour
//
// The client retries on HTTP 408/429/5xx, empty-content replies, and network
// timeouts with exponential backoff (base 1s, max 10s, 3 attempts by default).
// Retry-After headers are honoured up to the max delay. Context cancellation
// aborts retries immediately.
package llm
