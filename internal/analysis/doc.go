// Package analysis runs deep-dive grammar and vocabulary analysis for one
// transcript line at a time.
//
// Controller owns the request lifecycle (Idle -> Pending -> Ready | Failed
// -> Idle). Opening an analysis pauses playback and tags the request with a
// fresh token; a newer Open or a Close makes older responses stale and they
// are dropped when they arrive. Requests are not cancelled on Close: they
// finish under their own timeout and are ignored.
//
// Two Analyzer implementations exist. Backend posts the line text to the
// API service at {api}/ai/analyze; LLM sends a JSON-only prompt to an
// OpenRouter-compatible chat completion endpoint.
package analysis
