// Package services defines shared utilities consumed by the transcript,
// analysis, and playback components.
//
// Key responsibilities:
//   - Context helpers that stamp episode keys, component names, and correlation
//     identifiers for logging.
//   - Structured error markers plus the Wrap helper so callers can classify
//     failures with errors.Is (cache miss, generation, analysis, playback).
//
// Use these helpers when wiring new components so error handling and
// observability stay uniform.
package services
