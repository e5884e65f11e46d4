// Package transcriptcache resolves the transcript for an episode through a
// strictly sequential chain of tiers: the local SQLite cache, the remote
// content-addressed store, on-demand generation, and finally the built-in
// fallback transcript.
//
// Load never fails outright. Cache misses are logged and skipped; a
// generation failure yields the fallback transcript flagged Degraded with Err
// wrapping services.ErrGeneration so callers can warn the user. Status
// callbacks let a UI distinguish a quick lookup from a long generation wait.
package transcriptcache
