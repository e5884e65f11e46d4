// Package cachestore persists resolved transcripts in a local SQLite database
// keyed by episode key, so an episode played before loads without touching the
// network.
//
// The store keeps one row per episode with the encoded transcript and a little
// metadata for listing. A schema version table guards against opening a
// database written by an incompatible build; `lingocast cache clear` or
// deleting the file recovers.
package cachestore
