// Package config loads, normalizes, and validates lingocast configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// LINGOCAST_API_BASE_URL and OPENROUTER_API_KEY. The target language is
// canonicalized as a BCP 47 tag so the generation service always receives the
// same spelling for the same language.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, trimmed service URLs, and clear validation errors.
package config
