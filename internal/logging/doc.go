// Package logging assembles structured slog loggers and formatting helpers used
// across lingocast components.
//
// It owns the configurable console/JSON handlers and exposes context-aware
// helpers so transcript, analysis, and playback code can tag log lines with
// episode keys, components, and correlation IDs. The package also provides a
// no-op logger for tests and wiring code that cannot fail.
package logging
