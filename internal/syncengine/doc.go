// Package syncengine turns playback positions into highlight, scroll and
// loop side effects.
//
// Each Tick first enforces the A/B loop, seeking back to A when the
// position reaches B and skipping highlight work for that tick. Otherwise
// it resolves the active line and word from the current transcript and
// notifies the Observer of changes. Ticks are expected to come from a
// single goroutine: the clock's time update subscriber or a FrameLoop.
package syncengine
