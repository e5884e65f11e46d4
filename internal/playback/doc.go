// Package playback owns the playback position.
//
// Clock wraps a Media implementation (a browser audio element, a native
// player, or SimulatedMedia) and is the only component that writes the
// position. Hosts forward each media progress notification to
// Clock.HandleTimeUpdate, which fans the position out to subscribers.
// Interpolator and FrameLoop refine coarse progress notifications into a
// fixed frame rate for word-level highlighting.
package playback
