// Package transcript models the time-aligned, translated lines of an episode
// and answers which line and word are active at a playback position.
//
// A Transcript is immutable once built: a new episode gets a new Transcript.
// Lookups use binary search when the lines are ordered and non-overlapping and
// fall back to a linear scan otherwise, so the lowest matching index always
// wins.
package transcript
