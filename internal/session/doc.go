// Package session ties the transcript pipeline to one episode view.
//
// A Session owns the transcript for the episode on screen and wires the
// playback clock, loop controller, sync engine and analysis controller
// together. Loading a new episode cancels the previous load, resets the
// loop and analysis state, and applies the loaded transcript only if no
// newer load started in the meantime, so the view always ends up showing
// the last episode requested regardless of completion order.
package session
