// Package loop implements the A/B repeat state machine.
//
// Marking cycles Unset -> A-Marked -> Active -> Unset. The region is always
// stored as [A, B) with A < B: a second mark before the first swaps the
// points and a second mark equal to the first is ignored.
package loop
