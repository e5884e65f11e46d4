// Package episode describes a playable audio episode and derives the stable
// key used to cache its transcript.
package episode
