// Package feed reads podcast RSS and Atom feeds into episodes.
package feed
