// Command lingocast resolves podcast transcripts and plays them back with
// synchronized highlighting against a simulated media clock.
//
// Commands:
//
//	lingocast key        print the cache key of an episode
//	lingocast feed       list the episodes of a podcast feed
//	lingocast transcript resolve an episode transcript through the caches
//	lingocast play       simulate synchronized playback in the terminal
//	lingocast analyze    analyse one transcript line
//	lingocast cache      inspect and prune the local transcript cache
//	lingocast config     create or show configuration
//
// Environment variables from a .env file in the working directory are
// loaded before configuration.
package main
