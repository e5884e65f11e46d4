package transcriptcache

import (
	"lingocast/internal/episode"
	"lingocast/internal/transcript"
)

// Status reports load progress to the caller.
type Status int

const (
	StatusLoading Status = iota
	// StatusGenerating means the caches missed and the transcript is being
	// generated, which can take minutes.
	StatusGenerating
	StatusReady
	StatusDegraded
)

func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusGenerating:
		return "generating"
	case StatusReady:
		return "ready"
	case StatusDegraded:
		return "degraded"
	default:
		return "unknown"
	}
}

// Source names the tier that produced a transcript.
type Source string

const (
	SourceLocal     Source = "local"
	SourceRemote    Source = "remote"
	SourceGenerated Source = "generated"
	SourceFallback  Source = "fallback"
)

// Result is the outcome of a Load.
type Result struct {
	Key        episode.Key
	Transcript *transcript.Transcript
	Source     Source
	// Degraded is set when Transcript is the fallback rather than real content.
	Degraded bool
	// Err explains why the result is degraded; nil otherwise.
	Err error
}
