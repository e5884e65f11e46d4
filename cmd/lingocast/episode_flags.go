package main

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"lingocast/internal/episode"
)

type episodeFlags struct {
	guid  string
	title string
	audio string
}

func (f *episodeFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.guid, "guid", "", "Episode GUID from the feed")
	cmd.Flags().StringVar(&f.title, "title", "", "Episode title")
	cmd.Flags().StringVar(&f.audio, "audio", "", "Episode audio URL")
}

// episode validates the flags. requireAudio is set by commands that may
// need to generate a transcript from the audio.
func (f *episodeFlags) episode(requireAudio bool) (episode.Episode, error) {
	ep := episode.Episode{
		GUID:     strings.TrimSpace(f.guid),
		Title:    strings.TrimSpace(f.title),
		AudioURL: strings.TrimSpace(f.audio),
	}
	switch {
	case requireAudio && ep.AudioURL == "":
		return ep, errors.New("--audio is required")
	case ep.GUID == "" && ep.Title == "" && ep.AudioURL == "":
		return ep, errors.New("provide --guid, or --title and --audio")
	}
	return ep, nil
}
