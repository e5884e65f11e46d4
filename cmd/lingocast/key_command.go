package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"lingocast/internal/episode"
)

func newKeyCommand() *cobra.Command {
	var flags episodeFlags
	cmd := &cobra.Command{
		Use:         "key",
		Short:       "Print the transcript cache key of an episode",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			ep, err := flags.episode(false)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), episode.ComputeKey(ep))
			return nil
		},
	}
	flags.bind(cmd)
	return cmd
}
