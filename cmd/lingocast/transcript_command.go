package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"lingocast/internal/transcript"
	"lingocast/internal/transcriptcache"
)

type transcriptJSON struct {
	Key      string            `json:"key"`
	Source   string            `json:"source"`
	Degraded bool              `json:"degraded"`
	Error    string            `json:"error,omitempty"`
	Segments []transcript.Line `json:"segments"`
}

func newTranscriptCommand(ctx *commandContext) *cobra.Command {
	var flags episodeFlags
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "transcript",
		Short: "Resolve an episode transcript through the caches",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ep, err := flags.episode(true)
			if err != nil {
				return err
			}
			cache, closeCache, err := ctx.newCache()
			if err != nil {
				return err
			}
			defer closeCache()

			result := cache.Load(cmd.Context(), ep, func(status transcriptcache.Status) {
				if status == transcriptcache.StatusGenerating {
					fmt.Fprintln(cmd.ErrOrStderr(), "Generating transcript, this can take a few minutes...")
				}
			})
			if err := cmd.Context().Err(); err != nil {
				return err
			}
			return printTranscript(cmd, result, asJSON)
		},
	}
	flags.bind(cmd)
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output JSON")
	return cmd
}

func printTranscript(cmd *cobra.Command, result transcriptcache.Result, asJSON bool) error {
	if asJSON {
		payload := transcriptJSON{
			Key:      result.Key.String(),
			Source:   string(result.Source),
			Degraded: result.Degraded,
			Segments: result.Transcript.Lines(),
		}
		if result.Err != nil {
			payload.Error = result.Err.Error()
		}
		return writeJSON(cmd, payload)
	}

	if result.Degraded {
		printWarning(cmd, fmt.Sprintf("transcript unavailable (%v); showing the sample transcript", result.Err))
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Key: %s  Source: %s  Lines: %d\n", result.Key, result.Source, result.Transcript.Len())
	fmt.Fprintln(out, renderLines(result.Transcript))
	return nil
}

func renderLines(tr *transcript.Transcript) string {
	lines := tr.Lines()
	rows := make([][]string, 0, len(lines))
	for i, line := range lines {
		rows = append(rows, []string{
			strconv.Itoa(i),
			formatClock(line.Start),
			formatClock(line.End),
			truncate(line.Text, 50),
			truncate(line.Translation, 50),
		})
	}
	return renderTable([]string{"#", "Start", "End", "Text", "Translation"}, rows, 0, 1, 2)
}
