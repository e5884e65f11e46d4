package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"lingocast/internal/feed"
)

type feedEpisodeJSON struct {
	Key             string    `json:"key"`
	GUID            string    `json:"guid,omitempty"`
	Title           string    `json:"title"`
	AudioURL        string    `json:"audioUrl"`
	Published       time.Time `json:"published,omitzero"`
	DurationSeconds int       `json:"durationSeconds,omitempty"`
	Notes           string    `json:"notes,omitempty"`
}

func newFeedCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool
	var limit int
	cmd := &cobra.Command{
		Use:   "feed <url>",
		Short: "List the episodes of a podcast feed with their cache keys",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			parsed, err := feed.NewReader(feed.WithLogger(logger)).Fetch(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			items := parsed.Items
			if limit > 0 && len(items) > limit {
				items = items[:limit]
			}

			if asJSON {
				out := make([]feedEpisodeJSON, 0, len(items))
				for _, item := range items {
					out = append(out, feedEpisodeJSON{
						Key:             item.Key.String(),
						GUID:            item.Episode.GUID,
						Title:           item.Episode.Title,
						AudioURL:        item.Episode.AudioURL,
						Published:       item.Episode.Published,
						DurationSeconds: int(item.Episode.Duration.Seconds()),
						Notes:           item.Notes,
					})
				}
				return writeJSON(cmd, out)
			}

			rows := make([][]string, 0, len(items))
			for i, item := range items {
				published := ""
				if !item.Episode.Published.IsZero() {
					published = item.Episode.Published.Format("2006-01-02")
				}
				duration := ""
				if item.Episode.Duration > 0 {
					duration = item.Episode.Duration.String()
				}
				rows = append(rows, []string{
					strconv.Itoa(i + 1),
					item.Key.String(),
					published,
					duration,
					truncate(item.Episode.Title, 60),
				})
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, parsed.Title)
			fmt.Fprintln(out, renderTable([]string{"#", "Key", "Published", "Duration", "Title"}, rows, 0, 3))
			if parsed.Skipped > 0 {
				fmt.Fprintf(out, "%d item(s) without audio skipped\n", parsed.Skipped)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output JSON")
	cmd.Flags().IntVar(&limit, "limit", 0, "Show at most this many episodes")
	return cmd
}
