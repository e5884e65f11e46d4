package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"lingocast/internal/cachestore"
	"lingocast/internal/episode"
	"lingocast/internal/transcriptcache"
)

func newCacheCommand(ctx *commandContext) *cobra.Command {
	cacheCmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect and prune the local transcript cache",
	}
	cacheCmd.AddCommand(newCacheListCommand(ctx))
	cacheCmd.AddCommand(newCacheShowCommand(ctx))
	cacheCmd.AddCommand(newCacheRemoveCommand(ctx))
	cacheCmd.AddCommand(newCacheClearCommand(ctx))
	return cacheCmd
}

func withStore(ctx *commandContext, fn func(*cachestore.Store) error) error {
	store, err := ctx.openStore()
	if err != nil {
		return err
	}
	if store == nil {
		return errLocalCacheDisabled
	}
	defer store.Close()
	return fn(store)
}

func parseKeyArg(arg string) (episode.Key, error) {
	arg = strings.TrimSpace(arg)
	if !episode.ValidKey(arg) {
		return "", fmt.Errorf("invalid episode key %q (see `lingocast key`)", arg)
	}
	return episode.Key(arg), nil
}

func newCacheListCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List cached transcripts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(ctx, func(store *cachestore.Store) error {
				entries, err := store.List(cmd.Context())
				if err != nil {
					return err
				}
				if asJSON {
					return writeJSON(cmd, entries)
				}
				out := cmd.OutOrStdout()
				if len(entries) == 0 {
					fmt.Fprintln(out, "Transcript cache is empty")
					return nil
				}
				rows := make([][]string, 0, len(entries))
				for _, entry := range entries {
					rows = append(rows, []string{
						entry.Key.String(),
						truncate(entry.Title, 40),
						entry.Source,
						strconv.Itoa(entry.LineCount),
						formatClock(entry.Duration),
						entry.UpdatedAt.Local().Format("2006-01-02 15:04"),
					})
				}
				fmt.Fprintln(out, renderTable([]string{"Key", "Title", "Source", "Lines", "Length", "Updated"}, rows, 3, 4))
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output JSON")
	return cmd
}

func newCacheShowCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "show <key>",
		Short: "Show a cached transcript",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := parseKeyArg(args[0])
			if err != nil {
				return err
			}
			return withStore(ctx, func(store *cachestore.Store) error {
				tr, entry, err := store.Lookup(cmd.Context(), key)
				if err != nil {
					return err
				}
				if !asJSON {
					fmt.Fprintf(cmd.OutOrStdout(), "%s\n%s\n", entry.Title, entry.AudioURL)
				}
				return printTranscript(cmd, transcriptcache.Result{
					Key:        key,
					Transcript: tr,
					Source:     transcriptcache.Source(entry.Source),
				}, asJSON)
			})
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output JSON")
	return cmd
}

func newCacheRemoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <key>",
		Short: "Remove a cached transcript",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := parseKeyArg(args[0])
			if err != nil {
				return err
			}
			return withStore(ctx, func(store *cachestore.Store) error {
				removed, err := store.Delete(cmd.Context(), key)
				if err != nil {
					return err
				}
				if !removed {
					return fmt.Errorf("no cached transcript for %s", key)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", key)
				return nil
			})
		},
	}
}

func newCacheClearCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every cached transcript",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(ctx, func(store *cachestore.Store) error {
				count, err := store.Clear(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %d cached transcript(s)\n", count)
				return nil
			})
		},
	}
}
