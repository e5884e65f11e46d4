package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"lingocast/internal/analysis"
	"lingocast/internal/transcript"
)

func newAnalyzeCommand(ctx *commandContext) *cobra.Command {
	var translation string
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "analyze <text>",
		Short: "Explain the vocabulary and grammar of one line",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			analyzer, err := analysis.NewAnalyzer(cfg)
			if err != nil {
				return err
			}
			if analyzer == nil {
				return errors.New("no analysis provider configured: set transcripts.api_base_url or analysis.provider = \"llm\"")
			}

			controller := analysis.NewController(analyzer, nil,
				analysis.WithTimeout(cfg.AnalysisTimeout()),
				analysis.WithLogger(logger),
			)
			controller.Open(cmd.Context(), 0, transcript.Line{Text: strings.Join(args, " "), Translation: translation})
			controller.Wait()

			snap := controller.Snapshot()
			if snap.State != analysis.Ready {
				return snap.Err
			}
			if asJSON {
				return writeJSON(cmd, snap.Result)
			}
			printAnalysis(cmd, snap.Result)
			return nil
		},
	}
	cmd.Flags().StringVar(&translation, "translation", "", "Translation of the line, used as context by the llm provider")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output JSON")
	return cmd
}

func printAnalysis(cmd *cobra.Command, result *analysis.Result) {
	out := cmd.OutOrStdout()
	if len(result.Vocabulary) > 0 {
		rows := make([][]string, 0, len(result.Vocabulary))
		for _, item := range result.Vocabulary {
			rows = append(rows, []string{item.Word, item.Root, item.PartOfSpeech, item.Meaning})
		}
		fmt.Fprintln(out, renderTable([]string{"Word", "Root", "Part of speech", "Meaning"}, rows))
	}
	if len(result.GrammarPoints) > 0 {
		fmt.Fprintln(out, "Grammar:")
		for _, point := range result.GrammarPoints {
			fmt.Fprintf(out, "  - %s: %s\n", point.Structure, point.Explanation)
		}
	}
	if nuance := strings.TrimSpace(result.CulturalNuance); nuance != "" {
		fmt.Fprintf(out, "Cultural note: %s\n", nuance)
	}
}
