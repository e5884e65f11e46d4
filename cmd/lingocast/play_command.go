package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"lingocast/internal/config"
	"lingocast/internal/episode"
	"lingocast/internal/playback"
	"lingocast/internal/session"
	"lingocast/internal/transcript"
	"lingocast/internal/transcriptcache"
)

// linePrinter renders engine events as terminal lines.
type linePrinter struct {
	out        io.Writer
	colorize   bool
	words      bool
	transcript func() *transcript.Transcript
}

func (p *linePrinter) OnActiveLineChanged(index int) {
	line, ok := p.transcript().Line(index)
	if !ok {
		return
	}
	stamp := paint("["+formatClock(line.Start)+"]", ansiDim, p.colorize)
	fmt.Fprintf(p.out, "%s %s  %s\n", stamp, paint(line.Text, ansiBold, p.colorize), paint(line.Translation, ansiDim, p.colorize))
}

func (p *linePrinter) OnActiveWordChanged(lineIndex, word int) {
	if !p.words || word < 0 {
		return
	}
	line, ok := p.transcript().Line(lineIndex)
	if !ok || word >= len(line.Words) {
		return
	}
	fmt.Fprintf(p.out, "    %s\n", paint(line.Words[word].Word, ansiCyan, p.colorize))
}

func (p *linePrinter) OnScrollTo(int) {}

func (p *linePrinter) OnLoopSeek(target float64) {
	fmt.Fprintln(p.out, paint("    loop back to "+formatClock(target), ansiYellow, p.colorize))
}

func newPlayCommand(ctx *commandContext) *cobra.Command {
	var flags episodeFlags
	var rate, start, loopA, loopB float64
	var limit time.Duration
	var words bool

	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play an episode transcript against a simulated clock",
		Long: "Resolves the episode transcript and plays it back in real time against a\n" +
			"simulated media clock, printing each line as it becomes active.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ep, err := flags.episode(true)
			if err != nil {
				return err
			}
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			cache, closeCache, err := ctx.newCache()
			if err != nil {
				return err
			}
			defer closeCache()

			out := cmd.OutOrStdout()
			media := playback.NewSimulatedMedia(0)
			clock := playback.NewClock(media, playback.WithClockLogger(logger))
			printer := &linePrinter{out: out, colorize: shouldColorize(out), words: words}
			sess, err := session.NewFromConfig(cfg, cache, clock, logger,
				session.WithObserver(printer),
				session.WithStatusObserver(func(_ episode.Episode, status transcriptcache.Status) {
					if status == transcriptcache.StatusGenerating {
						fmt.Fprintln(cmd.ErrOrStderr(), "Generating transcript, this can take a few minutes...")
					}
				}),
			)
			if err != nil {
				return err
			}
			defer sess.Close()
			printer.transcript = sess.Transcript

			result, _ := sess.Load(cmd.Context(), ep)
			if err := cmd.Context().Err(); err != nil {
				return err
			}
			if banner := sess.Banner(); banner != "" {
				printWarning(cmd, banner)
			}
			media.SetDuration(result.Transcript.Duration())

			if start > 0 {
				if err := clock.Seek(start); err != nil {
					return err
				}
			}
			if rate != 1 {
				if _, err := clock.SetRate(rate); err != nil {
					return err
				}
			}
			if cmd.Flags().Changed("loop-a") || cmd.Flags().Changed("loop-b") {
				if !cmd.Flags().Changed("loop-a") || !cmd.Flags().Changed("loop-b") {
					return errors.New("--loop-a and --loop-b must be given together")
				}
				region := sess.SetLoop(loopA, loopB)
				if !region.Active() {
					return fmt.Errorf("loop points must differ (got %v and %v)", loopA, loopB)
				}
				if limit == 0 {
					limit = time.Duration(3 * region.Length() / clock.Rate() * float64(time.Second))
				}
				if err := clock.Seek(region.A); err != nil {
					return err
				}
			}

			runCtx := cmd.Context()
			if limit > 0 {
				var cancel context.CancelFunc
				runCtx, cancel = context.WithTimeout(runCtx, limit)
				defer cancel()
			}

			fmt.Fprintf(out, "Playing %s (%d lines, %s, %.2gx)\n", ep.Label(), result.Transcript.Len(), formatClock(media.Duration()), clock.Rate())
			if err := clock.Play(); err != nil {
				return err
			}
			err = runPlayback(runCtx, cfg, media, clock, sess)
			if errors.Is(err, context.DeadlineExceeded) {
				err = nil
			}
			if err != nil {
				return err
			}
			_ = clock.Pause()
			fmt.Fprintf(out, "Stopped at %s\n", formatClock(clock.Position()))
			return nil
		},
	}
	flags.bind(cmd)
	cmd.Flags().Float64Var(&rate, "rate", 1, "Playback rate")
	cmd.Flags().Float64Var(&start, "start", 0, "Start position in seconds")
	cmd.Flags().Float64Var(&loopA, "loop-a", 0, "Loop start in seconds")
	cmd.Flags().Float64Var(&loopB, "loop-b", 0, "Loop end in seconds")
	cmd.Flags().DurationVar(&limit, "for", 0, "Stop after this much wall time")
	cmd.Flags().BoolVar(&words, "words", false, "Print each word as it is spoken")
	return cmd
}

// runPlayback drives the session until the media ends or ctx is done. With
// a frame interval configured the engine runs on interpolated positions;
// otherwise it follows the media's progress notifications directly.
func runPlayback(ctx context.Context, cfg *config.Config, media *playback.SimulatedMedia, clock *playback.Clock, sess *session.Session) error {
	// Media that ends inside an active loop pauses itself; wrap and resume
	// it so the loop keeps repeating.
	onUpdate := func() {
		ended := media.Ended()
		clock.HandleTimeUpdate()
		if !ended || !sess.Loop().Active() {
			return
		}
		if media.Ended() {
			sess.Tick(clock.Position())
		}
		if !media.Ended() {
			_ = clock.Play()
		}
	}
	if cfg.FrameInterval() <= 0 {
		detach := sess.Attach()
		defer detach()
		return media.Run(ctx, cfg.TickInterval(), onUpdate)
	}

	interp := playback.NewInterpolator(clock)
	defer interp.Close()
	frameCtx, cancel := context.WithCancel(ctx)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_ = playback.NewFrameLoop(interp, cfg.FrameInterval()).Run(frameCtx, func(pos float64) {
			sess.Tick(pos)
		})
	}()
	err := media.Run(ctx, cfg.TickInterval(), onUpdate)
	cancel()
	wg.Wait()
	return err
}
