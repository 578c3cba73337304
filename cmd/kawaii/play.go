package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/cwbudde/algo-voice/playback"
)

const pollInterval = 100 * time.Millisecond

var playCmd = &cobra.Command{
	Use:   "play IN",
	Short: "Transform a recording and play it through the audio device",
	Long: "play renders the transformed clip and plays it, looping over the loop\n" +
		"region (or the whole clip) until interrupted or --duration elapses.",
	Example: "kawaii play in.wav --preset cute1\nkawaii play in.wav --loop-start 0.5 --loop-end 1.5 --crossfade 80",
	Args:    cobra.ExactArgs(1),
	PreRun: func(cmd *cobra.Command, _ []string) {
		bindTransformFlags(cmd)
		f := cmd.Flags()
		_ = viper.BindPFlag("volume", f.Lookup("volume"))
		_ = viper.BindPFlag("loop", f.Lookup("loop"))
		_ = viper.BindPFlag("loop_crossfade_ms", f.Lookup("crossfade"))
	},
	RunE: runPlay,
}

func init() {
	addTransformFlags(playCmd)
	f := playCmd.Flags()
	f.Float64("loop-start", 0, "loop region start in seconds")
	f.Float64("loop-end", 0, "loop region end in seconds (0 plays to the end)")
	f.Float64("crossfade", 50, "loop seam crossfade in milliseconds")
	f.Float64("volume", 1.0, "playback volume in [0, 1]")
	f.Bool("loop", true, "loop playback")
	f.Duration("duration", 0, "stop after this long (0 plays until interrupted or the clip ends)")
}

func runPlay(cmd *cobra.Command, args []string) error {
	f := cmd.Flags()

	e, err := newEngine(cmd)
	if err != nil {
		return err
	}
	if err := e.LoadFile(args[0]); err != nil {
		return err
	}

	start := time.Now()
	audio := e.ProcessedAudio()
	log.Debug("Rendered", "samples", len(audio), "took", time.Since(start))

	s := playback.New(e, playback.NewOtoOpener(),
		playback.WithBlockSize(viper.GetInt("buffer_size")),
		playback.WithVolume(viper.GetFloat64("volume")),
		playback.WithLoop(viper.GetBool("loop")),
		playback.WithCrossfade(viper.GetFloat64("loop_crossfade_ms")),
		playback.WithLogger(log.Default()),
	)

	if f.Changed("loop-start") || f.Changed("loop-end") {
		ls, _ := f.GetFloat64("loop-start")
		le, _ := f.GetFloat64("loop-end")
		s.SetLoopRegion(ls, le)
		ls, le = s.LoopRegion()
		s.Seek(ls)
		log.Debug("Loop region", "start", ls, "end", le)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()
	if d, _ := f.GetDuration("duration"); d > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d)
		defer cancel()
	}

	if err := s.Start(); err != nil {
		return err
	}
	defer s.Stop()

	fmt.Fprintf(cmd.OutOrStdout(), "Playing %s (%s), Ctrl-C to stop\n", args[0], describe(e.Parameters(), e.Bypass()))
	return waitPlayback(ctx, s)
}

// waitPlayback blocks until ctx is done or the scheduler stops on its own.
func waitPlayback(ctx context.Context, s *playback.Scheduler) error {
	t := time.NewTicker(pollInterval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-t.C:
			if !s.IsPlaying() {
				return nil
			}
			log.Debug("Position", "sec", fmt.Sprintf("%.2f", s.Position()))
		}
	}
}
