package main

import (
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/cwbudde/algo-voice/record"
)

var recordCmd = &cobra.Command{
	Use:   "record [OUT]",
	Short: "Record from the default input device and write WAV",
	Long: "record captures the default input device until interrupted or --duration\n" +
		"elapses. With --transform the take is loaded into the engine and the\n" +
		"transformed result is written instead of the raw capture.",
	Example: "kawaii record take.wav --duration 5s\nkawaii record cute.wav --duration 3s --transform --preset cute1",
	Args:    cobra.MaximumNArgs(1),
	PreRun: func(cmd *cobra.Command, _ []string) {
		bindTransformFlags(cmd)
	},
	RunE: runRecord,
}

func init() {
	addTransformFlags(recordCmd)
	f := recordCmd.Flags()
	f.Duration("duration", 0, "stop after this long (0 records until interrupted)")
	f.Int("channels", 1, "input channels, 1 or 2")
	f.Float64("gain", 1.0, "linear input gain")
	f.Bool("transform", false, "write the transformed take instead of the raw capture")
}

func runRecord(cmd *cobra.Command, args []string) error {
	f := cmd.Flags()

	out := record.FileName(time.Now())
	if len(args) == 1 {
		out = args[0]
	}
	channels, _ := f.GetInt("channels")
	gain, _ := f.GetFloat64("gain")

	opener := record.NewMalgoOpener()
	defer func() {
		if err := opener.Close(); err != nil {
			log.Warn("Closing audio context", "error", err)
		}
	}()

	r := record.New(opener,
		record.WithSampleRate(viper.GetInt("sample_rate")),
		record.WithChannels(channels),
		record.WithGain(gain),
		record.WithLogger(log.Default()),
	)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	var timeout <-chan time.Time
	if d, _ := f.GetDuration("duration"); d > 0 {
		timer := time.NewTimer(d)
		defer timer.Stop()
		timeout = timer.C
	}

	if err := r.Start(); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Recording to %s, Ctrl-C to stop\n", out)

	t := time.NewTicker(pollInterval)
	defer t.Stop()
wait:
	for {
		select {
		case <-ctx.Done():
			break wait
		case <-timeout:
			break wait
		case <-t.C:
			log.Debug("Level", "rms", fmt.Sprintf("%.3f", r.Level()), "sec", fmt.Sprintf("%.2f", r.Duration()))
		}
	}

	clip, err := r.Stop()
	if err != nil {
		return err
	}

	if ok, _ := f.GetBool("transform"); ok {
		e, err := newEngine(cmd)
		if err != nil {
			return err
		}
		if err := record.LoadClip(e, clip); err != nil {
			return err
		}
		if err := e.Export(out, true); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%s, %.2fs)\n", out, describe(e.Parameters(), e.Bypass()), e.Duration())
		return nil
	}

	if err := record.Save(out, clip); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%.2fs)\n", out, clip.Duration())
	return nil
}
