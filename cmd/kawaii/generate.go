package main

import (
	"fmt"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/cwbudde/algo-voice/audiofile"
	"github.com/cwbudde/algo-voice/dsp/core"
	"github.com/cwbudde/algo-voice/dsp/signal"
)

const (
	toneAmplitude = 0.3
	toneFade      = 0.01
)

var generateCmd = &cobra.Command{
	Use:     "generate OUT",
	Short:   "Write a test signal as WAV",
	Example: "kawaii generate tone.wav --freq 440\nkawaii generate vowel.wav --kind voice --duration 3",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f := cmd.Flags()
		kind, _ := f.GetString("kind")
		freq, _ := f.GetFloat64("freq")
		dur, _ := f.GetDuration("duration")
		seed, _ := f.GetInt64("seed")

		rate := viper.GetInt("sample_rate")
		x, err := generate(kind, freq, dur, rate, seed)
		if err != nil {
			return err
		}

		out := args[0]
		if err := audiofile.WriteWAVFile(out, core.Float32(x), rate); err != nil {
			return err
		}
		st, err := os.Stat(out)
		if err != nil {
			return fmt.Errorf("unable to stat output: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s %s (%s)\n", kind, out, humanize.Bytes(uint64(st.Size())))
		return nil
	},
}

func init() {
	f := generateCmd.Flags()
	f.String("kind", "sine", "signal kind: sine, sweep, voice or noise")
	f.Float64("freq", 440, "sine frequency or voice fundamental in Hz")
	f.Duration("duration", time.Second, "signal length")
	f.Int64("seed", 1, "noise seed")
}

func generate(kind string, freq float64, dur time.Duration, rate int, seed int64) ([]float64, error) {
	g := signal.NewGeneratorWithOptions(
		[]core.ProcessorOption{core.WithSampleRate(float64(rate))},
		signal.WithSeed(seed),
	)
	n := g.Samples(dur.Seconds())

	var (
		x   []float64
		err error
	)
	switch kind {
	case "sine":
		x, err = g.Sine(freq, toneAmplitude, n)
	case "sweep":
		x, err = g.Sweep(freq/4, freq*4, n)
	case "voice":
		x, err = g.VoiceWith(freq, []float64{700, 1200, 2500}, n)
	case "noise":
		x, err = g.WhiteNoise(toneAmplitude, n)
	default:
		return nil, fmt.Errorf("unknown signal kind %q", kind)
	}
	if err != nil {
		return nil, err
	}
	if kind != "sweep" {
		signal.Fade(x, g.Samples(toneFade))
	}
	return x, nil
}
