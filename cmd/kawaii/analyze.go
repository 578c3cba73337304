package main

import (
	"fmt"
	"io"
	"sort"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-voice/dsp/core"
	"github.com/cwbudde/algo-voice/dsp/vocoder"
	freqstats "github.com/cwbudde/algo-voice/stats/frequency"
	timestats "github.com/cwbudde/algo-voice/stats/time"
)

var analyzeProcessed bool

var analyzeCmd = &cobra.Command{
	Use:     "analyze IN",
	Short:   "Print pitch, level and spectral statistics of a recording",
	Example: "kawaii analyze in.wav\nkawaii analyze in.wav --processed --preset anime",
	Args:    cobra.ExactArgs(1),
	PreRun: func(cmd *cobra.Command, _ []string) {
		bindTransformFlags(cmd)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := newEngine(cmd)
		if err != nil {
			return err
		}
		if err := e.LoadFile(args[0]); err != nil {
			return err
		}

		w := cmd.OutOrStdout()
		a := e.Analysis()
		rate := float64(e.SampleRate())

		fmt.Fprintf(w, "file:          %s\n", args[0])
		fmt.Fprintf(w, "duration:      %.3fs (%s samples at %d Hz)\n",
			e.Duration(), humanize.Comma(int64(len(e.Original()))), e.SampleRate())
		fmt.Fprintf(w, "frames:        %d x %d bins (fft %d, %.0f ms)\n",
			a.Frames(), a.Bins(), a.FFTSize, a.FramePeriod*1000)
		printF0(w, a)
		printLevel(w, "original", timestats.Calculate(e.Original(), rate))

		spec := freqstats.Calculate(freqstats.Mean(a.Envelope), rate)
		fmt.Fprintf(w, "centroid:      %.1f Hz\n", spec.Centroid)
		fmt.Fprintf(w, "rolloff:       %.1f Hz\n", spec.Rolloff)
		fmt.Fprintf(w, "flatness:      %.3f\n", spec.Flatness)

		if analyzeProcessed {
			fmt.Fprintf(w, "transform:     %s\n", describe(e.Parameters(), e.Bypass()))
			printLevel(w, "processed", timestats.Calculate(core.Float64(e.ProcessedAudio()), rate))
		}
		return nil
	},
}

func init() {
	addTransformFlags(analyzeCmd)
	analyzeCmd.Flags().BoolVar(&analyzeProcessed, "processed", false, "also render the transform and report its level")
}

func printF0(w io.Writer, a *vocoder.Analysis) {
	voiced := make([]float64, 0, len(a.F0))
	for _, f := range a.F0 {
		if f > 0 {
			voiced = append(voiced, f)
		}
	}
	fmt.Fprintf(w, "voiced:        %.1f%%\n", 100*a.VoicedRatio())
	if len(voiced) == 0 {
		fmt.Fprintln(w, "f0:            unvoiced")
		return
	}
	sort.Float64s(voiced)
	sum := 0.0
	for _, f := range voiced {
		sum += f
	}
	fmt.Fprintf(w, "f0:            min %.1f, median %.1f, mean %.1f, max %.1f Hz\n",
		voiced[0], voiced[len(voiced)/2], sum/float64(len(voiced)), voiced[len(voiced)-1])
}

func printLevel(w io.Writer, label string, st timestats.Stats) {
	fmt.Fprintf(w, "%-14s rms %.1f dBFS, peak %.1f dBFS, crest %.1f dB\n",
		label+":", st.RMS_dB, st.Peak_dB, st.CrestFactor_dB)
}
