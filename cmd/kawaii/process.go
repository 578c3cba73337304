package main

import (
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var processCmd = &cobra.Command{
	Use:     "process IN OUT",
	Short:   "Transform a recording and write it as WAV",
	Example: "kawaii process in.wav out.wav --preset anime\nkawaii process in.mp3 out.wav --f0 1.2 --f1 1.3",
	Args:    cobra.ExactArgs(2),
	PreRun: func(cmd *cobra.Command, _ []string) {
		bindTransformFlags(cmd)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		in, out := args[0], args[1]

		e, err := newEngine(cmd)
		if err != nil {
			return err
		}
		if err := e.LoadFile(in); err != nil {
			return err
		}

		start := time.Now()
		if err := e.Export(out, true); err != nil {
			return err
		}
		log.Debug("Processed", "in", in, "params", describe(e.Parameters(), e.Bypass()), "took", time.Since(start))

		st, err := os.Stat(out)
		if err != nil {
			return fmt.Errorf("unable to stat output: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%s, %.2fs)\n", out, humanize.Bytes(uint64(st.Size())), e.Duration())
		return nil
	},
}

func init() {
	addTransformFlags(processCmd)
}
