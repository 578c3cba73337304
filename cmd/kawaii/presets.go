package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-voice/preset"
)

var presetsJSON bool

var presetsCmd = &cobra.Command{
	Use:   "presets",
	Short: "List the built-in presets",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		w := cmd.OutOrStdout()
		if presetsJSON {
			enc := json.NewEncoder(w)
			enc.SetIndent("", "  ")
			return enc.Encode(preset.Builtin())
		}

		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "NAME\tF0\tF1\tF2\tF3\tLINK\tDESCRIPTION")
		for _, p := range preset.Builtin() {
			fmt.Fprintf(tw, "%s\t%.2f\t%.2f\t%.2f\t%.2f\t%t\t%s\n",
				p.Name, p.F0Ratio, p.Formants.F1, p.Formants.F2, p.Formants.F3, p.FormantLink, p.Description)
		}
		return tw.Flush()
	},
}

func init() {
	presetsCmd.Flags().BoolVar(&presetsJSON, "json", false, "print presets as JSON")
}
