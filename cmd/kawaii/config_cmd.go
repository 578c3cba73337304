package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const defaultConfig = `# output device sample rate in Hz
sample_rate: 44100
# frames requested per device callback
buffer_size: 512
# playback volume (0.0 to 1.0)
volume: 1.0
# loop playback over the loop region or whole clip
loop: true
# crossfade at the loop seam in milliseconds (0 to 500)
loop_crossfade_ms: 50

# default transform, each ratio in [0.5, 2.0]
f0_ratio: 1.0
formant_ratios:
  f1: 1.0
  f2: 1.0
  f3: 1.0
# move all three formant bands together
formant_link: true

debug: false
`

var initConfig bool

var configCmd = &cobra.Command{
	Use:     "config",
	Short:   "Show the effective kawaii configuration",
	Example: "kawaii config\nkawaii config --init\nkawaii config --config path/to/kawaii.yaml",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		file, err := defaultConfigPath()
		if err != nil {
			return err
		}
		if initConfig {
			if err := ensureConfigFile(file); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Wrote config file to:", file)
			return nil
		}
		if viper.ConfigFileUsed() == "" {
			file += " (not found, using defaults)"
		}
		fmt.Fprintln(cmd.OutOrStdout(), "config file:", file)
		printSettings(cmd.OutOrStdout(), viper.GetViper())
		return nil
	},
}

func init() {
	configCmd.Flags().BoolVar(&initConfig, "init", false, "write the default config file if it does not exist")
}

func printSettings(w io.Writer, v *viper.Viper) {
	keys := v.AllKeys()
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(w, "  %-22s %v\n", k, v.Get(k))
	}
}

func ensureConfigFile(file string) error {
	if ext := path.Ext(file); ext != ".yaml" && ext != ".yml" {
		return fmt.Errorf("'%s' is not a supported configuration type: use '%s' or '%s'", ext, ".yaml", ".yml")
	}

	if _, err := os.Stat(file); errors.Is(err, fs.ErrNotExist) {
		if err := os.MkdirAll(filepath.Dir(file), 0o700); err != nil {
			return fmt.Errorf("unable create directory: %w", err)
		}

		f, err := os.Create(file)
		if err != nil {
			return fmt.Errorf("unable to create config file: %w", err)
		}
		defer func() { _ = f.Close() }()

		if _, err := f.WriteString(defaultConfig); err != nil {
			return fmt.Errorf("unable to write config file: %w", err)
		}
	} else if err != nil {
		return fmt.Errorf("unable to stat config file: %w", err)
	}
	return nil
}
