// Command kawaii transforms the pitch and formants of recorded voices.
//
// Usage:
//
//	kawaii process in.wav out.wav --preset anime
//	kawaii play in.wav --f0 1.3 --f1 1.5 --loop-start 0.5 --loop-end 2
//	kawaii record take.wav --duration 5s
//	kawaii analyze in.wav
//	kawaii presets
//	kawaii generate tone.wav --kind voice --duration 2
//	kawaii config
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	gap "github.com/muesli/go-app-paths"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	// Version as provided by the build.
	Version = ""

	configFile string
	debug      bool

	rootCmd = &cobra.Command{
		Use:   "kawaii",
		Short: "Reshape voices by pitch and formant ratios",
		Long: "kawaii analyses a recording with a WORLD-style vocoder, rescales its\n" +
			"fundamental frequency and formant bands, and resynthesises it for\n" +
			"export or looping playback.",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			return loadConfig()
		},
	}
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	if Version == "" {
		Version = "unknown (built from source)"
	}
	rootCmd.Version = Version

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default is kawaii.yaml in the user config dir)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	_ = viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))

	viper.SetDefault("sample_rate", 44100)
	viper.SetDefault("buffer_size", 512)
	viper.SetDefault("volume", 1.0)
	viper.SetDefault("loop", true)
	viper.SetDefault("loop_crossfade_ms", 50.0)
	viper.SetDefault("f0_ratio", 1.0)
	viper.SetDefault("formant_ratios.f1", 1.0)
	viper.SetDefault("formant_ratios.f2", 1.0)
	viper.SetDefault("formant_ratios.f3", 1.0)
	viper.SetDefault("formant_link", true)
	viper.SetDefault("debug", false)

	rootCmd.AddCommand(processCmd, playCmd, recordCmd, analyzeCmd, presetsCmd, generateCmd, configCmd)
}

// loadConfig reads the config file named by --config or, failing that, the
// first kawaii.yaml found in the user config directories. A missing file is
// not an error.
func loadConfig() error {
	viper.SetConfigType("yaml")
	viper.SetEnvPrefix("kawaii")
	viper.AutomaticEnv()

	if configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		dirs, err := configDirs()
		if err != nil {
			return err
		}
		for _, d := range dirs {
			viper.AddConfigPath(d)
		}
		viper.SetConfigName("kawaii")
	}

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			log.Warn("Could not parse configuration file", "err", err)
		}
	}

	setupLog(viper.GetBool("debug"))
	if used := viper.ConfigFileUsed(); used != "" {
		log.Debug("Using configuration file", "path", used)
	}
	return nil
}

func configDirs() ([]string, error) {
	scope := gap.NewScope(gap.User, "kawaii")
	dirs, err := scope.ConfigDirs()
	if err != nil {
		return nil, fmt.Errorf("could not find configuration directory: %w", err)
	}
	if c := os.Getenv("KAWAII_CONFIG_HOME"); c != "" {
		dirs = append([]string{c}, dirs...)
	}
	return dirs, nil
}

// defaultConfigPath is where `kawaii config --init` writes when no file is
// in use.
func defaultConfigPath() (string, error) {
	if configFile != "" {
		return configFile, nil
	}
	if used := viper.ConfigFileUsed(); used != "" {
		return used, nil
	}
	dirs, err := configDirs()
	if err != nil {
		return "", err
	}
	return filepath.Join(dirs[0], "kawaii.yaml"), nil
}

func setupLog(debug bool) {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		Prefix:          "kawaii",
		ReportTimestamp: debug,
	})
	if debug {
		logger.SetLevel(log.DebugLevel)
	}
	log.SetDefault(logger)
}
