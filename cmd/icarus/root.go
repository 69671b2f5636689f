package main

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	configPath string
	resultsDir string
	verbose    bool
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "icarus",
		Short: "Run the icarus constellation attack-simulation pipeline",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := zerolog.InfoLevel
			if verbose {
				level = zerolog.DebugLevel
			}
			zerolog.SetGlobalLevel(level)
			log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}).With().Timestamp().Logger()
		},
	}
	cmd.PersistentFlags().StringVar(&configPath, "config", "icarus.yaml", "path to the run configuration file")
	cmd.PersistentFlags().StringVar(&resultsDir, "results-dir", "results", "directory persisted phase artifacts are cached under")
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	cmd.AddCommand(newRunCmd())
	cmd.AddCommand(newCacheCmd())
	return cmd
}
