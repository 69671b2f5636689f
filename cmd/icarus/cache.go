package main

import (
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func newCacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect or clear persisted phase artifacts",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Delete every persisted artifact under --results-dir",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := os.RemoveAll(resultsDir); err != nil {
				return err
			}
			log.Info().Str("dir", resultsDir).Msg("cache cleared")
			return nil
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "ls",
		Short: "List cached artifact files under --results-dir",
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := os.ReadDir(resultsDir)
			if os.IsNotExist(err) {
				log.Info().Str("dir", resultsDir).Msg("no cache directory yet")
				return nil
			}
			if err != nil {
				return err
			}
			for _, entry := range entries {
				log.Info().Str("file", entry.Name()).Msg("cached artifact")
			}
			return nil
		},
	})
	return cmd
}
