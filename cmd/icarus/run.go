package main

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/giacgiuliari/icarus-framework/config"
	converters "github.com/giacgiuliari/icarus-framework/converterts"
	"github.com/giacgiuliari/icarus-framework/store"
)

func newRunCmd() *cobra.Command {
	var runIndex int
	var all bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Execute the pipeline for one (or every) parallel configuration run",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}

			fs, err := store.NewFS(resultsDir)
			if err != nil {
				return err
			}
			codec := converters.Codec{}

			indices := []int{runIndex}
			if all {
				indices = indices[:0]
				for i := 0; i < cfg.RunCount(); i++ {
					indices = append(indices, i)
				}
			}

			for _, i := range indices {
				log.Info().Int("run", i).Msg("starting run")
				r := toRun(cfg.Run(i))
				e := buildEngine(r, fs, codec, log.Logger.With().Int("run", i).Logger())
				if err := e.Run(); err != nil {
					return fmt.Errorf("run %d: %w", i, err)
				}
				zoneOut, _ := e.Get("zone_attacks")
				log.Info().Int("run", i).Interface("zone_attacks", zoneOut).Msg("run complete")
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&runIndex, "run", 0, "which parallel run to execute")
	cmd.Flags().BoolVar(&all, "all", false, "execute every parallel run the configuration sweeps")
	return cmd
}

// toRun adapts config.Config.Run's output into the phaseParams-keyed shape
// buildEngine expects.
func toRun(flat map[string]map[string]any) run {
	out := make(run, len(flat))
	for phase, params := range flat {
		out[phase] = phaseParams(params)
	}
	return out
}
