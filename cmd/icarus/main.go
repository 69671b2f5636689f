// Command icarus drives the constellation attack-simulation pipeline: it
// loads a run configuration, sequences every phase through the phase
// engine, and persists each phase's output under --results-dir.
package main

import "github.com/rs/zerolog/log"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		log.Fatal().Err(err).Msg("icarus failed")
	}
}
