// Package config loads the nested {phase_key -> {parameter -> values}}
// configuration spec.md §6 describes via viper, and expands it into the
// parallel list of independent runs a top-level driver iterates over.
package config
