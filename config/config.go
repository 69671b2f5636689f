package config

import (
	"bytes"
	"fmt"

	"github.com/spf13/viper"
)

// PhaseParams maps a phase's parameter name to its configured list of
// values — a sweep's worth of settings for one run index each.
type PhaseParams map[string][]any

// Config is the nested {phase_key -> {parameter -> values}} mapping.
// Recognized phase keys include "lsn", "grid", "gweight", "cover", "rout",
// "edges", "bw_sel", "bw_asg", "atk_constr", "atk_filt", "atk_feas",
// "atk_optim", "zone_select", "zone_build", "zone_edges", "zone_bneck" —
// Config itself is agnostic to which keys are recognized; validating
// phase-specific parameter names is each phase's own job.
type Config map[string]PhaseParams

// Load reads path (any format viper supports — yaml, json, toml,
// determined by its extension) into a Config.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("config: read %q: %w", path, err)
	}
	return fromViper(v)
}

// LoadBytes parses configuration data already in memory; ext names the
// format ("yaml", "json", ...) the way viper's SetConfigType expects.
func LoadBytes(data []byte, ext string) (Config, error) {
	v := viper.New()
	v.SetConfigType(ext)
	if err := v.ReadConfig(bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("config: parse: %w", err)
	}
	return fromViper(v)
}

func fromViper(v *viper.Viper) (Config, error) {
	raw := v.AllSettings()
	cfg := make(Config, len(raw))
	for phase, params := range raw {
		pm, ok := params.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("config: phase %q is not a mapping", phase)
		}
		pp := make(PhaseParams, len(pm))
		for name, val := range pm {
			pp[name] = toList(val)
		}
		cfg[phase] = pp
	}
	return cfg, nil
}

// toList normalizes a raw decoded value to a []any: a sequence stays a
// sequence, a bare scalar becomes its own single-element list, per
// spec.md §6's "parameter -> list-of-values" shape.
func toList(v any) []any {
	if list, ok := v.([]any); ok {
		return list
	}
	return []any{v}
}

// RunCount returns how many parallel runs this config sweeps: the
// longest parameter list across every phase, or 1 if none has more than
// one element.
func (c Config) RunCount() int {
	n := 1
	for _, pp := range c {
		for _, values := range pp {
			if len(values) > n {
				n = len(values)
			}
		}
	}
	return n
}

// Run extracts the i-th parallel run as a flat {phase_key -> {parameter
// -> value}} mapping: each parameter takes its i-th list entry, padded
// with the list's last element once i runs past its length — spec.md
// §6's "shorter lists are padded with their last element."
func (c Config) Run(i int) map[string]map[string]any {
	out := make(map[string]map[string]any, len(c))
	for phase, pp := range c {
		params := make(map[string]any, len(pp))
		for name, values := range pp {
			if len(values) == 0 {
				continue
			}
			idx := i
			if idx >= len(values) {
				idx = len(values) - 1
			}
			params[name] = values[idx]
		}
		out[phase] = params
	}
	return out
}
