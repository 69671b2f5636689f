package main

import "fmt"

// phaseParams is one run's flattened {parameter -> value} map for a single
// phase key, as produced by config.Config.Run.
type phaseParams map[string]any

func intParam(p phaseParams, key string, def int) int {
	v, ok := p[key]
	if !ok {
		return def
	}
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	default:
		return def
	}
}

func floatParam(p phaseParams, key string, def float64) float64 {
	v, ok := p[key]
	if !ok {
		return def
	}
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	case int64:
		return float64(n)
	default:
		return def
	}
}

func stringParam(p phaseParams, key, def string) string {
	v, ok := p[key]
	if !ok {
		return def
	}
	s, ok := v.(string)
	if !ok {
		return def
	}
	return s
}

func int64Param(p phaseParams, key string, def int64) int64 {
	return int64(intParam(p, key, int(def)))
}

func requireInt(p phaseParams, key string) (int, error) {
	v, ok := p[key]
	if !ok {
		return 0, fmt.Errorf("config: missing required parameter %q", key)
	}
	switch n := v.(type) {
	case int:
		return n, nil
	case int64:
		return int(n), nil
	case float64:
		return int(n), nil
	default:
		return 0, fmt.Errorf("config: parameter %q has unexpected type %T", key, v)
	}
}
