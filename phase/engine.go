package phase

import (
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/giacgiuliari/icarus-framework/core"
	"github.com/giacgiuliari/icarus-framework/dfs"
)

// Cache persists and retrieves phase artifacts by cache key. Implementations
// (package store) are free to back this with a filesystem, object store, or
// an in-memory map for tests.
type Cache interface {
	Load(key string) ([]byte, bool, error)
	Store(key string, data []byte) error
}

// Codec serializes a single output value to/from bytes.
type Codec interface {
	Encode(v any) ([]byte, error)
	Decode(data []byte, target any) error
}

// Engine sequences Phases, resolving each one's declared Inputs against the
// property table built by prior phases, and fingerprints every produced
// property with the transitive closure of descriptions that contributed to
// it.
type Engine struct {
	cache Cache
	codec Codec

	phases []Phase

	values map[string]any
	deps   map[string]map[string]struct{} // property -> set of descriptions
}

// NewEngine constructs an Engine. cache/codec may be nil if no phase sets
// ReadCache/WriteCache.
func NewEngine(cache Cache, codec Codec) *Engine {
	return &Engine{
		cache:  cache,
		codec:  codec,
		values: make(map[string]any),
		deps:   make(map[string]map[string]struct{}),
	}
}

// Add registers a phase. Order of registration does not need to match
// execution order; order (called by Run) topologically orders phases by
// their declared Inputs/Outputs before executing any of them.
func (e *Engine) Add(p Phase) error {
	for _, existing := range e.phases {
		if existing.Name == p.Name {
			return fmt.Errorf("%w: %q", ErrDuplicatePhase, p.Name)
		}
		for _, out := range existing.Outputs {
			for _, newOut := range p.Outputs {
				if out == newOut {
					return fmt.Errorf("%w: %q", ErrDuplicateOutput, out)
				}
			}
		}
	}
	e.phases = append(e.phases, p)
	return nil
}

// Get returns a previously produced property value.
func (e *Engine) Get(name string) (any, bool) {
	v, ok := e.values[name]
	return v, ok
}

// order topologically sorts e.phases by their Inputs->Outputs dependency
// edges, reusing dfs.TopologicalSort on a synthetic core.Graph whose
// vertices are phase names.
func (e *Engine) order() ([]Phase, error) {
	producer := make(map[string]string, len(e.phases)) // output property -> phase name
	byName := make(map[string]Phase, len(e.phases))
	for _, p := range e.phases {
		byName[p.Name] = p
		for _, out := range p.Outputs {
			producer[out] = p.Name
		}
	}

	g := core.NewGraph(core.WithDirected(true))
	for _, p := range e.phases {
		if err := g.AddVertex(p.Name); err != nil {
			return nil, err
		}
	}
	for _, p := range e.phases {
		for _, in := range p.Inputs {
			if src, ok := producer[in]; ok {
				if !g.HasEdge(src, p.Name) {
					if _, err := g.AddEdge(src, p.Name, 0); err != nil {
						return nil, err
					}
				}
			}
		}
	}

	if found, cycles, err := dfs.DetectCycles(g); err == nil && found {
		return nil, fmt.Errorf("phase: dependency graph has cycles: %v", cycles)
	}
	sorted, err := dfs.TopologicalSort(g)
	if err != nil {
		return nil, fmt.Errorf("phase: dependency graph is not a DAG: %w", err)
	}
	out := make([]Phase, 0, len(sorted))
	for _, name := range sorted {
		out = append(out, byName[name])
	}
	return out, nil
}

// Run executes every registered phase, in dependency order, publishing
// their outputs to the property table.
func (e *Engine) Run() error {
	ordered, err := e.order()
	if err != nil {
		return err
	}
	for _, p := range ordered {
		if err := e.runOne(p); err != nil {
			return fmt.Errorf("phase %q: %w", p.Name, err)
		}
	}
	return nil
}

func (e *Engine) runOne(p Phase) error {
	inputs := make([]any, len(p.Inputs))
	newDeps := map[string]struct{}{p.Description: {}}
	for i, name := range p.Inputs {
		v, ok := e.values[name]
		if !ok {
			return fmt.Errorf("%w: %q", ErrMissingInput, name)
		}
		inputs[i] = v
		for d := range e.deps[name] {
			newDeps[d] = struct{}{}
		}
	}

	cacheKey := buildCacheKey(p.Name, newDeps)

	outputs, fromCache, err := e.tryLoad(p, cacheKey)
	if err != nil {
		return err
	}
	if !fromCache {
		outputs, err = p.Compute(inputs)
		if err != nil {
			return err
		}
		if len(outputs) != len(p.Outputs) {
			return fmt.Errorf("%w: phase %q produced %d, expected %d", ErrOutputMismatch, p.Name, len(outputs), len(p.Outputs))
		}
		if p.Check != nil {
			if err := p.Check(outputs); err != nil {
				return fmt.Errorf("%w: %v", ErrCheckFailed, err)
			}
		}
		if p.WriteCache {
			e.tryStore(p, cacheKey, outputs)
		}
	}

	for i, name := range p.Outputs {
		e.values[name] = outputs[i]
		e.deps[name] = newDeps
	}
	return nil
}

// tryLoad attempts a cache read; any failure (cache nil, miss, decode
// error) falls through to recompute, per the engine's I/O-errors-recompute
// contract.
func (e *Engine) tryLoad(p Phase, cacheKey string) ([]any, bool, error) {
	if !p.ReadCache || e.cache == nil || e.codec == nil || p.NewOutputs == nil {
		return nil, false, nil
	}
	outputs := make([]any, len(p.Outputs))
	for i, name := range p.Outputs {
		data, ok, err := e.cache.Load(cacheKey + "||" + name)
		if err != nil || !ok {
			return nil, false, nil
		}
		target := p.NewOutputs[i]()
		if err := e.codec.Decode(data, target); err != nil {
			return nil, false, nil
		}
		// Publish the decoded value, not the factory's pointer, so a cached
		// property has the same type as a computed one.
		outputs[i] = reflect.ValueOf(target).Elem().Interface()
	}
	return outputs, true, nil
}

func (e *Engine) tryStore(p Phase, cacheKey string, outputs []any) {
	if e.cache == nil || e.codec == nil {
		return
	}
	for i, name := range p.Outputs {
		data, err := e.codec.Encode(outputs[i])
		if err != nil {
			continue
		}
		_ = e.cache.Store(cacheKey+"||"+name, data)
	}
}

// buildCacheKey renders name ++ "||" ++ sorted(deps joined by "_"), per the
// cache-key construction the phase engine is specified to use.
func buildCacheKey(name string, deps map[string]struct{}) string {
	list := make([]string, 0, len(deps))
	for d := range deps {
		list = append(list, d)
	}
	sort.Strings(list)
	return name + "||" + strings.Join(list, "_")
}
