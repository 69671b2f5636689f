package routing

import (
	"context"
	"fmt"

	"github.com/giacgiuliari/icarus-framework/core"
	"github.com/giacgiuliari/icarus-framework/model"
	"github.com/giacgiuliari/icarus-framework/strategy"
	"github.com/giacgiuliari/icarus-framework/workerpool"
)

// Registry is the routing component's strategy registry, keyed by the
// names callers pass through config (e.g. "single_shortest", "k_shortest").
var Registry = strategy.NewRegistry[Variant]()

func init() {
	Registry.Register("single_shortest", SingleShortest)
	Registry.Register("k_shortest", KShortest)
	Registry.Register("k_disjoint", KDisjoint)
	Registry.Register("k_similarity_bounded", KSimilarityBounded)
}

// Params configures one routing run.
type Params struct {
	Variant string
	K       int     // candidate-path budget per pair; ignored by single_shortest
	Stretch float64 // length cutoff multiplier over great-circle(src,dst)
	Workers int
	Batches int
	Seed    int64
}

// pairResult is the per-pair outcome threaded through the worker pool fold;
// err carries ErrNoCoverage/ErrNoPath for pairs that could not be routed,
// which the caller may choose to tolerate (sparse coverage at low
// altitudes) or treat as fatal.
type pairResult struct {
	pair model.GroundPair
	set  model.LbSet
	err  error
}

// Route computes PathData for every unordered ground pair in pairs, fanned
// out across a workerpool-run batch of pair indices, reducing into one
// PathData map. A per-pair routing failure is recorded in skipped rather
// than aborting the whole run — a single point with no coverage should not
// block routing the rest of the constellation.
func Route(ctx context.Context, g *core.Graph, cov model.Coverage, grid model.GridPos, pairs []model.GroundPair, p Params) (model.PathData, []error, error) {
	variant, err := Registry.Lookup(p.Variant)
	if err != nil {
		return nil, nil, err
	}

	cfg := workerpool.Config{Workers: p.Workers, Batches: p.Batches, Seed: p.Seed}
	idx := make([]int, len(pairs))
	for i := range pairs {
		idx[i] = i
	}

	compute := func(_ context.Context, i int) ([]pairResult, error) {
		// PathData's key is always the canonical (src<dst) pair (invariant
		// I2); routing itself is symmetric so canonicalizing before the
		// variant call is enough — no reversal of the resulting paths needed.
		canon, _ := model.NewGroundPair(pairs[i].Src, pairs[i].Dst)
		set, err := variant(g, cov, grid, canon.Src, canon.Dst, p.K, p.Stretch)
		return []pairResult{{pair: canon, set: set, err: err}}, nil
	}

	reduce := func(a, b []pairResult) []pairResult { return append(a, b...) }

	results, err := workerpool.Run(ctx, idx, cfg, compute, nil, reduce)
	if err != nil {
		return nil, nil, fmt.Errorf("routing: %w", err)
	}

	data := make(model.PathData, len(pairs))
	var skipped []error
	for _, r := range results {
		if r.err != nil {
			skipped = append(skipped, fmt.Errorf("routing: pair (%d,%d): %w", r.pair.Src, r.pair.Dst, r.err))
			continue
		}
		data[r.pair] = r.set
	}
	return data, skipped, nil
}
