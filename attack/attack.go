package attack

import (
	"context"
	"fmt"

	"github.com/giacgiuliari/icarus-framework/model"
	"github.com/giacgiuliari/icarus-framework/workerpool"
)

// Params bundles the knobs one attack run needs: the uplink cap to
// binary-search under, the detectability relaxation rate, which solver to
// use, and which ground stations may host an attacking flow.
type Params struct {
	UplinkCapMax   int64
	Rate           float64
	Solve          Solver
	AllowedSources map[int]bool
	Workers        int
	Batches        int
	Seed           int64
}

// One runs the full engine against a single bottleneck edge: direction
// synthesis, LP feasibility, detectability optimization, and result
// assembly. A nil *model.AttackInfo with a nil error means the edge cannot
// be congested by any reachable attacker — spec.md's "None".
func One(e model.Edge, ed model.EdgeData, pd model.PathData, bw model.BwData, p Params) (*model.AttackInfo, error) {
	return Cut([]model.Edge{e}, ed, pd, bw, p)
}

// Cut runs the engine against a whole congestion set (a cut, for the zone
// attack engine's use) rather than a single edge: every edge in targets
// must simultaneously be pushed past its idle bandwidth by one shared
// assignment.
func Cut(targets []model.Edge, ed model.EdgeData, pd model.PathData, bw model.BwData, p Params) (*model.AttackInfo, error) {
	if p.Solve == nil {
		p.Solve = Feasible
	}

	dd := SynthesizeDirections(targets, ed, pd, p.AllowedSources)
	if len(dd) == 0 {
		return nil, nil
	}

	result, err := OptimizeDetectability(p.Solve, dd, bw, targets, p.UplinkCapMax, p.Rate)
	if err != nil {
		return nil, nil
	}

	info := Assemble(dd, bw, targets, result)
	return &info, nil
}

// Batch runs One across every edge in targets concurrently via the worker
// pool, returning a full AttackData map — edges the engine could not
// congest are simply absent, matching spec.md's per-edge "None" result.
func Batch(ctx context.Context, targets []model.Edge, ed model.EdgeData, pd model.PathData, bw model.BwData, p Params) (model.AttackData, error) {
	cfg := workerpool.Config{Workers: p.Workers, Batches: p.Batches, Seed: p.Seed}

	type outcome struct {
		edge model.Edge
		info *model.AttackInfo
	}

	compute := func(_ context.Context, e model.Edge) ([]outcome, error) {
		info, err := One(e, ed, pd, bw, p)
		if err != nil {
			return nil, fmt.Errorf("attack: edge %v: %w", e, err)
		}
		return []outcome{{edge: e, info: info}}, nil
	}
	reduce := func(a, b []outcome) []outcome { return append(a, b...) }

	outcomes, err := workerpool.Run(ctx, targets, cfg, compute, nil, reduce)
	if err != nil {
		return nil, fmt.Errorf("attack: %w", err)
	}

	data := make(model.AttackData, len(targets))
	for _, o := range outcomes {
		if o.info != nil {
			data[o.edge] = o.info
		}
	}
	return data, nil
}
