package edges

import (
	"context"

	"github.com/giacgiuliari/icarus-framework/model"
	"github.com/giacgiuliari/icarus-framework/workerpool"
)

type pathItem struct {
	pid  model.PathId
	path model.Path
}

// RequiredEdges enumerates every directed edge that must appear in EdgeData
// regardless of whether any routed path traverses it: both directions of
// every ISL, and every uplink/downlink stub implied by cov.
func RequiredEdges(isls []model.IslInfo, cov model.Coverage) []model.Edge {
	seen := make(map[model.Edge]struct{})
	add := func(e model.Edge) { seen[e] = struct{}{} }
	for _, isl := range isls {
		add(model.Edge{U: isl.A, V: isl.B})
		add(model.Edge{U: isl.B, V: isl.A})
	}
	for gid, sats := range cov {
		for sat := range sats {
			add(model.Edge{U: model.GroundSentinel, V: sat})
			add(model.Edge{U: sat, V: model.GroundSentinel})
		}
		_ = gid
	}
	out := make([]model.Edge, 0, len(seen))
	for e := range seen {
		out = append(out, e)
	}
	return out
}

// normalizeEndpoints returns p with its first and last hop collapsed to the
// generic GroundSentinel, per the spec.md §4.E normalization step: EdgeData
// keys never carry a specific ground id, only the -1 "any ground endpoint"
// marker that NegateGround's per-id encoding exists precisely to avoid
// colliding with in a routed Path.
func normalizeEndpoints(p model.Path) model.Path {
	out := p.Clone()
	if len(out) == 0 {
		return out
	}
	out[0] = model.GroundSentinel
	out[len(out)-1] = model.GroundSentinel
	return out
}

// pathEdgeDeltas computes one path's contribution to EdgeData: every
// consecutive (u,v) increments paths_through/centrality on (u,v) and the
// mirror centrality/source_gridpoints bookkeeping on (v,u), per spec.md
// §4.E step 2.
func pathEdgeDeltas(pid model.PathId, p model.Path) map[model.Edge]*model.EdgeInfo {
	out := make(map[model.Edge]*model.EdgeInfo)
	if len(p) < 2 {
		return out
	}
	srcGround := model.GroundID(p[0])
	dstGround := model.GroundID(p[len(p)-1])
	norm := normalizeEndpoints(p)

	ensure := func(e model.Edge) *model.EdgeInfo {
		info, ok := out[e]
		if !ok {
			info = &model.EdgeInfo{SourceGridpoints: make(map[int]struct{})}
			out[e] = info
		}
		return info
	}

	for _, e := range norm.Edges() {
		fwd, bwd := ensure(e), ensure(e.Reverse())
		fwd.PathsThrough = append(fwd.PathsThrough, pid)
		fwd.Centrality++
		bwd.Centrality++
		fwd.SourceGridpoints[srcGround] = struct{}{}
		bwd.SourceGridpoints[dstGround] = struct{}{}
	}
	return out
}

func mergeEdgeData(a, b map[model.Edge]*model.EdgeInfo) map[model.Edge]*model.EdgeInfo {
	if a == nil {
		a = make(map[model.Edge]*model.EdgeInfo, len(b))
	}
	for e, info := range b {
		existing, ok := a[e]
		if !ok {
			a[e] = info
			continue
		}
		existing.PathsThrough = append(existing.PathsThrough, info.PathsThrough...)
		existing.Centrality += info.Centrality
		for gid := range info.SourceGridpoints {
			existing.SourceGridpoints[gid] = struct{}{}
		}
	}
	return a
}

// Aggregate folds every routed path in pd into EdgeData, seeds every edge in
// required with a zero entry even if untouched, normalizes centrality by
// total path count, and derives each edge's coverage-weighted centrality
// from grid surface areas.
func Aggregate(ctx context.Context, pd model.PathData, required []model.Edge, grid model.GridPos, cfg workerpool.Config) (model.EdgeData, error) {
	var items []pathItem
	for _, pair := range pd.SortedPairs() {
		lb := pd[pair]
		for i, info := range lb {
			items = append(items, pathItem{
				pid:  model.PathId{Src: pair.Src, Dst: pair.Dst, Index: i},
				path: info.Path,
			})
		}
	}

	compute := func(_ context.Context, it pathItem) (map[model.Edge]*model.EdgeInfo, error) {
		return pathEdgeDeltas(it.pid, it.path), nil
	}

	data, err := workerpool.Run(ctx, items, cfg, compute, map[model.Edge]*model.EdgeInfo(nil), mergeEdgeData)
	if err != nil {
		return nil, err
	}
	if data == nil {
		data = make(map[model.Edge]*model.EdgeInfo)
	}

	for _, e := range required {
		if _, ok := data[e]; !ok {
			data[e] = &model.EdgeInfo{SourceGridpoints: make(map[int]struct{})}
		}
	}

	total := len(items)
	if total > 0 {
		for _, info := range data {
			info.Centrality /= float64(total)
		}
	}
	for _, info := range data {
		var sum float64
		for gid := range info.SourceGridpoints {
			if gp, ok := grid[gid]; ok {
				sum += gp.Surface
			}
		}
		info.CovCentr = sum
	}

	return model.EdgeData(data), nil
}
