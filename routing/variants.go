package routing

import (
	"math"

	"github.com/giacgiuliari/icarus-framework/core"
	"github.com/giacgiuliari/icarus-framework/geometry"
	"github.com/giacgiuliari/icarus-framework/model"
)

// SingleShortest runs one dijkstra under the stretch cutoff and returns it
// as a singleton LbSet.
func SingleShortest(g *core.Graph, cov model.Coverage, grid model.GridPos, src, dst, _ int, stretch float64) (model.LbSet, error) {
	cutoff := int64(math.Round(stretch * GreatCircleDistance(grid[src].GeoPoint, grid[dst].GeoPoint, geometry.EarthRadiusM)))
	var out model.LbSet
	err := withGroundNodes(g, cov, src, dst, func(srcKey, dstKey string) error {
		p, length, err := singlePath(g, srcKey, dstKey, cutoff)
		if err != nil {
			return err
		}
		out = model.LbSet{{Path: p, Length: length}}
		return nil
	})
	return out, err
}

// KShortest returns up to k simple paths under the stretch cutoff, via
// repeated dijkstra runs that each exclude one more edge of the
// previously-found best path (a single-path-removal relaxation of Yen's
// algorithm — cheaper than full Yen, sufficient for generating k diverse
// candidates rather than the exact k-shortest set).
func KShortest(g *core.Graph, cov model.Coverage, grid model.GridPos, src, dst, k int, stretch float64) (model.LbSet, error) {
	cutoff := int64(math.Round(stretch * GreatCircleDistance(grid[src].GeoPoint, grid[dst].GeoPoint, geometry.EarthRadiusM)))
	var out model.LbSet
	err := withGroundNodes(g, cov, src, dst, func(srcKey, dstKey string) error {
		excluded := map[[2]string]int64{}
		for len(out) < k {
			restore := applyExclusions(g, excluded)
			p, length, err := singlePath(g, srcKey, dstKey, cutoff)
			restore()
			if err != nil {
				break
			}
			if containsPath(out, p) {
				break
			}
			out = append(out, model.PathInfo{Path: p, Length: length})
			edges := p.Edges()
			if len(edges) == 0 {
				break
			}
			mid := edges[len(edges)/2]
			excluded[[2]string{model.NodeKey(mid.U), model.NodeKey(mid.V)}] = 1
		}
		if len(out) == 0 {
			return ErrNoPath
		}
		return nil
	})
	return out, err
}

// KDisjoint repeats dijkstra, removing every intermediate edge of each
// accepted path from further consideration, to force up to k
// edge-disjoint-ish candidates.
func KDisjoint(g *core.Graph, cov model.Coverage, grid model.GridPos, src, dst, k int, stretch float64) (model.LbSet, error) {
	cutoff := int64(math.Round(stretch * GreatCircleDistance(grid[src].GeoPoint, grid[dst].GeoPoint, geometry.EarthRadiusM)))
	var out model.LbSet
	err := withGroundNodes(g, cov, src, dst, func(srcKey, dstKey string) error {
		excluded := map[[2]string]int64{}
		for len(out) < k {
			restore := applyExclusions(g, excluded)
			p, length, err := singlePath(g, srcKey, dstKey, cutoff)
			restore()
			if err != nil {
				break
			}
			out = append(out, model.PathInfo{Path: p, Length: length})
			for _, e := range p.Edges() {
				if model.IsGroundNode(e.U) || model.IsGroundNode(e.V) {
					continue // keep ground uplink/downlink stubs reusable across candidates
				}
				excluded[[2]string{model.NodeKey(e.U), model.NodeKey(e.V)}] = 1
			}
		}
		if len(out) == 0 {
			return ErrNoPath
		}
		return nil
	})
	return out, err
}

// KSimilarityBounded is an ESX-style variant: candidate paths are accepted
// only if their Jaccard edge-set similarity to every already-accepted path
// is at most theta (fixed at 0.5, a conservative diversity bound); a
// rejected candidate's middle edge (edges[len/2]) is excluded and the
// search retried, for at most 4*k attempts.
func KSimilarityBounded(g *core.Graph, cov model.Coverage, grid model.GridPos, src, dst, k int, stretch float64) (model.LbSet, error) {
	const theta = 0.5
	cutoff := int64(math.Round(stretch * GreatCircleDistance(grid[src].GeoPoint, grid[dst].GeoPoint, geometry.EarthRadiusM)))
	var out model.LbSet
	err := withGroundNodes(g, cov, src, dst, func(srcKey, dstKey string) error {
		excluded := map[[2]string]int64{}
		attempts := 0
		for len(out) < k && attempts < k*4 {
			attempts++
			restore := applyExclusions(g, excluded)
			p, length, err := singlePath(g, srcKey, dstKey, cutoff)
			restore()
			if err != nil {
				break
			}
			if tooSimilar(out, p, theta) {
				edges := p.Edges()
				if len(edges) == 0 {
					break
				}
				mid := edges[len(edges)/2]
				excluded[[2]string{model.NodeKey(mid.U), model.NodeKey(mid.V)}] = 1
				continue
			}
			out = append(out, model.PathInfo{Path: p, Length: length})
		}
		if len(out) == 0 {
			return ErrNoPath
		}
		return nil
	})
	return out, err
}

func tooSimilar(accepted model.LbSet, p model.Path, theta float64) bool {
	pe := edgeSet(p)
	for _, a := range accepted {
		ae := edgeSet(a.Path)
		if jaccard(pe, ae) > theta {
			return true
		}
	}
	return false
}

func edgeSet(p model.Path) map[model.Edge]struct{} {
	out := make(map[model.Edge]struct{})
	for _, e := range p.Edges() {
		out[e] = struct{}{}
	}
	return out
}

func jaccard(a, b map[model.Edge]struct{}) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 0
	}
	inter := 0
	for e := range a {
		if _, ok := b[e]; ok {
			inter++
		}
	}
	union := len(a) + len(b) - inter
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}

func containsPath(set model.LbSet, p model.Path) bool {
	for _, existing := range set {
		if len(existing.Path) != len(p) {
			continue
		}
		match := true
		for i := range p {
			if existing.Path[i] != p[i] {
				match = false
				break
			}
		}
		if match {
			return true
		}
	}
	return false
}

// applyExclusions removes every excluded edge present in g, returning a
// restore func that re-adds them with their old weights. core.Graph
// has no in-place weight-edit, so exclusion is modeled by removing and
// later re-adding the edge.
func applyExclusions(g *core.Graph, excluded map[[2]string]int64) func() {
	type removed struct {
		from, to string
		weight   int64
	}
	var gone []removed
	for key := range excluded {
		if eid, w, ok := edgeIDOf(g, key[0], key[1]); ok {
			_ = g.RemoveEdge(eid)
			gone = append(gone, removed{key[0], key[1], w})
		}
	}
	return func() {
		for _, r := range gone {
			_, _ = g.AddEdge(r.from, r.to, r.weight)
		}
	}
}

func edgeIDOf(g *core.Graph, from, to string) (id string, weight int64, ok bool) {
	for _, e := range g.Edges() {
		if e.From == from && e.To == to {
			return e.ID, e.Weight, true
		}
	}
	return "", 0, false
}
