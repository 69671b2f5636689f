package zone

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/giacgiuliari/icarus-framework/attack"
	"github.com/giacgiuliari/icarus-framework/core"
	"github.com/giacgiuliari/icarus-framework/flow"
	"github.com/giacgiuliari/icarus-framework/geometry"
	"github.com/giacgiuliari/icarus-framework/model"
	"github.com/giacgiuliari/icarus-framework/routing"
)

// ErrZonesIntersect indicates the sampled center pair's zones share a grid
// point and must be discarded, per spec.md §4.H step 1.
var ErrZonesIntersect = errors.New("zone: zones intersect")

// ErrUncoverable indicates no cross-zone path exists, or no candidate cut
// set can cover every cross-zone path — spec.md §4.H step 4's "None".
var ErrUncoverable = errors.New("zone: candidates cannot cover every path")

// Params configures one zone-pair evaluation.
type Params struct {
	Size         int // grid points per zone, including the center
	EdgeStrategy EdgeStrategy
	Attack       attack.Params
}

// Evaluate runs spec.md §4.H end to end for one sampled (center1, center2)
// pair: builds both zones, concatenates cross-zone paths, enumerates
// candidate bottleneck cuts via three greedy-seeded attempts with
// redundancy pruning, evaluates each cut with the link attack engine, and
// keeps the lexicographically smallest (detectability, flows_on_trg).
func Evaluate(center1, center2 int, grid model.GridPos, pd model.PathData, atk model.AttackData, bw model.BwData, ed model.EdgeData, p Params) (*model.ZoneAttackInfo, error) {
	z1, ok1 := Build(center1, grid, p.Size, geometry.EarthRadiusM)
	z2, ok2 := Build(center2, grid, p.Size, geometry.EarthRadiusM)
	if !ok1 || !ok2 {
		return nil, fmt.Errorf("zone: center not present in grid")
	}
	if Intersects(z1, z2) {
		return nil, ErrZonesIntersect
	}

	paths := CrossZonePaths(pd, z1, z2)
	if len(paths) == 0 {
		return nil, ErrUncoverable
	}

	ped := CandidateEdges(paths, atk, p.EdgeStrategy)
	if len(ped) == 0 || !Coverable(ped, len(paths)) {
		return nil, ErrUncoverable
	}

	seeds := sortedByRatio(ped, atk)
	if len(seeds) > 3 {
		seeds = seeds[:3]
	}

	seen := make(map[string]bool, len(seeds))
	var cuts [][]model.Edge
	for _, s := range seeds {
		cut := prune(greedyCover(ped, atk, len(paths), s), ped, bw)
		key := cutKey(cut)
		if !seen[key] {
			seen[key] = true
			cuts = append(cuts, cut)
		}
	}

	var best *model.ZoneAttackInfo
	for _, cut := range cuts {
		info, err := attack.Cut(cut, ed, pd, bw, p.Attack)
		if err != nil || info == nil {
			continue
		}
		// spec.md §4.H step 7: the zone engine's reported cost is the
		// deterministic congestion requirement, not the attacker's raw
		// flow count (which §4.G.4's min-5-per-pair padding can inflate).
		info.Cost = info.FlowsOnTrg

		candidate := model.ZoneAttackInfo{
			AttackInfo:     *info,
			CrossZonePaths: paths,
			Bottlenecks:    cut,
			Distance:       minDistance(z1, z2, grid),
		}
		if best == nil || lessAttack(candidate, *best) {
			c := candidate
			best = &c
		}
	}
	if best == nil {
		return nil, ErrUncoverable
	}
	return best, nil
}

func lessAttack(a, b model.ZoneAttackInfo) bool {
	if a.Detectability != b.Detectability {
		return a.Detectability < b.Detectability
	}
	return a.FlowsOnTrg < b.FlowsOnTrg
}

func cutKey(cut []model.Edge) string {
	sorted := append([]model.Edge(nil), cut...)
	sort.Slice(sorted, func(i, j int) bool { return edgeLess(sorted[i], sorted[j]) })
	var b strings.Builder
	for _, e := range sorted {
		fmt.Fprintf(&b, "%d:%d,", e.U, e.V)
	}
	return b.String()
}

func minDistance(z1, z2 Zone, grid model.GridPos) float64 {
	min := math.Inf(1)
	for _, a := range z1.Members {
		for _, b := range z2.Members {
			d := routing.GreatCircleDistance(grid[a].GeoPoint, grid[b].GeoPoint, geometry.EarthRadiusM)
			if d < min {
				min = d
			}
		}
	}
	return min
}

// VerifyCut double-checks a chosen cut by building a synthetic
// source/sink graph from the cross-zone paths with the cut's edges
// removed, and confirming Dinic's max flow between the zones drops to
// zero — an optional sanity pass, not required for Evaluate's result.
func VerifyCut(paths []model.Path, cut []model.Edge) (bool, error) {
	g := core.NewGraph(core.WithDirected(true), core.WithWeighted())
	cutSet := make(map[model.Edge]bool, len(cut))
	for _, e := range cut {
		cutSet[e] = true
	}

	const source, sink = "zone-src", "zone-dst"
	ensureVertex := func(key string) {
		if !g.HasVertex(key) {
			_ = g.AddVertex(key)
		}
	}
	ensureVertex(source)
	ensureVertex(sink)

	for _, p := range paths {
		if len(p) < 2 {
			continue
		}
		nodeKey := func(i int) string {
			switch i {
			case 0:
				return source
			case len(p) - 1:
				return sink
			default:
				return model.NodeKey(p[i])
			}
		}
		for i := 0; i+1 < len(p); i++ {
			if cutSet[model.Edge{U: p[i], V: p[i+1]}] {
				continue
			}
			from, to := nodeKey(i), nodeKey(i+1)
			ensureVertex(from)
			ensureVertex(to)
			if !g.HasEdge(from, to) {
				if _, err := g.AddEdge(from, to, 1); err != nil {
					return false, err
				}
			}
		}
	}

	maxFlow, _, err := flow.Dinic(g, source, sink, flow.FlowOptions{})
	if err != nil {
		return false, err
	}
	return maxFlow == 0, nil
}
