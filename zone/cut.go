package zone

import (
	"math"
	"sort"

	"github.com/giacgiuliari/icarus-framework/model"
)

// EdgeStrategy selects which edge kinds are eligible cut candidates, per
// the zone_edges configuration key ("isl" or "isl_dwl").
type EdgeStrategy string

const (
	// StrategyISL restricts candidates to inter-satellite links.
	StrategyISL EdgeStrategy = "isl"
	// StrategyISLDownlink additionally allows satellite-to-ground downlink
	// stubs as cut candidates.
	StrategyISLDownlink EdgeStrategy = "isl_dwl"
)

func eligible(e model.Edge, strat EdgeStrategy) bool {
	if e.IsUplinkStub() {
		return false
	}
	if strat == StrategyISLDownlink {
		return true
	}
	return !e.IsDownlinkStub()
}

// PathEdgeData maps a candidate cut edge to the indices (into the
// CrossZonePaths slice it was built from) of every path it covers.
type PathEdgeData map[model.Edge]map[int]struct{}

// CandidateEdges builds PathEdgeData per spec.md §4.H step 3: every edge
// crossed by a cross-zone path, filtered to strat's eligible kinds and to
// edges the single-edge attack engine already found individually
// attackable (AttackData[e] != None).
func CandidateEdges(paths []model.Path, atk model.AttackData, strat EdgeStrategy) PathEdgeData {
	out := make(PathEdgeData)
	for idx, p := range paths {
		for _, e := range p.Edges() {
			if !eligible(e, strat) {
				continue
			}
			if info, ok := atk[e]; !ok || info == nil {
				continue
			}
			if out[e] == nil {
				out[e] = make(map[int]struct{})
			}
			out[e][idx] = struct{}{}
		}
	}
	return out
}

// Coverable reports whether ped's candidates jointly cover every path
// index in [0, numPaths) — spec.md §4.H step 4's early-exit condition.
func Coverable(ped PathEdgeData, numPaths int) bool {
	covered := make(map[int]struct{}, numPaths)
	for _, idxs := range ped {
		for i := range idxs {
			covered[i] = struct{}{}
		}
	}
	return len(covered) == numPaths
}

func edgeLess(a, b model.Edge) bool {
	if a.U != b.U {
		return a.U < b.U
	}
	return a.V < b.V
}

func ratio(e model.Edge, idxs map[int]struct{}, atk model.AttackData) float64 {
	if len(idxs) == 0 {
		return math.Inf(1)
	}
	info := atk[e]
	if info == nil {
		return math.Inf(1)
	}
	return float64(info.Detectability) / float64(len(idxs))
}

// sortedByRatio returns ped's edges ordered by increasing
// detectability/paths_covered, ties broken by edge identity for
// determinism — the three greedy attempts force their seed from this
// order's 1st, 2nd, and 3rd entries, per spec.md §4.H step 5.
func sortedByRatio(ped PathEdgeData, atk model.AttackData) []model.Edge {
	edges := make([]model.Edge, 0, len(ped))
	for e := range ped {
		edges = append(edges, e)
	}
	sort.Slice(edges, func(i, j int) bool {
		ri, rj := ratio(edges[i], ped[edges[i]], atk), ratio(edges[j], ped[edges[j]], atk)
		if ri != rj {
			return ri < rj
		}
		return edgeLess(edges[i], edges[j])
	})
	return edges
}

// greedyCover runs set-cover forcing seed as the first pick, then
// repeatedly adds the edge minimizing detectability/new_paths_covered
// until every path index in [0,numPaths) is covered.
func greedyCover(ped PathEdgeData, atk model.AttackData, numPaths int, seed model.Edge) []model.Edge {
	covered := make(map[int]struct{}, numPaths)
	var cut []model.Edge
	remaining := make(map[model.Edge]map[int]struct{}, len(ped))
	for e, idxs := range ped {
		remaining[e] = idxs
	}

	take := func(e model.Edge) {
		cut = append(cut, e)
		for i := range remaining[e] {
			covered[i] = struct{}{}
		}
		delete(remaining, e)
	}
	if _, ok := remaining[seed]; ok {
		take(seed)
	}

	for len(covered) < numPaths {
		candidates := make([]model.Edge, 0, len(remaining))
		for e := range remaining {
			candidates = append(candidates, e)
		}
		sort.Slice(candidates, func(i, j int) bool { return edgeLess(candidates[i], candidates[j]) })

		var best model.Edge
		bestRatio := math.Inf(1)
		found := false
		for _, e := range candidates {
			newCount := 0
			for i := range remaining[e] {
				if _, ok := covered[i]; !ok {
					newCount++
				}
			}
			if newCount == 0 {
				continue
			}
			r := float64(atk[e].Detectability) / float64(newCount)
			if !found || r < bestRatio {
				best, bestRatio, found = e, r, true
			}
		}
		if !found {
			break
		}
		take(best)
	}
	return cut
}

// redundancy sums, over every path e covers, how many OTHER cut edges also
// cover that path — the "cross-path redundancy" spec.md §4.H step 5 breaks
// pruning ties by.
func redundancy(e model.Edge, ped PathEdgeData, coverCount map[int]int) int {
	sum := 0
	for i := range ped[e] {
		sum += coverCount[i] - 1
	}
	return sum
}

func remainingBw(bw model.BwData, e model.Edge) int64 {
	if info, ok := bw[e]; ok {
		return info.IdleBw
	}
	return 0
}

// prune repeatedly removes from cut the edge whose removal still leaves
// every path covered and that has the least cross-path redundancy (ties
// broken by the edge with the most remaining bandwidth, so the tighter
// bottleneck survives), until no edge is removable — spec.md §4.H step 5's
// redundancy pass, yielding a minimal cut.
func prune(cut []model.Edge, ped PathEdgeData, bw model.BwData) []model.Edge {
	current := append([]model.Edge(nil), cut...)
	for {
		coverCount := make(map[int]int)
		for _, e := range current {
			for i := range ped[e] {
				coverCount[i]++
			}
		}

		var removable []model.Edge
		for _, e := range current {
			ok := true
			for i := range ped[e] {
				if coverCount[i] < 2 {
					ok = false
					break
				}
			}
			if ok {
				removable = append(removable, e)
			}
		}
		if len(removable) == 0 {
			return current
		}

		sort.Slice(removable, func(i, j int) bool {
			ri, rj := redundancy(removable[i], ped, coverCount), redundancy(removable[j], ped, coverCount)
			if ri != rj {
				return ri < rj
			}
			bi, bj := remainingBw(bw, removable[i]), remainingBw(bw, removable[j])
			if bi != bj {
				return bi > bj
			}
			return edgeLess(removable[i], removable[j])
		})

		drop := removable[0]
		next := make([]model.Edge, 0, len(current)-1)
		for _, e := range current {
			if e != drop {
				next = append(next, e)
			}
		}
		current = next
	}
}
