package traffic

import (
	"math"
	"math/rand"
	"sort"

	"github.com/giacgiuliari/icarus-framework/model"
)

// Params configures one traffic-allocation run.
type Params struct {
	Q           int     // number of ground-pair demands to sample
	IslBw       int64   // raw capacity of an inter-satellite link
	UdlBw       int64   // raw capacity of an uplink/downlink stub
	Utilisation float64 // fraction of capacity traffic is allowed to consume
	Seed        int64
}

// budget returns the traffic budget under the utilisation ceiling: the
// idle_bw field tracks remaining headroom against this budget, not the raw
// physical capacity, so it is monotonically non-increasing from an initial
// value already within capacity*utilisation — satisfying spec.md's final
// invariant by construction rather than by a post-hoc check.
func budget(capacity int64, utilisation float64) int64 {
	return int64(math.Floor(float64(capacity) * utilisation))
}

func sampleWeightedGroundIDs(grid model.GridPos, n int, rng *rand.Rand) []int {
	ids := make([]int, 0, len(grid))
	for id := range grid {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	if len(ids) == 0 {
		return nil
	}

	weights := make([]float64, len(ids))
	var total float64
	for i, id := range ids {
		w := grid[id].Weight
		if w < 0 {
			w = 0
		}
		weights[i] = w
		total += w
	}

	out := make([]int, n)
	for i := 0; i < n; i++ {
		if total <= 0 {
			out[i] = ids[rng.Intn(len(ids))]
			continue
		}
		r := rng.Float64() * total
		var cum float64
		chosen := len(ids) - 1
		for j, w := range weights {
			cum += w
			if r <= cum {
				chosen = j
				break
			}
		}
		out[i] = ids[chosen]
	}
	return out
}

// sampleDemands draws 2*Q weighted ground ids, forms Q pairs, drops
// same-endpoint and unrouted pairs, and picks one PathId uniformly at
// random from each survivor's LbSet.
func sampleDemands(pd model.PathData, grid model.GridPos, q int, rng *rand.Rand) []model.PathId {
	ids := sampleWeightedGroundIDs(grid, 2*q, rng)
	out := make([]model.PathId, 0, q)
	for i := 0; i < q; i++ {
		a, b := ids[2*i], ids[2*i+1]
		if a == b {
			continue
		}
		pair, _ := model.NewGroundPair(a, b)
		lb, ok := pd[pair]
		if !ok || len(lb) == 0 {
			continue
		}
		idx := rng.Intn(len(lb))
		out = append(out, model.PathId{Src: pair.Src, Dst: pair.Dst, Index: idx})
	}
	return out
}

func canCommit(bw model.BwData, path model.Path) bool {
	for _, e := range path.Edges() {
		for _, d := range [2]model.Edge{e, e.Reverse()} {
			if info, ok := bw[d]; ok && info.IdleBw <= 0 {
				return false
			}
		}
	}
	return true
}

func commit(bw model.BwData, path model.Path) {
	for _, e := range path.Edges() {
		for _, d := range [2]model.Edge{e, e.Reverse()} {
			if info, ok := bw[d]; ok {
				info.IdleBw--
			}
		}
	}
}

// Allocate samples demand, then greedily commits each sampled PathId's
// unit of flow, in sampling order, against per-edge bandwidth budgets
// seeded from islEdges/groundEdges. It returns the resulting BwData and the
// subset of sampled PathIds that were actually committed.
func Allocate(pd model.PathData, grid model.GridPos, islEdges, groundEdges []model.Edge, p Params) (model.BwData, []model.PathId) {
	rng := rand.New(rand.NewSource(p.Seed))
	demands := sampleDemands(pd, grid, p.Q, rng)

	bw := make(model.BwData, len(islEdges)+len(groundEdges))
	for _, e := range islEdges {
		bw[e] = &model.BwInfo{Capacity: p.IslBw, IdleBw: budget(p.IslBw, p.Utilisation)}
	}
	for _, e := range groundEdges {
		bw[e] = &model.BwInfo{Capacity: p.UdlBw, IdleBw: budget(p.UdlBw, p.Utilisation)}
	}

	committed := make([]model.PathId, 0, len(demands))
	for _, pid := range demands {
		info, ok := pd.Lookup(pid)
		if !ok {
			continue
		}
		if canCommit(bw, info.Path) {
			commit(bw, info.Path)
			committed = append(committed, pid)
		}
	}
	return bw, committed
}
