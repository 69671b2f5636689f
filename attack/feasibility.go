package attack

import (
	"errors"
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize/convex/lp"

	"github.com/giacgiuliari/icarus-framework/model"
)

// ErrInfeasible indicates no nonnegative assignment satisfies every
// capacity and congestion constraint.
var ErrInfeasible = errors.New("attack: infeasible")

// FeasibleResult is one solved assignment: per-direction flow counts, the
// total cost, and the detectability bound that was enforced.
type FeasibleResult struct {
	X             map[DirectionKey]int64
	Cost          int64
	Detectability int64
}

func isUplinkStub(e model.Edge) bool { return e.U == model.GroundSentinel }

func remainingOf(bw model.BwData, e model.Edge) int64 {
	if info, ok := bw[e]; ok {
		return info.IdleBw
	}
	return 0
}

// touchedEdges enumerates every directed edge any direction in dd crosses.
func touchedEdges(dd DirectionData) []model.Edge {
	seen := make(map[model.Edge]struct{})
	for _, entry := range dd {
		for i := 0; i+1 < len(entry.Path); i++ {
			seen[model.Edge{U: entry.Path[i], V: entry.Path[i+1]}] = struct{}{}
		}
	}
	out := make([]model.Edge, 0, len(seen))
	for e := range seen {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].U != out[j].U {
			return out[i].U < out[j].U
		}
		return out[i].V < out[j].V
	})
	return out
}

// sortedKeys returns dd's keys in a deterministic order, fixing the LP
// variable ordering so the same inputs always solve to the same solution.
func sortedKeys(dd DirectionData) []DirectionKey {
	out := make([]DirectionKey, 0, len(dd))
	for k := range dd {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Feasible poses spec.md §4.G.2's feasibility problem as a standard-form LP
// (equality constraints via slack variables, as gonum's simplex requires)
// and solves it with lp.Simplex: minimize total flow subject to every
// touched edge's capacity (tightened to uplinkCap on uplink stubs) and
// every congested edge's minimum-congestion requirement.
func Feasible(dd DirectionData, bw model.BwData, congested []model.Edge, uplinkCap int64) (FeasibleResult, error) {
	keys := sortedKeys(dd)
	n := len(keys)
	if n == 0 {
		return FeasibleResult{}, ErrInfeasible
	}

	type row struct {
		coeffs []float64
		rhs    float64
	}
	var rows []row

	for _, e := range touchedEdges(dd) {
		rem := remainingOf(bw, e)
		if isUplinkStub(e) && rem > uplinkCap {
			rem = uplinkCap
		}
		coeffs := make([]float64, n)
		any := false
		for j, k := range keys {
			if containsHop(dd[k].Path, e) {
				coeffs[j] = 1
				any = true
			}
		}
		if any {
			rows = append(rows, row{coeffs: coeffs, rhs: float64(rem)})
		}
	}

	for _, c := range congested {
		rem := remainingOf(bw, c)
		coeffs := make([]float64, n)
		any := false
		for j, k := range keys {
			if containsHop(dd[k].Path, c) {
				coeffs[j] = -1
				any = true
			}
		}
		if any {
			rows = append(rows, row{coeffs: coeffs, rhs: -float64(rem)})
		}
	}

	if len(rows) == 0 {
		return FeasibleResult{}, ErrInfeasible
	}

	m := len(rows)
	// Standard form: [A | I] [x; s] = b, x,s >= 0. Columns 0..n-1 are the
	// direction flows; columns n..n+m-1 are per-row slacks.
	aData := make([]float64, m*(n+m))
	b := make([]float64, m)
	for i, r := range rows {
		copy(aData[i*(n+m):i*(n+m)+n], r.coeffs)
		aData[i*(n+m)+n+i] = 1
		b[i] = r.rhs
	}
	A := mat.NewDense(m, n+m, aData)

	c := make([]float64, n+m)
	for j := 0; j < n; j++ {
		c[j] = 1
	}

	_, x, err := lp.Simplex(c, A, b, 0, nil)
	if err != nil {
		return FeasibleResult{}, ErrInfeasible
	}

	result := FeasibleResult{X: make(map[DirectionKey]int64, n)}
	var cost int64
	for j, k := range keys {
		units := int64(math.Round(x[j]))
		if units < 0 {
			units = 0
		}
		result.X[k] = units
		cost += units
	}
	result.Cost = cost
	result.Detectability = uplinkCap
	return result, nil
}

// FeasibleProbabilistic is the solver-free alternative spec.md §4.G.2
// offers for large instances: a greedy host-placement pass over
// directions ordered by weight len(Pairs)*beta (the size of a direction's
// load-balancing set does not enter the weight), gating both the accumulation loop and the final
// verdict on a one-sided Chebyshev lower bound over the running mean and
// variance (chebyshevLowerBound) instead of the raw mean. It trades
// exactness for avoiding the simplex call entirely.
func FeasibleProbabilistic(dd DirectionData, bw model.BwData, congested []model.Edge, uplinkCap int64, beta float64) (FeasibleResult, error) {
	keys := sortedKeys(dd)
	if len(keys) == 0 {
		return FeasibleResult{}, ErrInfeasible
	}

	need := 0.0
	for _, c := range congested {
		need += float64(remainingOf(bw, c))
	}
	if need <= 0 {
		return FeasibleResult{X: map[DirectionKey]int64{}, Cost: 0, Detectability: uplinkCap}, nil
	}

	type weighted struct {
		key    DirectionKey
		weight float64
	}
	ws := make([]weighted, 0, len(keys))
	for _, k := range keys {
		mass := float64(len(dd[k].Pairs)) * beta
		ws = append(ws, weighted{key: k, weight: mass})
	}
	sort.Slice(ws, func(i, j int) bool { return ws[i].weight > ws[j].weight })

	result := FeasibleResult{X: make(map[DirectionKey]int64, len(keys)), Detectability: uplinkCap}
	uplinkUsed := make(map[model.Edge]int64)
	var mean, variance float64

	for _, w := range ws {
		if chebyshevLowerBound(mean, variance) >= need {
			break
		}
		headroom := uplinkCap
		for i := 0; i+1 < len(dd[w.key].Path); i++ {
			e := model.Edge{U: dd[w.key].Path[i], V: dd[w.key].Path[i+1]}
			if isUplinkStub(e) {
				remaining := headroom - uplinkUsed[e]
				if remaining < headroom {
					headroom = remaining
				}
			}
		}
		if headroom <= 0 {
			continue
		}
		units := int64(math.Ceil(math.Max(1, w.weight)))
		if units > headroom {
			units = headroom
		}
		result.X[w.key] = units
		result.Cost += units
		mean += float64(units)
		variance += float64(units) * (1 - w.weight)
		for i := 0; i+1 < len(dd[w.key].Path); i++ {
			e := model.Edge{U: dd[w.key].Path[i], V: dd[w.key].Path[i+1]}
			if isUplinkStub(e) {
				uplinkUsed[e] += units
			}
		}
	}

	if chebyshevLowerBound(mean, variance) < need {
		return FeasibleResult{}, ErrInfeasible
	}
	return result, nil
}

// chebyshevBoundK is the number of standard deviations subtracted from the
// mean when lower-bounding the congestion this placement actually achieves.
// By Chebyshev's inequality, P(X < mean - k*sigma) <= 1/k^2, so k=2 caps the
// probability that the real achieved congestion falls short of the
// conservative estimate at 25%.
const chebyshevBoundK = 2.0

// chebyshevLowerBound returns a conservative estimate of the congestion a
// probabilistic placement with the given mean/variance actually achieves:
// mean minus chebyshevBoundK standard deviations, floored at 0 so a
// low-mean/high-variance placement can never look better than doing
// nothing. FeasibleProbabilistic's accumulation loop and its final verdict both gate on this value
// rather than on the raw mean, so a placement that only clears `need` in
// expectation — but could plausibly miss it — is correctly rejected.
func chebyshevLowerBound(mean, variance float64) float64 {
	bound := mean - chebyshevBoundK*math.Sqrt(variance)
	if bound < 0 {
		return 0
	}
	return bound
}
