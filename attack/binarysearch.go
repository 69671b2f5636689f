package attack

import "github.com/giacgiuliari/icarus-framework/model"

// Solver abstracts Feasible/FeasibleProbabilistic so OptimizeDetectability
// can binary-search either.
type Solver func(dd DirectionData, bw model.BwData, congested []model.Edge, uplinkCap int64) (FeasibleResult, error)

// OptimizeDetectability runs spec.md §4.G.3's binary search: first checks
// feasibility at the maximum uplink cap (failing fast if even that is
// infeasible), then finds the smallest U* for which feasibility still
// holds, then re-solves at the relaxed cap max - rate*(max-U*) (never below
// U*), so rate=0 keeps the maximum and rate=1 keeps the tight optimum U*.
func OptimizeDetectability(solve Solver, dd DirectionData, bw model.BwData, congested []model.Edge, uplinkCapMax int64, rate float64) (FeasibleResult, error) {
	best, err := solve(dd, bw, congested, uplinkCapMax)
	if err != nil {
		return FeasibleResult{}, ErrInfeasible
	}

	left, right := int64(0), uplinkCapMax
	for right-left > 1 {
		mid := left + (right-left)/2
		if _, err := solve(dd, bw, congested, mid); err == nil {
			right = mid
		} else {
			left = mid
		}
	}
	uStar := right

	relaxed := uplinkCapMax - int64(rate*float64(uplinkCapMax-uStar))
	if relaxed < uStar {
		relaxed = uStar
	}
	result, err := solve(dd, bw, congested, relaxed)
	if err != nil {
		// The relaxed cap should always be feasible since it's >= uStar;
		// fall back to the tight optimum rather than fail the whole attack.
		result, err = solve(dd, bw, congested, uStar)
		if err != nil {
			return best, nil
		}
	}
	result.Detectability = relaxed
	return result, nil
}
