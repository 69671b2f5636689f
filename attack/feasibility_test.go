package attack

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/giacgiuliari/icarus-framework/model"
)

func TestChebyshevLowerBound(t *testing.T) {
	require.Equal(t, 10.0, chebyshevLowerBound(10, 0), "zero variance: bound equals the mean")
	require.Equal(t, 6.0, chebyshevLowerBound(10, 4), "10 - 2*sqrt(4) = 6")
	require.Equal(t, 0.0, chebyshevLowerBound(1, 100), "large variance floors at 0, never goes negative")
}

// fiveDirectionsTowardEdge builds five distinct single-pair directions, all
// crossing congested edge e, so FeasibleProbabilistic has five weighted
// buckets to draw units from instead of one.
func fiveDirectionsTowardEdge(e model.Edge) DirectionData {
	dd := make(DirectionData, 5)
	for i := 0; i < 5; i++ {
		src := 100 + i
		dd[directionKey([]int{model.GroundSentinel, src, e.U, e.V})] = &DirectionEntry{
			Path:  []int{model.GroundSentinel, src, e.U, e.V},
			Pairs: []model.GroundPair{{Src: src, Dst: 999}},
		}
	}
	return dd
}

// TestFeasibleProbabilistic_HighVarianceRejected exercises the case the
// raw-mean-only check used to miss: five directions each assigned exactly
// one unit (since beta is tiny, every per-direction weight rounds up to the
// floor of 1) reach mean == need exactly, but their accumulated variance is
// high enough that the Chebyshev lower bound falls well short of need, so
// the placement must be rejected rather than accepted on the mean alone.
func TestFeasibleProbabilistic_HighVarianceRejected(t *testing.T) {
	target := model.Edge{U: 10, V: 11}
	dd := fiveDirectionsTowardEdge(target)
	bw := model.BwData{target: {IdleBw: 5, Capacity: 50}}

	_, err := FeasibleProbabilistic(dd, bw, []model.Edge{target}, 1000, 0.001)
	require.ErrorIs(t, err, ErrInfeasible)
}

// TestFeasibleProbabilistic_LowVarianceAccepted re-runs the same five
// directions with beta large enough that each direction's weight is ~1,
// driving the variance term (units*(1-weight)) toward zero: the Chebyshev
// bound collapses to the mean and the placement is accepted, same as a
// mean-only check would have found.
func TestFeasibleProbabilistic_LowVarianceAccepted(t *testing.T) {
	target := model.Edge{U: 10, V: 11}
	dd := fiveDirectionsTowardEdge(target)
	bw := model.BwData{target: {IdleBw: 5, Capacity: 50}}

	result, err := FeasibleProbabilistic(dd, bw, []model.Edge{target}, 1000, 1.0)
	require.NoError(t, err)
	require.GreaterOrEqual(t, result.Cost, int64(5))
}
