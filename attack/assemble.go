package attack

import (
	"sort"

	"github.com/giacgiuliari/icarus-framework/model"
)

// minFlowPerPair is the floor spec.md §4.G.2 imposes on any pair's share of
// a direction's assigned flow, regardless of how thin its proportional
// share would otherwise be — below this a flood contribution is not worth
// the botnet host.
const minFlowPerPair = 5

// Assemble distributes each direction's assigned flow uniformly across its
// realizing pairs (weighted by how many times a pair appears, i.e. by its
// probability mass) and folds the result into one AttackInfo, per spec.md
// §4.G.4.
func Assemble(dd DirectionData, bw model.BwData, congested []model.Edge, result FeasibleResult) model.AttackInfo {
	flowsByPair := make(map[model.GroundPair]int64)

	for key, units := range result.X {
		if units <= 0 {
			continue
		}
		entry, ok := dd[key]
		if !ok {
			continue
		}
		counts := make(map[model.GroundPair]int64)
		var total int64
		for _, pr := range entry.Pairs {
			counts[pr]++
			total++
		}
		if total == 0 {
			continue
		}
		for pr, c := range counts {
			share := units * c / total
			if share < minFlowPerPair {
				share = minFlowPerPair
			}
			flowsByPair[pr] += share
		}
	}

	flowSet := make([]model.AtkFlow, 0, len(flowsByPair))
	for pr, f := range flowsByPair {
		flowSet = append(flowSet, model.AtkFlow{Pair: pr, Flows: f})
	}
	sort.Slice(flowSet, func(i, j int) bool {
		if flowSet[i].Pair.Src != flowSet[j].Pair.Src {
			return flowSet[i].Pair.Src < flowSet[j].Pair.Src
		}
		return flowSet[i].Pair.Dst < flowSet[j].Pair.Dst
	})

	var flowsOnTrg int64
	for _, c := range congested {
		flowsOnTrg += remainingOf(bw, c)
	}

	return model.AttackInfo{
		Cost:          result.Cost,
		Detectability: result.Detectability,
		FlowsOnTrg:    flowsOnTrg,
		AtkFlowSet:    flowSet,
	}
}
