package attack

import (
	"strconv"
	"strings"

	"github.com/giacgiuliari/icarus-framework/model"
)

// DirectionKey canonically identifies a Direction by its hop sequence.
type DirectionKey string

func directionKey(hops []int) DirectionKey {
	b := strings.Builder{}
	for i, h := range hops {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.Itoa(h))
	}
	return DirectionKey(b.String())
}

// DirectionEntry is a synthesized attack direction: the truncated hop
// sequence from a ground source to the target edge's head, and the
// (possibly repeated) ground pairs whose routed paths realize it —
// multiplicity here stands in for probability mass, per spec.md §4.G.1.
type DirectionEntry struct {
	Path  []int
	Pairs []model.GroundPair
}

// DirectionData maps every synthesized direction to its realizing pairs.
type DirectionData map[DirectionKey]*DirectionEntry

// containsHop reports whether the directed edge e appears as a consecutive
// (u,v) transition in hops.
func containsHop(hops []int, e model.Edge) bool {
	for i := 0; i+1 < len(hops); i++ {
		if hops[i] == e.U && hops[i+1] == e.V {
			return true
		}
	}
	return false
}

// SynthesizeDirections builds DirectionData for the target edges, per
// spec.md §4.G.1: for each target, gather PathIds traversing it in either
// orientation (deduped so a g→s→g path that crosses the same physical link
// twice is not double-counted), reverse the ones sourced from the opposite
// pair so every direction is expressed in the target's own orientation,
// drop sources outside allowedSources, truncate right after the target's
// head, and prepend the generic ground sentinel.
func SynthesizeDirections(targets []model.Edge, ed model.EdgeData, pd model.PathData, allowedSources map[int]bool) DirectionData {
	data := make(DirectionData)

	for _, e := range targets {
		seen := make(map[model.PathId]bool)

		process := func(pid model.PathId, reversed bool) {
			if seen[pid] {
				return
			}
			seen[pid] = true

			info, ok := pd.Lookup(pid)
			if !ok {
				return
			}
			path := info.Path
			if reversed {
				path = path.Reversed()
			}
			if len(path) == 0 {
				return
			}
			srcGround := model.GroundID(path[0])
			if allowedSources != nil {
				if _, allowed := allowedSources[srcGround]; !allowed {
					return
				}
			}

			idx := -1
			for i := 0; i+1 < len(path); i++ {
				if path[i] == e.U && path[i+1] == e.V {
					idx = i + 1
					break
				}
			}
			if idx < 0 {
				return
			}

			hops := make([]int, idx+1)
			copy(hops, path[:idx+1])
			hops[0] = model.GroundSentinel
			if model.IsGroundNode(e.V) {
				hops = append(hops, model.GroundSentinel)
			}

			key := directionKey(hops)
			entry, ok := data[key]
			if !ok {
				entry = &DirectionEntry{Path: hops}
				data[key] = entry
			}
			entry.Pairs = append(entry.Pairs, pid.Pair())
		}

		if info, ok := ed[e]; ok {
			for _, pid := range info.PathsThrough {
				process(pid, false)
			}
		}
		if info, ok := ed[e.Reverse()]; ok {
			for _, pid := range info.PathsThrough {
				process(pid, true)
			}
		}
	}

	return data
}
