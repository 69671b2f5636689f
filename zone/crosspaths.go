package zone

import (
	"sort"
	"strconv"
	"strings"

	"github.com/giacgiuliari/icarus-framework/model"
)

// normalizeEnds collapses a path's first/last hop to the generic ground
// sentinel, the same endpoint convention edge aggregation uses for
// EdgeData keys — a cross-zone path cares about the hop sequence, not
// which specific ground id it started from.
func normalizeEnds(p model.Path) model.Path {
	out := p.Clone()
	if len(out) == 0 {
		return out
	}
	out[0] = model.GroundSentinel
	out[len(out)-1] = model.GroundSentinel
	return out
}

func pathKey(p model.Path) string {
	b := strings.Builder{}
	for i, h := range p {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.Itoa(h))
	}
	return b.String()
}

// CrossZonePaths concatenates every routed path between a member of z1 and
// a member of z2, reorienting paths PathData stores under the opposite
// pair ordering, attaching generic ground sentinels at both ends, and
// returns the sorted-unique result, per spec.md §4.H step 2.
func CrossZonePaths(pd model.PathData, z1, z2 Zone) []model.Path {
	seen := make(map[string]model.Path)
	for _, a := range z1.Members {
		for _, b := range z2.Members {
			canon, reversed := model.NewGroundPair(a, b)
			lb, ok := pd[canon]
			if !ok {
				continue
			}
			for _, info := range lb {
				p := info.Path
				if reversed {
					p = p.Reversed()
				}
				norm := normalizeEnds(p)
				seen[pathKey(norm)] = norm
			}
		}
	}

	out := make([]model.Path, 0, len(seen))
	for _, p := range seen {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return pathKey(out[i]) < pathKey(out[j]) })
	return out
}
