// Package routing selects, for each ordered ground pair, a small set of
// candidate paths under a stretch bound over the ISL graph (component D).
// Ground endpoints are injected as temporary nodes linked to their
// covering satellites at the slant-range weight, routed with
// dijkstra, then retracted — the ISL graph itself is never permanently
// modified by routing a pair.
package routing

import (
	"errors"
	"math"

	"github.com/giacgiuliari/icarus-framework/core"
	"github.com/giacgiuliari/icarus-framework/dijkstra"
	"github.com/giacgiuliari/icarus-framework/model"
)

// ErrNoCoverage indicates a ground point has no covering satellite, so it
// cannot be injected into the ISL graph at all.
var ErrNoCoverage = errors.New("routing: ground point has no covering satellite")

// ErrNoPath indicates no path under the stretch cutoff was found.
var ErrNoPath = errors.New("routing: no path within stretch cutoff")

// Variant computes the LbSet for one ground pair over g, using cov to
// inject temporary ground nodes.
type Variant func(g *core.Graph, cov model.Coverage, grid model.GridPos, src, dst, k int, stretch float64) (model.LbSet, error)

// withGroundNodes injects temporary vertices for src and dst, wired to
// their covering satellites at slant-range weight, runs fn, then retracts
// both temporary vertices (and their incident edges) before returning.
func withGroundNodes(g *core.Graph, cov model.Coverage, src, dst int, fn func(srcKey, dstKey string) error) error {
	srcKey, dstKey := model.NodeKey(model.NegateGround(src)), model.NodeKey(model.NegateGround(dst))
	if err := injectGround(g, cov, src, srcKey); err != nil {
		return err
	}
	defer g.RemoveVertex(srcKey)
	if err := injectGround(g, cov, dst, dstKey); err != nil {
		return err
	}
	defer g.RemoveVertex(dstKey)
	return fn(srcKey, dstKey)
}

func injectGround(g *core.Graph, cov model.Coverage, groundID int, key string) error {
	sats, ok := cov[groundID]
	if !ok || len(sats) == 0 {
		return ErrNoCoverage
	}
	if err := g.AddVertex(key); err != nil {
		return err
	}
	for satID, rangeM := range sats {
		w := int64(math.Round(rangeM))
		if _, err := g.AddEdge(key, model.NodeKey(satID), w); err != nil {
			return err
		}
		if _, err := g.AddEdge(model.NodeKey(satID), key, w); err != nil {
			return err
		}
	}
	return nil
}

// GreatCircleDistance returns the great-circle distance in meters between
// two grid points, used to scale the stretch cutoff.
func GreatCircleDistance(a, b model.GeoPoint, earthRadiusM float64) float64 {
	lat1, lon1 := a.Lat*math.Pi/180, a.Lon*math.Pi/180
	lat2, lon2 := b.Lat*math.Pi/180, b.Lon*math.Pi/180
	dlat, dlon := lat2-lat1, lon2-lon1
	h := math.Sin(dlat/2)*math.Sin(dlat/2) + math.Cos(lat1)*math.Cos(lat2)*math.Sin(dlon/2)*math.Sin(dlon/2)
	return 2 * earthRadiusM * math.Asin(math.Sqrt(h))
}

func pathFromPrev(prev map[string]string, srcKey, dstKey string) model.Path {
	var rev []int
	cur := dstKey
	for {
		rev = append(rev, model.ParseNodeKey(cur))
		if cur == srcKey {
			break
		}
		p, ok := prev[cur]
		if !ok {
			return nil
		}
		cur = p
	}
	out := make(model.Path, len(rev))
	for i, v := range rev {
		out[len(rev)-1-i] = v
	}
	return out
}

func pathLength(dist map[string]int64, dstKey string) (float64, bool) {
	d, ok := dist[dstKey]
	// dijkstra reports unreachable vertices with distance math.MaxInt64.
	return float64(d), ok && d != math.MaxInt64
}

func singlePath(g *core.Graph, srcKey, dstKey string, maxDist int64) (model.Path, float64, error) {
	dist, prev, err := dijkstra.Dijkstra(g,
		dijkstra.Source(srcKey),
		dijkstra.WithReturnPath(),
		dijkstra.WithMaxDistance(maxDist),
	)
	if err != nil {
		return nil, 0, err
	}
	length, ok := pathLength(dist, dstKey)
	if !ok {
		return nil, 0, ErrNoPath
	}
	p := pathFromPrev(prev, srcKey, dstKey)
	if p == nil {
		return nil, 0, ErrNoPath
	}
	return p, length, nil
}
