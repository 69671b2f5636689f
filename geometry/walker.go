package geometry

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/giacgiuliari/icarus-framework/bfs"
	"github.com/giacgiuliari/icarus-framework/core"
	"github.com/giacgiuliari/icarus-framework/model"
)

// ErrISLGraphDisconnected is returned when the seam or an inter-plane skip
// leaves satellites unreachable from each other: routing downstream expects
// every ground pair's candidate endpoints to share one component.
var ErrISLGraphDisconnected = errors.New("geometry: ISL graph is disconnected")

// PropagateWalker computes instantaneous satellite positions for a
// Walker-Delta constellation at the simulated snapshot epoch (t=0), and the
// +x/-x/+y/-y intra- and inter-plane ISL motif with a seam at the last
// orbital-plane boundary (co-rotating planes do not close the ring, since
// their relative velocity there is too large to sustain a stable link).
func PropagateWalker(cfg WalkerConfig) (model.SatPos, []model.IslInfo, error) {
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	sma := EarthRadiusM + cfg.AltitudeM
	period := 2 * math.Pi * math.Sqrt(sma*sma*sma/muEarth)
	meanMotion := 2 * math.Pi / period
	incl := cfg.InclinationD * math.Pi / 180

	pos := make(model.SatPos, cfg.Orbits*cfg.SatsPerOrbit)
	id := func(orbit, slot int) int { return orbit*cfg.SatsPerOrbit + slot }

	for o := 0; o < cfg.Orbits; o++ {
		raan := 2 * math.Pi * float64(o) / float64(cfg.Orbits)
		rot := composeOrbitalRotation(raan, incl)
		phaseOffset := 2 * math.Pi * float64(cfg.PhaseFactor*o) / float64(cfg.Orbits*cfg.SatsPerOrbit)
		for s := 0; s < cfg.SatsPerOrbit; s++ {
			theta := 2*math.Pi*float64(s)/float64(cfg.SatsPerOrbit) + phaseOffset
			x, y, z := applyRotation(rot, sma*math.Cos(theta), sma*math.Sin(theta), 0)
			pos[id(o, s)] = ecefToGeo(x, y, z)
			_ = meanMotion // mean motion only matters for multi-epoch propagation (Non-goal)
		}
	}

	var isls []model.IslInfo
	for o := 0; o < cfg.Orbits; o++ {
		for s := 0; s < cfg.SatsPerOrbit; s++ {
			a := id(o, s)
			// Intra-plane ring: connect to the next slot, wrapping.
			b := id(o, (s+1)%cfg.SatsPerOrbit)
			isls = append(isls, model.IslInfo{A: a, B: b, Length: greatCircleChord(pos[a], pos[b])})
			// Inter-plane: connect to the same slot in the next plane, skipping the seam.
			if o+1 < cfg.Orbits {
				c := id(o+1, s)
				isls = append(isls, model.IslInfo{A: a, B: c, Length: greatCircleChord(pos[a], pos[c])})
			}
		}
	}

	return pos, isls, nil
}

// BuildISLGraph folds a symmetric IslInfo list into a directed, weighted
// core.Graph (each ISL contributes both (a,b) and (b,a)).
func BuildISLGraph(pos model.SatPos, isls []model.IslInfo) (*core.Graph, error) {
	g := core.NewGraph(core.WithDirected(true), core.WithWeighted())
	for id := range pos {
		if err := g.AddVertex(model.NodeKey(id)); err != nil {
			return nil, err
		}
	}
	for _, isl := range isls {
		w := int64(math.Round(isl.Length))
		if _, err := g.AddEdge(model.NodeKey(isl.A), model.NodeKey(isl.B), w); err != nil {
			return nil, err
		}
		if _, err := g.AddEdge(model.NodeKey(isl.B), model.NodeKey(isl.A), w); err != nil {
			return nil, err
		}
	}
	if err := checkConnected(pos, isls); err != nil {
		return nil, err
	}
	return g, nil
}

// checkConnected runs a single BFS from the satellite whose NodeKey sorts
// first as a string (so "10" precedes "2") over
// an unweighted shadow of the ISL mesh and fails if any satellite is
// unreached, catching a seam misconfiguration (e.g. one orbital plane never
// wired to its neighbor) before it turns into silent "no path" errors three
// phases later in routing. bfs.BFS rejects weighted graphs outright, so the
// check runs over a plain reachability graph rather than g itself — edge
// weight (ISL length) is irrelevant to whether the mesh is one component.
func checkConnected(pos model.SatPos, isls []model.IslInfo) error {
	if len(pos) == 0 {
		return nil
	}
	shadow := core.NewGraph()
	for id := range pos {
		if err := shadow.AddVertex(model.NodeKey(id)); err != nil {
			return err
		}
	}
	for _, isl := range isls {
		if _, err := shadow.AddEdge(model.NodeKey(isl.A), model.NodeKey(isl.B), 1); err != nil {
			return err
		}
	}

	vs := shadow.Vertices()
	sort.Strings(vs)
	res, err := bfs.BFS(shadow, vs[0])
	if err != nil {
		return fmt.Errorf("geometry: connectivity check: %w", err)
	}
	if len(res.Order) != len(vs) {
		return fmt.Errorf("%w: reached %d/%d satellites from %s",
			ErrISLGraphDisconnected, len(res.Order), len(vs), vs[0])
	}
	return nil
}

func ecefToGeo(x, y, z float64) model.GeoPoint {
	r := math.Sqrt(x*x + y*y + z*z)
	lat := math.Asin(clamp(z/r, -1, 1)) * 180 / math.Pi
	lon := math.Atan2(y, x) * 180 / math.Pi
	return model.GeoPoint{Lat: lat, Lon: lon, Elev: r - EarthRadiusM}
}

func greatCircleChord(a, b model.GeoPoint) float64 {
	ax, ay, az := geoToECEF(a)
	bx, by, bz := geoToECEF(b)
	dx, dy, dz := ax-bx, ay-by, az-bz
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

func geoToECEF(p model.GeoPoint) (x, y, z float64) {
	r := EarthRadiusM + p.Elev
	lat := p.Lat * math.Pi / 180
	lon := p.Lon * math.Pi / 180
	x = r * math.Cos(lat) * math.Cos(lon)
	y = r * math.Cos(lat) * math.Sin(lon)
	z = r * math.Sin(lat)
	return x, y, z
}
