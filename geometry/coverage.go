package geometry

import (
	"math"

	"github.com/giacgiuliari/icarus-framework/model"
	"gonum.org/v1/gonum/spatial/kdtree"
)

// ecefPoint is a kdtree.Comparable over 3D ECEF coordinates; nearest-neighbor
// and range queries in chord distance are monotonic with great-circle
// distance, so this sidesteps the usual lat/lon metric distortion.
type ecefPoint struct {
	x, y, z float64
	id      int
}

func (p ecefPoint) Compare(c kdtree.Comparable, d kdtree.Dim) float64 {
	q := c.(ecefPoint)
	switch d {
	case 0:
		return p.x - q.x
	case 1:
		return p.y - q.y
	default:
		return p.z - q.z
	}
}

func (p ecefPoint) Dims() int { return 3 }

func (p ecefPoint) Distance(c kdtree.Comparable) float64 {
	q := c.(ecefPoint)
	dx, dy, dz := p.x-q.x, p.y-q.y, p.z-q.z
	return dx*dx + dy*dy + dz*dz
}

type ecefPoints []ecefPoint

func (p ecefPoints) Len() int                    { return len(p) }
func (p ecefPoints) Index(i int) kdtree.Comparable { return p[i] }
func (p ecefPoints) Pivot(d kdtree.Dim) int {
	return kdtree.Partition(ecefPlane{ecefPoints: p, Dim: d}, kdtree.MedianOfMedians(ecefPlane{ecefPoints: p, Dim: d}))
}
func (p ecefPoints) Slice(start, end int) kdtree.Interface { return p[start:end] }

// ecefPlane adapts ecefPoints to kdtree.SortSlicer for a fixed split dimension.
type ecefPlane struct {
	ecefPoints
	kdtree.Dim
}

func (p ecefPlane) Less(i, j int) bool {
	return p.ecefPoints[i].Compare(p.ecefPoints[j], p.Dim) < 0
}
func (p ecefPlane) Pivot() int { return kdtree.Partition(p, kdtree.MedianOfMedians(p)) }
func (p ecefPlane) Slice(start, end int) kdtree.SortSlicer {
	p.ecefPoints = p.ecefPoints[start:end]
	return p
}

func toECEFPoints(pts map[int]model.GeoPoint) ecefPoints {
	out := make(ecefPoints, 0, len(pts))
	for id, p := range pts {
		x, y, z := geoToECEF(p)
		out = append(out, ecefPoint{x: x, y: y, z: z, id: id})
	}
	return out
}

// BuildCoverage computes, for every ground grid point, the set of
// satellites visible above MinElevationDeg and their slant range, via a
// kd-tree range query bounded by the chord distance corresponding to the
// elevation-angle horizon.
func BuildCoverage(grid model.GridPos, sats model.SatPos, altitudeM float64, cfg CoverConfig) (model.Coverage, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	geoSats := make(map[int]model.GeoPoint, len(sats))
	for id, p := range sats {
		geoSats[id] = p
	}
	satPoints := toECEFPoints(geoSats)
	tree := kdtree.New(satPoints, false)

	maxChord := horizonChord(altitudeM, cfg.MinElevationDeg)

	cov := make(model.Coverage, len(grid))
	for gid, gp := range grid {
		gx, gy, gz := geoToECEF(gp.GeoPoint)
		q := ecefPoint{x: gx, y: gy, z: gz}
		keeper := kdtree.NewDistKeeper(maxChord * maxChord)
		tree.NearestSet(keeper, q)
		for _, cd := range keeper.Heap {
			sp := cd.Comparable.(ecefPoint)
			if cov[gid] == nil {
				cov[gid] = make(map[int]float64)
			}
			cov[gid][sp.id] = math.Sqrt(cd.Dist)
		}
	}
	return cov, nil
}

// horizonChord returns the maximum ground-to-satellite chord distance (m)
// at which a satellite at altitudeM is still above minElevDeg from the
// local horizon, via the classic law-of-sines slant-range relation.
func horizonChord(altitudeM, minElevDeg float64) float64 {
	re := EarthRadiusM
	rs := EarthRadiusM + altitudeM
	elev := minElevDeg * math.Pi / 180
	// Law of sines in the Earth-center/ground/sat triangle:
	// sin(centralAngle+elev+pi/2-elev... ) simplifies to:
	sinLambda := re / rs * math.Cos(elev)
	centralAngle := math.Acos(clamp(sinLambda, -1, 1)) - elev
	if centralAngle < 0 {
		centralAngle = 0
	}
	slant := math.Sqrt(re*re + rs*rs - 2*re*rs*math.Cos(centralAngle))
	return slant
}
