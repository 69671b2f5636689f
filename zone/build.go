package zone

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/spatial/kdtree"

	"github.com/giacgiuliari/icarus-framework/model"
)

// Zone is a cluster of ground grid points around one center, the k nearest
// grid points (by cartesian distance) to that center, per spec.md §4.H
// step 1.
type Zone struct {
	Center  int
	Members []int
}

// cartPoint adapts a grid id/position pair to kdtree.Comparable over
// cartesian coordinates, mirroring geometry's ECEF point type — zone
// construction cares about plain Euclidean distance on geo2cart, not the
// chord-vs-elevation horizon coverage uses.
type cartPoint struct {
	x, y, z float64
	id      int
}

func (p cartPoint) Compare(c kdtree.Comparable, d kdtree.Dim) float64 {
	q := c.(cartPoint)
	switch d {
	case 0:
		return p.x - q.x
	case 1:
		return p.y - q.y
	default:
		return p.z - q.z
	}
}

func (p cartPoint) Dims() int { return 3 }

func (p cartPoint) Distance(c kdtree.Comparable) float64 {
	q := c.(cartPoint)
	dx, dy, dz := p.x-q.x, p.y-q.y, p.z-q.z
	return dx*dx + dy*dy + dz*dz
}

type cartPoints []cartPoint

func (p cartPoints) Len() int                      { return len(p) }
func (p cartPoints) Index(i int) kdtree.Comparable { return p[i] }
func (p cartPoints) Pivot(d kdtree.Dim) int {
	return kdtree.Partition(cartPlane{cartPoints: p, Dim: d}, kdtree.MedianOfMedians(cartPlane{cartPoints: p, Dim: d}))
}
func (p cartPoints) Slice(start, end int) kdtree.Interface { return p[start:end] }

// cartPlane adapts cartPoints to kdtree.SortSlicer for a fixed split
// dimension.
type cartPlane struct {
	cartPoints
	kdtree.Dim
}

func (p cartPlane) Less(i, j int) bool {
	return p.cartPoints[i].Compare(p.cartPoints[j], p.Dim) < 0
}
func (p cartPlane) Pivot() int { return kdtree.Partition(p, kdtree.MedianOfMedians(p)) }
func (p cartPlane) Slice(start, end int) kdtree.SortSlicer {
	p.cartPoints = p.cartPoints[start:end]
	return p
}

func geoToCart(p model.GeoPoint, earthRadiusM float64) (x, y, z float64) {
	r := earthRadiusM + p.Elev
	lat := p.Lat * math.Pi / 180
	lon := p.Lon * math.Pi / 180
	x = r * math.Cos(lat) * math.Cos(lon)
	y = r * math.Cos(lat) * math.Sin(lon)
	z = r * math.Sin(lat)
	return x, y, z
}

func toCartPoints(grid model.GridPos, earthRadiusM float64) cartPoints {
	out := make(cartPoints, 0, len(grid))
	for id, gp := range grid {
		x, y, z := geoToCart(gp.GeoPoint, earthRadiusM)
		out = append(out, cartPoint{x: x, y: y, z: z, id: id})
	}
	return out
}

// Build returns the zone of the k nearest grid points (including the
// center itself) to center. ok is false if center is not in grid or k is
// non-positive.
func Build(center int, grid model.GridPos, k int, earthRadiusM float64) (z Zone, ok bool) {
	c, present := grid[center]
	if !present || k <= 0 {
		return Zone{}, false
	}
	points := toCartPoints(grid, earthRadiusM)
	tree := kdtree.New(points, false)
	cx, cy, cz := geoToCart(c.GeoPoint, earthRadiusM)

	keeper := kdtree.NewNKeeper(k)
	tree.NearestSet(keeper, cartPoint{x: cx, y: cy, z: cz, id: center})

	members := make([]int, 0, k)
	for _, cd := range keeper.Heap {
		members = append(members, cd.Comparable.(cartPoint).id)
	}
	sort.Ints(members)
	return Zone{Center: center, Members: members}, true
}

// Intersects reports whether the two zones share any grid point, per
// spec.md §4.H step 1's discard condition.
func Intersects(a, b Zone) bool {
	set := make(map[int]struct{}, len(a.Members))
	for _, m := range a.Members {
		set[m] = struct{}{}
	}
	for _, m := range b.Members {
		if _, ok := set[m]; ok {
			return true
		}
	}
	return false
}
