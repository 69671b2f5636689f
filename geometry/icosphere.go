package geometry

import (
	"math"

	"github.com/giacgiuliari/icarus-framework/model"
)

// icoVert is a unit-sphere vertex during subdivision.
type icoVert struct{ x, y, z float64 }

func normalize(v icoVert) icoVert {
	n := math.Sqrt(v.x*v.x + v.y*v.y + v.z*v.z)
	return icoVert{v.x / n, v.y / n, v.z / n}
}

// baseIcosahedron returns the 12 canonical vertices and 20 faces of a
// regular icosahedron (V=12, E=30): the three mutually orthogonal golden
// rectangles whose 12 corners are the icosahedron's vertices.
func baseIcosahedron() ([]icoVert, [][3]int) {
	phi := (1 + math.Sqrt(5)) / 2
	raw := [][3]float64{
		{-1, phi, 0}, {1, phi, 0}, {-1, -phi, 0}, {1, -phi, 0},
		{0, -1, phi}, {0, 1, phi}, {0, -1, -phi}, {0, 1, -phi},
		{phi, 0, -1}, {phi, 0, 1}, {-phi, 0, -1}, {-phi, 0, 1},
	}
	verts := make([]icoVert, len(raw))
	for i, r := range raw {
		verts[i] = normalize(icoVert{r[0], r[1], r[2]})
	}
	faces := [][3]int{
		{0, 11, 5}, {0, 5, 1}, {0, 1, 7}, {0, 7, 10}, {0, 10, 11},
		{1, 5, 9}, {5, 11, 4}, {11, 10, 2}, {10, 7, 6}, {7, 1, 8},
		{3, 9, 4}, {3, 4, 2}, {3, 2, 6}, {3, 6, 8}, {3, 8, 9},
		{4, 9, 5}, {2, 4, 11}, {6, 2, 10}, {8, 6, 7}, {9, 8, 1},
	}
	return verts, faces
}

// subdivide performs one round of class-1 subdivision: every face is split
// into four by inserting the midpoint of each of its three edges, with
// shared midpoints deduplicated via an edge-key cache so the resulting mesh
// stays manifold.
func subdivide(verts []icoVert, faces [][3]int) ([]icoVert, [][3]int) {
	midCache := make(map[[2]int]int)
	midpoint := func(a, b int) int {
		key := [2]int{a, b}
		if a > b {
			key = [2]int{b, a}
		}
		if idx, ok := midCache[key]; ok {
			return idx
		}
		va, vb := verts[a], verts[b]
		m := normalize(icoVert{
			(va.x + vb.x) / 2,
			(va.y + vb.y) / 2,
			(va.z + vb.z) / 2,
		})
		idx := len(verts)
		verts = append(verts, m)
		midCache[key] = idx
		return idx
	}

	newFaces := make([][3]int, 0, len(faces)*4)
	for _, f := range faces {
		a, b, c := f[0], f[1], f[2]
		ab := midpoint(a, b)
		bc := midpoint(b, c)
		ca := midpoint(c, a)
		newFaces = append(newFaces,
			[3]int{a, ab, ca},
			[3]int{b, bc, ab},
			[3]int{c, ca, bc},
			[3]int{ab, bc, ca},
		)
	}
	return verts, newFaces
}

// BuildGrid constructs the geodesic icosphere ground grid: repeats rounds
// of subdivision applied to a base icosahedron, projected to lat/lon, each
// point annotated with a uniform cell surface and a GDP-derived weight.
func BuildGrid(cfg GridConfig) (model.GridPos, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	verts, faces := baseIcosahedron()
	for i := 0; i < cfg.Repeats; i++ {
		verts, faces = subdivide(verts, faces)
	}
	_ = faces // faces only needed during subdivision to keep the mesh manifold

	surface := EarthSurfaceKM / float64(len(verts))
	grid := make(model.GridPos, len(verts))
	maxWeight := 0.0
	for i, v := range verts {
		lat := math.Asin(clamp(v.z, -1, 1)) * 180 / math.Pi
		lon := math.Atan2(v.y, v.x) * 180 / math.Pi
		w := gdpWeight(cfg.GDPRaster, lat, lon)
		if w > maxWeight {
			maxWeight = w
		}
		grid[i] = model.GridPoint{
			GeoPoint: model.GeoPoint{Lat: lat, Lon: lon, Elev: 0},
			Weight:   w,
			Surface:  surface,
		}
	}
	if maxWeight > 0 {
		for i, gp := range grid {
			gp.Weight /= maxWeight
			grid[i] = gp
		}
	}
	return grid, nil
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
