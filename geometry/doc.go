// Package geometry builds the satellite constellation, the ground grid,
// and ground<->satellite coverage: the leaf inputs of the icarus pipeline
// (component C). Of the other icarus packages it uses model (shared data
// types), core (ISL adjacency), bfs (ISL connectivity check) and matrix
// (orbital rotation composition).
package geometry

import "errors"

// Sentinel errors for geometry construction.
var (
	// ErrInvalidOrbitCount indicates Orbits <= 0 or SatsPerOrbit <= 0.
	ErrInvalidOrbitCount = errors.New("geometry: orbit and per-orbit satellite counts must be positive")
	// ErrInvalidRepeats indicates a negative icosphere subdivision count.
	ErrInvalidRepeats = errors.New("geometry: grid repeats must be >= 0")
	// ErrInvalidElevationAngle indicates a minimum elevation angle outside (0, 90).
	ErrInvalidElevationAngle = errors.New("geometry: min elevation angle must be in (0,90) degrees")
	// ErrRasterShape indicates the GDP raster does not match the expected 180x360 grid.
	ErrRasterShape = errors.New("geometry: GDP raster must be 180x360 after downsampling")
)

// Physical constants shared by Walker propagation and coverage.
const (
	EarthRadiusM   = 6_371_000.0
	EarthSurfaceKM = 510_072_000.0
	muEarth        = 3.986004418e14 // m^3/s^2, standard gravitational parameter
)
