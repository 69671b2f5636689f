package geometry

import (
	"math"

	"github.com/giacgiuliari/icarus-framework/matrix"
)

// rotZ and rotX build elementary 3x3 rotation matrices (radians), composed
// by Walker propagation into the RAAN * inclination chain that carries a
// point-in-orbital-plane position into ECEF. Built on the teacher's dense
// matrix primitives (matrix.NewDense + matrix.Mul) rather than ad hoc
// trigonometric bookkeeping, so the rotation composition is literally
// matrix multiplication.
func rotZ(theta float64) *matrix.Dense {
	c, s := math.Cos(theta), math.Sin(theta)
	d, err := matrix.NewDense(3, 3)
	if err != nil {
		panic("geometry: rotZ: " + err.Error())
	}
	rows := [3][3]float64{
		{c, -s, 0},
		{s, c, 0},
		{0, 0, 1},
	}
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			_ = d.Set(i, j, rows[i][j])
		}
	}
	return d
}

func rotX(theta float64) *matrix.Dense {
	c, s := math.Cos(theta), math.Sin(theta)
	d, err := matrix.NewDense(3, 3)
	if err != nil {
		panic("geometry: rotX: " + err.Error())
	}
	rows := [3][3]float64{
		{1, 0, 0},
		{0, c, -s},
		{0, s, c},
	}
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			_ = d.Set(i, j, rows[i][j])
		}
	}
	return d
}

// composeOrbitalRotation returns the rotation matrix carrying a
// point-in-orbital-plane coordinate to ECEF: first tilt by inclination
// around X, then precess by the right ascension of the ascending node
// around Z.
func composeOrbitalRotation(raan, inclination float64) *matrix.Dense {
	tilt := rotX(inclination)
	precess := rotZ(raan)
	out, err := matrix.Mul(precess, tilt)
	if err != nil {
		// Both operands are always 3x3; a shape mismatch here is a
		// programming error, not a runtime condition callers can act on.
		panic("geometry: rotation composition shape mismatch: " + err.Error())
	}
	return out.(*matrix.Dense)
}

// applyRotation rotates the column vector (x,y,z) by m.
func applyRotation(m *matrix.Dense, x, y, z float64) (rx, ry, rz float64) {
	v, err := matrix.NewDense(3, 1)
	if err != nil {
		panic("geometry: applyRotation: " + err.Error())
	}
	_ = v.Set(0, 0, x)
	_ = v.Set(1, 0, y)
	_ = v.Set(2, 0, z)

	rv, err := matrix.Mul(m, v)
	if err != nil {
		panic("geometry: rotation apply shape mismatch: " + err.Error())
	}
	rx, _ = rv.At(0, 0)
	ry, _ = rv.At(1, 0)
	rz, _ = rv.At(2, 0)
	return rx, ry, rz
}
