package coord

import (
	"math"

	"github.com/rotisserie/eris"
)

// Affine is a 2D affine transform
//
//	x' = M11*x + M12*y + Dx
//	y' = M21*x + M22*y + Dy
//
// used to relate the map plane to the projected grid plane.
type Affine struct {
	M11, M12 float64
	M21, M22 float64
	Dx, Dy   float64
}

// IdentityAffine returns the identity transform.
func IdentityAffine() Affine {
	return Affine{M11: 1, M22: 1}
}

// Apply transforms the point (x, y).
func (a Affine) Apply(x, y float64) (float64, float64) {
	return a.M11*x + a.M12*y + a.Dx, a.M21*x + a.M22*y + a.Dy
}

// Determinant returns the determinant of the linear part.
func (a Affine) Determinant() float64 {
	return a.M11*a.M22 - a.M12*a.M21
}

// Invert returns the exact inverse transform. It fails when the linear
// part is singular.
func (a Affine) Invert() (Affine, error) {
	det := a.Determinant()
	if det == 0 || math.IsNaN(det) || math.IsInf(det, 0) {
		return Affine{}, eris.Errorf("coord: affine transform is not invertible (det=%v)", det)
	}
	inv := Affine{
		M11: a.M22 / det,
		M12: -a.M12 / det,
		M21: -a.M21 / det,
		M22: a.M11 / det,
	}
	inv.Dx = -(inv.M11*a.Dx + inv.M12*a.Dy)
	inv.Dy = -(inv.M21*a.Dx + inv.M22*a.Dy)
	return inv, nil
}
