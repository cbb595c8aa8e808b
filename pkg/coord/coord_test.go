package coord

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---------------------------------------------------------------------------
// LatLon
// ---------------------------------------------------------------------------

func TestLatLonRadians(t *testing.T) {
	ll := LatLon{Lat: 50.0, Lon: -3.5}
	assert.InDelta(t, 50.0*math.Pi/180, ll.LatRad(), 1e-15)
	assert.InDelta(t, -3.5*math.Pi/180, ll.LonRad(), 1e-15)

	back := NewLatLonRad(ll.LatRad(), ll.LonRad())
	assert.InDelta(t, ll.Lat, back.Lat, 1e-12)
	assert.InDelta(t, ll.Lon, back.Lon, 1e-12)
}

func TestPointArithmetic(t *testing.T) {
	m := MapCoordF{X: 3, Y: 4}
	assert.Equal(t, MapCoordF{X: 4, Y: 6}, m.Add(MapCoordF{X: 1, Y: 2}))
	assert.Equal(t, MapCoordF{X: 2, Y: 2}, m.Sub(MapCoordF{X: 1, Y: 2}))
	assert.InDelta(t, 5.0, MapCoordF{}.DistanceTo(m), 1e-15)

	p := ProjPoint{X: 398125, Y: 5579523}
	assert.InDelta(t, 1000.0, p.DistanceTo(p.Add(ProjPoint{X: 600, Y: 800})), 1e-9)
}

// ---------------------------------------------------------------------------
// Affine
// ---------------------------------------------------------------------------

func TestAffineIdentity(t *testing.T) {
	x, y := IdentityAffine().Apply(12.5, -7.25)
	assert.Equal(t, 12.5, x)
	assert.Equal(t, -7.25, y)
}

func TestAffineInvertRoundTrip(t *testing.T) {
	// Rotation + anisotropic flip + translation, the shape the
	// georeferencing actually produces.
	s := 0.9996 * 15.0
	g := 20.0 * math.Pi / 180
	a := Affine{
		M11: s * math.Cos(g), M12: -s * math.Sin(g),
		M21: -s * math.Sin(g), M22: -s * math.Cos(g),
		Dx: 398125, Dy: 5579523,
	}

	inv, err := a.Invert()
	require.NoError(t, err)

	for _, pt := range [][2]float64{{0, 0}, {100, -250}, {-3.125, 7.875}} {
		x, y := a.Apply(pt[0], pt[1])
		bx, by := inv.Apply(x, y)
		assert.InDelta(t, pt[0], bx, 1e-9)
		assert.InDelta(t, pt[1], by, 1e-9)
	}
}

func TestAffineInvertSingular(t *testing.T) {
	_, err := Affine{}.Invert()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not invertible")
}
