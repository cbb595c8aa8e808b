// Package projection defines the narrow contract between the
// georeferencing core and a cartographic projection engine, and provides
// a default engine backed by a pure Go proj.4 implementation.
package projection

import (
	"math"

	"github.com/mapgrid/georef/pkg/coord"
)

// Projection is a parsed projection specification: a pair of point
// transforms between geographic and projected coordinates.
//
// Forward and Inverse report a per-point error when the point lies
// outside the projection's domain of validity; such failures are local
// and recoverable.
type Projection interface {
	Forward(ll coord.LatLon) (coord.ProjPoint, error)
	Inverse(p coord.ProjPoint) (coord.LatLon, error)

	// Convergence returns the meridian convergence at ll in degrees:
	// the angle from grid north to true north, positive when grid north
	// lies west of true north.
	Convergence(ll coord.LatLon) (float64, error)
}

// Engine turns projection specification strings into Projections.
// A Parse failure means the specification is not usable; the error text
// is the diagnostic surfaced to the user.
//
// Parse results are self-contained. An engine must not require callers
// to serialize use of independently parsed Projections.
type Engine interface {
	Parse(spec string) (Projection, error)
}

// ProbeConvergence derives the meridian convergence at ll from any
// forward transform by a finite-difference probe roughly one kilometer
// north along the meridian. Engines without an analytic convergence can
// delegate to it.
func ProbeConvergence(p Projection, ll coord.LatLon) (float64, error) {
	// One kilometer of latitude, in degrees.
	const dLat = 1000.0 / 111132.95
	base, err := p.Forward(ll)
	if err != nil {
		return 0, err
	}
	north, err := p.Forward(coord.LatLon{Lat: ll.Lat + dLat, Lon: ll.Lon})
	if err != nil {
		return 0, err
	}
	d := north.Sub(base)
	return -math.Atan2(d.X, d.Y) * 180 / math.Pi, nil
}
