package projection

import (
	"math"
	"strings"

	cproj "github.com/ctessum/geom/proj"
	"github.com/rotisserie/eris"

	"github.com/mapgrid/georef/pkg/coord"
)

// GeographicSpec is the specification of the geographic CRS every
// projection transforms from and to.
const GeographicSpec = "+proj=longlat +datum=WGS84 +no_defs"

// Proj4Engine parses proj.4 specification strings. It holds no state
// across Parse calls; each returned Projection owns its transforms.
type Proj4Engine struct{}

// NewProj4Engine returns the default projection engine.
func NewProj4Engine() Proj4Engine { return Proj4Engine{} }

// Parse builds the forward and inverse transforms for spec. Any failure
// to understand the specification or to construct a transform is a parse
// failure.
func (Proj4Engine) Parse(spec string) (Projection, error) {
	geographic, err := cproj.Parse(GeographicSpec)
	if err != nil {
		return nil, eris.Wrap(err, "projection: parse geographic CRS")
	}
	projected, err := cproj.Parse(spec)
	if err != nil {
		return nil, eris.Wrapf(err, "projection: parse specification %q", spec)
	}
	fwd, err := geographic.NewTransform(projected)
	if err != nil {
		return nil, eris.Wrapf(err, "projection: forward transform for %q", spec)
	}
	inv, err := projected.NewTransform(geographic)
	if err != nil {
		return nil, eris.Wrapf(err, "projection: inverse transform for %q", spec)
	}

	// The port resolves the projection routine only when a transform
	// runs, so a spec naming an unimplemented projection (somerc, for
	// one) parses cleanly and then fails on every point. Probe once so
	// such specs fail here instead of reporting a valid configuration.
	if _, _, err := fwd(0, 0); err != nil && strings.Contains(err.Error(), "could not find transformer") {
		return nil, eris.Wrapf(err, "projection: unsupported projection in %q", spec)
	}

	return &proj4Projection{spec: spec, fwd: fwd, inv: inv}, nil
}

type proj4Projection struct {
	spec string
	fwd  cproj.Transformer
	inv  cproj.Transformer
}

func (p *proj4Projection) Forward(ll coord.LatLon) (coord.ProjPoint, error) {
	x, y, err := p.fwd(ll.Lon, ll.Lat)
	if err != nil {
		return coord.ProjPoint{}, eris.Wrapf(err, "projection: forward transform of %v", ll)
	}
	if !finite(x) || !finite(y) {
		return coord.ProjPoint{}, eris.Errorf("projection: %v is outside the domain of %q", ll, p.spec)
	}
	return coord.ProjPoint{X: x, Y: y}, nil
}

func (p *proj4Projection) Inverse(pt coord.ProjPoint) (coord.LatLon, error) {
	lon, lat, err := p.inv(pt.X, pt.Y)
	if err != nil {
		return coord.LatLon{}, eris.Wrapf(err, "projection: inverse transform of %v", pt)
	}
	if !finite(lon) || !finite(lat) {
		return coord.LatLon{}, eris.Errorf("projection: %v is outside the domain of %q", pt, p.spec)
	}
	return coord.LatLon{Lat: lat, Lon: lon}, nil
}

func (p *proj4Projection) Convergence(ll coord.LatLon) (float64, error) {
	return ProbeConvergence(p, ll)
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
