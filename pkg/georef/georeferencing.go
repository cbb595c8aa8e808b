// Package georef relates the three coordinate spaces of a map document:
// local map coordinates on the drawing sheet, projected grid coordinates
// of a cartographic projection, and geographic coordinates on the WGS84
// ellipsoid.
//
// A Georeferencing is a plain mutable value object owned by one document.
// It is not safe for concurrent mutation; read-only conversions may run
// concurrently only while no Set* call is in flight.
package georef

import (
	"math"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/mapgrid/georef/pkg/coord"
	"github.com/mapgrid/georef/pkg/crs"
	"github.com/mapgrid/georef/pkg/geodesy"
	"github.com/mapgrid/georef/pkg/projection"
)

// State tells whether a real-world CRS is configured.
type State int

const (
	// StateLocal means no projection is active: map coordinates are
	// dimensionless millimeters at the nominal scale.
	StateLocal State = iota
	// StateProjected means a parsed, valid projection specification is
	// active.
	StateProjected
)

func (s State) String() string {
	switch s {
	case StateLocal:
		return "local"
	case StateProjected:
		return "projected"
	default:
		return "unknown"
	}
}

// DefaultScaleDenominator is the nominal map scale of a fresh
// georeferencing (1:1000).
const DefaultScaleDenominator = 1000

// Georeferencing owns the current CRS specification, the affine
// relationship between projected and local map coordinates, and all
// derived scale and orientation quantities.
//
// Derived state (convergence, grivation, the affine transform) is never
// set directly; it is recomputed from the primary inputs after every
// mutation.
type Georeferencing struct {
	engine projection.Engine

	state            State
	scaleDenominator uint

	combinedScaleFactor  float64
	auxiliaryScaleFactor float64

	declination    float64
	grivation      float64
	grivationError float64
	convergence    float64

	mapRef           coord.MapCoordF
	projectedRef     coord.ProjPoint
	geographicRef    coord.LatLon
	hasGeographicRef bool

	crsID     string
	crsSpec   string
	crsParams []string
	errorText string

	proj projection.Projection

	toProjected coord.Affine
	toMap       coord.Affine
}

// New creates a local-state georeferencing with default scalars, using
// the default projection engine.
func New() *Georeferencing {
	return NewWithEngine(projection.NewProj4Engine())
}

// NewWithEngine creates a local-state georeferencing delegating
// specification parsing and point transforms to engine.
func NewWithEngine(engine projection.Engine) *Georeferencing {
	g := &Georeferencing{
		engine:               engine,
		state:                StateLocal,
		scaleDenominator:     DefaultScaleDenominator,
		combinedScaleFactor:  1.0,
		auxiliaryScaleFactor: 1.0,
	}
	g.updateTransformation()
	return g
}

// ---------------------------------------------------------------------------
// CRS management
// ---------------------------------------------------------------------------

// SetProjectedCRS configures the projected CRS from a specification
// string and the ordered template parameter values it was built from.
//
// On success the state becomes projected, the diagnostic is cleared, the
// geographic reference point and the angles are re-derived at the
// unchanged projected reference point, and the map transform is rebuilt.
// Both scale factors survive the change.
//
// On failure the previous configuration is preserved in full; only the
// diagnostic records the failure until a later successful call clears
// it. Callers must check IsValid after every call.
func (g *Georeferencing) SetProjectedCRS(id, spec string, parameters ...string) bool {
	proj, err := g.engine.Parse(spec)
	if err != nil {
		g.errorText = err.Error()
		zap.L().Warn("georef: projection specification rejected",
			zap.String("crs_id", id),
			zap.Error(err),
		)
		return false
	}

	g.proj = proj
	g.crsID = id
	g.crsSpec = spec
	g.crsParams = append([]string(nil), parameters...)
	g.errorText = ""
	g.state = StateProjected

	g.deriveGeographicRef()
	g.updateAngles()
	g.updateTransformation()
	return true
}

// ErrorText returns the diagnostic of the last failed specification
// parse. It is empty while the configuration is valid.
func (g *Georeferencing) ErrorText() string { return g.errorText }

// IsValid reports whether the last configuration attempt succeeded. A
// local georeferencing with no failed attempt on record is always valid.
func (g *Georeferencing) IsValid() bool { return g.errorText == "" }

// IsLocal reports whether no real-world CRS is configured.
func (g *Georeferencing) IsLocal() bool { return g.state == StateLocal }

// State returns the current state.
func (g *Georeferencing) State() State { return g.state }

// ProjectedCRSID returns the identifying name of the projected CRS.
func (g *Georeferencing) ProjectedCRSID() string { return g.crsID }

// ProjectedCRSSpec returns the literal projection specification string,
// empty in local state.
func (g *Georeferencing) ProjectedCRSSpec() string { return g.crsSpec }

// ProjectedCRSParameters returns the ordered parameter values the
// specification was built from.
func (g *Georeferencing) ProjectedCRSParameters() []string {
	return append([]string(nil), g.crsParams...)
}

// ProjectedCoordinatesName returns a display label for the projected
// coordinates. When the CRS id names a registered template, the stored
// parameters are substituted into its name pattern.
func (g *Georeferencing) ProjectedCoordinatesName() string {
	if g.state == StateLocal {
		return "Local coordinates"
	}
	if tmpl, ok := crs.Find(g.crsID); ok {
		return tmpl.CoordinatesName(g.crsParams...)
	}
	return "Projected coordinates"
}

// ---------------------------------------------------------------------------
// Reference point and scale
// ---------------------------------------------------------------------------

// SetGeographicRefPoint declares the geographic position of the map
// reference point. In projected state the point is forward-transformed
// to obtain the projected reference point, the convergence and grivation
// are recomputed there, and the combined scale factor is reset to the
// projection's local grid scale factor ("automatic" scale factor). A
// later SetCombinedScaleFactor overrides the automatic value.
//
// It returns false without mutating anything when the point cannot be
// transformed with the active projection. In local state the point is
// only stored and the convergence stays zero.
func (g *Georeferencing) SetGeographicRefPoint(ll coord.LatLon) bool {
	if g.state == StateProjected && g.proj != nil {
		p, err := g.proj.Forward(ll)
		if err != nil {
			zap.L().Warn("georef: geographic reference point not transformable",
				zap.String("point", ll.String()),
				zap.Error(err),
			)
			return false
		}
		g.projectedRef = p
	}
	g.geographicRef = ll
	g.hasGeographicRef = true

	if s, err := g.gridScaleFactor(); err == nil {
		g.combinedScaleFactor = s
	}
	g.updateAngles()
	g.updateTransformation()
	return true
}

// SetMapRefPoint moves the reference point on the map sheet.
func (g *Georeferencing) SetMapRefPoint(m coord.MapCoordF) {
	g.mapRef = m
	g.updateTransformation()
}

// SetProjectedRefPoint moves the reference point in the projected grid.
// The geographic reference point, the angles and the automatic combined
// scale factor are re-derived from the new position.
func (g *Georeferencing) SetProjectedRefPoint(p coord.ProjPoint) {
	g.projectedRef = p
	g.deriveGeographicRef()
	if s, err := g.gridScaleFactor(); err == nil {
		g.combinedScaleFactor = s
	}
	g.updateAngles()
	g.updateTransformation()
}

// SetScaleDenominator sets the nominal map scale. Zero is rejected.
func (g *Georeferencing) SetScaleDenominator(d uint) error {
	if d == 0 {
		return eris.New("georef: scale denominator must be positive")
	}
	g.scaleDenominator = d
	g.updateTransformation()
	return nil
}

// SetCombinedScaleFactor declares the grid scale factor at the reference
// point. Non-positive or non-finite values are rejected unchanged.
func (g *Georeferencing) SetCombinedScaleFactor(v float64) error {
	if err := checkScaleFactor(v); err != nil {
		return err
	}
	g.combinedScaleFactor = v
	g.updateTransformation()
	return nil
}

// SetAuxiliaryScaleFactor sets the independent secondary scale
// correction, e.g. an elevation factor. It survives CRS changes.
// Non-positive or non-finite values are rejected unchanged.
func (g *Georeferencing) SetAuxiliaryScaleFactor(v float64) error {
	if err := checkScaleFactor(v); err != nil {
		return err
	}
	g.auxiliaryScaleFactor = v
	g.updateTransformation()
	return nil
}

// SetDeclination sets the user-supplied angle from true north to
// magnetic north and recomputes the grivation.
func (g *Georeferencing) SetDeclination(deg float64) {
	g.declination = deg
	g.grivation = deg - g.convergence
	g.grivationError = 0
	g.updateTransformation()
}

// SetGrivation sets the grivation directly and derives the declination
// from the current convergence.
func (g *Georeferencing) SetGrivation(deg float64) {
	g.grivation = deg
	g.declination = deg + g.convergence
	g.grivationError = 0
	g.updateTransformation()
}

// ScaleDenominator returns the nominal map scale denominator.
func (g *Georeferencing) ScaleDenominator() uint { return g.scaleDenominator }

// CombinedScaleFactor returns the grid scale factor at the reference point.
func (g *Georeferencing) CombinedScaleFactor() float64 { return g.combinedScaleFactor }

// AuxiliaryScaleFactor returns the independent secondary scale factor.
func (g *Georeferencing) AuxiliaryScaleFactor() float64 { return g.auxiliaryScaleFactor }

// Declination returns the angle from true north to magnetic north, degrees.
func (g *Georeferencing) Declination() float64 { return g.declination }

// Grivation returns the angle from grid north to magnetic north, degrees.
func (g *Georeferencing) Grivation() float64 { return g.grivation }

// GrivationError returns the uncertainty attached to the grivation. It
// is zero for programmatically configured instances; restored documents
// may carry a rounding residual.
func (g *Georeferencing) GrivationError() float64 { return g.grivationError }

// Convergence returns the meridian convergence at the reference point,
// degrees; zero in local state.
func (g *Georeferencing) Convergence() float64 { return g.convergence }

// MapRefPoint returns the reference point on the map sheet.
func (g *Georeferencing) MapRefPoint() coord.MapCoordF { return g.mapRef }

// ProjectedRefPoint returns the reference point in the projected grid.
func (g *Georeferencing) ProjectedRefPoint() coord.ProjPoint { return g.projectedRef }

// GeographicRefPoint returns the geographic reference point and whether
// one is known.
func (g *Georeferencing) GeographicRefPoint() (coord.LatLon, bool) {
	return g.geographicRef, g.hasGeographicRef
}

// ---------------------------------------------------------------------------
// Coordinate conversion
// ---------------------------------------------------------------------------

// ToProjectedCoords forward-transforms a geographic coordinate with the
// active projection. ok is false in local state or when the point lies
// outside the projection's domain.
func (g *Georeferencing) ToProjectedCoords(ll coord.LatLon) (coord.ProjPoint, bool) {
	if g.state != StateProjected || g.proj == nil {
		return coord.ProjPoint{}, false
	}
	p, err := g.proj.Forward(ll)
	if err != nil {
		return coord.ProjPoint{}, false
	}
	return p, true
}

// ToGeographicCoords inverse-transforms a projected coordinate, with the
// same failure contract as ToProjectedCoords.
func (g *Georeferencing) ToGeographicCoords(p coord.ProjPoint) (coord.LatLon, bool) {
	if g.state != StateProjected || g.proj == nil {
		return coord.LatLon{}, false
	}
	ll, err := g.proj.Inverse(p)
	if err != nil {
		return coord.LatLon{}, false
	}
	return ll, true
}

// MapToProjected applies the map-to-grid affine transform. It always
// succeeds; it is a pure affine map, never the ellipsoidal projection.
func (g *Georeferencing) MapToProjected(m coord.MapCoordF) coord.ProjPoint {
	x, y := g.toProjected.Apply(m.X, m.Y)
	return coord.ProjPoint{X: x, Y: y}
}

// ToMapCoords applies the exact inverse of MapToProjected.
func (g *Georeferencing) ToMapCoords(p coord.ProjPoint) coord.MapCoordF {
	x, y := g.toMap.Apply(p.X, p.Y)
	return coord.MapCoordF{X: x, Y: y}
}

// GeographicToMap converts a geographic coordinate to map coordinates.
// Only the projection step can fail.
func (g *Georeferencing) GeographicToMap(ll coord.LatLon) (coord.MapCoordF, bool) {
	p, ok := g.ToProjectedCoords(ll)
	if !ok {
		return coord.MapCoordF{}, false
	}
	return g.ToMapCoords(p), true
}

// MapToGeographic converts a map coordinate to a geographic coordinate.
// Only the projection step can fail.
func (g *Georeferencing) MapToGeographic(m coord.MapCoordF) (coord.LatLon, bool) {
	return g.ToGeographicCoords(g.MapToProjected(m))
}

// GroundDistance returns the real-world ground distance represented by
// the map segment a-b: map length times scaleDenominator/1000.
func (g *Georeferencing) GroundDistance(a, b coord.MapCoordF) float64 {
	return a.DistanceTo(b) * float64(g.scaleDenominator) / 1000.0
}

// ---------------------------------------------------------------------------
// Derived-state recomputation
// ---------------------------------------------------------------------------

// deriveGeographicRef recomputes the geographic reference point from the
// projected one.
func (g *Georeferencing) deriveGeographicRef() {
	if g.state != StateProjected || g.proj == nil {
		return
	}
	ll, err := g.proj.Inverse(g.projectedRef)
	if err != nil {
		g.hasGeographicRef = false
		return
	}
	g.geographicRef = ll
	g.hasGeographicRef = true
}

// updateAngles recomputes the convergence at the reference point and the
// grivation from the unchanged declination.
func (g *Georeferencing) updateAngles() {
	g.convergence = 0
	if g.state == StateProjected && g.proj != nil && g.hasGeographicRef {
		if c, err := g.proj.Convergence(g.geographicRef); err == nil {
			g.convergence = c
		}
	}
	g.grivation = g.declination - g.convergence
}

// gridScaleFactor measures the projection's local distortion at the
// reference point: 500 m grid probes east-west and north-south, compared
// against the geodesic distance between their geographic images.
func (g *Georeferencing) gridScaleFactor() (float64, error) {
	if g.state != StateProjected || g.proj == nil {
		return 0, eris.New("georef: no active projection")
	}
	const d = 500.0
	probes := [4]coord.ProjPoint{
		g.projectedRef.Add(coord.ProjPoint{X: d}),
		g.projectedRef.Sub(coord.ProjPoint{X: d}),
		g.projectedRef.Add(coord.ProjPoint{Y: d}),
		g.projectedRef.Sub(coord.ProjPoint{Y: d}),
	}
	var lls [4]coord.LatLon
	for i, p := range probes {
		ll, err := g.proj.Inverse(p)
		if err != nil {
			return 0, eris.Wrap(err, "georef: grid scale factor probe")
		}
		lls[i] = ll
	}
	geodX := geodesy.Distance(lls[1], lls[0])
	geodY := geodesy.Distance(lls[3], lls[2])
	if geodX <= 0 || geodY <= 0 {
		return 0, eris.New("georef: degenerate grid scale factor probe")
	}
	return (2*d/geodX + 2*d/geodY) / 2, nil
}

// updateTransformation rebuilds the map-to-projected affine transform
// from the four primary inputs: reference points, grivation, and the
// product of the scale factors with the nominal scale. The map y axis
// grows downward, hence the sign flip in the second column.
func (g *Georeferencing) updateTransformation() {
	s := g.combinedScaleFactor * g.auxiliaryScaleFactor * float64(g.scaleDenominator) / 1000.0
	sin, cos := math.Sincos(g.grivation * math.Pi / 180)
	a := coord.Affine{
		M11: s * cos, M12: -s * sin,
		M21: -s * sin, M22: -s * cos,
	}
	a.Dx = g.projectedRef.X - (a.M11*g.mapRef.X + a.M12*g.mapRef.Y)
	a.Dy = g.projectedRef.Y - (a.M21*g.mapRef.X + a.M22*g.mapRef.Y)
	g.toProjected = a

	inv, err := a.Invert()
	if err != nil {
		// Unreachable while the scale factors are kept positive.
		inv = coord.IdentityAffine()
	}
	g.toMap = inv
}

func checkScaleFactor(v float64) error {
	if v <= 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return eris.Errorf("georef: scale factor must be strictly positive, got %v", v)
	}
	return nil
}
