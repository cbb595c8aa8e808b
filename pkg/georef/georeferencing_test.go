package georef

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mapgrid/georef/pkg/coord"
	"github.com/mapgrid/georef/pkg/crs"
	"github.com/mapgrid/georef/pkg/geodesy"
)

const (
	utm32Spec = "+proj=utm +datum=WGS84 +zone=32"
	gk2Spec   = "+proj=tmerc +lat_0=0 +lon_0=6 +k=1.000000 +x_0=2500000 +y_0=0 +ellps=bessel +datum=potsdam +units=m +no_defs"
	gk3Spec   = "+proj=tmerc +lat_0=0 +lon_0=9 +k=1.000000 +x_0=3500000 +y_0=0 +ellps=bessel +datum=potsdam +units=m +no_defs"
	// Swiss CH1903+/LV95. Valid proj.4, but the engine has no somerc
	// transformer; it must reject the spec instead of reporting valid.
	lv95Spec = "+proj=somerc +lat_0=46.95240555555556 +lon_0=7.439583333333333 +k_0=1 +x_0=2600000 +y_0=1200000 +ellps=bessel +towgs84=674.374,15.056,405.346 +units=m +no_defs"
	// Spherical web mercator without datum shift, the EPSG:3857 recipe.
	webMercSpec = "+proj=merc +a=6378137 +b=6378137 +lat_ts=0.0 +lon_0=0.0 +x_0=0.0 +y_0=0 +k=1.0 +units=m +nadgrids=@null +no_defs"
)

// degFromDMS converts degrees/minutes/seconds to decimal degrees.
func degFromDMS(d, m, s float64) float64 {
	return d + m/60.0 + s/3600.0
}

// Nominal east-west scale factor of spherical web mercator against the
// WGS84 ellipsoid.
func webMercScaleX(latitude float64) float64 {
	const e = 0.081819191
	phi := latitude * math.Pi / 180
	return math.Pow(1.0-e*e*math.Sin(phi)*math.Sin(phi), 0.5) / math.Cos(phi)
}

// Nominal north-south scale factor of spherical web mercator against the
// WGS84 ellipsoid.
func webMercScaleY(latitude float64) float64 {
	const e = 0.081819191
	phi := latitude * math.Pi / 180
	return math.Pow(1.0-e*e*math.Sin(phi)*math.Sin(phi), 1.5) / (1.0 - e*e) / math.Cos(phi)
}

// ---------------------------------------------------------------------------
// Defaults
// ---------------------------------------------------------------------------

func TestNewGeoreferencingDefaults(t *testing.T) {
	g := New()
	assert.True(t, g.IsValid())
	assert.True(t, g.IsLocal())
	assert.Equal(t, StateLocal, g.State())
	assert.Equal(t, uint(1000), g.ScaleDenominator())
	assert.Equal(t, 1.0, g.CombinedScaleFactor())
	assert.Equal(t, 1.0, g.AuxiliaryScaleFactor())
	assert.Equal(t, 0.0, g.Declination())
	assert.Equal(t, 0.0, g.Grivation())
	assert.Equal(t, 0.0, g.GrivationError())
	assert.Equal(t, 0.0, g.Convergence())
	assert.Equal(t, coord.MapCoordF{}, g.MapRefPoint())
	assert.Equal(t, coord.ProjPoint{}, g.ProjectedRefPoint())
	assert.Empty(t, g.ProjectedCRSSpec())
	assert.Empty(t, g.ErrorText())
}

// ---------------------------------------------------------------------------
// Grid scale factor bookkeeping
// ---------------------------------------------------------------------------

func TestGridScaleFactor(t *testing.T) {
	// Absolute tolerance in meters over roughly kilometer-scale probes.
	const tol = 0.01

	tests := []struct {
		name           string
		spec           string
		lat, lon       float64
		scaleX, scaleY float64
	}{
		{"utm32 central meridian", utm32Spec, 50.0, 9.0, 0.9996, 0.9996},
		{"utm32 180km west of central meridian", utm32Spec, 50.0, 6.48, 1.0, 1.0},
		{"web mercator", webMercSpec, 50.0, 6.48, webMercScaleX(50.0), webMercScaleY(50.0)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			g := New()
			require.True(t, g.SetProjectedCRS(tc.name, tc.spec), g.ErrorText())
			require.True(t, g.SetGeographicRefPoint(coord.LatLon{Lat: tc.lat, Lon: tc.lon}))
			require.True(t, g.IsValid(), g.ErrorText())

			toGeo := func(p coord.ProjPoint) coord.LatLon {
				ll, ok := g.ToGeographicCoords(p)
				require.True(t, ok)
				return ll
			}

			// East-west scale factor.
			east := g.ProjectedRefPoint().Add(coord.ProjPoint{X: 500})
			west := g.ProjectedRefPoint().Sub(coord.ProjPoint{X: 500})
			gridX := east.DistanceTo(west)
			geodX := geodesy.Distance(toGeo(west), toGeo(east))
			require.Positive(t, geodX)
			assert.InDelta(t, gridX, geodX*tc.scaleX, tol)

			// North-south scale factor.
			north := g.ProjectedRefPoint().Add(coord.ProjPoint{Y: 500})
			south := g.ProjectedRefPoint().Sub(coord.ProjPoint{Y: 500})
			gridY := north.DistanceTo(south)
			geodY := geodesy.Distance(toGeo(south), toGeo(north))
			require.Positive(t, geodY)
			assert.InDelta(t, gridY, geodY*tc.scaleY, tol)

			// Ground distance from map coordinates, with the automatic
			// combined scale factor set by SetGeographicRefPoint.
			sw := g.ProjectedRefPoint().Sub(coord.ProjPoint{X: 100, Y: 100})
			ne := g.ProjectedRefPoint().Add(coord.ProjPoint{X: 100, Y: 100})
			geod := geodesy.Distance(toGeo(sw), toGeo(ne))

			ground := g.GroundDistance(g.ToMapCoords(sw), g.ToMapCoords(ne))
			assert.InDelta(t, geod, ground, tol)

			// An explicit combined scale factor gives the same answer.
			require.NoError(t, g.SetCombinedScaleFactor((tc.scaleX+tc.scaleY)/2))
			ground = g.GroundDistance(g.ToMapCoords(sw), g.ToMapCoords(ne))
			assert.InDelta(t, geod, ground, tol)

			// A significant declination rotates the map but preserves
			// ground distances.
			g.SetDeclination(20.0)
			ground = g.GroundDistance(g.ToMapCoords(sw), g.ToMapCoords(ne))
			assert.InDelta(t, geod, ground, tol)

			// An auxiliary (elevation) scale factor divides the ground
			// distance out of the geodetic one.
			const elevationScaleFactor = 1.1
			require.NoError(t, g.SetAuxiliaryScaleFactor(elevationScaleFactor))
			ground = g.GroundDistance(g.ToMapCoords(sw), g.ToMapCoords(ne))
			assert.InDelta(t, geod, elevationScaleFactor*ground, tol)

			// The auxiliary scale factor survives a CRS change, and the
			// distances stay consistent under the new CRS.
			require.True(t, g.SetProjectedCRS(tc.name, utm32Spec), g.ErrorText())
			require.True(t, g.IsValid(), g.ErrorText())
			assert.Equal(t, elevationScaleFactor, g.AuxiliaryScaleFactor())
			ground = g.GroundDistance(g.ToMapCoords(sw), g.ToMapCoords(ne))
			assert.InDelta(t, geod, elevationScaleFactor*ground, tol)
		})
	}
}

// ---------------------------------------------------------------------------
// CRS management
// ---------------------------------------------------------------------------

func TestSetProjectedCRSValidSpecs(t *testing.T) {
	for _, spec := range []string{utm32Spec, gk2Spec, gk3Spec, webMercSpec} {
		g := New()
		assert.True(t, g.SetProjectedCRS(spec, spec), g.ErrorText())
		assert.True(t, g.IsValid())
		assert.False(t, g.IsLocal())
		assert.Equal(t, StateProjected, g.State())
		assert.Equal(t, spec, g.ProjectedCRSSpec())
	}
}

func TestSetProjectedCRSInvalidSpec(t *testing.T) {
	g := New()
	ok := g.SetProjectedCRS("broken", "this is not a projection specification")
	assert.False(t, ok)
	assert.False(t, g.IsValid())
	assert.NotEmpty(t, g.ErrorText())

	// The previous (local) configuration is preserved.
	assert.True(t, g.IsLocal())
	assert.Empty(t, g.ProjectedCRSSpec())

	// A later valid configuration clears the diagnostic.
	require.True(t, g.SetProjectedCRS("UTM 32", utm32Spec))
	assert.True(t, g.IsValid())
	assert.Empty(t, g.ErrorText())
}

func TestSetProjectedCRSUnimplementedProjection(t *testing.T) {
	// A spec naming a projection the engine cannot transform must be
	// rejected like any other parse failure, so validity always tracks
	// a configuration whose point transforms work.
	g := New()
	require.True(t, g.SetProjectedCRS("UTM 32", utm32Spec))

	ok := g.SetProjectedCRS("CH1903+/LV95", lv95Spec)
	assert.False(t, ok)
	assert.False(t, g.IsValid())
	assert.Contains(t, g.ErrorText(), "somerc")

	// The previous configuration keeps answering.
	assert.Equal(t, utm32Spec, g.ProjectedCRSSpec())
	_, ok = g.ToProjectedCoords(coord.LatLon{Lat: 50, Lon: 9})
	assert.True(t, ok)
}

func TestFailedSetPreservesPreviousConfiguration(t *testing.T) {
	g := New()
	require.True(t, g.SetProjectedCRS("UTM 32", utm32Spec, "32"))
	require.NoError(t, g.SetAuxiliaryScaleFactor(1.2))

	ok := g.SetProjectedCRS("broken", "garbage spec")
	assert.False(t, ok)
	assert.False(t, g.IsValid())
	assert.NotEmpty(t, g.ErrorText())

	// Spec, parameters, scale factors and the working transforms are all
	// still those of the last valid configuration.
	assert.Equal(t, utm32Spec, g.ProjectedCRSSpec())
	assert.Equal(t, []string{"32"}, g.ProjectedCRSParameters())
	assert.Equal(t, 1.2, g.AuxiliaryScaleFactor())
	_, ok = g.ToProjectedCoords(coord.LatLon{Lat: 50, Lon: 9})
	assert.True(t, ok)
}

func TestProjectedCoordinatesName(t *testing.T) {
	g := New()
	assert.Equal(t, "Local coordinates", g.ProjectedCoordinatesName())

	tmpl, ok := crs.Find("UTM")
	require.True(t, ok)
	require.True(t, g.SetProjectedCRS("UTM", tmpl.Specification("32"), "32"), g.ErrorText())
	assert.Equal(t, "UTM 32 coordinates", g.ProjectedCoordinatesName())

	// A CRS id without a registered template gets the generic label.
	require.True(t, g.SetProjectedCRS("custom", utm32Spec))
	assert.Equal(t, "Projected coordinates", g.ProjectedCoordinatesName())
}

// ---------------------------------------------------------------------------
// Projection control points
// ---------------------------------------------------------------------------

func TestProjectionControlPoints(t *testing.T) {
	const maxAngularError = 0.00005 // degrees

	tests := []struct {
		name                string
		spec                string
		easting, northing   float64
		latitude, longitude float64
		maxDistError        float64 // meters
	}{
		// LVermGeo Rheinland-Pfalz reference points. The Gauss-Krueger
		// tolerance absorbs the 3-parameter Potsdam datum shift, which
		// lands a few meters east of the state survey's 7-parameter
		// solution.
		{"Koblenz UTM", utm32Spec, 398125.0, 5579523.0, degFromDMS(50, 21, 32.2), degFromDMS(7, 34, 4.0), 2.2},
		{"Koblenz GK3", gk3Spec, 3398159.0, 5581315.0, degFromDMS(50, 21, 32.2), degFromDMS(7, 34, 4.0), 5.0},
		{"Pruem UTM", utm32Spec, 316464.0, 5565150.0, degFromDMS(50, 12, 36.1), degFromDMS(6, 25, 39.6), 2.2},
		{"Pruem GK2", gk2Spec, 2530573.0, 5563858.0, degFromDMS(50, 12, 36.1), degFromDMS(6, 25, 39.6), 5.0},
		{"Landau UTM", utm32Spec, 436705.0, 5450182.0, degFromDMS(49, 12, 4.2), degFromDMS(8, 7, 52.0), 2.2},
		{"Landau GK3", gk3Spec, 3436755.0, 5451923.0, degFromDMS(49, 12, 4.2), degFromDMS(8, 7, 52.0), 5.0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			g := New()
			require.True(t, g.SetProjectedCRS(tc.name, tc.spec), g.ErrorText())
			require.Empty(t, g.ErrorText())

			// Geographic to projected.
			pt, ok := g.ToProjectedCoords(coord.LatLon{Lat: tc.latitude, Lon: tc.longitude})
			require.True(t, ok)
			assert.InDelta(t, tc.easting, pt.X, tc.maxDistError)
			assert.InDelta(t, tc.northing, pt.Y, tc.maxDistError)

			// Projected to geographic.
			ll, ok := g.ToGeographicCoords(coord.ProjPoint{X: tc.easting, Y: tc.northing})
			require.True(t, ok)
			assert.InDelta(t, tc.latitude, ll.Lat, maxAngularError)
			assert.InDelta(t, tc.longitude, ll.Lon, maxAngularError/math.Cos(tc.latitude*math.Pi/180))
		})
	}
}

// ---------------------------------------------------------------------------
// Map transform
// ---------------------------------------------------------------------------

func TestMapProjectedRoundTrip(t *testing.T) {
	g := New()
	require.True(t, g.SetProjectedCRS("UTM 32", utm32Spec))
	require.True(t, g.SetGeographicRefPoint(coord.LatLon{Lat: 50, Lon: 9}))
	g.SetMapRefPoint(coord.MapCoordF{X: 25, Y: -40})
	g.SetDeclination(3.5)
	require.NoError(t, g.SetScaleDenominator(15000))

	for _, m := range []coord.MapCoordF{{}, {X: 100, Y: 100}, {X: -12.25, Y: 7.5}} {
		back := g.ToMapCoords(g.MapToProjected(m))
		assert.InDelta(t, m.X, back.X, 1e-9)
		assert.InDelta(t, m.Y, back.Y, 1e-9)
	}
}

func TestMapYAxisPointsSouth(t *testing.T) {
	// With no rotation, increasing map y (down the sheet) must decrease
	// the northing.
	g := New()
	p0 := g.MapToProjected(coord.MapCoordF{})
	p1 := g.MapToProjected(coord.MapCoordF{Y: 10})
	assert.Less(t, p1.Y, p0.Y)
	assert.Equal(t, p0.X, p1.X)
}

func TestDeclinationPreservesMapLengths(t *testing.T) {
	g := New()
	a := coord.MapCoordF{X: 10, Y: 20}
	b := coord.MapCoordF{X: -30, Y: 5}
	before := g.MapToProjected(a).DistanceTo(g.MapToProjected(b))

	g.SetDeclination(20.0)
	assert.Equal(t, 20.0, g.Grivation()) // local state, zero convergence
	after := g.MapToProjected(a).DistanceTo(g.MapToProjected(b))
	assert.InDelta(t, before, after, 1e-9)
}

func TestGroundDistanceFormula(t *testing.T) {
	g := New()
	require.NoError(t, g.SetScaleDenominator(15000))
	// 10 mm on a 1:15000 sheet is 150 m on the ground.
	assert.InDelta(t, 150.0, g.GroundDistance(coord.MapCoordF{}, coord.MapCoordF{X: 10}), 1e-12)
}

// ---------------------------------------------------------------------------
// Angles
// ---------------------------------------------------------------------------

func TestGrivationFollowsConvergence(t *testing.T) {
	g := New()
	require.True(t, g.SetProjectedCRS("UTM 32", utm32Spec))
	require.True(t, g.SetGeographicRefPoint(coord.LatLon{Lat: 50, Lon: 10}))

	// One degree east of the central meridian.
	assert.InDelta(t, 0.766, g.Convergence(), 0.01)

	g.SetDeclination(20.0)
	assert.Equal(t, 20.0, g.Declination())
	assert.InDelta(t, 20.0-g.Convergence(), g.Grivation(), 1e-12)
}

func TestSetGrivationDerivesDeclination(t *testing.T) {
	g := New()
	g.SetGrivation(5.0)
	assert.Equal(t, 5.0, g.Grivation())
	assert.Equal(t, 5.0, g.Declination()) // local state, zero convergence
	assert.Equal(t, 0.0, g.GrivationError())
}

// ---------------------------------------------------------------------------
// Validation and local state
// ---------------------------------------------------------------------------

func TestScaleFactorValidation(t *testing.T) {
	g := New()
	for _, v := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		assert.Error(t, g.SetCombinedScaleFactor(v))
		assert.Error(t, g.SetAuxiliaryScaleFactor(v))
	}
	assert.Equal(t, 1.0, g.CombinedScaleFactor())
	assert.Equal(t, 1.0, g.AuxiliaryScaleFactor())

	assert.Error(t, g.SetScaleDenominator(0))
	assert.Equal(t, uint(1000), g.ScaleDenominator())
}

func TestLocalStateConversionsFail(t *testing.T) {
	g := New()
	_, ok := g.ToProjectedCoords(coord.LatLon{Lat: 50, Lon: 9})
	assert.False(t, ok)
	_, ok = g.ToGeographicCoords(coord.ProjPoint{X: 1, Y: 2})
	assert.False(t, ok)
	_, ok = g.GeographicToMap(coord.LatLon{Lat: 50, Lon: 9})
	assert.False(t, ok)
	_, ok = g.MapToGeographic(coord.MapCoordF{})
	assert.False(t, ok)
}

func TestLocalRefPointKeepsZeroConvergence(t *testing.T) {
	g := New()
	require.True(t, g.SetGeographicRefPoint(coord.LatLon{Lat: 50, Lon: 9}))
	assert.Equal(t, 0.0, g.Convergence())
	ll, has := g.GeographicRefPoint()
	assert.True(t, has)
	assert.Equal(t, coord.LatLon{Lat: 50, Lon: 9}, ll)
}

func TestGeographicToMapComposition(t *testing.T) {
	g := New()
	require.True(t, g.SetProjectedCRS("UTM 32", utm32Spec))
	require.True(t, g.SetGeographicRefPoint(coord.LatLon{Lat: 50, Lon: 9}))

	ll := coord.LatLon{Lat: 50.005, Lon: 9.01}
	m, ok := g.GeographicToMap(ll)
	require.True(t, ok)
	back, ok := g.MapToGeographic(m)
	require.True(t, ok)
	assert.InDelta(t, ll.Lat, back.Lat, 1e-8)
	assert.InDelta(t, ll.Lon, back.Lon, 1e-8)
}
