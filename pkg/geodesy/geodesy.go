// Package geodesy computes distances and bearings on the WGS84 ellipsoid.
package geodesy

import (
	"github.com/pymaxion/geographiclib-go/geodesic"

	"github.com/mapgrid/georef/pkg/coord"
)

// Distance returns the geodesic distance between two geographic
// coordinates, in meters.
func Distance(a, b coord.LatLon) float64 {
	return geodesic.WGS84.Inverse(a.Lat, a.Lon, b.Lat, b.Lon).S12
}

// InitialBearing returns the azimuth at a of the geodesic from a to b,
// in degrees clockwise from true north.
func InitialBearing(a, b coord.LatLon) float64 {
	return geodesic.WGS84.Inverse(a.Lat, a.Lon, b.Lat, b.Lon).Azi1
}

// Destination returns the point reached by travelling the given distance
// in meters from origin along the given initial bearing.
func Destination(origin coord.LatLon, bearingDeg, meters float64) coord.LatLon {
	r := geodesic.WGS84.Direct(origin.Lat, origin.Lon, bearingDeg, meters)
	return coord.LatLon{Lat: r.Lat2, Lon: r.Lon2}
}
