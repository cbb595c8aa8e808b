package coord

import (
	"fmt"
	"math"
)

// LatLon is a geographic coordinate on the WGS84 ellipsoid, in degrees.
type LatLon struct {
	Lat float64 `json:"lat" yaml:"lat"`
	Lon float64 `json:"lon" yaml:"lon"`
}

// NewLatLonRad converts a coordinate given in radians to a LatLon.
func NewLatLonRad(latRad, lonRad float64) LatLon {
	return LatLon{Lat: latRad * 180 / math.Pi, Lon: lonRad * 180 / math.Pi}
}

// LatRad returns the latitude in radians.
func (ll LatLon) LatRad() float64 { return ll.Lat * math.Pi / 180 }

// LonRad returns the longitude in radians.
func (ll LatLon) LonRad() float64 { return ll.Lon * math.Pi / 180 }

func (ll LatLon) String() string {
	return fmt.Sprintf("%.6f,%.6f", ll.Lat, ll.Lon)
}
