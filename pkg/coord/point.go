package coord

import "math"

// MapCoordF is a point on the map sheet, in millimeters of paper.
// The y axis grows downward, following drawing conventions.
type MapCoordF struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// Add returns m shifted by d.
func (m MapCoordF) Add(d MapCoordF) MapCoordF { return MapCoordF{X: m.X + d.X, Y: m.Y + d.Y} }

// Sub returns m shifted by -d.
func (m MapCoordF) Sub(d MapCoordF) MapCoordF { return MapCoordF{X: m.X - d.X, Y: m.Y - d.Y} }

// DistanceTo returns the Euclidean distance to o in map millimeters.
func (m MapCoordF) DistanceTo(o MapCoordF) float64 {
	return math.Hypot(o.X-m.X, o.Y-m.Y)
}

// ProjPoint is a point in a projected CRS grid: easting and northing
// in meters, northing growing northward.
type ProjPoint struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// Add returns p shifted by d.
func (p ProjPoint) Add(d ProjPoint) ProjPoint { return ProjPoint{X: p.X + d.X, Y: p.Y + d.Y} }

// Sub returns p shifted by -d.
func (p ProjPoint) Sub(d ProjPoint) ProjPoint { return ProjPoint{X: p.X - d.X, Y: p.Y - d.Y} }

// DistanceTo returns the Euclidean grid distance to o in meters.
func (p ProjPoint) DistanceTo(o ProjPoint) float64 {
	return math.Hypot(o.X-p.X, o.Y-p.Y)
}
