// Package track models recorded GPS tracks and waypoints carried
// alongside a map document. Point positions are geographic; the map
// coordinate of every point is derived through the document's
// georeferencing.
package track

import (
	"time"

	"github.com/mapgrid/georef/pkg/coord"
	"github.com/mapgrid/georef/pkg/geodesy"
	"github.com/mapgrid/georef/pkg/georef"
)

// Point is a single recorded position.
type Point struct {
	Coord    coord.LatLon
	MapCoord coord.MapCoordF
	// OnMap tells whether MapCoord is valid, i.e. the position was
	// projectable with the current georeferencing.
	OnMap bool

	Time       time.Time
	Elevation  *float64
	Satellites *int
	HDOP       *float64
}

// Track holds named waypoints and segments of track points.
type Track struct {
	waypoints     []Point
	waypointNames []string

	segments        [][]Point
	segmentFinished bool
}

// New returns an empty track.
func New() *Track {
	return &Track{segmentFinished: true}
}

// AppendTrackPoint adds a point to the current segment, starting a new
// segment when the previous one was finished.
func (t *Track) AppendTrackPoint(p Point) {
	if t.segmentFinished {
		t.segments = append(t.segments, nil)
		t.segmentFinished = false
	}
	last := len(t.segments) - 1
	t.segments[last] = append(t.segments[last], p)
}

// FinishSegment closes the current segment; the next track point starts
// a new one.
func (t *Track) FinishSegment() { t.segmentFinished = true }

// AppendWaypoint adds a named waypoint.
func (t *Track) AppendWaypoint(p Point, name string) {
	t.waypoints = append(t.waypoints, p)
	t.waypointNames = append(t.waypointNames, name)
}

// NumSegments returns the number of track segments.
func (t *Track) NumSegments() int { return len(t.segments) }

// Segment returns the points of segment i.
func (t *Track) Segment(i int) []Point { return t.segments[i] }

// NumWaypoints returns the number of waypoints.
func (t *Track) NumWaypoints() int { return len(t.waypoints) }

// Waypoint returns waypoint i and its name.
func (t *Track) Waypoint(i int) (Point, string) {
	return t.waypoints[i], t.waypointNames[i]
}

// Clear drops all waypoints and segments.
func (t *Track) Clear() {
	t.waypoints = nil
	t.waypointNames = nil
	t.segments = nil
	t.segmentFinished = true
}

// AveragePosition returns the mean of all point positions, or a zero
// coordinate for an empty track.
func (t *Track) AveragePosition() coord.LatLon {
	var lat, lon float64
	var n int
	for i := range t.waypoints {
		lat += t.waypoints[i].Coord.Lat
		lon += t.waypoints[i].Coord.Lon
		n++
	}
	for _, seg := range t.segments {
		for i := range seg {
			lat += seg[i].Coord.Lat
			lon += seg[i].Coord.Lon
			n++
		}
	}
	if n == 0 {
		return coord.LatLon{}
	}
	return coord.LatLon{Lat: lat / float64(n), Lon: lon / float64(n)}
}

// Length returns the geodesic length of all segments in meters.
func (t *Track) Length() float64 {
	var sum float64
	for _, seg := range t.segments {
		for i := 1; i < len(seg); i++ {
			sum += geodesy.Distance(seg[i-1].Coord, seg[i].Coord)
		}
	}
	return sum
}

// Project recomputes the map coordinate of every point through g and
// returns the number of points that could not be projected. Failures
// mark the point as off-map; they are not fatal.
func (t *Track) Project(g *georef.Georeferencing) int {
	var skipped int
	project := func(p *Point) {
		m, ok := g.GeographicToMap(p.Coord)
		p.MapCoord, p.OnMap = m, ok
		if !ok {
			skipped++
		}
	}
	for i := range t.waypoints {
		project(&t.waypoints[i])
	}
	for _, seg := range t.segments {
		for i := range seg {
			project(&seg[i])
		}
	}
	return skipped
}
