package track

import (
	"encoding/xml"
	"io"
	"os"
	"time"

	"github.com/rotisserie/eris"

	"github.com/mapgrid/georef/pkg/coord"
)

// GPX 1.1 wire structures, limited to the elements the track model
// carries. Unknown elements are skipped by the decoder.

type gpxFile struct {
	XMLName   xml.Name   `xml:"gpx"`
	Version   string     `xml:"version,attr"`
	Creator   string     `xml:"creator,attr"`
	Waypoints []gpxPoint `xml:"wpt"`
	Routes    []gpxRoute `xml:"rte"`
	Tracks    []gpxTrack `xml:"trk"`
}

type gpxTrack struct {
	Name     string       `xml:"name,omitempty"`
	Segments []gpxSegment `xml:"trkseg"`
}

type gpxSegment struct {
	Points []gpxPoint `xml:"trkpt"`
}

type gpxRoute struct {
	Name   string     `xml:"name,omitempty"`
	Points []gpxPoint `xml:"rtept"`
}

type gpxPoint struct {
	Lat  float64  `xml:"lat,attr"`
	Lon  float64  `xml:"lon,attr"`
	Ele  *float64 `xml:"ele,omitempty"`
	Time string   `xml:"time,omitempty"`
	Sat  *int     `xml:"sat,omitempty"`
	HDOP *float64 `xml:"hdop,omitempty"`
	Name string   `xml:"name,omitempty"`
}

func (p gpxPoint) toPoint() Point {
	pt := Point{
		Coord:      coord.LatLon{Lat: p.Lat, Lon: p.Lon},
		Elevation:  p.Ele,
		Satellites: p.Sat,
		HDOP:       p.HDOP,
	}
	if p.Time != "" {
		if ts, err := time.Parse(time.RFC3339, p.Time); err == nil {
			pt.Time = ts
		}
	}
	return pt
}

func fromPoint(pt Point, name string) gpxPoint {
	p := gpxPoint{
		Lat:  pt.Coord.Lat,
		Lon:  pt.Coord.Lon,
		Ele:  pt.Elevation,
		Sat:  pt.Satellites,
		HDOP: pt.HDOP,
		Name: name,
	}
	if !pt.Time.IsZero() {
		p.Time = pt.Time.UTC().Format(time.RFC3339)
	}
	return p
}

// ReadGPX parses a GPX document. Waypoints, track segments and routes
// are accepted; a route becomes a segment of its own.
func ReadGPX(r io.Reader) (*Track, error) {
	var f gpxFile
	if err := xml.NewDecoder(r).Decode(&f); err != nil {
		return nil, eris.Wrap(err, "track: decode gpx")
	}

	t := New()
	for _, wp := range f.Waypoints {
		t.AppendWaypoint(wp.toPoint(), wp.Name)
	}
	for _, trk := range f.Tracks {
		for _, seg := range trk.Segments {
			if len(seg.Points) == 0 {
				continue
			}
			for _, p := range seg.Points {
				t.AppendTrackPoint(p.toPoint())
			}
			t.FinishSegment()
		}
	}
	for _, rte := range f.Routes {
		if len(rte.Points) == 0 {
			continue
		}
		for _, p := range rte.Points {
			t.AppendTrackPoint(p.toPoint())
		}
		t.FinishSegment()
	}
	return t, nil
}

// WriteGPX serializes the track as GPX 1.1.
func (t *Track) WriteGPX(w io.Writer, creator string) error {
	f := gpxFile{Version: "1.1", Creator: creator}
	for i := range t.waypoints {
		f.Waypoints = append(f.Waypoints, fromPoint(t.waypoints[i], t.waypointNames[i]))
	}
	var trk gpxTrack
	for _, seg := range t.segments {
		var gs gpxSegment
		for _, p := range seg {
			gs.Points = append(gs.Points, fromPoint(p, ""))
		}
		trk.Segments = append(trk.Segments, gs)
	}
	if len(trk.Segments) > 0 {
		f.Tracks = []gpxTrack{trk}
	}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return eris.Wrap(err, "track: write gpx header")
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(f); err != nil {
		return eris.Wrap(err, "track: encode gpx")
	}
	return nil
}

// ReadGPXFile reads a GPX file from disk.
func ReadGPXFile(path string) (*Track, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "track: open %s", path)
	}
	defer func() { _ = f.Close() }()
	return ReadGPX(f)
}

// WriteGPXFile writes the track to a GPX file on disk.
func (t *Track) WriteGPXFile(path, creator string) error {
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrapf(err, "track: create %s", path)
	}
	defer func() { _ = f.Close() }()
	return t.WriteGPX(f, creator)
}
