package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/mapgrid/georef/pkg/coord"
	"github.com/mapgrid/georef/pkg/export"
	"github.com/mapgrid/georef/pkg/track"
)

var trackCmd = &cobra.Command{
	Use:   "track",
	Short: "Inspect and export GPX tracks",
	Long:  "Reads GPX track files, projects them into the configured CRS, and exports them as GeoJSON or shapefiles.",
}

var trackInfoCmd = &cobra.Command{
	Use:   "info FILE",
	Short: "Show track statistics",
	Long:  "Prints segment, point and waypoint counts, the cumulative geodesic length, and the average position of a GPX file.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		trk, err := track.ReadGPXFile(args[0])
		if err != nil {
			return err
		}

		points := 0
		for i := 0; i < trk.NumSegments(); i++ {
			points += len(trk.Segment(i))
		}

		fmt.Printf("Segments:  %d\n", trk.NumSegments())
		fmt.Printf("Points:    %d\n", points)
		fmt.Printf("Waypoints: %d\n", trk.NumWaypoints())
		fmt.Printf("Length:    %.1f m\n", trk.Length())
		if points > 0 {
			fmt.Printf("Center:    %s\n", trk.AveragePosition())
		}
		return nil
	},
}

var trackExportCmd = &cobra.Command{
	Use:   "export FILE",
	Short: "Export a track as georeferenced features",
	Long:  "Projects a GPX file into the configured CRS and writes it in the configured export format, either a GeoJSON file or a shapefile with a CRS sidecar.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		g, err := newGeoreferencing("export")
		if err != nil {
			return err
		}

		trk, err := track.ReadGPXFile(args[0])
		if err != nil {
			return err
		}

		features := trackFeatures(trk, filepath.Base(args[0]))
		if len(features) == 0 {
			return eris.Errorf("cmd: %s contains no exportable geometry", args[0])
		}

		base := strings.TrimSuffix(filepath.Base(args[0]), filepath.Ext(args[0]))
		switch cfg.Export.Format {
		case "geojson":
			data, err := export.GeoJSON(g, features)
			if err != nil {
				return err
			}
			path := filepath.Join(cfg.Export.Dir, base+".geojson")
			if err := os.WriteFile(path, data, 0o644); err != nil {
				return eris.Wrapf(err, "cmd: write %s", path)
			}
			fmt.Printf("Wrote %s\n", path)
		case "shapefile":
			path := filepath.Join(cfg.Export.Dir, base+".shp")
			if err := export.WriteLineShapefile(path, g, features); err != nil {
				return err
			}
			fmt.Printf("Wrote %s\n", path)
		}
		return nil
	},
}

// trackFeatures flattens a track into named line features, one per
// segment, with waypoints appended as point features.
func trackFeatures(trk *track.Track, name string) []export.Feature {
	var features []export.Feature
	for i := 0; i < trk.NumSegments(); i++ {
		seg := trk.Segment(i)
		pts := make([]coord.LatLon, 0, len(seg))
		for _, p := range seg {
			pts = append(pts, p.Coord)
		}
		features = append(features, export.Feature{
			Name:   fmt.Sprintf("%s segment %d", name, i+1),
			Points: pts,
		})
	}
	for i := 0; i < trk.NumWaypoints(); i++ {
		p, wpName := trk.Waypoint(i)
		features = append(features, export.Feature{
			Name:   wpName,
			Points: []coord.LatLon{p.Coord},
		})
	}
	return features
}

func init() {
	trackCmd.AddCommand(trackInfoCmd)
	trackCmd.AddCommand(trackExportCmd)
	rootCmd.AddCommand(trackCmd)
}
