package main

import (
	"fmt"
	"strconv"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/mapgrid/georef/pkg/coord"
)

var convertReverse bool

var convertCmd = &cobra.Command{
	Use:   "convert LAT LON",
	Short: "Convert geographic coordinates to projected coordinates",
	Long:  "Projects a latitude/longitude pair into the configured CRS. With --reverse, the arguments are easting and northing in meters and the output is geographic.",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		g, err := newGeoreferencing("convert")
		if err != nil {
			return err
		}

		if convertReverse {
			east, err := strconv.ParseFloat(args[0], 64)
			if err != nil {
				return eris.Wrapf(err, "cmd: parse easting %q", args[0])
			}
			north, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				return eris.Wrapf(err, "cmd: parse northing %q", args[1])
			}
			ll, ok := g.ToGeographicCoords(coord.ProjPoint{X: east, Y: north})
			if !ok {
				return eris.Errorf("cmd: point (%v, %v) is outside the projection domain", east, north)
			}
			fmt.Printf("%s (%s)\n", ll, g.ProjectedCoordinatesName())
			return nil
		}

		ll, err := parseLatLon(args[0], args[1])
		if err != nil {
			return err
		}
		p, ok := g.ToProjectedCoords(ll)
		if !ok {
			return eris.Errorf("cmd: point %s is outside the projection domain", ll)
		}
		fmt.Printf("%.2f %.2f (%s)\n", p.X, p.Y, g.ProjectedCoordinatesName())
		return nil
	},
}

func init() {
	convertCmd.Flags().BoolVar(&convertReverse, "reverse", false, "convert projected coordinates to geographic")
	rootCmd.AddCommand(convertCmd)
}
