package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mapgrid/georef/pkg/geodesy"
)

var distanceCmd = &cobra.Command{
	Use:   "distance LAT1 LON1 LAT2 LON2",
	Short: "Geodesic distance and bearing between two points",
	Long:  "Computes the WGS84 ellipsoid distance and initial bearing between two geographic points, plus the corresponding length on paper at the configured map scale.",
	Args:  cobra.ExactArgs(4),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate("distance"); err != nil {
			return err
		}

		a, err := parseLatLon(args[0], args[1])
		if err != nil {
			return err
		}
		b, err := parseLatLon(args[2], args[3])
		if err != nil {
			return err
		}

		meters := geodesy.Distance(a, b)
		bearing := geodesy.InitialBearing(a, b)
		paperMM := meters * 1000 / float64(cfg.Map.ScaleDenominator)

		fmt.Printf("Distance: %.1f m\n", meters)
		fmt.Printf("Bearing:  %.1f°\n", bearing)
		fmt.Printf("On paper: %.1f mm at 1:%d\n", paperMM, cfg.Map.ScaleDenominator)
		return nil
	},
}

func init() { rootCmd.AddCommand(distanceCmd) }
