package main

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
)

var anchorCmd = &cobra.Command{
	Use:   "anchor LAT LON",
	Short: "Anchor the map at a reference point and show derived quantities",
	Long:  "Sets the geographic reference point and reports the projected reference coordinates, the grid convergence, declination, grivation, and the combined scale factor at that point.",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		g, err := newGeoreferencing("convert")
		if err != nil {
			return err
		}

		ll, err := parseLatLon(args[0], args[1])
		if err != nil {
			return err
		}
		if !g.SetGeographicRefPoint(ll) {
			return eris.Errorf("cmd: reference point %s is outside the projection domain", ll)
		}

		p := g.ProjectedRefPoint()
		fmt.Printf("CRS:                   %s\n", g.ProjectedCoordinatesName())
		fmt.Printf("Reference point:       %s\n", ll)
		fmt.Printf("Projected:             %.2f %.2f\n", p.X, p.Y)
		fmt.Printf("Scale:                 1:%d\n", g.ScaleDenominator())
		fmt.Printf("Combined scale factor: %.6f\n", g.CombinedScaleFactor())
		fmt.Printf("Convergence:           %+.3f°\n", g.Convergence())
		fmt.Printf("Declination:           %+.3f°\n", g.Declination())
		fmt.Printf("Grivation:             %+.3f°\n", g.Grivation())
		return nil
	},
}

func init() { rootCmd.AddCommand(anchorCmd) }
