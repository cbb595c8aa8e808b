package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mapgrid/georef/internal/config"
	"github.com/mapgrid/georef/pkg/coord"
	"github.com/mapgrid/georef/pkg/georef"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "georef",
	Short: "Map georeferencing toolbox",
	Long:  "Converts between map, projected and geographic coordinates, reports magnetic declination and grid convergence, and exports georeferenced features.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

// newGeoreferencing builds a georeferencing from the loaded configuration,
// validated for the given command mode.
func newGeoreferencing(mode string) (*georef.Georeferencing, error) {
	if err := cfg.Validate(mode); err != nil {
		return nil, err
	}
	id, spec, err := cfg.CRSSpecification()
	if err != nil {
		return nil, err
	}

	g := georef.New()
	if err := g.SetScaleDenominator(cfg.Map.ScaleDenominator); err != nil {
		return nil, err
	}
	g.SetDeclination(cfg.Map.Declination)
	if !g.SetProjectedCRS(id, spec, cfg.CRS.Parameters...) {
		return nil, eris.Errorf("cmd: projection rejected: %s", g.ErrorText())
	}
	return g, nil
}

func parseLatLon(latArg, lonArg string) (coord.LatLon, error) {
	lat, err := strconv.ParseFloat(latArg, 64)
	if err != nil {
		return coord.LatLon{}, eris.Wrapf(err, "cmd: parse latitude %q", latArg)
	}
	lon, err := strconv.ParseFloat(lonArg, 64)
	if err != nil {
		return coord.LatLon{}, eris.Wrapf(err, "cmd: parse longitude %q", lonArg)
	}
	if lat < -90 || lat > 90 {
		return coord.LatLon{}, eris.Errorf("cmd: latitude %v out of range", lat)
	}
	return coord.LatLon{Lat: lat, Lon: lon}, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
