package export

import (
	"os"
	"strings"

	"github.com/jonas-p/go-shp"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// WritePointShapefile writes one point per feature (its first position)
// in projected coordinates, with a NAME attribute column. Features whose
// position cannot be projected are skipped. A sidecar file next to the
// shapefile records the CRS specification.
func WritePointShapefile(path string, g Georeferencer, features []Feature) (err error) {
	w, err := shp.Create(path, shp.POINT)
	if err != nil {
		return eris.Wrapf(err, "export: create shapefile %s", path)
	}
	// Close flushes the headers; go-shp v0.1.1's Close returns no
	// error, so no close-time diagnostics are available.
	defer w.Close()

	w.SetFields([]shp.Field{shp.StringField("NAME", 64)})

	row := 0
	skipped := 0
	for _, f := range features {
		if len(f.Points) == 0 {
			skipped++
			continue
		}
		p, ok := g.ToProjectedCoords(f.Points[0])
		if !ok {
			skipped++
			continue
		}
		w.Write(&shp.Point{X: p.X, Y: p.Y})
		if err := w.WriteAttribute(row, 0, f.Name); err != nil {
			return eris.Wrap(err, "export: write shapefile attribute")
		}
		row++
	}

	if skipped > 0 {
		zap.L().Debug("export: skipped unprojectable features",
			zap.String("path", path),
			zap.Int("skipped", skipped),
		)
	}

	return writeCRSSidecar(path, g.ProjectedCRSSpec())
}

// WriteLineShapefile writes one polyline per feature in projected
// coordinates, with a NAME attribute column. Features with fewer than
// two projectable positions are skipped.
func WriteLineShapefile(path string, g Georeferencer, features []Feature) (err error) {
	w, err := shp.Create(path, shp.POLYLINE)
	if err != nil {
		return eris.Wrapf(err, "export: create shapefile %s", path)
	}
	// go-shp v0.1.1's Close returns no error; see WritePointShapefile.
	defer w.Close()

	w.SetFields([]shp.Field{shp.StringField("NAME", 64)})

	row := 0
	skipped := 0
	for _, f := range features {
		pts := make([]shp.Point, 0, len(f.Points))
		for _, ll := range f.Points {
			p, ok := g.ToProjectedCoords(ll)
			if !ok {
				continue
			}
			pts = append(pts, shp.Point{X: p.X, Y: p.Y})
		}
		if len(pts) < 2 {
			skipped++
			continue
		}
		w.Write(shp.NewPolyLine([][]shp.Point{pts}))
		if err := w.WriteAttribute(row, 0, f.Name); err != nil {
			return eris.Wrap(err, "export: write shapefile attribute")
		}
		row++
	}

	if skipped > 0 {
		zap.L().Debug("export: skipped degenerate line features",
			zap.String("path", path),
			zap.Int("skipped", skipped),
		)
	}

	return writeCRSSidecar(path, g.ProjectedCRSSpec())
}

// writeCRSSidecar stores the projection specification next to the
// shapefile. The spec string is proj.4, not WKT, so the sidecar uses the
// .prj.proj4 suffix rather than masquerading as a WKT .prj file.
func writeCRSSidecar(shpPath, spec string) error {
	if spec == "" {
		return nil
	}
	path := strings.TrimSuffix(shpPath, ".shp") + ".prj.proj4"
	if err := os.WriteFile(path, []byte(spec+"\n"), 0o644); err != nil {
		return eris.Wrapf(err, "export: write CRS sidecar %s", path)
	}
	return nil
}
