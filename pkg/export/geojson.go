package export

import (
	"encoding/json"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"
)

// GeoJSON renders the features as a GeoJSON FeatureCollection in
// geographic coordinates (longitude/latitude order). The collection
// carries the georeferencing's coordinates display name in a crs_name
// property on each feature.
func GeoJSON(g Georeferencer, features []Feature) ([]byte, error) {
	fc := geojson.FeatureCollection{}
	crsName := g.ProjectedCoordinatesName()

	for _, f := range features {
		var geometry geom.T
		switch {
		case len(f.Points) == 0:
			continue
		case len(f.Points) == 1:
			geometry = geom.NewPointFlat(geom.XY, []float64{f.Points[0].Lon, f.Points[0].Lat})
		default:
			flat := make([]float64, 0, 2*len(f.Points))
			for _, ll := range f.Points {
				flat = append(flat, ll.Lon, ll.Lat)
			}
			geometry = geom.NewLineStringFlat(geom.XY, flat)
		}

		fc.Features = append(fc.Features, &geojson.Feature{
			Geometry: geometry,
			Properties: map[string]interface{}{
				"name":     f.Name,
				"crs_name": crsName,
			},
		})
	}

	data, err := json.Marshal(&fc)
	if err != nil {
		return nil, eris.Wrap(err, "export: encode geojson")
	}
	return data, nil
}
