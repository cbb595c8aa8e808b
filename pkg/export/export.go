// Package export writes georeferenced features to interchange formats.
// Exporters consume only the georeferencing's collaborator surface: the
// CRS specification string, the forward coordinate transform, and the
// coordinates display name.
package export

import "github.com/mapgrid/georef/pkg/coord"

// Georeferencer is the part of the georeferencing exporters depend on.
type Georeferencer interface {
	ProjectedCRSSpec() string
	ProjectedCoordinatesName() string
	ToProjectedCoords(ll coord.LatLon) (coord.ProjPoint, bool)
}

// Feature is a named geographic geometry: a single point, or a line
// when it has two or more positions.
type Feature struct {
	Name   string
	Points []coord.LatLon
}
