package geo

import (
	"errors"
	"fmt"
)

// ErrInvalidGeometry marks a building whose coordinates cannot be projected.
// Callers must skip the building; projecting it to the origin instead would
// pile bad records into a misleading cluster at the scene center.
var ErrInvalidGeometry = errors.New("invalid geometry")

// Position is a renderer-ready scene position. Y is the box center height so
// the volume's base rests on the ground plane.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Projector maps geographic coordinates into local scene coordinates.
// ReferenceLon/ReferenceLat anchor the scene origin near the dataset
// centroid; ScaleFactor spreads degrees into scene units; MinSize is the
// smallest rendered dimension for degenerate records.
type Projector struct {
	ReferenceLon float64
	ReferenceLat float64
	ScaleFactor  float64
	MinSize      float64
}

// Project converts a GeoJSON Point into a scene position. geomType must be
// "Point" and coords exactly [longitude, latitude]; anything else returns
// ErrInvalidGeometry. height feeds the vertical axis only.
func (p Projector) Project(geomType string, coords []float64, height float64) (Position, error) {
	if geomType != "Point" {
		return Position{}, fmt.Errorf("%w: geometry type %q is not Point", ErrInvalidGeometry, geomType)
	}
	if len(coords) != 2 {
		return Position{}, fmt.Errorf("%w: expected [lon, lat], got %d components", ErrInvalidGeometry, len(coords))
	}

	lon, lat := coords[0], coords[1]
	return Position{
		X: (lon - p.ReferenceLon) * p.ScaleFactor,
		Y: p.DisplaySize(height) / 2,
		Z: (lat - p.ReferenceLat) * p.ScaleFactor,
	}, nil
}

// DisplaySize coerces a dimension up to the minimum rendered size. The
// original value stays on the building record for display text.
func (p Projector) DisplaySize(dim float64) float64 {
	if dim < p.MinSize {
		return p.MinSize
	}
	return dim
}
