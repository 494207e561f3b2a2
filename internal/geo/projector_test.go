package geo_test

import (
	"errors"
	"math"
	"testing"

	"github.com/dylanrylee/3d-urban-dashboard/internal/geo"
)

var testProjector = geo.Projector{
	ReferenceLon: -73.85,
	ReferenceLat: 40.86,
	ScaleFactor:  5000,
	MinSize:      5,
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

// TestProject_Point verifies the linear projection of a Point coordinate
// relative to the reference point.
func TestProject_Point(t *testing.T) {
	pos, err := testProjector.Project("Point", []float64{-73.84, 40.87}, 20)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	wantX := (-73.84 - -73.85) * 5000
	wantZ := (40.87 - 40.86) * 5000
	if !almostEqual(pos.X, wantX) {
		t.Errorf("X = %v, want %v", pos.X, wantX)
	}
	if !almostEqual(pos.Z, wantZ) {
		t.Errorf("Z = %v, want %v", pos.Z, wantZ)
	}
	if !almostEqual(pos.Y, 10) {
		t.Errorf("Y = %v, want 10 (height/2)", pos.Y)
	}
}

// TestProject_ShortBuilding verifies the vertical axis uses the coerced
// minimum height so the box still rests on the ground plane.
func TestProject_ShortBuilding(t *testing.T) {
	pos, err := testProjector.Project("Point", []float64{-73.85, 40.86}, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !almostEqual(pos.Y, 2.5) {
		t.Errorf("Y = %v, want 2.5 (min size 5 / 2)", pos.Y)
	}
	if !almostEqual(pos.X, 0) || !almostEqual(pos.Z, 0) {
		t.Errorf("reference point should project to origin, got (%v, %v)", pos.X, pos.Z)
	}
}

// TestProject_InvalidGeometry verifies non-Point types and malformed
// coordinate arrays are rejected with ErrInvalidGeometry.
func TestProject_InvalidGeometry(t *testing.T) {
	cases := []struct {
		name     string
		geomType string
		coords   []float64
	}{
		{"polygon type", "Polygon", []float64{-73.85, 40.86}},
		{"empty type", "", []float64{-73.85, 40.86}},
		{"nil coords", "Point", nil},
		{"one component", "Point", []float64{-73.85}},
		{"three components", "Point", []float64{-73.85, 40.86, 12}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := testProjector.Project(tc.geomType, tc.coords, 10)
			if !errors.Is(err, geo.ErrInvalidGeometry) {
				t.Errorf("expected ErrInvalidGeometry, got %v", err)
			}
		})
	}
}

// TestDisplaySize verifies dimension coercion to the minimum display size.
func TestDisplaySize(t *testing.T) {
	if got := testProjector.DisplaySize(0); got != 5 {
		t.Errorf("DisplaySize(0) = %v, want 5", got)
	}
	if got := testProjector.DisplaySize(-3); got != 5 {
		t.Errorf("DisplaySize(-3) = %v, want 5", got)
	}
	if got := testProjector.DisplaySize(18); got != 18 {
		t.Errorf("DisplaySize(18) = %v, want 18", got)
	}
}
