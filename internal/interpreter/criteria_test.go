package interpreter_test

import (
	"testing"

	"github.com/dylanrylee/3d-urban-dashboard/internal/buildings"
	"github.com/dylanrylee/3d-urban-dashboard/internal/interpreter"
)

var fixture = buildings.Building{
	ID:       "B1",
	Geometry: buildings.Geometry{Type: "Point", Coordinates: []float64{-73.85, 40.86}},
	Height:   120,
	Width:    20,
	Length:   25,
	Zoning:   "C4-4A",
	Value:    750000,
	Area:     600,
}

// TestMatches_Numeric verifies numeric comparison across the operator set.
func TestMatches_Numeric(t *testing.T) {
	cases := []struct {
		op    string
		value float64
		want  bool
	}{
		{">", 100, true},
		{">", 120, false},
		{">=", 120, true},
		{"<", 200, true},
		{"<=", 119, false},
		{"==", 120, true},
		{"==", 121, false},
	}
	for _, tc := range cases {
		c := interpreter.Criteria{Attribute: "height", Operator: tc.op, Value: tc.value}
		if got := c.Matches(fixture); got != tc.want {
			t.Errorf("height %s %v = %v, want %v", tc.op, tc.value, got, tc.want)
		}
	}
}

// TestMatches_StringCaseInsensitive verifies string equality folds case,
// matching how zoning codes are typed in queries.
func TestMatches_StringCaseInsensitive(t *testing.T) {
	c := interpreter.Criteria{Attribute: "zoning", Operator: "==", Value: "c4-4a"}
	if !c.Matches(fixture) {
		t.Error("zoning == c4-4a should match C4-4A")
	}
	c.Value = "R6"
	if c.Matches(fixture) {
		t.Error("zoning == R6 should not match C4-4A")
	}
}

// TestMatches_Tolerant verifies unknown attributes, unknown operators, and
// type mismatches evaluate to false instead of erroring.
func TestMatches_Tolerant(t *testing.T) {
	cases := []interpreter.Criteria{
		{Attribute: "flavor", Operator: ">", Value: 1.0},
		{Attribute: "height", Operator: "!=", Value: 120.0},
		{Attribute: "height", Operator: ">", Value: "tall"},
		{Attribute: "zoning", Operator: "==", Value: 9.0},
	}
	for _, c := range cases {
		if c.Matches(fixture) {
			t.Errorf("criteria %+v should not match", c)
		}
	}
}

// TestMatches_JSONNumbers verifies values decoded from interpreter JSON
// (float64) compare against integer-valued building attributes.
func TestMatches_JSONNumbers(t *testing.T) {
	c := interpreter.Criteria{Attribute: "value", Operator: ">", Value: float64(500000)}
	if !c.Matches(fixture) {
		t.Error("value > 500000 should match 750000")
	}
}
