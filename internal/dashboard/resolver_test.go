package dashboard_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/dylanrylee/3d-urban-dashboard/internal/dashboard"
)

func resolveRaw(t *testing.T, raw string) (dashboard.Spec, error) {
	t.Helper()
	r := dashboard.NewResolver(&fakeInterp{fn: func(ctx context.Context, query string) (json.RawMessage, error) {
		return json.RawMessage(raw), nil
	}})
	return r.Resolve(context.Background(), "some query", testBuildings())
}

func specIDs(t *testing.T, spec dashboard.Spec) []string {
	t.Helper()
	s := dashboard.NewStore()
	if err := s.Load(context.Background(), &fakeData{data: testBuildings()}); err != nil {
		t.Fatalf("Load: %v", err)
	}
	s.SetDisplayed(spec)
	return s.DisplayedIDs()
}

// TestResolve_FullBuildingList verifies shape 1: a filtered list of building
// records is normalized by extracting ids.
func TestResolve_FullBuildingList(t *testing.T) {
	spec, err := resolveRaw(t, `[
		{"id": "A", "geometry": {"type": "Point", "coordinates": [-73.85, 40.86]}, "height": 5},
		{"id": "C", "geometry": {"type": "Point", "coordinates": [-73.85, 40.86]}, "height": 150}
	]`)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got := specIDs(t, spec); !sameIDs(got, "A", "C") {
		t.Errorf("ids = %v, want [A C]", got)
	}
}

// TestResolve_PredicateDescriptor verifies shape 2: {attribute, operator,
// value} is evaluated over the canonical set to derive membership.
func TestResolve_PredicateDescriptor(t *testing.T) {
	spec, err := resolveRaw(t, `{"attribute": "height", "operator": ">", "value": 100}`)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got := specIDs(t, spec); !sameIDs(got, "C") {
		t.Errorf("ids = %v, want [C]", got)
	}

	spec, err = resolveRaw(t, `{"attribute": "height", "operator": "<", "value": 10}`)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got := specIDs(t, spec); !sameIDs(got, "A") {
		t.Errorf("ids = %v, want [A]", got)
	}
}

// TestResolve_IDList verifies shape 3 in its observed variants: a bare id
// array, numeric ids from older deployments, and a matchedIds wrapper.
func TestResolve_IDList(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want []string
	}{
		{"bare strings", `["A", "B"]`, []string{"A", "B"}},
		{"numeric ids", `[1, 2]`, nil}, // no canonical match, resolves empty
		{"matchedIds wrapper", `{"matchedIds": ["B", "C"]}`, []string{"B", "C"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			spec, err := resolveRaw(t, tc.raw)
			if err != nil {
				t.Fatalf("Resolve: %v", err)
			}
			if got := specIDs(t, spec); !sameIDs(got, tc.want...) {
				t.Errorf("ids = %v, want %v", got, tc.want)
			}
		})
	}
}

// TestResolve_ErrorPayload verifies shape 4: an error payload surfaces as
// QueryRejectedError carrying the interpreter's message.
func TestResolve_ErrorPayload(t *testing.T) {
	_, err := resolveRaw(t, `{"error": "Failed to parse LLM response"}`)
	var rejected *dashboard.QueryRejectedError
	if !errors.As(err, &rejected) {
		t.Fatalf("expected QueryRejectedError, got %v", err)
	}
	if rejected.Message != "Failed to parse LLM response" {
		t.Errorf("message = %q", rejected.Message)
	}
}

// TestResolve_ProtocolError verifies unrecognized shapes fail loudly with
// ErrQueryProtocol instead of silently mis-rendering.
func TestResolve_ProtocolError(t *testing.T) {
	cases := []string{
		`"just a string"`,
		`42`,
		`{"unexpected": true}`,
		`[{"noid": 1}]`,
		`{"matchedIds": "not-a-list"}`,
	}
	for _, raw := range cases {
		if _, err := resolveRaw(t, raw); !errors.Is(err, dashboard.ErrQueryProtocol) {
			t.Errorf("raw %s: expected ErrQueryProtocol, got %v", raw, err)
		}
	}
}

// TestResolve_EmptyQuery verifies whitespace-only input is rejected locally.
func TestResolve_EmptyQuery(t *testing.T) {
	r := dashboard.NewResolver(&fakeInterp{fn: func(ctx context.Context, query string) (json.RawMessage, error) {
		t.Fatal("interpreter must not be called")
		return nil, nil
	}})
	if _, err := r.Resolve(context.Background(), "  \t ", testBuildings()); !errors.Is(err, dashboard.ErrEmptyQuery) {
		t.Errorf("expected ErrEmptyQuery, got %v", err)
	}
}
