package interpreter

import (
	"github.com/dylanrylee/3d-urban-dashboard/internal/buildings"
	"golang.org/x/text/cases"
)

// Criteria is the structured predicate the interpreter distills a free-form
// query into: one attribute compared against one value.
type Criteria struct {
	Attribute string `json:"attribute"`
	Operator  string `json:"operator"`
	Value     any    `json:"value"`
}

var fold = cases.Fold()

// Matches evaluates the criteria against one building. Unknown attributes,
// unknown operators, and type mismatches all evaluate to false rather than
// erroring, matching the tolerant behavior the dashboard expects from a
// model-generated predicate.
func (c Criteria) Matches(b buildings.Building) bool {
	attr, ok := b.Attribute(c.Attribute)
	if !ok {
		return false
	}

	if bval, aok := toFloat(attr); aok {
		if cval, cok := toFloat(c.Value); cok {
			return compareFloat(c.Operator, bval, cval)
		}
		return false
	}

	bstr, aok := attr.(string)
	cstr, cok := c.Value.(string)
	if !aok || !cok {
		return false
	}
	return compareString(c.Operator, fold.String(bstr), fold.String(cstr))
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}

func compareFloat(op string, a, b float64) bool {
	switch op {
	case ">":
		return a > b
	case "<":
		return a < b
	case ">=":
		return a >= b
	case "<=":
		return a <= b
	case "==":
		return a == b
	}
	return false
}

func compareString(op string, a, b string) bool {
	switch op {
	case ">":
		return a > b
	case "<":
		return a < b
	case ">=":
		return a >= b
	case "<=":
		return a <= b
	case "==":
		return a == b
	}
	return false
}
