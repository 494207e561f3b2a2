package dashboard

import "github.com/dylanrylee/3d-urban-dashboard/internal/buildings"

// Spec describes the next displayed set as either an id-membership set or a
// predicate. Both resolve against the canonical set, never against the
// previous displayed set, so repeated filters do not compound.
type Spec struct {
	ids  []string
	pred func(buildings.Building) bool
	all  bool
}

// All selects the entire canonical set.
func All() Spec {
	return Spec{all: true}
}

// ByIDs selects buildings by id membership. Ids with no canonical match are
// silently dropped; the remote id list may reference stale data.
func ByIDs(ids []string) Spec {
	return Spec{ids: ids}
}

// ByPredicate selects buildings satisfying pred.
func ByPredicate(pred func(buildings.Building) bool) Spec {
	return Spec{pred: pred}
}

// resolve materializes the spec against the canonical set, preserving
// canonical order.
func (s Spec) resolve(canonical []buildings.Building) []buildings.Building {
	switch {
	case s.all:
		out := make([]buildings.Building, len(canonical))
		copy(out, canonical)
		return out
	case s.ids != nil:
		members := make(map[string]struct{}, len(s.ids))
		for _, id := range s.ids {
			members[id] = struct{}{}
		}
		out := make([]buildings.Building, 0, len(s.ids))
		for _, b := range canonical {
			if _, ok := members[b.ID]; ok {
				out = append(out, b)
			}
		}
		return out
	case s.pred != nil:
		out := make([]buildings.Building, 0, len(canonical))
		for _, b := range canonical {
			if s.pred(b) {
				out = append(out, b)
			}
		}
		return out
	}
	return []buildings.Building{}
}
