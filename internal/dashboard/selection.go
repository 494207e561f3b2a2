package dashboard

import (
	"sync"

	"github.com/dylanrylee/3d-urban-dashboard/internal/buildings"
)

// Selection tracks the single highlighted building. A selection is only
// valid while its building is displayed; the store prunes it automatically
// on every displayed-set mutation.
type Selection struct {
	mu      sync.Mutex
	current *buildings.Building
	store   *Store
}

// NewSelection creates the selection controller and attaches it to the store
// so displayed-set mutations invalidate it without caller involvement.
func NewSelection(store *Store) *Selection {
	sel := &Selection{store: store}
	store.attachSelection(sel)
	return sel
}

// Select highlights b. Returns false without changing state when b is not in
// the displayed set — only rendered buildings are clickable.
func (s *Selection) Select(b buildings.Building) bool {
	if !s.store.Contains(b.ID) {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := b
	s.current = &copied
	return true
}

// Clear empties the selection.
func (s *Selection) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = nil
}

// Current returns the selected building, if any.
func (s *Selection) Current() (buildings.Building, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return buildings.Building{}, false
	}
	return *s.current, true
}

// IsHighlighted reports whether b is the selected building. The renderer
// maps this boolean to its own styling; the core never hands out style
// values.
func (s *Selection) IsHighlighted(b buildings.Building) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current != nil && s.current.ID == b.ID
}

// prune clears the selection when its building left the displayed set.
func (s *Selection) prune(shown map[string]struct{}) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return
	}
	if _, ok := shown[s.current.ID]; !ok {
		s.current = nil
	}
}
