package dashboard

import (
	"context"
	"fmt"
	"log"
	"sync"
	"sync/atomic"

	"github.com/dylanrylee/3d-urban-dashboard/internal/buildings"
)

// DataService is the remote canonical-dataset boundary.
type DataService interface {
	FetchBuildings(ctx context.Context) ([]buildings.Building, error)
}

// Store holds the canonical building set and the currently displayed subset.
// Every mutation fully replaces the displayed set from the canonical base and
// invalidates a stale selection as a post-condition, so callers can never
// leave a selection pointing at a hidden building.
//
// Mutations carry a monotonically increasing sequence number claimed at issue
// time. Apply discards results whose sequence is not above the highest
// already applied, which gives last-issued-wins semantics when query
// responses arrive out of order.
type Store struct {
	mu        sync.Mutex
	canonical []buildings.Building
	displayed []buildings.Building
	shown     map[string]struct{}
	applied   uint64

	issued atomic.Uint64

	selection *Selection
}

func NewStore() *Store {
	return &Store{shown: map[string]struct{}{}}
}

// NextSeq claims a sequence number for an operation at issue time.
func (s *Store) NextSeq() uint64 {
	return s.issued.Add(1)
}

// Load replaces the canonical set from the data service and resets the
// displayed set to it. On failure prior state is left untouched. Records
// without Point geometry and records repeating an already-seen id are
// rejected at the door; geometry is never revalidated after this.
func (s *Store) Load(ctx context.Context, svc DataService) error {
	data, err := svc.FetchBuildings(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDataUnavailable, err)
	}

	accepted := make([]buildings.Building, 0, len(data))
	seen := make(map[string]struct{}, len(data))
	for _, b := range data {
		if b.Geometry.Type != "Point" {
			log.Printf("[store] rejecting building %s: geometry type %q", b.ID, b.Geometry.Type)
			continue
		}
		if _, dup := seen[b.ID]; dup {
			log.Printf("[store] rejecting building %s: duplicate id", b.ID)
			continue
		}
		seen[b.ID] = struct{}{}
		accepted = append(accepted, b)
	}

	seq := s.NextSeq()
	s.mu.Lock()
	s.canonical = accepted
	s.mu.Unlock()
	s.Apply(seq, All())
	return nil
}

// SetDisplayed replaces the displayed set according to spec, resolved
// against the canonical set.
func (s *Store) SetDisplayed(spec Spec) {
	s.Apply(s.NextSeq(), spec)
}

// Reset restores the full canonical set and clears the selection.
func (s *Store) Reset() {
	s.Apply(s.NextSeq(), All())
	if s.selection != nil {
		s.selection.Clear()
	}
}

// Apply resolves spec against the canonical set if seq is newer than the
// highest sequence already applied. Returns false when the result was
// discarded as superseded.
func (s *Store) Apply(seq uint64, spec Spec) bool {
	s.mu.Lock()
	if seq <= s.applied {
		s.mu.Unlock()
		log.Printf("[store] discarding superseded result (seq %d <= %d)", seq, s.applied)
		return false
	}
	s.applied = seq
	s.displayed = spec.resolve(s.canonical)
	s.shown = make(map[string]struct{}, len(s.displayed))
	for _, b := range s.displayed {
		s.shown[b.ID] = struct{}{}
	}
	shown := s.shown
	sel := s.selection
	s.mu.Unlock()

	if sel != nil {
		sel.prune(shown)
	}
	return true
}

// Canonical returns a copy of the canonical set.
func (s *Store) Canonical() []buildings.Building {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]buildings.Building, len(s.canonical))
	copy(out, s.canonical)
	return out
}

// Displayed returns a copy of the displayed set.
func (s *Store) Displayed() []buildings.Building {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]buildings.Building, len(s.displayed))
	copy(out, s.displayed)
	return out
}

// DisplayedIDs returns the displayed set's ids in display order.
func (s *Store) DisplayedIDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.displayed))
	for i, b := range s.displayed {
		out[i] = b.ID
	}
	return out
}

// Contains reports whether id is currently displayed.
func (s *Store) Contains(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.shown[id]
	return ok
}

func (s *Store) attachSelection(sel *Selection) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selection = sel
}
