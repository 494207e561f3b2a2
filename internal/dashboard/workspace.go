package dashboard

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
)

// Workspace is the owner-scoped project state: the active username, the
// cached project list, and the pointer at the loaded project. Every derived
// value is keyed to the active username and rebuilt wholesale on a switch —
// there is never a frame mixing one owner's list with another's selection.
type Workspace struct {
	mu              sync.Mutex
	username        string
	projects        []ProjectSummary
	selectedProject string
	epoch           uint64

	svc   ProjectService
	store *Store
}

// NewWorkspace creates the project workspace. defaultUsername pre-fills the
// owner for demo deployments; pass "" for an empty-initial workspace.
func NewWorkspace(svc ProjectService, store *Store, defaultUsername string) *Workspace {
	return &Workspace{
		svc:      svc,
		store:    store,
		username: strings.TrimSpace(defaultUsername),
	}
}

// Username returns the active owner.
func (ws *Workspace) Username() string {
	ws.mu.Lock()
	defer ws.mu.Unlock()
	return ws.username
}

// Projects returns the cached project list for the active owner.
func (ws *Workspace) Projects() []ProjectSummary {
	ws.mu.Lock()
	defer ws.mu.Unlock()
	out := make([]ProjectSummary, len(ws.projects))
	copy(out, ws.projects)
	return out
}

// SelectedProject returns the id of the loaded project, or "".
func (ws *Workspace) SelectedProject() string {
	ws.mu.Lock()
	defer ws.mu.Unlock()
	return ws.selectedProject
}

// SetUsername switches the active owner. The project list and the selected
// project pointer are invalidated in the same critical section, and the
// epoch bump makes any in-flight list fetch for the previous owner land
// dead. Call RefreshProjects afterwards to repopulate.
func (ws *Workspace) SetUsername(name string) {
	name = strings.TrimSpace(name)
	ws.mu.Lock()
	defer ws.mu.Unlock()
	if name == ws.username {
		return
	}
	ws.username = name
	ws.projects = nil
	ws.selectedProject = ""
	ws.epoch++
}

// RefreshProjects reloads the project list for the active owner. A blank
// owner short-circuits to an empty list without a network call. Results for
// an owner that was switched away from mid-flight are discarded.
func (ws *Workspace) RefreshProjects(ctx context.Context) error {
	ws.mu.Lock()
	username := ws.username
	epoch := ws.epoch
	ws.mu.Unlock()

	if username == "" {
		ws.mu.Lock()
		if ws.epoch == epoch {
			ws.projects = []ProjectSummary{}
		}
		ws.mu.Unlock()
		return nil
	}

	list, err := ws.svc.ListByOwner(ctx, username)
	if err != nil {
		return fmt.Errorf("listing projects for %s: %w", username, err)
	}

	ws.mu.Lock()
	defer ws.mu.Unlock()
	if ws.epoch != epoch {
		log.Printf("[workspace] discarding project list for %s (owner switched)", username)
		return nil
	}
	ws.projects = list
	return nil
}

// SaveProject snapshots the current displayed set under name for the active
// owner, then refreshes the project list. Blank owner or name blocks the
// call with a ValidationError before any network traffic.
func (ws *Workspace) SaveProject(ctx context.Context, name string) (ProjectSummary, error) {
	name = strings.TrimSpace(name)
	username := ws.Username()
	if username == "" {
		return ProjectSummary{}, &ValidationError{Field: "username"}
	}
	if name == "" {
		return ProjectSummary{}, &ValidationError{Field: "project name"}
	}

	created, err := ws.svc.Create(ctx, username, name, ws.store.DisplayedIDs())
	if err != nil {
		return ProjectSummary{}, fmt.Errorf("saving project %q: %w", name, err)
	}

	if err := ws.RefreshProjects(ctx); err != nil {
		log.Printf("[workspace] list refresh after save failed: %v", err)
	}
	return created, nil
}

// LoadProject fetches a saved project and applies its membership to the
// displayed set. A stale id returns ErrNotFound after refreshing the list.
// The displayed-set change rides the store's sequence gate, so a load
// superseded by a later operation is discarded, not applied late.
func (ws *Workspace) LoadProject(ctx context.Context, id string) error {
	ws.mu.Lock()
	epoch := ws.epoch
	ws.mu.Unlock()

	seq := ws.store.NextSeq()

	project, err := ws.svc.Fetch(ctx, id)
	if errors.Is(err, ErrNotFound) {
		if refreshErr := ws.RefreshProjects(ctx); refreshErr != nil {
			log.Printf("[workspace] list refresh after stale load failed: %v", refreshErr)
		}
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("loading project %s: %w", id, err)
	}

	applied := ws.store.Apply(seq, ByIDs(project.FilterIDs))

	ws.mu.Lock()
	defer ws.mu.Unlock()
	if ws.epoch != epoch || !applied {
		log.Printf("[workspace] discarding loaded project %s (superseded)", id)
		return nil
	}
	ws.selectedProject = project.ID
	return nil
}

// DeleteProject removes a saved project and refreshes the list. A NotFound
// from the service means a retry raced a genuine deletion; that is treated
// as success.
func (ws *Workspace) DeleteProject(ctx context.Context, id string) error {
	err := ws.svc.Delete(ctx, id)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("deleting project %s: %w", id, err)
	}

	ws.mu.Lock()
	if ws.selectedProject == id {
		ws.selectedProject = ""
	}
	ws.mu.Unlock()

	if err := ws.RefreshProjects(ctx); err != nil {
		log.Printf("[workspace] list refresh after delete failed: %v", err)
	}
	return nil
}
