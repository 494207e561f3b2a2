// Package dashboard is the query-and-projection state engine behind the 3D
// city view. It keeps the canonical and displayed building sets consistent
// under arbitrary sequences of queries, resets, and project switches, with
// the remote data, interpreter, and persistence services behind small
// interfaces.
package dashboard

import (
	"context"
	"log"
)

// Dashboard wires the store, selection, resolver, and workspace together
// over one set of remote service boundaries.
type Dashboard struct {
	Store     *Store
	Selection *Selection
	Workspace *Workspace

	resolver *Resolver
	data     DataService
}

// New assembles a dashboard engine. defaultUsername pre-fills the workspace
// owner (deployment config, not code — see config.DefaultUsername).
func New(data DataService, interp Interpreter, projects ProjectService, defaultUsername string) *Dashboard {
	store := NewStore()
	return &Dashboard{
		Store:     store,
		Selection: NewSelection(store),
		Workspace: NewWorkspace(projects, store, defaultUsername),
		resolver:  NewResolver(interp),
		data:      data,
	}
}

// Load fetches the canonical set and shows all of it. On failure the
// previous state is untouched.
func (d *Dashboard) Load(ctx context.Context) error {
	return d.Store.Load(ctx, d.data)
}

// SubmitQuery resolves free-form query text and applies the result to the
// displayed set. The sequence number is claimed here, at issue time, so when
// submissions overlap the most recently issued query wins no matter which
// response arrives first; a superseded result is discarded, never applied.
// On any resolution error the displayed set is left unchanged.
func (d *Dashboard) SubmitQuery(ctx context.Context, queryText string) error {
	seq := d.Store.NextSeq()

	spec, err := d.resolver.Resolve(ctx, queryText, d.Store.Canonical())
	if err != nil {
		return err
	}

	if !d.Store.Apply(seq, spec) {
		log.Printf("[dashboard] query result superseded, discarded")
	}
	return nil
}

// Reset restores the full canonical set and clears the selection.
func (d *Dashboard) Reset() {
	d.Store.Reset()
}
