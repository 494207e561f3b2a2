package dashboard

import (
	"errors"
	"fmt"
)

var (
	// ErrDataUnavailable means the canonical dataset could not be loaded.
	// Prior state is kept untouched.
	ErrDataUnavailable = errors.New("building data unavailable")

	// ErrEmptyQuery rejects blank query text locally, before any network call.
	ErrEmptyQuery = errors.New("query is required")

	// ErrQueryProtocol marks an interpreter response shape the resolver does
	// not recognize. Fatal for that query only; the displayed set is unchanged.
	ErrQueryProtocol = errors.New("unrecognized interpreter response shape")

	// ErrNotFound marks a stale project reference. Callers refresh the
	// project list when they see it.
	ErrNotFound = errors.New("project not found")
)

// ValidationError blocks a save before any network call when a required
// field is blank.
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s is required", e.Field)
}

// QueryRejectedError carries the interpreter's own error message, surfaced
// to the user verbatim.
type QueryRejectedError struct {
	Message string
}

func (e *QueryRejectedError) Error() string {
	return "query rejected: " + e.Message
}
