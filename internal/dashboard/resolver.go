package dashboard

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/dylanrylee/3d-urban-dashboard/internal/buildings"
	"github.com/dylanrylee/3d-urban-dashboard/internal/interpreter"
)

// Interpreter is the remote query-interpretation boundary. The response is
// raw JSON on purpose: its shape has drifted across deployments and the
// resolver is the single place that absorbs the variance.
type Interpreter interface {
	Interpret(ctx context.Context, query string) (json.RawMessage, error)
}

// Resolver turns free-form query text into an id-membership Spec. It
// recognizes every response shape the interpreter service has been observed
// to produce:
//
//  1. a full filtered list of building records — ids are extracted;
//  2. a structured {attribute, operator, value} predicate — evaluated over
//     the canonical set to derive membership;
//  3. an explicit id list, bare or wrapped in {matchedIds: [...]};
//  4. an {error: ...} payload — surfaced as QueryRejectedError.
//
// Anything else is ErrQueryProtocol so new shapes fail loudly instead of
// silently mis-rendering.
type Resolver struct {
	interp Interpreter
}

func NewResolver(interp Interpreter) *Resolver {
	return &Resolver{interp: interp}
}

// Resolve interprets queryText into a Spec. Blank text is rejected locally
// with ErrEmptyQuery, without a network call.
func (r *Resolver) Resolve(ctx context.Context, queryText string, canonical []buildings.Building) (Spec, error) {
	if strings.TrimSpace(queryText) == "" {
		return Spec{}, ErrEmptyQuery
	}

	raw, err := r.interp.Interpret(ctx, queryText)
	if err != nil {
		return Spec{}, fmt.Errorf("interpreting query: %w", err)
	}

	return r.normalize(raw, canonical)
}

func (r *Resolver) normalize(raw json.RawMessage, canonical []buildings.Building) (Spec, error) {
	trimmed := strings.TrimSpace(string(raw))
	switch {
	case strings.HasPrefix(trimmed, "["):
		return r.normalizeList(raw)
	case strings.HasPrefix(trimmed, "{"):
		return r.normalizeObject(raw, canonical)
	}
	log.Printf("[resolver] unrecognized response: %.120s", trimmed)
	return Spec{}, ErrQueryProtocol
}

// normalizeList handles shapes 1 and 3: an array of building records or an
// array of bare ids.
func (r *Resolver) normalizeList(raw json.RawMessage) (Spec, error) {
	var elems []json.RawMessage
	if err := json.Unmarshal(raw, &elems); err != nil {
		return Spec{}, ErrQueryProtocol
	}

	ids := make([]string, 0, len(elems))
	for _, elem := range elems {
		var record struct {
			ID json.RawMessage `json:"id"`
		}
		if err := json.Unmarshal(elem, &record); err == nil && record.ID != nil {
			id, ok := scalarID(record.ID)
			if !ok {
				return Spec{}, ErrQueryProtocol
			}
			ids = append(ids, id)
			continue
		}
		id, ok := scalarID(elem)
		if !ok {
			return Spec{}, ErrQueryProtocol
		}
		ids = append(ids, id)
	}
	return ByIDs(ids), nil
}

func (r *Resolver) normalizeObject(raw json.RawMessage, canonical []buildings.Building) (Spec, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return Spec{}, ErrQueryProtocol
	}

	if errRaw, ok := fields["error"]; ok {
		var msg string
		if err := json.Unmarshal(errRaw, &msg); err != nil {
			msg = string(errRaw)
		}
		return Spec{}, &QueryRejectedError{Message: msg}
	}

	if matched, ok := fields["matchedIds"]; ok {
		ids, ok := idList(matched)
		if !ok {
			return Spec{}, ErrQueryProtocol
		}
		return ByIDs(ids), nil
	}

	if _, ok := fields["attribute"]; ok {
		var criteria interpreter.Criteria
		if err := json.Unmarshal(raw, &criteria); err != nil || criteria.Operator == "" {
			return Spec{}, ErrQueryProtocol
		}
		ids := make([]string, 0, len(canonical))
		for _, b := range canonical {
			if criteria.Matches(b) {
				ids = append(ids, b.ID)
			}
		}
		return ByIDs(ids), nil
	}

	log.Printf("[resolver] unrecognized object keys in interpreter response")
	return Spec{}, ErrQueryProtocol
}

// idList decodes a JSON array of string or numeric ids.
func idList(raw json.RawMessage) ([]string, bool) {
	var elems []json.RawMessage
	if err := json.Unmarshal(raw, &elems); err != nil {
		return nil, false
	}
	ids := make([]string, 0, len(elems))
	for _, elem := range elems {
		id, ok := scalarID(elem)
		if !ok {
			return nil, false
		}
		ids = append(ids, id)
	}
	return ids, true
}

// scalarID decodes one id that may arrive as a string or a number. Older
// deployments numbered buildings by dataset index.
func scalarID(raw json.RawMessage) (string, bool) {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, true
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String(), true
	}
	return "", false
}
