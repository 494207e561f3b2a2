package dashboard

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/dylanrylee/3d-urban-dashboard/internal/buildings"
	"github.com/dylanrylee/3d-urban-dashboard/internal/provider"
)

// ProjectSummary is a saved project as the persistence service reports it.
type ProjectSummary struct {
	ID        string
	Name      string
	FilterIDs []string
}

// UnmarshalJSON tolerates the field-name drift seen across persistence
// service versions: ids under "filters" or "matchedIds", either bare arrays
// or wrapped in an object, with string or numeric elements.
func (p *ProjectSummary) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}

	if raw, ok := fields["id"]; ok {
		id, ok := scalarID(raw)
		if !ok {
			return fmt.Errorf("project id is neither string nor number")
		}
		p.ID = id
	}
	if raw, ok := fields["name"]; ok {
		if err := json.Unmarshal(raw, &p.Name); err != nil {
			return fmt.Errorf("project name: %w", err)
		}
	}

	raw, ok := fields["filters"]
	if !ok {
		raw, ok = fields["matchedIds"]
	}
	if !ok || string(raw) == "null" {
		p.FilterIDs = []string{}
		return nil
	}

	if ids, ok := idList(raw); ok {
		p.FilterIDs = ids
		return nil
	}

	// Some rows store the id list wrapped one level deeper.
	var wrapped struct {
		MatchedIDs json.RawMessage `json:"matchedIds"`
	}
	if err := json.Unmarshal(raw, &wrapped); err == nil && wrapped.MatchedIDs != nil {
		if ids, ok := idList(wrapped.MatchedIDs); ok {
			p.FilterIDs = ids
			return nil
		}
	}
	return fmt.Errorf("project filters: unrecognized shape")
}

// ProjectService is the remote project-persistence boundary.
type ProjectService interface {
	ListByOwner(ctx context.Context, username string) ([]ProjectSummary, error)
	Create(ctx context.Context, username, name string, filterIDs []string) (ProjectSummary, error)
	Fetch(ctx context.Context, id string) (ProjectSummary, error)
	Delete(ctx context.Context, id string) error
}

// APIClient implements DataService, Interpreter, and ProjectService against
// the dashboard backend's HTTP API.
type APIClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewAPIClient(baseURL string) *APIClient {
	return &APIClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// FetchBuildings loads the canonical building set.
func (c *APIClient) FetchBuildings(ctx context.Context) ([]buildings.Building, error) {
	var out []buildings.Building
	if err := c.getJSON(ctx, "/buildings", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Interpret submits query text and returns the raw response body for the
// resolver to normalize. A 4xx with a JSON body is a payload to normalize
// (the service reports interpreter rejections that way), not a transport
// failure.
func (c *APIClient) Interpret(ctx context.Context, query string) (json.RawMessage, error) {
	body, err := json.Marshal(map[string]string{"query": query})
	if err != nil {
		return nil, fmt.Errorf("encoding query: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/query", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		provider.LogError("dashboard-api", "query", err)
		return nil, fmt.Errorf("query request: %w", err)
	}
	defer resp.Body.Close()
	provider.LogResponse("dashboard-api", resp.StatusCode, time.Since(start), 1)

	if resp.StatusCode >= http.StatusInternalServerError {
		return nil, fmt.Errorf("query service returned HTTP %d", resp.StatusCode)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading query response: %w", err)
	}
	return json.RawMessage(raw), nil
}

// ListByOwner returns the owner's saved projects.
func (c *APIClient) ListByOwner(ctx context.Context, username string) ([]ProjectSummary, error) {
	var out []ProjectSummary
	if err := c.getJSON(ctx, "/projects/"+url.PathEscape(username), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Create saves a new project snapshot.
func (c *APIClient) Create(ctx context.Context, username, name string, filterIDs []string) (ProjectSummary, error) {
	body, err := json.Marshal(map[string]any{
		"username":    username,
		"projectName": name,
		"filters":     filterIDs,
	})
	if err != nil {
		return ProjectSummary{}, fmt.Errorf("encoding project: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/projects", bytes.NewReader(body))
	if err != nil {
		return ProjectSummary{}, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return ProjectSummary{}, fmt.Errorf("create project request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		return ProjectSummary{}, fmt.Errorf("project service returned HTTP %d", resp.StatusCode)
	}

	var out ProjectSummary
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return ProjectSummary{}, fmt.Errorf("decoding created project: %w", err)
	}
	return out, nil
}

// Fetch returns one project by id. A missing project is ErrNotFound.
func (c *APIClient) Fetch(ctx context.Context, id string) (ProjectSummary, error) {
	var out ProjectSummary
	if err := c.getJSON(ctx, "/project/"+url.PathEscape(id), &out); err != nil {
		return ProjectSummary{}, err
	}
	return out, nil
}

// Delete removes one project by id. A missing project is ErrNotFound; the
// workspace treats that as success-equivalent on retries.
func (c *APIClient) Delete(ctx context.Context, id string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.baseURL+"/project/"+url.PathEscape(id), nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("delete project request: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case resp.StatusCode >= http.StatusBadRequest:
		return fmt.Errorf("project service returned HTTP %d", resp.StatusCode)
	}
	return nil
}

func (c *APIClient) getJSON(ctx context.Context, path string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("fetching %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("fetching %s: HTTP %d", path, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decoding %s: %w", path, err)
	}
	return nil
}
