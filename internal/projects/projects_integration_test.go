package projects_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/dylanrylee/3d-urban-dashboard/internal/db"
	"github.com/dylanrylee/3d-urban-dashboard/internal/projects"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
)

// dbAvailable tracks whether the database connection was established.
var dbAvailable bool

// testServer is the shared httptest server for all integration tests.
var testServer *httptest.Server

func TestMain(m *testing.M) {
	// Load .env.local relative to the repo root (two directories up).
	_ = godotenv.Load("../../.env.local")

	if os.Getenv("DATABASE_URL") == "" {
		// No database available — skip all integration tests gracefully.
		os.Exit(m.Run())
	}

	db.Connect()
	dbAvailable = true

	projects.Init()

	r := chi.NewRouter()
	r.Mount("/api", projects.SetupRoutes())

	testServer = httptest.NewServer(r)
	defer testServer.Close()

	os.Exit(m.Run())
}

type summary struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Filters []string `json:"filters"`
}

// createTestProject saves a project through the API for a unique throwaway
// user and registers cleanup. Returns the owner and the created summary.
func createTestProject(t *testing.T, filters []string) (string, summary) {
	t.Helper()
	if !dbAvailable {
		t.Skip("skipping integration test (requires DATABASE_URL)")
	}

	username := fmt.Sprintf("testuser_%s", uuid.New().String()[:8])
	body, _ := json.Marshal(map[string]any{
		"username":    username,
		"projectName": "test project",
		"filters":     filters,
	})

	resp, err := http.Post(testServer.URL+"/api/projects", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("POST /api/projects: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create status = %d, want 201", resp.StatusCode)
	}

	var created summary
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatalf("decoding created project: %v", err)
	}

	t.Cleanup(func() {
		db.DB.Where("username = ?", username).Delete(&projects.Project{})
	})

	return username, created
}

// TestProjectLifecycle walks save → list → fetch → delete through the API.
func TestProjectLifecycle(t *testing.T) {
	username, created := createTestProject(t, []string{"2044580014", "5010820061"})

	// List by owner includes the new project.
	resp, err := http.Get(testServer.URL + "/api/projects/" + username)
	if err != nil {
		t.Fatalf("GET projects: %v", err)
	}
	var list []summary
	json.NewDecoder(resp.Body).Decode(&list)
	resp.Body.Close()
	if len(list) != 1 || list[0].ID != created.ID {
		t.Fatalf("list = %+v, want the created project", list)
	}

	// Fetch by id round-trips the filter ids.
	resp, err = http.Get(testServer.URL + "/api/project/" + created.ID)
	if err != nil {
		t.Fatalf("GET project: %v", err)
	}
	var fetched summary
	json.NewDecoder(resp.Body).Decode(&fetched)
	resp.Body.Close()
	if len(fetched.Filters) != 2 {
		t.Fatalf("fetched filters = %v, want 2 ids", fetched.Filters)
	}

	// Delete, then a duplicate delete reports 404.
	req, _ := http.NewRequest(http.MethodDelete, testServer.URL+"/api/project/"+created.ID, nil)
	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("DELETE project: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("delete status = %d, want 204", resp.StatusCode)
	}

	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("duplicate DELETE: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("duplicate delete status = %d, want 404", resp.StatusCode)
	}
}

// TestCreateValidation verifies blank username or project name is rejected.
func TestCreateValidation(t *testing.T) {
	if !dbAvailable {
		t.Skip("skipping integration test (requires DATABASE_URL)")
	}

	for _, payload := range []map[string]any{
		{"username": "", "projectName": "p", "filters": []string{}},
		{"username": "someone", "projectName": "  ", "filters": []string{}},
	} {
		body, _ := json.Marshal(payload)
		resp, err := http.Post(testServer.URL+"/api/projects", "application/json", bytes.NewReader(body))
		if err != nil {
			t.Fatalf("POST: %v", err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("payload %v: status = %d, want 400", payload, resp.StatusCode)
		}
	}
}

// TestGetMissingProject verifies an unknown id is a 404.
func TestGetMissingProject(t *testing.T) {
	if !dbAvailable {
		t.Skip("skipping integration test (requires DATABASE_URL)")
	}

	resp, err := http.Get(testServer.URL + "/api/project/" + uuid.NewString())
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
}
