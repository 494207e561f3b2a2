package projects

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/dylanrylee/3d-urban-dashboard/internal/db"
	"github.com/go-chi/chi/v5"
	"github.com/lib/pq"
)

// summary is the wire shape for a project. Filters always encodes as an
// array, never null, so clients can apply it without a nil check.
type summary struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Filters []string `json:"filters"`
}

func toSummary(p Project) summary {
	s := summary{ID: p.ID.String(), Name: p.ProjectName, Filters: p.Filters}
	if s.Filters == nil {
		s.Filters = []string{}
	}
	return s
}

// ListByUserHandler returns all projects owned by a username.
func ListByUserHandler(w http.ResponseWriter, r *http.Request) {
	username := strings.TrimSpace(chi.URLParam(r, "username"))
	if username == "" {
		http.Error(w, "Username is required", http.StatusBadRequest)
		return
	}

	var projects []Project
	if err := db.DB.Where("username = ?", username).Order("created_at ASC").Find(&projects).Error; err != nil {
		http.Error(w, "Failed to fetch projects: "+err.Error(), http.StatusInternalServerError)
		return
	}

	out := make([]summary, 0, len(projects))
	for _, p := range projects {
		out = append(out, toSummary(p))
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(out)
}

// CreateHandler saves a new project snapshot for a user.
func CreateHandler(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Username    string   `json:"username"`
		ProjectName string   `json:"projectName"`
		Filters     []string `json:"filters"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if strings.TrimSpace(input.Username) == "" || strings.TrimSpace(input.ProjectName) == "" {
		http.Error(w, "Username and project name are required", http.StatusBadRequest)
		return
	}

	project := Project{
		Username:    strings.TrimSpace(input.Username),
		ProjectName: strings.TrimSpace(input.ProjectName),
		Filters:     pq.StringArray(input.Filters),
	}
	if err := db.DB.Create(&project).Error; err != nil {
		http.Error(w, "Failed to create project: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(toSummary(project))
}

// GetHandler returns a single project by id.
func GetHandler(w http.ResponseWriter, r *http.Request) {
	projectID := chi.URLParam(r, "project_id")

	var project Project
	if err := db.DB.First(&project, "id = ?", projectID).Error; err != nil {
		http.Error(w, "Project not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(toSummary(project))
}

// DeleteHandler removes a project. Deleting an id that is already gone
// returns 404; callers treat that as success on retry.
func DeleteHandler(w http.ResponseWriter, r *http.Request) {
	projectID := chi.URLParam(r, "project_id")

	result := db.DB.Where("id = ?", projectID).Delete(&Project{})
	if result.Error != nil {
		http.Error(w, "Failed to delete project: "+result.Error.Error(), http.StatusInternalServerError)
		return
	}
	if result.RowsAffected == 0 {
		http.Error(w, "Project not found", http.StatusNotFound)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
