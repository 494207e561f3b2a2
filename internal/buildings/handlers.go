package buildings

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/dylanrylee/3d-urban-dashboard/internal/config"
	"github.com/dylanrylee/3d-urban-dashboard/internal/geo"
	"github.com/go-chi/chi/v5"
)

var (
	client    *Client
	projector geo.Projector

	cacheMu      sync.Mutex
	cached       []Building
	cacheFetched time.Time
)

// cacheTTL bounds how stale the served dataset can be. The upstream dataset
// changes rarely; this mostly avoids hammering the open data API.
const cacheTTL = 5 * time.Minute

func Init(cfg config.Config) {
	client = NewClient()
	projector = geo.Projector{
		ReferenceLon: cfg.Scene.ReferenceLon,
		ReferenceLat: cfg.Scene.ReferenceLat,
		ScaleFactor:  cfg.Scene.ScaleFactor,
		MinSize:      cfg.Scene.MinDisplaySize,
	}
	log.Println("Buildings module initialized")
}

// Dataset returns the cached canonical dataset, refreshing from upstream
// when the cache has expired. Used by both the buildings and query handlers.
func Dataset(ctx context.Context) ([]Building, error) {
	cacheMu.Lock()
	defer cacheMu.Unlock()

	if cached != nil && time.Since(cacheFetched) < cacheTTL {
		return cached, nil
	}

	data, err := client.FetchAll(ctx)
	if err != nil {
		if cached != nil {
			// Serve the stale copy rather than failing the request.
			log.Printf("[footprints] refresh failed, serving stale cache: %v", err)
			return cached, nil
		}
		return nil, err
	}

	cached = data
	cacheFetched = time.Now()
	return cached, nil
}

// ListHandler returns the full canonical building set.
func ListHandler(w http.ResponseWriter, r *http.Request) {
	data, err := Dataset(r.Context())
	if err != nil {
		http.Error(w, "Failed to fetch building data: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

// GetHandler returns a single building by id, for the detail panel.
func GetHandler(w http.ResponseWriter, r *http.Request) {
	buildingID := chi.URLParam(r, "building_id")

	data, err := Dataset(r.Context())
	if err != nil {
		http.Error(w, "Failed to fetch building data: "+err.Error(), http.StatusInternalServerError)
		return
	}

	for _, b := range data {
		if b.ID == buildingID {
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(b)
			return
		}
	}
	http.Error(w, "Building not found", http.StatusNotFound)
}

// SceneBuilding pairs a building with its projected scene position and
// display-coerced box dimensions, ready for the renderer.
type SceneBuilding struct {
	Building Building     `json:"building"`
	Position geo.Position `json:"position"`
	Size     [3]float64   `json:"size"` // width, height, length after coercion
}

// SceneHandler returns the canonical set projected into scene coordinates.
// Buildings whose geometry fails projection are skipped, never rendered at
// the origin.
func SceneHandler(w http.ResponseWriter, r *http.Request) {
	data, err := Dataset(r.Context())
	if err != nil {
		http.Error(w, "Failed to fetch building data: "+err.Error(), http.StatusInternalServerError)
		return
	}

	scene := make([]SceneBuilding, 0, len(data))
	for _, b := range data {
		pos, err := projector.Project(b.Geometry.Type, b.Geometry.Coordinates, b.Height)
		if errors.Is(err, geo.ErrInvalidGeometry) {
			log.Printf("[scene] skipping building %s: %v", b.ID, err)
			continue
		}
		scene = append(scene, SceneBuilding{
			Building: b,
			Position: pos,
			Size: [3]float64{
				projector.DisplaySize(b.Width),
				projector.DisplaySize(b.Height),
				projector.DisplaySize(b.Length),
			},
		})
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(scene); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}
