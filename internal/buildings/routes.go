package buildings

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func SetupRoutes() http.Handler {
	r := chi.NewRouter()

	r.Get("/", ListHandler)
	r.Get("/scene", SceneHandler)
	r.Get("/{building_id}", GetHandler)

	return r
}
