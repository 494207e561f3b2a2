package projects

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func SetupRoutes() http.Handler {
	r := chi.NewRouter()

	r.Get("/projects/{username}", ListByUserHandler)
	r.Post("/projects", CreateHandler)
	r.Get("/project/{project_id}", GetHandler)
	r.Delete("/project/{project_id}", DeleteHandler)

	return r
}
