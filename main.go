package main

import (
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/dylanrylee/3d-urban-dashboard/internal/buildings"
	"github.com/dylanrylee/3d-urban-dashboard/internal/config"
	"github.com/dylanrylee/3d-urban-dashboard/internal/db"
	"github.com/dylanrylee/3d-urban-dashboard/internal/middleware"
	"github.com/dylanrylee/3d-urban-dashboard/internal/projects"
	"github.com/dylanrylee/3d-urban-dashboard/internal/query"
	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"
)

func RootHandler(w http.ResponseWriter, r *http.Request) {
	response := "Server is up!"
	w.Header().Set("Content-Type", "text/plain")
	fmt.Fprintln(w, response)
}

func main() {
	_ = godotenv.Load(".env.local")

	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatal("Failed to load config: ", err)
	}

	db.Connect()

	port := os.Getenv("PORT")
	if port == "" {
		port = "5050"
	}

	buildings.Init(cfg)
	query.Init()
	projects.Init()

	r := chi.NewRouter()
	r.Use(middleware.RequestLogger)
	r.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))
	r.Get("/", RootHandler)

	r.Mount("/api/buildings", buildings.SetupRoutes())
	r.Mount("/api/query", query.SetupRoutes())
	r.Mount("/api", projects.SetupRoutes())

	fmt.Println("Server listening on port :" + port + "...")

	http.ListenAndServe("0.0.0.0:"+port, r)
}
