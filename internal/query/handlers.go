package query

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/dylanrylee/3d-urban-dashboard/internal/buildings"
	"github.com/dylanrylee/3d-urban-dashboard/internal/interpreter"
)

var client *interpreter.Client

func Init() {
	c, err := interpreter.NewClient()
	if err != nil {
		log.Fatal("Failed to create interpreter client: ", err)
	}
	if c == nil {
		log.Println("GEMINI_API_KEY not set — query interpretation disabled")
	}
	client = c
	log.Println("Query module initialized")
}

type errorResponse struct {
	Error string `json:"error"`
	Raw   string `json:"raw,omitempty"`
}

func writeError(w http.ResponseWriter, status int, msg, raw string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(errorResponse{Error: msg, Raw: raw})
}

// Handler interprets a free-form query into criteria, filters the canonical
// set server-side, and returns the full filtered building list.
func Handler(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Query string `json:"query"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", "")
		return
	}

	q := strings.TrimSpace(input.Query)
	if q == "" {
		writeError(w, http.StatusBadRequest, "Query is required", "")
		return
	}

	if client == nil {
		writeError(w, http.StatusBadRequest, "Missing GEMINI_API_KEY", "")
		return
	}

	criteria, err := client.Interpret(r.Context(), q)
	if err != nil {
		var parseErr *interpreter.ParseError
		if errors.As(err, &parseErr) {
			writeError(w, http.StatusBadRequest, "Failed to parse LLM response", parseErr.Raw)
			return
		}
		writeError(w, http.StatusBadRequest, err.Error(), "")
		return
	}

	data, err := buildings.Dataset(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to fetch building data: "+err.Error(), "")
		return
	}

	filtered := make([]buildings.Building, 0, len(data))
	for _, b := range data {
		if criteria.Matches(b) {
			filtered = append(filtered, b)
		}
	}
	log.Printf("[query] %q matched %d of %d buildings", q, len(filtered), len(data))

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(filtered); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}
