package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/goccy/go-yaml"
)

// Scene holds the deployment constants for projecting geographic coordinates
// into the renderer's working volume. The reference point should sit near the
// dataset's centroid so projected positions stay close to the scene origin.
type Scene struct {
	ReferenceLon   float64 `yaml:"reference_lon"`
	ReferenceLat   float64 `yaml:"reference_lat"`
	ScaleFactor    float64 `yaml:"scale_factor"`
	MinDisplaySize float64 `yaml:"min_display_size"`
}

// Highlight carries the renderer styling hints for the selected building.
// The core only ever reports a boolean; these are passed through to clients.
type Highlight struct {
	Color             string  `yaml:"color"`
	BaseColor         string  `yaml:"base_color"`
	ScaleMultiplier   float64 `yaml:"scale_multiplier"`
	EmissiveIntensity float64 `yaml:"emissive_intensity"`
}

// Config is the full deployment configuration, loaded from a YAML file with
// environment variable overrides for the values that differ per environment.
type Config struct {
	Scene     Scene     `yaml:"scene"`
	Highlight Highlight `yaml:"highlight"`

	// DefaultUsername pre-fills the project workspace for demo deployments.
	// Leave empty for an empty-initial workspace.
	DefaultUsername string `yaml:"default_username"`

	AllowedOrigins []string `yaml:"allowed_origins"`
}

// Default returns the configuration used when no config file is present.
// The reference point and scale match the NYC footprints demo dataset.
func Default() Config {
	return Config{
		Scene: Scene{
			ReferenceLon:   -73.85,
			ReferenceLat:   40.86,
			ScaleFactor:    5000,
			MinDisplaySize: 5,
		},
		Highlight: Highlight{
			Color:             "yellow",
			BaseColor:         "orange",
			ScaleMultiplier:   1.2,
			EmissiveIntensity: 0.3,
		},
		AllowedOrigins: []string{
			"http://localhost:3000",
			"http://localhost:5173",
		},
	}
}

// Load reads the YAML config at path on top of the defaults, then applies
// environment overrides. A missing file is not an error; a malformed one is.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			log.Printf("[config] %s not found, using defaults", path)
			applyEnv(&cfg)
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}

	applyEnv(&cfg)

	if cfg.Scene.ScaleFactor <= 0 {
		return cfg, fmt.Errorf("scene.scale_factor must be positive, got %v", cfg.Scene.ScaleFactor)
	}
	return cfg, nil
}

// applyEnv overrides the config with environment variables where set.
//
//   - DEFAULT_USERNAME: demo user pre-filled in the workspace
//   - ALLOWED_ORIGINS: comma-separated CORS allow-list
//   - SCENE_SCALE_FACTOR: projection scale override
func applyEnv(cfg *Config) {
	if v := os.Getenv("DEFAULT_USERNAME"); v != "" {
		cfg.DefaultUsername = v
	}
	if v := os.Getenv("ALLOWED_ORIGINS"); v != "" {
		parts := strings.Split(v, ",")
		origins := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				origins = append(origins, p)
			}
		}
		cfg.AllowedOrigins = origins
	}
	if v := os.Getenv("SCENE_SCALE_FACTOR"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Scene.ScaleFactor = f
		} else {
			log.Printf("[config] ignoring invalid SCENE_SCALE_FACTOR %q", v)
		}
	}
}
