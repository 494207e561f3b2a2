package buildings

import "strings"

// Geometry is the GeoJSON fragment kept on every building. Only Point
// geometries are accepted at ingest; the type field is retained so downstream
// consumers can re-validate before projecting.
type Geometry struct {
	Type        string    `json:"type"`
	Coordinates []float64 `json:"coordinates"`
}

// Building is an immutable record from the canonical dataset. Dimensions keep
// their original values even when non-positive; display coercion happens at
// projection time.
type Building struct {
	ID       string   `json:"id"`
	Geometry Geometry `json:"geometry"`
	Height   float64  `json:"height"`
	Width    float64  `json:"width"`
	Length   float64  `json:"length"`
	Address  string   `json:"address"`
	Zoning   string   `json:"zoning"`
	Value    float64  `json:"value"`
	Area     float64  `json:"area"`
}

// Attribute looks up a filterable attribute by name for criteria evaluation.
// Returns false for attributes that cannot be filtered on.
func (b Building) Attribute(name string) (any, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "id":
		return b.ID, true
	case "height":
		return b.Height, true
	case "width":
		return b.Width, true
	case "length":
		return b.Length, true
	case "address":
		return b.Address, true
	case "zoning":
		return b.Zoning, true
	case "value":
		return b.Value, true
	case "area":
		return b.Area, true
	}
	return nil, false
}
