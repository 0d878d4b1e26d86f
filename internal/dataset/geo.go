package dataset

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/paulmach/orb/geojson"
)

// Default GeoJSON property keys of the India state boundary file.
const (
	DefaultNameProperty = "st_nm"
	DefaultCodeProperty = "state_code"
)

// parseBoundaries reads a feature collection and returns one boundary per
// feature. Features without a name or code make the whole file invalid.
func parseBoundaries(data []byte, nameKey, codeKey string) ([]Boundary, error) {
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse GeoJSON: %w", err)
	}

	boundaries := make([]Boundary, 0, len(fc.Features))
	for i, f := range fc.Features {
		name, ok := propertyString(f.Properties, nameKey)
		if !ok || name == "" {
			return nil, fmt.Errorf("feature %d: missing %q property", i, nameKey)
		}
		code, ok := propertyString(f.Properties, codeKey)
		if !ok || code == "" {
			return nil, fmt.Errorf("feature %d (%s): missing %q property", i, name, codeKey)
		}
		boundaries = append(boundaries, Boundary{
			Code:     code,
			Name:     name,
			Geometry: f.Geometry,
		})
	}
	return boundaries, nil
}

// propertyString reads a property as text. GeoJSON codes are often numeric,
// so numbers are formatted without a fractional part when they have none.
func propertyString(props geojson.Properties, key string) (string, bool) {
	raw, ok := props[key]
	if !ok || raw == nil {
		return "", false
	}
	switch v := raw.(type) {
	case string:
		return strings.TrimSpace(v), true
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true
	case int:
		return strconv.Itoa(v), true
	case bool:
		return "", false
	default:
		return fmt.Sprint(v), true
	}
}

func lookupFromBoundaries(boundaries []Boundary) (map[string]string, error) {
	codes := make(map[string]string, len(boundaries))
	for _, b := range boundaries {
		if prev, dup := codes[b.Name]; dup && prev != b.Code {
			return nil, fmt.Errorf("state %q maps to both %s and %s", b.Name, prev, b.Code)
		}
		codes[b.Name] = b.Code
	}
	return codes, nil
}
