// Package geo holds the coordinate math behind the nearby map: value coercion,
// screen projection relative to a viewer, and distance estimation.
package geo

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Coordinate is a latitude/longitude pair in decimal degrees.
type Coordinate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Valid reports whether both values are finite and inside the WGS84 ranges.
func (c Coordinate) Valid() bool {
	if !finite(c.Latitude) || !finite(c.Longitude) {
		return false
	}
	return c.Latitude >= -90 && c.Latitude <= 90 && c.Longitude >= -180 && c.Longitude <= 180
}

// Coerce converts a loosely typed value (number, numeric string, json.Number)
// into a finite float64. It returns nil when the value is missing or not numeric.
func Coerce(v any) *float64 {
	var f float64
	switch x := v.(type) {
	case nil:
		return nil
	case float64:
		f = x
	case float32:
		f = float64(x)
	case int:
		f = float64(x)
	case int32:
		f = float64(x)
	case int64:
		f = float64(x)
	case *float64:
		if x == nil {
			return nil
		}
		f = *x
	case json.Number:
		parsed, err := x.Float64()
		if err != nil {
			return nil
		}
		f = parsed
	case string:
		s := strings.TrimSpace(x)
		if s == "" {
			return nil
		}
		parsed, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil
		}
		f = parsed
	default:
		return nil
	}
	if !finite(f) {
		return nil
	}
	return &f
}

// CoordinateOf builds a coordinate from two optional values. The result is nil
// when either value is missing or the pair is not Valid.
func CoordinateOf(lat, lon *float64) *Coordinate {
	if lat == nil || lon == nil {
		return nil
	}
	c := Coordinate{Latitude: *lat, Longitude: *lon}
	if !c.Valid() {
		return nil
	}
	return &c
}

// Parse coerces both values and returns the coordinate, or nil if either is unknown.
func Parse(lat, lon any) *Coordinate {
	return CoordinateOf(Coerce(lat), Coerce(lon))
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
