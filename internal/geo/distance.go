package geo

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

const (
	// KmPerDegree is the equatorial length of one degree used by ApproxDistance.
	KmPerDegree = 111.0
	// EarthRadiusKm is the mean radius used by HaversineDistance.
	EarthRadiusKm = 6371.0
)

// Distance is a kilometre figure rounded to one decimal, or unknown when an
// input coordinate was missing. Unknown is distinct from a known zero.
type Distance struct {
	Km    float64
	Known bool
}

// UnknownDistance is returned whenever a distance cannot be computed.
var UnknownDistance = Distance{}

// Kilometres returns a known distance rounded to one decimal place.
func Kilometres(km float64) Distance {
	return Distance{Km: math.Round(km*10) / 10, Known: true}
}

func (d Distance) String() string {
	if !d.Known {
		return "unknown"
	}
	return strconv.FormatFloat(d.Km, 'f', 1, 64) + " km"
}

// MarshalJSON writes unknown distances as null.
func (d Distance) MarshalJSON() ([]byte, error) {
	if !d.Known {
		return []byte("null"), nil
	}
	return []byte(strconv.FormatFloat(d.Km, 'f', 1, 64)), nil
}

// UnmarshalJSON accepts a number or null.
func (d *Distance) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*d = UnknownDistance
		return nil
	}
	var km float64
	if err := json.Unmarshal(data, &km); err != nil {
		return fmt.Errorf("invalid distance: %w", err)
	}
	*d = Kilometres(km)
	return nil
}

// Estimator computes the distance between two optional coordinates.
type Estimator func(from, to *Coordinate) Distance

// ApproxDistance treats degrees as a flat grid: sqrt(dLat^2 + dLon^2) * 111.
// Good enough for list display over a few kilometres.
func ApproxDistance(from, to *Coordinate) Distance {
	if !usable(from) || !usable(to) {
		return UnknownDistance
	}
	dLat := to.Latitude - from.Latitude
	dLon := to.Longitude - from.Longitude
	return Kilometres(math.Sqrt(dLat*dLat+dLon*dLon) * KmPerDegree)
}

// HaversineDistance is the great-circle distance on a sphere of EarthRadiusKm.
func HaversineDistance(from, to *Coordinate) Distance {
	if !usable(from) || !usable(to) {
		return UnknownDistance
	}
	lat1 := from.Latitude * math.Pi / 180
	lat2 := to.Latitude * math.Pi / 180
	dLat := (to.Latitude - from.Latitude) * math.Pi / 180
	dLon := (to.Longitude - from.Longitude) * math.Pi / 180

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return Kilometres(EarthRadiusKm * c)
}

// Estimator names accepted by ParseEstimator.
const (
	EstimatorApprox    = "approx"
	EstimatorHaversine = "haversine"
)

// ParseEstimator maps a configured name to an estimator. Empty means approx.
func ParseEstimator(name string) (Estimator, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", EstimatorApprox:
		return ApproxDistance, nil
	case EstimatorHaversine:
		return HaversineDistance, nil
	default:
		return nil, fmt.Errorf("unknown distance estimator %q (want %s or %s)", name, EstimatorApprox, EstimatorHaversine)
	}
}

func usable(c *Coordinate) bool {
	return c != nil && finite(c.Latitude) && finite(c.Longitude)
}
