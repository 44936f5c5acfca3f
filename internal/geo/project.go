package geo

import (
	"math"
	"strconv"
)

const (
	// ZoomFactor turns a degree offset into percentage points on the map.
	ZoomFactor = 500.0
	// MinPosition and MaxPosition bound every marker inside the container.
	MinPosition = 10.0
	MaxPosition = 90.0
	// Center is where the reference coordinate is drawn.
	Center = 50.0
)

// Axis selects which component of a coordinate a screen axis follows.
type Axis int

const (
	// AxisX runs along longitude (CSS left).
	AxisX Axis = iota
	// AxisY runs along latitude (CSS top). It is not inverted: a more northern
	// point sits further down the container.
	AxisY
)

func (a Axis) of(c Coordinate) float64 {
	if a == AxisX {
		return c.Longitude
	}
	return c.Latitude
}

// ScreenPosition places a marker on the schematic map as CSS percentages.
type ScreenPosition struct {
	Left string `json:"left"`
	Top  string `json:"top"`
}

// CenterPosition is the position of the reference coordinate itself.
var CenterPosition = ScreenPosition{Left: formatPercent(Center), Top: formatPercent(Center)}

// Percent returns the clamped position in [MinPosition, MaxPosition] for one
// axis. Missing or non-finite values sit at Center.
func Percent(value *float64, axis Axis, ref Coordinate) float64 {
	if value == nil || !finite(*value) {
		return Center
	}
	raw := Center + (*value-axis.of(ref))*ZoomFactor
	if math.IsNaN(raw) {
		return Center
	}
	return math.Max(MinPosition, math.Min(MaxPosition, raw))
}

// Project is Percent rendered as a percentage string such as "62.5%".
func Project(value *float64, axis Axis, ref Coordinate) string {
	return formatPercent(Percent(value, axis, ref))
}

// PositionOf projects both axes of c. A nil coordinate lands on the center.
func PositionOf(c *Coordinate, ref Coordinate) ScreenPosition {
	if c == nil {
		return CenterPosition
	}
	return ScreenPosition{
		Left: Project(&c.Longitude, AxisX, ref),
		Top:  Project(&c.Latitude, AxisY, ref),
	}
}

func formatPercent(v float64) string {
	return strconv.FormatFloat(math.Round(v*100)/100, 'f', -1, 64) + "%"
}
