// Package locations provides the fixed catalog of named residential and
// business areas used for registration, job posting and reverse lookup.
//
// The catalog is embedded, validated against its JSON Schema once, and never
// mutated afterwards, so a *Catalog is safe for concurrent readers.
package locations

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"math"
	"sync"

	"github.com/jonathan/jobportal/internal/geo"
	"github.com/jonathan/jobportal/internal/schemas"
)

//go:embed catalog.json
var catalogJSON []byte

//go:embed catalog.schema.json
var catalogSchema []byte

// DefaultTolerance is the per-axis slack, in degrees, for ByCoordinate matches.
const DefaultTolerance = 0.001

// Display names returned by DisplayName when no catalog entry applies.
const (
	NameNone   = "No location"
	NameCustom = "Custom location"
)

// Category separates where people live from where they work.
type Category string

const (
	Residential Category = "residential"
	Business    Category = "business"
)

// NamedLocation is a single catalog entry.
type NamedLocation struct {
	ID          int      `json:"id"`
	Name        string   `json:"name"`
	Latitude    float64  `json:"latitude"`
	Longitude   float64  `json:"longitude"`
	Description string   `json:"description"`
	Category    Category `json:"category"`
}

// Coordinate returns the entry's position.
func (l NamedLocation) Coordinate() geo.Coordinate {
	return geo.Coordinate{Latitude: l.Latitude, Longitude: l.Longitude}
}

// Catalog is an ordered, read-only set of named locations. Residential entries
// come first, then business entries, each in file order.
type Catalog struct {
	entries []NamedLocation
	byID    map[int]int
}

type catalogFile struct {
	Residential []NamedLocation `json:"residential"`
	Business    []NamedLocation `json:"business"`
}

// Load validates and parses a catalog document.
func Load(data []byte) (*Catalog, error) {
	if err := schemas.Validate("location catalog", catalogSchema, data); err != nil {
		return nil, err
	}

	var file catalogFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse location catalog: %w", err)
	}

	c := &Catalog{
		entries: make([]NamedLocation, 0, len(file.Residential)+len(file.Business)),
		byID:    make(map[int]int),
	}
	for _, group := range []struct {
		category Category
		items    []NamedLocation
	}{
		{Residential, file.Residential},
		{Business, file.Business},
	} {
		for _, loc := range group.items {
			if _, dup := c.byID[loc.ID]; dup {
				return nil, fmt.Errorf("duplicate location id %d", loc.ID)
			}
			loc.Category = group.category
			c.byID[loc.ID] = len(c.entries)
			c.entries = append(c.entries, loc)
		}
	}
	return c, nil
}

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
)

// Default returns the embedded catalog. It panics if the embedded file is
// invalid, which can only happen through a bad edit to catalog.json.
func Default() *Catalog {
	defaultOnce.Do(func() {
		c, err := Load(catalogJSON)
		if err != nil {
			panic(fmt.Sprintf("embedded location catalog is invalid: %v", err))
		}
		defaultCatalog = c
	})
	return defaultCatalog
}

// All returns every entry in catalog order.
func (c *Catalog) All() []NamedLocation {
	out := make([]NamedLocation, len(c.entries))
	copy(out, c.entries)
	return out
}

// Residential returns residential entries in catalog order.
func (c *Catalog) Residential() []NamedLocation {
	return c.filter(Residential)
}

// Business returns business entries in catalog order.
func (c *Catalog) Business() []NamedLocation {
	return c.filter(Business)
}

// ByCategory returns the entries of one category; an empty category means all.
func (c *Catalog) ByCategory(cat Category) []NamedLocation {
	if cat == "" {
		return c.All()
	}
	return c.filter(cat)
}

func (c *Catalog) filter(cat Category) []NamedLocation {
	var out []NamedLocation
	for _, loc := range c.entries {
		if loc.Category == cat {
			out = append(out, loc)
		}
	}
	return out
}

// ByID looks up an entry by its integer id.
func (c *Catalog) ByID(id int) (NamedLocation, bool) {
	i, ok := c.byID[id]
	if !ok {
		return NamedLocation{}, false
	}
	return c.entries[i], true
}

// ByCoordinate returns the first entry, in catalog order, whose latitude and
// longitude each differ from the query by strictly less than tolerance.
// A tolerance <= 0 means DefaultTolerance.
func (c *Catalog) ByCoordinate(lat, lon, tolerance float64) (NamedLocation, bool) {
	if tolerance <= 0 {
		tolerance = DefaultTolerance
	}
	for _, loc := range c.entries {
		if math.Abs(loc.Latitude-lat) < tolerance && math.Abs(loc.Longitude-lon) < tolerance {
			return loc, true
		}
	}
	return NamedLocation{}, false
}

// DisplayName describes a stored coordinate for people. Zero is a real
// coordinate, only nil counts as absent.
func (c *Catalog) DisplayName(lat, lon *float64) string {
	if lat == nil || lon == nil {
		return NameNone
	}
	if loc, ok := c.ByCoordinate(*lat, *lon, DefaultTolerance); ok {
		return loc.Name
	}
	return NameCustom
}

// Nearest returns the catalog entry closest to pos by great-circle distance.
func (c *Catalog) Nearest(pos geo.Coordinate) (NamedLocation, geo.Distance, bool) {
	var (
		best  NamedLocation
		bestD = geo.UnknownDistance
		found bool
	)
	for _, loc := range c.entries {
		lc := loc.Coordinate()
		d := geo.HaversineDistance(&pos, &lc)
		if !d.Known {
			continue
		}
		if !found || d.Km < bestD.Km {
			best, bestD, found = loc, d, true
		}
	}
	return best, bestD, found
}

// DistanceBetween is the great-circle distance between two catalog entries,
// unknown if either id is missing.
func (c *Catalog) DistanceBetween(fromID, toID int) geo.Distance {
	from, ok := c.ByID(fromID)
	if !ok {
		return geo.UnknownDistance
	}
	to, ok := c.ByID(toID)
	if !ok {
		return geo.UnknownDistance
	}
	a, b := from.Coordinate(), to.Coordinate()
	return geo.HaversineDistance(&a, &b)
}
