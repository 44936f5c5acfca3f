package nearby

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/jonathan/jobportal/internal/geo"
)

// ErrMalformedPayload is returned when a source answers with something other
// than a JSON array.
var ErrMalformedPayload = errors.New("payload is not a JSON array")

// JobRecord is a job listing as the map consumes it. Every field is coerced
// from whatever the source sent; coordinates stay nil when unusable.
type JobRecord struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	CompanyName string   `json:"company_name"`
	Description string   `json:"description"`
	Salary      string   `json:"salary,omitempty"`
	TimeSlot    string   `json:"time_slot,omitempty"`
	Status      string   `json:"status"`
	Latitude    *float64 `json:"latitude"`
	Longitude   *float64 `json:"longitude"`
	CreatedAt   string   `json:"created_at,omitempty"`
}

// Coordinate returns the record's position, nil when unlocated.
func (r JobRecord) Coordinate() *geo.Coordinate {
	return geo.CoordinateOf(r.Latitude, r.Longitude)
}

// TalentRecord is a job seeker as the employer's map consumes it.
type TalentRecord struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Education  string   `json:"education"`
	Skills     []string `json:"skills"`
	Experience int      `json:"experience"`
	Latitude   *float64 `json:"latitude"`
	Longitude  *float64 `json:"longitude"`
}

// Coordinate returns the record's position, nil when unlocated.
func (r TalentRecord) Coordinate() *geo.Coordinate {
	return geo.CoordinateOf(r.Latitude, r.Longitude)
}

func parseJob(m map[string]any) JobRecord {
	return JobRecord{
		ID:          text(m["id"]),
		Title:       text(m["title"]),
		CompanyName: text(m["company_name"]),
		Description: text(m["description"]),
		Salary:      text(m["salary"]),
		TimeSlot:    text(m["time_slot"]),
		Status:      text(m["status"]),
		Latitude:    geo.Coerce(m["latitude"]),
		Longitude:   geo.Coerce(m["longitude"]),
		CreatedAt:   text(m["created_at"]),
	}
}

func parseTalent(m map[string]any) TalentRecord {
	r := TalentRecord{
		ID:        text(m["id"]),
		Name:      text(m["name"]),
		Education: text(m["education"]),
		Skills:    stringList(m["skills"]),
		Latitude:  geo.Coerce(m["latitude"]),
		Longitude: geo.Coerce(m["longitude"]),
	}
	if exp := geo.Coerce(m["experience"]); exp != nil && *exp > 0 {
		r.Experience = int(*exp)
	}
	return r
}

// decodeRecords splits a payload into located records and a count of records
// that were dropped, either because they were not objects or had no usable
// coordinate.
func decodeRecords[T any](payload json.RawMessage, parse func(map[string]any) T, locate func(T) *geo.Coordinate) ([]T, int, error) {
	dec := json.NewDecoder(bytes.NewReader(payload))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	if err := dec.Decode(new(any)); !errors.Is(err, io.EOF) {
		return nil, 0, fmt.Errorf("%w: trailing data after array", ErrMalformedPayload)
	}
	items, ok := v.([]any)
	if !ok {
		return nil, 0, ErrMalformedPayload
	}

	located := make([]T, 0, len(items))
	unlocated := 0
	for _, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			unlocated++
			continue
		}
		rec := parse(m)
		if locate(rec) == nil {
			unlocated++
			continue
		}
		located = append(located, rec)
	}
	return located, unlocated, nil
}

func text(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case json.Number:
		return x.String()
	case bool:
		return strconv.FormatBool(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	default:
		return ""
	}
}

// stringList accepts a JSON array, a string holding a JSON array, or a
// comma-separated string.
func stringList(v any) []string {
	switch x := v.(type) {
	case []any:
		out := make([]string, 0, len(x))
		for _, item := range x {
			if s := strings.TrimSpace(text(item)); s != "" {
				out = append(out, s)
			}
		}
		return out
	case string:
		s := strings.TrimSpace(x)
		if s == "" {
			return []string{}
		}
		var arr []string
		if strings.HasPrefix(s, "[") && json.Unmarshal([]byte(s), &arr) == nil {
			return arr
		}
		out := []string{}
		for _, part := range strings.Split(s, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
		return out
	default:
		return []string{}
	}
}
