package nearby

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/jonathan/jobportal/internal/geo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeRecords_CoercesFields(t *testing.T) {
	payload := json.RawMessage(`[{
		"id": 42,
		"title": "Line Cook",
		"company_name": "Diner Co",
		"description": "Prep and grill",
		"salary": 17.5,
		"time_slot": "Evenings",
		"status": "open",
		"latitude": "40.75",
		"longitude": -73.99,
		"created_at": "2024-04-01T10:00:00Z",
		"unexpected": {"nested": true}
	}]`)

	jobs, unlocated, err := decodeRecords(payload, parseJob, JobRecord.Coordinate)
	require.NoError(t, err)
	assert.Zero(t, unlocated)
	require.Len(t, jobs, 1)

	j := jobs[0]
	assert.Equal(t, "42", j.ID)
	assert.Equal(t, "Line Cook", j.Title)
	assert.Equal(t, "Diner Co", j.CompanyName)
	assert.Equal(t, "17.5", j.Salary)
	assert.Equal(t, "Evenings", j.TimeSlot)
	assert.Equal(t, "2024-04-01T10:00:00Z", j.CreatedAt)
	assert.Equal(t, &geo.Coordinate{Latitude: 40.75, Longitude: -73.99}, j.Coordinate())
}

func TestDecodeRecords_WrongFieldTypesAreBlank(t *testing.T) {
	payload := json.RawMessage(`[{"id": [1], "title": {"x": 1}, "latitude": 1, "longitude": 2}]`)

	jobs, _, err := decodeRecords(payload, parseJob, JobRecord.Coordinate)
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Empty(t, jobs[0].ID)
	assert.Empty(t, jobs[0].Title)
}

func TestDecodeRecords_RejectsNonArray(t *testing.T) {
	_, _, err := decodeRecords(json.RawMessage(`{"jobs": []}`), parseJob, JobRecord.Coordinate)
	assert.True(t, errors.Is(err, ErrMalformedPayload))

	_, _, err = decodeRecords(json.RawMessage(`not json`), parseJob, JobRecord.Coordinate)
	assert.True(t, errors.Is(err, ErrMalformedPayload))
}

func TestStringList(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want []string
	}{
		{"array", []any{"Go", " SQL ", ""}, []string{"Go", "SQL"}},
		{"json string", `["React","CSS"]`, []string{"React", "CSS"}},
		{"comma string", "Driving, Lifting ,", []string{"Driving", "Lifting"}},
		{"empty", "", []string{}},
		{"nil", nil, []string{}},
		{"number", 3.0, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, stringList(tt.in))
		})
	}
}

func TestSessionFromValues(t *testing.T) {
	s := SessionFromValues(7, "employee", "40.7649", "-73.9940")
	assert.Equal(t, "7", s.UserID)
	assert.Equal(t, "employee", s.UserType)
	require.NotNil(t, s.Stored)
	assert.Equal(t, geo.Coordinate{Latitude: 40.7649, Longitude: -73.9940}, s.Reference(DefaultReference))

	empty := SessionFromValues(nil, nil, "", nil)
	assert.Empty(t, empty.UserID)
	assert.Nil(t, empty.Stored)
	assert.Equal(t, DefaultReference, empty.Reference(DefaultReference))
}

func TestSession_ReferenceIgnoresOutOfRange(t *testing.T) {
	s := Session{Stored: &geo.Coordinate{Latitude: 123, Longitude: 0}}
	assert.Equal(t, DefaultReference, s.Reference(DefaultReference))
}
