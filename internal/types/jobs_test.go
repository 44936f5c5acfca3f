package types

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCreateJobRequest_Validation(t *testing.T) {
	tests := []struct {
		name    string
		req     CreateJobRequest
		wantErr bool
	}{
		{"minimal", CreateJobRequest{Title: "Barista", Description: "Make coffee"}, false},
		{"with location", CreateJobRequest{Title: "Barista", Description: "Make coffee", Latitude: fp(40.71), Longitude: fp(-74.0)}, false},
		{"with catalog location", CreateJobRequest{Title: "Barista", Description: "Make coffee", LocationID: 101}, false},
		{"missing title", CreateJobRequest{Description: "Make coffee"}, true},
		{"missing description", CreateJobRequest{Title: "Barista"}, true},
		{"title too long", CreateJobRequest{Title: strings.Repeat("x", 201), Description: "d"}, true},
		{"bad latitude", CreateJobRequest{Title: "Barista", Description: "d", Latitude: fp(-95)}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestUpdateStatusRequest_Validation(t *testing.T) {
	for _, s := range []string{StatusWaiting, StatusAccepted, StatusRejected} {
		r := UpdateStatusRequest{Status: s}
		assert.NoError(t, r.Validate(), s)
	}

	for _, s := range []string{"", "pending", "ACCEPTED"} {
		r := UpdateStatusRequest{Status: s}
		assert.Error(t, r.Validate(), s)
	}
}

func TestIsFinalStatus(t *testing.T) {
	assert.False(t, IsFinalStatus(StatusWaiting))
	assert.True(t, IsFinalStatus(StatusAccepted))
	assert.True(t, IsFinalStatus(StatusRejected))
}
