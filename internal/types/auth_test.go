//nolint:revive // types is a standard Go package name pattern
package types

import (
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fp(f float64) *float64 { return &f }

func validEmployer() RegisterRequest {
	return RegisterRequest{
		UserType:    UserTypeEmployer,
		Name:        "Dana Owner",
		Email:       "dana@shop.example",
		Password:    "secret1",
		CompanyName: "Dana's Shop",
	}
}

func validEmployee() RegisterRequest {
	return RegisterRequest{
		UserType:  UserTypeEmployee,
		Name:      "Eli Seeker",
		Email:     "eli@example.com",
		Password:  "secret1",
		DOB:       "2000-01-15",
		Education: "High School",
		Skills:    []string{"Cooking", "Cleaning"},
		Latitude:  fp(40.7686),
		Longitude: fp(-74.0423),
	}
}

func TestRegisterRequest_Validation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*RegisterRequest)
		base    func() RegisterRequest
		wantErr string
	}{
		{"valid employer", func(*RegisterRequest) {}, validEmployer, ""},
		{"valid employee", func(*RegisterRequest) {}, validEmployee, ""},
		{"employee without location", func(r *RegisterRequest) { r.Latitude, r.Longitude = nil, nil }, validEmployee, ""},
		{"unknown user type", func(r *RegisterRequest) { r.UserType = "admin" }, validEmployer, "oneof"},
		{"missing name", func(r *RegisterRequest) { r.Name = "" }, validEmployer, "required"},
		{"bad email", func(r *RegisterRequest) { r.Email = "not-an-email" }, validEmployer, "email"},
		{"short password", func(r *RegisterRequest) { r.Password = "12345" }, validEmployer, "min"},
		{"employer without company", func(r *RegisterRequest) { r.CompanyName = "" }, validEmployer, "required_if"},
		{"employee without dob", func(r *RegisterRequest) { r.DOB = "" }, validEmployee, "required_if"},
		{"employee without education", func(r *RegisterRequest) { r.Education = "" }, validEmployee, "required_if"},
		{"negative experience", func(r *RegisterRequest) { r.Experience = -1 }, validEmployee, "gte"},
		{"latitude out of range", func(r *RegisterRequest) { r.Latitude = fp(91) }, validEmployee, "latitude"},
		{"longitude out of range", func(r *RegisterRequest) { r.Longitude = fp(-200) }, validEmployee, "longitude"},
		{"blank skill", func(r *RegisterRequest) { r.Skills = []string{""} }, validEmployee, "required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := tt.base()
			tt.mutate(&req)

			err := req.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			var verrs validator.ValidationErrors
			require.ErrorAs(t, err, &verrs)
			assert.Equal(t, tt.wantErr, verrs[0].Tag())
		})
	}
}

func TestLoginRequest_Validation(t *testing.T) {
	ok := LoginRequest{UserType: UserTypeEmployee, Email: "eli@example.com", Password: "x"}
	assert.NoError(t, ok.Validate())

	missingType := ok
	missingType.UserType = ""
	assert.Error(t, missingType.Validate())

	badEmail := ok
	badEmail.Email = "eli"
	assert.Error(t, badEmail.Validate())
}

func TestUpdatePasswordRequest_Validation(t *testing.T) {
	req := UpdatePasswordRequest{CurrentPassword: "old-pass", NewPassword: "new-pass", ConfirmPassword: "new-pass"}
	assert.NoError(t, req.Validate())

	mismatch := req
	mismatch.ConfirmPassword = "other-pass"
	assert.Error(t, mismatch.Validate())

	short := UpdatePasswordRequest{CurrentPassword: "old-pass", NewPassword: "abc", ConfirmPassword: "abc"}
	assert.Error(t, short.Validate())
}

func TestAgeOn(t *testing.T) {
	dob := time.Date(2006, 6, 15, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, 17, AgeOn(dob, time.Date(2024, 6, 14, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 18, AgeOn(dob, time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 18, AgeOn(dob, time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 17, AgeOn(dob, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)))
}
