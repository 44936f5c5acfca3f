// Package types provides the request and response shapes of the job portal API.
package types

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// User types. Employers post jobs, employees apply to them.
const (
	UserTypeEmployer = "employer"
	UserTypeEmployee = "employee"
)

// MinimumEmployeeAge is the youngest age accepted at employee registration.
const MinimumEmployeeAge = 18

// DateLayout is the wire format of dates of birth.
const DateLayout = "2006-01-02"

// RegisterRequest creates an employer or an employee account. Employer-only and
// employee-only fields are required conditionally on UserType.
type RegisterRequest struct {
	UserType string `json:"user_type" validate:"required,oneof=employer employee"`
	Name     string `json:"name" validate:"required,min=1,max=200"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`

	CompanyName string `json:"company_name,omitempty" validate:"required_if=UserType employer,max=200"`

	DOB        string   `json:"dob,omitempty" validate:"required_if=UserType employee"`
	Education  string   `json:"education,omitempty" validate:"required_if=UserType employee,max=500"`
	Skills     []string `json:"skills,omitempty" validate:"max=50,dive,required,max=100"`
	Experience int      `json:"experience,omitempty" validate:"gte=0,lte=80"`
	Latitude   *float64 `json:"latitude,omitempty" validate:"omitempty,latitude"`
	Longitude  *float64 `json:"longitude,omitempty" validate:"omitempty,longitude"`
}

// LoginRequest authenticates against one of the two account tables.
type LoginRequest struct {
	UserType string `json:"user_type" validate:"required,oneof=employer employee"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UpdatePasswordRequest changes the caller's password.
type UpdatePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=6"`
	ConfirmPassword string `json:"confirm_password" validate:"required,eqfield=NewPassword"`
}

// User is an account as returned by the API (never carries the password hash).
type User struct {
	ID       uuid.UUID `json:"id"`
	UserType string    `json:"user_type"`
	Name     string    `json:"name"`
	Email    string    `json:"email"`

	CompanyName string `json:"company_name,omitempty"`

	Education  string   `json:"education,omitempty"`
	Skills     []string `json:"skills,omitempty"`
	Experience int      `json:"experience,omitempty"`
	Latitude   *float64 `json:"latitude,omitempty"`
	Longitude  *float64 `json:"longitude,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// LoginResponse represents the login/register response with user data and authentication token.
type LoginResponse struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}

// Validate validates the RegisterRequest using the validator.
func (r *RegisterRequest) Validate() error {
	return validator.New().Struct(r)
}

// Validate validates the LoginRequest using the validator.
func (r *LoginRequest) Validate() error {
	return validator.New().Struct(r)
}

// Validate validates the UpdatePasswordRequest using the validator.
func (r *UpdatePasswordRequest) Validate() error {
	return validator.New().Struct(r)
}

// AgeOn returns the age in whole years on the given day of someone born on dob.
func AgeOn(dob, day time.Time) int {
	age := day.Year() - dob.Year()
	if day.Month() < dob.Month() || (day.Month() == dob.Month() && day.Day() < dob.Day()) {
		age--
	}
	return age
}
