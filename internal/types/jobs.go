package types

import (
	"github.com/go-playground/validator/v10"
)

// Job types offered on the portal; Part-time is the default.
const (
	JobTypePartTime = "Part-time"
	JobTypeFullTime = "Full-time"
)

// Application statuses. Accepted and rejected are final.
const (
	StatusWaiting  = "waiting"
	StatusAccepted = "accepted"
	StatusRejected = "rejected"
)

// CreateJobRequest posts a new job for the authenticated employer.
type CreateJobRequest struct {
	Title       string   `json:"title" validate:"required,min=1,max=200"`
	Description string   `json:"description" validate:"required,min=1,max=20000"`
	Salary      string   `json:"salary,omitempty" validate:"max=100"`
	TimeSlot    string   `json:"time_slot,omitempty" validate:"max=100"`
	JobType     string   `json:"job_type,omitempty" validate:"max=50"`
	Latitude    *float64 `json:"latitude,omitempty" validate:"omitempty,latitude"`
	Longitude   *float64 `json:"longitude,omitempty" validate:"omitempty,longitude"`
	// LocationID picks a catalog business location instead of raw coordinates.
	LocationID int `json:"location_id,omitempty" validate:"gte=0"`
}

// ApplyRequest applies the authenticated employee to a job.
type ApplyRequest struct {
	CoverLetter string `json:"cover_letter,omitempty" validate:"max=5000"`
}

// UpdateStatusRequest moves an application to a new status.
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=waiting accepted rejected"`
}

// UpdateEmployerRequest edits an employer profile.
type UpdateEmployerRequest struct {
	Name        string `json:"name" validate:"required,min=1,max=200"`
	CompanyName string `json:"company_name" validate:"required,min=1,max=200"`
}

// UpdateEmployeeRequest edits an employee profile. Either both coordinates or
// neither must be given; a LocationID resolves to catalog coordinates.
type UpdateEmployeeRequest struct {
	Name       string   `json:"name" validate:"required,min=1,max=200"`
	Education  string   `json:"education" validate:"required,max=500"`
	Skills     []string `json:"skills" validate:"max=50,dive,required,max=100"`
	Experience int      `json:"experience" validate:"gte=0,lte=80"`
	Latitude   *float64 `json:"latitude,omitempty" validate:"omitempty,latitude"`
	Longitude  *float64 `json:"longitude,omitempty" validate:"omitempty,longitude"`
	LocationID int      `json:"location_id,omitempty" validate:"gte=0"`
}

// ChatRequest asks the career assistant a question.
type ChatRequest struct {
	Question string `json:"question" validate:"required,min=1,max=2000"`
}

// Validate validates the CreateJobRequest using the validator.
func (r *CreateJobRequest) Validate() error {
	return validator.New().Struct(r)
}

// Validate validates the UpdateStatusRequest using the validator.
func (r *UpdateStatusRequest) Validate() error {
	return validator.New().Struct(r)
}

// IsFinalStatus reports whether an application in this status can no longer change.
func IsFinalStatus(status string) bool {
	return status == StatusAccepted || status == StatusRejected
}
