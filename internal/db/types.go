package db

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Job statuses
const (
	JobStatusOpen   = "open"
	JobStatusClosed = "closed"
)

// Employer is an account that posts jobs
type Employer struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Never serialize to JSON
	CompanyName  string    `json:"company_name"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Employee is a job seeker account
type Employee struct {
	ID           uuid.UUID   `json:"id"`
	Name         string      `json:"name"`
	Email        string      `json:"email"`
	PasswordHash string      `json:"-"` // Never serialize to JSON
	DOB          time.Time   `json:"dob"`
	Education    string      `json:"education"`
	Skills       StringArray `json:"skills"`
	Experience   int         `json:"experience"`
	Latitude     *float64    `json:"latitude"`
	Longitude    *float64    `json:"longitude"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}

// Job is a posting joined with its employer's display names
type Job struct {
	ID           uuid.UUID `json:"id"`
	EmployerID   uuid.UUID `json:"employer_id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Salary       string    `json:"salary"`
	TimeSlot     string    `json:"time_slot"`
	JobType      string    `json:"job_type"`
	Status       string    `json:"status"`
	Latitude     *float64  `json:"latitude"`
	Longitude    *float64  `json:"longitude"`
	CreatedAt    time.Time `json:"created_at"`
	EmployerName string    `json:"employer_name,omitempty"`
	CompanyName  string    `json:"company_name,omitempty"`
}

// NewJob holds the fields needed to insert a job
type NewJob struct {
	EmployerID  uuid.UUID
	Title       string
	Description string
	Salary      string
	TimeSlot    string
	JobType     string
	Latitude    *float64
	Longitude   *float64
}

// NewEmployee holds the fields needed to insert an employee
type NewEmployee struct {
	Name         string
	Email        string
	PasswordHash string
	DOB          time.Time
	Education    string
	Skills       []string
	Experience   int
	Latitude     *float64
	Longitude    *float64
}

// EmployeeUpdate holds the editable employee profile fields
type EmployeeUpdate struct {
	Name       string
	Education  string
	Skills     []string
	Experience int
	Latitude   *float64
	Longitude  *float64
}

// Application is an employee's application to a job
type Application struct {
	ID          uuid.UUID `json:"id"`
	JobID       uuid.UUID `json:"job_id"`
	EmployeeID  uuid.UUID `json:"employee_id"`
	CoverLetter string    `json:"cover_letter"`
	Status      string    `json:"status"`
	AppliedAt   time.Time `json:"applied_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// EmployerApplication is an application as listed to the employer, with the
// applicant's profile and the job title.
type EmployerApplication struct {
	Application
	JobTitle      string      `json:"job_title"`
	EmployeeName  string      `json:"employee_name"`
	EmployeeEmail string      `json:"employee_email"`
	Education     string      `json:"education"`
	Skills        StringArray `json:"skills"`
	Experience    int         `json:"experience"`
}

// EmployeeApplication is an application as listed to the applicant.
type EmployeeApplication struct {
	Application
	JobTitle    string `json:"job_title"`
	TimeSlot    string `json:"time_slot"`
	CompanyName string `json:"company_name"`
}

// ApplicationDetail is a single application with everything both sides see.
type ApplicationDetail struct {
	Application
	JobTitle      string      `json:"job_title"`
	JobEmployerID uuid.UUID   `json:"employer_id"`
	CompanyName   string      `json:"company_name"`
	EmployeeName  string      `json:"employee_name"`
	EmployeeEmail string      `json:"employee_email"`
	Education     string      `json:"education"`
	Skills        StringArray `json:"skills"`
	Experience    int         `json:"experience"`
	DOB           time.Time   `json:"dob"`
}

// StatusChange reports an application status transition.
type StatusChange struct {
	ApplicationID uuid.UUID `json:"application_id"`
	JobID         uuid.UUID `json:"job_id"`
	EmployeeID    uuid.UUID `json:"employee_id"`
	EmployerID    uuid.UUID `json:"employer_id"`
	OldStatus     string    `json:"old_status"`
	NewStatus     string    `json:"new_status"`
	ChangedAt     time.Time `json:"changed_at"`
}

// NearbyJob is an open job within a search radius.
type NearbyJob struct {
	Job
	DistanceKm float64 `json:"distance_km"`
}

// NearbyEmployee is a located employee within a search radius.
type NearbyEmployee struct {
	Employee
	DistanceKm float64 `json:"distance_km"`
}

// ChatMessage is one question/answer exchange with the career assistant.
type ChatMessage struct {
	ID         uuid.UUID `json:"id"`
	EmployeeID uuid.UUID `json:"employee_id"`
	Question   string    `json:"question"`
	Answer     string    `json:"answer"`
	CreatedAt  time.Time `json:"created_at"`
}

// StringArray handles JSONB string arrays
type StringArray []string

// Scan implements the Scanner interface for StringArray
func (a *StringArray) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*a = StringArray{}
		return nil
	case []byte:
		return json.Unmarshal(v, a)
	case string:
		return json.Unmarshal([]byte(v), a)
	default:
		return fmt.Errorf("cannot scan %T into StringArray", src)
	}
}

// Value implements the Valuer interface for StringArray
func (a StringArray) Value() (driver.Value, error) {
	if a == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]string(a))
}
