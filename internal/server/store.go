// Package server provides the HTTP REST API for the job portal.
package server

import (
	"context"

	"github.com/google/uuid"
	"github.com/jonathan/jobportal/internal/db"
)

// AccountStore persists employer and employee accounts.
type AccountStore interface {
	CreateEmployer(ctx context.Context, name, email, passwordHash, companyName string) (*db.Employer, error)
	GetEmployer(ctx context.Context, id uuid.UUID) (*db.Employer, error)
	GetEmployerByEmail(ctx context.Context, email string) (*db.Employer, error)
	UpdateEmployer(ctx context.Context, id uuid.UUID, name, companyName string) (*db.Employer, error)

	CreateEmployee(ctx context.Context, in db.NewEmployee) (*db.Employee, error)
	GetEmployee(ctx context.Context, id uuid.UUID) (*db.Employee, error)
	GetEmployeeByEmail(ctx context.Context, email string) (*db.Employee, error)
	UpdateEmployee(ctx context.Context, id uuid.UUID, in db.EmployeeUpdate) (*db.Employee, error)
	ListEmployees(ctx context.Context) ([]db.Employee, error)

	UpdatePassword(ctx context.Context, userType string, id uuid.UUID, passwordHash string) error
}

// JobStore persists job postings.
type JobStore interface {
	CreateJob(ctx context.Context, in db.NewJob) (*db.Job, error)
	GetJob(ctx context.Context, id uuid.UUID) (*db.Job, error)
	ListOpenJobs(ctx context.Context) ([]db.Job, error)
	ListJobsByEmployer(ctx context.Context, employerID uuid.UUID) ([]db.Job, error)
	DeleteJob(ctx context.Context, jobID, employerID uuid.UUID) (int64, error)
	NearbyJobs(ctx context.Context, lat, lng, radiusKm float64) ([]db.NearbyJob, error)
	NearbyEmployees(ctx context.Context, lat, lng, radiusKm float64) ([]db.NearbyEmployee, error)
}

// ApplicationStore persists job applications.
type ApplicationStore interface {
	Apply(ctx context.Context, jobID, employeeID uuid.UUID, coverLetter string) (*db.Application, error)
	UpdateApplicationStatus(ctx context.Context, applicationID, employerID uuid.UUID, status string) (*db.StatusChange, error)
	GetApplicationDetail(ctx context.Context, id uuid.UUID) (*db.ApplicationDetail, error)
	ListApplicationsForEmployer(ctx context.Context, employerID uuid.UUID) ([]db.EmployerApplication, error)
	ListApplicationsForEmployee(ctx context.Context, employeeID uuid.UUID) ([]db.EmployeeApplication, error)
}

// ChatStore persists career assistant exchanges.
type ChatStore interface {
	SaveChat(ctx context.Context, employeeID uuid.UUID, question, answer string) (*db.ChatMessage, error)
	ChatHistory(ctx context.Context, employeeID uuid.UUID, limit int) ([]db.ChatMessage, error)
}

// Store is everything the handlers need from the database. *db.DB implements it.
type Store interface {
	AccountStore
	JobStore
	ApplicationStore
	ChatStore
	Ping(ctx context.Context) error
	SchemaReady(ctx context.Context) ([]string, error)
	Close()
}

var _ Store = (*db.DB)(nil)
