package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const applicationColumns = `a.id, a.job_id, a.employee_id, a.cover_letter, a.status, a.applied_at, a.updated_at`

func applicationDest(a *Application) []any {
	return []any{&a.ID, &a.JobID, &a.EmployeeID, &a.CoverLetter, &a.Status, &a.AppliedAt, &a.UpdatedAt}
}

// ValidApplicationStatus reports whether s is a known application status.
func ValidApplicationStatus(s string) bool {
	switch s {
	case "waiting", "accepted", "rejected":
		return true
	}
	return false
}

// -----------------------------------------------------------------------------
// Application Methods
// -----------------------------------------------------------------------------

// Apply records an employee's application to an open job. The job must exist
// and be open, and the employee may apply only once.
func (db *DB) Apply(ctx context.Context, jobID, employeeID uuid.UUID, coverLetter string) (*Application, error) {
	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var status string
	err = tx.QueryRow(ctx, `SELECT status FROM jobs WHERE id = $1`, jobID).Scan(&status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrJobNotFound
		}
		return nil, fmt.Errorf("failed to load job: %w", err)
	}
	if status != JobStatusOpen {
		return nil, ErrJobClosed
	}

	var exists bool
	if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM employees WHERE id = $1)`, employeeID).Scan(&exists); err != nil {
		return nil, fmt.Errorf("failed to load employee: %w", err)
	}
	if !exists {
		return nil, ErrEmployeeNotFound
	}

	var a Application
	err = tx.QueryRow(ctx,
		`INSERT INTO applications AS a (job_id, employee_id, cover_letter)
		 VALUES ($1, $2, $3)
		 RETURNING `+applicationColumns,
		jobID, employeeID, coverLetter,
	).Scan(applicationDest(&a)...)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrAlreadyApplied
		}
		return nil, fmt.Errorf("failed to create application: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return &a, nil
}

// UpdateApplicationStatus moves an application to status on behalf of the
// employer who owns the job. Accepted and rejected applications are locked.
func (db *DB) UpdateApplicationStatus(ctx context.Context, applicationID, employerID uuid.UUID, status string) (*StatusChange, error) {
	if !ValidApplicationStatus(status) {
		return nil, ErrInvalidStatus
	}

	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	change := StatusChange{ApplicationID: applicationID, NewStatus: status}
	err = tx.QueryRow(ctx,
		`SELECT a.status, a.job_id, a.employee_id, j.employer_id
		 FROM applications a JOIN jobs j ON j.id = a.job_id
		 WHERE a.id = $1
		 FOR UPDATE OF a`,
		applicationID,
	).Scan(&change.OldStatus, &change.JobID, &change.EmployeeID, &change.EmployerID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrApplicationNotFound
		}
		return nil, fmt.Errorf("failed to load application: %w", err)
	}
	if change.EmployerID != employerID {
		return nil, ErrNotJobOwner
	}
	if change.OldStatus == "accepted" || change.OldStatus == "rejected" {
		return nil, ErrStatusLocked
	}

	err = tx.QueryRow(ctx,
		`UPDATE applications SET status = $2, updated_at = NOW() WHERE id = $1 RETURNING updated_at`,
		applicationID, status,
	).Scan(&change.ChangedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to update application status: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return &change, nil
}

// GetApplicationDetail retrieves an application with its job and applicant
func (db *DB) GetApplicationDetail(ctx context.Context, id uuid.UUID) (*ApplicationDetail, error) {
	var d ApplicationDetail
	dest := append(applicationDest(&d.Application),
		&d.JobTitle, &d.JobEmployerID, &d.CompanyName,
		&d.EmployeeName, &d.EmployeeEmail, &d.Education, &d.Skills, &d.Experience, &d.DOB)
	err := db.pool.QueryRow(ctx,
		`SELECT `+applicationColumns+`,
		        j.title, j.employer_id, er.company_name,
		        ee.name, ee.email, ee.education, ee.skills, ee.experience, ee.dob
		 FROM applications a
		 JOIN jobs j ON j.id = a.job_id
		 JOIN employers er ON er.id = j.employer_id
		 JOIN employees ee ON ee.id = a.employee_id
		 WHERE a.id = $1`,
		id,
	).Scan(dest...)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get application: %w", err)
	}
	return &d, nil
}

// ListApplicationsForEmployer lists applications to all of an employer's jobs, newest first
func (db *DB) ListApplicationsForEmployer(ctx context.Context, employerID uuid.UUID) ([]EmployerApplication, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT `+applicationColumns+`, j.title, ee.name, ee.email, ee.education, ee.skills, ee.experience
		 FROM applications a
		 JOIN jobs j ON j.id = a.job_id
		 JOIN employees ee ON ee.id = a.employee_id
		 WHERE j.employer_id = $1
		 ORDER BY a.applied_at DESC`,
		employerID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list employer applications: %w", err)
	}
	defer rows.Close()

	out := []EmployerApplication{}
	for rows.Next() {
		var ea EmployerApplication
		dest := append(applicationDest(&ea.Application),
			&ea.JobTitle, &ea.EmployeeName, &ea.EmployeeEmail, &ea.Education, &ea.Skills, &ea.Experience)
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("failed to scan application: %w", err)
		}
		out = append(out, ea)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list employer applications: %w", err)
	}
	return out, nil
}

// ListApplicationsForEmployee lists an employee's applications, newest first
func (db *DB) ListApplicationsForEmployee(ctx context.Context, employeeID uuid.UUID) ([]EmployeeApplication, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT `+applicationColumns+`, j.title, j.time_slot, er.company_name
		 FROM applications a
		 JOIN jobs j ON j.id = a.job_id
		 JOIN employers er ON er.id = j.employer_id
		 WHERE a.employee_id = $1
		 ORDER BY a.applied_at DESC`,
		employeeID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list employee applications: %w", err)
	}
	defer rows.Close()

	out := []EmployeeApplication{}
	for rows.Next() {
		var ea EmployeeApplication
		dest := append(applicationDest(&ea.Application), &ea.JobTitle, &ea.TimeSlot, &ea.CompanyName)
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("failed to scan application: %w", err)
		}
		out = append(out, ea)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list employee applications: %w", err)
	}
	return out, nil
}
