package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const jobColumns = `j.id, j.employer_id, j.title, j.description, j.salary, j.time_slot, j.job_type,
	j.status, j.latitude, j.longitude, j.created_at, e.name, e.company_name`

const jobFrom = ` FROM jobs j JOIN employers e ON e.id = j.employer_id`

// haversineKm is the great-circle distance in kilometres between a row's
// coordinates (prefix p) and the parameters $1 (latitude) and $2 (longitude).
func haversineKm(p string) string {
	return fmt.Sprintf(`(6371 * 2 * ASIN(SQRT(
		POWER(SIN(RADIANS(%[1]s.latitude - $1) / 2), 2) +
		COS(RADIANS($1)) * COS(RADIANS(%[1]s.latitude)) *
		POWER(SIN(RADIANS(%[1]s.longitude - $2) / 2), 2))))`, p)
}

func scanJob(row pgx.Row, extra ...any) (*Job, error) {
	var j Job
	dest := []any{&j.ID, &j.EmployerID, &j.Title, &j.Description, &j.Salary, &j.TimeSlot, &j.JobType,
		&j.Status, &j.Latitude, &j.Longitude, &j.CreatedAt, &j.EmployerName, &j.CompanyName}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}
	return &j, nil
}

func collectJobs(rows pgx.Rows) ([]Job, error) {
	defer rows.Close()
	jobs := []Job{}
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan job: %w", err)
		}
		jobs = append(jobs, *j)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read jobs: %w", err)
	}
	return jobs, nil
}

// -----------------------------------------------------------------------------
// Job Methods
// -----------------------------------------------------------------------------

// CreateJob inserts an open job and returns it with employer names filled in
func (db *DB) CreateJob(ctx context.Context, in NewJob) (*Job, error) {
	var id uuid.UUID
	err := db.pool.QueryRow(ctx,
		`INSERT INTO jobs (employer_id, title, description, salary, time_slot, job_type, latitude, longitude)
		 VALUES ($1, $2, $3, $4, $5, COALESCE($6, 'Part-time'), $7, $8)
		 RETURNING id`,
		in.EmployerID, in.Title, in.Description, in.Salary, in.TimeSlot, nullIfEmpty(in.JobType),
		in.Latitude, in.Longitude,
	).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("failed to create job: %w", err)
	}
	return db.GetJob(ctx, id)
}

// GetJob retrieves a job by ID
func (db *DB) GetJob(ctx context.Context, id uuid.UUID) (*Job, error) {
	j, err := scanJob(db.pool.QueryRow(ctx, `SELECT `+jobColumns+jobFrom+` WHERE j.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get job: %w", err)
	}
	return j, nil
}

// ListOpenJobs returns open jobs, newest first
func (db *DB) ListOpenJobs(ctx context.Context) ([]Job, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT `+jobColumns+jobFrom+` WHERE j.status = 'open' ORDER BY j.created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}
	return collectJobs(rows)
}

// ListJobsByEmployer returns every job an employer posted, newest first
func (db *DB) ListJobsByEmployer(ctx context.Context, employerID uuid.UUID) ([]Job, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT `+jobColumns+jobFrom+` WHERE j.employer_id = $1 ORDER BY j.created_at DESC`, employerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list employer jobs: %w", err)
	}
	return collectJobs(rows)
}

// DeleteJob removes a job and its applications in one transaction. It returns
// the number of applications deleted.
func (db *DB) DeleteJob(ctx context.Context, jobID, employerID uuid.UUID) (int64, error) {
	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var owner uuid.UUID
	err = tx.QueryRow(ctx, `SELECT employer_id FROM jobs WHERE id = $1 FOR UPDATE`, jobID).Scan(&owner)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, ErrJobNotFound
		}
		return 0, fmt.Errorf("failed to load job: %w", err)
	}
	if owner != employerID {
		return 0, ErrNotJobOwner
	}

	result, err := tx.Exec(ctx, `DELETE FROM applications WHERE job_id = $1`, jobID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete applications: %w", err)
	}
	deleted := result.RowsAffected()

	if _, err := tx.Exec(ctx, `DELETE FROM jobs WHERE id = $1`, jobID); err != nil {
		return 0, fmt.Errorf("failed to delete job: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return deleted, nil
}

// -----------------------------------------------------------------------------
// Proximity Methods
// -----------------------------------------------------------------------------

// NearbyJobs returns located open jobs within radiusKm of (lat, lng), nearest first
func (db *DB) NearbyJobs(ctx context.Context, lat, lng, radiusKm float64) ([]NearbyJob, error) {
	dist := haversineKm("j")
	rows, err := db.pool.Query(ctx,
		`SELECT * FROM (
		   SELECT `+jobColumns+`, `+dist+` AS distance_km`+jobFrom+`
		   WHERE j.status = 'open' AND j.latitude IS NOT NULL AND j.longitude IS NOT NULL
		 ) nearby
		 WHERE distance_km <= $3
		 ORDER BY distance_km ASC`,
		lat, lng, radiusKm,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to find nearby jobs: %w", err)
	}
	defer rows.Close()

	out := []NearbyJob{}
	for rows.Next() {
		var n NearbyJob
		j, err := scanJob(rows, &n.DistanceKm)
		if err != nil {
			return nil, fmt.Errorf("failed to scan nearby job: %w", err)
		}
		n.Job = *j
		out = append(out, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to find nearby jobs: %w", err)
	}
	return out, nil
}

// NearbyEmployees returns located employees within radiusKm of (lat, lng), nearest first
func (db *DB) NearbyEmployees(ctx context.Context, lat, lng, radiusKm float64) ([]NearbyEmployee, error) {
	dist := haversineKm("p")
	rows, err := db.pool.Query(ctx,
		`SELECT * FROM (
		   SELECT `+employeeColumns+`, `+dist+` AS distance_km
		   FROM employees p
		   WHERE p.latitude IS NOT NULL AND p.longitude IS NOT NULL
		 ) nearby
		 WHERE distance_km <= $3
		 ORDER BY distance_km ASC`,
		lat, lng, radiusKm,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to find nearby employees: %w", err)
	}
	defer rows.Close()

	out := []NearbyEmployee{}
	for rows.Next() {
		var n NearbyEmployee
		e := &n.Employee
		if err := rows.Scan(&e.ID, &e.Name, &e.Email, &e.PasswordHash, &e.DOB, &e.Education, &e.Skills,
			&e.Experience, &e.Latitude, &e.Longitude, &e.CreatedAt, &e.UpdatedAt, &n.DistanceKm); err != nil {
			return nil, fmt.Errorf("failed to scan nearby employee: %w", err)
		}
		out = append(out, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to find nearby employees: %w", err)
	}
	return out, nil
}
