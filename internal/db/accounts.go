package db

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const employerColumns = `id, name, email, password_hash, company_name, created_at, updated_at`

const employeeColumns = `id, name, email, password_hash, dob, education, skills, experience,
	latitude, longitude, created_at, updated_at`

func scanEmployer(row pgx.Row) (*Employer, error) {
	var e Employer
	err := row.Scan(&e.ID, &e.Name, &e.Email, &e.PasswordHash, &e.CompanyName, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func scanEmployee(row pgx.Row) (*Employee, error) {
	var e Employee
	err := row.Scan(&e.ID, &e.Name, &e.Email, &e.PasswordHash, &e.DOB, &e.Education, &e.Skills,
		&e.Experience, &e.Latitude, &e.Longitude, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// normalizeEmail lowercases and trims an email so lookups are case-insensitive.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// -----------------------------------------------------------------------------
// Employer Methods
// -----------------------------------------------------------------------------

// CreateEmployer inserts a new employer. Returns ErrEmailTaken when the email is
// already registered as an employer.
func (db *DB) CreateEmployer(ctx context.Context, name, email, passwordHash, companyName string) (*Employer, error) {
	e, err := scanEmployer(db.pool.QueryRow(ctx,
		`INSERT INTO employers (name, email, password_hash, company_name)
		 VALUES ($1, $2, $3, $4)
		 RETURNING `+employerColumns,
		name, normalizeEmail(email), passwordHash, companyName,
	))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create employer: %w", err)
	}
	return e, nil
}

// GetEmployer retrieves an employer by ID
func (db *DB) GetEmployer(ctx context.Context, id uuid.UUID) (*Employer, error) {
	e, err := scanEmployer(db.pool.QueryRow(ctx,
		`SELECT `+employerColumns+` FROM employers WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get employer: %w", err)
	}
	return e, nil
}

// GetEmployerByEmail retrieves an employer by email
func (db *DB) GetEmployerByEmail(ctx context.Context, email string) (*Employer, error) {
	e, err := scanEmployer(db.pool.QueryRow(ctx,
		`SELECT `+employerColumns+` FROM employers WHERE email = $1`, normalizeEmail(email)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get employer by email: %w", err)
	}
	return e, nil
}

// UpdateEmployer updates an employer's name and company
func (db *DB) UpdateEmployer(ctx context.Context, id uuid.UUID, name, companyName string) (*Employer, error) {
	e, err := scanEmployer(db.pool.QueryRow(ctx,
		`UPDATE employers SET name = $2, company_name = $3, updated_at = NOW()
		 WHERE id = $1
		 RETURNING `+employerColumns,
		id, name, companyName,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrEmployerNotFound
		}
		return nil, fmt.Errorf("failed to update employer: %w", err)
	}
	return e, nil
}

// -----------------------------------------------------------------------------
// Employee Methods
// -----------------------------------------------------------------------------

// CreateEmployee inserts a new employee. Returns ErrEmailTaken when the email is
// already registered as an employee.
func (db *DB) CreateEmployee(ctx context.Context, in NewEmployee) (*Employee, error) {
	e, err := scanEmployee(db.pool.QueryRow(ctx,
		`INSERT INTO employees (name, email, password_hash, dob, education, skills, experience, latitude, longitude)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING `+employeeColumns,
		in.Name, normalizeEmail(in.Email), in.PasswordHash, in.DOB, in.Education,
		StringArray(in.Skills), in.Experience, in.Latitude, in.Longitude,
	))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create employee: %w", err)
	}
	return e, nil
}

// GetEmployee retrieves an employee by ID
func (db *DB) GetEmployee(ctx context.Context, id uuid.UUID) (*Employee, error) {
	e, err := scanEmployee(db.pool.QueryRow(ctx,
		`SELECT `+employeeColumns+` FROM employees WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get employee: %w", err)
	}
	return e, nil
}

// GetEmployeeByEmail retrieves an employee by email
func (db *DB) GetEmployeeByEmail(ctx context.Context, email string) (*Employee, error) {
	e, err := scanEmployee(db.pool.QueryRow(ctx,
		`SELECT `+employeeColumns+` FROM employees WHERE email = $1`, normalizeEmail(email)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get employee by email: %w", err)
	}
	return e, nil
}

// UpdateEmployee replaces the editable fields of an employee profile
func (db *DB) UpdateEmployee(ctx context.Context, id uuid.UUID, in EmployeeUpdate) (*Employee, error) {
	e, err := scanEmployee(db.pool.QueryRow(ctx,
		`UPDATE employees
		 SET name = $2, education = $3, skills = $4, experience = $5,
		     latitude = $6, longitude = $7, updated_at = NOW()
		 WHERE id = $1
		 RETURNING `+employeeColumns,
		id, in.Name, in.Education, StringArray(in.Skills), in.Experience, in.Latitude, in.Longitude,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrEmployeeNotFound
		}
		return nil, fmt.Errorf("failed to update employee: %w", err)
	}
	return e, nil
}

// ListEmployees returns every employee, located or not, newest first.
func (db *DB) ListEmployees(ctx context.Context) ([]Employee, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT `+employeeColumns+` FROM employees ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	defer rows.Close()

	employees := []Employee{}
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		employees = append(employees, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	return employees, nil
}

// -----------------------------------------------------------------------------
// Password Methods
// -----------------------------------------------------------------------------

// accountTable maps a user type to its table. Unknown types are rejected so the
// name never reaches SQL unchecked.
func accountTable(userType string) (string, error) {
	switch userType {
	case "employer":
		return "employers", nil
	case "employee":
		return "employees", nil
	default:
		return "", fmt.Errorf("unknown user type %q", userType)
	}
}

// UpdatePassword stores a new password hash for an employer or employee
func (db *DB) UpdatePassword(ctx context.Context, userType string, id uuid.UUID, passwordHash string) error {
	table, err := accountTable(userType)
	if err != nil {
		return err
	}
	result, err := db.pool.Exec(ctx,
		`UPDATE `+table+` SET password_hash = $2, updated_at = NOW() WHERE id = $1`,
		id, passwordHash,
	)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	if result.RowsAffected() == 0 {
		if userType == "employer" {
			return ErrEmployerNotFound
		}
		return ErrEmployeeNotFound
	}
	return nil
}
