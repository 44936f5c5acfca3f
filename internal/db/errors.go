package db

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// Domain rule violations reported by the store.
var (
	ErrJobNotFound         = errors.New("job not found")
	ErrJobClosed           = errors.New("job is no longer accepting applications")
	ErrAlreadyApplied      = errors.New("already applied to this job")
	ErrEmployeeNotFound    = errors.New("employee not found")
	ErrEmployerNotFound    = errors.New("employer not found")
	ErrApplicationNotFound = errors.New("application not found")
	ErrStatusLocked        = errors.New("application status can no longer be changed")
	ErrNotJobOwner         = errors.New("job belongs to another employer")
	ErrUnderage            = errors.New("employee must be at least 18 years old")
	ErrInvalidStatus       = errors.New("invalid application status")
	ErrEmailTaken          = errors.New("email already registered")
)

const uniqueViolation = "23505"

// isUniqueViolation reports whether err is a PostgreSQL unique constraint failure.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
