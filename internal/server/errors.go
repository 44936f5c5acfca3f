package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/jonathan/jobportal/internal/db"
)

// ErrEmailAlreadyExists indicates email is already registered
type ErrEmailAlreadyExists struct {
	UserType string
	Email    string
}

func (e *ErrEmailAlreadyExists) Error() string {
	return fmt.Sprintf("email already registered as %s: %s", e.UserType, e.Email)
}

// ErrInvalidCredentials indicates invalid login credentials
type ErrInvalidCredentials struct{}

func (e *ErrInvalidCredentials) Error() string {
	return "invalid email or password"
}

// ErrUserNotFound indicates user was not found
type ErrUserNotFound struct {
	UserType string
	UserID   uuid.UUID
}

func (e *ErrUserNotFound) Error() string {
	return fmt.Sprintf("%s not found: %s", e.UserType, e.UserID)
}

// ErrPasswordMismatch indicates current password is incorrect
type ErrPasswordMismatch struct{}

func (e *ErrPasswordMismatch) Error() string {
	return "current password is incorrect"
}

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// ErrForbidden indicates the caller may not act on the resource
type ErrForbidden struct {
	Reason string
}

func (e *ErrForbidden) Error() string {
	if e.Reason == "" {
		return "forbidden"
	}
	return "forbidden: " + e.Reason
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	switch err.(type) {
	case *ErrEmailAlreadyExists:
		return http.StatusConflict
	case *ErrInvalidCredentials, *ErrPasswordMismatch:
		return http.StatusUnauthorized
	case *ErrUserNotFound:
		return http.StatusNotFound
	case *ErrValidation:
		return http.StatusBadRequest
	case *ErrForbidden:
		return http.StatusForbidden
	}

	switch {
	case errors.Is(err, db.ErrJobNotFound),
		errors.Is(err, db.ErrEmployeeNotFound),
		errors.Is(err, db.ErrEmployerNotFound),
		errors.Is(err, db.ErrApplicationNotFound):
		return http.StatusNotFound
	case errors.Is(err, db.ErrJobClosed),
		errors.Is(err, db.ErrStatusLocked),
		errors.Is(err, db.ErrInvalidStatus),
		errors.Is(err, db.ErrUnderage):
		return http.StatusBadRequest
	case errors.Is(err, db.ErrAlreadyApplied), errors.Is(err, db.ErrEmailTaken):
		return http.StatusConflict
	case errors.Is(err, db.ErrNotJobOwner):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}
