package server

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/jobportal/internal/config"
	"github.com/jonathan/jobportal/internal/db"
	"github.com/jonathan/jobportal/internal/types"
)

// UserService provides business logic for account registration, login and
// password changes across both account tables.
type UserService struct {
	db             AccountStore
	passwordConfig *config.PasswordConfig
	now            func() time.Time
}

// NewUserService creates a new UserService with the given dependencies
func NewUserService(store AccountStore, passwordConfig *config.PasswordConfig) *UserService {
	return &UserService{
		db:             store,
		passwordConfig: passwordConfig,
		now:            time.Now,
	}
}

// employerToUser converts db.Employer to types.User, excluding password hash
func employerToUser(e *db.Employer) *types.User {
	if e == nil {
		return nil
	}
	return &types.User{
		ID:          e.ID,
		UserType:    types.UserTypeEmployer,
		Name:        e.Name,
		Email:       e.Email,
		CompanyName: e.CompanyName,
		CreatedAt:   e.CreatedAt,
	}
}

// employeeToUser converts db.Employee to types.User, excluding password hash
func employeeToUser(e *db.Employee) *types.User {
	if e == nil {
		return nil
	}
	return &types.User{
		ID:         e.ID,
		UserType:   types.UserTypeEmployee,
		Name:       e.Name,
		Email:      e.Email,
		Education:  e.Education,
		Skills:     []string(e.Skills),
		Experience: e.Experience,
		Latitude:   e.Latitude,
		Longitude:  e.Longitude,
		CreatedAt:  e.CreatedAt,
	}
}

// Register creates a new employer or employee with password authentication
func (s *UserService) Register(ctx context.Context, req *types.RegisterRequest) (*types.User, error) {
	if (req.Latitude == nil) != (req.Longitude == nil) {
		return nil, &ErrValidation{Field: "latitude", Message: "latitude and longitude must be given together"}
	}

	var dob time.Time
	if req.UserType == types.UserTypeEmployee {
		var err error
		dob, err = time.Parse(types.DateLayout, req.DOB)
		if err != nil {
			return nil, &ErrValidation{Field: "dob", Message: "must be a date in YYYY-MM-DD format"}
		}
		if types.AgeOn(dob, s.now()) < types.MinimumEmployeeAge {
			return nil, db.ErrUnderage
		}
	}

	taken, err := s.emailTaken(ctx, req.UserType, req.Email)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, &ErrEmailAlreadyExists{UserType: req.UserType, Email: req.Email}
	}

	passwordHash, err := s.passwordConfig.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	var user *types.User
	switch req.UserType {
	case types.UserTypeEmployer:
		var e *db.Employer
		e, err = s.db.CreateEmployer(ctx, req.Name, req.Email, passwordHash, req.CompanyName)
		user = employerToUser(e)
	case types.UserTypeEmployee:
		var e *db.Employee
		e, err = s.db.CreateEmployee(ctx, db.NewEmployee{
			Name:         req.Name,
			Email:        req.Email,
			PasswordHash: passwordHash,
			DOB:          dob,
			Education:    req.Education,
			Skills:       req.Skills,
			Experience:   req.Experience,
			Latitude:     req.Latitude,
			Longitude:    req.Longitude,
		})
		user = employeeToUser(e)
	default:
		return nil, &ErrValidation{Field: "user_type", Message: "must be employer or employee"}
	}
	if err != nil {
		// A concurrent registration can still win the unique index.
		if errors.Is(err, db.ErrEmailTaken) {
			return nil, &ErrEmailAlreadyExists{UserType: req.UserType, Email: req.Email}
		}
		return nil, fmt.Errorf("failed to create %s: %w", req.UserType, err)
	}

	return user, nil
}

func (s *UserService) emailTaken(ctx context.Context, userType, email string) (bool, error) {
	switch userType {
	case types.UserTypeEmployer:
		e, err := s.db.GetEmployerByEmail(ctx, email)
		if err != nil {
			return false, fmt.Errorf("failed to check email existence: %w", err)
		}
		return e != nil, nil
	case types.UserTypeEmployee:
		e, err := s.db.GetEmployeeByEmail(ctx, email)
		if err != nil {
			return false, fmt.Errorf("failed to check email existence: %w", err)
		}
		return e != nil, nil
	default:
		return false, &ErrValidation{Field: "user_type", Message: "must be employer or employee"}
	}
}

// Login authenticates an account and returns its data
func (s *UserService) Login(ctx context.Context, req *types.LoginRequest) (*types.User, error) {
	var (
		user *types.User
		hash string
	)

	switch req.UserType {
	case types.UserTypeEmployer:
		e, err := s.db.GetEmployerByEmail(ctx, req.Email)
		if err != nil {
			return nil, fmt.Errorf("failed to get employer by email: %w", err)
		}
		if e != nil {
			user, hash = employerToUser(e), e.PasswordHash
		}
	case types.UserTypeEmployee:
		e, err := s.db.GetEmployeeByEmail(ctx, req.Email)
		if err != nil {
			return nil, fmt.Errorf("failed to get employee by email: %w", err)
		}
		if e != nil {
			user, hash = employeeToUser(e), e.PasswordHash
		}
	}

	// Security: Always return generic error if user not found or password wrong
	if user == nil || hash == "" {
		return nil, &ErrInvalidCredentials{}
	}
	if !s.passwordConfig.VerifyPassword(req.Password, hash) {
		return nil, &ErrInvalidCredentials{}
	}

	return user, nil
}

// UpdatePassword updates an account's password after checking the current one
func (s *UserService) UpdatePassword(ctx context.Context, userType string, userID uuid.UUID, currentPassword, newPassword string) error {
	var hash string
	switch userType {
	case types.UserTypeEmployer:
		e, err := s.db.GetEmployer(ctx, userID)
		if err != nil {
			return fmt.Errorf("failed to get employer: %w", err)
		}
		if e != nil {
			hash = e.PasswordHash
		}
	case types.UserTypeEmployee:
		e, err := s.db.GetEmployee(ctx, userID)
		if err != nil {
			return fmt.Errorf("failed to get employee: %w", err)
		}
		if e != nil {
			hash = e.PasswordHash
		}
	default:
		return &ErrValidation{Field: "user_type", Message: "must be employer or employee"}
	}
	if hash == "" {
		return &ErrUserNotFound{UserType: userType, UserID: userID}
	}

	if !s.passwordConfig.VerifyPassword(currentPassword, hash) {
		return &ErrPasswordMismatch{}
	}

	newPasswordHash, err := s.passwordConfig.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash new password: %w", err)
	}

	if err := s.db.UpdatePassword(ctx, userType, userID, newPasswordHash); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	return nil
}
