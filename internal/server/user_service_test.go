package server

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/jobportal/internal/config"
	"github.com/jonathan/jobportal/internal/db"
	"github.com/jonathan/jobportal/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestUserService(store AccountStore) *UserService {
	svc := NewUserService(store, &config.PasswordConfig{BcryptCost: bcrypt.MinCost})
	svc.now = func() time.Time { return testNow }
	return svc
}

func TestUserService_Register_AgeBoundary(t *testing.T) {
	tests := []struct {
		name    string
		dob     string
		wantErr error
	}{
		{"turns eighteen today", "2006-06-01", nil},
		{"turns eighteen tomorrow", "2006-06-02", db.ErrUnderage},
		{"well over", "1980-12-31", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestUserService(newMockStore())

			_, err := svc.Register(context.Background(), &types.RegisterRequest{
				UserType:  types.UserTypeEmployee,
				Name:      "Jamie",
				Email:     "jamie@example.com",
				Password:  testPassword,
				DOB:       tt.dob,
				Education: "High school",
			})

			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestUserService_Register_HashesPassword(t *testing.T) {
	store := newMockStore()
	svc := newTestUserService(store)

	user, err := svc.Register(context.Background(), &types.RegisterRequest{
		UserType:    types.UserTypeEmployer,
		Name:        "Dana",
		Email:       "dana@example.com",
		Password:    testPassword,
		CompanyName: "Corner Cafe",
	})
	require.NoError(t, err)

	stored := store.employers[user.ID]
	require.NotNil(t, stored)
	assert.NotEqual(t, testPassword, stored.PasswordHash)
	assert.True(t, svc.passwordConfig.VerifyPassword(testPassword, stored.PasswordHash))
}

func TestUserService_Register_DuplicateEmail(t *testing.T) {
	svc := newTestUserService(newMockStore())
	req := &types.RegisterRequest{
		UserType: types.UserTypeEmployer, Name: "Dana", Email: "dana@example.com",
		Password: testPassword, CompanyName: "Corner Cafe",
	}

	_, err := svc.Register(context.Background(), req)
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), req)
	var exists *ErrEmailAlreadyExists
	require.ErrorAs(t, err, &exists)
	assert.Equal(t, types.UserTypeEmployer, exists.UserType)
}

// racingStore loses the email check race: lookups see nothing, inserts hit the
// unique index.
type racingStore struct{ *mockStore }

func (racingStore) GetEmployerByEmail(context.Context, string) (*db.Employer, error) { return nil, nil }

func (racingStore) CreateEmployer(context.Context, string, string, string, string) (*db.Employer, error) {
	return nil, db.ErrEmailTaken
}

func TestUserService_Register_UniqueIndexRace(t *testing.T) {
	svc := newTestUserService(racingStore{newMockStore()})

	_, err := svc.Register(context.Background(), &types.RegisterRequest{
		UserType: types.UserTypeEmployer, Name: "Dana", Email: "dana@example.com",
		Password: testPassword, CompanyName: "Corner Cafe",
	})

	var exists *ErrEmailAlreadyExists
	assert.ErrorAs(t, err, &exists)
}

func TestUserService_Login_StoreError(t *testing.T) {
	store := newMockStore()
	store.err = errors.New("connection reset")
	svc := newTestUserService(store)

	_, err := svc.Login(context.Background(), &types.LoginRequest{
		UserType: types.UserTypeEmployee, Email: "jamie@example.com", Password: testPassword,
	})

	require.Error(t, err)
	assert.Equal(t, 500, HTTPStatus(err))
}

func TestUserService_UpdatePassword_UnknownType(t *testing.T) {
	svc := newTestUserService(newMockStore())

	err := svc.UpdatePassword(context.Background(), "admin", uuid.New(), testPassword, "new-secret-1")

	var validation *ErrValidation
	assert.ErrorAs(t, err, &validation)
}

func TestEmployeeToUser(t *testing.T) {
	assert.Nil(t, employeeToUser(nil))
	assert.Nil(t, employerToUser(nil))

	lat, lng := 40.7, -74.0
	user := employeeToUser(&db.Employee{
		ID:           uuid.New(),
		Name:         "Jamie",
		Email:        "jamie@example.com",
		PasswordHash: "hash",
		Skills:       db.StringArray{"go"},
		Latitude:     &lat,
		Longitude:    &lng,
	})
	assert.Equal(t, types.UserTypeEmployee, user.UserType)
	assert.Equal(t, []string{"go"}, user.Skills)
	assert.Equal(t, &lat, user.Latitude)
}
