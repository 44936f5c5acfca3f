package server

import (
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/jonathan/jobportal/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func employeeRegistration(email string) map[string]any {
	return map[string]any{
		"user_type":  "employee",
		"name":       "Jamie Rivera",
		"email":      email,
		"password":   testPassword,
		"dob":        "2001-03-04",
		"education":  "High school",
		"skills":     []string{"cashier", "inventory"},
		"experience": 1,
		"latitude":   40.7686,
		"longitude":  -74.0423,
	}
}

func TestRegister_Employer(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodPost, "/api/register", map[string]any{
		"user_type":    "employer",
		"name":         "Dana Park",
		"email":        "Dana@Example.com",
		"password":     testPassword,
		"company_name": "Corner Cafe",
	}, "")

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	body := decodeResponse(t, rec)
	assert.NotEmpty(t, body["token"])

	user := body["user"].(map[string]any)
	assert.Equal(t, "employer", user["user_type"])
	assert.Equal(t, "dana@example.com", user["email"])
	assert.Equal(t, "Corner Cafe", user["company_name"])
	assert.NotContains(t, rec.Body.String(), "password")

	claims, err := ts.jwtService.ValidateToken(body["token"].(string))
	require.NoError(t, err)
	assert.Equal(t, user["id"], claims.UserID.String())
	assert.Equal(t, "employer", claims.UserType)
}

func TestRegister_Employee(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodPost, "/api/register", employeeRegistration("jamie@example.com"), "")

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	user := decodeResponse(t, rec)["user"].(map[string]any)
	assert.Equal(t, "employee", user["user_type"])
	assert.Equal(t, []any{"cashier", "inventory"}, user["skills"])
	assert.InDelta(t, 40.7686, user["latitude"], 1e-9)
}

func TestRegister_Errors(t *testing.T) {
	tests := []struct {
		name       string
		body       any
		wantStatus int
		wantError  string
	}{
		{
			name:       "invalid json",
			body:       "{not json",
			wantStatus: http.StatusBadRequest,
			wantError:  "Invalid request body",
		},
		{
			name: "employer without company",
			body: map[string]any{
				"user_type": "employer", "name": "Dana", "email": "dana@example.com", "password": testPassword,
			},
			wantStatus: http.StatusBadRequest,
			wantError:  "validation error: CompanyName - required_if",
		},
		{
			name: "unknown user type",
			body: map[string]any{
				"user_type": "admin", "name": "Dana", "email": "dana@example.com", "password": testPassword,
			},
			wantStatus: http.StatusBadRequest,
			wantError:  "validation error: UserType - oneof",
		},
		{
			name: "short password",
			body: map[string]any{
				"user_type": "employer", "name": "Dana", "email": "dana@example.com", "password": "abc", "company_name": "Cafe",
			},
			wantStatus: http.StatusBadRequest,
			wantError:  "validation error: Password - min",
		},
		{
			name: "underage employee",
			body: func() map[string]any {
				b := employeeRegistration("kid@example.com")
				b["dob"] = "2010-01-01"
				return b
			}(),
			wantStatus: http.StatusBadRequest,
			wantError:  "employee must be at least 18 years old",
		},
		{
			name: "bad date of birth",
			body: func() map[string]any {
				b := employeeRegistration("date@example.com")
				b["dob"] = "04/03/2001"
				return b
			}(),
			wantStatus: http.StatusBadRequest,
			wantError:  "validation error: dob - must be a date in YYYY-MM-DD format",
		},
		{
			name: "latitude without longitude",
			body: func() map[string]any {
				b := employeeRegistration("half@example.com")
				delete(b, "longitude")
				return b
			}(),
			wantStatus: http.StatusBadRequest,
			wantError:  "validation error: latitude - latitude and longitude must be given together",
		},
		{
			name: "latitude out of range",
			body: func() map[string]any {
				b := employeeRegistration("range@example.com")
				b["latitude"] = 123.0
				return b
			}(),
			wantStatus: http.StatusBadRequest,
			wantError:  "validation error: Latitude - latitude",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestServer(t)

			rec := ts.do(t, http.MethodPost, "/api/register", tt.body, "")

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantError, decodeResponse(t, rec)["error"])
		})
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	ts := newTestServer(t)

	first := ts.do(t, http.MethodPost, "/api/register", employeeRegistration("jamie@example.com"), "")
	require.Equal(t, http.StatusCreated, first.Code)

	second := ts.do(t, http.MethodPost, "/api/register", employeeRegistration("JAMIE@example.com"), "")
	assert.Equal(t, http.StatusConflict, second.Code)

	// The same address may still open an employer account.
	employer := ts.do(t, http.MethodPost, "/api/register", map[string]any{
		"user_type": "employer", "name": "Jamie", "email": "jamie@example.com",
		"password": testPassword, "company_name": "Jamie's Bakery",
	}, "")
	assert.Equal(t, http.StatusCreated, employer.Code)
}

func TestLogin(t *testing.T) {
	ts := newTestServer(t)
	employer := ts.addEmployer(t, "owner@example.com", "Corner Cafe")

	tests := []struct {
		name       string
		body       map[string]any
		wantStatus int
	}{
		{
			name:       "valid credentials",
			body:       map[string]any{"user_type": "employer", "email": "OWNER@example.com", "password": testPassword},
			wantStatus: http.StatusOK,
		},
		{
			name:       "wrong password",
			body:       map[string]any{"user_type": "employer", "email": "owner@example.com", "password": "nope-nope"},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "wrong account table",
			body:       map[string]any{"user_type": "employee", "email": "owner@example.com", "password": testPassword},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "unknown email",
			body:       map[string]any{"user_type": "employer", "email": "ghost@example.com", "password": testPassword},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "missing password",
			body:       map[string]any{"user_type": "employer", "email": "owner@example.com"},
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := ts.do(t, http.MethodPost, "/api/login", tt.body, "")
			require.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())

			body := decodeResponse(t, rec)
			switch tt.wantStatus {
			case http.StatusOK:
				assert.NotEmpty(t, body["token"])
				assert.Equal(t, employer.ID.String(), body["user"].(map[string]any)["id"])
			case http.StatusUnauthorized:
				assert.Equal(t, "invalid email or password", body["error"])
			}
		})
	}
}

func TestUpdatePassword(t *testing.T) {
	ts := newTestServer(t)
	employee := ts.addEmployee(t, "jamie@example.com", nil, nil)
	other := ts.addEmployee(t, "sam@example.com", nil, nil)
	token := ts.token(t, types.UserTypeEmployee, employee.ID)
	path := "/api/employees/" + employee.ID.String() + "/password"

	change := map[string]any{
		"current_password": testPassword,
		"new_password":     "new-secret-1",
		"confirm_password": "new-secret-1",
	}

	t.Run("other account is forbidden", func(t *testing.T) {
		rec := ts.do(t, http.MethodPut, "/api/employees/"+other.ID.String()+"/password", change, token)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("employer token on employee route is forbidden", func(t *testing.T) {
		rec := ts.do(t, http.MethodPut, path, change, ts.token(t, types.UserTypeEmployer, employee.ID))
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("confirmation mismatch", func(t *testing.T) {
		rec := ts.do(t, http.MethodPut, path, map[string]any{
			"current_password": testPassword,
			"new_password":     "new-secret-1",
			"confirm_password": "new-secret-2",
		}, token)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("wrong current password", func(t *testing.T) {
		rec := ts.do(t, http.MethodPut, path, map[string]any{
			"current_password": "not-it-at-all",
			"new_password":     "new-secret-1",
			"confirm_password": "new-secret-1",
		}, token)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("success", func(t *testing.T) {
		rec := ts.do(t, http.MethodPut, path, change, token)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Equal(t, "Password updated successfully", decodeResponse(t, rec)["message"])

		login := ts.do(t, http.MethodPost, "/api/login", map[string]any{
			"user_type": "employee", "email": "jamie@example.com", "password": "new-secret-1",
		}, "")
		assert.Equal(t, http.StatusOK, login.Code)
	})

	t.Run("invalid id", func(t *testing.T) {
		rec := ts.do(t, http.MethodPut, "/api/employees/not-a-uuid/password", change, token)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("deleted account", func(t *testing.T) {
		ghost := uuid.New()
		rec := ts.do(t, http.MethodPut, "/api/employees/"+ghost.String()+"/password", change,
			ts.token(t, types.UserTypeEmployee, ghost))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}
