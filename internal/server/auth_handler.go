package server

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/jonathan/jobportal/internal/server/middleware"
	"github.com/jonathan/jobportal/internal/types"
)

// AuthHandler handles authentication-related HTTP requests.
type AuthHandler struct {
	userService *UserService
	jwtService  *JWTService
	validator   *validator.Validate
}

// NewAuthHandler creates a new AuthHandler with the given dependencies.
func NewAuthHandler(userService *UserService, jwtService *JWTService) *AuthHandler {
	return &AuthHandler{
		userService: userService,
		jwtService:  jwtService,
		validator:   validator.New(),
	}
}

// Register handles account registration requests.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req types.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, extractValidationErrors(err))
		return
	}

	user, err := h.userService.Register(r.Context(), &req)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	h.issueToken(w, http.StatusCreated, user)
}

// Login handles login requests.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req types.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, extractValidationErrors(err))
		return
	}

	user, err := h.userService.Login(r.Context(), &req)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	h.issueToken(w, http.StatusOK, user)
}

func (h *AuthHandler) issueToken(w http.ResponseWriter, status int, user *types.User) {
	token, err := h.jwtService.GenerateToken(user.ID, user.UserType)
	if err != nil {
		log.Printf("[auth] failed to generate token for %s %s: %v", user.UserType, user.ID, err)
		writeError(w, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	writeJSON(w, status, types.LoginResponse{
		User:  user,
		Token: token,
	})
}

// UpdatePassword changes the password of the account named in the path. The
// caller must be that account.
func (h *AuthHandler) UpdatePassword(w http.ResponseWriter, r *http.Request, userType string) {
	userID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid user ID")
		return
	}
	if err := requireSelf(r, userType, userID); err != nil {
		writeServiceError(w, err)
		return
	}

	var req types.UpdatePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, extractValidationErrors(err))
		return
	}

	if err := h.userService.UpdatePassword(r.Context(), userType, userID, req.CurrentPassword, req.NewPassword); err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "success",
		"message": "Password updated successfully",
	})
}

// requireSelf checks that the authenticated account is userType/userID.
func requireSelf(r *http.Request, userType string, userID uuid.UUID) error {
	callerID, err := middleware.GetUserID(r)
	if err != nil {
		return &ErrInvalidCredentials{}
	}
	callerType, err := middleware.GetUserType(r)
	if err != nil {
		return &ErrInvalidCredentials{}
	}
	if callerType != userType || callerID != userID {
		return &ErrForbidden{Reason: fmt.Sprintf("only the %s can do this", userType)}
	}
	return nil
}

// requireUserType returns the authenticated account's ID if it is of userType.
func requireUserType(r *http.Request, userType string) (uuid.UUID, error) {
	callerID, err := middleware.GetUserID(r)
	if err != nil {
		return uuid.Nil, &ErrInvalidCredentials{}
	}
	callerType, err := middleware.GetUserType(r)
	if err != nil {
		return uuid.Nil, &ErrInvalidCredentials{}
	}
	if callerType != userType {
		return uuid.Nil, &ErrForbidden{Reason: userType + " account required"}
	}
	return callerID, nil
}

// writeServiceError maps err to a status code. Internal errors are logged and
// hidden from the client.
func writeServiceError(w http.ResponseWriter, err error) {
	status := HTTPStatus(err)
	if status == http.StatusInternalServerError {
		log.Printf("[server] internal error: %v", err)
		writeError(w, status, "Internal server error")
		return
	}
	writeError(w, status, err.Error())
}

// extractValidationErrors extracts validation error messages from validator errors.
func extractValidationErrors(err error) string {
	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		if len(validationErrors) > 0 {
			// Return first validation error for simplicity
			ve := validationErrors[0]
			return fmt.Sprintf("validation error: %s - %s", ve.Field(), ve.Tag())
		}
	}
	return "validation error: invalid request"
}
