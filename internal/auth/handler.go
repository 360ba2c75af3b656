package auth

import (
	"encoding/json"
	"errors"
	"net/http"

	"taskhub/internal/httputil"
	"taskhub/internal/logging"
	"taskhub/internal/user"
)

// Handler contains HTTP handlers for authentication endpoints
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// SignupRequest represents the signup request body
type SignupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// LoginRequest represents the login request body
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UserResponse represents a user in API responses
type UserResponse struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// AuthResponse represents the signup and login response bodies
type AuthResponse struct {
	Message string       `json:"message"`
	Token   string       `json:"token"`
	User    UserResponse `json:"user"`
}

// Signup handles user registration
// @Summary      Sign up
// @Description  Create a new account and receive a bearer token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body SignupRequest true "Signup credentials"
// @Success      201 {object} AuthResponse
// @Failure      400 {object} httputil.ErrorResponse "Validation error or email already in use"
// @Failure      500 {object} httputil.ErrorResponse "Internal server error"
// @Router       /auth/signup [post]
func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	var req SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid signup request body", "error", err.Error())
		httputil.RespondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	token, newUser, err := h.service.Signup(r.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		if errors.Is(err, user.ErrDuplicateEmail) {
			logger.Warn("signup failed: email already in use", "email", req.Email)
			httputil.RespondError(w, "Email already in use", http.StatusBadRequest)
			return
		}
		if msg, ok := validationMessage(err); ok {
			logger.Warn("signup failed: validation error", "error", err.Error())
			httputil.RespondError(w, msg, http.StatusBadRequest)
			return
		}
		logger.Error("signup failed: internal error", "error", err.Error())
		httputil.RespondError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	logger.Info("user created", "user_id", newUser.ID)

	httputil.RespondJSON(w, AuthResponse{
		Message: "User created successfully",
		Token:   token,
		User:    toUserResponse(newUser),
	}, http.StatusCreated)
}

// Login handles user login
// @Summary      Log in
// @Description  Authenticate with email and password and receive a bearer token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body LoginRequest true "Login credentials"
// @Success      200 {object} AuthResponse
// @Failure      400 {object} httputil.ErrorResponse "Validation error"
// @Failure      401 {object} httputil.ErrorResponse "Invalid credentials"
// @Failure      500 {object} httputil.ErrorResponse "Internal server error"
// @Router       /auth/login [post]
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid login request body", "error", err.Error())
		httputil.RespondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	token, existing, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			// Same message whether the email is unknown or the password is
			// wrong.
			logger.Warn("login failed: invalid credentials")
			httputil.RespondError(w, "Invalid email or password", http.StatusUnauthorized)
			return
		}
		if msg, ok := validationMessage(err); ok {
			logger.Warn("login failed: validation error", "error", err.Error())
			httputil.RespondError(w, msg, http.StatusBadRequest)
			return
		}
		logger.Error("login failed: internal error", "error", err.Error())
		httputil.RespondError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	logger.Info("user logged in", "user_id", existing.ID)

	httputil.RespondJSON(w, AuthResponse{
		Message: "Login successful",
		Token:   token,
		User:    toUserResponse(existing),
	}, http.StatusOK)
}

// Me returns the authenticated user
// @Summary      Current user
// @Description  Return the user bound to the presented bearer token
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} UserResponse
// @Failure      401 {object} httputil.ErrorResponse "Missing or invalid token"
// @Failure      404 {object} httputil.ErrorResponse "User no longer exists"
// @Router       /auth/me [get]
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		httputil.RespondError(w, "Missing or invalid authorization token", http.StatusUnauthorized)
		return
	}

	u, err := h.service.CurrentUser(r.Context(), userID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			// Valid token, but the user was deleted out of band.
			logger.Warn("current user lookup failed: user not found", "user_id", userID)
			httputil.RespondError(w, "User not found", http.StatusNotFound)
			return
		}
		logger.Error("current user lookup failed: internal error", "error", err.Error())
		httputil.RespondError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	httputil.RespondJSON(w, toUserResponse(u), http.StatusOK)
}

// validationMessage maps validation failures to the client-facing field
// messages the wire contract fixes.
func validationMessage(err error) (string, bool) {
	switch {
	case errors.Is(err, ErrEmailRequired):
		return "Email is required", true
	case errors.Is(err, ErrInvalidEmail):
		return "Invalid email address", true
	case errors.Is(err, ErrPasswordRequired):
		return "Password is required", true
	case errors.Is(err, ErrPasswordTooShort):
		return "Password must be at least 6 characters", true
	case errors.Is(err, ErrNameRequired):
		return "Name is required", true
	}
	return "", false
}

func toUserResponse(u *user.User) UserResponse {
	return UserResponse{ID: u.ID, Email: u.Email, Name: u.Name}
}
