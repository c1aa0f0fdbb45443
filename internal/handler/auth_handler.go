package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/budgeteer/budgeteer-backend/internal/domain"
	"github.com/budgeteer/budgeteer-backend/internal/middleware"
	"github.com/budgeteer/budgeteer-backend/internal/service"
)

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	authService    *service.AuthService
	authMiddleware *middleware.AuthMiddleware
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authService *service.AuthService, authMiddleware *middleware.AuthMiddleware) *AuthHandler {
	return &AuthHandler{
		authService:    authService,
		authMiddleware: authMiddleware,
	}
}

// SignupRequest represents the signup request body
type SignupRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginRequest represents the login request body
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// AuthResponse represents a successful authentication response
type AuthResponse struct {
	Token    string `json:"token"`
	Username string `json:"username"`
}

// Signup handles POST /api/v1/auth/signup
func (h *AuthHandler) Signup(c echo.Context) error {
	var req SignupRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	user, err := h.authService.Signup(req.Username, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrAlreadyExists) {
			return NewConflictError(c, "Username is already taken")
		}
		if errors.Is(err, domain.ErrInvalidInput) || errors.Is(err, domain.ErrNameRequired) || errors.Is(err, domain.ErrNameTooLong) {
			return NewValidationError(c, err.Error(), nil)
		}
		log.Error().Err(err).Msg("Failed to sign up user")
		return NewInternalError(c, "Failed to sign up")
	}

	token, err := h.authMiddleware.GenerateToken(user.Username)
	if err != nil {
		log.Error().Err(err).Str("username", user.Username).Msg("Failed to issue token")
		return NewInternalError(c, "Failed to issue token")
	}

	log.Info().Str("username", user.Username).Msg("User signed up")

	return c.JSON(http.StatusCreated, AuthResponse{
		Token:    token,
		Username: user.Username,
	})
}

// Login handles POST /api/v1/auth/login
func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	user, err := h.authService.Login(req.Username, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrUnauthorized) {
			return NewUnauthorizedError(c, "Invalid username or password")
		}
		log.Error().Err(err).Msg("Failed to log in user")
		return NewInternalError(c, "Failed to log in")
	}

	token, err := h.authMiddleware.GenerateToken(user.Username)
	if err != nil {
		log.Error().Err(err).Str("username", user.Username).Msg("Failed to issue token")
		return NewInternalError(c, "Failed to issue token")
	}

	log.Info().Str("username", user.Username).Msg("User logged in")

	return c.JSON(http.StatusOK, AuthResponse{
		Token:    token,
		Username: user.Username,
	})
}
