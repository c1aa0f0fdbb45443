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

// AccountHandler handles account-related HTTP requests
type AccountHandler struct {
	accountService *service.AccountService
}

// NewAccountHandler creates a new AccountHandler
func NewAccountHandler(accountService *service.AccountService) *AccountHandler {
	return &AccountHandler{accountService: accountService}
}

// AccountRequest represents the create/rename account request body
type AccountRequest struct {
	Name string `json:"name"`
}

// AccountResponse represents an account in API responses
type AccountResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func toAccountResponse(account *domain.Account) AccountResponse {
	return AccountResponse{
		ID:   account.ID.String(),
		Name: account.Name,
	}
}

// CreateAccount handles POST /api/v1/accounts
func (h *AccountHandler) CreateAccount(c echo.Context) error {
	username := middleware.GetUsername(c)
	if username == "" {
		return NewUnauthorizedError(c, "Authentication required")
	}

	var req AccountRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	account, err := h.accountService.CreateAccount(username, req.Name)
	if err != nil {
		if errors.Is(err, domain.ErrAlreadyExists) {
			return NewConflictError(c, "An account with that name already exists")
		}
		if errors.Is(err, domain.ErrNameRequired) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "name", Message: "Name is required"},
			})
		}
		if errors.Is(err, domain.ErrNameTooLong) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "name", Message: "Name must be 255 characters or less"},
			})
		}
		if errors.Is(err, domain.ErrUserNotFound) {
			return NewUnauthorizedError(c, "Unknown user")
		}
		log.Error().Err(err).Str("username", username).Msg("Failed to create account")
		return NewInternalError(c, "Failed to create account")
	}

	log.Info().Str("username", username).Str("name", account.Name).Msg("Account created")

	c.Response().Header().Set(echo.HeaderLocation, "/api/v1/accounts/"+account.Name)
	return c.JSON(http.StatusCreated, toAccountResponse(account))
}

// GetAccounts handles GET /api/v1/accounts
func (h *AccountHandler) GetAccounts(c echo.Context) error {
	username := middleware.GetUsername(c)
	if username == "" {
		return NewUnauthorizedError(c, "Authentication required")
	}

	accounts, err := h.accountService.GetAccounts(username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return NewUnauthorizedError(c, "Unknown user")
		}
		log.Error().Err(err).Str("username", username).Msg("Failed to get accounts")
		return NewInternalError(c, "Failed to get accounts")
	}

	response := make([]AccountResponse, len(accounts))
	for i, account := range accounts {
		response[i] = toAccountResponse(account)
	}

	return c.JSON(http.StatusOK, response)
}

// UpdateAccount handles PUT /api/v1/accounts/:name
func (h *AccountHandler) UpdateAccount(c echo.Context) error {
	username := middleware.GetUsername(c)
	if username == "" {
		return NewUnauthorizedError(c, "Authentication required")
	}

	oldName := c.Param("name")

	var req AccountRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	account, err := h.accountService.RenameAccount(username, oldName, req.Name)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return NewNotFoundError(c, "Account not found")
		}
		if errors.Is(err, domain.ErrAlreadyExists) {
			return NewConflictError(c, "An account with that name already exists")
		}
		if errors.Is(err, domain.ErrNameRequired) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "name", Message: "Name is required"},
			})
		}
		if errors.Is(err, domain.ErrNameTooLong) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "name", Message: "Name must be 255 characters or less"},
			})
		}
		if errors.Is(err, domain.ErrUserNotFound) {
			return NewUnauthorizedError(c, "Unknown user")
		}
		log.Error().Err(err).Str("username", username).Str("account", oldName).Msg("Failed to rename account")
		return NewInternalError(c, "Failed to rename account")
	}

	log.Info().Str("username", username).Str("old_name", oldName).Str("new_name", account.Name).Msg("Account renamed")
	return c.JSON(http.StatusOK, toAccountResponse(account))
}

// DeleteAccount handles DELETE /api/v1/accounts/:name
func (h *AccountHandler) DeleteAccount(c echo.Context) error {
	username := middleware.GetUsername(c)
	if username == "" {
		return NewUnauthorizedError(c, "Authentication required")
	}

	name := c.Param("name")

	if err := h.accountService.RemoveAccount(username, name); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return NewNotFoundError(c, "Account not found")
		}
		if errors.Is(err, domain.ErrCannotRemove) {
			return NewCannotRemoveError(c, "Account still has transactions")
		}
		if errors.Is(err, domain.ErrUserNotFound) {
			return NewUnauthorizedError(c, "Unknown user")
		}
		log.Error().Err(err).Str("username", username).Str("account", name).Msg("Failed to remove account")
		return NewInternalError(c, "Failed to remove account")
	}

	log.Info().Str("username", username).Str("account", name).Msg("Account removed")
	return c.NoContent(http.StatusNoContent)
}
