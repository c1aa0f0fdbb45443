package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/budgeteer/budgeteer-backend/internal/domain"
	"github.com/budgeteer/budgeteer-backend/internal/middleware"
	"github.com/budgeteer/budgeteer-backend/internal/service"
)

// TransactionHandler handles transaction-related HTTP requests
type TransactionHandler struct {
	transactionService *service.TransactionService
}

// NewTransactionHandler creates a new TransactionHandler
func NewTransactionHandler(transactionService *service.TransactionService) *TransactionHandler {
	return &TransactionHandler{transactionService: transactionService}
}

// TransactionRequest represents the create/update transaction request body
type TransactionRequest struct {
	Account     string   `json:"account"`
	Category    string   `json:"category"`
	SubCategory string   `json:"subCategory"`
	Description string   `json:"description"`
	Amount      string   `json:"amount"`
	Date        string   `json:"date"`
	Tags        []string `json:"tags"`
}

// TransactionResponse represents a transaction in API responses
type TransactionResponse struct {
	ID          string   `json:"id"`
	Description string   `json:"description"`
	Amount      string   `json:"amount"`
	Date        string   `json:"date"`
	Tags        []string `json:"tags"`
}

func toTransactionResponse(tx *domain.Transaction) TransactionResponse {
	tags := tx.Tags()
	names := make([]string, 0, len(tags))
	for _, tag := range tags {
		names = append(names, tag.Name)
	}
	return TransactionResponse{
		ID:          tx.ID.String(),
		Description: tx.Description,
		Amount:      tx.Amount.String(),
		Date:        tx.Date.Format("2006-01-02"),
		Tags:        names,
	}
}

// toInput converts the request body to a service input, validating the
// amount and date formats.
func (r *TransactionRequest) toInput() (service.TransactionInput, []ValidationError) {
	var fieldErrors []ValidationError

	amount, err := decimal.NewFromString(r.Amount)
	if err != nil {
		fieldErrors = append(fieldErrors, ValidationError{Field: "amount", Message: "Must be a valid decimal number"})
	}

	date, err := time.Parse("2006-01-02", r.Date)
	if err != nil {
		date, err = time.Parse(time.RFC3339, r.Date)
		if err != nil {
			fieldErrors = append(fieldErrors, ValidationError{Field: "date", Message: "Must be a date in YYYY-MM-DD or RFC 3339 format"})
		}
	}

	if fieldErrors != nil {
		return service.TransactionInput{}, fieldErrors
	}

	return service.TransactionInput{
		AccountName:      r.Account,
		MainCategoryName: r.Category,
		SubCategoryName:  r.SubCategory,
		Description:      r.Description,
		Amount:           amount,
		Date:             date,
		Tags:             r.Tags,
	}, nil
}

// CreateTransaction handles POST /api/v1/transactions
func (h *TransactionHandler) CreateTransaction(c echo.Context) error {
	username := middleware.GetUsername(c)
	if username == "" {
		return NewUnauthorizedError(c, "Authentication required")
	}

	var req TransactionRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	input, fieldErrors := req.toInput()
	if fieldErrors != nil {
		return NewValidationError(c, "Validation failed", fieldErrors)
	}

	tx, err := h.transactionService.CreateTransaction(username, input)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return NewNotFoundError(c, err.Error())
		}
		if errors.Is(err, domain.ErrInvalidInput) {
			return NewValidationError(c, err.Error(), nil)
		}
		if errors.Is(err, domain.ErrUserNotFound) {
			return NewUnauthorizedError(c, "Unknown user")
		}
		log.Error().Err(err).Str("username", username).Msg("Failed to create transaction")
		return NewInternalError(c, "Failed to create transaction")
	}

	log.Info().Str("username", username).Str("transaction_id", tx.ID.String()).Msg("Transaction created")

	c.Response().Header().Set(echo.HeaderLocation, "/api/v1/transactions/"+tx.ID.String())
	return c.JSON(http.StatusCreated, toTransactionResponse(tx))
}

// UpdateTransaction handles PUT /api/v1/transactions/:id
func (h *TransactionHandler) UpdateTransaction(c echo.Context) error {
	username := middleware.GetUsername(c)
	if username == "" {
		return NewUnauthorizedError(c, "Authentication required")
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid transaction ID", nil)
	}

	var req TransactionRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	input, fieldErrors := req.toInput()
	if fieldErrors != nil {
		return NewValidationError(c, "Validation failed", fieldErrors)
	}

	tx, err := h.transactionService.UpdateTransaction(username, id, input)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return NewNotFoundError(c, err.Error())
		}
		if errors.Is(err, domain.ErrInvalidInput) {
			return NewValidationError(c, err.Error(), nil)
		}
		if errors.Is(err, domain.ErrUserNotFound) {
			return NewUnauthorizedError(c, "Unknown user")
		}
		log.Error().Err(err).Str("username", username).Str("transaction_id", id.String()).Msg("Failed to update transaction")
		return NewInternalError(c, "Failed to update transaction")
	}

	log.Info().Str("username", username).Str("transaction_id", tx.ID.String()).Msg("Transaction updated")
	return c.JSON(http.StatusOK, toTransactionResponse(tx))
}

// DeleteTransaction handles DELETE /api/v1/transactions/:id
func (h *TransactionHandler) DeleteTransaction(c echo.Context) error {
	username := middleware.GetUsername(c)
	if username == "" {
		return NewUnauthorizedError(c, "Authentication required")
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid transaction ID", nil)
	}

	if err := h.transactionService.RemoveTransaction(username, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return NewNotFoundError(c, "Transaction not found")
		}
		if errors.Is(err, domain.ErrUserNotFound) {
			return NewUnauthorizedError(c, "Unknown user")
		}
		log.Error().Err(err).Str("username", username).Str("transaction_id", id.String()).Msg("Failed to remove transaction")
		return NewInternalError(c, "Failed to remove transaction")
	}

	log.Info().Str("username", username).Str("transaction_id", id.String()).Msg("Transaction removed")
	return c.NoContent(http.StatusNoContent)
}
