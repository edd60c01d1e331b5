package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/lendbook/lendbook-backend/internal/domain"
	"github.com/lendbook/lendbook-backend/internal/middleware"
	"github.com/lendbook/lendbook-backend/internal/service"
	"github.com/lendbook/lendbook-backend/internal/util"
	"github.com/rs/zerolog/log"
)

// DebitCardTransactionHandler handles debit card transaction HTTP requests
type DebitCardTransactionHandler struct {
	transactionService *service.DebitCardTransactionService
}

// NewDebitCardTransactionHandler creates a new DebitCardTransactionHandler
func NewDebitCardTransactionHandler(transactionService *service.DebitCardTransactionService) *DebitCardTransactionHandler {
	return &DebitCardTransactionHandler{transactionService: transactionService}
}

// CreateDebitCardTransactionRequest represents the create transaction request body
type CreateDebitCardTransactionRequest struct {
	DebitCardID  int64  `json:"debitCardId"`
	Amount       int64  `json:"amount"`
	CurrencyCode string `json:"currencyCode"`
}

// DebitCardTransactionResponse represents a card transaction in API responses
type DebitCardTransactionResponse struct {
	ID              int64  `json:"id"`
	DebitCardID     int64  `json:"debitCardId"`
	Amount          int64  `json:"amount"`
	FormattedAmount string `json:"formattedAmount"`
	CurrencyCode    string `json:"currencyCode"`
	CreatedAt       string `json:"createdAt"`
}

func toDebitCardTransactionResponse(transaction *domain.DebitCardTransaction) DebitCardTransactionResponse {
	return DebitCardTransactionResponse{
		ID:              transaction.ID,
		DebitCardID:     transaction.DebitCardID,
		Amount:          transaction.Amount,
		FormattedAmount: util.FormatAmount(transaction.Amount, transaction.CurrencyCode),
		CurrencyCode:    transaction.CurrencyCode,
		CreatedAt:       transaction.CreatedAt.Format(time.RFC3339),
	}
}

// CreateTransaction handles POST /api/v1/debit-card-transactions
func (h *DebitCardTransactionHandler) CreateTransaction(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	var req CreateDebitCardTransactionRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	transaction, err := h.transactionService.CreateTransaction(userID, service.CreateTransactionInput{
		DebitCardID:  req.DebitCardID,
		Amount:       req.Amount,
		CurrencyCode: req.CurrencyCode,
	})
	if err != nil {
		if errors.Is(err, domain.ErrDebitCardTransactionAmountInvalid) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "amount", Message: "Amount must be positive"},
			})
		}
		if errors.Is(err, domain.ErrCurrencyUnsupported) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "currencyCode", Message: "Currency is not supported"},
			})
		}
		if errors.Is(err, domain.ErrDebitCardDisabled) {
			return NewConflictError(c, "Debit card is disabled")
		}
		return mapDebitCardError(c, err, req.DebitCardID)
	}

	log.Info().
		Str("user_id", userID.String()).
		Int64("card_id", req.DebitCardID).
		Int64("amount", req.Amount).
		Msg("Debit card transaction recorded")

	return c.JSON(http.StatusCreated, toDebitCardTransactionResponse(transaction))
}

// GetTransaction handles GET /api/v1/debit-card-transactions/:id
func (h *DebitCardTransactionHandler) GetTransaction(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	transactionID, err := parseIDParam(c)
	if err != nil {
		return NewValidationError(c, "Invalid transaction ID", nil)
	}

	transaction, err := h.transactionService.GetTransaction(userID, transactionID)
	if err != nil {
		if errors.Is(err, domain.ErrDebitCardTransactionNotFound) {
			return NewNotFoundError(c, "Debit card transaction not found")
		}
		return mapDebitCardError(c, err, transactionID)
	}

	return c.JSON(http.StatusOK, toDebitCardTransactionResponse(transaction))
}

// GetTransactions handles GET /api/v1/debit-cards/:id/transactions
func (h *DebitCardTransactionHandler) GetTransactions(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	cardID, err := parseIDParam(c)
	if err != nil {
		return NewValidationError(c, "Invalid card ID", nil)
	}

	transactions, err := h.transactionService.GetTransactions(userID, cardID)
	if err != nil {
		return mapDebitCardError(c, err, cardID)
	}

	responses := make([]DebitCardTransactionResponse, 0, len(transactions))
	for _, transaction := range transactions {
		responses = append(responses, toDebitCardTransactionResponse(transaction))
	}
	return c.JSON(http.StatusOK, responses)
}
