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
	"github.com/rs/zerolog/log"
)

// DebitCardHandler handles debit card HTTP requests
type DebitCardHandler struct {
	cardService *service.DebitCardService
}

// NewDebitCardHandler creates a new DebitCardHandler
func NewDebitCardHandler(cardService *service.DebitCardService) *DebitCardHandler {
	return &DebitCardHandler{cardService: cardService}
}

// CreateDebitCardRequest represents the create card request body.
// Only the network type is client supplied.
type CreateDebitCardRequest struct {
	Type string `json:"type"`
}

// DebitCardResponse represents a debit card in API responses
type DebitCardResponse struct {
	ID             int64   `json:"id"`
	Number         string  `json:"number"`
	Type           string  `json:"type"`
	ExpirationDate string  `json:"expirationDate"`
	IsActive       bool    `json:"isActive"`
	DisabledAt     *string `json:"disabledAt,omitempty"`
	CreatedAt      string  `json:"createdAt"`
	UpdatedAt      string  `json:"updatedAt"`
}

func toDebitCardResponse(card *domain.DebitCard) DebitCardResponse {
	resp := DebitCardResponse{
		ID:             card.ID,
		Number:         card.Number,
		Type:           card.Type,
		ExpirationDate: card.ExpirationDate.Format("2006-01-02"),
		IsActive:       card.IsActive(),
		CreatedAt:      card.CreatedAt.Format(time.RFC3339),
		UpdatedAt:      card.UpdatedAt.Format(time.RFC3339),
	}
	if card.DisabledAt != nil {
		disabledAt := card.DisabledAt.Format(time.RFC3339)
		resp.DisabledAt = &disabledAt
	}
	return resp
}

// CreateCard handles POST /api/v1/debit-cards
func (h *DebitCardHandler) CreateCard(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	var req CreateDebitCardRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	card, err := h.cardService.CreateCard(userID, req.Type)
	if err != nil {
		if errors.Is(err, domain.ErrDebitCardTypeInvalid) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "type", Message: "Card type is not supported"},
			})
		}
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to create debit card")
		return NewInternalError(c, "Failed to create debit card")
	}

	log.Info().
		Str("user_id", userID.String()).
		Int64("card_id", card.ID).
		Str("type", card.Type).
		Msg("Debit card created")

	return c.JSON(http.StatusCreated, toDebitCardResponse(card))
}

// GetCards handles GET /api/v1/debit-cards
func (h *DebitCardHandler) GetCards(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	cards, err := h.cardService.GetActiveCards(userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to list debit cards")
		return NewInternalError(c, "Failed to list debit cards")
	}

	responses := make([]DebitCardResponse, 0, len(cards))
	for _, card := range cards {
		responses = append(responses, toDebitCardResponse(card))
	}
	return c.JSON(http.StatusOK, responses)
}

// GetCard handles GET /api/v1/debit-cards/:id
func (h *DebitCardHandler) GetCard(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	cardID, err := parseIDParam(c)
	if err != nil {
		return NewValidationError(c, "Invalid card ID", nil)
	}

	card, err := h.cardService.GetCard(userID, cardID)
	if err != nil {
		return mapDebitCardError(c, err, cardID)
	}

	return c.JSON(http.StatusOK, toDebitCardResponse(card))
}

// DisableCard handles POST /api/v1/debit-cards/:id/disable
func (h *DebitCardHandler) DisableCard(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	cardID, err := parseIDParam(c)
	if err != nil {
		return NewValidationError(c, "Invalid card ID", nil)
	}

	card, err := h.cardService.DisableCard(userID, cardID)
	if err != nil {
		return mapDebitCardError(c, err, cardID)
	}

	log.Info().Str("user_id", userID.String()).Int64("card_id", cardID).Msg("Debit card disabled")

	return c.JSON(http.StatusOK, toDebitCardResponse(card))
}

// EnableCard handles POST /api/v1/debit-cards/:id/enable
func (h *DebitCardHandler) EnableCard(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	cardID, err := parseIDParam(c)
	if err != nil {
		return NewValidationError(c, "Invalid card ID", nil)
	}

	card, err := h.cardService.EnableCard(userID, cardID)
	if err != nil {
		return mapDebitCardError(c, err, cardID)
	}

	log.Info().Str("user_id", userID.String()).Int64("card_id", cardID).Msg("Debit card enabled")

	return c.JSON(http.StatusOK, toDebitCardResponse(card))
}

// DeleteCard handles DELETE /api/v1/debit-cards/:id
func (h *DebitCardHandler) DeleteCard(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	cardID, err := parseIDParam(c)
	if err != nil {
		return NewValidationError(c, "Invalid card ID", nil)
	}

	if err := h.cardService.DeleteCard(userID, cardID); err != nil {
		return mapDebitCardError(c, err, cardID)
	}

	log.Info().Str("user_id", userID.String()).Int64("card_id", cardID).Msg("Debit card deleted")

	return c.NoContent(http.StatusNoContent)
}

func mapDebitCardError(c echo.Context, err error, cardID int64) error {
	if errors.Is(err, domain.ErrDebitCardNotFound) {
		return NewNotFoundError(c, "Debit card not found")
	}
	if errors.Is(err, domain.ErrDebitCardNotOwned) {
		return NewForbiddenError(c, "Debit card does not belong to this user")
	}
	log.Error().Err(err).Int64("card_id", cardID).Msg("Debit card operation failed")
	return NewInternalError(c, "Debit card operation failed")
}
