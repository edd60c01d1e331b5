package service

import (
	"time"

	"github.com/google/uuid"
	"github.com/lendbook/lendbook-backend/internal/domain"
	"github.com/lendbook/lendbook-backend/internal/util"
	"github.com/lendbook/lendbook-backend/internal/websocket"
)

// cardValidityYears is how long a newly issued card stays valid
const cardValidityYears = 4

// DebitCardService handles debit card issuing and lifecycle
type DebitCardService struct {
	cardRepo       domain.DebitCardRepository
	eventPublisher websocket.EventPublisher
}

// NewDebitCardService creates a new DebitCardService
func NewDebitCardService(cardRepo domain.DebitCardRepository) *DebitCardService {
	return &DebitCardService{cardRepo: cardRepo}
}

// SetEventPublisher sets the event publisher for real-time updates
func (s *DebitCardService) SetEventPublisher(publisher websocket.EventPublisher) {
	s.eventPublisher = publisher
}

func (s *DebitCardService) publishEvent(userID uuid.UUID, event websocket.Event) {
	if s.eventPublisher != nil {
		s.eventPublisher.Publish(userID, event)
	}
}

// CreateCard issues a new card of the given network type for the user.
// The number and expiration date are generated server side.
func (s *DebitCardService) CreateCard(userID uuid.UUID, cardType string) (*domain.DebitCard, error) {
	if !domain.IsSupportedCardType(cardType) {
		return nil, domain.ErrDebitCardTypeInvalid
	}

	number, err := util.GenerateCardNumber(cardType)
	if err != nil {
		return nil, err
	}

	card := &domain.DebitCard{
		UserID:         userID,
		Number:         number,
		Type:           cardType,
		ExpirationDate: time.Now().UTC().AddDate(cardValidityYears, 0, 0),
	}

	created, err := s.cardRepo.Create(card)
	if err != nil {
		return nil, err
	}

	s.publishEvent(userID, websocket.DebitCardCreated(created))

	return created, nil
}

// GetCard retrieves a card owned by the user
func (s *DebitCardService) GetCard(userID uuid.UUID, cardID int64) (*domain.DebitCard, error) {
	return s.getOwnedCard(userID, cardID)
}

// GetActiveCards retrieves the user's cards that have not been disabled
func (s *DebitCardService) GetActiveCards(userID uuid.UUID) ([]*domain.DebitCard, error) {
	return s.cardRepo.GetActiveByUser(userID)
}

// DisableCard marks a card as disabled. Disabled cards reject new
// transactions and disappear from the active card listing.
func (s *DebitCardService) DisableCard(userID uuid.UUID, cardID int64) (*domain.DebitCard, error) {
	if _, err := s.getOwnedCard(userID, cardID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	card, err := s.cardRepo.UpdateDisabledAt(cardID, &now)
	if err != nil {
		return nil, err
	}

	s.publishEvent(userID, websocket.DebitCardDisabled(card))

	return card, nil
}

// EnableCard clears a card's disabled timestamp
func (s *DebitCardService) EnableCard(userID uuid.UUID, cardID int64) (*domain.DebitCard, error) {
	if _, err := s.getOwnedCard(userID, cardID); err != nil {
		return nil, err
	}

	card, err := s.cardRepo.UpdateDisabledAt(cardID, nil)
	if err != nil {
		return nil, err
	}

	s.publishEvent(userID, websocket.DebitCardEnabled(card))

	return card, nil
}

// DeleteCard removes a card owned by the user
func (s *DebitCardService) DeleteCard(userID uuid.UUID, cardID int64) error {
	card, err := s.getOwnedCard(userID, cardID)
	if err != nil {
		return err
	}

	if err := s.cardRepo.Delete(cardID); err != nil {
		return err
	}

	s.publishEvent(userID, websocket.DebitCardDeleted(card))

	return nil
}

func (s *DebitCardService) getOwnedCard(userID uuid.UUID, cardID int64) (*domain.DebitCard, error) {
	card, err := s.cardRepo.GetByID(cardID)
	if err != nil {
		return nil, err
	}
	if card.UserID != userID {
		return nil, domain.ErrDebitCardNotOwned
	}
	return card, nil
}
