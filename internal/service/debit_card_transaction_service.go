package service

import (
	"github.com/google/uuid"
	"github.com/lendbook/lendbook-backend/internal/domain"
	"github.com/lendbook/lendbook-backend/internal/websocket"
)

// DebitCardTransactionService handles spend records against debit cards
type DebitCardTransactionService struct {
	transactionRepo domain.DebitCardTransactionRepository
	cardRepo        domain.DebitCardRepository
	eventPublisher  websocket.EventPublisher
}

// NewDebitCardTransactionService creates a new DebitCardTransactionService
func NewDebitCardTransactionService(
	transactionRepo domain.DebitCardTransactionRepository,
	cardRepo domain.DebitCardRepository,
) *DebitCardTransactionService {
	return &DebitCardTransactionService{
		transactionRepo: transactionRepo,
		cardRepo:        cardRepo,
	}
}

// SetEventPublisher sets the event publisher for real-time updates
func (s *DebitCardTransactionService) SetEventPublisher(publisher websocket.EventPublisher) {
	s.eventPublisher = publisher
}

// CreateTransactionInput contains input for recording a card transaction
type CreateTransactionInput struct {
	DebitCardID  int64
	Amount       int64
	CurrencyCode string
}

// CreateTransaction records a spend against a card owned by the user.
// The card must be active.
func (s *DebitCardTransactionService) CreateTransaction(userID uuid.UUID, input CreateTransactionInput) (*domain.DebitCardTransaction, error) {
	transaction := &domain.DebitCardTransaction{
		DebitCardID:  input.DebitCardID,
		Amount:       input.Amount,
		CurrencyCode: input.CurrencyCode,
	}
	if err := transaction.Validate(); err != nil {
		return nil, err
	}

	card, err := s.getOwnedCard(userID, input.DebitCardID)
	if err != nil {
		return nil, err
	}
	if !card.IsActive() {
		return nil, domain.ErrDebitCardDisabled
	}

	created, err := s.transactionRepo.Create(transaction)
	if err != nil {
		return nil, err
	}

	if s.eventPublisher != nil {
		s.eventPublisher.Publish(userID, websocket.DebitCardTransactionCreated(created))
	}

	return created, nil
}

// GetTransaction retrieves a single transaction on a card owned by the user
func (s *DebitCardTransactionService) GetTransaction(userID uuid.UUID, transactionID int64) (*domain.DebitCardTransaction, error) {
	transaction, err := s.transactionRepo.GetByID(transactionID)
	if err != nil {
		return nil, err
	}
	if _, err := s.getOwnedCard(userID, transaction.DebitCardID); err != nil {
		return nil, err
	}
	return transaction, nil
}

// GetTransactions retrieves the transactions of a card owned by the user,
// newest first
func (s *DebitCardTransactionService) GetTransactions(userID uuid.UUID, cardID int64) ([]*domain.DebitCardTransaction, error) {
	if _, err := s.getOwnedCard(userID, cardID); err != nil {
		return nil, err
	}
	return s.transactionRepo.GetByCard(cardID)
}

func (s *DebitCardTransactionService) getOwnedCard(userID uuid.UUID, cardID int64) (*domain.DebitCard, error) {
	card, err := s.cardRepo.GetByID(cardID)
	if err != nil {
		return nil, err
	}
	if card.UserID != userID {
		return nil, domain.ErrDebitCardNotOwned
	}
	return card, nil
}
