package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrDebitCardNotFound    = errors.New("debit card not found")
	ErrDebitCardNotOwned    = errors.New("debit card does not belong to this user")
	ErrDebitCardTypeInvalid = errors.New("debit card type is not supported")
	ErrDebitCardDisabled    = errors.New("debit card is disabled")
)

// Supported card networks
const (
	CardTypeVisa       = "Visa"
	CardTypeMasterCard = "MasterCard"
	CardTypeAmEx       = "AmEx"
	CardTypeJCB        = "JCB"
)

// IsSupportedCardType reports whether the given card type can be issued.
func IsSupportedCardType(cardType string) bool {
	switch cardType {
	case CardTypeVisa, CardTypeMasterCard, CardTypeAmEx, CardTypeJCB:
		return true
	}
	return false
}

// DebitCard is a customer-owned card. Number and expiration are generated
// at creation; a card with DisabledAt set rejects new transactions.
type DebitCard struct {
	ID             int64      `json:"id"`
	UserID         uuid.UUID  `json:"userId"`
	Number         string     `json:"number"`
	Type           string     `json:"type"`
	ExpirationDate time.Time  `json:"expirationDate"`
	DisabledAt     *time.Time `json:"disabledAt,omitempty"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
}

// IsActive reports whether the card accepts new transactions.
func (d *DebitCard) IsActive() bool {
	return d.DisabledAt == nil
}

type DebitCardRepository interface {
	Create(card *DebitCard) (*DebitCard, error)
	GetByID(id int64) (*DebitCard, error)
	GetActiveByUser(userID uuid.UUID) ([]*DebitCard, error)
	UpdateDisabledAt(id int64, disabledAt *time.Time) (*DebitCard, error)
	Delete(id int64) error
}
