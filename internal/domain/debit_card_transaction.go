package domain

import (
	"errors"
	"time"
)

var (
	ErrDebitCardTransactionNotFound      = errors.New("debit card transaction not found")
	ErrDebitCardTransactionAmountInvalid = errors.New("transaction amount must be positive")
)

// DebitCardTransaction is an append-only spend record against a debit card.
type DebitCardTransaction struct {
	ID           int64     `json:"id"`
	DebitCardID  int64     `json:"debitCardId"`
	Amount       int64     `json:"amount"`
	CurrencyCode string    `json:"currencyCode"`
	CreatedAt    time.Time `json:"createdAt"`
}

func (t *DebitCardTransaction) Validate() error {
	if t.Amount <= 0 {
		return ErrDebitCardTransactionAmountInvalid
	}
	if !IsSupportedCurrency(t.CurrencyCode) {
		return ErrCurrencyUnsupported
	}
	return nil
}

type DebitCardTransactionRepository interface {
	Create(transaction *DebitCardTransaction) (*DebitCardTransaction, error)
	GetByID(id int64) (*DebitCardTransaction, error)
	GetByCard(debitCardID int64) ([]*DebitCardTransaction, error)
}
