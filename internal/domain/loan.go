package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrLoanNotFound           = errors.New("loan not found")
	ErrLoanNotOwned           = errors.New("loan does not belong to this user")
	ErrLoanAmountInvalid      = errors.New("loan amount must be positive")
	ErrLoanTermsInvalid       = errors.New("number of terms must be at least 1")
	ErrCurrencyUnsupported    = errors.New("currency code is not supported")
	ErrCurrencyMismatch       = errors.New("payment currency does not match loan currency")
	ErrRepaymentAmountInvalid = errors.New("repayment amount must be positive")
)

// LoanStatus is the aggregate repayment state of a loan
type LoanStatus string

const (
	LoanStatusDue    LoanStatus = "due"
	LoanStatusRepaid LoanStatus = "repaid"
)

// Supported currency codes. Amounts are integers in minor units
// (VND has no minor unit, SGD uses cents).
const (
	CurrencyVND = "VND"
	CurrencySGD = "SGD"
)

// IsSupportedCurrency reports whether the given code is accepted for loans
// and debit card transactions.
func IsSupportedCurrency(code string) bool {
	switch code {
	case CurrencyVND, CurrencySGD:
		return true
	}
	return false
}

// Loan is a fixed-term consumer loan with a monthly amortization schedule.
// Amount and OutstandingAmount are integer minor currency units.
type Loan struct {
	ID                int64      `json:"id"`
	UserID            uuid.UUID  `json:"userId"`
	Amount            int64      `json:"amount"`
	OutstandingAmount int64      `json:"outstandingAmount"`
	CurrencyCode      string     `json:"currencyCode"`
	Terms             int32      `json:"terms"`
	Status            LoanStatus `json:"status"`
	ProcessedAt       time.Time  `json:"processedAt"`
	CreatedAt         time.Time  `json:"createdAt"`
	UpdatedAt         time.Time  `json:"updatedAt"`
}

func (l *Loan) Validate() error {
	if l.Amount <= 0 {
		return ErrLoanAmountInvalid
	}
	if l.Terms < 1 {
		return ErrLoanTermsInvalid
	}
	if !IsSupportedCurrency(l.CurrencyCode) {
		return ErrCurrencyUnsupported
	}
	return nil
}

type LoanRepository interface {
	CreateTx(tx interface{}, loan *Loan) (*Loan, error)
	GetByID(id int64) (*Loan, error)
	// GetByIDForUpdateTx locks the loan row for the duration of the
	// transaction so concurrent repayments on the same loan serialize.
	GetByIDForUpdateTx(tx interface{}, id int64) (*Loan, error)
	GetByUser(userID uuid.UUID) ([]*Loan, error)
	UpdateBalanceTx(tx interface{}, id int64, status LoanStatus, outstanding int64) (*Loan, error)
}
