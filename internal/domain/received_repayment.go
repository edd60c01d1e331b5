package domain

import "time"

// ReceivedRepayment is the append-only audit record of an incoming payment.
// One row is written per repayment call with the full received amount,
// regardless of how much of it the allocator consumed.
type ReceivedRepayment struct {
	ID           int64     `json:"id"`
	LoanID       int64     `json:"loanId"`
	Amount       int64     `json:"amount"`
	CurrencyCode string    `json:"currencyCode"`
	ReceivedAt   time.Time `json:"receivedAt"`
	CreatedAt    time.Time `json:"createdAt"`
}

type ReceivedRepaymentRepository interface {
	CreateTx(tx interface{}, repayment *ReceivedRepayment) (*ReceivedRepayment, error)
	GetByLoan(loanID int64) ([]*ReceivedRepayment, error)
}
