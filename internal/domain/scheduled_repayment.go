package domain

import (
	"errors"
	"time"
)

var ErrScheduledRepaymentNotFound = errors.New("scheduled repayment not found")

// RepaymentStatus is the settlement state of a single installment
type RepaymentStatus string

const (
	RepaymentStatusDue     RepaymentStatus = "due"
	RepaymentStatusPartial RepaymentStatus = "partial"
	RepaymentStatusRepaid  RepaymentStatus = "repaid"
)

// ScheduledRepayment is one installment of a loan's amortization schedule.
// Amount and due date are immutable after creation; only Status and
// OutstandingAmount change. OutstandingAmount equals Amount while the
// installment is due, 0 once repaid, and for a partial installment it
// records the portion allocated so far (the loan aggregate formula
// subtracts it from the unrepaid total).
type ScheduledRepayment struct {
	ID                int64           `json:"id"`
	LoanID            int64           `json:"loanId"`
	Amount            int64           `json:"amount"`
	OutstandingAmount int64           `json:"outstandingAmount"`
	CurrencyCode      string          `json:"currencyCode"`
	DueDate           time.Time       `json:"dueDate"`
	Status            RepaymentStatus `json:"status"`
	CreatedAt         time.Time       `json:"createdAt"`
	UpdatedAt         time.Time       `json:"updatedAt"`
}

// UnpaidRemainder returns how much of the installment is still unsettled.
func (s *ScheduledRepayment) UnpaidRemainder() int64 {
	switch s.Status {
	case RepaymentStatusRepaid:
		return 0
	case RepaymentStatusPartial:
		return s.Amount - s.OutstandingAmount
	default:
		return s.Amount
	}
}

type ScheduledRepaymentRepository interface {
	CreateBatchTx(tx interface{}, repayments []*ScheduledRepayment) error
	GetByLoan(loanID int64) ([]*ScheduledRepayment, error)
	// GetSettleableTx returns the loan's due and partial installments
	// ordered by due date ascending, id ascending as the stable tie-break.
	GetSettleableTx(tx interface{}, loanID int64) ([]*ScheduledRepayment, error)
	UpdateAllocationTx(tx interface{}, id int64, status RepaymentStatus, outstanding int64) error
	SumAmountByStatusTx(tx interface{}, loanID int64, status RepaymentStatus) (int64, error)
	SumOutstandingByStatusTx(tx interface{}, loanID int64, status RepaymentStatus) (int64, error)
}
