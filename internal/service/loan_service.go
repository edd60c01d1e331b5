package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/lendbook/lendbook-backend/internal/domain"
	"github.com/lendbook/lendbook-backend/internal/util"
	"github.com/lendbook/lendbook-backend/internal/websocket"
	"github.com/rs/zerolog/log"
)

// LoanService handles loan origination and repayment business logic
type LoanService struct {
	txManager      domain.TxManager
	loanRepo       domain.LoanRepository
	scheduleRepo   domain.ScheduledRepaymentRepository
	receivedRepo   domain.ReceivedRepaymentRepository
	eventPublisher websocket.EventPublisher
}

// NewLoanService creates a new LoanService
func NewLoanService(
	txManager domain.TxManager,
	loanRepo domain.LoanRepository,
	scheduleRepo domain.ScheduledRepaymentRepository,
	receivedRepo domain.ReceivedRepaymentRepository,
) *LoanService {
	return &LoanService{
		txManager:    txManager,
		loanRepo:     loanRepo,
		scheduleRepo: scheduleRepo,
		receivedRepo: receivedRepo,
	}
}

// SetEventPublisher sets the event publisher for real-time updates
func (s *LoanService) SetEventPublisher(publisher websocket.EventPublisher) {
	s.eventPublisher = publisher
}

// publishEvent publishes a WebSocket event if a publisher is configured
func (s *LoanService) publishEvent(userID uuid.UUID, event websocket.Event) {
	if s.eventPublisher != nil {
		s.eventPublisher.Publish(userID, event)
	}
}

// CreateLoanInput contains input for creating a loan
type CreateLoanInput struct {
	Amount       int64
	CurrencyCode string
	Terms        int32
	ProcessedAt  time.Time
}

// RepayLoanInput contains input for repaying a loan
type RepayLoanInput struct {
	Amount       int64
	CurrencyCode string
	ReceivedAt   time.Time
}

// BuildSchedule splits a loan amount into monthly installments due one
// month apart starting one month after processedAt. Amounts differ by at
// most one minor unit: with q = amount/terms and r = amount%terms, the
// first terms-r installments get q and the last r get q+1, so the schedule
// always sums to amount exactly.
func BuildSchedule(amount int64, terms int32, currencyCode string, processedAt time.Time) []*domain.ScheduledRepayment {
	q := amount / int64(terms)
	r := amount % int64(terms)

	schedule := make([]*domain.ScheduledRepayment, 0, terms)
	for i := int32(1); i <= terms; i++ {
		installment := q
		if int64(i) > int64(terms)-r {
			installment = q + 1
		}
		schedule = append(schedule, &domain.ScheduledRepayment{
			Amount:            installment,
			OutstandingAmount: installment,
			CurrencyCode:      currencyCode,
			DueDate:           util.AddMonths(processedAt, int(i)),
			Status:            domain.RepaymentStatusDue,
		})
	}
	return schedule
}

// InstallmentUpdate is one installment state change produced by an allocation
type InstallmentUpdate struct {
	ID          int64
	Status      domain.RepaymentStatus
	Outstanding int64
}

// Allocation is the result of distributing a payment across a schedule.
// Remaining is the portion of the payment left after every installment
// was settled in full.
type Allocation struct {
	Updates   []InstallmentUpdate
	Remaining int64
}

// AllocateRepayment distributes a payment across installments in order,
// folding each installment into the running allocation. Installments are
// settled in full while the remaining payment covers them; the first one
// it cannot cover becomes partial, recording the total allocated to it so
// far in Outstanding. It never mutates its inputs.
func AllocateRepayment(installments []*domain.ScheduledRepayment, amount int64) Allocation {
	acc := Allocation{Remaining: amount}
	for _, installment := range installments {
		acc = settleInstallment(acc, installment)
	}
	return acc
}

// settleInstallment applies the remaining payment of acc to a single
// installment and returns the extended allocation.
func settleInstallment(acc Allocation, installment *domain.ScheduledRepayment) Allocation {
	if acc.Remaining <= 0 {
		return acc
	}

	unpaid := installment.UnpaidRemainder()
	if acc.Remaining >= unpaid {
		acc.Updates = append(acc.Updates, InstallmentUpdate{
			ID:          installment.ID,
			Status:      domain.RepaymentStatusRepaid,
			Outstanding: 0,
		})
		acc.Remaining -= unpaid
		return acc
	}

	// Partial: Outstanding records the total allocated so far, i.e. what
	// was already on the installment plus this payment's remainder.
	acc.Updates = append(acc.Updates, InstallmentUpdate{
		ID:          installment.ID,
		Status:      domain.RepaymentStatusPartial,
		Outstanding: installment.Amount - unpaid + acc.Remaining,
	})
	acc.Remaining = 0
	return acc
}

// CreateLoan creates a loan together with its full repayment schedule
func (s *LoanService) CreateLoan(userID uuid.UUID, input CreateLoanInput) (*domain.Loan, []*domain.ScheduledRepayment, error) {
	loan := &domain.Loan{
		UserID:            userID,
		Amount:            input.Amount,
		OutstandingAmount: input.Amount,
		CurrencyCode:      input.CurrencyCode,
		Terms:             input.Terms,
		Status:            domain.LoanStatusDue,
		ProcessedAt:       input.ProcessedAt,
	}
	if err := loan.Validate(); err != nil {
		return nil, nil, err
	}

	var created *domain.Loan
	var schedule []*domain.ScheduledRepayment

	err := s.txManager.WithinTx(context.Background(), func(tx interface{}) error {
		var err error
		created, err = s.loanRepo.CreateTx(tx, loan)
		if err != nil {
			return err
		}

		schedule = BuildSchedule(created.Amount, created.Terms, created.CurrencyCode, created.ProcessedAt)
		for _, sr := range schedule {
			sr.LoanID = created.ID
		}
		return s.scheduleRepo.CreateBatchTx(tx, schedule)
	})
	if err != nil {
		log.Error().Err(err).
			Str("user_id", userID.String()).
			Int64("amount", input.Amount).
			Msg("Failed to create loan")
		return nil, nil, err
	}

	s.publishEvent(userID, websocket.LoanCreated(created))

	return created, schedule, nil
}

// RepayLoan records a received payment and allocates it across the loan's
// unsettled installments, oldest due date first. The loan row is locked
// for the duration of the transaction so concurrent repayments on the
// same loan serialize. Payment beyond the remaining schedule is accepted
// and recorded but not allocated.
func (s *LoanService) RepayLoan(userID uuid.UUID, loanID int64, input RepayLoanInput) (*domain.Loan, *domain.ReceivedRepayment, error) {
	if input.Amount <= 0 {
		return nil, nil, domain.ErrRepaymentAmountInvalid
	}
	if !domain.IsSupportedCurrency(input.CurrencyCode) {
		return nil, nil, domain.ErrCurrencyUnsupported
	}

	loan, err := s.getOwnedLoan(userID, loanID)
	if err != nil {
		return nil, nil, err
	}
	if input.CurrencyCode != loan.CurrencyCode {
		return nil, nil, domain.ErrCurrencyMismatch
	}

	var updated *domain.Loan
	var received *domain.ReceivedRepayment

	err = s.txManager.WithinTx(context.Background(), func(tx interface{}) error {
		locked, err := s.loanRepo.GetByIDForUpdateTx(tx, loanID)
		if err != nil {
			return err
		}

		installments, err := s.scheduleRepo.GetSettleableTx(tx, loanID)
		if err != nil {
			return err
		}

		alloc := AllocateRepayment(installments, input.Amount)
		for _, update := range alloc.Updates {
			if err := s.scheduleRepo.UpdateAllocationTx(tx, update.ID, update.Status, update.Outstanding); err != nil {
				return err
			}
		}

		received, err = s.receivedRepo.CreateTx(tx, &domain.ReceivedRepayment{
			LoanID:       loanID,
			Amount:       input.Amount,
			CurrencyCode: input.CurrencyCode,
			ReceivedAt:   input.ReceivedAt,
		})
		if err != nil {
			return err
		}

		repaidSum, err := s.scheduleRepo.SumAmountByStatusTx(tx, loanID, domain.RepaymentStatusRepaid)
		if err != nil {
			return err
		}
		partialSum, err := s.scheduleRepo.SumOutstandingByStatusTx(tx, loanID, domain.RepaymentStatusPartial)
		if err != nil {
			return err
		}

		outstanding := (locked.Amount - repaidSum) - partialSum
		status := domain.LoanStatusDue
		if outstanding == 0 {
			status = domain.LoanStatusRepaid
		}

		updated, err = s.loanRepo.UpdateBalanceTx(tx, loanID, status, outstanding)
		return err
	})
	if err != nil {
		log.Error().Err(err).
			Int64("loan_id", loanID).
			Int64("amount", input.Amount).
			Msg("Failed to repay loan")
		return nil, nil, err
	}

	s.publishEvent(userID, websocket.LoanRepaid(updated))
	s.publishEvent(userID, websocket.ReceivedRepaymentCreated(received))

	return updated, received, nil
}

// GetLoan retrieves a loan owned by the user
func (s *LoanService) GetLoan(userID uuid.UUID, loanID int64) (*domain.Loan, error) {
	return s.getOwnedLoan(userID, loanID)
}

// GetLoansByUser retrieves all of the user's loans, newest first
func (s *LoanService) GetLoansByUser(userID uuid.UUID) ([]*domain.Loan, error) {
	return s.loanRepo.GetByUser(userID)
}

// GetSchedule retrieves the repayment schedule of a loan owned by the user
func (s *LoanService) GetSchedule(userID uuid.UUID, loanID int64) ([]*domain.ScheduledRepayment, error) {
	if _, err := s.getOwnedLoan(userID, loanID); err != nil {
		return nil, err
	}
	return s.scheduleRepo.GetByLoan(loanID)
}

// GetReceivedRepayments retrieves the payment history of a loan owned by the user
func (s *LoanService) GetReceivedRepayments(userID uuid.UUID, loanID int64) ([]*domain.ReceivedRepayment, error) {
	if _, err := s.getOwnedLoan(userID, loanID); err != nil {
		return nil, err
	}
	return s.receivedRepo.GetByLoan(loanID)
}

func (s *LoanService) getOwnedLoan(userID uuid.UUID, loanID int64) (*domain.Loan, error) {
	loan, err := s.loanRepo.GetByID(loanID)
	if err != nil {
		return nil, err
	}
	if loan.UserID != userID {
		return nil, domain.ErrLoanNotOwned
	}
	return loan, nil
}
