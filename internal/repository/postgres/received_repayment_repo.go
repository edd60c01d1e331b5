package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lendbook/lendbook-backend/internal/domain"
)

const receivedRepaymentColumns = `id, loan_id, amount, currency_code, received_at, created_at`

// ReceivedRepaymentRepository implements domain.ReceivedRepaymentRepository using PostgreSQL
type ReceivedRepaymentRepository struct {
	pool *pgxpool.Pool
}

// NewReceivedRepaymentRepository creates a new ReceivedRepaymentRepository
func NewReceivedRepaymentRepository(pool *pgxpool.Pool) *ReceivedRepaymentRepository {
	return &ReceivedRepaymentRepository{pool: pool}
}

// CreateTx appends a received-repayment audit record within a transaction
func (r *ReceivedRepaymentRepository) CreateTx(tx interface{}, repayment *domain.ReceivedRepayment) (*domain.ReceivedRepayment, error) {
	pgxTx, err := asTx(tx)
	if err != nil {
		return nil, err
	}

	row := pgxTx.QueryRow(context.Background(), `
		INSERT INTO received_repayments (loan_id, amount, currency_code, received_at)
		VALUES ($1, $2, $3, $4)
		RETURNING `+receivedRepaymentColumns,
		repayment.LoanID, repayment.Amount, repayment.CurrencyCode, pgDate(repayment.ReceivedAt))
	return scanReceivedRepayment(row)
}

// GetByLoan retrieves a loan's received repayments, oldest first
func (r *ReceivedRepaymentRepository) GetByLoan(loanID int64) ([]*domain.ReceivedRepayment, error) {
	rows, err := r.pool.Query(context.Background(),
		`SELECT `+receivedRepaymentColumns+` FROM received_repayments
		 WHERE loan_id = $1 ORDER BY received_at ASC, id ASC`, loanID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var repayments []*domain.ReceivedRepayment
	for rows.Next() {
		rr, err := scanReceivedRepayment(rows)
		if err != nil {
			return nil, err
		}
		repayments = append(repayments, rr)
	}
	return repayments, rows.Err()
}

func scanReceivedRepayment(row pgx.Row) (*domain.ReceivedRepayment, error) {
	var rr domain.ReceivedRepayment
	var receivedAt pgtype.Date
	var createdAt pgtype.Timestamptz

	err := row.Scan(&rr.ID, &rr.LoanID, &rr.Amount, &rr.CurrencyCode, &receivedAt, &createdAt)
	if err != nil {
		return nil, err
	}

	rr.ReceivedAt = receivedAt.Time
	rr.CreatedAt = createdAt.Time
	return &rr, nil
}
