package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lendbook/lendbook-backend/internal/domain"
)

const scheduledRepaymentColumns = `id, loan_id, amount, outstanding_amount, currency_code, due_date, status, created_at, updated_at`

// ScheduledRepaymentRepository implements domain.ScheduledRepaymentRepository using PostgreSQL
type ScheduledRepaymentRepository struct {
	pool *pgxpool.Pool
}

// NewScheduledRepaymentRepository creates a new ScheduledRepaymentRepository
func NewScheduledRepaymentRepository(pool *pgxpool.Pool) *ScheduledRepaymentRepository {
	return &ScheduledRepaymentRepository{pool: pool}
}

// CreateBatchTx inserts a loan's full schedule within a transaction,
// filling in the generated IDs and timestamps.
func (r *ScheduledRepaymentRepository) CreateBatchTx(tx interface{}, repayments []*domain.ScheduledRepayment) error {
	pgxTx, err := asTx(tx)
	if err != nil {
		return err
	}

	ctx := context.Background()
	for _, sr := range repayments {
		row := pgxTx.QueryRow(ctx, `
			INSERT INTO scheduled_repayments (loan_id, amount, outstanding_amount, currency_code, due_date, status)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING `+scheduledRepaymentColumns,
			sr.LoanID, sr.Amount, sr.OutstandingAmount, sr.CurrencyCode,
			pgDate(sr.DueDate), string(sr.Status))
		created, err := scanScheduledRepayment(row)
		if err != nil {
			return err
		}
		*sr = *created
	}
	return nil
}

// GetByLoan retrieves all installments of a loan in schedule order
func (r *ScheduledRepaymentRepository) GetByLoan(loanID int64) ([]*domain.ScheduledRepayment, error) {
	rows, err := r.pool.Query(context.Background(),
		`SELECT `+scheduledRepaymentColumns+` FROM scheduled_repayments
		 WHERE loan_id = $1 ORDER BY due_date ASC, id ASC`, loanID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectScheduledRepayments(rows)
}

// GetSettleableTx retrieves the due and partial installments of a loan,
// ordered by due date ascending with id as the stable tie-break.
func (r *ScheduledRepaymentRepository) GetSettleableTx(tx interface{}, loanID int64) ([]*domain.ScheduledRepayment, error) {
	pgxTx, err := asTx(tx)
	if err != nil {
		return nil, err
	}

	rows, err := pgxTx.Query(context.Background(),
		`SELECT `+scheduledRepaymentColumns+` FROM scheduled_repayments
		 WHERE loan_id = $1 AND status IN ($2, $3)
		 ORDER BY due_date ASC, id ASC`,
		loanID, string(domain.RepaymentStatusDue), string(domain.RepaymentStatusPartial))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectScheduledRepayments(rows)
}

// UpdateAllocationTx updates an installment's status and outstanding amount
// within a transaction
func (r *ScheduledRepaymentRepository) UpdateAllocationTx(tx interface{}, id int64, status domain.RepaymentStatus, outstanding int64) error {
	pgxTx, err := asTx(tx)
	if err != nil {
		return err
	}

	tag, err := pgxTx.Exec(context.Background(), `
		UPDATE scheduled_repayments
		SET status = $2, outstanding_amount = $3, updated_at = now()
		WHERE id = $1`,
		id, string(status), outstanding)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrScheduledRepaymentNotFound
	}
	return nil
}

// SumAmountByStatusTx sums the amount of a loan's installments with the
// given status
func (r *ScheduledRepaymentRepository) SumAmountByStatusTx(tx interface{}, loanID int64, status domain.RepaymentStatus) (int64, error) {
	pgxTx, err := asTx(tx)
	if err != nil {
		return 0, err
	}

	var sum int64
	err = pgxTx.QueryRow(context.Background(), `
		SELECT COALESCE(SUM(amount), 0) FROM scheduled_repayments
		WHERE loan_id = $1 AND status = $2`,
		loanID, string(status)).Scan(&sum)
	return sum, err
}

// SumOutstandingByStatusTx sums the outstanding amount of a loan's
// installments with the given status
func (r *ScheduledRepaymentRepository) SumOutstandingByStatusTx(tx interface{}, loanID int64, status domain.RepaymentStatus) (int64, error) {
	pgxTx, err := asTx(tx)
	if err != nil {
		return 0, err
	}

	var sum int64
	err = pgxTx.QueryRow(context.Background(), `
		SELECT COALESCE(SUM(outstanding_amount), 0) FROM scheduled_repayments
		WHERE loan_id = $1 AND status = $2`,
		loanID, string(status)).Scan(&sum)
	return sum, err
}

func collectScheduledRepayments(rows pgx.Rows) ([]*domain.ScheduledRepayment, error) {
	var repayments []*domain.ScheduledRepayment
	for rows.Next() {
		sr, err := scanScheduledRepayment(rows)
		if err != nil {
			return nil, err
		}
		repayments = append(repayments, sr)
	}
	return repayments, rows.Err()
}

func scanScheduledRepayment(row pgx.Row) (*domain.ScheduledRepayment, error) {
	var sr domain.ScheduledRepayment
	var status string
	var dueDate pgtype.Date
	var createdAt, updatedAt pgtype.Timestamptz

	err := row.Scan(&sr.ID, &sr.LoanID, &sr.Amount, &sr.OutstandingAmount,
		&sr.CurrencyCode, &dueDate, &status, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	sr.Status = domain.RepaymentStatus(status)
	sr.DueDate = dueDate.Time
	sr.CreatedAt = createdAt.Time
	sr.UpdatedAt = updatedAt.Time
	return &sr, nil
}
