package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lendbook/lendbook-backend/internal/domain"
)

const loanColumns = `id, user_id, amount, outstanding_amount, currency_code, terms, status, processed_at, created_at, updated_at`

// LoanRepository implements domain.LoanRepository using PostgreSQL
type LoanRepository struct {
	pool *pgxpool.Pool
}

// NewLoanRepository creates a new LoanRepository
func NewLoanRepository(pool *pgxpool.Pool) *LoanRepository {
	return &LoanRepository{pool: pool}
}

// CreateTx inserts a new loan within a transaction
func (r *LoanRepository) CreateTx(tx interface{}, loan *domain.Loan) (*domain.Loan, error) {
	pgxTx, err := asTx(tx)
	if err != nil {
		return nil, err
	}

	row := pgxTx.QueryRow(context.Background(), `
		INSERT INTO loans (user_id, amount, outstanding_amount, currency_code, terms, status, processed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+loanColumns,
		pgUUID(loan.UserID), loan.Amount, loan.OutstandingAmount, loan.CurrencyCode,
		loan.Terms, string(loan.Status), pgDate(loan.ProcessedAt),
	)
	return scanLoan(row)
}

// GetByID retrieves a loan by its ID
func (r *LoanRepository) GetByID(id int64) (*domain.Loan, error) {
	row := r.pool.QueryRow(context.Background(),
		`SELECT `+loanColumns+` FROM loans WHERE id = $1`, id)
	loan, err := scanLoan(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrLoanNotFound
		}
		return nil, err
	}
	return loan, nil
}

// GetByIDForUpdateTx retrieves a loan and locks its row until the
// transaction ends, serializing concurrent repayments on the same loan.
func (r *LoanRepository) GetByIDForUpdateTx(tx interface{}, id int64) (*domain.Loan, error) {
	pgxTx, err := asTx(tx)
	if err != nil {
		return nil, err
	}

	row := pgxTx.QueryRow(context.Background(),
		`SELECT `+loanColumns+` FROM loans WHERE id = $1 FOR UPDATE`, id)
	loan, err := scanLoan(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrLoanNotFound
		}
		return nil, err
	}
	return loan, nil
}

// GetByUser retrieves all loans belonging to a user, newest first
func (r *LoanRepository) GetByUser(userID uuid.UUID) ([]*domain.Loan, error) {
	rows, err := r.pool.Query(context.Background(),
		`SELECT `+loanColumns+` FROM loans WHERE user_id = $1 ORDER BY created_at DESC, id DESC`,
		pgUUID(userID))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var loans []*domain.Loan
	for rows.Next() {
		loan, err := scanLoan(rows)
		if err != nil {
			return nil, err
		}
		loans = append(loans, loan)
	}
	return loans, rows.Err()
}

// UpdateBalanceTx updates a loan's status and outstanding amount within a transaction
func (r *LoanRepository) UpdateBalanceTx(tx interface{}, id int64, status domain.LoanStatus, outstanding int64) (*domain.Loan, error) {
	pgxTx, err := asTx(tx)
	if err != nil {
		return nil, err
	}

	row := pgxTx.QueryRow(context.Background(), `
		UPDATE loans
		SET status = $2, outstanding_amount = $3, updated_at = now()
		WHERE id = $1
		RETURNING `+loanColumns,
		id, string(status), outstanding)
	loan, err := scanLoan(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrLoanNotFound
		}
		return nil, err
	}
	return loan, nil
}

func scanLoan(row pgx.Row) (*domain.Loan, error) {
	var loan domain.Loan
	var userID pgtype.UUID
	var status string
	var processedAt pgtype.Date
	var createdAt, updatedAt pgtype.Timestamptz

	err := row.Scan(&loan.ID, &userID, &loan.Amount, &loan.OutstandingAmount,
		&loan.CurrencyCode, &loan.Terms, &status, &processedAt, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	loan.UserID = toUUID(userID)
	loan.Status = domain.LoanStatus(status)
	loan.ProcessedAt = processedAt.Time
	loan.CreatedAt = createdAt.Time
	loan.UpdatedAt = updatedAt.Time
	return &loan, nil
}
