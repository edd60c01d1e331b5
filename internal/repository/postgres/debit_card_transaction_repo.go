package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lendbook/lendbook-backend/internal/domain"
)

const debitCardTransactionColumns = `id, debit_card_id, amount, currency_code, created_at`

// DebitCardTransactionRepository implements domain.DebitCardTransactionRepository using PostgreSQL
type DebitCardTransactionRepository struct {
	pool *pgxpool.Pool
}

// NewDebitCardTransactionRepository creates a new DebitCardTransactionRepository
func NewDebitCardTransactionRepository(pool *pgxpool.Pool) *DebitCardTransactionRepository {
	return &DebitCardTransactionRepository{pool: pool}
}

// Create inserts a new debit card transaction
func (r *DebitCardTransactionRepository) Create(transaction *domain.DebitCardTransaction) (*domain.DebitCardTransaction, error) {
	row := r.pool.QueryRow(context.Background(), `
		INSERT INTO debit_card_transactions (debit_card_id, amount, currency_code)
		VALUES ($1, $2, $3)
		RETURNING `+debitCardTransactionColumns,
		transaction.DebitCardID, transaction.Amount, transaction.CurrencyCode)
	return scanDebitCardTransaction(row)
}

// GetByID retrieves a debit card transaction by its ID
func (r *DebitCardTransactionRepository) GetByID(id int64) (*domain.DebitCardTransaction, error) {
	row := r.pool.QueryRow(context.Background(),
		`SELECT `+debitCardTransactionColumns+` FROM debit_card_transactions WHERE id = $1`, id)
	transaction, err := scanDebitCardTransaction(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrDebitCardTransactionNotFound
		}
		return nil, err
	}
	return transaction, nil
}

// GetByCard retrieves a card's transactions, newest first
func (r *DebitCardTransactionRepository) GetByCard(debitCardID int64) ([]*domain.DebitCardTransaction, error) {
	rows, err := r.pool.Query(context.Background(),
		`SELECT `+debitCardTransactionColumns+` FROM debit_card_transactions
		 WHERE debit_card_id = $1 ORDER BY created_at DESC, id DESC`, debitCardID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var transactions []*domain.DebitCardTransaction
	for rows.Next() {
		transaction, err := scanDebitCardTransaction(rows)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, transaction)
	}
	return transactions, rows.Err()
}

func scanDebitCardTransaction(row pgx.Row) (*domain.DebitCardTransaction, error) {
	var transaction domain.DebitCardTransaction
	var createdAt pgtype.Timestamptz

	err := row.Scan(&transaction.ID, &transaction.DebitCardID, &transaction.Amount,
		&transaction.CurrencyCode, &createdAt)
	if err != nil {
		return nil, err
	}

	transaction.CreatedAt = createdAt.Time
	return &transaction, nil
}
