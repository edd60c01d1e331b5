package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lendbook/lendbook-backend/internal/domain"
)

const debitCardColumns = `id, user_id, number, type, expiration_date, disabled_at, created_at, updated_at`

// DebitCardRepository implements domain.DebitCardRepository using PostgreSQL
type DebitCardRepository struct {
	pool *pgxpool.Pool
}

// NewDebitCardRepository creates a new DebitCardRepository
func NewDebitCardRepository(pool *pgxpool.Pool) *DebitCardRepository {
	return &DebitCardRepository{pool: pool}
}

// Create inserts a new debit card
func (r *DebitCardRepository) Create(card *domain.DebitCard) (*domain.DebitCard, error) {
	row := r.pool.QueryRow(context.Background(), `
		INSERT INTO debit_cards (user_id, number, type, expiration_date)
		VALUES ($1, $2, $3, $4)
		RETURNING `+debitCardColumns,
		pgUUID(card.UserID), card.Number, card.Type, pgDate(card.ExpirationDate))
	return scanDebitCard(row)
}

// GetByID retrieves a debit card by its ID
func (r *DebitCardRepository) GetByID(id int64) (*domain.DebitCard, error) {
	row := r.pool.QueryRow(context.Background(),
		`SELECT `+debitCardColumns+` FROM debit_cards WHERE id = $1`, id)
	card, err := scanDebitCard(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrDebitCardNotFound
		}
		return nil, err
	}
	return card, nil
}

// GetActiveByUser retrieves a user's cards that have not been disabled,
// newest first
func (r *DebitCardRepository) GetActiveByUser(userID uuid.UUID) ([]*domain.DebitCard, error) {
	rows, err := r.pool.Query(context.Background(),
		`SELECT `+debitCardColumns+` FROM debit_cards
		 WHERE user_id = $1 AND disabled_at IS NULL
		 ORDER BY created_at DESC, id DESC`,
		pgUUID(userID))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cards []*domain.DebitCard
	for rows.Next() {
		card, err := scanDebitCard(rows)
		if err != nil {
			return nil, err
		}
		cards = append(cards, card)
	}
	return cards, rows.Err()
}

// UpdateDisabledAt sets or clears the card's disabled timestamp
func (r *DebitCardRepository) UpdateDisabledAt(id int64, disabledAt *time.Time) (*domain.DebitCard, error) {
	row := r.pool.QueryRow(context.Background(), `
		UPDATE debit_cards
		SET disabled_at = $2, updated_at = now()
		WHERE id = $1
		RETURNING `+debitCardColumns,
		id, pgTimestamptzPtr(disabledAt))
	card, err := scanDebitCard(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrDebitCardNotFound
		}
		return nil, err
	}
	return card, nil
}

// Delete removes a debit card
func (r *DebitCardRepository) Delete(id int64) error {
	tag, err := r.pool.Exec(context.Background(),
		`DELETE FROM debit_cards WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrDebitCardNotFound
	}
	return nil
}

func scanDebitCard(row pgx.Row) (*domain.DebitCard, error) {
	var card domain.DebitCard
	var userID pgtype.UUID
	var expirationDate pgtype.Date
	var disabledAt, createdAt, updatedAt pgtype.Timestamptz

	err := row.Scan(&card.ID, &userID, &card.Number, &card.Type,
		&expirationDate, &disabledAt, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	card.UserID = toUUID(userID)
	card.ExpirationDate = expirationDate.Time
	card.DisabledAt = timePtr(disabledAt)
	card.CreatedAt = createdAt.Time
	card.UpdatedAt = updatedAt.Time
	return &card, nil
}
