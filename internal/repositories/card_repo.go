package repositories

import (
	"context"

	"pay2u/internal/common"
	"pay2u/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type CardRepository interface {
	Create(ctx context.Context, card *models.Card) error
	GetByID(ctx context.Context, userID, id uuid.UUID) (*models.Card, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.Card, error)
	GetForUpdate(ctx context.Context, id uuid.UUID) (*models.Card, error)
	LockUserCards(ctx context.Context, userID uuid.UUID) ([]*models.Card, error)
	Debit(ctx context.Context, id uuid.UUID, amount int64) (int64, error)
	SetActive(ctx context.Context, userID, id uuid.UUID) error
	Delete(ctx context.Context, userID, id uuid.UUID) error
	WithTx(tx pgx.Tx) CardRepository
}

type cardRepo struct {
	db DBTX
}

func NewCardRepo(db DBTX) CardRepository {
	return &cardRepo{db: db}
}

func (r *cardRepo) WithTx(tx pgx.Tx) CardRepository {
	return &cardRepo{db: tx}
}

func (r *cardRepo) Create(ctx context.Context, card *models.Card) error {
	query := `
		INSERT INTO cards (id, user_id, card_number, balance, is_active, created_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
	`
	_, err := r.db.Exec(ctx, query, card.ID, card.UserID, card.CardNumber, card.Balance, card.IsActive)
	if err != nil {
		if isUniqueViolation(err) {
			return common.WrapError(common.KindInvalidInput, "card number is already registered", err)
		}
		return err
	}
	return nil
}

func (r *cardRepo) GetByID(ctx context.Context, userID, id uuid.UUID) (*models.Card, error) {
	card := &models.Card{}
	query := `
		SELECT id, user_id, card_number, balance, is_active, created_at
		FROM cards
		WHERE user_id = $1 AND id = $2
	`
	err := r.db.QueryRow(ctx, query, userID, id).Scan(&card.ID, &card.UserID, &card.CardNumber, &card.Balance, &card.IsActive, &card.CreatedAt)
	if err != nil {
		if isNoRows(err) {
			return nil, common.NewError(common.KindNotFound, "card not found")
		}
		return nil, err
	}
	return card, nil
}

// ListByUser returns the active card first, then the rest oldest first
func (r *cardRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.Card, error) {
	query := `
		SELECT id, user_id, card_number, balance, is_active, created_at
		FROM cards
		WHERE user_id = $1
		ORDER BY is_active DESC, created_at ASC
	`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cards []*models.Card
	for rows.Next() {
		card := &models.Card{}
		if err := rows.Scan(&card.ID, &card.UserID, &card.CardNumber, &card.Balance, &card.IsActive, &card.CreatedAt); err != nil {
			return nil, err
		}
		cards = append(cards, card)
	}
	return cards, rows.Err()
}

// GetForUpdate reads a card and holds its row lock until the transaction ends
func (r *cardRepo) GetForUpdate(ctx context.Context, id uuid.UUID) (*models.Card, error) {
	card := &models.Card{}
	query := `
		SELECT id, user_id, card_number, balance, is_active, created_at
		FROM cards
		WHERE id = $1
		FOR UPDATE
	`
	err := r.db.QueryRow(ctx, query, id).Scan(&card.ID, &card.UserID, &card.CardNumber, &card.Balance, &card.IsActive, &card.CreatedAt)
	if err != nil {
		if isNoRows(err) {
			return nil, common.NewError(common.KindNotFound, "card not found")
		}
		return nil, err
	}
	return card, nil
}

// LockUserCards locks every card of a user so activation changes serialize per user
func (r *cardRepo) LockUserCards(ctx context.Context, userID uuid.UUID) ([]*models.Card, error) {
	query := `
		SELECT id, user_id, card_number, balance, is_active, created_at
		FROM cards
		WHERE user_id = $1
		ORDER BY created_at ASC
		FOR UPDATE
	`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cards []*models.Card
	for rows.Next() {
		card := &models.Card{}
		if err := rows.Scan(&card.ID, &card.UserID, &card.CardNumber, &card.Balance, &card.IsActive, &card.CreatedAt); err != nil {
			return nil, err
		}
		cards = append(cards, card)
	}
	return cards, rows.Err()
}

// Debit decrements the balance only if it covers amount and returns the new balance
func (r *cardRepo) Debit(ctx context.Context, id uuid.UUID, amount int64) (int64, error) {
	query := `
		UPDATE cards
		SET balance = balance - $1
		WHERE id = $2 AND balance >= $1
		RETURNING balance
	`
	var balance int64
	err := r.db.QueryRow(ctx, query, amount, id).Scan(&balance)
	if err != nil {
		if isNoRows(err) {
			return 0, common.NewError(common.KindInsufficientFunds, "insufficient funds on the bank card")
		}
		return 0, err
	}
	return balance, nil
}

// SetActive marks one card active and clears the flag on the user's other cards.
// Callers run it inside a transaction.
func (r *cardRepo) SetActive(ctx context.Context, userID, id uuid.UUID) error {
	deactivate := `UPDATE cards SET is_active = false WHERE user_id = $1 AND id <> $2 AND is_active`
	if _, err := r.db.Exec(ctx, deactivate, userID, id); err != nil {
		return err
	}

	activate := `UPDATE cards SET is_active = true WHERE user_id = $1 AND id = $2`
	tag, err := r.db.Exec(ctx, activate, userID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return common.NewError(common.KindNotFound, "card not found")
	}
	return nil
}

func (r *cardRepo) Delete(ctx context.Context, userID, id uuid.UUID) error {
	query := `DELETE FROM cards WHERE user_id = $1 AND id = $2`
	tag, err := r.db.Exec(ctx, query, userID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return common.NewError(common.KindNotFound, "card not found")
	}
	return nil
}
