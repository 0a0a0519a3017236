package repositories

import (
	"context"
	"fmt"
	"time"

	"pay2u/internal/common"
	"pay2u/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type SubscriptionRepository interface {
	Create(ctx context.Context, subscription *models.Subscription) error
	GetByID(ctx context.Context, userID, id uuid.UUID) (*models.Subscription, error)
	Exists(ctx context.Context, userID, serviceID, termID uuid.UUID) (bool, error)
	DeleteByKey(ctx context.Context, userID, serviceID, termID uuid.UUID) (bool, error)
	List(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*models.Subscription, error)
	SearchDetails(ctx context.Context, userID uuid.UUID, filter *models.SubscriptionSearchFilter) ([]*models.SubscriptionDetail, error)
	DetachCard(ctx context.Context, cardID uuid.UUID) (int64, error)
	ListUsersWithEndDateBetween(ctx context.Context, from, to time.Time) ([]uuid.UUID, error)
	WithTx(tx pgx.Tx) SubscriptionRepository
}

type subscriptionRepo struct {
	db DBTX
}

func NewSubscriptionRepo(db DBTX) SubscriptionRepository {
	return &subscriptionRepo{db: db}
}

func (r *subscriptionRepo) WithTx(tx pgx.Tx) SubscriptionRepository {
	return &subscriptionRepo{db: tx}
}

// Create inserts a subscription. The (user_id, service_id, term_id) unique
// constraint turns a concurrent duplicate into DuplicateSubscription.
func (r *subscriptionRepo) Create(ctx context.Context, subscription *models.Subscription) error {
	query := `
		INSERT INTO subscriptions (id, user_id, service_id, term_id, card_id, start_date, end_date, amount_paid, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())
	`
	_, err := r.db.Exec(ctx, query, subscription.ID, subscription.UserID, subscription.ServiceID, subscription.TermID, subscription.CardID, subscription.StartDate, subscription.EndDate, subscription.AmountPaid)
	if err != nil {
		if isUniqueViolation(err) {
			return common.WrapError(common.KindDuplicateSubscription, "already subscribed to this service with these terms", err)
		}
		return err
	}
	return nil
}

func (r *subscriptionRepo) GetByID(ctx context.Context, userID, id uuid.UUID) (*models.Subscription, error) {
	subscription := &models.Subscription{}
	query := `
		SELECT id, user_id, service_id, term_id, card_id, start_date, end_date, amount_paid, created_at
		FROM subscriptions
		WHERE user_id = $1 AND id = $2
	`
	err := r.db.QueryRow(ctx, query, userID, id).Scan(&subscription.ID, &subscription.UserID, &subscription.ServiceID, &subscription.TermID, &subscription.CardID, &subscription.StartDate, &subscription.EndDate, &subscription.AmountPaid, &subscription.CreatedAt)
	if err != nil {
		if isNoRows(err) {
			return nil, common.NewError(common.KindNotFound, "subscription not found")
		}
		return nil, err
	}
	return subscription, nil
}

func (r *subscriptionRepo) Exists(ctx context.Context, userID, serviceID, termID uuid.UUID) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM subscriptions
			WHERE user_id = $1 AND service_id = $2 AND term_id = $3
		)
	`
	var exists bool
	if err := r.db.QueryRow(ctx, query, userID, serviceID, termID).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

// DeleteByKey hard-deletes a subscription and reports whether a row was removed
func (r *subscriptionRepo) DeleteByKey(ctx context.Context, userID, serviceID, termID uuid.UUID) (bool, error) {
	query := `DELETE FROM subscriptions WHERE user_id = $1 AND service_id = $2 AND term_id = $3`
	tag, err := r.db.Exec(ctx, query, userID, serviceID, termID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *subscriptionRepo) List(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*models.Subscription, error) {
	query := `
		SELECT id, user_id, service_id, term_id, card_id, start_date, end_date, amount_paid, created_at
		FROM subscriptions
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.Query(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var subscriptions []*models.Subscription
	for rows.Next() {
		subscription := &models.Subscription{}
		if err := rows.Scan(&subscription.ID, &subscription.UserID, &subscription.ServiceID, &subscription.TermID, &subscription.CardID, &subscription.StartDate, &subscription.EndDate, &subscription.AmountPaid, &subscription.CreatedAt); err != nil {
			return nil, err
		}
		subscriptions = append(subscriptions, subscription)
	}
	return subscriptions, rows.Err()
}

// SearchDetails returns the user's subscriptions joined with term, service and
// category, narrowed by the optional filter fields.
func (r *subscriptionRepo) SearchDetails(ctx context.Context, userID uuid.UUID, filter *models.SubscriptionSearchFilter) ([]*models.SubscriptionDetail, error) {
	query := `
		SELECT s.id, s.user_id, s.service_id, s.term_id, s.card_id, s.start_date, s.end_date, s.amount_paid, s.created_at,
			sv.name, c.name,
			t.id, t.service_id, t.name, t.duration_code, t.price, t.cashback_percent, t.subscription_type, t.is_featured
		FROM subscriptions s
		JOIN services sv ON sv.id = s.service_id
		JOIN categories c ON c.id = sv.category_id
		JOIN terms t ON t.id = s.term_id
		WHERE s.user_id = $1`
	args := []interface{}{userID}
	conditionCount := 1

	if filter != nil {
		if filter.StartDateFrom != nil {
			conditionCount++
			query += fmt.Sprintf(` AND s.start_date >= $%d`, conditionCount)
			args = append(args, *filter.StartDateFrom)
		}
		if filter.StartDateTo != nil {
			// inclusive of the whole upper day
			conditionCount++
			query += fmt.Sprintf(` AND s.start_date < $%d`, conditionCount)
			args = append(args, filter.StartDateTo.AddDate(0, 0, 1))
		}
		if filter.CategoryName != "" {
			conditionCount++
			query += fmt.Sprintf(` AND c.name = $%d`, conditionCount)
			args = append(args, filter.CategoryName)
		}
		if filter.EndDateFrom != nil {
			conditionCount++
			query += fmt.Sprintf(` AND s.end_date >= $%d`, conditionCount)
			args = append(args, *filter.EndDateFrom)
		}
		if filter.EndDateBefore != nil {
			conditionCount++
			query += fmt.Sprintf(` AND s.end_date < $%d`, conditionCount)
			args = append(args, *filter.EndDateBefore)
		}
	}

	query += ` ORDER BY s.start_date DESC`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var details []*models.SubscriptionDetail
	for rows.Next() {
		d := &models.SubscriptionDetail{}
		if err := rows.Scan(
			&d.ID, &d.UserID, &d.ServiceID, &d.TermID, &d.CardID, &d.StartDate, &d.EndDate, &d.AmountPaid, &d.CreatedAt,
			&d.ServiceName, &d.CategoryName,
			&d.Term.ID, &d.Term.ServiceID, &d.Term.Name, &d.Term.DurationCode, &d.Term.Price, &d.Term.CashbackPercent, &d.Term.SubscriptionType, &d.Term.IsFeatured,
		); err != nil {
			return nil, err
		}
		details = append(details, d)
	}
	return details, rows.Err()
}

// DetachCard clears the card reference on every subscription billed to cardID
func (r *subscriptionRepo) DetachCard(ctx context.Context, cardID uuid.UUID) (int64, error) {
	query := `UPDATE subscriptions SET card_id = NULL WHERE card_id = $1`
	tag, err := r.db.Exec(ctx, query, cardID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// ListUsersWithEndDateBetween returns users having a subscription ending in [from, to)
func (r *subscriptionRepo) ListUsersWithEndDateBetween(ctx context.Context, from, to time.Time) ([]uuid.UUID, error) {
	query := `
		SELECT DISTINCT user_id
		FROM subscriptions
		WHERE end_date >= $1 AND end_date < $2
	`
	rows, err := r.db.Query(ctx, query, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var userIDs []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		userIDs = append(userIDs, id)
	}
	return userIDs, rows.Err()
}
