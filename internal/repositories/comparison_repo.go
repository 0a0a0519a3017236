package repositories

import (
	"context"

	"pay2u/internal/common"
	"pay2u/internal/models"

	"github.com/google/uuid"
)

type ComparisonRepository interface {
	Add(ctx context.Context, comparison *models.Comparison) (bool, error)
	Remove(ctx context.Context, userID, serviceID uuid.UUID) error
	List(ctx context.Context, userID uuid.UUID) ([]*models.Comparison, error)
}

type comparisonRepo struct {
	db DBTX
}

func NewComparisonRepo(db DBTX) ComparisonRepository {
	return &comparisonRepo{db: db}
}

// Add reports false when the service is already in the user's comparison list
func (r *comparisonRepo) Add(ctx context.Context, comparison *models.Comparison) (bool, error) {
	query := `
		INSERT INTO comparisons (id, user_id, service_id, created_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (user_id, service_id) DO NOTHING
	`
	tag, err := r.db.Exec(ctx, query, comparison.ID, comparison.UserID, comparison.ServiceID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *comparisonRepo) Remove(ctx context.Context, userID, serviceID uuid.UUID) error {
	query := `DELETE FROM comparisons WHERE user_id = $1 AND service_id = $2`
	tag, err := r.db.Exec(ctx, query, userID, serviceID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return common.NewError(common.KindNotFound, "service is not in the comparison list")
	}
	return nil
}

func (r *comparisonRepo) List(ctx context.Context, userID uuid.UUID) ([]*models.Comparison, error) {
	query := `
		SELECT id, user_id, service_id, created_at
		FROM comparisons
		WHERE user_id = $1
		ORDER BY created_at ASC
	`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var comparisons []*models.Comparison
	for rows.Next() {
		comparison := &models.Comparison{}
		if err := rows.Scan(&comparison.ID, &comparison.UserID, &comparison.ServiceID, &comparison.CreatedAt); err != nil {
			return nil, err
		}
		comparisons = append(comparisons, comparison)
	}
	return comparisons, rows.Err()
}
