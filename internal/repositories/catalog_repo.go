package repositories

import (
	"context"
	"fmt"

	"pay2u/internal/common"
	"pay2u/internal/models"

	"github.com/google/uuid"
)

// CatalogRepository reads categories, services and their terms. The catalog is
// seeded by migrations and is read-only at runtime.
type CatalogRepository interface {
	ListCategories(ctx context.Context) ([]*models.Category, error)
	GetCategoryByName(ctx context.Context, name string) (*models.Category, error)
	ListServices(ctx context.Context, filter *models.ServiceSearchFilter) ([]*models.Service, error)
	GetService(ctx context.Context, id uuid.UUID) (*models.Service, error)
	ListTerms(ctx context.Context, serviceID uuid.UUID) ([]*models.Term, error)
	GetTerm(ctx context.Context, serviceID, termID uuid.UUID) (*models.Term, error)
	GetServicesByIDs(ctx context.Context, ids []uuid.UUID) ([]*models.Service, error)
}

type catalogRepo struct {
	db DBTX
}

func NewCatalogRepo(db DBTX) CatalogRepository {
	return &catalogRepo{db: db}
}

const serviceColumns = `
		sv.id, sv.category_id, c.name, sv.name, sv.text, sv.image_key, sv.is_featured,
		COALESCE(MIN(t.price), 0), COALESCE(MAX(t.cashback_percent), 0)`

const serviceFrom = `
		FROM services sv
		JOIN categories c ON c.id = sv.category_id
		LEFT JOIN terms t ON t.service_id = sv.id`

const serviceGroupBy = `
		GROUP BY sv.id, c.name`

func (r *catalogRepo) ListCategories(ctx context.Context) ([]*models.Category, error) {
	query := `SELECT id, name, text FROM categories ORDER BY name`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []*models.Category
	for rows.Next() {
		category := &models.Category{}
		if err := rows.Scan(&category.ID, &category.Name, &category.Text); err != nil {
			return nil, err
		}
		categories = append(categories, category)
	}
	return categories, rows.Err()
}

func (r *catalogRepo) GetCategoryByName(ctx context.Context, name string) (*models.Category, error) {
	category := &models.Category{}
	query := `SELECT id, name, text FROM categories WHERE name = $1`
	err := r.db.QueryRow(ctx, query, name).Scan(&category.ID, &category.Name, &category.Text)
	if err != nil {
		if isNoRows(err) {
			return nil, common.NewError(common.KindNotFound, "category %q not found", name)
		}
		return nil, err
	}
	return category, nil
}

// ListServices returns services with their cheapest term price and best cashback
func (r *catalogRepo) ListServices(ctx context.Context, filter *models.ServiceSearchFilter) ([]*models.Service, error) {
	query := `SELECT` + serviceColumns + serviceFrom + `
		WHERE 1=1`
	args := []interface{}{}
	argCount := 0

	limit, offset := 50, 0
	if filter != nil {
		if filter.CategoryID != nil {
			argCount++
			query += fmt.Sprintf(` AND sv.category_id = $%d`, argCount)
			args = append(args, *filter.CategoryID)
		}
		if filter.IsFeatured != nil {
			argCount++
			query += fmt.Sprintf(` AND sv.is_featured = $%d`, argCount)
			args = append(args, *filter.IsFeatured)
		}
		if filter.Query != "" {
			argCount++
			query += fmt.Sprintf(` AND sv.name ILIKE $%d`, argCount)
			args = append(args, "%"+filter.Query+"%")
		}
		if filter.Limit > 0 {
			limit = filter.Limit
		}
		if filter.Offset > 0 {
			offset = filter.Offset
		}
	}

	query += serviceGroupBy + fmt.Sprintf(`
		ORDER BY sv.name
		LIMIT $%d OFFSET $%d`, argCount+1, argCount+2)
	args = append(args, limit, offset)

	return r.queryServices(ctx, query, args...)
}

func (r *catalogRepo) GetService(ctx context.Context, id uuid.UUID) (*models.Service, error) {
	query := `SELECT` + serviceColumns + serviceFrom + `
		WHERE sv.id = $1` + serviceGroupBy

	service := &models.Service{}
	err := r.db.QueryRow(ctx, query, id).Scan(&service.ID, &service.CategoryID, &service.CategoryName, &service.Name,
		&service.Text, &service.ImageKey, &service.IsFeatured, &service.MinPrice, &service.MaxCashback)
	if err != nil {
		if isNoRows(err) {
			return nil, common.NewError(common.KindNotFound, "service not found")
		}
		return nil, err
	}
	return service, nil
}

func (r *catalogRepo) GetServicesByIDs(ctx context.Context, ids []uuid.UUID) ([]*models.Service, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	query := `SELECT` + serviceColumns + serviceFrom + `
		WHERE sv.id = ANY($1)` + serviceGroupBy + `
		ORDER BY sv.name`
	return r.queryServices(ctx, query, ids)
}

func (r *catalogRepo) queryServices(ctx context.Context, query string, args ...interface{}) ([]*models.Service, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var services []*models.Service
	for rows.Next() {
		service := &models.Service{}
		if err := rows.Scan(&service.ID, &service.CategoryID, &service.CategoryName, &service.Name,
			&service.Text, &service.ImageKey, &service.IsFeatured, &service.MinPrice, &service.MaxCashback); err != nil {
			return nil, err
		}
		services = append(services, service)
	}
	return services, rows.Err()
}

func (r *catalogRepo) ListTerms(ctx context.Context, serviceID uuid.UUID) ([]*models.Term, error) {
	query := `
		SELECT id, service_id, name, duration_code, price, cashback_percent, subscription_type, is_featured
		FROM terms
		WHERE service_id = $1
		ORDER BY price ASC
	`
	rows, err := r.db.Query(ctx, query, serviceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var terms []*models.Term
	for rows.Next() {
		term := &models.Term{}
		if err := rows.Scan(&term.ID, &term.ServiceID, &term.Name, &term.DurationCode, &term.Price,
			&term.CashbackPercent, &term.SubscriptionType, &term.IsFeatured); err != nil {
			return nil, err
		}
		terms = append(terms, term)
	}
	return terms, rows.Err()
}

// GetTerm loads a term only if it belongs to serviceID
func (r *catalogRepo) GetTerm(ctx context.Context, serviceID, termID uuid.UUID) (*models.Term, error) {
	term := &models.Term{}
	query := `
		SELECT id, service_id, name, duration_code, price, cashback_percent, subscription_type, is_featured
		FROM terms
		WHERE service_id = $1 AND id = $2
	`
	err := r.db.QueryRow(ctx, query, serviceID, termID).Scan(&term.ID, &term.ServiceID, &term.Name, &term.DurationCode,
		&term.Price, &term.CashbackPercent, &term.SubscriptionType, &term.IsFeatured)
	if err != nil {
		if isNoRows(err) {
			return nil, common.NewError(common.KindNotFound, "term not found for this service")
		}
		return nil, err
	}
	return term, nil
}
