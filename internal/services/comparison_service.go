package services

import (
	"context"

	"pay2u/internal/models"
	"pay2u/internal/repositories"

	"github.com/google/uuid"
)

// ComparisonService keeps the list of services a user is comparing side by side.
type ComparisonService interface {
	Add(ctx context.Context, userID, serviceID uuid.UUID) (*models.Comparison, error)
	Remove(ctx context.Context, userID, serviceID uuid.UUID) error
	List(ctx context.Context, userID uuid.UUID) ([]*models.Comparison, error)
}

type comparisonService struct {
	comparisonRepo repositories.ComparisonRepository
	catalog        CatalogService
}

func NewComparisonService(comparisonRepo repositories.ComparisonRepository, catalog CatalogService) ComparisonService {
	return &comparisonService{comparisonRepo: comparisonRepo, catalog: catalog}
}

// Add is idempotent: adding a service twice keeps a single entry.
func (s *comparisonService) Add(ctx context.Context, userID, serviceID uuid.UUID) (*models.Comparison, error) {
	service, err := s.catalog.GetService(ctx, serviceID)
	if err != nil {
		return nil, err
	}

	comparison := &models.Comparison{
		ID:        uuid.New(),
		UserID:    userID,
		ServiceID: serviceID,
		Service:   service,
	}
	if _, err := s.comparisonRepo.Add(ctx, comparison); err != nil {
		return nil, err
	}
	return comparison, nil
}

func (s *comparisonService) Remove(ctx context.Context, userID, serviceID uuid.UUID) error {
	return s.comparisonRepo.Remove(ctx, userID, serviceID)
}

// List returns the comparison entries with their service offers attached
func (s *comparisonService) List(ctx context.Context, userID uuid.UUID) ([]*models.Comparison, error) {
	comparisons, err := s.comparisonRepo.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(comparisons) == 0 {
		return []*models.Comparison{}, nil
	}

	ids := make([]uuid.UUID, 0, len(comparisons))
	for _, c := range comparisons {
		ids = append(ids, c.ServiceID)
	}
	services, err := s.catalog.GetServicesByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	byID := make(map[uuid.UUID]*models.Service, len(services))
	for _, service := range services {
		byID[service.ID] = service
	}
	for _, c := range comparisons {
		c.Service = byID[c.ServiceID]
	}
	return comparisons, nil
}
