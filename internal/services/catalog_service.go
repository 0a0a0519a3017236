package services

import (
	"context"
	"strings"
	"time"

	"pay2u/internal/caching"
	"pay2u/internal/models"
	"pay2u/internal/repositories"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const featuredServicesTTL = 10 * time.Minute

// CatalogService serves the read-only catalog of categories, services and terms.
type CatalogService interface {
	ListCategories(ctx context.Context) ([]*models.Category, error)
	ListServices(ctx context.Context, req *ListServicesRequest) ([]*models.Service, error)
	GetService(ctx context.Context, id uuid.UUID) (*models.Service, error)
	GetTerm(ctx context.Context, serviceID, termID uuid.UUID) (*models.Term, error)
	FeaturedServices(ctx context.Context) ([]*models.Service, error)
	GetServicesByIDs(ctx context.Context, ids []uuid.UUID) ([]*models.Service, error)
}

type ListServicesRequest struct {
	Category   string
	IsFeatured *bool
	Search     string
	Limit      int
	Offset     int
}

type catalogService struct {
	catalogRepo repositories.CatalogRepository
	logos       LogoService
	cache       caching.CacheService
	logger      *zap.Logger
}

// NewCatalogService builds the catalog. logos and cache are optional.
func NewCatalogService(catalogRepo repositories.CatalogRepository, logos LogoService, cache caching.CacheService, logger *zap.Logger) CatalogService {
	return &catalogService{catalogRepo: catalogRepo, logos: logos, cache: cache, logger: logger}
}

func (s *catalogService) ListCategories(ctx context.Context) ([]*models.Category, error) {
	categories, err := s.catalogRepo.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	if categories == nil {
		categories = []*models.Category{}
	}
	return categories, nil
}

func (s *catalogService) ListServices(ctx context.Context, req *ListServicesRequest) ([]*models.Service, error) {
	filter := &models.ServiceSearchFilter{
		IsFeatured: req.IsFeatured,
		Query:      strings.TrimSpace(req.Search),
		Limit:      req.Limit,
		Offset:     req.Offset,
	}
	if name := strings.TrimSpace(req.Category); name != "" {
		category, err := s.catalogRepo.GetCategoryByName(ctx, name)
		if err != nil {
			return nil, err
		}
		filter.CategoryID = &category.ID
	}

	services, err := s.catalogRepo.ListServices(ctx, filter)
	if err != nil {
		return nil, err
	}
	if services == nil {
		services = []*models.Service{}
	}
	s.attachLogos(ctx, services)
	return services, nil
}

func (s *catalogService) GetService(ctx context.Context, id uuid.UUID) (*models.Service, error) {
	service, err := s.catalogRepo.GetService(ctx, id)
	if err != nil {
		return nil, err
	}

	terms, err := s.catalogRepo.ListTerms(ctx, id)
	if err != nil {
		return nil, err
	}
	service.Terms = terms
	s.attachLogos(ctx, []*models.Service{service})
	return service, nil
}

func (s *catalogService) GetTerm(ctx context.Context, serviceID, termID uuid.UUID) (*models.Term, error) {
	return s.catalogRepo.GetTerm(ctx, serviceID, termID)
}

// FeaturedServices returns services flagged for the main page, cached when a
// cache is configured.
func (s *catalogService) FeaturedServices(ctx context.Context) ([]*models.Service, error) {
	if s.cache != nil {
		cached, err := s.cache.GetFeaturedServices(ctx)
		if err != nil {
			s.logger.Warn("featured services cache read failed", zap.Error(err))
		} else if cached != nil {
			return cached, nil
		}
	}

	featured := true
	services, err := s.ListServices(ctx, &ListServicesRequest{IsFeatured: &featured})
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		// presigned URLs outlive this TTL
		if err := s.cache.SetFeaturedServices(ctx, services, featuredServicesTTL); err != nil {
			s.logger.Warn("featured services cache write failed", zap.Error(err))
		}
	}
	return services, nil
}

func (s *catalogService) GetServicesByIDs(ctx context.Context, ids []uuid.UUID) ([]*models.Service, error) {
	services, err := s.catalogRepo.GetServicesByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	s.attachLogos(ctx, services)
	return services, nil
}

func (s *catalogService) attachLogos(ctx context.Context, services []*models.Service) {
	if s.logos == nil {
		return
	}
	for _, service := range services {
		if service.ImageKey == "" {
			continue
		}
		url, err := s.logos.LogoURL(ctx, service.ImageKey)
		if err != nil {
			s.logger.Warn("failed to presign logo", zap.String("service_id", service.ID.String()), zap.Error(err))
			continue
		}
		service.ImageURL = url
	}
}
