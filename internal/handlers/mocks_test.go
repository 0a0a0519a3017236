package handlers

import (
	"context"

	"pay2u/internal/models"
	"pay2u/internal/services"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type MockCatalogService struct {
	mock.Mock
}

func (m *MockCatalogService) ListCategories(ctx context.Context) ([]*models.Category, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Category), args.Error(1)
}

func (m *MockCatalogService) ListServices(ctx context.Context, req *services.ListServicesRequest) ([]*models.Service, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Service), args.Error(1)
}

func (m *MockCatalogService) GetService(ctx context.Context, id uuid.UUID) (*models.Service, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Service), args.Error(1)
}

func (m *MockCatalogService) GetTerm(ctx context.Context, serviceID, termID uuid.UUID) (*models.Term, error) {
	args := m.Called(ctx, serviceID, termID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Term), args.Error(1)
}

func (m *MockCatalogService) FeaturedServices(ctx context.Context) ([]*models.Service, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Service), args.Error(1)
}

func (m *MockCatalogService) GetServicesByIDs(ctx context.Context, ids []uuid.UUID) ([]*models.Service, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Service), args.Error(1)
}

type MockSubscriptionService struct {
	mock.Mock
}

func (m *MockSubscriptionService) Create(ctx context.Context, req *services.CreateSubscriptionRequest) (*models.Subscription, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Subscription), args.Error(1)
}

func (m *MockSubscriptionService) Cancel(ctx context.Context, userID, serviceID, termID uuid.UUID) error {
	args := m.Called(ctx, userID, serviceID, termID)
	return args.Error(0)
}

func (m *MockSubscriptionService) Get(ctx context.Context, userID, id uuid.UUID) (*models.Subscription, error) {
	args := m.Called(ctx, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Subscription), args.Error(1)
}

func (m *MockSubscriptionService) List(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*models.Subscription, error) {
	args := m.Called(ctx, userID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Subscription), args.Error(1)
}

type MockLedgerService struct {
	mock.Mock
}

func (m *MockLedgerService) Authorize(card *models.Card, amount int64) bool {
	args := m.Called(card, amount)
	return args.Bool(0)
}

func (m *MockLedgerService) Debit(ctx context.Context, cardID uuid.UUID, amount int64) (*models.Card, error) {
	args := m.Called(ctx, cardID, amount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Card), args.Error(1)
}

func (m *MockLedgerService) Activate(ctx context.Context, userID, cardID uuid.UUID) (*models.Card, error) {
	args := m.Called(ctx, userID, cardID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Card), args.Error(1)
}

func (m *MockLedgerService) ResolveCard(ctx context.Context, userID uuid.UUID, cardID *uuid.UUID) (*models.Card, error) {
	args := m.Called(ctx, userID, cardID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Card), args.Error(1)
}

func (m *MockLedgerService) ListCards(ctx context.Context, userID uuid.UUID) ([]*models.Card, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Card), args.Error(1)
}

func (m *MockLedgerService) IssueCard(ctx context.Context, userID uuid.UUID, cardNumber string) (*models.Card, error) {
	args := m.Called(ctx, userID, cardNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Card), args.Error(1)
}

func (m *MockLedgerService) RemoveCard(ctx context.Context, userID, cardID uuid.UUID) error {
	args := m.Called(ctx, userID, cardID)
	return args.Error(0)
}

type MockComparisonService struct {
	mock.Mock
}

func (m *MockComparisonService) Add(ctx context.Context, userID, serviceID uuid.UUID) (*models.Comparison, error) {
	args := m.Called(ctx, userID, serviceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Comparison), args.Error(1)
}

func (m *MockComparisonService) Remove(ctx context.Context, userID, serviceID uuid.UUID) error {
	args := m.Called(ctx, userID, serviceID)
	return args.Error(0)
}

func (m *MockComparisonService) List(ctx context.Context, userID uuid.UUID) ([]*models.Comparison, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Comparison), args.Error(1)
}

type MockReportService struct {
	mock.Mock
}

func (m *MockReportService) Expenses(ctx context.Context, userID uuid.UUID, filter *models.SubscriptionSearchFilter) (*models.Report, error) {
	args := m.Called(ctx, userID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Report), args.Error(1)
}

func (m *MockReportService) Cashback(ctx context.Context, userID uuid.UUID, filter *models.SubscriptionSearchFilter) (*models.Report, error) {
	args := m.Called(ctx, userID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Report), args.Error(1)
}

func (m *MockReportService) Due(ctx context.Context, userID uuid.UUID, month string, filter *models.SubscriptionSearchFilter) (*models.Report, error) {
	args := m.Called(ctx, userID, month, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Report), args.Error(1)
}

func (m *MockReportService) Summary(ctx context.Context, userID uuid.UUID) (*models.Summary, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Summary), args.Error(1)
}

type stubPinger struct {
	err error
}

func (s stubPinger) Ping(ctx context.Context) error {
	return s.err
}
