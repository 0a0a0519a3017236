package services

import (
	"context"
	"time"

	"pay2u/internal/models"
	"pay2u/internal/repositories"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/mock"
)

// MockTxManager runs the unit of work inline and can fail the commit.
type MockTxManager struct {
	mock.Mock
	CommitErr error
	Calls     int
}

func (m *MockTxManager) WithinTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	m.Calls++
	if err := fn(nil); err != nil {
		return err
	}
	return m.CommitErr
}

type MockCardRepository struct {
	mock.Mock
}

func (m *MockCardRepository) Create(ctx context.Context, card *models.Card) error {
	args := m.Called(ctx, card)
	return args.Error(0)
}

func (m *MockCardRepository) GetByID(ctx context.Context, userID, id uuid.UUID) (*models.Card, error) {
	args := m.Called(ctx, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Card), args.Error(1)
}

func (m *MockCardRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.Card, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Card), args.Error(1)
}

func (m *MockCardRepository) GetForUpdate(ctx context.Context, id uuid.UUID) (*models.Card, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Card), args.Error(1)
}

func (m *MockCardRepository) LockUserCards(ctx context.Context, userID uuid.UUID) ([]*models.Card, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Card), args.Error(1)
}

func (m *MockCardRepository) Debit(ctx context.Context, id uuid.UUID, amount int64) (int64, error) {
	args := m.Called(ctx, id, amount)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCardRepository) SetActive(ctx context.Context, userID, id uuid.UUID) error {
	args := m.Called(ctx, userID, id)
	return args.Error(0)
}

func (m *MockCardRepository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	args := m.Called(ctx, userID, id)
	return args.Error(0)
}

func (m *MockCardRepository) WithTx(tx pgx.Tx) repositories.CardRepository {
	return m
}

type MockSubscriptionRepository struct {
	mock.Mock
}

func (m *MockSubscriptionRepository) Create(ctx context.Context, subscription *models.Subscription) error {
	args := m.Called(ctx, subscription)
	return args.Error(0)
}

func (m *MockSubscriptionRepository) GetByID(ctx context.Context, userID, id uuid.UUID) (*models.Subscription, error) {
	args := m.Called(ctx, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Subscription), args.Error(1)
}

func (m *MockSubscriptionRepository) Exists(ctx context.Context, userID, serviceID, termID uuid.UUID) (bool, error) {
	args := m.Called(ctx, userID, serviceID, termID)
	return args.Bool(0), args.Error(1)
}

func (m *MockSubscriptionRepository) DeleteByKey(ctx context.Context, userID, serviceID, termID uuid.UUID) (bool, error) {
	args := m.Called(ctx, userID, serviceID, termID)
	return args.Bool(0), args.Error(1)
}

func (m *MockSubscriptionRepository) List(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*models.Subscription, error) {
	args := m.Called(ctx, userID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Subscription), args.Error(1)
}

func (m *MockSubscriptionRepository) SearchDetails(ctx context.Context, userID uuid.UUID, filter *models.SubscriptionSearchFilter) ([]*models.SubscriptionDetail, error) {
	args := m.Called(ctx, userID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.SubscriptionDetail), args.Error(1)
}

func (m *MockSubscriptionRepository) DetachCard(ctx context.Context, cardID uuid.UUID) (int64, error) {
	args := m.Called(ctx, cardID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockSubscriptionRepository) ListUsersWithEndDateBetween(ctx context.Context, from, to time.Time) ([]uuid.UUID, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uuid.UUID), args.Error(1)
}

func (m *MockSubscriptionRepository) WithTx(tx pgx.Tx) repositories.SubscriptionRepository {
	return m
}

type MockCatalogRepository struct {
	mock.Mock
}

func (m *MockCatalogRepository) ListCategories(ctx context.Context) ([]*models.Category, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Category), args.Error(1)
}

func (m *MockCatalogRepository) GetCategoryByName(ctx context.Context, name string) (*models.Category, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Category), args.Error(1)
}

func (m *MockCatalogRepository) ListServices(ctx context.Context, filter *models.ServiceSearchFilter) ([]*models.Service, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Service), args.Error(1)
}

func (m *MockCatalogRepository) GetService(ctx context.Context, id uuid.UUID) (*models.Service, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Service), args.Error(1)
}

func (m *MockCatalogRepository) ListTerms(ctx context.Context, serviceID uuid.UUID) ([]*models.Term, error) {
	args := m.Called(ctx, serviceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Term), args.Error(1)
}

func (m *MockCatalogRepository) GetTerm(ctx context.Context, serviceID, termID uuid.UUID) (*models.Term, error) {
	args := m.Called(ctx, serviceID, termID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Term), args.Error(1)
}

func (m *MockCatalogRepository) GetServicesByIDs(ctx context.Context, ids []uuid.UUID) ([]*models.Service, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Service), args.Error(1)
}

type MockComparisonRepository struct {
	mock.Mock
}

func (m *MockComparisonRepository) Add(ctx context.Context, comparison *models.Comparison) (bool, error) {
	args := m.Called(ctx, comparison)
	return args.Bool(0), args.Error(1)
}

func (m *MockComparisonRepository) Remove(ctx context.Context, userID, serviceID uuid.UUID) error {
	args := m.Called(ctx, userID, serviceID)
	return args.Error(0)
}

func (m *MockComparisonRepository) List(ctx context.Context, userID uuid.UUID) ([]*models.Comparison, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Comparison), args.Error(1)
}

type MockCacheService struct {
	mock.Mock
}

func (m *MockCacheService) GetSummary(ctx context.Context, userID uuid.UUID) (*models.Summary, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Summary), args.Error(1)
}

func (m *MockCacheService) SetSummary(ctx context.Context, summary *models.Summary, ttl time.Duration) error {
	args := m.Called(ctx, summary, ttl)
	return args.Error(0)
}

func (m *MockCacheService) GetFeaturedServices(ctx context.Context) ([]*models.Service, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Service), args.Error(1)
}

func (m *MockCacheService) SetFeaturedServices(ctx context.Context, services []*models.Service, ttl time.Duration) error {
	args := m.Called(ctx, services, ttl)
	return args.Error(0)
}

func (m *MockCacheService) InvalidateUserCache(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockCacheService) IsRateLimited(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	args := m.Called(ctx, key, limit, window)
	return args.Bool(0), args.Error(1)
}

func (m *MockCacheService) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockCacheService) Close() error {
	args := m.Called()
	return args.Error(0)
}

type MockLogoService struct {
	mock.Mock
}

func (m *MockLogoService) LogoURL(ctx context.Context, objectName string) (string, error) {
	args := m.Called(ctx, objectName)
	return args.String(0), args.Error(1)
}

func (m *MockLogoService) EnsureBucketExists(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockLogoService) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
