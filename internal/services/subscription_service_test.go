package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"pay2u/internal/billing"
	"pay2u/internal/common"
	"pay2u/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
)

type SubscriptionServiceTestSuite struct {
	suite.Suite
	txm         *MockTxManager
	subRepo     *MockSubscriptionRepository
	catalogRepo *MockCatalogRepository
	cardRepo    *MockCardRepository
	cache       *MockCacheService
	service     SubscriptionService
	now         time.Time
	userID      uuid.UUID
	serviceID   uuid.UUID
	ctx         context.Context
}

func (suite *SubscriptionServiceTestSuite) SetupTest() {
	suite.txm = &MockTxManager{}
	suite.subRepo = &MockSubscriptionRepository{}
	suite.catalogRepo = &MockCatalogRepository{}
	suite.cardRepo = &MockCardRepository{}
	suite.cache = &MockCacheService{}
	suite.subRepo.Test(suite.T())
	suite.catalogRepo.Test(suite.T())
	suite.cardRepo.Test(suite.T())
	suite.cache.Test(suite.T())

	suite.now = time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	suite.userID = uuid.New()
	suite.serviceID = uuid.New()
	suite.ctx = context.Background()
	suite.service = suite.newService(billing.NewDurationPolicy(365, true))
}

func (suite *SubscriptionServiceTestSuite) newService(policy billing.DurationPolicy) SubscriptionService {
	logger := zap.NewNop()
	ledger := NewLedgerService(suite.txm, suite.cardRepo, suite.subRepo, DefaultCardBalance, logger)
	return NewSubscriptionService(suite.txm, suite.subRepo, suite.catalogRepo, suite.cardRepo, ledger,
		billing.NewCalculator(policy), suite.cache, logger, func() time.Time { return suite.now })
}

func (suite *SubscriptionServiceTestSuite) TearDownTest() {
	suite.subRepo.AssertExpectations(suite.T())
	suite.catalogRepo.AssertExpectations(suite.T())
	suite.cardRepo.AssertExpectations(suite.T())
	suite.cache.AssertExpectations(suite.T())
}

func TestSubscriptionServiceTestSuite(t *testing.T) {
	suite.Run(t, new(SubscriptionServiceTestSuite))
}

func (suite *SubscriptionServiceTestSuite) term(code models.DurationCode, price int64) *models.Term {
	return &models.Term{
		ID:               uuid.New(),
		ServiceID:        suite.serviceID,
		Name:             string(code),
		DurationCode:     code,
		Price:            price,
		CashbackPercent:  3,
		SubscriptionType: models.SubscriptionTypePaid,
	}
}

func (suite *SubscriptionServiceTestSuite) card(balance int64) *models.Card {
	return &models.Card{ID: uuid.New(), UserID: suite.userID, CardNumber: "4000123412341234", Balance: balance, IsActive: true}
}

// expectQuote registers the reads that precede the payment transaction
func (suite *SubscriptionServiceTestSuite) expectQuote(term *models.Term, card *models.Card) {
	suite.catalogRepo.On("GetTerm", mock.Anything, suite.serviceID, term.ID).Return(term, nil).Once()
	suite.subRepo.On("Exists", mock.Anything, suite.userID, suite.serviceID, term.ID).Return(false, nil).Once()
	suite.cardRepo.On("ListByUser", mock.Anything, suite.userID).Return([]*models.Card{card}, nil).Once()
}

func (suite *SubscriptionServiceTestSuite) request(term *models.Term) *CreateSubscriptionRequest {
	return &CreateSubscriptionRequest{UserID: suite.userID, ServiceID: suite.serviceID, TermID: term.ID}
}

func (suite *SubscriptionServiceTestSuite) TestCreate_DebitsCardAndSetsEndDate() {
	term := suite.term(models.DurationOneMonth, 1000)
	card := suite.card(5000)
	suite.expectQuote(term, card)
	suite.cardRepo.On("GetForUpdate", mock.Anything, card.ID).Return(card, nil).Once()
	suite.cardRepo.On("Debit", mock.Anything, card.ID, int64(1000)).Return(int64(4000), nil).Once()
	suite.subRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.Subscription")).Return(nil).Once()
	suite.cache.On("InvalidateUserCache", mock.Anything, suite.userID).Return(nil).Once()

	sub, err := suite.service.Create(suite.ctx, suite.request(term))
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), suite.now, sub.StartDate)
	assert.Equal(suite.T(), suite.now.AddDate(0, 0, 30), sub.EndDate)
	assert.Equal(suite.T(), int64(1000), sub.AmountPaid)
	require.NotNil(suite.T(), sub.CardID)
	assert.Equal(suite.T(), card.ID, *sub.CardID)
	assert.Equal(suite.T(), int64(4000), card.Balance)
}

func (suite *SubscriptionServiceTestSuite) TestCreate_ExplicitStartDate() {
	term := suite.term(models.DurationThreeMonths, 500)
	card := suite.card(5000)
	suite.expectQuote(term, card)
	suite.cardRepo.On("GetForUpdate", mock.Anything, card.ID).Return(card, nil).Once()
	suite.cardRepo.On("Debit", mock.Anything, card.ID, int64(1500)).Return(int64(3500), nil).Once()
	suite.subRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.Subscription")).Return(nil).Once()
	suite.cache.On("InvalidateUserCache", mock.Anything, suite.userID).Return(nil).Once()

	req := suite.request(term)
	req.StartDate = "2024-01-15T08:30:00"
	sub, err := suite.service.Create(suite.ctx, req)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), time.Date(2024, 1, 15, 8, 30, 0, 0, time.UTC), sub.StartDate)
	assert.Equal(suite.T(), time.Date(2024, 4, 14, 8, 30, 0, 0, time.UTC), sub.EndDate)
	assert.Equal(suite.T(), int64(1500), sub.AmountPaid)
}

func (suite *SubscriptionServiceTestSuite) TestCreate_YearCostsMoreThanBalance() {
	term := suite.term(models.DurationOneYear, 1000)
	card := suite.card(5000)
	suite.expectQuote(term, card)

	sub, err := suite.service.Create(suite.ctx, suite.request(term))
	assert.Nil(suite.T(), sub)
	assert.True(suite.T(), errors.Is(err, common.ErrInsufficientFunds))
	assert.Equal(suite.T(), int64(5000), card.Balance)
	assert.Equal(suite.T(), 0, suite.txm.Calls)
}

func (suite *SubscriptionServiceTestSuite) TestCreate_ExactBalance() {
	term := suite.term(models.DurationOneMonth, 1000)
	card := suite.card(1000)
	suite.expectQuote(term, card)
	suite.cardRepo.On("GetForUpdate", mock.Anything, card.ID).Return(card, nil).Once()
	suite.cardRepo.On("Debit", mock.Anything, card.ID, int64(1000)).Return(int64(0), nil).Once()
	suite.subRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.Subscription")).Return(nil).Once()
	suite.cache.On("InvalidateUserCache", mock.Anything, suite.userID).Return(nil).Once()

	_, err := suite.service.Create(suite.ctx, suite.request(term))
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), int64(0), card.Balance)
}

func (suite *SubscriptionServiceTestSuite) TestCreate_Duplicate() {
	term := suite.term(models.DurationOneMonth, 1000)
	suite.catalogRepo.On("GetTerm", mock.Anything, suite.serviceID, term.ID).Return(term, nil).Once()
	suite.subRepo.On("Exists", mock.Anything, suite.userID, suite.serviceID, term.ID).Return(true, nil).Once()

	sub, err := suite.service.Create(suite.ctx, suite.request(term))
	assert.Nil(suite.T(), sub)
	assert.True(suite.T(), errors.Is(err, common.ErrDuplicateSubscription))
	suite.cardRepo.AssertNotCalled(suite.T(), "Debit", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *SubscriptionServiceTestSuite) TestCreate_DuplicateRaceCaughtByConstraint() {
	term := suite.term(models.DurationOneMonth, 1000)
	card := suite.card(5000)
	suite.expectQuote(term, card)
	suite.cardRepo.On("GetForUpdate", mock.Anything, card.ID).Return(card, nil).Once()
	suite.cardRepo.On("Debit", mock.Anything, card.ID, int64(1000)).Return(int64(4000), nil).Once()
	suite.subRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.Subscription")).
		Return(common.NewError(common.KindDuplicateSubscription, "already subscribed to this service with these terms")).Once()

	sub, err := suite.service.Create(suite.ctx, suite.request(term))
	assert.Nil(suite.T(), sub)
	assert.True(suite.T(), errors.Is(err, common.ErrDuplicateSubscription))
	suite.cache.AssertNotCalled(suite.T(), "InvalidateUserCache", mock.Anything, mock.Anything)
}

func (suite *SubscriptionServiceTestSuite) TestCreate_NoPaymentMethod() {
	term := suite.term(models.DurationOneMonth, 1000)
	suite.catalogRepo.On("GetTerm", mock.Anything, suite.serviceID, term.ID).Return(term, nil).Once()
	suite.subRepo.On("Exists", mock.Anything, suite.userID, suite.serviceID, term.ID).Return(false, nil).Once()
	suite.cardRepo.On("ListByUser", mock.Anything, suite.userID).Return([]*models.Card{}, nil).Once()

	_, err := suite.service.Create(suite.ctx, suite.request(term))
	assert.True(suite.T(), errors.Is(err, common.ErrNoPaymentMethod))
}

func (suite *SubscriptionServiceTestSuite) TestCreate_ExplicitCardOfAnotherUser() {
	term := suite.term(models.DurationOneMonth, 1000)
	cardID := uuid.New()
	suite.catalogRepo.On("GetTerm", mock.Anything, suite.serviceID, term.ID).Return(term, nil).Once()
	suite.subRepo.On("Exists", mock.Anything, suite.userID, suite.serviceID, term.ID).Return(false, nil).Once()
	suite.cardRepo.On("GetByID", mock.Anything, suite.userID, cardID).Return(nil, common.NewError(common.KindNotFound, "card not found")).Once()

	req := suite.request(term)
	req.CardID = &cardID
	_, err := suite.service.Create(suite.ctx, req)
	assert.True(suite.T(), errors.Is(err, common.ErrNotFound))
}

func (suite *SubscriptionServiceTestSuite) TestCreate_TermOfAnotherService() {
	termID := uuid.New()
	suite.catalogRepo.On("GetTerm", mock.Anything, suite.serviceID, termID).
		Return(nil, common.NewError(common.KindNotFound, "term not found for this service")).Once()

	_, err := suite.service.Create(suite.ctx, &CreateSubscriptionRequest{UserID: suite.userID, ServiceID: suite.serviceID, TermID: termID})
	assert.True(suite.T(), errors.Is(err, common.ErrNotFound))
}

func (suite *SubscriptionServiceTestSuite) TestCreate_BadStartDate() {
	req := &CreateSubscriptionRequest{UserID: suite.userID, ServiceID: suite.serviceID, TermID: uuid.New(), StartDate: "10.03.2024"}

	_, err := suite.service.Create(suite.ctx, req)
	assert.True(suite.T(), errors.Is(err, common.ErrInvalidInput))
}

func (suite *SubscriptionServiceTestSuite) TestCreate_UnknownDurationStrict() {
	term := suite.term(models.DurationCode("two_weeks"), 1000)
	suite.catalogRepo.On("GetTerm", mock.Anything, suite.serviceID, term.ID).Return(term, nil).Once()

	_, err := suite.service.Create(suite.ctx, suite.request(term))
	assert.True(suite.T(), errors.Is(err, common.ErrInvalidDurationCode))
	assert.Equal(suite.T(), 0, suite.txm.Calls)
}

func (suite *SubscriptionServiceTestSuite) TestCreate_RejectsCorruptTerm() {
	negative := suite.term(models.DurationOneMonth, -100)
	generous := suite.term(models.DurationOneMonth, 1000)
	generous.CashbackPercent = 150

	for _, term := range []*models.Term{negative, generous} {
		suite.catalogRepo.On("GetTerm", mock.Anything, suite.serviceID, term.ID).Return(term, nil).Once()

		sub, err := suite.service.Create(suite.ctx, suite.request(term))
		assert.Nil(suite.T(), sub)
		assert.True(suite.T(), errors.Is(err, common.ErrInvalidInput))
	}
	assert.Equal(suite.T(), 0, suite.txm.Calls)
	suite.cardRepo.AssertNotCalled(suite.T(), "Debit", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *SubscriptionServiceTestSuite) TestCreate_UnknownDurationLenientBillsOneMonth() {
	suite.service = suite.newService(billing.NewDurationPolicy(365, false))
	term := suite.term(models.DurationCode("two_weeks"), 1000)
	card := suite.card(5000)
	suite.expectQuote(term, card)
	suite.cardRepo.On("GetForUpdate", mock.Anything, card.ID).Return(card, nil).Once()
	suite.cardRepo.On("Debit", mock.Anything, card.ID, int64(1000)).Return(int64(4000), nil).Once()
	suite.subRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.Subscription")).Return(nil).Once()
	suite.cache.On("InvalidateUserCache", mock.Anything, suite.userID).Return(nil).Once()

	sub, err := suite.service.Create(suite.ctx, suite.request(term))
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), suite.now.AddDate(0, 0, 30), sub.EndDate)
}

func (suite *SubscriptionServiceTestSuite) TestCreate_CommitFailure() {
	suite.txm.CommitErr = common.WrapError(common.KindTransactionFailed, "could not commit transaction", errors.New("connection lost"))
	term := suite.term(models.DurationOneMonth, 1000)
	card := suite.card(5000)
	suite.expectQuote(term, card)
	suite.cardRepo.On("GetForUpdate", mock.Anything, card.ID).Return(card, nil).Once()
	suite.cardRepo.On("Debit", mock.Anything, card.ID, int64(1000)).Return(int64(4000), nil).Once()
	suite.subRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.Subscription")).Return(nil).Once()

	sub, err := suite.service.Create(suite.ctx, suite.request(term))
	assert.Nil(suite.T(), sub)
	assert.True(suite.T(), errors.Is(err, common.ErrTransactionFailed))
	suite.cache.AssertNotCalled(suite.T(), "InvalidateUserCache", mock.Anything, mock.Anything)
}

func (suite *SubscriptionServiceTestSuite) TestCancel_TwiceReportsNotSubscribed() {
	termID := uuid.New()
	suite.subRepo.On("DeleteByKey", mock.Anything, suite.userID, suite.serviceID, termID).Return(true, nil).Once()
	suite.subRepo.On("DeleteByKey", mock.Anything, suite.userID, suite.serviceID, termID).Return(false, nil).Once()
	suite.cache.On("InvalidateUserCache", mock.Anything, suite.userID).Return(nil).Once()

	require.NoError(suite.T(), suite.service.Cancel(suite.ctx, suite.userID, suite.serviceID, termID))

	err := suite.service.Cancel(suite.ctx, suite.userID, suite.serviceID, termID)
	assert.True(suite.T(), errors.Is(err, common.ErrNotSubscribed))
}

func (suite *SubscriptionServiceTestSuite) TestCancel_DoesNotRefund() {
	termID := uuid.New()
	suite.subRepo.On("DeleteByKey", mock.Anything, suite.userID, suite.serviceID, termID).Return(true, nil).Once()
	suite.cache.On("InvalidateUserCache", mock.Anything, suite.userID).Return(errors.New("redis down")).Once()

	err := suite.service.Cancel(suite.ctx, suite.userID, suite.serviceID, termID)
	assert.NoError(suite.T(), err)
	suite.cardRepo.AssertNotCalled(suite.T(), "Debit", mock.Anything, mock.Anything, mock.Anything)
	assert.Equal(suite.T(), 0, suite.txm.Calls)
}

func (suite *SubscriptionServiceTestSuite) TestList_EmptyIsNotNil() {
	suite.subRepo.On("List", mock.Anything, suite.userID, 50, 0).Return(nil, nil).Once()

	subs, err := suite.service.List(suite.ctx, suite.userID, 0, 0)
	require.NoError(suite.T(), err)
	assert.NotNil(suite.T(), subs)
	assert.Empty(suite.T(), subs)
}
