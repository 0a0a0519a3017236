package services

import (
	"context"
	"time"

	"pay2u/internal/billing"
	"pay2u/internal/caching"
	"pay2u/internal/common"
	"pay2u/internal/models"
	"pay2u/internal/repositories"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// SubscriptionService runs the subscribe and cancel lifecycle. A subscription is
// either present (active) or absent; cancelling deletes it without a refund.
type SubscriptionService interface {
	Create(ctx context.Context, req *CreateSubscriptionRequest) (*models.Subscription, error)
	Cancel(ctx context.Context, userID, serviceID, termID uuid.UUID) error
	Get(ctx context.Context, userID, id uuid.UUID) (*models.Subscription, error)
	List(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*models.Subscription, error)
}

type CreateSubscriptionRequest struct {
	UserID    uuid.UUID  `json:"-"`
	ServiceID uuid.UUID  `json:"-"`
	TermID    uuid.UUID  `json:"term_id" validate:"required"`
	CardID    *uuid.UUID `json:"card_id,omitempty"`
	StartDate string     `json:"start_date,omitempty"`
}

type CancelSubscriptionRequest struct {
	TermID uuid.UUID `json:"term_id" validate:"required"`
}

type subscriptionService struct {
	txm         repositories.TxManager
	subRepo     repositories.SubscriptionRepository
	catalogRepo repositories.CatalogRepository
	cardRepo    repositories.CardRepository
	ledger      LedgerService
	calculator  *billing.Calculator
	cache       caching.CacheService
	logger      *zap.Logger
	now         func() time.Time
}

// NewSubscriptionService wires the lifecycle. cache may be nil; now defaults to
// the UTC wall clock.
func NewSubscriptionService(
	txm repositories.TxManager,
	subRepo repositories.SubscriptionRepository,
	catalogRepo repositories.CatalogRepository,
	cardRepo repositories.CardRepository,
	ledger LedgerService,
	calculator *billing.Calculator,
	cache caching.CacheService,
	logger *zap.Logger,
	now func() time.Time,
) SubscriptionService {
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &subscriptionService{
		txm:         txm,
		subRepo:     subRepo,
		catalogRepo: catalogRepo,
		cardRepo:    cardRepo,
		ledger:      ledger,
		calculator:  calculator,
		cache:       cache,
		logger:      logger,
		now:         now,
	}
}

func (s *subscriptionService) Create(ctx context.Context, req *CreateSubscriptionRequest) (*models.Subscription, error) {
	if req.TermID == uuid.Nil || req.ServiceID == uuid.Nil {
		return nil, common.NewError(common.KindInvalidInput, "service_id and term_id are required")
	}

	start, err := common.ParseStartDate(req.StartDate, s.now())
	if err != nil {
		return nil, err
	}

	term, err := s.catalogRepo.GetTerm(ctx, req.ServiceID, req.TermID)
	if err != nil {
		return nil, err
	}
	if err := s.calculator.ValidateTerm(term); err != nil {
		return nil, err
	}

	exists, err := s.subRepo.Exists(ctx, req.UserID, req.ServiceID, req.TermID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, common.NewError(common.KindDuplicateSubscription, "already subscribed to this service with these terms")
	}

	card, err := s.ledger.ResolveCard(ctx, req.UserID, req.CardID)
	if err != nil {
		return nil, err
	}

	amount, err := s.calculator.Cost(term)
	if err != nil {
		return nil, err
	}
	if !s.ledger.Authorize(card, amount) {
		return nil, common.NewError(common.KindInsufficientFunds, "insufficient funds on the bank card")
	}

	end, err := s.calculator.Policy().EndDate(start, term.DurationCode)
	if err != nil {
		return nil, err
	}

	cardID := card.ID
	subscription := &models.Subscription{
		ID:         uuid.New(),
		UserID:     req.UserID,
		ServiceID:  req.ServiceID,
		TermID:     req.TermID,
		CardID:     &cardID,
		StartDate:  start,
		EndDate:    end,
		AmountPaid: amount,
		CreatedAt:  s.now(),
	}

	var balance int64
	err = s.txm.WithinTx(ctx, func(tx pgx.Tx) error {
		debited, err := debitLocked(ctx, s.cardRepo.WithTx(tx), cardID, amount)
		if err != nil {
			return err
		}
		balance = debited.Balance
		return s.subRepo.WithTx(tx).Create(ctx, subscription)
	})
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, req.UserID)
	s.logger.Info("subscription created",
		zap.String("user_id", req.UserID.String()),
		zap.String("service_id", req.ServiceID.String()),
		zap.String("term_id", req.TermID.String()),
		zap.Int64("amount", amount),
		zap.Int64("balance", balance),
		zap.Time("end_date", end),
	)
	return subscription, nil
}

func (s *subscriptionService) Cancel(ctx context.Context, userID, serviceID, termID uuid.UUID) error {
	deleted, err := s.subRepo.DeleteByKey(ctx, userID, serviceID, termID)
	if err != nil {
		return err
	}
	if !deleted {
		return common.NewError(common.KindNotSubscribed, "not subscribed to this service with these terms")
	}

	s.invalidate(ctx, userID)
	s.logger.Info("subscription cancelled",
		zap.String("user_id", userID.String()),
		zap.String("service_id", serviceID.String()),
		zap.String("term_id", termID.String()),
	)
	return nil
}

func (s *subscriptionService) Get(ctx context.Context, userID, id uuid.UUID) (*models.Subscription, error) {
	return s.subRepo.GetByID(ctx, userID, id)
}

func (s *subscriptionService) List(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*models.Subscription, error) {
	limit, offset, err := common.ValidatePaginationParams(limit, offset)
	if err != nil {
		return nil, common.NewError(common.KindInvalidInput, "%s", err.Error())
	}
	subscriptions, err := s.subRepo.List(ctx, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	if subscriptions == nil {
		subscriptions = []*models.Subscription{}
	}
	return subscriptions, nil
}

// invalidate drops cached aggregates after a change. Failures only cost freshness.
func (s *subscriptionService) invalidate(ctx context.Context, userID uuid.UUID) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateUserCache(ctx, userID); err != nil {
		s.logger.Warn("failed to invalidate user cache", zap.String("user_id", userID.String()), zap.Error(err))
	}
}
