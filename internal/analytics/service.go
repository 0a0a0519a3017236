package analytics

import (
	"context"
	"time"

	"pay2u/internal/billing"
	"pay2u/internal/caching"
	"pay2u/internal/common"
	"pay2u/internal/models"
	"pay2u/internal/repositories"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

// DefaultSummaryTTL is how long a main page summary stays cached.
const DefaultSummaryTTL = 5 * time.Minute

// FeaturedSource supplies the services shown on the main page.
type FeaturedSource interface {
	FeaturedServices(ctx context.Context) ([]*models.Service, error)
}

// AnalyticsService aggregates a user's subscriptions into spend, cashback and
// amounts due.
type AnalyticsService struct {
	subRepo  repositories.SubscriptionRepository
	featured FeaturedSource
	cache    caching.CacheService
	ttl      time.Duration
	logger   *zap.Logger
	now      func() time.Time
}

// NewAnalyticsService builds the aggregation engine. cache and featured may be nil.
func NewAnalyticsService(subRepo repositories.SubscriptionRepository, featured FeaturedSource, cache caching.CacheService, ttl time.Duration, logger *zap.Logger, now func() time.Time) *AnalyticsService {
	if ttl <= 0 {
		ttl = DefaultSummaryTTL
	}
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &AnalyticsService{
		subRepo:  subRepo,
		featured: featured,
		cache:    cache,
		ttl:      ttl,
		logger:   logger,
		now:      now,
	}
}

// TotalExpenses sums the nominal term price of each subscription.
func TotalExpenses(subs []*models.SubscriptionDetail) int64 {
	return lo.SumBy(subs, func(d *models.SubscriptionDetail) int64 {
		return d.Term.Price
	})
}

// TotalCashback sums the cashback of each subscription, rounding per item.
func TotalCashback(subs []*models.SubscriptionDetail) int64 {
	return lo.SumBy(subs, func(d *models.SubscriptionDetail) int64 {
		return billing.Cashback(&d.Term)
	})
}

// DueBetween keeps subscriptions whose end date falls in [start, end).
func DueBetween(subs []*models.SubscriptionDetail, start, end time.Time) []*models.SubscriptionDetail {
	return lo.Filter(subs, func(d *models.SubscriptionDetail, _ int) bool {
		return !d.EndDate.Before(start) && d.EndDate.Before(end)
	})
}

// TotalDue sums the term price of subscriptions ending in [start, end).
func TotalDue(subs []*models.SubscriptionDetail, start, end time.Time) int64 {
	return TotalExpenses(DueBetween(subs, start, end))
}

// Expenses reports the total nominal spend over the filtered subscriptions.
func (a *AnalyticsService) Expenses(ctx context.Context, userID uuid.UUID, filter *models.SubscriptionSearchFilter) (*models.Report, error) {
	subs, err := a.search(ctx, userID, filter)
	if err != nil {
		return nil, err
	}
	return &models.Report{UserID: userID, Total: TotalExpenses(subs), Count: len(subs), Subscriptions: subs}, nil
}

// Cashback reports the total cashback over the filtered subscriptions.
func (a *AnalyticsService) Cashback(ctx context.Context, userID uuid.UUID, filter *models.SubscriptionSearchFilter) (*models.Report, error) {
	subs, err := a.search(ctx, userID, filter)
	if err != nil {
		return nil, err
	}
	return &models.Report{UserID: userID, Total: TotalCashback(subs), Count: len(subs), Subscriptions: subs}, nil
}

// Due reports what renews in the given YYYY-MM month, the current one when empty.
// The month window is applied in SQL on end_date.
func (a *AnalyticsService) Due(ctx context.Context, userID uuid.UUID, month string, filter *models.SubscriptionSearchFilter) (*models.Report, error) {
	start, end, err := common.MonthBounds(month, a.now())
	if err != nil {
		return nil, err
	}

	scoped := &models.SubscriptionSearchFilter{}
	if filter != nil {
		if err := common.ValidateDateRange(filter.StartDateFrom, filter.StartDateTo); err != nil {
			return nil, err
		}
		*scoped = *filter
	}
	scoped.EndDateFrom = &start
	scoped.EndDateBefore = &end

	due, err := a.subRepo.SearchDetails(ctx, userID, scoped)
	if err != nil {
		return nil, common.SecureErrorMessage("load subscriptions", err)
	}
	resolved := start.Format(common.MonthLayout)
	if len(due) == 0 {
		return nil, common.NewError(common.KindNotFound, "no subscriptions due in %s", resolved)
	}
	return &models.Report{UserID: userID, Month: resolved, Total: TotalExpenses(due), Count: len(due), Subscriptions: due}, nil
}

// Summary returns the main page totals, served from cache when fresh.
func (a *AnalyticsService) Summary(ctx context.Context, userID uuid.UUID) (*models.Summary, error) {
	if a.cache != nil {
		cached, err := a.cache.GetSummary(ctx, userID)
		if err != nil {
			a.logger.Warn("summary cache read failed", zap.String("user_id", userID.String()), zap.Error(err))
		} else if cached != nil {
			return cached, nil
		}
	}
	return a.RefreshSummary(ctx, userID)
}

// RefreshSummary recomputes the main page totals and stores them in the cache.
func (a *AnalyticsService) RefreshSummary(ctx context.Context, userID uuid.UUID) (*models.Summary, error) {
	subs, err := a.subRepo.SearchDetails(ctx, userID, nil)
	if err != nil {
		return nil, common.SecureErrorMessage("load subscriptions", err)
	}

	now := a.now()
	start, end, _ := common.MonthBounds("", now)
	due := DueBetween(subs, start, end)

	summary := &models.Summary{
		UserID:           userID,
		Month:            start.Format(common.MonthLayout),
		TotalExpenses:    TotalExpenses(subs),
		TotalCashback:    TotalCashback(subs),
		TotalDue:         TotalExpenses(due),
		SubscriptionsDue: len(due),
		FeaturedServices: []*models.Service{},
		GeneratedAt:      now,
	}

	if a.featured != nil {
		featured, err := a.featured.FeaturedServices(ctx)
		if err != nil {
			a.logger.Warn("featured services unavailable", zap.Error(err))
		} else {
			summary.FeaturedServices = featured
		}
	}

	if a.cache != nil {
		if err := a.cache.SetSummary(ctx, summary, a.ttl); err != nil {
			a.logger.Warn("summary cache write failed", zap.String("user_id", userID.String()), zap.Error(err))
		}
	}
	return summary, nil
}

func (a *AnalyticsService) search(ctx context.Context, userID uuid.UUID, filter *models.SubscriptionSearchFilter) ([]*models.SubscriptionDetail, error) {
	if filter != nil {
		if err := common.ValidateDateRange(filter.StartDateFrom, filter.StartDateTo); err != nil {
			return nil, err
		}
	}

	subs, err := a.subRepo.SearchDetails(ctx, userID, filter)
	if err != nil {
		return nil, common.SecureErrorMessage("load subscriptions", err)
	}
	if len(subs) == 0 {
		return nil, common.NewError(common.KindNotFound, "no subscriptions match the filter")
	}
	return subs, nil
}
