package background

import (
	"context"
	"sync"
	"time"

	"pay2u/internal/common"
	"pay2u/internal/models"

	"github.com/go-co-op/gocron/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	// DefaultRenewalInterval is how often the renewal digest runs
	DefaultRenewalInterval = time.Hour
	renewalDigestJob       = "renewal-digest"
	maxConcurrentRefreshes = 5
)

// SummaryRefresher recomputes and caches a user's main page summary.
type SummaryRefresher interface {
	RefreshSummary(ctx context.Context, userID uuid.UUID) (*models.Summary, error)
}

// RenewalSource lists users with subscriptions ending in [from, to).
type RenewalSource interface {
	ListUsersWithEndDateBetween(ctx context.Context, from, to time.Time) ([]uuid.UUID, error)
}

// JobScheduler runs read-only background jobs. It never mutates subscriptions.
type JobScheduler struct {
	scheduler gocron.Scheduler
	refresher SummaryRefresher
	renewals  RenewalSource
	interval  time.Duration
	logger    *zap.Logger
	now       func() time.Time
	jobs      map[string]gocron.Job
	mu        sync.RWMutex
}

// NewJobScheduler creates a scheduler with the renewal digest registered.
func NewJobScheduler(refresher SummaryRefresher, renewals RenewalSource, interval time.Duration, logger *zap.Logger) (*JobScheduler, error) {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}
	if interval <= 0 {
		interval = DefaultRenewalInterval
	}

	js := &JobScheduler{
		scheduler: scheduler,
		refresher: refresher,
		renewals:  renewals,
		interval:  interval,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
		jobs:      make(map[string]gocron.Job),
	}

	if err := js.registerJobs(); err != nil {
		_ = scheduler.Shutdown()
		return nil, err
	}
	return js, nil
}

// Start starts the job scheduler
func (js *JobScheduler) Start() {
	js.logger.Info("starting background job scheduler", zap.Duration("renewal_interval", js.interval))
	js.scheduler.Start()
}

// Stop stops the job scheduler and waits for running jobs
func (js *JobScheduler) Stop() error {
	js.logger.Info("stopping background job scheduler")
	return js.scheduler.Shutdown()
}

// JobNames lists the registered jobs
func (js *JobScheduler) JobNames() []string {
	js.mu.RLock()
	defer js.mu.RUnlock()

	names := make([]string, 0, len(js.jobs))
	for name := range js.jobs {
		names = append(names, name)
	}
	return names
}

func (js *JobScheduler) registerJobs() error {
	job, err := js.scheduler.NewJob(
		gocron.DurationJob(js.interval),
		gocron.NewTask(js.runRenewalDigest, context.Background()),
		gocron.WithName(renewalDigestJob),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return err
	}

	js.mu.Lock()
	js.jobs[renewalDigestJob] = job
	js.mu.Unlock()
	return nil
}

func (js *JobScheduler) runRenewalDigest(ctx context.Context) {
	if _, err := js.RunRenewalDigest(ctx); err != nil {
		js.logger.Error("renewal digest failed", zap.Error(err))
	}
}

// RunRenewalDigest refreshes the cached summary of every user with a subscription
// ending this month and logs what they owe. It returns how many users were refreshed.
func (js *JobScheduler) RunRenewalDigest(ctx context.Context) (int, error) {
	start, end, err := common.MonthBounds("", js.now())
	if err != nil {
		return 0, err
	}

	userIDs, err := js.renewals.ListUsersWithEndDateBetween(ctx, start, end)
	if err != nil {
		return 0, err
	}

	semaphore := make(chan struct{}, maxConcurrentRefreshes)
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		refreshed int
	)

	for _, userID := range userIDs {
		wg.Add(1)
		go func(userID uuid.UUID) {
			defer wg.Done()
			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			summary, err := js.refresher.RefreshSummary(ctx, userID)
			if err != nil {
				js.logger.Warn("failed to refresh summary", zap.String("user_id", userID.String()), zap.Error(err))
				return
			}

			js.logger.Info("renewals due",
				zap.String("user_id", userID.String()),
				zap.String("month", summary.Month),
				zap.Int("subscriptions_due", summary.SubscriptionsDue),
				zap.Int64("total_due", summary.TotalDue),
			)
			mu.Lock()
			refreshed++
			mu.Unlock()
		}(userID)
	}

	wg.Wait()
	js.logger.Info("renewal digest completed", zap.Int("users", len(userIDs)), zap.Int("refreshed", refreshed))
	return refreshed, nil
}
