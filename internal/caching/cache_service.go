package caching

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"pay2u/internal/models"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const keyPrefix = "pay2u"

type CacheService interface {
	// Main page summary caching
	GetSummary(ctx context.Context, userID uuid.UUID) (*models.Summary, error)
	SetSummary(ctx context.Context, summary *models.Summary, ttl time.Duration) error

	// Featured services caching
	GetFeaturedServices(ctx context.Context) ([]*models.Service, error)
	SetFeaturedServices(ctx context.Context, services []*models.Service, ttl time.Duration) error

	// Cache invalidation
	InvalidateUserCache(ctx context.Context, userID uuid.UUID) error

	// Rate limiting
	IsRateLimited(ctx context.Context, key string, limit int, window time.Duration) (bool, error)

	Ping(ctx context.Context) error
	Close() error
}

type redisCacheService struct {
	client *redis.Client
	logger *zap.Logger
}

// NewRedisCacheService connects to addr, accepting either host:port or a redis:// URL.
func NewRedisCacheService(addr, password string, db int, logger *zap.Logger) CacheService {
	parsedAddr := NormalizeAddr(addr)

	client := redis.NewClient(&redis.Options{
		Addr:     parsedAddr,
		Password: password,
		DB:       db,
	})

	if pingErr := client.Ping(context.Background()).Err(); pingErr != nil {
		logger.Warn("redis ping failed on initialization", zap.String("addr", parsedAddr), zap.Error(pingErr))
	} else {
		logger.Debug("redis connection established", zap.String("addr", parsedAddr))
	}

	return &redisCacheService{client: client, logger: logger}
}

// NormalizeAddr strips a redis:// or rediss:// scheme from addr
func NormalizeAddr(addr string) string {
	for _, scheme := range []string{"rediss://", "redis://"} {
		if strings.HasPrefix(addr, scheme) {
			return strings.TrimSuffix(strings.TrimPrefix(addr, scheme), "/")
		}
	}
	return addr
}

func SummaryKey(userID uuid.UUID) string {
	return fmt.Sprintf("%s:summary:%s", keyPrefix, userID.String())
}

func FeaturedServicesKey() string {
	return keyPrefix + ":catalog:featured"
}

func RateLimitKey(key string) string {
	return fmt.Sprintf("%s:ratelimit:%s", keyPrefix, key)
}

func (r *redisCacheService) GetSummary(ctx context.Context, userID uuid.UUID) (*models.Summary, error) {
	data, err := r.client.Get(ctx, SummaryKey(userID)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // cache miss
		}
		return nil, err
	}

	var summary models.Summary
	if err := json.Unmarshal(data, &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}

func (r *redisCacheService) SetSummary(ctx context.Context, summary *models.Summary, ttl time.Duration) error {
	data, err := json.Marshal(summary)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, SummaryKey(summary.UserID), data, ttl).Err()
}

func (r *redisCacheService) GetFeaturedServices(ctx context.Context) ([]*models.Service, error) {
	data, err := r.client.Get(ctx, FeaturedServicesKey()).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // cache miss
		}
		return nil, err
	}

	var services []*models.Service
	if err := json.Unmarshal(data, &services); err != nil {
		return nil, err
	}
	return services, nil
}

func (r *redisCacheService) SetFeaturedServices(ctx context.Context, services []*models.Service, ttl time.Duration) error {
	data, err := json.Marshal(services)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, FeaturedServicesKey(), data, ttl).Err()
}

func (r *redisCacheService) InvalidateUserCache(ctx context.Context, userID uuid.UUID) error {
	return r.client.Del(ctx, SummaryKey(userID)).Err()
}

// IsRateLimited counts a hit against key in a fixed window and reports whether
// the count now exceeds limit.
func (r *redisCacheService) IsRateLimited(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	cacheKey := RateLimitKey(key)
	count, err := r.client.Incr(ctx, cacheKey).Result()
	if err != nil {
		return true, err
	}

	// Set expiry on first request
	if count == 1 {
		if err := r.client.Expire(ctx, cacheKey, window).Err(); err != nil {
			r.logger.Warn("failed to set rate limit window", zap.String("key", cacheKey), zap.Error(err))
		}
	}

	return count > int64(limit), nil
}

func (r *redisCacheService) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *redisCacheService) Close() error {
	return r.client.Close()
}
