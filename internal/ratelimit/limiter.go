package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pourrice/pourrice/internal/config"
	"github.com/pourrice/pourrice/internal/storage"
	"github.com/redis/go-redis/v9"
)

// RateLimiter defines the contract for enforcing rate limits.
type RateLimiter interface {
	// AllowNearby checks if an IP may run another nearby lookup.
	AllowNearby(ctx context.Context, ip string) (bool, error)

	// AllowAssistant checks if a user may ask the assistant again.
	AllowAssistant(ctx context.Context, userID string) (bool, error)

	// AllowIPRequest checks if an IP can make a request.
	AllowIPRequest(ctx context.Context, ip string) (bool, error)

	// ResetLimits clears the counters for an IP and a user.
	ResetLimits(ctx context.Context, ip, userID string) error
}

type Limiter struct {
	redis  storage.RedisClient
	config config.RateLimitConfig
	now    func() time.Time
}

func NewLimiter(redisClient storage.RedisClient, config config.RateLimitConfig) *Limiter {
	return &Limiter{
		redis:  redisClient,
		config: config,
		now:    time.Now,
	}
}

func (l *Limiter) AllowNearby(ctx context.Context, ip string) (bool, error) {
	return l.checkSlidingWindow(ctx, nearbyKey(ip), l.config.NearbyPerMin, time.Minute)
}

func (l *Limiter) AllowAssistant(ctx context.Context, userID string) (bool, error) {
	return l.checkSlidingWindow(ctx, assistantKey(userID), l.config.AssistantPerMin, time.Minute)
}

func (l *Limiter) AllowIPRequest(ctx context.Context, ip string) (bool, error) {
	return l.checkSlidingWindow(ctx, requestsKey(ip), l.config.RequestsPerMin, time.Minute)
}

// checkSlidingWindow implements a sliding window rate limiter using sorted sets.
// A non-positive maxCount disables the limit.
func (l *Limiter) checkSlidingWindow(ctx context.Context, key string, maxCount int, window time.Duration) (bool, error) {
	if maxCount <= 0 {
		return true, nil
	}

	now := l.now()
	windowStart := now.Add(-window).UnixMilli()

	// Remove old entries outside the window
	if err := l.redis.ZRemRangeByScore(ctx, key, "-inf", fmt.Sprintf("(%d", windowStart)); err != nil {
		return false, fmt.Errorf("failed to clean old entries: %w", err)
	}

	count, err := l.redis.ZCard(ctx, key)
	if err != nil {
		return false, fmt.Errorf("failed to count entries: %w", err)
	}

	if count >= int64(maxCount) {
		return false, nil
	}

	// Members must be unique or bursts within one millisecond collapse.
	if err := l.redis.ZAdd(ctx, key, redis.Z{
		Score:  float64(now.UnixMilli()),
		Member: uuid.NewString(),
	}); err != nil {
		return false, fmt.Errorf("failed to add entry: %w", err)
	}

	l.redis.Expire(ctx, key, window)

	return true, nil
}

// ResetLimits resets the limits for an IP and a user (use with caution)
func (l *Limiter) ResetLimits(ctx context.Context, ip, userID string) error {
	keys := []string{
		nearbyKey(ip),
		requestsKey(ip),
		assistantKey(userID),
	}
	return l.redis.Del(ctx, keys...)
}

func nearbyKey(ip string) string        { return fmt.Sprintf("ratelimit:nearby:%s", ip) }
func assistantKey(userID string) string { return fmt.Sprintf("ratelimit:assistant:%s", userID) }
func requestsKey(ip string) string      { return fmt.Sprintf("ratelimit:ip:%s:requests", ip) }
