package ratelimit

import (
	"context"
	"fmt"
	"log/slog"
)

// Reset clears the attempt history for key, e.g. after a successful login
func (rl *RateLimiter) Reset(ctx context.Context, key string) error {
	key = keyPrefix + key

	rl.fallbackMutex.Lock()
	delete(rl.fallbackLimiters, key)
	delete(rl.fallbackLimiters, windowPrefix+key)
	rl.fallbackMutex.Unlock()

	if !rl.redisClient.IsEnabled() || rl.redisLimiter == nil {
		return nil
	}
	if err := rl.redisLimiter.Reset(ctx, key); err != nil {
		return fmt.Errorf("failed to reset rate limit: %w", err)
	}
	if err := rl.redisClient.GetClient().Del(ctx, windowPrefix+key).Err(); err != nil {
		return fmt.Errorf("failed to reset attempt window: %w", err)
	}
	return nil
}

// InvalidateAll removes every rate limit key (operator use only)
func (rl *RateLimiter) InvalidateAll(ctx context.Context) error {
	rl.fallbackMutex.Lock()
	count := len(rl.fallbackLimiters)
	rl.fallbackLimiters = make(map[string]*fallbackEntry)
	rl.fallbackMutex.Unlock()

	if !rl.redisClient.IsEnabled() {
		slog.Warn("Invalidated all rate limits (in-memory)", "count", count)
		return nil
	}

	if err := rl.deleteByPattern(ctx, "rate:"+keyPrefix+"*"); err != nil {
		return err
	}
	return rl.deleteByPattern(ctx, windowPrefix+keyPrefix+"*")
}

// deleteByPattern deletes all Redis keys matching a pattern
func (rl *RateLimiter) deleteByPattern(ctx context.Context, pattern string) error {
	client := rl.redisClient.GetClient()

	var cursor uint64
	var deletedCount int
	for {
		keys, nextCursor, err := client.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			return fmt.Errorf("failed to scan keys: %w", err)
		}

		if len(keys) > 0 {
			deleted, err := client.Del(ctx, keys...).Result()
			if err != nil {
				return fmt.Errorf("failed to delete keys: %w", err)
			}
			deletedCount += int(deleted)
		}

		cursor = nextCursor
		if cursor == 0 {
			break
		}
	}

	slog.Info("Deleted rate limit keys by pattern", "pattern", pattern, "count", deletedCount)
	return nil
}
