package ratelimit

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/go-redis/redis_rate/v10"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"

	"github.com/ZanzyTHEbar/troupe-insights/internal/monitoring"
	"github.com/ZanzyTHEbar/troupe-insights/internal/resilience"
)

const (
	keyPrefix    = "ratelimit:"
	windowPrefix = "window:"
)

// Rate is the number of attempts allowed per Period. A Fixed rate counts
// attempts in a window that opens on the first attempt and resets only once
// Period has elapsed; otherwise attempts are restored gradually, one per Every().
type Rate struct {
	Limit  int
	Period time.Duration
	Fixed  bool
}

// Every returns the interval at which one attempt is restored
func (r Rate) Every() time.Duration {
	if r.Limit <= 0 {
		return r.Period
	}
	return r.Period / time.Duration(r.Limit)
}

// Config holds rate limiter configuration
type Config struct {
	AttemptLimit    int           // sensitive endpoint attempts per window
	AttemptWindow   time.Duration // window for AttemptLimit
	IPLimitPerMin   int           // general API limit per client IP
	CleanupInterval time.Duration // how often idle fallback limiters are swept
	IdleTTL         time.Duration // fallback limiters unused this long are dropped
}

// DefaultConfig returns default rate limiting configuration
func DefaultConfig() Config {
	return Config{
		AttemptLimit:    5,
		AttemptWindow:   10 * time.Minute,
		IPLimitPerMin:   120,
		CleanupInterval: 10 * time.Minute,
		IdleTTL:         30 * time.Minute,
	}
}

// AttemptRate is the rate applied to login, password change and unlock code checks
func (c Config) AttemptRate() Rate {
	return Rate{Limit: c.AttemptLimit, Period: c.AttemptWindow, Fixed: true}
}

func (c Config) IPRate() Rate {
	return Rate{Limit: c.IPLimitPerMin, Period: time.Minute}
}

// Result represents the result of a rate limit check
type Result struct {
	Allowed    bool
	Limit      int
	Remaining  int
	ResetAt    time.Time
	RetryAfter time.Duration
}

type fallbackEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time

	// fixed window state
	windowEnd time.Time
	count     int
}

// RateLimiter provides distributed rate limiting with Redis and in-memory fallback
type RateLimiter struct {
	redisLimiter *redis_rate.Limiter
	redisClient  *RedisClient
	breaker      *resilience.CircuitBreaker
	config       Config
	metrics      *monitoring.Metrics

	fallbackLimiters map[string]*fallbackEntry
	fallbackMutex    sync.Mutex

	stop      chan struct{}
	closeOnce sync.Once
}

// NewRateLimiter creates a new rate limiter with Redis and in-memory fallback.
// A nil or disabled redisClient selects the in-memory limiter only.
func NewRateLimiter(redisClient *RedisClient, config Config, metrics *monitoring.Metrics) *RateLimiter {
	if redisClient == nil {
		redisClient = &RedisClient{}
	}
	if config.CleanupInterval <= 0 {
		config.CleanupInterval = DefaultConfig().CleanupInterval
	}
	if config.IdleTTL <= 0 {
		config.IdleTTL = DefaultConfig().IdleTTL
	}

	rl := &RateLimiter{
		redisClient:      redisClient,
		breaker:          resilience.NewCircuitBreaker("redis", resilience.CircuitBreakerConfig{FailureThreshold: 3, RecoveryTimeout: 30 * time.Second}),
		config:           config,
		metrics:          metrics,
		fallbackLimiters: make(map[string]*fallbackEntry),
		stop:             make(chan struct{}),
	}

	if redisClient.IsEnabled() {
		rl.redisLimiter = redis_rate.NewLimiter(redisClient.GetClient())
		slog.Info("Redis rate limiter initialized")
	} else {
		slog.Warn("Redis unavailable, using in-memory rate limiting only")
	}

	go rl.cleanupFallbackLimiters()

	return rl
}

// Config returns the limiter configuration
func (rl *RateLimiter) Config() Config {
	return rl.config
}

// Allow consumes one attempt for key under r
func (rl *RateLimiter) Allow(ctx context.Context, key string, r Rate) (*Result, error) {
	if r.Limit <= 0 || r.Period <= 0 {
		return nil, fmt.Errorf("invalid rate %d/%s", r.Limit, r.Period)
	}
	key = keyPrefix + key

	// an open breaker skips Redis until the recovery timeout passes
	if rl.redisClient.IsEnabled() && rl.redisLimiter != nil && rl.breaker.Allow() {
		result, err := rl.allowRedis(ctx, key, r)
		if err == nil {
			rl.breaker.RecordSuccess()
			return result, nil
		}
		rl.breaker.RecordFailure()
		slog.Warn("Redis rate limit check failed, using fallback", "key", key, "error", err, "breaker", rl.breaker.State().String())
		if rl.metrics != nil {
			rl.metrics.IncrementRateLimitRedisError()
		}
		return rl.allowFallback(key, r, time.Now()), nil
	}

	if rl.metrics != nil {
		rl.metrics.IncrementRateLimitFallback()
	}
	return rl.allowFallback(key, r, time.Now()), nil
}

func (rl *RateLimiter) allowRedis(ctx context.Context, key string, r Rate) (*Result, error) {
	if r.Fixed {
		return rl.allowRedisWindow(ctx, key, r)
	}
	res, err := rl.redisLimiter.Allow(ctx, key, redis_rate.Limit{
		Rate:   r.Limit,
		Burst:  r.Limit,
		Period: r.Period,
	})
	if err != nil {
		return nil, fmt.Errorf("redis rate limit check failed: %w", err)
	}

	return &Result{
		Allowed:    res.Allowed > 0,
		Limit:      r.Limit,
		Remaining:  res.Remaining,
		ResetAt:    time.Now().Add(res.ResetAfter),
		RetryAfter: max(res.RetryAfter, 0),
	}, nil
}

// allowRedisWindow counts attempts with INCR on a key that expires when the
// window closes. Blocked attempts still increment but never extend the window.
func (rl *RateLimiter) allowRedisWindow(ctx context.Context, key string, r Rate) (*Result, error) {
	client := rl.redisClient.GetClient()
	key = windowPrefix + key

	var incr *redis.IntCmd
	var ttl *redis.DurationCmd
	_, err := client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, key)
		ttl = pipe.PTTL(ctx, key)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("redis window counter failed: %w", err)
	}

	remainingWindow := ttl.Val()
	if remainingWindow < 0 {
		// first attempt of a new window
		if err := client.PExpire(ctx, key, r.Period).Err(); err != nil {
			return nil, fmt.Errorf("redis window expiry failed: %w", err)
		}
		remainingWindow = r.Period
	}
	return windowResult(int(incr.Val()), r, time.Now(), remainingWindow), nil
}

func windowResult(count int, r Rate, now time.Time, untilReset time.Duration) *Result {
	result := &Result{
		Allowed:   count <= r.Limit,
		Limit:     r.Limit,
		Remaining: max(r.Limit-count, 0),
		ResetAt:   now.Add(untilReset),
	}
	if !result.Allowed {
		result.RetryAfter = untilReset
	}
	return result
}

// allowFallback keeps an in-memory fixed window for Fixed rates and a token
// bucket of r.Limit tokens refilled one per r.Every() otherwise.
func (rl *RateLimiter) allowFallback(key string, r Rate, now time.Time) *Result {
	if r.Fixed {
		return rl.allowFallbackWindow(key, r, now)
	}
	rl.fallbackMutex.Lock()
	entry, ok := rl.fallbackLimiters[key]
	if !ok || entry.limiter == nil || entry.limiter.Burst() != r.Limit || entry.limiter.Limit() != rate.Every(r.Every()) {
		entry = &fallbackEntry{limiter: rate.NewLimiter(rate.Every(r.Every()), r.Limit)}
		rl.fallbackLimiters[key] = entry
	}
	entry.lastSeen = now
	limiter := entry.limiter
	rl.fallbackMutex.Unlock()

	reservation := limiter.ReserveN(now, 1)
	if delay := reservation.DelayFrom(now); delay > 0 {
		reservation.CancelAt(now)
		return &Result{
			Allowed:    false,
			Limit:      r.Limit,
			Remaining:  0,
			ResetAt:    now.Add(delay),
			RetryAfter: delay,
		}
	}

	tokens := limiter.TokensAt(now)
	remaining := max(int(tokens), 0)
	missing := float64(r.Limit) - tokens
	return &Result{
		Allowed:   true,
		Limit:     r.Limit,
		Remaining: remaining,
		ResetAt:   now.Add(time.Duration(missing * float64(r.Every()))),
	}
}

func (rl *RateLimiter) allowFallbackWindow(key string, r Rate, now time.Time) *Result {
	rl.fallbackMutex.Lock()
	defer rl.fallbackMutex.Unlock()

	key = windowPrefix + key
	entry, ok := rl.fallbackLimiters[key]
	if !ok || !now.Before(entry.windowEnd) {
		entry = &fallbackEntry{windowEnd: now.Add(r.Period)}
		rl.fallbackLimiters[key] = entry
	}
	entry.lastSeen = now
	if entry.count <= r.Limit {
		entry.count++
	}
	return windowResult(entry.count, r, now, entry.windowEnd.Sub(now))
}

// cleanupFallbackLimiters drops limiters idle longer than IdleTTL
func (rl *RateLimiter) cleanupFallbackLimiters() {
	ticker := time.NewTicker(rl.config.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-rl.stop:
			return
		case now := <-ticker.C:
			if n := rl.sweep(now); n > 0 {
				slog.Debug("Cleaned up idle fallback rate limiters", "count", n)
			}
		}
	}
}

func (rl *RateLimiter) sweep(now time.Time) int {
	rl.fallbackMutex.Lock()
	defer rl.fallbackMutex.Unlock()

	removed := 0
	for key, entry := range rl.fallbackLimiters {
		if now.Sub(entry.lastSeen) > rl.config.IdleTTL && !now.Before(entry.windowEnd) {
			delete(rl.fallbackLimiters, key)
			removed++
		}
	}
	return removed
}

// Close stops the background sweeper
func (rl *RateLimiter) Close() {
	rl.closeOnce.Do(func() { close(rl.stop) })
}

// GetStats returns rate limiter statistics
func (rl *RateLimiter) GetStats() map[string]interface{} {
	rl.fallbackMutex.Lock()
	fallbackCount := len(rl.fallbackLimiters)
	rl.fallbackMutex.Unlock()

	stats := map[string]interface{}{
		"redis_enabled":     rl.redisClient.IsEnabled(),
		"fallback_limiters": fallbackCount,
		"attempt_limit":     rl.config.AttemptLimit,
		"attempt_window":    rl.config.AttemptWindow.String(),
		"redis_breaker":     rl.breaker.GetStats(),
	}
	if rl.redisClient.IsEnabled() {
		stats["redis_pool"] = rl.redisClient.GetPoolStats()
	}
	return stats
}
