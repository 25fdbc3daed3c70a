package ratelimit

import (
	"fmt"
	"log/slog"
	"math"
	"strconv"

	apperrors "github.com/ZanzyTHEbar/troupe-insights/internal/errors"
	"github.com/gin-gonic/gin"
)

// Policy names; they prefix limiter keys and label block metrics
const (
	PolicyAPI            = "api"
	PolicyLogin          = "login"
	PolicyChangePassword = "change_password"
	PolicyVerifyCode     = "verify_code"
)

// KeyFunc derives the limiter key for a request
type KeyFunc func(c *gin.Context) string

// ClientIPKey keys requests by client IP as "ip:<addr>"
func ClientIPKey(c *gin.Context) string {
	return "ip:" + c.ClientIP()
}

// Check consumes one attempt under policy for key. A limiter failure is
// logged and treated as allowed.
func (rl *RateLimiter) Check(c *gin.Context, policy, key string, r Rate) *Result {
	result, err := rl.Allow(c.Request.Context(), policy+":"+key, r)
	if err != nil {
		slog.Error("Rate limit check failed", "policy", policy, "key", key, "error", err)
		return &Result{Allowed: true, Limit: r.Limit, Remaining: r.Limit}
	}

	setHeaders(c, result)
	if !result.Allowed && rl.metrics != nil {
		rl.metrics.IncrementRateLimitBlock(policy)
	}
	return result
}

// ResetKey clears policy history for key; failures are only logged
func (rl *RateLimiter) ResetKey(c *gin.Context, policy, key string) {
	if err := rl.Reset(c.Request.Context(), policy+":"+key); err != nil {
		slog.Warn("Rate limit reset failed", "policy", policy, "error", err)
	}
}

// AttemptLimitMiddleware guards a sensitive endpoint with the configured
// attempt rate and answers 429 with message once it is spent.
func (rl *RateLimiter) AttemptLimitMiddleware(policy string, keyFn KeyFunc, message string) gin.HandlerFunc {
	return func(c *gin.Context) {
		result := rl.Check(c, policy, keyFn(c), rl.config.AttemptRate())
		if !result.Allowed {
			apperrors.Respond(c, apperrors.NewRateLimitError(message, result.RetryAfter))
			return
		}
		c.Next()
	}
}

// IPRateLimitMiddleware applies the general per-minute limit to every request
func (rl *RateLimiter) IPRateLimitMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if rl.config.IPLimitPerMin <= 0 {
			c.Next()
			return
		}
		result := rl.Check(c, PolicyAPI, ClientIPKey(c), rl.config.IPRate())
		if !result.Allowed {
			apperrors.Respond(c, apperrors.NewRateLimitError(
				fmt.Sprintf("You have exceeded the rate limit of %d requests per minute", result.Limit),
				result.RetryAfter,
			))
			return
		}
		c.Next()
	}
}

func setHeaders(c *gin.Context, result *Result) {
	c.Header("X-RateLimit-Limit", strconv.Itoa(result.Limit))
	c.Header("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
	c.Header("X-RateLimit-Reset", strconv.FormatInt(result.ResetAt.Unix(), 10))
	if !result.Allowed {
		c.Header("Retry-After", strconv.Itoa(int(math.Ceil(result.RetryAfter.Seconds()))))
	}
}
