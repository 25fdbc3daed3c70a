package resilience

import (
	"context"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/ZanzyTHEbar/troupe-insights/internal/errors"
)

// RetryConfig holds configuration for retry behavior
type RetryConfig struct {
	MaxAttempts     int              `json:"max_attempts"`
	InitialDelay    time.Duration    `json:"initial_delay"`
	MaxDelay        time.Duration    `json:"max_delay"`
	MaxElapsed      time.Duration    `json:"max_elapsed"`
	BackoffFactor   float64          `json:"backoff_factor"`
	RetryableErrors func(error) bool `json:"-"`
}

// DefaultRetryConfig returns sensible defaults for retry behavior
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:     3,
		InitialDelay:    100 * time.Millisecond,
		MaxDelay:        5 * time.Second,
		BackoffFactor:   2.0,
		RetryableErrors: errors.IsRetryableError,
	}
}

// StartupRetryConfig is used while dependencies come up: every error is
// retried until MaxElapsed.
func StartupRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:     10,
		InitialDelay:    200 * time.Millisecond,
		MaxDelay:        3 * time.Second,
		MaxElapsed:      30 * time.Second,
		BackoffFactor:   2.0,
		RetryableErrors: func(error) bool { return true },
	}
}

// RetryableFunc represents a function that can be retried
type RetryableFunc func(ctx context.Context) error

func (config RetryConfig) policy(ctx context.Context) backoff.BackOffContext {
	exp := backoff.NewExponentialBackOff()
	if config.InitialDelay > 0 {
		exp.InitialInterval = config.InitialDelay
	}
	if config.MaxDelay > 0 {
		exp.MaxInterval = config.MaxDelay
	}
	if config.BackoffFactor > 0 {
		exp.Multiplier = config.BackoffFactor
	}
	exp.MaxElapsedTime = config.MaxElapsed

	var b backoff.BackOff = exp
	if config.MaxAttempts > 0 {
		b = backoff.WithMaxRetries(exp, uint64(config.MaxAttempts-1))
	}
	return backoff.WithContext(b, ctx)
}

// Retry runs fn until it succeeds, returns a non-retryable error, or the
// attempts run out. The last error from fn is returned.
func Retry(ctx context.Context, name string, config RetryConfig, fn RetryableFunc) error {
	retryable := config.RetryableErrors
	if retryable == nil {
		retryable = errors.IsRetryableError
	}

	op := func() error {
		err := fn(ctx)
		if err != nil && !retryable(err) {
			return backoff.Permanent(err)
		}
		return err
	}
	notify := func(err error, wait time.Duration) {
		slog.Warn("Operation failed, retrying", "operation", name, "error", err, "wait", wait)
	}

	return backoff.RetryNotify(op, config.policy(ctx), notify)
}
