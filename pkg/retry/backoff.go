// Package retry provides exponential backoff for connection establishment
// against ClickHouse and Redis.
package retry

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"time"

	"go.uber.org/zap"

	"github.com/stelelabs/fundx/pkg/utils"
)

// Config defines retry behavior.
type Config struct {
	MaxRetries    int
	InitialDelay  time.Duration
	MaxDelay      time.Duration
	Multiplier    float64
	JitterEnabled bool
}

// DefaultConfig returns the retry settings used for dependency connects,
// tunable through RETRY_MAX_ATTEMPTS, RETRY_INITIAL_DELAY and
// RETRY_MAX_DELAY.
func DefaultConfig() Config {
	return Config{
		MaxRetries:    utils.EnvInt("RETRY_MAX_ATTEMPTS", 10),
		InitialDelay:  utils.EnvDuration("RETRY_INITIAL_DELAY", 2*time.Second),
		MaxDelay:      utils.EnvDuration("RETRY_MAX_DELAY", 60*time.Second),
		Multiplier:    2.0,
		JitterEnabled: true,
	}
}

// WithBackoff runs fn until it succeeds, the attempts are exhausted, or the
// context is canceled. Delays grow by cfg.Multiplier per attempt, capped at
// cfg.MaxDelay, with ±15% jitter when enabled.
func WithBackoff(ctx context.Context, cfg Config, logger *zap.Logger, operation string, fn func() error) error {
	var lastErr error

	for attempt := 1; attempt <= cfg.MaxRetries; attempt++ {
		select {
		case <-ctx.Done():
			return fmt.Errorf("retry cancelled: %w", ctx.Err())
		default:
		}

		lastErr = fn()
		if lastErr == nil {
			if attempt > 1 {
				logger.Info("Operation succeeded after retries",
					zap.String("operation", operation),
					zap.Int("attempts", attempt))
			}
			return nil
		}

		if attempt == cfg.MaxRetries {
			return fmt.Errorf("%s failed after %d attempts: %w", operation, cfg.MaxRetries, lastErr)
		}

		delay := backoffDelay(cfg, attempt)

		logger.Warn("Operation failed, retrying",
			zap.String("operation", operation),
			zap.Int("attempt", attempt),
			zap.Int("max_retries", cfg.MaxRetries),
			zap.Duration("retry_in", delay),
			zap.Error(lastErr))

		select {
		case <-ctx.Done():
			return fmt.Errorf("retry cancelled: %w", ctx.Err())
		case <-time.After(delay):
		}
	}

	return lastErr
}

func backoffDelay(cfg Config, attempt int) time.Duration {
	delay := float64(cfg.InitialDelay) * math.Pow(cfg.Multiplier, float64(attempt-1))
	if delay > float64(cfg.MaxDelay) {
		delay = float64(cfg.MaxDelay)
	}

	if cfg.JitterEnabled {
		delay += delay * 0.15 * (2*rand.Float64() - 1)
	}

	return time.Duration(delay)
}
