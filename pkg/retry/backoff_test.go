package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestBackoffDelayGrowsAndCaps(t *testing.T) {
	cfg := Config{
		InitialDelay: 1 * time.Second,
		MaxDelay:     8 * time.Second,
		Multiplier:   2.0,
	}

	assert.Equal(t, 1*time.Second, backoffDelay(cfg, 1))
	assert.Equal(t, 2*time.Second, backoffDelay(cfg, 2))
	assert.Equal(t, 4*time.Second, backoffDelay(cfg, 3))
	// Capped from the fifth doubling onward.
	assert.Equal(t, 8*time.Second, backoffDelay(cfg, 4))
	assert.Equal(t, 8*time.Second, backoffDelay(cfg, 10))
}

func TestBackoffDelayJitterBounds(t *testing.T) {
	cfg := Config{
		InitialDelay:  1 * time.Second,
		MaxDelay:      60 * time.Second,
		Multiplier:    2.0,
		JitterEnabled: true,
	}

	for i := 0; i < 20; i++ {
		d := backoffDelay(cfg, 2)
		assert.GreaterOrEqual(t, d, 1700*time.Millisecond)
		assert.LessOrEqual(t, d, 2300*time.Millisecond)
	}
}

func TestWithBackoffRetriesUntilSuccess(t *testing.T) {
	cfg := Config{
		MaxRetries:   5,
		InitialDelay: time.Millisecond,
		MaxDelay:     time.Millisecond,
		Multiplier:   1.0,
	}

	attempts := 0
	err := WithBackoff(context.Background(), cfg, zap.NewNop(), "connect", func() error {
		attempts++
		if attempts < 3 {
			return errors.New("not yet")
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, attempts)
}

func TestWithBackoffExhaustsAttempts(t *testing.T) {
	cfg := Config{
		MaxRetries:   3,
		InitialDelay: time.Millisecond,
		MaxDelay:     time.Millisecond,
		Multiplier:   1.0,
	}

	attempts := 0
	err := WithBackoff(context.Background(), cfg, zap.NewNop(), "connect", func() error {
		attempts++
		return errors.New("still down")
	})
	require.Error(t, err)
	assert.Equal(t, 3, attempts)
	assert.Contains(t, err.Error(), "after 3 attempts")
}

func TestDefaultConfigEnvOverrides(t *testing.T) {
	t.Setenv("RETRY_MAX_ATTEMPTS", "4")
	t.Setenv("RETRY_INITIAL_DELAY", "500ms")
	t.Setenv("RETRY_MAX_DELAY", "5s")

	cfg := DefaultConfig()
	assert.Equal(t, 4, cfg.MaxRetries)
	assert.Equal(t, 500*time.Millisecond, cfg.InitialDelay)
	assert.Equal(t, 5*time.Second, cfg.MaxDelay)
}
