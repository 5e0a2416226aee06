package controller

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCalculateNextBackoff(t *testing.T) {
	tests := []struct {
		name         string
		current      time.Duration
		max          time.Duration
		factor       float64
		jitterFactor float64
		expectMin    time.Duration
		expectMax    time.Duration
	}{
		{
			name:         "initial backoff doubles",
			current:      1 * time.Second,
			max:          30 * time.Second,
			factor:       2.0,
			jitterFactor: 0.1,
			expectMin:    1800 * time.Millisecond,
			expectMax:    2200 * time.Millisecond,
		},
		{
			name:         "respects maximum",
			current:      20 * time.Second,
			max:          30 * time.Second,
			factor:       2.0,
			jitterFactor: 0.1,
			expectMin:    27 * time.Second,
			expectMax:    30 * time.Second,
		},
		{
			name:         "no jitter produces exact value",
			current:      5 * time.Second,
			max:          30 * time.Second,
			factor:       2.0,
			jitterFactor: 0.0,
			expectMin:    10 * time.Second,
			expectMax:    10 * time.Second,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Run multiple times to account for randomness in jitter
			for i := 0; i < 10; i++ {
				result := CalculateNextBackoff(tt.current, tt.max, tt.factor, tt.jitterFactor)
				assert.GreaterOrEqual(t, result, tt.expectMin)
				assert.LessOrEqual(t, result, tt.expectMax)
			}
		})
	}
}

func TestClientSubscriptions(t *testing.T) {
	t.Run("subscribe and check", func(t *testing.T) {
		subs := NewClientSubscriptions()

		subs.Subscribe("1")
		assert.True(t, subs.IsSubscribed("1"))
		assert.False(t, subs.IsSubscribed("2"))
	})

	t.Run("wildcard matches every event", func(t *testing.T) {
		subs := NewClientSubscriptions()

		subs.Subscribe("*")
		assert.True(t, subs.IsSubscribed("1"))
		assert.True(t, subs.IsSubscribed("42"))
		// Governance and settings events carry no fund scope; only the
		// wildcard forwards them.
		assert.True(t, subs.IsSubscribed(""))
	})

	t.Run("unscoped events need the wildcard", func(t *testing.T) {
		subs := NewClientSubscriptions()

		subs.Subscribe("1")
		assert.False(t, subs.IsSubscribed(""))
	})

	t.Run("unsubscribe", func(t *testing.T) {
		subs := NewClientSubscriptions()

		subs.Subscribe("1")
		assert.True(t, subs.IsSubscribed("1"))

		subs.Unsubscribe("1")
		assert.False(t, subs.IsSubscribed("1"))
	})

	t.Run("concurrent access", func(t *testing.T) {
		subs := NewClientSubscriptions()
		done := make(chan bool)

		go func() {
			for i := 0; i < 100; i++ {
				subs.Subscribe("1")
			}
			done <- true
		}()
		go func() {
			for i := 0; i < 100; i++ {
				subs.Unsubscribe("1")
			}
			done <- true
		}()
		go func() {
			for i := 0; i < 100; i++ {
				_ = subs.IsSubscribed("1")
			}
			done <- true
		}()

		<-done
		<-done
		<-done
	})
}
