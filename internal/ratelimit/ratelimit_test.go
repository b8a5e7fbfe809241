package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// withClock pins the limiter to a controllable clock.
func withClock(l *Limiter, at *time.Time) {
	l.now = func() time.Time { return *at }
}

func TestAllow(t *testing.T) {
	t.Run("FivePassSixthDenied", func(t *testing.T) {
		l := New(5, time.Minute)
		now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
		withClock(l, &now)

		for i := 0; i < 5; i++ {
			assert.True(t, l.Allow("user:1"), "attempt %d should pass", i+1)
			now = now.Add(time.Second)
		}
		assert.False(t, l.Allow("user:1"))
	})

	t.Run("WindowExpiryReallows", func(t *testing.T) {
		l := New(5, time.Minute)
		now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
		withClock(l, &now)

		for i := 0; i < 5; i++ {
			require.True(t, l.Allow("user:1"))
		}
		require.False(t, l.Allow("user:1"))

		now = now.Add(time.Minute + time.Second)
		assert.True(t, l.Allow("user:1"))
	})

	t.Run("KeysAreIndependent", func(t *testing.T) {
		l := New(1, time.Minute)
		now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
		withClock(l, &now)

		assert.True(t, l.Allow("user:1"))
		assert.False(t, l.Allow("user:1"))
		assert.True(t, l.Allow("user:2"))
	})

	t.Run("DeniedAttemptNotRecorded", func(t *testing.T) {
		l := New(2, time.Minute)
		now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
		withClock(l, &now)

		require.True(t, l.Allow("user:1"))
		require.True(t, l.Allow("user:1"))
		require.False(t, l.Allow("user:1"))

		// Both recorded attempts expire together; the denial left no trace.
		now = now.Add(time.Minute + time.Millisecond)
		assert.True(t, l.Allow("user:1"))
		assert.True(t, l.Allow("user:1"))
	})
}

func TestRemainingTime(t *testing.T) {
	t.Run("ZeroWithoutHistory", func(t *testing.T) {
		l := New(5, time.Minute)
		assert.Equal(t, time.Duration(0), l.RemainingTime("user:1"))
	})

	t.Run("CountsFromOldestAttempt", func(t *testing.T) {
		l := New(5, time.Minute)
		now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
		withClock(l, &now)

		require.True(t, l.Allow("user:1"))
		now = now.Add(20 * time.Second)
		require.True(t, l.Allow("user:1"))

		assert.Equal(t, 40*time.Second, l.RemainingTime("user:1"))
	})

	t.Run("FlooredAtZero", func(t *testing.T) {
		l := New(5, time.Minute)
		now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
		withClock(l, &now)

		require.True(t, l.Allow("user:1"))
		now = now.Add(2 * time.Minute)
		assert.Equal(t, time.Duration(0), l.RemainingTime("user:1"))
	})

	t.Run("DefaultsApplied", func(t *testing.T) {
		l := New(0, 0)
		assert.Equal(t, DefaultMaxAttempts, l.maxAttempts)
		assert.Equal(t, DefaultWindow, l.window)
	})
}
