package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func newTestStore(window time.Duration, max int) (*MemoryStore, *time.Time) {
	store := NewMemoryStore(window, max)
	current := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return current }
	return store, &current
}

func TestMemoryStoreFirstCallAllowed(t *testing.T) {
	store, _ := newTestStore(5*time.Minute, 1)

	decision := store.Check("admin@example.com")
	assert.True(t, decision.Allowed)
}

func TestMemoryStoreDeniesOverMax(t *testing.T) {
	store, now := newTestStore(5*time.Minute, 1)

	first := store.Check("admin@example.com")
	assert.True(t, first.Allowed)

	second := store.Check("admin@example.com")
	assert.False(t, second.Allowed)
	assert.True(t, second.ResetTime.After(*now), "reset time must be in the future")
}

func TestMemoryStoreAllowsAfterWindowElapsed(t *testing.T) {
	store, current := newTestStore(5*time.Minute, 1)

	assert.True(t, store.Check("admin@example.com").Allowed)
	assert.False(t, store.Check("admin@example.com").Allowed)

	*current = current.Add(5*time.Minute + time.Second)

	reset := store.Check("admin@example.com")
	assert.True(t, reset.Allowed, "new window must start after the old one elapses")

	// The fresh window starts over at count 1, so the next call is denied again.
	assert.False(t, store.Check("admin@example.com").Allowed)
}

func TestMemoryStoreKeysAreIndependent(t *testing.T) {
	store, _ := newTestStore(5*time.Minute, 1)

	assert.True(t, store.Check("a@example.com").Allowed)
	assert.True(t, store.Check("b@example.com").Allowed)
	assert.False(t, store.Check("a@example.com").Allowed)
}

func TestMemoryStoreCountsWithinWindow(t *testing.T) {
	store, _ := newTestStore(time.Minute, 3)

	for i := 0; i < 3; i++ {
		assert.True(t, store.Check("tracker").Allowed, "call %d should pass", i+1)
	}
	assert.False(t, store.Check("tracker").Allowed)
}
