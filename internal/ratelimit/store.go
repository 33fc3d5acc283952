// Package ratelimit provides a fixed-window request throttle keyed by caller
// identity. The guarded operations (seeding, anonymous tracking) are rare
// enough that an in-process store is acceptable for single-instance
// deployments; multi-instance deployments should supply a Store backed by a
// shared key-value service.
package ratelimit

import (
	"sync"
	"time"
)

// Decision is the outcome of a rate limit check. ResetTime is only meaningful
// when Allowed is false; callers use it to compute a human-readable wait.
type Decision struct {
	Allowed   bool
	ResetTime time.Time
}

// Store decides whether a keyed request may proceed. Implementations must be
// safe for concurrent use.
type Store interface {
	Check(key string) Decision
}

type windowEntry struct {
	count     int
	resetTime time.Time
}

// MemoryStore is the in-process Store: one fixed window per key, unbounded map.
type MemoryStore struct {
	mu      sync.Mutex
	window  time.Duration
	max     int
	entries map[string]*windowEntry
	now     func() time.Time
}

// NewMemoryStore creates a store allowing max requests per window for each key.
func NewMemoryStore(window time.Duration, max int) *MemoryStore {
	return &MemoryStore{
		window:  window,
		max:     max,
		entries: make(map[string]*windowEntry),
		now:     time.Now,
	}
}

// Check applies fixed-window semantics: a fresh or elapsed window starts at
// count 1 and allows; within the window the count increments until max, after
// which requests are denied until the window resets.
func (s *MemoryStore) Check(key string) Decision {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	entry, ok := s.entries[key]
	if !ok || now.After(entry.resetTime) {
		s.entries[key] = &windowEntry{count: 1, resetTime: now.Add(s.window)}
		return Decision{Allowed: true}
	}

	if entry.count >= s.max {
		return Decision{Allowed: false, ResetTime: entry.resetTime}
	}

	entry.count++
	return Decision{Allowed: true}
}
