package session

import (
	"sync"
	"time"
)

// DefaultValidationTTL is how long a validity answer is reused.
const DefaultValidationTTL = 5 * time.Second

type validation struct {
	valid bool
	at    time.Time
}

// ValidationCache memoizes the last "is the session valid?" answer for a
// short TTL.
type ValidationCache struct {
	ttl time.Duration
	now func() time.Time

	mu    sync.Mutex
	entry *validation
}

// NewValidationCache returns an empty cache. A non-positive ttl selects
// DefaultValidationTTL.
func NewValidationCache(ttl time.Duration) *ValidationCache {
	if ttl <= 0 {
		ttl = DefaultValidationTTL
	}
	return &ValidationCache{ttl: ttl, now: time.Now}
}

// SetClock replaces the time source.
func (c *ValidationCache) SetClock(now func() time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = now
}

// Read returns the cached answer when it is younger than the TTL. ok is
// false on a miss.
func (c *ValidationCache) Read() (valid bool, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.entry == nil {
		return false, false
	}
	if c.now().Sub(c.entry.at) >= c.ttl {
		return false, false
	}
	return c.entry.valid, true
}

// Write stores valid stamped with the current time.
func (c *ValidationCache) Write(valid bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entry = &validation{valid: valid, at: c.now()}
}

// Invalidate drops the cached answer.
func (c *ValidationCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entry = nil
}
