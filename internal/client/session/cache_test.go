package session

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

func TestValidationCache_MissWhenEmpty(t *testing.T) {
	c := NewValidationCache(0)

	_, ok := c.Read()
	assert.False(t, ok)
	assert.Equal(t, DefaultValidationTTL, c.ttl)
}

func TestValidationCache_TTL(t *testing.T) {
	clock := newFakeClock()
	c := NewValidationCache(5 * time.Second)
	c.SetClock(clock.Now)

	c.Write(true)

	clock.Advance(4999 * time.Millisecond)
	valid, ok := c.Read()
	assert.True(t, ok)
	assert.True(t, valid)

	clock.Advance(time.Millisecond)
	_, ok = c.Read()
	assert.False(t, ok, "entry aged exactly TTL must miss")
}

func TestValidationCache_WriteOverwrites(t *testing.T) {
	clock := newFakeClock()
	c := NewValidationCache(5 * time.Second)
	c.SetClock(clock.Now)

	c.Write(true)
	clock.Advance(3 * time.Second)
	c.Write(false)
	clock.Advance(3 * time.Second)

	valid, ok := c.Read()
	assert.True(t, ok, "second write restarts the TTL")
	assert.False(t, valid)
}

func TestValidationCache_Invalidate(t *testing.T) {
	c := NewValidationCache(time.Minute)
	c.Write(true)

	c.Invalidate()

	_, ok := c.Read()
	assert.False(t, ok)
}
