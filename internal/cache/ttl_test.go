package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTTLGetSet(t *testing.T) {
	c := NewTTL[string](time.Minute)

	_, ok := c.Get("q")
	assert.False(t, ok)

	c.Set("q", "result")
	v, ok := c.Get("q")
	assert.True(t, ok)
	assert.Equal(t, "result", v)
}

func TestTTLExpiry(t *testing.T) {
	clock := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	c := NewTTL[int](30 * time.Minute)
	c.now = func() time.Time { return clock }

	c.Set("k", 42)

	clock = clock.Add(29 * time.Minute)
	v, ok := c.Get("k")
	assert.True(t, ok)
	assert.Equal(t, 42, v)

	clock = clock.Add(2 * time.Minute)
	_, ok = c.Get("k")
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len(), "expired entry is dropped on read")
}

func TestTTLOverwriteResetsClock(t *testing.T) {
	clock := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	c := NewTTL[int](10 * time.Minute)
	c.now = func() time.Time { return clock }

	c.Set("k", 1)
	clock = clock.Add(9 * time.Minute)
	c.Set("k", 2)
	clock = clock.Add(9 * time.Minute)

	v, ok := c.Get("k")
	assert.True(t, ok)
	assert.Equal(t, 2, v)
}
