package middleware

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMemoryLimiter_AllowsUpToMax(t *testing.T) {
	t.Parallel()

	l := NewMemoryLimiter(3, time.Minute)
	for i := 0; i < 3; i++ {
		assert.True(t, l.Allow("user:1"), "request %d should pass", i+1)
	}
	assert.False(t, l.Allow("user:1"))
}

func TestMemoryLimiter_KeysAreIndependent(t *testing.T) {
	t.Parallel()

	l := NewMemoryLimiter(1, time.Minute)
	assert.True(t, l.Allow("user:1"))
	assert.False(t, l.Allow("user:1"))
	assert.True(t, l.Allow("user:2"))
}

func TestMemoryLimiter_WindowExpires(t *testing.T) {
	t.Parallel()

	l := NewMemoryLimiter(1, 30*time.Millisecond)
	assert.True(t, l.Allow("user:1"))
	assert.False(t, l.Allow("user:1"))

	time.Sleep(50 * time.Millisecond)
	assert.True(t, l.Allow("user:1"), "a fresh window starts after expiry")
}
