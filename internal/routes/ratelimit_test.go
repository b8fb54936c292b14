package routes

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRateLimiter_PerClient(t *testing.T) {
	l := NewRateLimiter(2, time.Hour)

	assert.True(t, l.Allow("10.0.0.1"))
	assert.True(t, l.Allow("10.0.0.1"))
	assert.False(t, l.Allow("10.0.0.1"), "third request within the window must be limited")

	assert.True(t, l.Allow("10.0.0.2"), "other clients have their own bucket")
}

func TestRateLimiter_SweepsIdleClients(t *testing.T) {
	l := NewRateLimiter(1, time.Millisecond)
	l.Allow("10.0.0.1")

	time.Sleep(5 * time.Millisecond)
	l.Allow("10.0.0.2")

	l.mu.Lock()
	defer l.mu.Unlock()
	_, ok := l.clients["10.0.0.1"]
	assert.False(t, ok)
	assert.Len(t, l.clients, 1)
}
