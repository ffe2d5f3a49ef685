package rest

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedis(t *testing.T) *redis.Client {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)
	return redis.NewClient(&redis.Options{Addr: mr.Addr()})
}

func TestRateLimiter_AllowsUnderLimit(t *testing.T) {
	client := newTestRedis(t)
	rl := NewRateLimiter(client, "post", 3)

	for i := 0; i < 3; i++ {
		allowed, err := rl.Allow(context.Background(), "user-1")
		require.NoError(t, err)
		assert.True(t, allowed, "request %d should be allowed", i+1)
	}
}

func TestRateLimiter_BlocksOverLimit(t *testing.T) {
	client := newTestRedis(t)
	rl := NewRateLimiter(client, "post", 2)

	ctx := context.Background()
	allowed, err := rl.Allow(ctx, "user-1")
	require.NoError(t, err)
	assert.True(t, allowed)

	allowed, err = rl.Allow(ctx, "user-1")
	require.NoError(t, err)
	assert.True(t, allowed)

	allowed, err = rl.Allow(ctx, "user-1")
	require.NoError(t, err)
	assert.False(t, allowed, "third request should exceed the limit of 2")
}

func TestRateLimiter_KeysAreIndependent(t *testing.T) {
	client := newTestRedis(t)
	rl := NewRateLimiter(client, "post", 1)

	ctx := context.Background()
	allowedA, err := rl.Allow(ctx, "user-a")
	require.NoError(t, err)
	assert.True(t, allowedA)

	allowedB, err := rl.Allow(ctx, "user-b")
	require.NoError(t, err)
	assert.True(t, allowedB, "a different key should have its own counter")
}

func TestRateLimiter_Middleware_KeyedByUserID(t *testing.T) {
	client := newTestRedis(t)
	rl := NewRateLimiter(client, "vote", 1)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/votes", nil)
	c.Set(ContextKeyUserID, "user-42")

	rl.Middleware()(c)
	assert.False(t, c.IsAborted())

	w2 := httptest.NewRecorder()
	c2, _ := gin.CreateTestContext(w2)
	c2.Request = httptest.NewRequest(http.MethodPost, "/votes", nil)
	c2.Set(ContextKeyUserID, "user-42")

	rl.Middleware()(c2)
	assert.True(t, c2.IsAborted())
	assert.Equal(t, http.StatusTooManyRequests, w2.Code)
}

func TestRateLimiter_Middleware_FallsBackToClientIP(t *testing.T) {
	client := newTestRedis(t)
	rl := NewRateLimiter(client, "anonymous", 1)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/votes", nil)
	c.Request.RemoteAddr = "203.0.113.5:1234"

	rl.Middleware()(c)
	assert.False(t, c.IsAborted())
}
