package ratelimit

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestLimiterAllowsUpToLimitPerKey(t *testing.T) {
	l := New(Config{Requests: 3, Window: time.Minute})
	defer l.Stop()
	fixed := time.Now()
	l.now = func() time.Time { return fixed }

	for i := 0; i < 3; i++ {
		allowed, _ := l.Allow("1.1.1.1")
		assert.True(t, allowed, "request %d", i)
	}
	allowed, remaining := l.Allow("1.1.1.1")
	assert.False(t, allowed)
	assert.Zero(t, remaining)

	allowed, _ = l.Allow("2.2.2.2")
	assert.True(t, allowed, "keys are limited independently")
}

func TestLimiterRefillsOverWindow(t *testing.T) {
	l := New(Config{Requests: 2, Window: time.Minute})
	defer l.Stop()
	start := time.Now()
	l.now = func() time.Time { return start }

	l.Allow("k")
	l.Allow("k")
	allowed, _ := l.Allow("k")
	assert.False(t, allowed)

	l.now = func() time.Time { return start.Add(31 * time.Second) }
	allowed, _ = l.Allow("k")
	assert.True(t, allowed)
}

func TestEvictIdle(t *testing.T) {
	l := New(Config{Requests: 2, Window: time.Minute})
	defer l.Stop()
	start := time.Now()
	l.now = func() time.Time { return start }
	l.Allow("idle")

	l.now = func() time.Time { return start.Add(3 * time.Minute) }
	l.evictIdle()

	l.mu.Lock()
	defer l.mu.Unlock()
	assert.Empty(t, l.visitors)
}

func TestMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	l := New(Config{Requests: 1, Window: 10 * time.Minute})
	defer l.Stop()

	r := gin.New()
	r.Use(Middleware(l))
	r.GET("/api/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/ping", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "1", w.Header().Get("RateLimit-Limit"))
	assert.Equal(t, "600", w.Header().Get("RateLimit-Reset"))

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/ping", nil))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Contains(t, w.Body.String(), Message)
}
