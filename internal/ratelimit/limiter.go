// Package ratelimit limits requests per client address.
package ratelimit

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Config holds the configuration for rate limiting.
type Config struct {
	// Requests is the maximum number of requests allowed per window.
	Requests int
	// Window is the duration of the rate limiting window.
	Window time.Duration
}

// DefaultConfig allows 500 requests per ten minutes.
func DefaultConfig() Config {
	return Config{Requests: 500, Window: 10 * time.Minute}
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// Limiter keeps one token bucket per key. The bucket holds Requests tokens
// and refills over Window.
type Limiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	config   Config
	now      func() time.Time

	stopOnce sync.Once
	stopCh   chan struct{}
}

// New creates a Limiter and starts evicting idle keys.
func New(cfg Config) *Limiter {
	if cfg.Requests <= 0 || cfg.Window <= 0 {
		cfg = DefaultConfig()
	}
	l := &Limiter{
		visitors: make(map[string]*visitor),
		config:   cfg,
		now:      time.Now,
		stopCh:   make(chan struct{}),
	}
	go l.cleanup()
	return l
}

// Allow reports whether a request for key may proceed and how many requests
// remain in the current window.
func (l *Limiter) Allow(key string) (bool, int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	v, ok := l.visitors[key]
	if !ok {
		every := rate.Every(l.config.Window / time.Duration(l.config.Requests))
		v = &visitor{limiter: rate.NewLimiter(every, l.config.Requests)}
		l.visitors[key] = v
	}
	v.lastSeen = now
	allowed := v.limiter.AllowN(now, 1)
	remaining := int(v.limiter.TokensAt(now))
	if remaining < 0 {
		remaining = 0
	}
	return allowed, remaining
}

// Config returns the active configuration.
func (l *Limiter) Config() Config {
	return l.config
}

// Stop ends the eviction goroutine.
func (l *Limiter) Stop() {
	l.stopOnce.Do(func() { close(l.stopCh) })
}

func (l *Limiter) cleanup() {
	ticker := time.NewTicker(l.config.Window)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			l.evictIdle()
		case <-l.stopCh:
			return
		}
	}
}

// evictIdle drops keys idle for two windows; their buckets are full again.
func (l *Limiter) evictIdle() {
	l.mu.Lock()
	defer l.mu.Unlock()

	cutoff := l.now().Add(-2 * l.config.Window)
	for key, v := range l.visitors {
		if v.lastSeen.Before(cutoff) {
			delete(l.visitors, key)
		}
	}
}
