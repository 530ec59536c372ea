package ratelimit

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// Message is the body sent with 429 responses.
const Message = "Too many requests from this IP, please try again after 15 minutes"

// Middleware applies the limiter per client IP and sets the standard
// RateLimit-* headers.
func Middleware(l *Limiter) gin.HandlerFunc {
	cfg := l.Config()
	limit := strconv.Itoa(cfg.Requests)
	reset := strconv.Itoa(int(cfg.Window.Seconds()))

	return func(c *gin.Context) {
		allowed, remaining := l.Allow(c.ClientIP())

		c.Header("RateLimit-Limit", limit)
		c.Header("RateLimit-Remaining", strconv.Itoa(remaining))
		c.Header("RateLimit-Reset", reset)

		if !allowed {
			c.Header("Retry-After", reset)
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"msg": Message})
			return
		}
		c.Next()
	}
}
