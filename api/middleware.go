package api

import (
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// defaultMaxUploadSize bounds request bodies; it has to fit a full
// audio recording, not just JSON
const defaultMaxUploadSize = 32 * 1024 * 1024

// clientLimiter holds a rate limiter and its last accessed time.
// lastSeen is unix nanoseconds; the cleanup goroutine reads it while
// request handlers write it.
type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen atomic.Int64
}

func CORS() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, HEAD, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Length, Content-Type, Authorization")
		c.Header("Access-Control-Max-Age", "86400")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

func RequestSizeLimit() gin.HandlerFunc {
	return RequestSizeLimitWithSize(defaultMaxUploadSize)
}

func RequestSizeLimitWithSize(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodPost ||
			c.Request.Method == http.MethodPut ||
			c.Request.Method == http.MethodPatch {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		}
		c.Next()
	}
}

func PerClientRateLimit(rateLimiters *sync.Map, cleanupStop chan struct{}, cleanupInitialized *sync.Once, rps int, burst int) gin.HandlerFunc {
	cleanupInitialized.Do(func() {
		go cleanupOldRateLimiters(rateLimiters, cleanupStop)
	})

	return func(c *gin.Context) {
		clientIP := c.ClientIP()

		limiterInterface, _ := rateLimiters.LoadOrStore(clientIP, &clientLimiter{
			limiter: rate.NewLimiter(rate.Every(time.Second/time.Duration(rps)), burst),
		})

		cl := limiterInterface.(*clientLimiter)
		cl.lastSeen.Store(time.Now().UnixNano())

		if !cl.limiter.Allow() {
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error": "Rate limit exceeded. Please slow down your requests.",
			})
			c.Abort()
			return
		}
		c.Next()
	}
}

func cleanupOldRateLimiters(rateLimiters *sync.Map, cleanupStop chan struct{}) {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			now := time.Now()
			rateLimiters.Range(func(key, value interface{}) bool {
				cl := value.(*clientLimiter)
				if now.Sub(time.Unix(0, cl.lastSeen.Load())) > 10*time.Minute {
					rateLimiters.Delete(key)
				}
				return true
			})
		case <-cleanupStop:
			return
		}
	}
}
