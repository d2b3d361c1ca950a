package api

import (
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/killallgit/fortune-api/api/types"
	apperrors "github.com/killallgit/fortune-api/pkg/errors"
	"golang.org/x/time/rate"
)

// RequestIDHeader carries the per-request correlation id
const RequestIDHeader = "X-Request-ID"

const requestIDKey = "request_id"

// clientLimiter holds a rate limiter and its last accessed time
type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen atomic.Int64
}

// RateLimiters tracks one limiter per client IP and sweeps idle ones
type RateLimiters struct {
	clients  sync.Map
	idleTTL  time.Duration
	stop     chan struct{}
	stopOnce sync.Once
	start    sync.Once
}

// NewRateLimiters creates an empty limiter registry
func NewRateLimiters() *RateLimiters {
	return &RateLimiters{
		idleTTL: 10 * time.Minute,
		stop:    make(chan struct{}),
	}
}

// Stop ends the background sweep
func (rl *RateLimiters) Stop() {
	rl.stopOnce.Do(func() { close(rl.stop) })
}

func CORS() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization, "+RequestIDHeader)
		c.Header("Access-Control-Max-Age", "86400")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusOK)
			return
		}

		c.Next()
	}
}

func RequestSizeLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Body != nil && maxBytes > 0 {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		}
		c.Next()
	}
}

// RequestID propagates the caller's X-Request-ID or assigns a new one
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

// RequestLogger writes one structured access log line per request
func RequestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		status := c.Writer.Status()
		attrs := []slog.Attr{
			slog.String("method", c.Request.Method),
			slog.String("path", path),
			slog.Int("status", status),
			slog.Duration("latency", time.Since(start)),
			slog.String("client_ip", c.ClientIP()),
		}
		if id := c.GetString(requestIDKey); id != "" {
			attrs = append(attrs, slog.String("request_id", id))
		}

		level := slog.LevelInfo
		if status >= http.StatusInternalServerError {
			level = slog.LevelError
		} else if status >= http.StatusBadRequest {
			level = slog.LevelWarn
		}
		logger.LogAttrs(c.Request.Context(), level, "http request", attrs...)
	}
}

// PerClientRateLimit allows rps requests per second per client IP with the given burst
func PerClientRateLimit(rl *RateLimiters, rps int, burst int) gin.HandlerFunc {
	rl.start.Do(func() {
		go rl.cleanup(5 * time.Minute)
	})

	return func(c *gin.Context) {
		clientIP := c.ClientIP()

		value, _ := rl.clients.LoadOrStore(clientIP, &clientLimiter{
			limiter: rate.NewLimiter(rate.Limit(rps), burst),
		})

		cl := value.(*clientLimiter)
		cl.lastSeen.Store(time.Now().UnixNano())

		if !cl.limiter.Allow() {
			types.SendError(c, apperrors.New(apperrors.ErrCodeRateLimit, "Rate limit exceeded. Please slow down your requests."))
			c.Abort()
			return
		}
		c.Next()
	}
}

func (rl *RateLimiters) cleanup(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.sweep(time.Now())
		case <-rl.stop:
			return
		}
	}
}

// sweep drops limiters not used since idleTTL before now
func (rl *RateLimiters) sweep(now time.Time) {
	rl.clients.Range(func(key, value interface{}) bool {
		cl := value.(*clientLimiter)
		if now.Sub(time.Unix(0, cl.lastSeen.Load())) > rl.idleTTL {
			rl.clients.Delete(key)
		}
		return true
	})
}
