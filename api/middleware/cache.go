package middleware

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/killallgit/fortune-api/internal/services/cache"
)

// CacheConfig holds configuration for cache middleware
type CacheConfig struct {
	Cache cache.Cache
	TTL   time.Duration
}

// CachedResponse represents a cached HTTP response
type CachedResponse struct {
	Status      int       `json:"status"`
	ContentType string    `json:"content_type"`
	Body        []byte    `json:"body"`
	CachedAt    time.Time `json:"cached_at"`
	ETag        string    `json:"etag"`
}

// responseWriter holds the body back until the handler returns so the
// ETag header can still be set before anything reaches the client
type responseWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w *responseWriter) Write(data []byte) (int, error) {
	return w.body.Write(data)
}

func (w *responseWriter) WriteString(s string) (int, error) {
	return w.body.WriteString(s)
}

// CacheMiddleware serves successful GET responses from the cache
func CacheMiddleware(config CacheConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		if config.Cache == nil || c.Request.Method != http.MethodGet {
			c.Next()
			return
		}

		if shouldBypassCache(c.Request) {
			c.Header("X-Cache", "BYPASS")
			c.Next()
			return
		}

		ctx := c.Request.Context()
		key := generateCacheKey(c.Request)

		if data, found := config.Cache.Get(ctx, key); found {
			var cached CachedResponse
			if err := json.Unmarshal(data, &cached); err == nil {
				if match := c.GetHeader("If-None-Match"); match != "" && match == cached.ETag {
					c.Header("ETag", cached.ETag)
					c.AbortWithStatus(http.StatusNotModified)
					return
				}

				c.Header("X-Cache", "HIT")
				c.Header("ETag", cached.ETag)
				c.Header("Age", fmt.Sprintf("%d", int(time.Since(cached.CachedAt).Seconds())))
				c.Data(cached.Status, cached.ContentType, cached.Body)
				c.Abort()
				return
			}
		}

		c.Header("X-Cache", "MISS")

		w := &responseWriter{
			ResponseWriter: c.Writer,
			body:           bytes.NewBuffer(nil),
		}
		c.Writer = w

		c.Next()
		c.Writer = w.ResponseWriter

		body := w.body.Bytes()
		if len(body) == 0 {
			return
		}

		status := w.Status()
		etag := generateETag(body)
		if status == http.StatusOK {
			c.Header("ETag", etag)
		}
		if _, err := w.ResponseWriter.Write(body); err != nil || status != http.StatusOK {
			return
		}

		cached := CachedResponse{
			Status:      status,
			ContentType: w.Header().Get("Content-Type"),
			Body:        body,
			CachedAt:    time.Now().UTC(),
			ETag:        etag,
		}
		if data, err := json.Marshal(cached); err == nil {
			_ = config.Cache.Set(ctx, key, data, config.TTL)
		}
	}
}

// shouldBypassCache checks if cache should be bypassed based on request headers
func shouldBypassCache(req *http.Request) bool {
	if req.Header.Get("Pragma") == "no-cache" {
		return true
	}

	for _, directive := range strings.Split(strings.ToLower(req.Header.Get("Cache-Control")), ",") {
		directive = strings.TrimSpace(directive)
		if directive == "no-cache" || directive == "no-store" || directive == "max-age=0" {
			return true
		}
	}
	return false
}

// generateCacheKey creates a unique key for the request
func generateCacheKey(req *http.Request) string {
	parts := []string{req.URL.Path}

	if req.URL.RawQuery != "" {
		params := req.URL.Query()
		keys := make([]string, 0, len(params))
		for k := range params {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		for _, k := range keys {
			for _, v := range params[k] {
				parts = append(parts, k+"="+v)
			}
		}
	}

	return "http:" + strings.Join(parts, ":")
}

// generateETag creates an ETag for the response body
func generateETag(body []byte) string {
	hash := sha256.Sum256(body)
	return fmt.Sprintf(`"%s"`, hex.EncodeToString(hash[:]))
}
