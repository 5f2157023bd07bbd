package api

import (
	"net/http"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/killallgit/paperreel-api/api/types"
	"github.com/killallgit/paperreel-api/pkg/config"
	apperrors "github.com/killallgit/paperreel-api/pkg/errors"
)

const defaultMaxBodyBytes = 1024 * 1024

// clientLimiter holds a rate limiter and its last accessed time
type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen atomic.Int64
}

// CORS answers preflight requests and sets the configured CORS headers.
// With CORS disabled it is a pass-through.
func CORS(cfg config.SecurityConfig) gin.HandlerFunc {
	origins := cfg.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	allowAny := false
	for _, o := range origins {
		if o == "*" {
			allowAny = true
		}
	}
	methods := strings.Join(cfg.CORSMethods, ", ")
	headers := strings.Join(cfg.CORSHeaders, ", ")

	return func(c *gin.Context) {
		if !cfg.EnableCORS {
			c.Next()
			return
		}

		origin := c.GetHeader("Origin")
		switch {
		case allowAny:
			c.Header("Access-Control-Allow-Origin", "*")
		case origin != "" && contains(origins, origin):
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Vary", "Origin")
		}
		if methods != "" {
			c.Header("Access-Control-Allow-Methods", methods)
		}
		if headers != "" {
			c.Header("Access-Control-Allow-Headers", headers)
		}
		c.Header("Access-Control-Expose-Headers", "X-Revision, Content-Range")
		c.Header("Access-Control-Max-Age", "86400")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

func contains(values []string, v string) bool {
	for _, s := range values {
		if s == v {
			return true
		}
	}
	return false
}

func RequestSizeLimit() gin.HandlerFunc {
	return RequestSizeLimitWithSize(defaultMaxBodyBytes)
}

func RequestSizeLimitWithSize(maxBytes int64) gin.HandlerFunc {
	if maxBytes <= 0 {
		maxBytes = defaultMaxBodyBytes
	}
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodPost ||
			c.Request.Method == http.MethodPut ||
			c.Request.Method == http.MethodPatch {
			if c.Request.ContentLength > maxBytes {
				c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, types.LegacyErrorResponse{
					Error: "request body too large",
				})
				return
			}
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		}
		c.Next()
	}
}

// ClientLimiters keeps one token bucket per client and limit name. Clients
// idle for longer than the TTL are forgotten by Sweep.
type ClientLimiters struct {
	limiters sync.Map
	ttl      time.Duration
}

// NewClientLimiters creates an empty limiter set
func NewClientLimiters(ttl time.Duration) *ClientLimiters {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &ClientLimiters{ttl: ttl}
}

func (l *ClientLimiters) get(key string, perMinute, burst int, now time.Time) *clientLimiter {
	v, ok := l.limiters.Load(key)
	if !ok {
		fresh := &clientLimiter{
			limiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), burst),
		}
		v, _ = l.limiters.LoadOrStore(key, fresh)
	}
	cl := v.(*clientLimiter)
	cl.lastSeen.Store(now.UnixNano())
	return cl
}

// Len returns the number of tracked clients
func (l *ClientLimiters) Len() int {
	n := 0
	l.limiters.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}

// Sweep drops limiters unused since now minus the TTL and returns how many
// were dropped.
func (l *ClientLimiters) Sweep(now time.Time) int {
	cutoff := now.Add(-l.ttl).UnixNano()
	removed := 0
	l.limiters.Range(func(key, value any) bool {
		if value.(*clientLimiter).lastSeen.Load() < cutoff {
			l.limiters.Delete(key)
			removed++
		}
		return true
	})
	return removed
}

// PerClientRateLimit allows perMinute requests per client with the given
// burst. Limits with different names are tracked separately.
func PerClientRateLimit(limiters *ClientLimiters, name string, perMinute, burst int) gin.HandlerFunc {
	if perMinute <= 0 {
		return func(c *gin.Context) { c.Next() }
	}
	if burst <= 0 {
		burst = 1
	}
	limit := strconv.Itoa(perMinute) + "/min"

	return func(c *gin.Context) {
		cl := limiters.get(name+"|"+c.ClientIP(), perMinute, burst, time.Now())
		if !cl.limiter.Allow() {
			c.Header("Retry-After", "60")
			types.SendError(c, apperrors.RateLimitError(name, limit))
			c.Abort()
			return
		}
		c.Next()
	}
}
