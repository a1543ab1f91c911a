package middleware

import (
	"math"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/keremavci/authkit/authctx"
	"github.com/keremavci/authkit/errors"
	"github.com/keremavci/authkit/ratelimit"
	"github.com/keremavci/authkit/telemetry"
)

// RateLimitConfig configures the rate limiting middleware for one
// named policy.
type RateLimitConfig struct {
	// Limiter holds the counting state, shared across middlewares.
	Limiter *ratelimit.Limiter

	// Policy names which configured limit applies.
	Policy string

	// KeyFunc extracts the counting key from a request. Defaults to
	// the authenticated account id, falling back to client IP.
	KeyFunc func(*gin.Context) string

	// Metrics counts rejections. Optional.
	Metrics *telemetry.Metrics
}

// RateLimit returns a Gin middleware enforcing the named policy.
// Rejected requests get 429 with a Retry-After header.
func RateLimit(cfg RateLimitConfig) gin.HandlerFunc {
	if cfg.KeyFunc == nil {
		cfg.KeyFunc = AccountKey
	}
	return func(c *gin.Context) {
		res, err := cfg.Limiter.Check(cfg.Policy, cfg.KeyFunc(c))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"error": gin.H{"kind": errors.KindInternal, "message": "internal error"},
			})
			return
		}
		if !res.Admitted {
			cfg.Metrics.RecordRateLimitRejection(c.Request.Context(), cfg.Policy)
			retryAfter := int64(math.Ceil(res.RetryAfter.Seconds()))
			if retryAfter < 1 {
				retryAfter = 1
			}
			c.Header("Retry-After", strconv.FormatInt(retryAfter, 10))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": gin.H{"kind": errors.KindRateLimited, "message": "too many requests"},
			})
			return
		}
		c.Next()
	}
}

// AccountKey keys the limit on the authenticated account, falling back
// to the client IP for anonymous requests.
func AccountKey(c *gin.Context) string {
	if id, ok := authctx.FromContext(c.Request.Context()); ok && id.AccountID != "" {
		return id.AccountID
	}
	return c.ClientIP()
}

// IPKey keys the limit on the client IP regardless of authentication.
func IPKey(c *gin.Context) string {
	return c.ClientIP()
}
