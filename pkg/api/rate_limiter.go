package api

import (
	"net/http"
	"strconv"

	"taskboard-api/pkg/ratelimit"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

const rateLimitMessage = "Too many requests from this IP, please try again later."

// TaskRateLimiter gates the task routes on the injected limiter and
// attaches the advisory X-RateLimit-* headers to every response.
func TaskRateLimiter(limiter *ratelimit.Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := getCallerIP(c)
		result := limiter.Check(ip)

		c.Header("X-RateLimit-Limit", strconv.Itoa(limiter.Max()))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(result.ResetAt.Unix(), 10))

		if !result.Allowed {
			log.Warn().Str("ip", ip).Int("retryAfter", result.RetryAfter).Msg("Rate limit exceeded")
			response := defaultErrorResponse(rateLimitMessage)
			response.RetryAfter = result.RetryAfter
			c.AbortWithStatusJSON(http.StatusTooManyRequests, response)
			return
		}
		c.Next()
	}
}
