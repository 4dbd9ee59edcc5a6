package middleware

import (
	"fmt"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/developia-II/servicehub-backend/utils"
	"github.com/gin-gonic/gin"
)

// RateLimitMiddleware caps requests per client IP using a fixed one-minute
// window in Redis. When Redis is not configured the middleware is a no-op.
func RateLimitMiddleware() gin.HandlerFunc {
	maxPerMinute := 120
	if v := os.Getenv("MAX_REQUESTS_PER_MIN"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			maxPerMinute = parsed
		}
	}

	return func(c *gin.Context) {
		client := utils.GetCacheClient()
		if client == nil {
			c.Next()
			return
		}

		key := fmt.Sprintf("ratelimit:%s", c.ClientIP())
		count, err := client.Incr(c.Request.Context(), key).Result()
		if err != nil {
			c.Next()
			return
		}
		if count == 1 {
			client.Expire(c.Request.Context(), key, time.Minute)
		}

		if count > int64(maxPerMinute) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, utils.ErrorResponse("Rate limit exceeded. Try again later."))
			return
		}
		c.Next()
	}
}
