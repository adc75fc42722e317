package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/Ijadele/Blog/internal/repository"
)

// RateLimit 返回一个 Gin 中间件，按路由和客户端 IP 限流。
// limiter: 计数器存储，必须提供。
// maxRequests: 在指定时间窗口内允许的最大请求数。
// window: 速率限制的时间窗口。
func RateLimit(limiter repository.RateLimitRepository, maxRequests int, window time.Duration) gin.HandlerFunc {
	// 启动时检查依赖
	if limiter == nil {
		panic("RateLimitRepository cannot be nil for RateLimit middleware")
	}
	if maxRequests <= 0 {
		panic("maxRequests must be positive for RateLimit middleware")
	}
	if window <= 0 {
		panic("window duration must be positive for RateLimit middleware")
	}

	return func(c *gin.Context) {
		// 如果服务在反向代理后面，需要配置 gin 的 TrustedProxies 才能拿到真实 IP
		key := c.FullPath() + ":" + c.ClientIP()

		exceeded, err := limiter.CheckRateLimit(c.Request.Context(), key, maxRequests, window)
		if err != nil {
			logrus.WithError(err).Error("RateLimit: counter store failed")
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"message": "Rate limiting error",
				"error":   "internal server error",
			})
			return
		}
		if exceeded {
			logrus.WithField("key", key).Warn("RateLimit: too many requests")
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"message": "Too many requests, please try again later"})
			return
		}

		c.Next()
	}
}
