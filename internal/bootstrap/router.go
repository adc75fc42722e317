package bootstrap

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/Ijadele/Blog/internal/domain"
	httpHandler "github.com/Ijadele/Blog/internal/handler/http"
	"github.com/Ijadele/Blog/internal/middleware"
	"github.com/Ijadele/Blog/internal/repository"
)

// RouterDeps 是构建路由所需的全部依赖
type RouterDeps struct {
	Log             *logrus.Logger
	AllowedOrigin   string
	Verifier        middleware.TokenVerifier
	Limiter         repository.RateLimitRepository
	RateLimitMax    int
	RateLimitWindow time.Duration
	Metrics         *middleware.Metrics

	AuthHandler    *httpHandler.AuthHandler
	PostHandler    *httpHandler.PostHandler
	CommentHandler *httpHandler.CommentHandler
}

// NewRouter 创建 Gin Engine 并注册所有路由
func NewRouter(d RouterDeps) *gin.Engine {
	router := gin.New()
	router.Use(gin.CustomRecovery(func(c *gin.Context, recovered any) {
		d.Log.WithField("path", c.Request.URL.Path).Errorf("Recovered from panic: %v", recovered)
		httpHandler.InternalErrorResponse(c, "An unexpected error occurred")
		c.Abort()
	}))
	router.Use(LoggerMiddleware(d.Log))
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{d.AllowedOrigin},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Requested-With"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	router.Use(d.Metrics.Middleware())

	// --- 公开路由 ---
	router.GET("/ping", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"message": "pong"}) })
	router.GET("/metrics", gin.WrapH(d.Metrics.Handler()))

	limited := middleware.RateLimit(d.Limiter, d.RateLimitMax, d.RateLimitWindow)
	router.POST("/register", limited, d.AuthHandler.Register)
	router.POST("/login", limited, d.AuthHandler.Login)
	router.POST("/logout", d.AuthHandler.Logout)

	// --- 需要登录的路由 ---
	authed := router.Group("/", middleware.Authenticate(d.Verifier))
	{
		authed.GET("/me", d.AuthHandler.Me)
		authed.GET("/users", middleware.RequireRole(domain.RoleAdmin), d.AuthHandler.ListUsers)

		authed.POST("/post", d.PostHandler.CreatePost)
		authed.GET("/post", d.PostHandler.ListPosts)
		authed.GET("/post/:id", d.PostHandler.GetPost)
		authed.PUT("/post/:id", d.PostHandler.UpdatePost)
		authed.DELETE("/post/:id", d.PostHandler.DeletePost)

		authed.POST("/comments", d.CommentHandler.CreateComment)
		authed.GET("/comments/:postId", d.CommentHandler.ListComments)
		authed.PUT("/comments/:id", d.CommentHandler.UpdateComment)
		authed.DELETE("/comments/:id", d.CommentHandler.DeleteComment)
	}

	router.NoRoute(func(c *gin.Context) {
		httpHandler.ErrorResponse(c, http.StatusNotFound, "Route not found")
	})
	return router
}

// LoggerMiddleware 创建一个 Gin 中间件用于记录请求日志
func LoggerMiddleware(log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		startTime := time.Now()
		c.Next()
		latency := time.Since(startTime)
		statusCode := c.Writer.Status()
		path := c.Request.URL.Path
		if c.Request.URL.RawQuery != "" {
			path = path + "?" + c.Request.URL.RawQuery
		}
		errorMessage := c.Errors.ByType(gin.ErrorTypePrivate).String()

		entry := log.WithFields(logrus.Fields{
			"status_code": statusCode,
			"latency_ms":  latency.Milliseconds(),
			"client_ip":   c.ClientIP(),
			"method":      c.Request.Method,
			"path":        path,
		})

		switch {
		case errorMessage != "":
			entry.Error(errorMessage)
		case statusCode >= 500:
			entry.Error("Server error")
		case statusCode >= 400:
			entry.Warn("Client error")
		default:
			entry.Info("Request handled")
		}
	}
}
