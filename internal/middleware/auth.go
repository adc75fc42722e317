package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/Ijadele/Blog/internal/domain"
)

const (
	// SessionCookieName 是携带会话 token 的 cookie 名称
	SessionCookieName = "token"

	identityKey = "identity"
)

// TokenVerifier 校验会话 token 并解析出调用方身份。由 service.CredentialService 实现。
type TokenVerifier interface {
	VerifyToken(token string) (domain.Identity, error)
}

// Authenticate 返回一个 Gin 中间件，校验会话 token 并把调用方身份存入上下文。
// token 优先从 cookie 读取，其次是 Authorization: Bearer 头。
func Authenticate(verifier TokenVerifier) gin.HandlerFunc {
	if verifier == nil {
		panic("TokenVerifier cannot be nil for Authenticate middleware")
	}

	return func(c *gin.Context) {
		candidates := extractTokens(c)
		if len(candidates) == 0 {
			logrus.WithField("path", c.Request.URL.Path).Debug("Authenticate: no session token")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
			return
		}

		// cookie 失效时继续尝试 Authorization 头
		var lastErr error
		for _, tokenStr := range candidates {
			identity, err := verifier.VerifyToken(tokenStr)
			if err != nil {
				lastErr = err
				continue
			}
			c.Set(identityKey, identity)
			c.Next()
			return
		}

		logrus.WithError(lastErr).Warn("Authenticate: invalid session token")
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Invalid or expired token"})
	}
}

// extractTokens 按优先级返回请求携带的 token：先 cookie，后 Authorization 头。
func extractTokens(c *gin.Context) []string {
	var tokens []string
	if cookie, err := c.Cookie(SessionCookieName); err == nil && cookie != "" {
		tokens = append(tokens, cookie)
	}
	parts := strings.Fields(c.GetHeader("Authorization"))
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		tokens = append(tokens, parts[1])
	}
	return tokens
}

// RequireRole 要求调用方具有指定角色，必须放在 Authenticate 之后。
func RequireRole(role domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := CurrentIdentity(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
			return
		}
		if identity.Role != role {
			logrus.WithFields(logrus.Fields{
				"user_id":  identity.UserID,
				"role":     identity.Role,
				"required": role,
			}).Warn("RequireRole: access denied")
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "Access denied: insufficient role"})
			return
		}
		c.Next()
	}
}

// CurrentIdentity 返回 Authenticate 存入上下文的调用方身份。
func CurrentIdentity(c *gin.Context) (domain.Identity, bool) {
	v, exists := c.Get(identityKey)
	if !exists {
		return domain.Identity{}, false
	}
	identity, ok := v.(domain.Identity)
	return identity, ok && identity.UserID != ""
}
