package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Ijadele/Blog/internal/middleware"
)

// CookieHelper 管理会话 cookie。
type CookieHelper struct {
	secure bool
}

// NewCookieHelper 创建 CookieHelper。secure 为 false 仅用于本地 http 开发。
func NewCookieHelper(secure bool) *CookieHelper {
	return &CookieHelper{secure: secure}
}

// SetSession 写入会话 cookie，max-age 与 token 有效期一致。
func (h *CookieHelper) SetSession(c *gin.Context, token string, expiry time.Duration) {
	h.setCookie(c, token, int(expiry.Seconds()))
}

// ClearSession 清除会话 cookie。
func (h *CookieHelper) ClearSession(c *gin.Context) {
	h.setCookie(c, "", -1)
}

func (h *CookieHelper) setCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(
		middleware.SessionCookieName,
		value,
		maxAge,
		"/",
		"",
		h.secure,
		true, // httpOnly
	)
}
