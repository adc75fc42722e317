package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ErrorResponse 返回只包含 message 的错误响应。
func ErrorResponse(c *gin.Context, code int, message string) {
	c.JSON(code, gin.H{"message": message})
}

// InternalErrorResponse 返回 5xx 响应，error 字段只携带通用描述。
func InternalErrorResponse(c *gin.Context, message string) {
	c.JSON(http.StatusInternalServerError, gin.H{"message": message, "error": "internal server error"})
}

// SuccessResponse 返回带 message 的成功响应，payload 按资源名作为键。
func SuccessResponse(c *gin.Context, code int, message string, payload gin.H) {
	body := gin.H{"message": message}
	for k, v := range payload {
		body[k] = v
	}
	c.JSON(code, body)
}
