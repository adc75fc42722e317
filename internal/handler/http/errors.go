package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/Ijadele/Blog/internal/service"
)

// HandleServiceError 把 service 层的错误映射为 HTTP 响应。
// 无法识别的错误一律记录日志并返回通用的 500，不向客户端暴露细节。
func HandleServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		ErrorResponse(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrInvalidToken),
		errors.Is(err, service.ErrUnauthenticated):
		ErrorResponse(c, http.StatusUnauthorized, err.Error())
	case errors.Is(err, service.ErrForbidden):
		ErrorResponse(c, http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrPostNotFound),
		errors.Is(err, service.ErrCommentNotFound):
		ErrorResponse(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrEmailTaken), errors.Is(err, service.ErrSlugTaken):
		ErrorResponse(c, http.StatusConflict, err.Error())
	default:
		// Log the internal error for debugging
		logrus.WithError(err).WithField("path", c.Request.URL.Path).Error("Unhandled internal server error")
		_ = c.Error(err)
		InternalErrorResponse(c, "An unexpected error occurred")
	}
}
