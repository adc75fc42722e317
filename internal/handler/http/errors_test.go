package http

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/Ijadele/Blog/internal/service"
)

func TestHandleServiceError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		err        error
		wantStatus int
	}{
		{fmt.Errorf("%w: title is required", service.ErrInvalidInput), http.StatusBadRequest},
		{service.ErrInvalidCredentials, http.StatusUnauthorized},
		{service.ErrUnauthenticated, http.StatusUnauthorized},
		{service.ErrNotPostAuthor, http.StatusForbidden},
		{service.ErrNotCommentOwner, http.StatusForbidden},
		{service.ErrUserNotFound, http.StatusNotFound},
		{service.ErrPostNotFound, http.StatusNotFound},
		{service.ErrCommentNotFound, http.StatusNotFound},
		{service.ErrEmailTaken, http.StatusConflict},
		{service.ErrSlugTaken, http.StatusConflict},
		{errors.New("dial tcp: connection refused"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.err.Error(), func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

			HandleServiceError(c, tc.err)

			assert.Equal(t, tc.wantStatus, w.Code)
			assert.Contains(t, w.Body.String(), `"message"`)
			if tc.wantStatus == http.StatusInternalServerError {
				assert.Contains(t, w.Body.String(), `"error"`)
				assert.NotContains(t, w.Body.String(), "connection refused", "不应向客户端暴露内部错误")
			}
		})
	}
}
