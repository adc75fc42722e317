package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Ijadele/Blog/internal/middleware"
	"github.com/Ijadele/Blog/internal/service"
)

// CommentHandler 封装了评论相关的 HTTP 处理逻辑
type CommentHandler struct {
	commentService *service.CommentService
}

// NewCommentHandler 创建 CommentHandler 实例
func NewCommentHandler(commentService *service.CommentService) *CommentHandler {
	return &CommentHandler{commentService: commentService}
}

// CreateCommentRequest 定义发表评论的请求体
type CreateCommentRequest struct {
	PostID  string `json:"postId"`
	Content string `json:"content"`
}

// UpdateCommentRequest 定义修改评论的请求体
type UpdateCommentRequest struct {
	Content string `json:"content"`
}

// CreateComment 发表评论
func (h *CommentHandler) CreateComment(c *gin.Context) {
	identity, ok := middleware.CurrentIdentity(c)
	if !ok {
		HandleServiceError(c, service.ErrUnauthenticated)
		return
	}
	var req CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid input")
		return
	}

	comment, err := h.commentService.Create(c.Request.Context(), identity, req.PostID, req.Content)
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	SuccessResponse(c, http.StatusCreated, "Comment created successfully", gin.H{"comment": comment})
}

// ListComments 返回文章下的评论
func (h *CommentHandler) ListComments(c *gin.Context) {
	comments, err := h.commentService.ListByPost(c.Request.Context(), c.Param("postId"))
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, "Comments fetched successfully", gin.H{"comments": comments})
}

// UpdateComment 修改评论内容
func (h *CommentHandler) UpdateComment(c *gin.Context) {
	identity, ok := middleware.CurrentIdentity(c)
	if !ok {
		HandleServiceError(c, service.ErrUnauthenticated)
		return
	}
	var req UpdateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid input")
		return
	}

	comment, err := h.commentService.Update(c.Request.Context(), c.Param("id"), identity, req.Content)
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, "Comment updated successfully", gin.H{"comment": comment})
}

// DeleteComment 只有评论作者或管理员可以删除
func (h *CommentHandler) DeleteComment(c *gin.Context) {
	identity, ok := middleware.CurrentIdentity(c)
	if !ok {
		HandleServiceError(c, service.ErrUnauthenticated)
		return
	}
	if err := h.commentService.Delete(c.Request.Context(), c.Param("id"), identity); err != nil {
		HandleServiceError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, "Comment deleted successfully", nil)
}
