package http

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/Ijadele/Blog/internal/dto"
	"github.com/Ijadele/Blog/internal/middleware"
	"github.com/Ijadele/Blog/internal/service"
)

// PostHandler 封装了文章相关的 HTTP 处理逻辑
type PostHandler struct {
	postService *service.PostService
	uploadDir   string
	maxImages   int
}

// NewPostHandler 创建 PostHandler 实例。uploadDir 是图片上传前的临时目录。
func NewPostHandler(postService *service.PostService, uploadDir string, maxImages int) *PostHandler {
	return &PostHandler{postService: postService, uploadDir: uploadDir, maxImages: maxImages}
}

// CreatePostRequest 是 JSON 方式创建文章时的请求体
type CreatePostRequest struct {
	Title     string   `json:"title"`
	Content   string   `json:"content"`
	Published *bool    `json:"published"`
	Tags      []string `json:"tags"`
}

// UpdatePostRequest 中未提供的字段保持不变
type UpdatePostRequest struct {
	Title     *string `json:"title"`
	Content   *string `json:"content"`
	Published *bool   `json:"published"`
}

// CreatePost 支持 multipart (可附带 images) 和 JSON 两种请求体
func (h *PostHandler) CreatePost(c *gin.Context) {
	identity, ok := middleware.CurrentIdentity(c)
	if !ok {
		HandleServiceError(c, service.ErrUnauthenticated)
		return
	}

	var in service.CreatePostInput
	if c.ContentType() == gin.MIMEMultipartPOSTForm {
		parsed, err := h.bindMultipart(c)
		if err != nil {
			HandleServiceError(c, err)
			return
		}
		in = parsed
	} else {
		var req CreatePostRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			logrus.WithError(err).Warn("Handler.CreatePost: Invalid input format")
			ErrorResponse(c, http.StatusBadRequest, "Invalid input")
			return
		}
		in = service.CreatePostInput{Title: req.Title, Content: req.Content, Published: req.Published, Tags: req.Tags}
	}

	post, err := h.postService.Create(c.Request.Context(), identity, in)
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	SuccessResponse(c, http.StatusCreated, "Post created successfully", gin.H{"post": post})
}

// bindMultipart 读取表单字段并把图片保存到临时目录。
// 出错时已保存的临时文件会被删除，成功时由 PostService 负责删除。
func (h *PostHandler) bindMultipart(c *gin.Context) (service.CreatePostInput, error) {
	form, err := c.MultipartForm()
	if err != nil {
		return service.CreatePostInput{}, fmt.Errorf("%w: malformed multipart body", service.ErrInvalidInput)
	}

	in := service.CreatePostInput{
		Title:   c.PostForm("title"),
		Content: c.PostForm("content"),
		Tags:    splitTags(c.PostFormArray("tags")),
	}
	if raw, ok := c.GetPostForm("published"); ok {
		published := raw != "false"
		in.Published = &published
	}

	files := form.File["images"]
	if len(files) > h.maxImages {
		return service.CreatePostInput{}, fmt.Errorf("%w: at most %d images are allowed", service.ErrInvalidInput, h.maxImages)
	}
	for _, fh := range files {
		dst := filepath.Join(h.uploadDir, uuid.NewString()+filepath.Ext(fh.Filename))
		if err := c.SaveUploadedFile(fh, dst); err != nil {
			for _, saved := range in.Images {
				os.Remove(saved.LocalPath)
			}
			return service.CreatePostInput{}, fmt.Errorf("save upload %q: %w", fh.Filename, err)
		}
		in.Images = append(in.Images, service.ImageUpload{LocalPath: dst, OriginalName: filepath.Base(fh.Filename)})
	}
	return in, nil
}

// splitTags 同时支持重复字段 (tags=a&tags=b) 和逗号分隔 (tags=a,b)
func splitTags(values []string) []string {
	var tags []string
	for _, v := range values {
		tags = append(tags, strings.Split(v, ",")...)
	}
	return tags
}

// ListPosts 分页查询文章
func (h *PostHandler) ListPosts(c *gin.Context) {
	var query dto.ListPostsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid query parameters")
		return
	}
	published, publishedSet := c.GetQuery("published")

	posts, pagination, err := h.postService.List(c.Request.Context(), query.Normalize(published, publishedSet))
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, "Posts fetched successfully", gin.H{
		"posts":      posts,
		"pagination": pagination,
	})
}

// GetPost 返回文章详情
func (h *PostHandler) GetPost(c *gin.Context) {
	post, err := h.postService.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, "Post fetched successfully", gin.H{"post": post})
}

// UpdatePost 只有作者可以修改文章
func (h *PostHandler) UpdatePost(c *gin.Context) {
	identity, ok := middleware.CurrentIdentity(c)
	if !ok {
		HandleServiceError(c, service.ErrUnauthenticated)
		return
	}
	var req UpdatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid input")
		return
	}

	post, err := h.postService.Update(c.Request.Context(), c.Param("id"), identity, service.UpdatePostInput{
		Title:     req.Title,
		Content:   req.Content,
		Published: req.Published,
	})
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, "Post updated successfully", gin.H{"post": post})
}

// DeletePost 只有作者可以删除文章
func (h *PostHandler) DeletePost(c *gin.Context) {
	identity, ok := middleware.CurrentIdentity(c)
	if !ok {
		HandleServiceError(c, service.ErrUnauthenticated)
		return
	}
	if err := h.postService.Delete(c.Request.Context(), c.Param("id"), identity); err != nil {
		HandleServiceError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, "Post deleted successfully", nil)
}
