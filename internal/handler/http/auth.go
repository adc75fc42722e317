package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/sirupsen/logrus"

	"github.com/Ijadele/Blog/internal/dto"
	"github.com/Ijadele/Blog/internal/middleware"
	"github.com/Ijadele/Blog/internal/service"
)

// AuthHandler 封装了与用户认证相关的 HTTP 处理逻辑
type AuthHandler struct {
	userService *service.UserService
	credentials *service.CredentialService
	cookies     *CookieHelper
}

// NewAuthHandler 创建 AuthHandler 实例
func NewAuthHandler(userService *service.UserService, credentials *service.CredentialService, cookies *CookieHelper) *AuthHandler {
	return &AuthHandler{userService: userService, credentials: credentials, cookies: cookies}
}

// RegisterRequest 定义注册请求的已知字段，其余字段进入用户资料
type RegisterRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	Username string `json:"username"`
}

// 这些字段不会进入用户资料。role 由服务端决定，客户端传入的值被忽略
var reservedRegisterFields = []string{"email", "password", "username", "role", "id", "_id"}

// Register 处理用户注册请求
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	// 1. 绑定输入 JSON，请求体需要读两次，所以使用 ShouldBindBodyWith
	if err := c.ShouldBindBodyWith(&req, binding.JSON); err != nil {
		logrus.WithError(err).Warn("Handler.Register: Invalid input format")
		ErrorResponse(c, http.StatusBadRequest, "Invalid input: email and password are required")
		return
	}
	var extras map[string]interface{}
	if err := c.ShouldBindBodyWith(&extras, binding.JSON); err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid input")
		return
	}
	for _, key := range reservedRegisterFields {
		delete(extras, key)
	}

	// 2. 调用 Service 层处理注册逻辑
	user, token, err := h.userService.Register(c.Request.Context(), service.RegisterInput{
		Email:    req.Email,
		Password: req.Password,
		Username: req.Username,
		Profile:  extras,
	})
	if err != nil {
		HandleServiceError(c, err)
		return
	}

	// 3. 注册成功响应，token 只在响应体中返回
	SuccessResponse(c, http.StatusCreated, "User registered successfully", gin.H{
		"user":  user,
		"token": token,
	})
}

// LoginRequest 定义登录请求的结构体
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login 处理用户登录请求，成功后写入会话 cookie
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logrus.WithError(err).Warn("Handler.Login: Invalid input format")
		ErrorResponse(c, http.StatusBadRequest, "Invalid input: email and password are required")
		return
	}

	user, token, err := h.userService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		HandleServiceError(c, err)
		return
	}

	h.cookies.SetSession(c, token, h.credentials.TokenExpiry())
	SuccessResponse(c, http.StatusOK, "Login successful", gin.H{
		"user":  user,
		"token": token,
	})
}

// Logout 清除会话 cookie，幂等
func (h *AuthHandler) Logout(c *gin.Context) {
	h.cookies.ClearSession(c)
	SuccessResponse(c, http.StatusOK, "Logged out successfully", nil)
}

// Me 返回当前登录用户的资料
func (h *AuthHandler) Me(c *gin.Context) {
	identity, ok := middleware.CurrentIdentity(c)
	if !ok {
		HandleServiceError(c, service.ErrUnauthenticated)
		return
	}
	user, err := h.userService.GetByID(c.Request.Context(), identity.UserID)
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, "User fetched successfully", gin.H{"user": user})
}

// ListUsers 分页列出用户，仅管理员可用
func (h *AuthHandler) ListUsers(c *gin.Context) {
	page, limit := dto.NormalizePage(c.Query("page"), c.Query("limit"))
	users, pagination, err := h.userService.List(c.Request.Context(), page, limit)
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, "Users fetched successfully", gin.H{
		"users":      users,
		"pagination": pagination,
	})
}
