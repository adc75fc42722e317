package service

import (
	"context"
	"errors"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/Ijadele/Blog/internal/domain"
	"github.com/Ijadele/Blog/internal/dto"
	"github.com/Ijadele/Blog/internal/repository"
)

// RegisterInput 是注册所需的数据。Profile 保存请求中除邮箱、密码、用户名以外的字段。
type RegisterInput struct {
	Email    string
	Password string
	Username string
	Profile  map[string]interface{}
}

// UserService 负责用户注册、登录等业务逻辑。
type UserService struct {
	userRepo    repository.UserRepository
	credentials *CredentialService
}

// NewUserService 创建 UserService 实例。
func NewUserService(userRepo repository.UserRepository, credentials *CredentialService) *UserService {
	if userRepo == nil {
		panic("UserRepository cannot be nil for UserService")
	}
	if credentials == nil {
		panic("CredentialService cannot be nil for UserService")
	}
	return &UserService{userRepo: userRepo, credentials: credentials}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register 处理用户注册，成功后返回新用户 (不含密码哈希) 和会话 token。
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*domain.User, string, error) {
	email := normalizeEmail(in.Email)
	logCtx := logrus.WithField("email", email)

	// 1. 基本验证
	if email == "" || in.Password == "" {
		return nil, "", invalidInput("email and password are required")
	}

	// 2. 检查邮箱是否已被占用
	existing, err := s.userRepo.FindByEmail(ctx, email)
	if err == nil && existing != nil {
		logCtx.Warn("Registration failed: email already in use")
		return nil, "", ErrEmailTaken
	}
	if err != nil && !errors.Is(err, repository.ErrUserNotFound) {
		logCtx.WithError(err).Error("Database error while checking email availability")
		return nil, "", ErrInternalServer
	}

	// 3. 哈希密码
	hashedPassword, err := s.credentials.HashPassword(in.Password)
	if err != nil {
		logCtx.WithError(err).Error("Failed to hash password during registration")
		return nil, "", ErrInternalServer
	}

	// 4. 保存用户，新用户一律为普通角色
	user := &domain.User{
		Email:    email,
		Username: strings.TrimSpace(in.Username),
		Password: hashedPassword,
		Role:     domain.RoleUser,
		Profile:  in.Profile,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		// 并发注册同一邮箱时由唯一索引兜底
		if errors.Is(err, repository.ErrDuplicateEntry) {
			logCtx.WithError(err).Warn("Registration failed: email already in use (unique index)")
			return nil, "", ErrEmailTaken
		}
		logCtx.WithError(err).Error("Database error during user creation")
		return nil, "", ErrInternalServer
	}

	// 5. 签发 token
	token, err := s.credentials.IssueToken(user.ID, user.Role)
	if err != nil {
		logCtx.WithError(err).Error("Failed to issue token after registration")
		return nil, "", ErrInternalServer
	}

	logCtx.WithField("user_id", user.ID).Info("User registered successfully")
	user.Password = ""
	return user, token, nil
}

// Login 校验邮箱和密码。邮箱不存在返回 ErrUserNotFound，密码错误返回 ErrInvalidCredentials。
func (s *UserService) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	email = normalizeEmail(email)
	logCtx := logrus.WithField("email", email)

	if email == "" || password == "" {
		return nil, "", invalidInput("email and password are required")
	}

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			logCtx.Warn("Login attempt failed: user not found")
			return nil, "", ErrUserNotFound
		}
		logCtx.WithError(err).Error("Login attempt failed: error finding user")
		return nil, "", ErrInternalServer
	}

	if !s.credentials.VerifyPassword(password, user.Password) {
		logCtx.WithField("user_id", user.ID).Warn("Login attempt failed: invalid password")
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.credentials.IssueToken(user.ID, user.Role)
	if err != nil {
		logCtx.WithError(err).Error("Failed to issue token during login")
		return nil, "", ErrInternalServer
	}

	logCtx.WithField("user_id", user.ID).Info("User logged in successfully")
	user.Password = ""
	return user, token, nil
}

// GetByID 返回用户资料 (不含密码哈希)。
func (s *UserService) GetByID(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		logrus.WithField("user_id", id).WithError(err).Error("GetByID: repository error")
		return nil, ErrInternalServer
	}
	user.Password = ""
	return user, nil
}

// List 分页列出用户，供管理员使用。
func (s *UserService) List(ctx context.Context, page, limit int) ([]domain.User, dto.Pagination, error) {
	users, total, err := s.userRepo.List(ctx, (page-1)*limit, limit)
	if err != nil {
		logrus.WithError(err).Error("List users: repository error")
		return nil, dto.Pagination{}, ErrInternalServer
	}
	for i := range users {
		users[i].Password = ""
	}
	return users, dto.NewPagination(page, limit, total), nil
}
