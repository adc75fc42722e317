package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/Ijadele/Blog/internal/domain"
	"github.com/Ijadele/Blog/internal/repository"
	"github.com/Ijadele/Blog/internal/repository/mocks"
	"github.com/Ijadele/Blog/internal/service"
)

func newCredentials(t *testing.T) *service.CredentialService {
	t.Helper()
	creds, err := service.NewCredentialService("very-secret-key", time.Hour, bcrypt.MinCost)
	require.NoError(t, err, "创建 CredentialService 不应失败")
	return creds
}

// --- Register ---

func TestUserService_Register_Success(t *testing.T) {
	// Arrange
	mockUserRepo := new(mocks.UserRepository)
	creds := newCredentials(t)
	userService := service.NewUserService(mockUserRepo, creds)
	ctx := context.Background()

	mockUserRepo.On("FindByEmail", ctx, "jane@example.com").Return(nil, repository.ErrUserNotFound).Once()
	mockUserRepo.On("Create", ctx, mock.MatchedBy(func(user *domain.User) bool {
		return user.Email == "jane@example.com" &&
			user.Role == domain.RoleUser &&
			user.Password != "Secret1!" &&
			bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("Secret1!")) == nil
	})).
		Run(func(args mock.Arguments) {
			args.Get(1).(*domain.User).ID = "user-1"
		}).
		Return(nil).Once()

	// Act
	user, token, err := userService.Register(ctx, service.RegisterInput{
		Email:    "  Jane@Example.com ",
		Password: "Secret1!",
		Username: "jane",
		Profile:  map[string]interface{}{"bio": "hi"},
	})

	// Assert
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, "user-1", user.ID)
	assert.Equal(t, domain.RoleUser, user.Role)
	assert.Empty(t, user.Password, "返回的用户不应包含密码哈希")
	assert.Equal(t, "hi", user.Profile["bio"])

	identity, err := creds.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", identity.UserID)

	mockUserRepo.AssertExpectations(t)
}

func TestUserService_Register_MissingFields(t *testing.T) {
	mockUserRepo := new(mocks.UserRepository)
	userService := service.NewUserService(mockUserRepo, newCredentials(t))

	_, _, err := userService.Register(context.Background(), service.RegisterInput{Email: "a@b.com"})
	assert.ErrorIs(t, err, service.ErrInvalidInput)

	_, _, err = userService.Register(context.Background(), service.RegisterInput{Password: "x"})
	assert.ErrorIs(t, err, service.ErrInvalidInput)

	mockUserRepo.AssertNotCalled(t, "FindByEmail", mock.Anything, mock.Anything)
	mockUserRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestUserService_Register_EmailTaken(t *testing.T) {
	mockUserRepo := new(mocks.UserRepository)
	userService := service.NewUserService(mockUserRepo, newCredentials(t))
	ctx := context.Background()

	mockUserRepo.On("FindByEmail", ctx, "jane@example.com").
		Return(&domain.User{ID: "user-1", Email: "jane@example.com"}, nil).Once()

	_, _, err := userService.Register(ctx, service.RegisterInput{Email: "JANE@example.com", Password: "x"})

	require.Error(t, err)
	assert.ErrorIs(t, err, service.ErrEmailTaken)
	mockUserRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestUserService_Register_DuplicateOnCreate(t *testing.T) {
	mockUserRepo := new(mocks.UserRepository)
	userService := service.NewUserService(mockUserRepo, newCredentials(t))
	ctx := context.Background()

	mockUserRepo.On("FindByEmail", ctx, "jane@example.com").Return(nil, repository.ErrUserNotFound).Once()
	mockUserRepo.On("Create", ctx, mock.AnythingOfType("*domain.User")).Return(repository.ErrDuplicateEntry).Once()

	_, _, err := userService.Register(ctx, service.RegisterInput{Email: "jane@example.com", Password: "x"})

	assert.ErrorIs(t, err, service.ErrEmailTaken, "唯一索引冲突应映射为邮箱已占用")
	mockUserRepo.AssertExpectations(t)
}

func TestUserService_Register_RepositoryFailure(t *testing.T) {
	mockUserRepo := new(mocks.UserRepository)
	userService := service.NewUserService(mockUserRepo, newCredentials(t))
	ctx := context.Background()

	mockUserRepo.On("FindByEmail", ctx, "jane@example.com").Return(nil, errors.New("connection refused")).Once()

	_, _, err := userService.Register(ctx, service.RegisterInput{Email: "jane@example.com", Password: "x"})

	assert.ErrorIs(t, err, service.ErrInternalServer)
	mockUserRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

// --- Login ---

func TestUserService_Login(t *testing.T) {
	creds := newCredentials(t)
	hash, err := creds.HashPassword("Secret1!")
	require.NoError(t, err)
	stored := func() *domain.User {
		return &domain.User{ID: "user-1", Email: "jane@example.com", Password: hash, Role: domain.RoleUser}
	}

	t.Run("success", func(t *testing.T) {
		mockUserRepo := new(mocks.UserRepository)
		userService := service.NewUserService(mockUserRepo, creds)
		mockUserRepo.On("FindByEmail", mock.Anything, "jane@example.com").Return(stored(), nil).Once()

		user, token, err := userService.Login(context.Background(), "Jane@Example.com", "Secret1!")

		require.NoError(t, err)
		assert.Equal(t, "user-1", user.ID)
		assert.Empty(t, user.Password)
		assert.NotEmpty(t, token)
		mockUserRepo.AssertExpectations(t)
	})

	t.Run("wrong password", func(t *testing.T) {
		mockUserRepo := new(mocks.UserRepository)
		userService := service.NewUserService(mockUserRepo, creds)
		mockUserRepo.On("FindByEmail", mock.Anything, "jane@example.com").Return(stored(), nil).Once()

		_, token, err := userService.Login(context.Background(), "jane@example.com", "nope")

		assert.ErrorIs(t, err, service.ErrInvalidCredentials)
		assert.Empty(t, token)
	})

	t.Run("unknown email", func(t *testing.T) {
		mockUserRepo := new(mocks.UserRepository)
		userService := service.NewUserService(mockUserRepo, creds)
		mockUserRepo.On("FindByEmail", mock.Anything, "ghost@example.com").Return(nil, repository.ErrUserNotFound).Once()

		_, _, err := userService.Login(context.Background(), "ghost@example.com", "Secret1!")

		assert.ErrorIs(t, err, service.ErrUserNotFound)
	})

	t.Run("missing fields", func(t *testing.T) {
		mockUserRepo := new(mocks.UserRepository)
		userService := service.NewUserService(mockUserRepo, creds)

		_, _, err := userService.Login(context.Background(), "", "Secret1!")

		assert.ErrorIs(t, err, service.ErrInvalidInput)
		mockUserRepo.AssertNotCalled(t, "FindByEmail", mock.Anything, mock.Anything)
	})
}

// --- GetByID / List ---

func TestUserService_GetByID(t *testing.T) {
	mockUserRepo := new(mocks.UserRepository)
	userService := service.NewUserService(mockUserRepo, newCredentials(t))
	ctx := context.Background()

	mockUserRepo.On("FindByID", ctx, "user-1").Return(&domain.User{ID: "user-1", Password: "hash"}, nil).Once()
	mockUserRepo.On("FindByID", ctx, "missing").Return(nil, repository.ErrUserNotFound).Once()

	user, err := userService.GetByID(ctx, "user-1")
	require.NoError(t, err)
	assert.Empty(t, user.Password)

	_, err = userService.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, service.ErrUserNotFound)
}

func TestUserService_List(t *testing.T) {
	mockUserRepo := new(mocks.UserRepository)
	userService := service.NewUserService(mockUserRepo, newCredentials(t))
	ctx := context.Background()

	users := []domain.User{{ID: "a", Password: "h"}, {ID: "b", Password: "h"}}
	mockUserRepo.On("List", ctx, 10, 10).Return(users, int64(12), nil).Once()

	got, pagination, err := userService.List(ctx, 2, 10)

	require.NoError(t, err)
	assert.Len(t, got, 2)
	for _, u := range got {
		assert.Empty(t, u.Password)
	}
	assert.Equal(t, 2, pagination.Page)
	assert.Equal(t, int64(12), pagination.Total)
	assert.Equal(t, 2, pagination.Pages)
	mockUserRepo.AssertExpectations(t)
}
