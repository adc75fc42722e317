package repository

import (
	"context"

	"github.com/Ijadele/Blog/internal/domain"
)

// UserRepository 定义了用户数据的存储和检索操作。
type UserRepository interface {
	// FindByEmail 根据邮箱查找用户。
	// 如果用户不存在，返回 ErrUserNotFound。
	FindByEmail(ctx context.Context, email string) (*domain.User, error)

	// FindByID 根据用户 ID 查找用户。
	// 如果用户不存在，返回 ErrUserNotFound。
	FindByID(ctx context.Context, id string) (*domain.User, error)

	// Create 新建用户，ID 为空时由实现生成。
	// 邮箱冲突时返回 ErrDuplicateEntry。
	Create(ctx context.Context, user *domain.User) error

	// List 分页列出用户 (按创建时间倒序)，同时返回总数。
	List(ctx context.Context, offset, limit int) ([]domain.User, int64, error)
}
