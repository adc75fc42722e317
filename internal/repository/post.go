package repository

import (
	"context"

	"github.com/Ijadele/Blog/internal/domain"
	"github.com/Ijadele/Blog/internal/dto"
)

// PostRepository 定义了文章数据的存储和检索操作。
type PostRepository interface {
	// Create 新建文章，ID 为空时由实现生成。
	// slug 冲突时返回 ErrDuplicateEntry。
	Create(ctx context.Context, post *domain.Post) error

	// FindByID 查找文章并展开作者信息。
	// 如果文章不存在，返回 ErrPostNotFound。
	FindByID(ctx context.Context, id string) (*domain.Post, error)

	// ExistsBySlug 检查 slug 是否已被占用。
	ExistsBySlug(ctx context.Context, slug string) (bool, error)

	// ExistsByID 检查文章是否存在。
	ExistsByID(ctx context.Context, id string) (bool, error)

	// List 按过滤条件分页查询文章，同时返回满足条件的总数。
	List(ctx context.Context, filter dto.PostFilter) ([]domain.Post, int64, error)

	// Update 仅更新可编辑字段 (title, content, published)，作者与 slug 不变。
	Update(ctx context.Context, post *domain.Post) error

	// Delete 删除文章。
	Delete(ctx context.Context, id string) error
}
