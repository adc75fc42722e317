package repository

import (
	"context"

	"github.com/Ijadele/Blog/internal/domain"
)

// CommentRepository 定义了评论数据的存储和检索操作。
type CommentRepository interface {
	Create(ctx context.Context, comment *domain.Comment) error

	// FindByID 如果评论不存在，返回 ErrCommentNotFound。
	FindByID(ctx context.Context, id string) (*domain.Comment, error)

	// ListByPost 返回某篇文章的评论，按创建时间倒序，并展开作者 (username, email, role)。
	ListByPost(ctx context.Context, postID string) ([]domain.Comment, error)

	// UpdateContent 更新评论内容。
	UpdateContent(ctx context.Context, comment *domain.Comment) error

	Delete(ctx context.Context, id string) error
}
