package gormpersistence

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Ijadele/Blog/internal/domain"
	"github.com/Ijadele/Blog/internal/repository"
)

// GormCommentRepository 是 CommentRepository 接口的 GORM 实现
type GormCommentRepository struct {
	db *gorm.DB
}

// NewGormCommentRepository 创建 GormCommentRepository 实例
func NewGormCommentRepository(db *gorm.DB) *GormCommentRepository {
	if db == nil {
		panic("database connection cannot be nil for GormCommentRepository")
	}
	return &GormCommentRepository{db: db}
}

func (r *GormCommentRepository) Create(ctx context.Context, comment *domain.Comment) error {
	ensureID(&comment.ID)
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(comment).Error; err != nil {
		return fmt.Errorf("gorm: create comment on post %s: %w", comment.PostID, err)
	}
	return nil
}

func (r *GormCommentRepository) FindByID(ctx context.Context, id string) (*domain.Comment, error) {
	var comment domain.Comment
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&comment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrCommentNotFound
		}
		return nil, fmt.Errorf("gorm: find comment by id %s: %w", id, err)
	}
	return &comment, nil
}

// ListByPost 按创建时间倒序返回评论，作者只展开 username, email, role
func (r *GormCommentRepository) ListByPost(ctx context.Context, postID string) ([]domain.Comment, error) {
	var comments []domain.Comment
	err := preloadAuthor(r.db.WithContext(ctx)).
		Where("post_id = ?", postID).
		Order("created_at DESC").
		Find(&comments).Error
	if err != nil {
		return nil, fmt.Errorf("gorm: list comments of post %s: %w", postID, err)
	}
	return comments, nil
}

func (r *GormCommentRepository) UpdateContent(ctx context.Context, comment *domain.Comment) error {
	result := r.db.WithContext(ctx).
		Model(comment).
		Select("content", "updated_at").
		Updates(comment)
	if result.Error != nil {
		return fmt.Errorf("gorm: update comment %s: %w", comment.ID, result.Error)
	}
	if result.RowsAffected == 0 {
		return repository.ErrCommentNotFound
	}
	return nil
}

func (r *GormCommentRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Comment{})
	if result.Error != nil {
		return fmt.Errorf("gorm: delete comment %s: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return repository.ErrCommentNotFound
	}
	return nil
}
