package gormpersistence

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Ijadele/Blog/internal/domain"
	"github.com/Ijadele/Blog/internal/dto"
	"github.com/Ijadele/Blog/internal/repository"
)

// likeEscaper 转义 LIKE 模式中的通配符，使搜索词按字面子串匹配
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// GormPostRepository 是 PostRepository 接口的 GORM 实现
type GormPostRepository struct {
	db *gorm.DB
}

// NewGormPostRepository 创建 GormPostRepository 实例
func NewGormPostRepository(db *gorm.DB) *GormPostRepository {
	if db == nil {
		panic("database connection cannot be nil for GormPostRepository")
	}
	return &GormPostRepository{db: db}
}

// preloadAuthor 展开作者的公开字段，不加载密码哈希
func preloadAuthor(db *gorm.DB) *gorm.DB {
	return db.Preload("Author", func(tx *gorm.DB) *gorm.DB {
		return tx.Select("id", "username", "email", "role")
	})
}

// Create 实现新建文章
func (r *GormPostRepository) Create(ctx context.Context, post *domain.Post) error {
	ensureID(&post.ID)
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(post).Error; err != nil {
		if isDuplicateEntryError(err) {
			return repository.ErrDuplicateEntry
		}
		return fmt.Errorf("gorm: create post (slug: %s): %w", post.Slug, err)
	}
	return nil
}

// FindByID 实现根据 ID 查找文章
func (r *GormPostRepository) FindByID(ctx context.Context, id string) (*domain.Post, error) {
	var post domain.Post
	err := preloadAuthor(r.db.WithContext(ctx)).Where("id = ?", id).First(&post).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrPostNotFound
		}
		return nil, fmt.Errorf("gorm: find post by id %s: %w", id, err)
	}
	return &post, nil
}

// ExistsBySlug 实现检查 slug 是否存在
func (r *GormPostRepository) ExistsBySlug(ctx context.Context, slug string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Post{}).Where("slug = ?", slug).Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("gorm: count posts by slug '%s': %w", slug, err)
	}
	return count > 0, nil
}

// ExistsByID 实现检查文章是否存在
func (r *GormPostRepository) ExistsByID(ctx context.Context, id string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Post{}).Where("id = ?", id).Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("gorm: count posts by id %s: %w", id, err)
	}
	return count > 0, nil
}

// applyPostFilter 把过滤条件 (不含分页和排序) 应用到查询上
func applyPostFilter(db *gorm.DB, f dto.PostFilter) *gorm.DB {
	if f.Query != "" {
		like := "%" + strings.ToLower(likeEscaper.Replace(f.Query)) + "%"
		db = db.Where("(LOWER(title) LIKE ? OR LOWER(content) LIKE ?)", like, like)
	}
	if f.Tag != "" {
		db = db.Where(datatypes.JSONArrayQuery("tags").Contains(f.Tag))
	}
	if f.AuthorID != "" {
		db = db.Where("author_id = ?", f.AuthorID)
	}
	if f.Published != nil {
		db = db.Where("published = ?", *f.Published)
	}
	return db
}

// List 实现分页查询文章
func (r *GormPostRepository) List(ctx context.Context, f dto.PostFilter) ([]domain.Post, int64, error) {
	var total int64
	err := applyPostFilter(r.db.WithContext(ctx).Model(&domain.Post{}), f).Count(&total).Error
	if err != nil {
		return nil, 0, fmt.Errorf("gorm: count posts: %w", err)
	}

	query := applyPostFilter(preloadAuthor(r.db.WithContext(ctx)), f)
	for _, s := range f.Sort {
		query = query.Order(clause.OrderByColumn{Column: clause.Column{Name: s.Column}, Desc: s.Desc})
	}
	// id 保证排序唯一，翻页时不会重复或遗漏
	query = query.Order(clause.OrderByColumn{Column: clause.Column{Name: "id"}})

	var posts []domain.Post
	if err := query.Offset(f.Offset()).Limit(f.Limit).Find(&posts).Error; err != nil {
		return nil, 0, fmt.Errorf("gorm: list posts: %w", err)
	}
	return posts, total, nil
}

// Update 实现更新文章的可编辑字段
func (r *GormPostRepository) Update(ctx context.Context, post *domain.Post) error {
	result := r.db.WithContext(ctx).
		Model(post).
		Select("title", "content", "published", "updated_at").
		Updates(post)
	if result.Error != nil {
		return fmt.Errorf("gorm: update post %s: %w", post.ID, result.Error)
	}
	if result.RowsAffected == 0 {
		return repository.ErrPostNotFound
	}
	return nil
}

// Delete 实现删除文章，同时删除它的评论
func (r *GormPostRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", id).Delete(&domain.Comment{}).Error; err != nil {
			return fmt.Errorf("gorm: delete comments of post %s: %w", id, err)
		}
		result := tx.Where("id = ?", id).Delete(&domain.Post{})
		if result.Error != nil {
			return fmt.Errorf("gorm: delete post %s: %w", id, result.Error)
		}
		if result.RowsAffected == 0 {
			return repository.ErrPostNotFound
		}
		return nil
	})
}
