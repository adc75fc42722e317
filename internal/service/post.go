package service

import (
	"context"
	"errors"
	"os"
	"strings"
	"time"

	"github.com/gosimple/slug"
	"github.com/sirupsen/logrus"

	"github.com/Ijadele/Blog/internal/domain"
	"github.com/Ijadele/Blog/internal/dto"
	"github.com/Ijadele/Blog/internal/repository"
)

// compensateTimeout 限制补偿任务入队的耗时
const compensateTimeout = 5 * time.Second

// ImageHost 是外部图床的抽象。
type ImageHost interface {
	Upload(ctx context.Context, localPath string) (domain.Image, error)
	Delete(ctx context.Context, publicID string) error
}

// ImageCleanupScheduler 把图床上的图片删除交给后台任务执行。
type ImageCleanupScheduler interface {
	ScheduleImageCleanup(ctx context.Context, publicIDs []string) error
}

// ImageUpload 是已保存到本地临时目录、等待上传的图片。
type ImageUpload struct {
	LocalPath    string
	OriginalName string
}

// CreatePostInput 是创建文章所需的数据。
type CreatePostInput struct {
	Title     string
	Content   string
	Published *bool // nil 表示默认发布
	Tags      []string
	Images    []ImageUpload
}

// UpdatePostInput 中每个字段都是可选的，nil 表示不修改。
type UpdatePostInput struct {
	Title     *string
	Content   *string
	Published *bool
}

// PostService 负责文章的业务逻辑。
type PostService struct {
	postRepo  repository.PostRepository
	images    ImageHost
	scheduler ImageCleanupScheduler
}

// NewPostService 创建 PostService 实例。
func NewPostService(postRepo repository.PostRepository, images ImageHost, scheduler ImageCleanupScheduler) *PostService {
	if postRepo == nil {
		panic("PostRepository cannot be nil for PostService")
	}
	if images == nil {
		panic("ImageHost cannot be nil for PostService")
	}
	if scheduler == nil {
		panic("ImageCleanupScheduler cannot be nil for PostService")
	}
	return &PostService{postRepo: postRepo, images: images, scheduler: scheduler}
}

// Create 创建文章：校验 -> 生成 slug -> 上传图片 -> 入库。
// 上传或入库失败时，已上传的图片交给后台任务删除。
func (s *PostService) Create(ctx context.Context, author domain.Identity, in CreatePostInput) (*domain.Post, error) {
	// 无论成败，临时文件都要清理
	defer removeTempFiles(in.Images)

	title := strings.TrimSpace(in.Title)
	if title == "" || strings.TrimSpace(in.Content) == "" {
		return nil, invalidInput("title and content are required")
	}
	postSlug := slug.Make(title)
	if postSlug == "" {
		return nil, invalidInput("title must contain letters or digits")
	}
	logCtx := logrus.WithFields(logrus.Fields{"user_id": author.UserID, "slug": postSlug})

	taken, err := s.postRepo.ExistsBySlug(ctx, postSlug)
	if err != nil {
		logCtx.WithError(err).Error("Create post: failed to check slug")
		return nil, ErrInternalServer
	}
	if taken {
		logCtx.Warn("Create post: slug already exists")
		return nil, ErrSlugTaken
	}

	images := make([]domain.Image, 0, len(in.Images))
	for _, upload := range in.Images {
		img, err := s.images.Upload(ctx, upload.LocalPath)
		os.Remove(upload.LocalPath)
		if err != nil {
			logCtx.WithError(err).WithField("file", upload.OriginalName).Error("Create post: image upload failed")
			s.compensate(ctx, domain.ImagePublicIDs(images))
			return nil, ErrInternalServer
		}
		img.Alt = upload.OriginalName
		images = append(images, img)
	}

	published := true
	if in.Published != nil {
		published = *in.Published
	}
	post := &domain.Post{
		Title:     title,
		Content:   in.Content,
		AuthorID:  author.UserID,
		Slug:      postSlug,
		Published: published,
		Tags:      cleanTags(in.Tags),
		Images:    images,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		s.compensate(ctx, post.ImagePublicIDs())
		if errors.Is(err, repository.ErrDuplicateEntry) {
			logCtx.Warn("Create post: slug already exists (unique index)")
			return nil, ErrSlugTaken
		}
		logCtx.WithError(err).Error("Create post: failed to save post")
		return nil, ErrInternalServer
	}

	logCtx.WithField("post_id", post.ID).Info("Post created")
	return post, nil
}

// compensate 把已上传的图片交给后台删除。调度失败只记录日志。
// 入队不受请求 ctx 取消的影响，使用独立的超时。
func (s *PostService) compensate(ctx context.Context, ids []string) {
	if len(ids) == 0 {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), compensateTimeout)
	defer cancel()
	if err := s.scheduler.ScheduleImageCleanup(ctx, ids); err != nil {
		logrus.WithError(err).WithField("public_ids", ids).Error("Failed to schedule image cleanup")
	}
}

func removeTempFiles(uploads []ImageUpload) {
	for _, upload := range uploads {
		if err := os.Remove(upload.LocalPath); err != nil && !os.IsNotExist(err) {
			logrus.WithError(err).WithField("path", upload.LocalPath).Warn("Failed to remove temporary upload")
		}
	}
}

func cleanTags(tags []string) []string {
	cleaned := make([]string, 0, len(tags))
	for _, tag := range tags {
		if tag = strings.TrimSpace(tag); tag != "" {
			cleaned = append(cleaned, tag)
		}
	}
	return cleaned
}

// List 按过滤条件分页查询文章。
func (s *PostService) List(ctx context.Context, filter dto.PostFilter) ([]domain.Post, dto.Pagination, error) {
	posts, total, err := s.postRepo.List(ctx, filter)
	if err != nil {
		logrus.WithError(err).Error("List posts: repository error")
		return nil, dto.Pagination{}, ErrInternalServer
	}
	return posts, dto.NewPagination(filter.Page, filter.Limit, total), nil
}

// GetByID 返回文章详情。
func (s *PostService) GetByID(ctx context.Context, id string) (*domain.Post, error) {
	post, err := s.postRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrPostNotFound) {
			return nil, ErrPostNotFound
		}
		logrus.WithError(err).WithField("post_id", id).Error("GetByID: repository error")
		return nil, ErrInternalServer
	}
	return post, nil
}

// loadOwned 读取文章并校验调用方是作者本人。管理员没有特权。
func (s *PostService) loadOwned(ctx context.Context, id string, caller domain.Identity) (*domain.Post, error) {
	post, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !caller.Owns(post.AuthorID) {
		logrus.WithFields(logrus.Fields{"post_id": id, "user_id": caller.UserID}).
			Warn("Rejected post mutation by non-author")
		return nil, ErrNotPostAuthor
	}
	return post, nil
}

// Update 只覆盖提供了的字段。
func (s *PostService) Update(ctx context.Context, id string, caller domain.Identity, in UpdatePostInput) (*domain.Post, error) {
	post, err := s.loadOwned(ctx, id, caller)
	if err != nil {
		return nil, err
	}

	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if title == "" {
			return nil, invalidInput("title cannot be empty")
		}
		post.Title = title
	}
	if in.Content != nil {
		if strings.TrimSpace(*in.Content) == "" {
			return nil, invalidInput("content cannot be empty")
		}
		post.Content = *in.Content
	}
	if in.Published != nil {
		post.Published = *in.Published
	}

	if err := s.postRepo.Update(ctx, post); err != nil {
		if errors.Is(err, repository.ErrPostNotFound) {
			return nil, ErrPostNotFound
		}
		logrus.WithError(err).WithField("post_id", id).Error("Update post: repository error")
		return nil, ErrInternalServer
	}
	logrus.WithFields(logrus.Fields{"post_id": id, "user_id": caller.UserID}).Info("Post updated")
	return post, nil
}

// Delete 删除文章及其评论，并安排删除图床上的图片。
func (s *PostService) Delete(ctx context.Context, id string, caller domain.Identity) error {
	post, err := s.loadOwned(ctx, id, caller)
	if err != nil {
		return err
	}
	if err := s.postRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrPostNotFound) {
			return ErrPostNotFound
		}
		logrus.WithError(err).WithField("post_id", id).Error("Delete post: repository error")
		return ErrInternalServer
	}
	s.compensate(ctx, post.ImagePublicIDs())
	logrus.WithFields(logrus.Fields{"post_id": id, "user_id": caller.UserID}).Info("Post deleted")
	return nil
}
