package service

import (
	"context"
	"errors"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/Ijadele/Blog/internal/domain"
	"github.com/Ijadele/Blog/internal/repository"
)

// CommentService 负责评论的业务逻辑。
type CommentService struct {
	commentRepo repository.CommentRepository
	postRepo    repository.PostRepository
	// editRequiresOwner 为 true 时，修改评论与删除评论使用相同的权限规则
	editRequiresOwner bool
}

// NewCommentService 创建 CommentService 实例。
func NewCommentService(commentRepo repository.CommentRepository, postRepo repository.PostRepository, editRequiresOwner bool) *CommentService {
	if commentRepo == nil {
		panic("CommentRepository cannot be nil for CommentService")
	}
	if postRepo == nil {
		panic("PostRepository cannot be nil for CommentService")
	}
	return &CommentService{commentRepo: commentRepo, postRepo: postRepo, editRequiresOwner: editRequiresOwner}
}

// Create 在已存在的文章下发表评论。
func (s *CommentService) Create(ctx context.Context, author domain.Identity, postID, content string) (*domain.Comment, error) {
	postID = strings.TrimSpace(postID)
	if postID == "" || strings.TrimSpace(content) == "" {
		return nil, invalidInput("postId and content are required")
	}
	logCtx := logrus.WithFields(logrus.Fields{"post_id": postID, "user_id": author.UserID})

	exists, err := s.postRepo.ExistsByID(ctx, postID)
	if err != nil {
		logCtx.WithError(err).Error("Create comment: failed to check post")
		return nil, ErrInternalServer
	}
	if !exists {
		logCtx.Warn("Create comment: post not found")
		return nil, ErrPostNotFound
	}

	comment := &domain.Comment{PostID: postID, Content: content, AuthorID: author.UserID}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		logCtx.WithError(err).Error("Create comment: repository error")
		return nil, ErrInternalServer
	}
	logCtx.WithField("comment_id", comment.ID).Info("Comment created")
	return comment, nil
}

// ListByPost 返回文章下的评论，最新的在前。
func (s *CommentService) ListByPost(ctx context.Context, postID string) ([]domain.Comment, error) {
	comments, err := s.commentRepo.ListByPost(ctx, postID)
	if err != nil {
		logrus.WithError(err).WithField("post_id", postID).Error("List comments: repository error")
		return nil, ErrInternalServer
	}
	return comments, nil
}

func (s *CommentService) find(ctx context.Context, id string) (*domain.Comment, error) {
	comment, err := s.commentRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrCommentNotFound) {
			return nil, ErrCommentNotFound
		}
		logrus.WithError(err).WithField("comment_id", id).Error("Find comment: repository error")
		return nil, ErrInternalServer
	}
	return comment, nil
}

func canModerate(caller domain.Identity, comment *domain.Comment) bool {
	return caller.Owns(comment.AuthorID) || caller.IsAdmin()
}

// Update 修改评论内容。
func (s *CommentService) Update(ctx context.Context, id string, caller domain.Identity, content string) (*domain.Comment, error) {
	comment, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(content) == "" {
		return nil, invalidInput("content is required")
	}
	logCtx := logrus.WithFields(logrus.Fields{"comment_id": id, "user_id": caller.UserID})

	if !caller.Owns(comment.AuthorID) {
		if s.editRequiresOwner && !canModerate(caller, comment) {
			logCtx.Warn("Rejected comment edit by non-owner")
			return nil, ErrNotCommentOwner
		}
		logCtx.WithField("author_id", comment.AuthorID).Warn("Comment edited by someone other than its author")
	}

	comment.Content = content
	if err := s.commentRepo.UpdateContent(ctx, comment); err != nil {
		if errors.Is(err, repository.ErrCommentNotFound) {
			return nil, ErrCommentNotFound
		}
		logCtx.WithError(err).Error("Update comment: repository error")
		return nil, ErrInternalServer
	}
	logCtx.Info("Comment updated")
	return comment, nil
}

// Delete 只允许评论作者或管理员删除评论。
func (s *CommentService) Delete(ctx context.Context, id string, caller domain.Identity) error {
	comment, err := s.find(ctx, id)
	if err != nil {
		return err
	}
	logCtx := logrus.WithFields(logrus.Fields{"comment_id": id, "user_id": caller.UserID})
	if !canModerate(caller, comment) {
		logCtx.Warn("Rejected comment delete by non-owner")
		return ErrNotCommentOwner
	}
	if err := s.commentRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrCommentNotFound) {
			return ErrCommentNotFound
		}
		logCtx.WithError(err).Error("Delete comment: repository error")
		return ErrInternalServer
	}
	logCtx.Info("Comment deleted")
	return nil
}
