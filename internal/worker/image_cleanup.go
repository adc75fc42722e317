package worker

import (
	"context"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/sirupsen/logrus"

	"github.com/Ijadele/Blog/internal/tasks"
)

// ImageDeleter 删除图床上的图片，由 imagehost.CloudinaryHost 实现
type ImageDeleter interface {
	Delete(ctx context.Context, publicID string) error
}

// ImageCleanupHandler 处理图片清理任务
type ImageCleanupHandler struct {
	images ImageDeleter
}

// NewImageCleanupHandler 创建 Handler 实例
func NewImageCleanupHandler(images ImageDeleter) *ImageCleanupHandler {
	if images == nil {
		panic("ImageDeleter cannot be nil for ImageCleanupHandler")
	}
	return &ImageCleanupHandler{images: images}
}

// ProcessTask 实现 asynq.Handler 接口。
// 单张图片删除失败不会中断其余图片，只要有失败就返回错误让 asynq 重试。
func (h *ImageCleanupHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	currentRetry, _ := asynq.GetRetryCount(ctx)
	logCtx := logrus.WithFields(logrus.Fields{
		"task_id":   taskID(t),
		"task_type": t.Type(),
		"retry":     currentRetry,
	})

	payload, err := tasks.ParseImageCleanupPayload(t.Payload())
	if err != nil {
		logCtx.WithError(err).Error("Failed to unmarshal task payload")
		return fmt.Errorf("failed to unmarshal payload: %v: %w", err, asynq.SkipRetry)
	}

	var failed []string
	for _, id := range payload.PublicIDs {
		if err := h.images.Delete(ctx, id); err != nil {
			logCtx.WithError(err).WithField("public_id", id).Warn("Failed to delete image")
			failed = append(failed, id)
		}
	}
	if len(failed) > 0 {
		return fmt.Errorf("failed to delete %d of %d images: %v", len(failed), len(payload.PublicIDs), failed)
	}

	logCtx.WithField("images", len(payload.PublicIDs)).Info("Image cleanup task processed successfully")
	return nil
}
