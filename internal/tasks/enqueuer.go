package tasks

import (
	"context"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"github.com/sirupsen/logrus"
)

// TaskClient 是 asynq.Client 中 Enqueuer 用到的部分
type TaskClient interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// Enqueuer 把业务请求转换成 asynq 任务
type Enqueuer struct {
	client TaskClient
}

// NewEnqueuer 创建 Enqueuer
func NewEnqueuer(client TaskClient) *Enqueuer {
	if client == nil {
		panic("asynq client cannot be nil for Enqueuer")
	}
	return &Enqueuer{client: client}
}

// ScheduleImageCleanup 投递图片清理任务，失败时由 asynq 负责重试
func (e *Enqueuer) ScheduleImageCleanup(ctx context.Context, publicIDs []string) error {
	payload, err := NewImageCleanupPayload(publicIDs)
	if err != nil {
		return err
	}
	info, err := e.client.EnqueueContext(ctx, asynq.NewTask(TypeImageCleanup, payload),
		asynq.Queue("low"),
		asynq.MaxRetry(10),
		asynq.Timeout(2*time.Minute),
	)
	if err != nil {
		return fmt.Errorf("enqueue %s: %w", TypeImageCleanup, err)
	}
	logrus.WithFields(logrus.Fields{
		"task_id":   info.ID,
		"task_type": TypeImageCleanup,
		"images":    len(publicIDs),
	}).Info("Image cleanup task enqueued")
	return nil
}
