package tasks

import (
	"context"
	"errors"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingClient struct {
	tasks []*asynq.Task
	err   error
}

func (r *recordingClient) EnqueueContext(_ context.Context, task *asynq.Task, _ ...asynq.Option) (*asynq.TaskInfo, error) {
	if r.err != nil {
		return nil, r.err
	}
	r.tasks = append(r.tasks, task)
	return &asynq.TaskInfo{ID: "task-1", Type: task.Type(), Queue: "low"}, nil
}

func TestEnqueuer_ScheduleImageCleanup(t *testing.T) {
	client := &recordingClient{}
	enqueuer := NewEnqueuer(client)

	err := enqueuer.ScheduleImageCleanup(context.Background(), []string{"a", "b"})

	require.NoError(t, err)
	require.Len(t, client.tasks, 1)
	assert.Equal(t, TypeImageCleanup, client.tasks[0].Type())

	payload, err := ParseImageCleanupPayload(client.tasks[0].Payload())
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, payload.PublicIDs)
}

func TestEnqueuer_ScheduleImageCleanup_Errors(t *testing.T) {
	client := &recordingClient{err: errors.New("redis down")}
	enqueuer := NewEnqueuer(client)

	assert.Error(t, enqueuer.ScheduleImageCleanup(context.Background(), nil), "空列表不应投递任务")
	assert.Error(t, enqueuer.ScheduleImageCleanup(context.Background(), []string{"a"}))
}

func TestParseImageCleanupPayload_Malformed(t *testing.T) {
	_, err := ParseImageCleanupPayload([]byte("{not json"))
	assert.Error(t, err)

	_, err = ParseImageCleanupPayload([]byte(`{"publicIds":[]}`))
	assert.Error(t, err)
}
