package redisstream

import (
	"context"

	"github.com/redis/go-redis/v9"

	"github.com/stivencardonauniandes/anb-rising-stars-showcase/internal/domain/entity"
)

// TaskPublisher appends task messages to the redis stream the transcoding
// worker consumes through its consumer group. Delivery is at-least-once; the
// worker dedupes by task_id.
type TaskPublisher struct {
	client *redis.Client
	stream string
}

func NewTaskPublisher(client *redis.Client, stream string) *TaskPublisher {
	return &TaskPublisher{client: client, stream: stream}
}

func (p *TaskPublisher) Publish(ctx context.Context, task entity.TaskMessage) error {
	return p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: p.stream,
		Values: map[string]any{
			"task_id":     task.TaskID,
			"video_id":    task.VideoID,
			"source_path": task.SourcePath,
			"attempt":     task.Attempt,
		},
	}).Err()
}
