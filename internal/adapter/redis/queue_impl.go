package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/user/phish-dataset/internal/entity"
	"github.com/user/phish-dataset/internal/repository"
)

const enrichQueueKey = "enrich:queue"

// QueueRepoImpl implements repository.QueueRepository using a Redis list of JSON tasks.
type QueueRepoImpl struct {
	client *redis.Client
}

// NewQueueRepo creates a new instance of QueueRepoImpl.
func NewQueueRepo(client *redis.Client) *QueueRepoImpl {
	return &QueueRepoImpl{client: client}
}

// Push adds a task to the left side of the Redis list (acting as a queue).
func (r *QueueRepoImpl) Push(ctx context.Context, task entity.EnrichTask) error {
	payload, err := json.Marshal(task)
	if err != nil {
		return err
	}
	return r.client.LPush(ctx, enrichQueueKey, payload).Err()
}

// Pop removes and returns a task from the right side of the list.
// An empty list is reported as repository.ErrQueueEmpty.
func (r *QueueRepoImpl) Pop(ctx context.Context) (entity.EnrichTask, error) {
	var task entity.EnrichTask
	payload, err := r.client.RPop(ctx, enrichQueueKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return task, repository.ErrQueueEmpty
		}
		return task, err
	}
	if err := json.Unmarshal(payload, &task); err != nil {
		return task, fmt.Errorf("decode queued task: %w", err)
	}
	return task, nil
}

// Size returns the current number of items in the queue.
func (r *QueueRepoImpl) Size(ctx context.Context) (int64, error) {
	return r.client.LLen(ctx, enrichQueueKey).Result()
}
