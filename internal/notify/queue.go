package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	queueKey     = "notifications:queue"
	processedKey = "notifications:processed"
	failedKey    = "notifications:failed"
)

// ErrQueueEmpty is returned by Dequeue when no message arrives in time.
var ErrQueueEmpty = errors.New("notification queue is empty")

// Queue is the Redis-backed notification queue: LPUSH to enqueue, BRPOP to
// drain, with processed/failed counters for the debug endpoint.
type Queue struct {
	rdb *redis.Client
}

// NewQueue returns a Queue over the given client.
func NewQueue(rdb *redis.Client) *Queue {
	return &Queue{rdb: rdb}
}

// Enqueue pushes a message onto the queue.
func (q *Queue) Enqueue(ctx context.Context, m Message) error {
	raw, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("marshal notification %s: %w", m.ID, err)
	}
	if err := q.rdb.LPush(ctx, queueKey, raw).Err(); err != nil {
		return fmt.Errorf("enqueue notification %s: %w", m.ID, err)
	}
	return nil
}

// Dequeue blocks up to timeout for the next message. Returns ErrQueueEmpty
// when the wait expires with nothing to process.
func (q *Queue) Dequeue(ctx context.Context, timeout time.Duration) (Message, error) {
	vals, err := q.rdb.BRPop(ctx, timeout, queueKey).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return Message{}, ErrQueueEmpty
		}
		return Message{}, fmt.Errorf("dequeue: %w", err)
	}

	// BRPOP returns [key, value]
	var m Message
	if err := json.Unmarshal([]byte(vals[1]), &m); err != nil {
		return Message{}, fmt.Errorf("unmarshal queued notification: %w", err)
	}
	return m, nil
}

// MarkProcessed bumps the processed counter.
func (q *Queue) MarkProcessed(ctx context.Context) {
	q.rdb.Incr(ctx, processedKey)
}

// MarkFailed bumps the failed counter.
func (q *Queue) MarkFailed(ctx context.Context) {
	q.rdb.Incr(ctx, failedKey)
}

// Status is the payload of GET /api/debug/queue-status.
type Status struct {
	Pending   int64 `json:"pending"`
	Processed int64 `json:"processed"`
	Failed    int64 `json:"failed"`
}

// QueueStatus reports queue depth and lifetime counters.
func (q *Queue) QueueStatus(ctx context.Context) (Status, error) {
	pending, err := q.rdb.LLen(ctx, queueKey).Result()
	if err != nil {
		return Status{}, fmt.Errorf("queue length: %w", err)
	}
	processed, _ := q.rdb.Get(ctx, processedKey).Int64()
	failed, _ := q.rdb.Get(ctx, failedKey).Int64()
	return Status{Pending: pending, Processed: processed, Failed: failed}, nil
}
