package redisqueue

import (
	"context"
	"fmt"
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/example/dining-concierge/internal/domain/recommend"
)

const (
	pendingKey    = "concierge:queue:pending"
	processingKey = "concierge:queue:processing"
	claimPrefix   = "concierge:claim:"
)

// Queue is an at-least-once task queue over a Redis list pair. Receiving
// moves an entry from the pending list to the processing list and marks a
// claim key with a TTL; acknowledging removes the entry and the claim. A
// worker that dies mid-task simply lets the claim expire, and RecoverStale
// moves the entry back to pending for redelivery.
type Queue struct {
	rdb      *redis.Client
	claimTTL time.Duration
}

func New(rdb *redis.Client, claimTTL time.Duration) *Queue {
	if claimTTL <= 0 {
		claimTTL = 2 * time.Minute
	}
	return &Queue{rdb: rdb, claimTTL: claimTTL}
}

func (q *Queue) Ping(ctx context.Context) error {
	return q.rdb.Ping(ctx).Err()
}

type envelope struct {
	ID   string `json:"id"`
	Body string `json:"body"`
}

func (q *Queue) Enqueue(ctx context.Context, body []byte) (string, error) {
	env := envelope{ID: uuid.NewString(), Body: string(body)}
	raw, err := sonic.Marshal(env)
	if err != nil {
		return "", fmt.Errorf("encode envelope: %w", err)
	}
	if err := q.rdb.LPush(ctx, pendingKey, raw).Err(); err != nil {
		return "", fmt.Errorf("push task: %w", err)
	}
	return env.ID, nil
}

func (q *Queue) ReceiveOne(ctx context.Context, maxWait time.Duration) (recommend.Task, bool, error) {
	raw, err := q.rdb.BLMove(ctx, pendingKey, processingKey, "RIGHT", "LEFT", maxWait).Result()
	if err == redis.Nil {
		return recommend.Task{}, false, nil
	}
	if err != nil {
		return recommend.Task{}, false, fmt.Errorf("receive task: %w", err)
	}
	var env envelope
	if err := sonic.Unmarshal([]byte(raw), &env); err != nil {
		// A corrupt entry can never be processed; drop it rather than
		// redelivering it forever.
		_ = q.rdb.LRem(ctx, processingKey, 1, raw).Err()
		return recommend.Task{}, false, fmt.Errorf("decode envelope: %w", err)
	}
	if err := q.rdb.Set(ctx, claimPrefix+env.ID, "1", q.claimTTL).Err(); err != nil {
		return recommend.Task{}, false, fmt.Errorf("mark claim: %w", err)
	}
	return recommend.Task{ID: env.ID, Body: []byte(env.Body), Receipt: raw}, true, nil
}

func (q *Queue) Acknowledge(ctx context.Context, t recommend.Task) error {
	if err := q.rdb.LRem(ctx, processingKey, 1, t.Receipt).Err(); err != nil {
		return fmt.Errorf("remove task: %w", err)
	}
	if err := q.rdb.Del(ctx, claimPrefix+t.ID).Err(); err != nil {
		return fmt.Errorf("clear claim: %w", err)
	}
	return nil
}

// RecoverStale returns expired-claim entries to the pending list and
// reports how many were requeued.
func (q *Queue) RecoverStale(ctx context.Context) (int, error) {
	entries, err := q.rdb.LRange(ctx, processingKey, 0, -1).Result()
	if err != nil {
		return 0, fmt.Errorf("scan processing: %w", err)
	}
	requeued := 0
	for _, raw := range entries {
		var env envelope
		if err := sonic.Unmarshal([]byte(raw), &env); err != nil {
			_ = q.rdb.LRem(ctx, processingKey, 1, raw).Err()
			continue
		}
		n, err := q.rdb.Exists(ctx, claimPrefix+env.ID).Result()
		if err != nil {
			return requeued, fmt.Errorf("check claim %s: %w", env.ID, err)
		}
		if n > 0 {
			continue
		}
		// Remove-then-push: if another worker acknowledged concurrently,
		// LRem removes nothing and we must not resurrect the task.
		removed, err := q.rdb.LRem(ctx, processingKey, 1, raw).Result()
		if err != nil {
			return requeued, fmt.Errorf("requeue %s: %w", env.ID, err)
		}
		if removed == 0 {
			continue
		}
		if err := q.rdb.LPush(ctx, pendingKey, raw).Err(); err != nil {
			return requeued, fmt.Errorf("requeue %s: %w", env.ID, err)
		}
		requeued++
	}
	return requeued, nil
}
