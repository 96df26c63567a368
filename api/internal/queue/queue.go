package queue

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	jsoniter "github.com/json-iterator/go"
)

const queueKey = "lookism:tasks"

var jsonx = jsoniter.ConfigCompatibleWithStandardLibrary

// Task — элемент очереди на анализ.
type Task struct {
	SessionID  int64 `json:"session_id"`
	EnqueuedAt int64 `json:"enqueued_at"`
}

// Queue — очередь задач на Redis-списке: bot делает LPUSH, worker — BRPOP.
type Queue struct {
	rdb *redis.Client
}

func New(redisURL string) (*Queue, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}
	return &Queue{rdb: redis.NewClient(opt)}, nil
}

func (q *Queue) Ping(ctx context.Context) error {
	return q.rdb.Ping(ctx).Err()
}

func (q *Queue) Close() error {
	return q.rdb.Close()
}

func (q *Queue) Enqueue(ctx context.Context, sessionID int64) error {
	payload, err := jsonx.Marshal(Task{
		SessionID:  sessionID,
		EnqueuedAt: time.Now().Unix(),
	})
	if err != nil {
		return err
	}
	return q.rdb.LPush(ctx, queueKey, payload).Err()
}

// Dequeue блокируется до timeout. (nil, nil) — очередь пуста, это не ошибка.
func (q *Queue) Dequeue(ctx context.Context, timeout time.Duration) (*Task, error) {
	res, err := q.rdb.BRPop(ctx, timeout, queueKey).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}
	// BRPop возвращает пару [key, value]
	var t Task
	if err := jsonx.Unmarshal([]byte(res[1]), &t); err != nil {
		return nil, err
	}
	return &t, nil
}

func (q *Queue) Size(ctx context.Context) (int64, error) {
	return q.rdb.LLen(ctx, queueKey).Result()
}
