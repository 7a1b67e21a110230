// Package publisher announces completed sync jobs on a Redis stream so
// downstream consumers can reload the store.
package publisher

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultStream is used when no stream name is configured.
const DefaultStream = "hoopsync.refresh"

// RefreshEvent describes one finished sub-job.
type RefreshEvent struct {
	RunID      string    `json:"run_id"`
	Job        string    `json:"job"`
	Status     string    `json:"status"`
	Added      int       `json:"added"`
	Updated    int       `json:"updated"`
	Resolved   int       `json:"resolved"`
	Skipped    int       `json:"skipped"`
	Error      string    `json:"error,omitempty"`
	FinishedAt time.Time `json:"finished_at"`
}

// RedisPublisher appends refresh events to a Redis stream.
type RedisPublisher struct {
	client *redis.Client
	stream string
}

// NewRedisPublisher connects to redisURL and verifies the connection.
func NewRedisPublisher(ctx context.Context, redisURL, stream string) (*RedisPublisher, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	rp := NewRedisStreamPublisher(redis.NewClient(opt), stream)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rp.HealthCheck(pingCtx); err != nil {
		_ = rp.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return rp, nil
}

// NewRedisStreamPublisher wraps an existing client.
func NewRedisStreamPublisher(client *redis.Client, stream string) *RedisPublisher {
	if stream == "" {
		stream = DefaultStream
	}
	return &RedisPublisher{client: client, stream: stream}
}

// Close closes the Redis connection.
func (rp *RedisPublisher) Close() error {
	return rp.client.Close()
}

// HealthCheck pings Redis to verify the connection.
func (rp *RedisPublisher) HealthCheck(ctx context.Context) error {
	return rp.client.Ping(ctx).Err()
}

// PublishRefresh XADDs event with its JSON encoding under "data" and stores
// the same encoding as the job's latest status.
func (rp *RedisPublisher) PublishRefresh(ctx context.Context, event RefreshEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode refresh event: %w", err)
	}

	_, err = rp.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.XAdd(ctx, &redis.XAddArgs{
			Stream: rp.stream,
			Values: map[string]interface{}{
				"job":       event.Job,
				"status":    event.Status,
				"data":      string(data),
				"timestamp": event.FinishedAt.Unix(),
			},
		})
		pipe.Set(ctx, rp.lastKey(event.Job), data, 0)
		return nil
	})
	if err != nil {
		return fmt.Errorf("publish refresh event: %w", err)
	}
	return nil
}

// LastRefresh returns the most recent event published for job. The boolean
// is false when nothing has been published yet.
func (rp *RedisPublisher) LastRefresh(ctx context.Context, job string) (RefreshEvent, bool, error) {
	raw, err := rp.client.Get(ctx, rp.lastKey(job)).Result()
	if errors.Is(err, redis.Nil) {
		return RefreshEvent{}, false, nil
	}
	if err != nil {
		return RefreshEvent{}, false, fmt.Errorf("read last refresh for %s: %w", job, err)
	}
	var event RefreshEvent
	if err := json.Unmarshal([]byte(raw), &event); err != nil {
		return RefreshEvent{}, false, fmt.Errorf("decode last refresh for %s: %w", job, err)
	}
	return event, true, nil
}

func (rp *RedisPublisher) lastKey(job string) string {
	return rp.stream + ":last:" + job
}
