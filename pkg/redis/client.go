// Package redis wraps the Redis client used for the inbound event stream and
// the outbound applied-event notifications.
package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/stelelabs/fundx/pkg/utils"
)

// DefaultStreamMaxLen caps the inbound stream length unless overridden.
const DefaultStreamMaxLen = 100000

// Client wraps the Redis client for streams (event ingestion) and Pub/Sub
// (live applied-event feed).
type Client struct {
	client       *redis.Client
	logger       *zap.Logger
	streamMaxLen int64
}

// NewClient creates a Redis client from environment configuration:
// REDIS_HOST, REDIS_PORT, REDIS_PASSWORD, REDIS_DB, REDIS_STREAM_MAXLEN.
func NewClient(ctx context.Context, logger *zap.Logger) (*Client, error) {
	host := utils.Env("REDIS_HOST", "localhost")
	port := utils.Env("REDIS_PORT", "6379")
	password := utils.Env("REDIS_PASSWORD", "")
	db := utils.EnvInt("REDIS_DB", 0)
	streamMaxLen := utils.EnvInt64("REDIS_STREAM_MAXLEN", DefaultStreamMaxLen)

	addr := fmt.Sprintf("%s:%s", host, port)

	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,

		PoolSize:     10,
		MinIdleConns: 2,

		DialTimeout:  5 * time.Second,
		ReadTimeout:  -1, // blocking stream reads manage their own deadline
		WriteTimeout: 3 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		return nil, fmt.Errorf("connect to redis at %s: %w", addr, err)
	}

	logger.Info("Connected to Redis",
		zap.String("addr", addr),
		zap.Int("db", db),
		zap.Int64("streamMaxLen", streamMaxLen))

	return &Client{
		client:       rdb,
		logger:       logger,
		streamMaxLen: streamMaxLen,
	}, nil
}

func (c *Client) Close() error {
	return c.client.Close()
}

// GetClient returns the underlying Redis client.
func (c *Client) GetClient() *redis.Client {
	return c.client
}

// Health checks if Redis is reachable.
func (c *Client) Health(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Publish publishes a message to a Pub/Sub channel. Best-effort: errors are
// logged, never returned, so a dead subscriber can't stall ingestion.
func (c *Client) Publish(ctx context.Context, channel string, message interface{}) {
	if err := c.client.Publish(ctx, channel, message).Err(); err != nil {
		c.logger.Warn("Failed to publish Redis message",
			zap.String("channel", channel),
			zap.Error(err))
	}
}

// Subscribe subscribes to one or more Pub/Sub channels. The caller owns the
// returned PubSub and must close it.
func (c *Client) Subscribe(ctx context.Context, channels ...string) *redis.PubSub {
	return c.client.Subscribe(ctx, channels...)
}

// XAdd appends an entry to a stream, trimming to streamMaxLen approximately.
func (c *Client) XAdd(ctx context.Context, stream string, values map[string]interface{}) (string, error) {
	args := &redis.XAddArgs{
		Stream: stream,
		Values: values,
	}
	if c.streamMaxLen > 0 {
		args.MaxLen = c.streamMaxLen
		args.Approx = true
	}
	return c.client.XAdd(ctx, args).Result()
}

// XGroupCreateMkStream creates a consumer group, creating the stream when
// missing. An already-existing group is not an error.
func (c *Client) XGroupCreateMkStream(ctx context.Context, stream, group, start string) error {
	err := c.client.XGroupCreateMkStream(ctx, stream, group, start).Err()
	if err != nil && err.Error() == "BUSYGROUP Consumer Group name already exists" {
		return nil
	}
	return err
}

// XReadGroup reads entries for a consumer group. Use ">" to read only
// undelivered entries, "0" to re-read this consumer's pending entries.
func (c *Client) XReadGroup(ctx context.Context, group, consumer, stream, lastID string, count int64, block time.Duration) ([]redis.XStream, error) {
	return c.client.XReadGroup(ctx, &redis.XReadGroupArgs{
		Group:    group,
		Consumer: consumer,
		Streams:  []string{stream, lastID},
		Count:    count,
		Block:    block,
	}).Result()
}

// XAck acknowledges processed entries.
func (c *Client) XAck(ctx context.Context, stream, group string, ids ...string) (int64, error) {
	return c.client.XAck(ctx, stream, group, ids...).Result()
}
