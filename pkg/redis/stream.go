package redis

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/stelelabs/fundx/pkg/event"
)

// Stream defaults. One consumer in one group keeps application strictly
// ordered; the group exists so pending entries survive a restart.
const (
	DefaultEventStream   = "fundx:events"
	DefaultConsumerGroup = "fundx-indexer"
)

// PayloadField is the stream entry field holding the encoded event.
const PayloadField = "payload"

// Handler processes one decoded event. A non-nil error leaves the entry
// unacknowledged so it is redelivered on restart.
type Handler func(ctx context.Context, ev *event.Event) error

// Consumer reads encoded events from a Redis stream through a consumer group
// and applies them one at a time, in stream order.
type Consumer struct {
	client   *Client
	logger   *zap.Logger
	stream   string
	group    string
	consumer string
}

// NewConsumer creates a consumer bound to stream/group, creating the group
// (and stream) if needed.
func NewConsumer(ctx context.Context, client *Client, logger *zap.Logger, stream, group, consumer string) (*Consumer, error) {
	if err := client.XGroupCreateMkStream(ctx, stream, group, "0"); err != nil {
		return nil, err
	}
	return &Consumer{
		client:   client,
		logger:   logger,
		stream:   stream,
		group:    group,
		consumer: consumer,
	}, nil
}

// Run consumes until the context is canceled. Pending entries (delivered but
// unacknowledged before a crash) are drained before new ones.
func (c *Consumer) Run(ctx context.Context, handler Handler) error {
	c.logger.Info("Stream consumer starting",
		zap.String("stream", c.stream),
		zap.String("group", c.group),
		zap.String("consumer", c.consumer))

	if err := c.consume(ctx, handler, "0"); err != nil {
		return err
	}

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := c.consume(ctx, handler, ">"); err != nil {
			return err
		}
	}
}

func (c *Consumer) consume(ctx context.Context, handler Handler, cursor string) error {
	for {
		streams, err := c.client.XReadGroup(ctx, c.group, c.consumer, c.stream, cursor, 128, 5*time.Second)
		if err != nil {
			if errors.Is(err, redis.Nil) {
				if cursor == ">" {
					continue // poll timeout, no new entries
				}
				return nil
			}
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return err
			}
			c.logger.Error("Stream read failed, retrying", zap.Error(err))
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(time.Second):
			}
			continue
		}

		delivered := 0
		for _, s := range streams {
			for _, msg := range s.Messages {
				delivered++
				if err := c.handleMessage(ctx, handler, msg); err != nil {
					return err
				}
			}
		}
		// An empty pending read means the backlog is drained.
		if cursor != ">" && delivered == 0 {
			return nil
		}
	}
}

func (c *Consumer) handleMessage(ctx context.Context, handler Handler, msg redis.XMessage) error {
	raw, ok := msg.Values[PayloadField].(string)
	if !ok {
		// Malformed entries are acked and skipped, never retried.
		c.logger.Warn("Stream entry without payload field, skipping",
			zap.String("id", msg.ID))
		_, _ = c.client.XAck(ctx, c.stream, c.group, msg.ID)
		return nil
	}

	ev, err := event.Decode([]byte(raw))
	if err != nil {
		c.logger.Warn("Undecodable stream entry, skipping",
			zap.String("id", msg.ID),
			zap.Error(err))
		_, _ = c.client.XAck(ctx, c.stream, c.group, msg.ID)
		return nil
	}

	if err := handler(ctx, ev); err != nil {
		return err
	}

	if _, err := c.client.XAck(ctx, c.stream, c.group, msg.ID); err != nil {
		return err
	}
	return nil
}
