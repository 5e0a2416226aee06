package redis

import (
	"context"

	"go.uber.org/zap"

	"github.com/stelelabs/fundx/pkg/event"
)

// AppliedChannel is the Pub/Sub channel carrying applied-event notifications
// for live consumers (websocket feeds).
const AppliedChannel = "fundx:events:applied"

// Publisher fans applied events out over Pub/Sub. Best-effort by contract:
// a publish failure is logged by the client and never reaches the reducer.
type Publisher struct {
	client  *Client
	logger  *zap.Logger
	channel string
}

func NewPublisher(client *Client, logger *zap.Logger) *Publisher {
	return &Publisher{
		client:  client,
		logger:  logger,
		channel: AppliedChannel,
	}
}

func (p *Publisher) PublishApplied(ctx context.Context, ev *event.Event) {
	encoded, err := event.Encode(ev)
	if err != nil {
		p.logger.Warn("Failed to encode applied event",
			zap.String("type", string(ev.Type)),
			zap.Error(err))
		return
	}
	p.client.Publish(ctx, p.channel, encoded)
}
