package controller

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"runtime/debug"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/stelelabs/fundx/pkg/event"
	"github.com/stelelabs/fundx/pkg/redis"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	CheckOrigin: func(r *http.Request) bool {
		// TODO: In production, restrict to specific origins
		return true
	},
}

// ClientMessage represents messages sent by WebSocket clients.
type ClientMessage struct {
	Action string `json:"action"` // "subscribe" or "unsubscribe"
	FundID string `json:"fundId"` // Fund ID to subscribe to, or "*" for all events
}

// ServerMessage represents messages sent to WebSocket clients.
type ServerMessage struct {
	Type    string      `json:"type"` // "event.applied", "subscribed", "unsubscribed", "error", "info"
	Payload interface{} `json:"payload"`
}

// clientSubscriptions tracks which funds a client is subscribed to.
type clientSubscriptions struct {
	mu    sync.RWMutex
	funds map[string]bool
}

// NewClientSubscriptions creates a new clientSubscriptions tracker.
// Exported for testing.
func NewClientSubscriptions() *clientSubscriptions {
	return &clientSubscriptions{funds: make(map[string]bool)}
}

// Subscribe adds a fund ID to the subscription list.
// Exported for testing.
func (cs *clientSubscriptions) Subscribe(fundID string) {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	cs.funds[fundID] = true
}

// Unsubscribe removes a fund ID from the subscription list.
// Exported for testing.
func (cs *clientSubscriptions) Unsubscribe(fundID string) {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	delete(cs.funds, fundID)
}

// IsSubscribed checks whether events for the given fund ID should be
// forwarded. Wildcard (*) matches everything, including events with no fund
// scope (protocol, settings and governance events carry an empty fund ID).
// Exported for testing.
func (cs *clientSubscriptions) IsSubscribed(fundID string) bool {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	if cs.funds["*"] {
		return true
	}
	if fundID == "" {
		return false
	}
	return cs.funds[fundID]
}

// HandleWebSocket upgrades the HTTP connection to WebSocket and streams
// applied events in real time.
//
// Protocol:
// Client sends: {"action": "subscribe", "fundId": "1"}  // Subscribe to one fund
// Client sends: {"action": "subscribe", "fundId": "*"}  // Subscribe to ALL applied events
// Client sends: {"action": "unsubscribe", "fundId": "1"}
//
// Server sends:
// - {"type": "event.applied", "payload": {...}}
// - {"type": "subscribed", "payload": {"fundId": "1"}}
// - {"type": "unsubscribed", "payload": {"fundId": "1"}}
// - {"type": "error", "payload": {"message": "..."}}
//
// IMPORTANT: All goroutines have panic recovery to prevent crashes.
func (c *Controller) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	if c.App.RedisClient == nil {
		http.Error(w, "Real-time events not available (Redis disabled)", http.StatusServiceUnavailable)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		c.App.Logger.Error("Failed to upgrade WebSocket connection", zap.Error(err))
		return
	}
	defer func(conn *websocket.Conn) {
		if err := conn.Close(); err != nil {
			c.App.Logger.Error("Failed to close WebSocket connection", zap.Error(err))
		}
	}(conn)

	c.App.Logger.Info("WebSocket client connected", zap.String("remote_addr", r.RemoteAddr))

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	subs := NewClientSubscriptions()
	send := make(chan ServerMessage, 256)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		defer func() {
			if rec := recover(); rec != nil {
				c.App.Logger.Error("Panic in Redis subscriber goroutine",
					zap.Any("panic", rec),
					zap.String("stack", string(debug.Stack())),
					zap.String("remote_addr", r.RemoteAddr))
				cancel()
			}
		}()
		c.subscribeToApplied(ctx, send, subs)
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		defer func() {
			if rec := recover(); rec != nil {
				c.App.Logger.Error("Panic in ping ticker goroutine",
					zap.Any("panic", rec),
					zap.String("stack", string(debug.Stack())),
					zap.String("remote_addr", r.RemoteAddr))
				cancel()
			}
		}()
		c.sendPings(ctx, conn)
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		defer func() {
			if rec := recover(); rec != nil {
				c.App.Logger.Error("Panic in message writer goroutine",
					zap.Any("panic", rec),
					zap.String("stack", string(debug.Stack())),
					zap.String("remote_addr", r.RemoteAddr))
				cancel()
			}
		}()
		c.writeMessages(conn, send)
	}()

	// Blocks until the connection closes.
	c.readClientMessages(ctx, conn, cancel, subs, send)

	close(send)
	wg.Wait()

	c.App.Logger.Info("WebSocket client disconnected", zap.String("remote_addr", r.RemoteAddr))
}

// subscribeToApplied subscribes to the applied-event Pub/Sub channel and
// forwards matching events to the send channel. Reconnects with exponential
// backoff when Redis drops, notifying the client while it is unavailable.
func (c *Controller) subscribeToApplied(ctx context.Context, send chan<- ServerMessage, subs *clientSubscriptions) {
	const (
		initialBackoff = 1 * time.Second
		maxBackoff     = 30 * time.Second
		backoffFactor  = 2.0
		jitterFactor   = 0.1
	)

	backoff := initialBackoff
	attemptNum := 0

	for {
		select {
		case <-ctx.Done():
			c.App.Logger.Info("Redis subscription cancelled")
			return
		default:
		}

		attemptNum++

		subscriptionErr := c.attemptAppliedSubscription(ctx, send, subs, attemptNum)

		if ctx.Err() != nil {
			c.App.Logger.Info("Redis subscription cancelled")
			return
		}

		if subscriptionErr != nil {
			c.App.Logger.Warn("Redis subscription failed, will retry",
				zap.Error(subscriptionErr),
				zap.Int("attempt", attemptNum),
				zap.Duration("backoff", backoff))
		} else {
			c.App.Logger.Warn("Redis subscription channel closed, will retry",
				zap.Int("attempt", attemptNum),
				zap.Duration("backoff", backoff))
		}

		select {
		case send <- ServerMessage{
			Type: "error",
			Payload: map[string]interface{}{
				"message":     "Redis connection lost, attempting to reconnect...",
				"retryIn":     backoff.Seconds(),
				"attempt":     attemptNum,
				"recoverable": true,
			},
		}:
		case <-ctx.Done():
			return
		}

		select {
		case <-time.After(backoff):
		case <-ctx.Done():
			c.App.Logger.Info("Redis subscription cancelled during backoff")
			return
		}

		backoff = CalculateNextBackoff(backoff, maxBackoff, backoffFactor, jitterFactor)
	}
}

// attemptAppliedSubscription makes a single subscription attempt and processes
// messages until it fails or the context is cancelled. Returns an error when
// setup fails, nil when the established channel closed.
func (c *Controller) attemptAppliedSubscription(
	ctx context.Context,
	send chan<- ServerMessage,
	subs *clientSubscriptions,
	attemptNum int,
) error {
	c.App.Logger.Info("Attempting Redis subscription",
		zap.String("channel", redis.AppliedChannel),
		zap.Int("attempt", attemptNum))

	pubsub := c.App.RedisClient.Subscribe(ctx, redis.AppliedChannel)
	defer func() {
		if err := pubsub.Close(); err != nil {
			c.App.Logger.Error("Error closing Redis subscription", zap.Error(err))
		}
	}()

	receiveCtx, receiveCancel := context.WithTimeout(ctx, 5*time.Second)
	defer receiveCancel()

	if _, err := pubsub.Receive(receiveCtx); err != nil {
		return fmt.Errorf("failed to confirm Redis subscription: %w", err)
	}

	c.App.Logger.Info("Successfully subscribed to Redis channel",
		zap.String("channel", redis.AppliedChannel),
		zap.Int("attempt", attemptNum))

	select {
	case send <- ServerMessage{
		Type: "info",
		Payload: map[string]interface{}{
			"message": "Redis connection established",
			"attempt": attemptNum,
		},
	}:
	case <-ctx.Done():
		return ctx.Err()
	}

	return c.processAppliedMessages(ctx, pubsub, send, subs)
}

// processAppliedMessages forwards applied events from the PubSub channel until
// it closes or the context is cancelled.
func (c *Controller) processAppliedMessages(
	ctx context.Context,
	pubsub *goredis.PubSub,
	send chan<- ServerMessage,
	subs *clientSubscriptions,
) error {
	ch := pubsub.Channel()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case msg, ok := <-ch:
			if !ok {
				return nil
			}

			ev, err := event.Decode([]byte(msg.Payload))
			if err != nil {
				c.App.Logger.Error("Failed to parse applied event",
					zap.Error(err),
					zap.String("channel", msg.Channel))
				continue
			}

			// Server-side filtering: only forward if the client asked for it.
			if !subs.IsSubscribed(ev.FundID()) {
				continue
			}

			var payload map[string]interface{}
			if err := json.Unmarshal([]byte(msg.Payload), &payload); err != nil {
				continue
			}

			select {
			case send <- ServerMessage{Type: "event.applied", Payload: payload}:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
}

// CalculateNextBackoff calculates the next backoff duration with exponential
// growth and jitter. Exported for testing.
func CalculateNextBackoff(current, max time.Duration, factor, jitterFactor float64) time.Duration {
	next := time.Duration(float64(current) * factor)
	if next > max {
		next = max
	}

	// Jitter keeps reconnecting clients from retrying in lockstep.
	jitter := float64(next) * jitterFactor * (2*rand.Float64() - 1)
	nextWithJitter := time.Duration(float64(next) + jitter)

	if nextWithJitter < current {
		nextWithJitter = current
	}
	if nextWithJitter > max {
		nextWithJitter = max
	}

	return nextWithJitter
}

// sendPings sends periodic WebSocket ping frames to keep the connection alive.
func (c *Controller) sendPings(ctx context.Context, conn *websocket.Conn) {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, []byte{}, time.Now().Add(10*time.Second)); err != nil {
				c.App.Logger.Error("Failed to send ping", zap.Error(err))
				return
			}
		}
	}
}

// writeMessages writes messages from the send channel to the WebSocket connection.
func (c *Controller) writeMessages(conn *websocket.Conn, send <-chan ServerMessage) {
	for msg := range send {
		if err := conn.WriteJSON(msg); err != nil {
			c.App.Logger.Error("Failed to write WebSocket message", zap.Error(err))
			return
		}
	}
}

// readClientMessages reads subscription requests from the client and detects
// connection closure.
func (c *Controller) readClientMessages(ctx context.Context, conn *websocket.Conn, cancel context.CancelFunc, subs *clientSubscriptions, send chan<- ServerMessage) {
	if err := conn.SetReadDeadline(time.Now().Add(60 * time.Second)); err != nil {
		c.App.Logger.Error("Failed to set read deadline", zap.Error(err))
		return
	}

	conn.SetPongHandler(func(string) error {
		if err := conn.SetReadDeadline(time.Now().Add(60 * time.Second)); err != nil {
			c.App.Logger.Error("Failed to reset read deadline", zap.Error(err))
			return err
		}
		return nil
	})

	for {
		select {
		case <-ctx.Done():
			return
		default:
			var msg ClientMessage
			if err := conn.ReadJSON(&msg); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
					c.App.Logger.Error("WebSocket read error", zap.Error(err))
				}
				cancel()
				return
			}

			if err := conn.SetReadDeadline(time.Now().Add(60 * time.Second)); err != nil {
				c.App.Logger.Error("Failed to reset read deadline", zap.Error(err))
				return
			}

			switch msg.Action {
			case "subscribe":
				if msg.FundID == "" {
					send <- ServerMessage{Type: "error", Payload: map[string]string{"message": "fundId is required"}}
					continue
				}
				subs.Subscribe(msg.FundID)
				c.App.Logger.Debug("Client subscribed", zap.String("fundId", msg.FundID))
				send <- ServerMessage{Type: "subscribed", Payload: map[string]string{"fundId": msg.FundID}}

			case "unsubscribe":
				if msg.FundID == "" {
					send <- ServerMessage{Type: "error", Payload: map[string]string{"message": "fundId is required"}}
					continue
				}
				subs.Unsubscribe(msg.FundID)
				c.App.Logger.Debug("Client unsubscribed", zap.String("fundId", msg.FundID))
				send <- ServerMessage{Type: "unsubscribed", Payload: map[string]string{"fundId": msg.FundID}}

			default:
				send <- ServerMessage{Type: "error", Payload: map[string]string{"message": "unknown action: " + msg.Action}}
			}
		}
	}
}
