package stream

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	json "github.com/goccy/go-json"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/Polymarket/polymarket-cli/pkg/types"
)

const (
	dialTimeout  = 10 * time.Second
	pingInterval = 10 * time.Second
	writeTimeout = 5 * time.Second

	reconnectInitialDelay = time.Second
	reconnectMaxDelay     = 30 * time.Second
	reconnectJitter       = 0.2
)

// Handler receives each book event in arrival order.
type Handler func(*types.BookMessage)

// Client streams the market websocket channel for a set of asset ids.
// Reconnects with exponential backoff; the server replays a book snapshot
// on every (re)subscribe, so dropped deltas self-heal.
type Client struct {
	url      string
	assetIDs []string
	logger   *zap.Logger
}

// NewClient creates a stream client for the given asset ids.
func NewClient(url string, assetIDs []string, logger *zap.Logger) *Client {
	return &Client{
		url:      url,
		assetIDs: assetIDs,
		logger:   logger,
	}
}

// Run streams events to the handler until the context is canceled.
func (c *Client) Run(ctx context.Context, handler Handler) error {
	delay := reconnectInitialDelay

	for {
		err := c.runOnce(ctx, handler)
		if ctx.Err() != nil {
			return ctx.Err()
		}

		c.logger.Warn("stream-disconnected",
			zap.Error(err),
			zap.Duration("reconnect-in", delay))

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(withJitter(delay)):
		}

		delay *= 2
		if delay > reconnectMaxDelay {
			delay = reconnectMaxDelay
		}
	}
}

func (c *Client) runOnce(ctx context.Context, handler Handler) error {
	dialer := websocket.Dialer{HandshakeTimeout: dialTimeout}

	conn, _, err := dialer.DialContext(ctx, c.url, nil)
	if err != nil {
		return fmt.Errorf("dial %s: %w", c.url, err)
	}
	defer conn.Close()

	subscribe := map[string]interface{}{
		"assets_ids": c.assetIDs,
		"type":       "market",
	}
	if err := conn.WriteJSON(subscribe); err != nil {
		return fmt.Errorf("subscribe: %w", err)
	}

	c.logger.Info("stream-subscribed",
		zap.Int("assets", len(c.assetIDs)))

	done := make(chan struct{})
	defer close(done)
	go c.pingLoop(ctx, conn, done)

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			return fmt.Errorf("read: %w", err)
		}

		for _, msg := range parseMessages(message) {
			handler(msg)
		}
	}
}

func (c *Client) pingLoop(ctx context.Context, conn *websocket.Conn, done <-chan struct{}) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			conn.Close()
			return
		case <-done:
			return
		case <-ticker.C:
			deadline := time.Now().Add(writeTimeout)
			if err := conn.WriteControl(websocket.PingMessage, nil, deadline); err != nil {
				c.logger.Warn("ping-failed", zap.Error(err))
				conn.Close()
				return
			}
		}
	}
}

// parseMessages decodes a raw frame. The server sends arrays of events;
// heartbeats and control frames decode to nothing and are dropped.
func parseMessages(raw []byte) []*types.BookMessage {
	var batch []types.BookMessage
	if err := json.Unmarshal(raw, &batch); err != nil {
		var single types.BookMessage
		if err := json.Unmarshal(raw, &single); err != nil || single.EventType == "" {
			return nil
		}
		return []*types.BookMessage{&single}
	}

	out := make([]*types.BookMessage, 0, len(batch))
	for i := range batch {
		if batch[i].EventType == "" {
			continue
		}
		out = append(out, &batch[i])
	}
	return out
}

func withJitter(d time.Duration) time.Duration {
	jitter := 1 + reconnectJitter*(2*rand.Float64()-1)
	return time.Duration(float64(d) * jitter)
}
