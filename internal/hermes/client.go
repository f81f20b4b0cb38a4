// Package hermes connects haven to NATS. Turn summaries and safeguarding
// alerts go out on the haven.* subjects; reset requests come in.
package hermes

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
)

const (
	clientName     = "haven"
	maxReconnects  = 60
	reconnectDelay = 2 * time.Second
)

// Client is a NATS connection plus the subscriptions haven opened on it.
type Client struct {
	conn   *nats.Conn
	subs   []*nats.Subscription
	logger *slog.Logger
}

// NewClient connects to url, authenticating with token when set. The first
// connect is retried in the background, so a broker that is still starting
// does not stop the service.
func NewClient(ctx context.Context, url, token string, logger *slog.Logger) (*Client, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}

	opts := []nats.Option{
		nats.Name(clientName),
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(maxReconnects),
		nats.ReconnectWait(reconnectDelay),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.Warn("nats disconnected, alerts are buffered", "error", err)
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.Info("nats reconnected", "url", nc.ConnectedUrlRedacted())
		}),
	}
	if token != "" {
		opts = append(opts, nats.Token(token))
	}

	nc, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}
	return &Client{conn: nc, logger: logger}, nil
}

// Publish sends data as JSON. Outgoing messages are buffered by the client
// while disconnected.
func (c *Client) Publish(subject string, data any) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshal %s payload: %w", subject, err)
	}
	if err := c.conn.Publish(subject, payload); err != nil {
		return fmt.Errorf("publish %s: %w", subject, err)
	}
	return nil
}

// Subscribe delivers every message on subject to handler.
func (c *Client) Subscribe(subject string, handler func(subject string, data []byte)) error {
	sub, err := c.conn.Subscribe(subject, func(msg *nats.Msg) {
		handler(msg.Subject, msg.Data)
	})
	if err != nil {
		return fmt.Errorf("subscribe %s: %w", subject, err)
	}
	c.subs = append(c.subs, sub)
	c.logger.Info("subscribed", "subject", subject)
	return nil
}

// SubscribeResets forgets sessions named on SubjectSessionReset. Every
// replica subscribes since sessions live in process memory.
func (c *Client) SubscribeResets(r Resetter) error {
	return c.Subscribe(SubjectSessionReset, ResetHandler(r, c.logger))
}

// Connected reports whether the connection is currently up.
func (c *Client) Connected() bool {
	return c.conn.IsConnected()
}

// Close drops haven's subscriptions and flushes pending alerts before
// disconnecting.
func (c *Client) Close() {
	for _, sub := range c.subs {
		_ = sub.Unsubscribe()
	}
	if err := c.conn.Drain(); err != nil {
		c.conn.Close()
	}
}
