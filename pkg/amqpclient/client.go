// Package amqpclient wraps the AMQP connection and provisions the gateway's
// retry topology: main exchange → main queue (dead-lettering to a DLX/DLQ),
// plus a retry exchange feeding a TTL wait queue that expires back into the
// main exchange.
package amqpclient

import (
	"context"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// RetryCountHeader carries the consumer-side republish attempt count.
const RetryCountHeader = "x-retry-count"

// Client wraps an AMQP connection and a default channel for publishing.
type Client struct {
	Conn *amqp.Connection
	Ch   *amqp.Channel
	Log  *zap.Logger
}

// Dial connects to the broker and opens the publishing channel.
func Dial(url string, logger *zap.Logger) (*Client, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to AMQP broker: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open AMQP channel: %w", err)
	}

	logger.Info("AMQP broker connected", zap.String("url", url))
	return &Client{Conn: conn, Ch: ch, Log: logger}, nil
}

// NewChannel opens a dedicated channel; each consumer owns one.
func (c *Client) NewChannel() (*amqp.Channel, error) {
	return c.Conn.Channel()
}

// Close closes the channel and connection. In-flight consumer deliveries on
// other channels are cancelled by the connection close.
func (c *Client) Close() {
	if c.Ch != nil {
		c.Ch.Close()
	}
	if c.Conn != nil {
		c.Conn.Close()
	}
}

// Publish sends a persistent message to exchange with the given routing key.
func (c *Client) Publish(ctx context.Context, exchange, key string, body []byte) error {
	return c.Ch.PublishWithContext(ctx, exchange, key, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Body:         body,
	})
}

// PublishRetry republishes a failed delivery to the retry exchange with an
// incremented x-retry-count header, preserving the original routing key.
func (c *Client) PublishRetry(ctx context.Context, t Topology, key string, body []byte, retryCount int) error {
	return c.Ch.PublishWithContext(ctx, t.RetryExchange, key, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Headers:      amqp.Table{RetryCountHeader: int32(retryCount)},
		Body:         body,
	})
}

// RetryCount reads the x-retry-count header of a delivery, defaulting to 0.
func RetryCount(d amqp.Delivery) int {
	raw, ok := d.Headers[RetryCountHeader]
	if !ok {
		return 0
	}
	switch v := raw.(type) {
	case int32:
		return int(v)
	case int64:
		return int(v)
	case int:
		return v
	}
	return 0
}
