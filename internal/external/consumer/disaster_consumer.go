// Package consumer drains the disaster stream coming from the central-service
// into the per-subscriber WebSocket outbox.
package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/bonghwa-lab/bonghwa-gateway/internal/external/repository"
	"github.com/bonghwa-lab/bonghwa-gateway/internal/model"
	"github.com/bonghwa-lab/bonghwa-gateway/pkg/amqpclient"
)

const (
	consumerTag    = "external-disaster-consumer"
	reconnectDelay = 5 * time.Second
	prefetchCount  = 10
)

// DisasterMessage is the broker payload published by the central-service for
// each accepted alert.
type DisasterMessage struct {
	Identifier string `json:"identifier"`
	EventCode  string `json:"eventCode"`
	RawMessage string `json:"rawMessage"`
}

// Broker is the slice of the AMQP client the consumer needs.
type Broker interface {
	NewChannel() (*amqp.Channel, error)
	PublishRetry(ctx context.Context, t amqpclient.Topology, key string, body []byte, retryCount int) error
}

// DisasterConsumer consumes disaster.main and fans each alert out into one
// WS outbox row per subscribed, active system. The per-subscriber unique key
// makes broker redeliveries idempotent.
type DisasterConsumer struct {
	client     Broker
	topology   amqpclient.Topology
	store      repository.Store
	maxRetries int
	logger     *zap.Logger
}

// NewDisasterConsumer creates the consumer.
func NewDisasterConsumer(client Broker, topology amqpclient.Topology, store repository.Store, maxRetries int, logger *zap.Logger) *DisasterConsumer {
	return &DisasterConsumer{
		client:     client,
		topology:   topology,
		store:      store,
		maxRetries: maxRetries,
		logger:     logger,
	}
}

// Run consumes until ctx is cancelled, re-establishing the channel after
// transport failures.
func (c *DisasterConsumer) Run(ctx context.Context) {
	for {
		if err := c.consumeOnce(ctx); err != nil {
			c.logger.Error("disaster consume channel lost", zap.Error(err))
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(reconnectDelay):
		}
	}
}

func (c *DisasterConsumer) consumeOnce(ctx context.Context) error {
	ch, err := c.client.NewChannel()
	if err != nil {
		return fmt.Errorf("open channel: %w", err)
	}
	defer ch.Close()

	if err := ch.Qos(prefetchCount, 0, false); err != nil {
		return fmt.Errorf("set qos: %w", err)
	}
	deliveries, err := ch.Consume(c.topology.Queue, consumerTag, false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("consume %s: %w", c.topology.Queue, err)
	}
	c.logger.Info("disaster consumer started", zap.String("queue", c.topology.Queue))

	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-deliveries:
			if !ok {
				return errors.New("delivery channel closed")
			}
			c.handleDelivery(ctx, d)
		}
	}
}

func (c *DisasterConsumer) handleDelivery(ctx context.Context, d amqp.Delivery) {
	retryCount := amqpclient.RetryCount(d)

	logID, err := c.store.InsertMQReceiveLog(ctx, string(d.Body))
	if err != nil {
		// No inbox row to settle; push the message through the wait queue
		// so it comes back after the delay instead of hot-looping.
		c.logger.Error("mq inbox insert failed", zap.Error(err))
		c.failDelivery(ctx, d, 0, retryCount, fmt.Errorf("inbox insert: %w", err))
		return
	}

	if err := c.fanOut(ctx, logID, d.Body); err != nil {
		c.failDelivery(ctx, d, logID, retryCount, err)
		return
	}
	_ = d.Ack(false)
}

// fanOut stages one WS outbox row per subscriber and settles the inbox row,
// all in one transaction.
func (c *DisasterConsumer) fanOut(ctx context.Context, logID int64, body []byte) error {
	var msg DisasterMessage
	if err := json.Unmarshal(body, &msg); err != nil {
		return fmt.Errorf("decode disaster message: %w", err)
	}
	if msg.Identifier == "" || msg.EventCode == "" {
		return errors.New("disaster message missing identifier or eventCode")
	}

	return c.store.WithinTx(ctx, func(q repository.Querier) error {
		systems, err := q.ListActiveSystemsByEventCode(ctx, msg.EventCode)
		if err != nil {
			return fmt.Errorf("list subscribers: %w", err)
		}
		staged := 0
		for _, system := range systems {
			inserted, err := q.InsertDisasterTransmitLog(ctx, logID, system.ID,
				msg.Identifier, msg.EventCode, msg.RawMessage)
			if err != nil {
				return fmt.Errorf("stage alert for %s: %w", system.Name, err)
			}
			if inserted {
				staged++
			}
		}
		c.logger.Info("alert fanned out",
			zap.String("identifier", msg.Identifier),
			zap.String("event_code", msg.EventCode),
			zap.Int("subscribers", len(systems)),
			zap.Int("staged", staged))
		return q.UpdateMQReceiveLogStatus(ctx, logID, model.StatusSuccess, "")
	})
}

func (c *DisasterConsumer) failDelivery(ctx context.Context, d amqp.Delivery, logID int64, retryCount int, cause error) {
	if retryCount < c.maxRetries {
		if err := c.client.PublishRetry(ctx, c.topology, d.RoutingKey, d.Body, retryCount+1); err != nil {
			// Retry path is down; dead-letter rather than requeue, which
			// would spin the message back through this channel.
			c.logger.Error("disaster retry publish failed", zap.Error(err))
			_ = d.Nack(false, false)
			c.markInboxFailed(ctx, logID, "[Final Failed] "+cause.Error())
			return
		}
		_ = d.Ack(false)
		c.markInboxFailed(ctx, logID, cause.Error())
		c.logger.Warn("alert staged for retry",
			zap.Int("retry_count", retryCount+1),
			zap.Error(cause))
		return
	}

	_ = d.Nack(false, false)
	c.markInboxFailed(ctx, logID, "[Final Failed] "+cause.Error())
	c.logger.Error("alert dead-lettered",
		zap.Int("retry_count", retryCount),
		zap.Error(cause))
}

func (c *DisasterConsumer) markInboxFailed(ctx context.Context, logID int64, reason string) {
	if logID == 0 {
		return
	}
	if err := c.store.UpdateMQReceiveLogStatus(ctx, logID, model.StatusFailed, reason); err != nil {
		c.logger.Error("mq inbox status update failed",
			zap.Int64("id", logID), zap.Error(err))
	}
}
