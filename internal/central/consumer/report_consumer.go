// Package consumer drains the report stream coming from the external-service
// into the CAS outbox.
package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/bonghwa-lab/bonghwa-gateway/internal/central/repository"
	"github.com/bonghwa-lab/bonghwa-gateway/internal/central/worker"
	"github.com/bonghwa-lab/bonghwa-gateway/internal/model"
	"github.com/bonghwa-lab/bonghwa-gateway/pkg/amqpclient"
)

const (
	consumerTag    = "central-report-consumer"
	reconnectDelay = 5 * time.Second
	prefetchCount  = 10
)

// ReportMessage is the broker payload published by the external-service for
// each accepted subscriber report.
type ReportMessage struct {
	Type               string `json:"type"`
	ExternalSystemName string `json:"externalSystemName"`
	Identifier         string `json:"identifier,omitempty"`
	RawMessage         string `json:"rawMessage"`
}

// Broker is the slice of the AMQP client the consumer needs.
type Broker interface {
	NewChannel() (*amqp.Channel, error)
	PublishRetry(ctx context.Context, t amqpclient.Topology, key string, body []byte, retryCount int) error
}

// ReportConsumer consumes report.main, records each delivery in the broker
// inbox, and stages a CAS outbox row in the same transaction. Failed
// deliveries are republished through the wait queue until the retry budget
// runs out, then dead-lettered.
type ReportConsumer struct {
	client     Broker
	topology   amqpclient.Topology
	store      repository.Store
	destID     string
	maxRetries int
	logger     *zap.Logger
}

// NewReportConsumer creates the consumer.
func NewReportConsumer(client Broker, topology amqpclient.Topology, store repository.Store, destID string, maxRetries int, logger *zap.Logger) *ReportConsumer {
	return &ReportConsumer{
		client:     client,
		topology:   topology,
		store:      store,
		destID:     destID,
		maxRetries: maxRetries,
		logger:     logger,
	}
}

// Run consumes until ctx is cancelled, re-establishing the channel after
// transport failures.
func (c *ReportConsumer) Run(ctx context.Context) {
	for {
		if err := c.consumeOnce(ctx); err != nil {
			c.logger.Error("report consume channel lost", zap.Error(err))
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(reconnectDelay):
		}
	}
}

func (c *ReportConsumer) consumeOnce(ctx context.Context) error {
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
	c.logger.Info("report consumer started", zap.String("queue", c.topology.Queue))

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

func (c *ReportConsumer) handleDelivery(ctx context.Context, d amqp.Delivery) {
	retryCount := amqpclient.RetryCount(d)

	logID, err := c.store.InsertMQReceiveLog(ctx, string(d.Body))
	if err != nil {
		// No inbox row to settle; push the message through the wait queue
		// so it comes back after the delay instead of hot-looping.
		c.logger.Error("mq inbox insert failed", zap.Error(err))
		c.failDelivery(ctx, d, 0, retryCount, fmt.Errorf("inbox insert: %w", err))
		return
	}

	if err := c.stageReport(ctx, logID, d.Body); err != nil {
		c.failDelivery(ctx, d, logID, retryCount, err)
		return
	}
	_ = d.Ack(false)
}

// stageReport parses the payload and, in one transaction, stages the CAS
// outbox row and settles the inbox row.
func (c *ReportConsumer) stageReport(ctx context.Context, logID int64, body []byte) error {
	var msg ReportMessage
	if err := json.Unmarshal(body, &msg); err != nil {
		return fmt.Errorf("decode report message: %w", err)
	}
	reportType := model.ReportType(msg.Type)
	if !reportType.Valid() {
		return fmt.Errorf("unknown report type %q", msg.Type)
	}
	if msg.ExternalSystemName == "" {
		return errors.New("missing externalSystemName")
	}

	return c.store.WithinTx(ctx, func(q repository.Querier) error {
		outboundID, err := c.outboundID(ctx, q, reportType, msg)
		if err != nil {
			return err
		}
		if _, err := q.InsertReportTransmitLog(ctx, logID, reportType, outboundID,
			msg.ExternalSystemName, msg.RawMessage); err != nil {
			return fmt.Errorf("stage report: %w", err)
		}
		return q.UpdateMQReceiveLogStatus(ctx, logID, model.StatusSuccess, "")
	})
}

// outboundID derives the CAS correlation id. Device reports get a generated
// id; disaster results reuse the original alert identifier, which must exist
// locally.
func (c *ReportConsumer) outboundID(ctx context.Context, q repository.Querier, reportType model.ReportType, msg ReportMessage) (string, error) {
	if reportType == model.ReportDisasterResult {
		if msg.Identifier == "" {
			return "", errors.New("disaster result without identifier")
		}
		if _, err := q.GetDisasterPublishByIdentifier(ctx, msg.Identifier); err != nil {
			return "", fmt.Errorf("original alert %q: %w", msg.Identifier, err)
		}
		return msg.Identifier + worker.DisasterResultSuffix, nil
	}

	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return fmt.Sprintf("KR.%s_%d_%s", c.destID, time.Now().UnixMilli(), suffix), nil
}

func (c *ReportConsumer) failDelivery(ctx context.Context, d amqp.Delivery, logID int64, retryCount int, cause error) {
	if retryCount < c.maxRetries {
		if err := c.client.PublishRetry(ctx, c.topology, d.RoutingKey, d.Body, retryCount+1); err != nil {
			// Retry path is down; dead-letter rather than requeue, which
			// would spin the message back through this channel.
			c.logger.Error("report retry publish failed", zap.Error(err))
			_ = d.Nack(false, false)
			c.markInboxFailed(ctx, logID, "[Final Failed] "+cause.Error())
			return
		}
		_ = d.Ack(false)
		c.markInboxFailed(ctx, logID, cause.Error())
		c.logger.Warn("report staged for retry",
			zap.Int("retry_count", retryCount+1),
			zap.Error(cause))
		return
	}

	// Budget exhausted: dead-letter the message.
	_ = d.Nack(false, false)
	c.markInboxFailed(ctx, logID, "[Final Failed] "+cause.Error())
	c.logger.Error("report dead-lettered",
		zap.Int("retry_count", retryCount),
		zap.Error(cause))
}

func (c *ReportConsumer) markInboxFailed(ctx context.Context, logID int64, reason string) {
	if logID == 0 {
		return
	}
	if err := c.store.UpdateMQReceiveLogStatus(ctx, logID, model.StatusFailed, reason); err != nil {
		c.logger.Error("mq inbox status update failed",
			zap.Int64("id", logID), zap.Error(err))
	}
}
