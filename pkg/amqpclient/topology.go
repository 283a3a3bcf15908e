package amqpclient

import (
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// Topology describes one side's broker layout. The disaster stream uses a
// topic exchange, the report stream a direct one; both carry the same
// main/retry/dead-letter shape.
type Topology struct {
	Exchange string
	Kind     string // "topic" or "direct"
	Queue    string
	BindKey  string // queue binding: "disaster.*" or "report.external"

	RetryExchange string
	WaitQueue     string
	RetryTTL      time.Duration

	DLX        string
	DLQ        string
	DLQBindKey string // "#" for the topic stream, the binding key otherwise
}

// DisasterTopology is the CS→ES stream layout consumed by the external
// service.
func DisasterTopology(retryTTL time.Duration) Topology {
	return Topology{
		Exchange:      "disaster.topic",
		Kind:          "topic",
		Queue:         "disaster.main",
		BindKey:       "disaster.*",
		RetryExchange: "disaster_retry",
		WaitQueue:     "disaster.wait",
		RetryTTL:      retryTTL,
		DLX:           "disaster_dlx",
		DLQ:           "disaster.dlq",
		DLQBindKey:    "#",
	}
}

// ReportTopology is the ES→CS stream layout consumed by the central service.
func ReportTopology(retryTTL time.Duration) Topology {
	return Topology{
		Exchange:      "report.direct",
		Kind:          "direct",
		Queue:         "report.main",
		BindKey:       "report.external",
		RetryExchange: "report_retry",
		WaitQueue:     "report.wait",
		RetryTTL:      retryTTL,
		DLX:           "report_dlx",
		DLQ:           "report.dlq",
		DLQBindKey:    "report.external",
	}
}

// Provision idempotently declares the exchanges, queues, and bindings for one
// topology on the given channel.
//
// Queue wiring:
//   - main queue dead-letters to the DLX, with an explicit routing key so the
//     direct DLX binding matches regardless of the original key;
//   - wait queue holds messages for RetryTTL and dead-letters back into the
//     main exchange; for direct exchanges the routing key is pinned so the
//     original binding key is preserved.
func (c *Client) Provision(t Topology) error {
	ch := c.Ch

	for _, ex := range []struct {
		name, kind string
	}{
		{t.Exchange, t.Kind},
		{t.RetryExchange, t.Kind},
		{t.DLX, "direct"},
	} {
		if err := ch.ExchangeDeclare(ex.name, ex.kind, true, false, false, false, nil); err != nil {
			return fmt.Errorf("declare exchange %s: %w", ex.name, err)
		}
	}

	mainArgs := amqp.Table{
		"x-dead-letter-exchange":    t.DLX,
		"x-dead-letter-routing-key": t.DLQBindKey,
	}
	if _, err := ch.QueueDeclare(t.Queue, true, false, false, false, mainArgs); err != nil {
		return fmt.Errorf("declare queue %s: %w", t.Queue, err)
	}
	if err := ch.QueueBind(t.Queue, t.BindKey, t.Exchange, false, nil); err != nil {
		return fmt.Errorf("bind queue %s: %w", t.Queue, err)
	}

	waitArgs := amqp.Table{
		"x-message-ttl":          t.RetryTTL.Milliseconds(),
		"x-dead-letter-exchange": t.Exchange,
	}
	if t.Kind == "direct" {
		waitArgs["x-dead-letter-routing-key"] = t.BindKey
	}
	if _, err := ch.QueueDeclare(t.WaitQueue, true, false, false, false, waitArgs); err != nil {
		return fmt.Errorf("declare queue %s: %w", t.WaitQueue, err)
	}
	if err := ch.QueueBind(t.WaitQueue, t.BindKey, t.RetryExchange, false, nil); err != nil {
		return fmt.Errorf("bind queue %s: %w", t.WaitQueue, err)
	}

	if _, err := ch.QueueDeclare(t.DLQ, true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare queue %s: %w", t.DLQ, err)
	}
	if err := ch.QueueBind(t.DLQ, t.DLQBindKey, t.DLX, false, nil); err != nil {
		return fmt.Errorf("bind queue %s: %w", t.DLQ, err)
	}

	c.Log.Info("AMQP topology provisioned",
		zap.String("exchange", t.Exchange),
		zap.String("queue", t.Queue),
		zap.Duration("retry_ttl", t.RetryTTL),
	)
	return nil
}
