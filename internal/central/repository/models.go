// Package repository implements the central-service inbox/outbox tables over
// pgx: tcp_receive_logs (CAS inbox), disaster_publish_logs (broker outbox),
// mq_receive_logs (broker inbox), and report_transmit_logs (CAS outbox).
package repository

import (
	"time"

	"github.com/bonghwa-lab/bonghwa-gateway/internal/model"
)

// TCPReceiveLog is the CAS inbox row. (inbound_id, inbound_seq) is the primary
// dedup key for the disaster pipeline.
type TCPReceiveLog struct {
	ID           int64
	InboundID    string
	InboundSeq   int32
	RawMessage   string
	Status       model.Status
	ErrorMessage string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// DisasterPublishLog is the CS→broker outbox row. identifier uniqueness is
// the system-wide idempotency key for the disaster fan-out.
type DisasterPublishLog struct {
	ID              int64
	TCPReceiveLogID int64
	RoutingKey      string
	Identifier      string
	EventCode       string
	RawMessage      string
	Status          model.Status
	RetryCount      int32
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// MQReceiveLog is the broker inbox row. Append then state-transition only.
type MQReceiveLog struct {
	ID           int64
	RawMessage   string
	Status       model.Status
	ErrorMessage string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ReportTransmitLog is the CS→CAS outbox row. (outbound_id, report_sequence)
// uniquely identifies a send attempt for ACK correlation.
type ReportTransmitLog struct {
	ID                 int64
	MQReceiveLogID     int64
	Type               model.ReportType
	OutboundID         string
	ExternalSystemName string
	RawMessage         string
	Status             model.Status
	RetryCount         int32
	ReportSequence     int32
	ErrorDetail        string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}
