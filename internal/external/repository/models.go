// Package repository implements the external-service persistence layer over
// pgx: subscriber registry, device registry, the API/broker inboxes, and the
// broker/WebSocket outboxes.
package repository

import (
	"time"

	"github.com/bonghwa-lab/bonghwa-gateway/internal/model"
)

// ExternalSystem is a registered subscriber system.
type ExternalSystem struct {
	ID                   int64
	Name                 string
	APIKey               string
	SubscribedEventCodes []string
	Active               bool
	CreatedAt            time.Time
}

// Device is a reported terminal device, upserted per (system, device id).
type Device struct {
	ID               int64
	ExternalSystemID int64
	DeviceID         string
	DeviceInfo       string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// APIReceiveLog is the inbox row for one accepted HTTP report call.
type APIReceiveLog struct {
	ID               int64
	ExternalSystemID int64
	Endpoint         string
	RawMessage       string
	Status           model.Status
	ErrorMessage     string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// ReportPublishLog is the outbox row for one report awaiting broker publish.
type ReportPublishLog struct {
	ID                 int64
	APIReceiveLogID    int64
	Type               model.ReportType
	Identifier         string
	ExternalSystemName string
	RawMessage         string
	Status             model.Status
	RetryCount         int32
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// MQReceiveLog is the inbox row for one broker delivery.
type MQReceiveLog struct {
	ID           int64
	RawMessage   string
	Status       model.Status
	ErrorMessage string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// DisasterTransmitLog is the outbox row for one alert awaiting WebSocket
// delivery to one subscriber.
type DisasterTransmitLog struct {
	ID               int64
	MQReceiveLogID   int64
	ExternalSystemID int64
	Identifier       string
	EventCode        string
	RawMessage       string
	Status           model.Status
	RetryCount       int32
	ErrorDetail      string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// DeviceStatusLog is one bulk device-status snapshot entry.
type DeviceStatusLog struct {
	ID               int64
	ExternalSystemID int64
	DeviceID         string
	StatusPayload    string
	CreatedAt        time.Time
}

// Connection events recorded in connection_logs.
const (
	ConnConnected    = "CONNECTED"
	ConnDisconnected = "DISCONNECTED"
)

// ConnectionLog records a WebSocket attach or detach.
type ConnectionLog struct {
	ID               int64
	ExternalSystemID int64
	Event            string
	Detail           string
	CreatedAt        time.Time
}
