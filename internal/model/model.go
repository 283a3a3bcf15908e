// Package model defines the lifecycle status and report-type enums shared by
// the inbox/outbox tables on both sides of the gateway.
package model

// Status is the lifecycle state of an inbox/outbox row.
//
// PENDING → (SENT?) → SUCCESS | FAILED. SENT means "dispatched, awaiting an
// asynchronous ACK" and is only used for WS deliveries and CAS-bound reports.
// SUCCESS and FAILED are terminal.
type Status string

const (
	StatusPending Status = "PENDING"
	StatusSent    Status = "SENT"
	StatusSuccess Status = "SUCCESS"
	StatusFailed  Status = "FAILED"
)

// Terminal reports whether a row in this status may never transition again.
func (s Status) Terminal() bool {
	return s == StatusSuccess || s == StatusFailed
}

// ReportType classifies an ESS-originated report.
type ReportType string

const (
	ReportDeviceInfo     ReportType = "DEVICE_INFO"
	ReportDeviceStatus   ReportType = "DEVICE_STATUS"
	ReportDisasterResult ReportType = "DISASTER_RESULT"
)

// Valid reports whether t is one of the known report types.
func (t ReportType) Valid() bool {
	switch t {
	case ReportDeviceInfo, ReportDeviceStatus, ReportDisasterResult:
		return true
	}
	return false
}
