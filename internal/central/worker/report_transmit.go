package worker

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/bonghwa-lab/bonghwa-gateway/internal/central/protocol"
	"github.com/bonghwa-lab/bonghwa-gateway/internal/central/repository"
	"github.com/bonghwa-lab/bonghwa-gateway/internal/central/session"
	"github.com/bonghwa-lab/bonghwa-gateway/internal/model"
	"github.com/bonghwa-lab/bonghwa-gateway/pkg/capxml"
)

// DisasterResultSuffix is appended to the original alert identifier to form
// the outbound id of a DISASTER_RESULT report.
const DisasterResultSuffix = "_RPT_1"

// ReportSender is the CAS write surface the transmitter needs.
type ReportSender interface {
	Active() bool
	SendEnvelope(messageID uint32, env *capxml.Envelope) error
}

// ReportTransmitter drains report_transmit_logs to the CAS session and
// correlates the asynchronous ACKs back by (outbound_id, report_sequence).
//
// A dispatched row sits in SENT with a running ACK timer; the ACK, the timer,
// or the stale-SENT predicate of the poller decides what happens next.
type ReportTransmitter struct {
	store       repository.Store
	sender      ReportSender
	senderID    string // CAP <sender> of outbound reports
	systemID    string // CAP <addresses> target system
	xmitTimeout time.Duration
	maxRetries  int32
	batchSize   int32
	logger      *zap.Logger
	now         func() time.Time

	mu     sync.Mutex
	timers map[int64]*time.Timer
}

// NewReportTransmitter creates the worker.
func NewReportTransmitter(store repository.Store, sender ReportSender, senderID, systemID string, xmitTimeout time.Duration, maxRetries int, logger *zap.Logger) *ReportTransmitter {
	return &ReportTransmitter{
		store:       store,
		sender:      sender,
		senderID:    senderID,
		systemID:    systemID,
		xmitTimeout: xmitTimeout,
		maxRetries:  int32(maxRetries),
		batchSize:   100,
		logger:      logger,
		now:         time.Now,
		timers:      make(map[int64]*time.Timer),
	}
}

// Run executes one poll cycle. Without an authenticated session the cycle is
// a no-op; rows stay queued for the next tick.
func (w *ReportTransmitter) Run(ctx context.Context) {
	if !w.sender.Active() {
		return
	}

	staleBefore := w.now().Add(-w.xmitTimeout)
	rows, err := w.store.ListDispatchableReportTransmit(ctx, staleBefore, w.batchSize)
	if err != nil {
		w.logger.Error("list dispatchable reports failed", zap.Error(err))
		return
	}

	for _, row := range rows {
		if !w.sender.Active() {
			return
		}
		w.dispatch(ctx, row)
	}
}

func (w *ReportTransmitter) dispatch(ctx context.Context, row repository.ReportTransmitLog) {
	// Any trace of a prior attempt means this pass is a retry: bump the
	// counters first so the attempt correlates on a fresh sequence.
	if row.Status == model.StatusSent || row.ErrorDetail != "" || row.RetryCount > 0 {
		bumped, err := w.store.BumpReportTransmitRetry(ctx, row.ID)
		if err != nil {
			w.logger.Error("report retry bump failed",
				zap.Int64("id", row.ID), zap.Error(err))
			return
		}
		if bumped.RetryCount > w.maxRetries {
			w.finish(ctx, row.ID, model.StatusFailed, "retry limit exceeded")
			w.logger.Warn("report abandoned",
				zap.Int64("id", row.ID),
				zap.String("outbound_id", row.OutboundID),
				zap.Int32("retries", bumped.RetryCount))
			return
		}
		row = bumped
	}

	messageID, env, buildErr := w.buildEnvelope(ctx, row)
	if buildErr != nil {
		w.finish(ctx, row.ID, model.StatusFailed, buildErr.Error())
		w.logger.Error("report build failed",
			zap.Int64("id", row.ID),
			zap.String("outbound_id", row.OutboundID),
			zap.Error(buildErr))
		return
	}

	if err := w.sender.SendEnvelope(messageID, env); err != nil {
		if errors.Is(err, session.ErrNotActive) {
			return
		}
		w.finish(ctx, row.ID, model.StatusPending, "send failed: "+err.Error())
		w.logger.Error("report send failed",
			zap.Int64("id", row.ID), zap.Error(err))
		return
	}

	if err := w.store.MarkReportTransmitSent(ctx, row.ID); err != nil {
		w.logger.Error("report sent-mark failed",
			zap.Int64("id", row.ID), zap.Error(err))
		return
	}
	w.armTimer(row.ID)
	w.logger.Info("report transmitted",
		zap.Int64("id", row.ID),
		zap.String("outbound_id", row.OutboundID),
		zap.Int32("report_sequence", row.ReportSequence),
		zap.String("type", string(row.Type)))
}

// buildEnvelope renders the CAS frame body for one outbox row. An error here
// is terminal for the row; retrying cannot fix a malformed report.
func (w *ReportTransmitter) buildEnvelope(ctx context.Context, row repository.ReportTransmitLog) (uint32, *capxml.Envelope, error) {
	sent := w.now()

	var (
		messageID uint32
		alert     *capxml.Alert
	)
	switch row.Type {
	case model.ReportDeviceInfo:
		messageID = protocol.MsgNfyDeviceInfo
		alert = capxml.BuildDeviceReportAlert(capxml.DeviceReport{
			Identifier: row.OutboundID,
			SenderID:   w.senderID,
			SystemID:   w.systemID,
			Event:      "단말장치 제원정보",
			ValueName:  "DEVICE_DATA",
			Payload:    row.RawMessage,
		}, sent)

	case model.ReportDeviceStatus:
		messageID = protocol.MsgNfyDeviceSts
		alert = capxml.BuildDeviceReportAlert(capxml.DeviceReport{
			Identifier: row.OutboundID,
			SenderID:   w.senderID,
			SystemID:   w.systemID,
			Event:      "단말장치 상태정보",
			ValueName:  "DEVICE_STATUS",
			Payload:    row.RawMessage,
		}, sent)

	case model.ReportDisasterResult:
		messageID = protocol.MsgReqDisReport
		origIdentifier := strings.TrimSuffix(row.OutboundID, DisasterResultSuffix)
		orig, err := w.store.GetDisasterPublishByIdentifier(ctx, origIdentifier)
		if err != nil {
			return 0, nil, fmt.Errorf("original alert %q: %w", origIdentifier, err)
		}
		origEnv, err := capxml.ParseEnvelope([]byte(orig.RawMessage))
		if err != nil {
			return 0, nil, fmt.Errorf("original alert %q: %w", origIdentifier, err)
		}
		if origEnv.CapInfo == nil || origEnv.CapInfo.Alert == nil {
			return 0, nil, fmt.Errorf("original alert %q: no capInfo.alert", origIdentifier)
		}
		origAlert := origEnv.CapInfo.Alert
		alert = capxml.BuildDisasterResultAlert(capxml.DisasterResultReport{
			Identifier:     row.OutboundID,
			SenderID:       w.senderID,
			SystemID:       w.systemID,
			Payload:        row.RawMessage,
			OrigSender:     origAlert.Sender,
			OrigIdentifier: origAlert.Identifier,
			OrigSent:       origAlert.Sent,
		}, sent)

	default:
		return 0, nil, fmt.Errorf("unknown report type %q", row.Type)
	}

	env := &capxml.Envelope{
		TransMsgID:  row.OutboundID,
		TransMsgSeq: int(row.ReportSequence),
		CapInfo:     &capxml.CapInfo{Alert: alert},
	}
	return messageID, env, nil
}

// OnReportAck consumes a CAS reply (CNF_DEVICE_INFO, CNF_DEVICE_STS,
// RES_DIS_REPORT) and settles the correlated outbox row.
func (w *ReportTransmitter) OnReportAck(ctx context.Context, messageID uint32, body []byte) {
	env, err := capxml.ParseEnvelope(body)
	if err != nil {
		w.logger.Error("report ack parse failed",
			zap.Uint32("message_id", messageID), zap.Error(err))
		return
	}
	if env.TransMsgID == "" {
		w.logger.Warn("report ack without transMsgId, ignored",
			zap.Uint32("message_id", messageID))
		return
	}

	row, err := w.store.GetReportTransmitByCorrelation(ctx, env.TransMsgID, int32(env.TransMsgSeq))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			w.logger.Warn("report ack matched no attempt, ignored",
				zap.String("outbound_id", env.TransMsgID),
				zap.Int("report_sequence", env.TransMsgSeq))
			return
		}
		w.logger.Error("report ack lookup failed",
			zap.String("outbound_id", env.TransMsgID), zap.Error(err))
		return
	}

	w.cancelTimer(row.ID)

	if env.ResultCode == "200" {
		w.finish(ctx, row.ID, model.StatusSuccess, "")
		w.logger.Info("report acknowledged",
			zap.Int64("id", row.ID),
			zap.String("outbound_id", row.OutboundID))
		return
	}

	result := ""
	if env.Result != nil {
		result = env.Result.Value
	}
	w.finish(ctx, row.ID, model.StatusPending,
		fmt.Sprintf("resultCode=%s result=%s", env.ResultCode, result))
	w.logger.Warn("report rejected, queued for retry",
		zap.Int64("id", row.ID),
		zap.String("outbound_id", row.OutboundID),
		zap.String("result_code", env.ResultCode))
}

// Shutdown cancels all pending ACK timers. Rows left in SENT are re-driven
// by the stale-SENT predicate after restart.
func (w *ReportTransmitter) Shutdown() {
	w.mu.Lock()
	defer w.mu.Unlock()
	for id, t := range w.timers {
		t.Stop()
		delete(w.timers, id)
	}
}

func (w *ReportTransmitter) armTimer(id int64) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if t, ok := w.timers[id]; ok {
		t.Stop()
	}
	w.timers[id] = time.AfterFunc(w.xmitTimeout, func() {
		w.onAckTimeout(id)
	})
}

func (w *ReportTransmitter) cancelTimer(id int64) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if t, ok := w.timers[id]; ok {
		t.Stop()
		delete(w.timers, id)
	}
}

func (w *ReportTransmitter) onAckTimeout(id int64) {
	w.mu.Lock()
	delete(w.timers, id)
	w.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	w.finish(ctx, id, model.StatusPending, "ACK timeout")
	w.logger.Warn("report ack timed out, queued for retry", zap.Int64("id", id))
}

// finish transitions a row; terminal rows are left untouched by the guarded
// update, which makes late ACKs and timer races harmless.
func (w *ReportTransmitter) finish(ctx context.Context, id int64, status model.Status, detail string) {
	if err := w.store.MarkReportTransmitResult(ctx, id, status, detail); err != nil {
		w.logger.Error("report status update failed",
			zap.Int64("id", id), zap.Error(err))
	}
}
