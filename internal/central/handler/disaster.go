// Package handler implements the inbound disaster-alert pipeline: CAP
// validation, inbox dedup, the transactional publish-outbox write, and the
// typed ACK/NACK reply to CAS.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/bonghwa-lab/bonghwa-gateway/internal/central/eventcode"
	"github.com/bonghwa-lab/bonghwa-gateway/internal/central/protocol"
	"github.com/bonghwa-lab/bonghwa-gateway/internal/central/repository"
	"github.com/bonghwa-lab/bonghwa-gateway/internal/model"
	"github.com/bonghwa-lab/bonghwa-gateway/pkg/capxml"
)

// Sender is the slice of the CAS session the handler needs to reply.
type Sender interface {
	SendEnvelope(messageID uint32, env *capxml.Envelope) error
}

// DisasterPayload is the broker message published for each accepted alert.
type DisasterPayload struct {
	Identifier string `json:"identifier"`
	EventCode  string `json:"eventCode"`
	RawMessage string `json:"rawMessage"`
}

// DisasterHandler processes ETS_NFY_DIS_INFO bodies.
type DisasterHandler struct {
	store    repository.Store
	sender   Sender
	senderID string // central-service id, the <sender> of ACK alerts
	logger   *zap.Logger
	tracer   trace.Tracer
	now      func() time.Time
}

// NewDisasterHandler creates the handler.
func NewDisasterHandler(store repository.Store, sender Sender, senderID string, logger *zap.Logger) *DisasterHandler {
	return &DisasterHandler{
		store:    store,
		sender:   sender,
		senderID: senderID,
		logger:   logger,
		tracer:   otel.Tracer("central-disaster-handler"),
		now:      time.Now,
	}
}

// OnDisasterNotify runs the pipeline for one notify body. Per-message
// failures never tear down the session; every outcome is answered with a
// typed ETS_CNF_DIS_INFO.
func (h *DisasterHandler) OnDisasterNotify(ctx context.Context, body []byte) {
	ctx, span := h.tracer.Start(ctx, "disaster.notify")
	defer span.End()

	env, perr := parseNotify(body)
	if perr != nil {
		// The envelope could not be decoded; NACK with whatever correlation
		// fields survived parsing.
		h.logger.Error("disaster notify parse failed", zap.Error(perr))
		h.sendNack(nil, envOrEmpty(env), perr)
		return
	}
	alert := env.CapInfo.Alert

	exists, err := h.store.TCPReceiveLogExists(ctx, env.TransMsgID, int32(env.TransMsgSeq))
	if err != nil {
		h.logger.Error("inbox dedup check failed", zap.Error(err))
		h.sendNack(alert, env, errInternal(err))
		return
	}
	if exists {
		h.logger.Warn("duplicate disaster notify",
			zap.String("inbound_id", env.TransMsgID),
			zap.Int("inbound_seq", env.TransMsgSeq),
		)
		h.sendNack(alert, env, errDuplicate())
		return
	}

	logID, err := h.store.InsertTCPReceiveLog(ctx, env.TransMsgID, int32(env.TransMsgSeq), string(body))
	if err != nil {
		h.logger.Error("inbox insert failed", zap.Error(err))
		h.sendNack(alert, env, errInternal(err))
		return
	}

	txErr := h.store.WithinTx(ctx, func(q repository.Querier) error {
		if perr := validateAlert(alert); perr != nil {
			return perr
		}

		code := alert.EventCodeValue()
		if !eventcode.IsValid(code) {
			return errProfile(code)
		}

		// ON CONFLICT(identifier) DO NOTHING collapses duplicate alerts that
		// passed the inbox dedup (same identifier, different transMsgId).
		if _, err := q.InsertDisasterPublishLog(ctx, logID,
			"disaster."+code, alert.Identifier, code, string(body)); err != nil {
			return errInternal(err)
		}

		return q.UpdateTCPReceiveLogStatus(ctx, logID, model.StatusSuccess, "")
	})

	if txErr != nil {
		perr := asPipelineError(txErr)
		h.logger.Error("disaster pipeline failed",
			zap.String("identifier", alert.Identifier),
			zap.String("note", perr.NoteCode),
			zap.Error(txErr),
		)
		// Best-effort, outside the rolled-back transaction.
		if err := h.store.UpdateTCPReceiveLogStatus(ctx, logID, model.StatusFailed, perr.Error()); err != nil {
			h.logger.Error("inbox failure mark failed", zap.Error(err))
		}
		h.sendNack(alert, env, perr)
		return
	}

	h.logger.Info("disaster alert accepted",
		zap.String("identifier", alert.Identifier),
		zap.String("event_code", alert.EventCodeValue()),
	)
	h.sendAck(alert, env)
}

func parseNotify(body []byte) (*capxml.Envelope, *PipelineError) {
	env, err := capxml.ParseEnvelope(body)
	if err != nil {
		return nil, errParsing(err)
	}
	if env.TransMsgID == "" || env.TransMsgSeq == 0 {
		return env, errParsing(errors.New("missing transMsgId or transMsgSeq"))
	}
	if env.CapInfo == nil || env.CapInfo.Alert == nil {
		return env, errParsing(errors.New("missing capInfo.alert"))
	}
	return env, nil
}

func validateAlert(a *capxml.Alert) *PipelineError {
	switch {
	case a.Identifier == "":
		return errValidation("alert.identifier")
	case a.Sender == "":
		return errValidation("alert.sender")
	case a.Sent == "":
		return errValidation("alert.sent")
	case a.EventCodeValue() == "":
		return errValidation("alert.info.eventCode.value")
	}
	return nil
}

func asPipelineError(err error) *PipelineError {
	var perr *PipelineError
	if errors.As(err, &perr) {
		return perr
	}
	return errInternal(err)
}

func envOrEmpty(env *capxml.Envelope) *capxml.Envelope {
	if env == nil {
		return &capxml.Envelope{}
	}
	return env
}

func (h *DisasterHandler) sendAck(alert *capxml.Alert, env *capxml.Envelope) {
	reply := &capxml.Envelope{
		ResultCode:  "200",
		Result:      &capxml.Text{Value: "OK"},
		TransMsgID:  env.TransMsgID,
		TransMsgSeq: env.TransMsgSeq,
		CapInfo: &capxml.CapInfo{
			Alert: capxml.AckAlert(alert, h.senderID, h.now(), NoteOK, "OK"),
		},
	}
	if err := h.sender.SendEnvelope(protocol.MsgCnfDisInfo, reply); err != nil {
		h.logger.Error("disaster ack send failed", zap.Error(err))
	}
}

func (h *DisasterHandler) sendNack(alert *capxml.Alert, env *capxml.Envelope, perr *PipelineError) {
	reply := &capxml.Envelope{
		ResultCode:  perr.ResultCode,
		Result:      &capxml.Text{Value: perr.NoteMessage},
		TransMsgID:  env.TransMsgID,
		TransMsgSeq: env.TransMsgSeq,
	}
	if alert != nil {
		reply.CapInfo = &capxml.CapInfo{
			Alert: capxml.AckAlert(alert, h.senderID, h.now(), perr.NoteCode, perr.NoteMessage),
		}
	}
	if err := h.sender.SendEnvelope(protocol.MsgCnfDisInfo, reply); err != nil {
		h.logger.Error("disaster nack send failed", zap.Error(err))
	}
}

// MarshalDisasterPayload renders the broker payload for an accepted alert.
func MarshalDisasterPayload(identifier, eventCode, rawMessage string) ([]byte, error) {
	return json.Marshal(DisasterPayload{
		Identifier: identifier,
		EventCode:  eventCode,
		RawMessage: rawMessage,
	})
}
