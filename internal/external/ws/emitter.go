package ws

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/bonghwa-lab/bonghwa-gateway/internal/external/repository"
	"github.com/bonghwa-lab/bonghwa-gateway/internal/model"
)

// Emitter pushes WS outbox rows to subscriber sockets and settles them from
// the ACK/NACK verdicts or the ACK timer, whichever comes first.
type Emitter struct {
	store       repository.Store
	manager     *SessionManager
	xmitTimeout time.Duration
	maxRetries  int32
	logger      *zap.Logger
	now         func() time.Time

	mu     sync.Mutex
	timers map[int64]*time.Timer
}

var _ Acker = (*Emitter)(nil)

// NewEmitter creates the emitter and registers it as the manager's verdict
// consumer.
func NewEmitter(store repository.Store, manager *SessionManager, xmitTimeout time.Duration, maxRetries int, logger *zap.Logger) *Emitter {
	e := &Emitter{
		store:       store,
		manager:     manager,
		xmitTimeout: xmitTimeout,
		maxRetries:  int32(maxRetries),
		logger:      logger,
		now:         time.Now,
		timers:      make(map[int64]*time.Timer),
	}
	manager.SetAcker(e)
	return e
}

// Dispatch attempts delivery of one outbox row. An offline subscriber parks
// the row in PENDING without consuming retry budget.
func (e *Emitter) Dispatch(ctx context.Context, row repository.DisasterTransmitLog) {
	sess, online := e.manager.Get(row.ExternalSystemID)
	if !online {
		if row.Status == model.StatusSent {
			e.finish(ctx, row.ID, model.StatusPending, "subscriber offline")
		}
		return
	}

	// Any trace of a prior attempt means this pass is a retry.
	if row.Status == model.StatusSent || row.ErrorDetail != "" || row.RetryCount > 0 {
		retries, err := e.store.BumpDisasterTransmitRetry(ctx, row.ID)
		if err != nil {
			e.logger.Error("transmit retry bump failed",
				zap.Int64("id", row.ID), zap.Error(err))
			return
		}
		if retries > e.maxRetries {
			e.cancelTimer(row.ID)
			e.finish(ctx, row.ID, model.StatusFailed, "retry limit exceeded")
			e.logger.Warn("alert delivery abandoned",
				zap.Int64("id", row.ID),
				zap.String("identifier", row.Identifier),
				zap.Int32("retries", retries))
			return
		}
	}

	event, err := json.Marshal(DisasterEvent{
		Type:       "disaster",
		LogID:      row.ID,
		Identifier: row.Identifier,
		EventCode:  row.EventCode,
		RawMessage: row.RawMessage,
	})
	if err != nil {
		e.finish(ctx, row.ID, model.StatusFailed, "event marshal: "+err.Error())
		return
	}

	if err := e.store.MarkDisasterTransmitSent(ctx, row.ID); err != nil {
		e.logger.Error("transmit sent-mark failed",
			zap.Int64("id", row.ID), zap.Error(err))
		return
	}
	if err := sess.Send(event); err != nil {
		e.finish(ctx, row.ID, model.StatusPending, "send failed: "+err.Error())
		e.logger.Warn("alert push failed, queued for retry",
			zap.Int64("id", row.ID), zap.Error(err))
		return
	}

	e.armTimer(row.ID)
	e.logger.Info("alert pushed",
		zap.Int64("id", row.ID),
		zap.String("identifier", row.Identifier),
		zap.Int64("system_id", row.ExternalSystemID))
}

// OnDeliveryVerdict settles a dispatched row from the subscriber's reply.
func (e *Emitter) OnDeliveryVerdict(ctx context.Context, logID int64, ok bool) {
	e.cancelTimer(logID)

	if ok {
		e.finish(ctx, logID, model.StatusSuccess, "")
		e.logger.Info("alert acknowledged", zap.Int64("id", logID))
		return
	}
	e.finish(ctx, logID, model.StatusPending, "subscriber nack")
	e.logger.Warn("alert nacked, queued for retry", zap.Int64("id", logID))
}

// Shutdown cancels all pending ACK timers. SENT rows are re-driven by the
// stale-SENT predicate after restart.
func (e *Emitter) Shutdown() {
	e.mu.Lock()
	defer e.mu.Unlock()
	for id, t := range e.timers {
		t.Stop()
		delete(e.timers, id)
	}
}

func (e *Emitter) armTimer(id int64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if t, ok := e.timers[id]; ok {
		t.Stop()
	}
	e.timers[id] = time.AfterFunc(e.xmitTimeout, func() {
		e.onAckTimeout(id)
	})
}

func (e *Emitter) cancelTimer(id int64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if t, ok := e.timers[id]; ok {
		t.Stop()
		delete(e.timers, id)
	}
}

func (e *Emitter) onAckTimeout(id int64) {
	e.mu.Lock()
	delete(e.timers, id)
	e.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	e.finish(ctx, id, model.StatusPending, "ACK timeout")
	e.logger.Warn("alert ack timed out, queued for retry", zap.Int64("id", id))
}

func (e *Emitter) finish(ctx context.Context, id int64, status model.Status, detail string) {
	if err := e.store.MarkDisasterTransmitResult(ctx, id, status, detail); err != nil {
		e.logger.Error("transmit status update failed",
			zap.Int64("id", id), zap.Error(err))
	}
}
