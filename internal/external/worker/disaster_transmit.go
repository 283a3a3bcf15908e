package worker

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/bonghwa-lab/bonghwa-gateway/internal/external/repository"
	"github.com/bonghwa-lab/bonghwa-gateway/internal/external/ws"
)

// DisasterTransmitter feeds dispatchable WS outbox rows to the emitter.
// Retry pacing, the offline check, and the terminal transitions all live in
// the emitter; the worker only decides what is due.
type DisasterTransmitter struct {
	store       repository.Querier
	emitter     *ws.Emitter
	xmitTimeout time.Duration
	batchSize   int32
	logger      *zap.Logger
	now         func() time.Time
}

// NewDisasterTransmitter creates the worker.
func NewDisasterTransmitter(store repository.Querier, emitter *ws.Emitter, xmitTimeout time.Duration, logger *zap.Logger) *DisasterTransmitter {
	return &DisasterTransmitter{
		store:       store,
		emitter:     emitter,
		xmitTimeout: xmitTimeout,
		batchSize:   100,
		logger:      logger,
		now:         time.Now,
	}
}

// Run executes one poll cycle.
func (w *DisasterTransmitter) Run(ctx context.Context) {
	staleBefore := w.now().Add(-w.xmitTimeout)
	rows, err := w.store.ListDispatchableDisasterTransmit(ctx, staleBefore, w.batchSize)
	if err != nil {
		w.logger.Error("list dispatchable alerts failed", zap.Error(err))
		return
	}
	for _, row := range rows {
		w.emitter.Dispatch(ctx, row)
	}
}
