package worker

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/bonghwa-lab/bonghwa-gateway/internal/central/handler"
	"github.com/bonghwa-lab/bonghwa-gateway/internal/central/repository"
	"github.com/bonghwa-lab/bonghwa-gateway/internal/model"
)

// publishGate bounds concurrent broker publishes per poll cycle.
const publishGate = 5

// Publisher is the broker publish surface the worker needs.
type Publisher interface {
	Publish(ctx context.Context, exchange, key string, body []byte) error
}

// DisasterPublisher drains PENDING disaster_publish_logs rows to the broker.
// A row reaches SUCCESS only after the broker confirms the publish, so a
// crash between insert and publish re-drives the row on the next poll.
type DisasterPublisher struct {
	store      repository.Querier
	broker     Publisher
	exchange   string
	batchSize  int32
	maxRetries int32
	logger     *zap.Logger
}

// NewDisasterPublisher creates the worker.
func NewDisasterPublisher(store repository.Querier, broker Publisher, exchange string, maxRetries int, logger *zap.Logger) *DisasterPublisher {
	return &DisasterPublisher{
		store:      store,
		broker:     broker,
		exchange:   exchange,
		batchSize:  100,
		maxRetries: int32(maxRetries),
		logger:     logger,
	}
}

// Run executes one poll cycle.
func (w *DisasterPublisher) Run(ctx context.Context) {
	rows, err := w.store.ListPendingDisasterPublish(ctx, w.batchSize)
	if err != nil {
		w.logger.Error("list pending disaster publishes failed", zap.Error(err))
		return
	}

	var wg sync.WaitGroup
	gate := make(chan struct{}, publishGate)
	for _, row := range rows {
		wg.Add(1)
		gate <- struct{}{}
		go func(row repository.DisasterPublishLog) {
			defer wg.Done()
			defer func() { <-gate }()
			w.publishOne(ctx, row)
		}(row)
	}
	wg.Wait()
}

func (w *DisasterPublisher) publishOne(ctx context.Context, row repository.DisasterPublishLog) {
	body, err := handler.MarshalDisasterPayload(row.Identifier, row.EventCode, row.RawMessage)
	if err != nil {
		w.logger.Error("disaster payload marshal failed",
			zap.Int64("id", row.ID), zap.Error(err))
		w.fail(ctx, row)
		return
	}

	if err := w.broker.Publish(ctx, w.exchange, row.RoutingKey, body); err != nil {
		w.logger.Error("disaster publish failed",
			zap.Int64("id", row.ID),
			zap.String("routing_key", row.RoutingKey),
			zap.Error(err))
		w.fail(ctx, row)
		return
	}

	if err := w.store.MarkDisasterPublishStatus(ctx, row.ID, model.StatusSuccess); err != nil {
		w.logger.Error("disaster publish status update failed",
			zap.Int64("id", row.ID), zap.Error(err))
		return
	}
	w.logger.Info("disaster alert published",
		zap.Int64("id", row.ID),
		zap.String("identifier", row.Identifier),
		zap.String("routing_key", row.RoutingKey))
}

func (w *DisasterPublisher) fail(ctx context.Context, row repository.DisasterPublishLog) {
	retries, err := w.store.BumpDisasterPublishRetry(ctx, row.ID)
	if err != nil {
		w.logger.Error("disaster publish retry bump failed",
			zap.Int64("id", row.ID), zap.Error(err))
		return
	}
	if retries > w.maxRetries {
		if err := w.store.MarkDisasterPublishStatus(ctx, row.ID, model.StatusFailed); err != nil {
			w.logger.Error("disaster publish status update failed",
				zap.Int64("id", row.ID), zap.Error(err))
			return
		}
		w.logger.Warn("disaster publish abandoned",
			zap.Int64("id", row.ID),
			zap.String("identifier", row.Identifier),
			zap.Int32("retries", retries))
	}
}
