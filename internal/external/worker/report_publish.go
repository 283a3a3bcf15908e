package worker

import (
	"context"
	"encoding/json"
	"sync"

	"go.uber.org/zap"

	"github.com/bonghwa-lab/bonghwa-gateway/internal/external/repository"
	"github.com/bonghwa-lab/bonghwa-gateway/internal/model"
)

// publishGate bounds concurrent broker publishes per poll cycle.
const publishGate = 5

// Publisher is the broker publish surface the worker needs.
type Publisher interface {
	Publish(ctx context.Context, exchange, key string, body []byte) error
}

// reportMessage is the broker payload for one subscriber report, consumed by
// the central-service.
type reportMessage struct {
	Type               string `json:"type"`
	ExternalSystemName string `json:"externalSystemName"`
	Identifier         string `json:"identifier,omitempty"`
	RawMessage         string `json:"rawMessage"`
}

// ReportPublisher drains PENDING report_publish_logs rows to the broker.
type ReportPublisher struct {
	store      repository.Querier
	broker     Publisher
	exchange   string
	routingKey string
	batchSize  int32
	maxRetries int32
	logger     *zap.Logger
}

// NewReportPublisher creates the worker.
func NewReportPublisher(store repository.Querier, broker Publisher, exchange, routingKey string, maxRetries int, logger *zap.Logger) *ReportPublisher {
	return &ReportPublisher{
		store:      store,
		broker:     broker,
		exchange:   exchange,
		routingKey: routingKey,
		batchSize:  100,
		maxRetries: int32(maxRetries),
		logger:     logger,
	}
}

// Run executes one poll cycle.
func (w *ReportPublisher) Run(ctx context.Context) {
	rows, err := w.store.ListPendingReportPublish(ctx, w.batchSize)
	if err != nil {
		w.logger.Error("list pending report publishes failed", zap.Error(err))
		return
	}
	var wg sync.WaitGroup
	gate := make(chan struct{}, publishGate)
	for _, row := range rows {
		wg.Add(1)
		gate <- struct{}{}
		go func(row repository.ReportPublishLog) {
			defer wg.Done()
			defer func() { <-gate }()
			w.publishOne(ctx, row)
		}(row)
	}
	wg.Wait()
}

func (w *ReportPublisher) publishOne(ctx context.Context, row repository.ReportPublishLog) {
	body, err := json.Marshal(reportMessage{
		Type:               string(row.Type),
		ExternalSystemName: row.ExternalSystemName,
		Identifier:         row.Identifier,
		RawMessage:         row.RawMessage,
	})
	if err != nil {
		w.logger.Error("report payload marshal failed",
			zap.Int64("id", row.ID), zap.Error(err))
		w.fail(ctx, row)
		return
	}

	if err := w.broker.Publish(ctx, w.exchange, w.routingKey, body); err != nil {
		w.logger.Error("report publish failed",
			zap.Int64("id", row.ID), zap.Error(err))
		w.fail(ctx, row)
		return
	}

	if err := w.store.MarkReportPublishStatus(ctx, row.ID, model.StatusSuccess); err != nil {
		w.logger.Error("report publish status update failed",
			zap.Int64("id", row.ID), zap.Error(err))
		return
	}
	w.logger.Info("report published",
		zap.Int64("id", row.ID),
		zap.String("type", string(row.Type)),
		zap.String("system_name", row.ExternalSystemName))
}

func (w *ReportPublisher) fail(ctx context.Context, row repository.ReportPublishLog) {
	retries, err := w.store.BumpReportPublishRetry(ctx, row.ID)
	if err != nil {
		w.logger.Error("report publish retry bump failed",
			zap.Int64("id", row.ID), zap.Error(err))
		return
	}
	if retries > w.maxRetries {
		if err := w.store.MarkReportPublishStatus(ctx, row.ID, model.StatusFailed); err != nil {
			w.logger.Error("report publish status update failed",
				zap.Int64("id", row.ID), zap.Error(err))
			return
		}
		w.logger.Warn("report publish abandoned",
			zap.Int64("id", row.ID),
			zap.Int32("retries", retries))
	}
}
