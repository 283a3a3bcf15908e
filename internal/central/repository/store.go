package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bonghwa-lab/bonghwa-gateway/internal/model"
)

//go:generate mockgen -source=store.go -destination=mock/store.go -package=mock

// Querier is the query surface consumed by handlers, consumers, and workers.
type Querier interface {
	InsertTCPReceiveLog(ctx context.Context, inboundID string, inboundSeq int32, rawMessage string) (int64, error)
	TCPReceiveLogExists(ctx context.Context, inboundID string, inboundSeq int32) (bool, error)
	UpdateTCPReceiveLogStatus(ctx context.Context, id int64, status model.Status, errorMessage string) error

	InsertDisasterPublishLog(ctx context.Context, tcpReceiveLogID int64, routingKey, identifier, eventCode, rawMessage string) (bool, error)
	ListPendingDisasterPublish(ctx context.Context, limit int32) ([]DisasterPublishLog, error)
	GetDisasterPublishByIdentifier(ctx context.Context, identifier string) (DisasterPublishLog, error)
	MarkDisasterPublishStatus(ctx context.Context, id int64, status model.Status) error
	BumpDisasterPublishRetry(ctx context.Context, id int64) (int32, error)

	InsertMQReceiveLog(ctx context.Context, rawMessage string) (int64, error)
	UpdateMQReceiveLogStatus(ctx context.Context, id int64, status model.Status, errorMessage string) error

	InsertReportTransmitLog(ctx context.Context, mqReceiveLogID int64, reportType model.ReportType, outboundID, externalSystemName, rawMessage string) (int64, error)
	ListDispatchableReportTransmit(ctx context.Context, staleBefore time.Time, limit int32) ([]ReportTransmitLog, error)
	GetReportTransmitLog(ctx context.Context, id int64) (ReportTransmitLog, error)
	GetReportTransmitByCorrelation(ctx context.Context, outboundID string, reportSequence int32) (ReportTransmitLog, error)
	BumpReportTransmitRetry(ctx context.Context, id int64) (ReportTransmitLog, error)
	MarkReportTransmitSent(ctx context.Context, id int64) error
	MarkReportTransmitResult(ctx context.Context, id int64, status model.Status, errorDetail string) error
}

// Store is Querier plus transaction scoping.
type Store interface {
	Querier
	WithinTx(ctx context.Context, fn func(q Querier) error) error
}

// SQLStore implements Store over a pgx pool.
type SQLStore struct {
	*Queries
	pool *pgxpool.Pool
}

var _ Store = (*SQLStore)(nil)

// NewStore creates the SQLStore.
func NewStore(pool *pgxpool.Pool) *SQLStore {
	return &SQLStore{Queries: New(pool), pool: pool}
}

// WithinTx runs fn inside a dedicated transaction. The connection is acquired
// from the pool, and COMMIT or ROLLBACK runs on every exit path, panics
// included, before the connection returns to the pool.
func (s *SQLStore) WithinTx(ctx context.Context, fn func(q Querier) error) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := fn(New(tx)); err != nil {
		return err
	}
	return tx.Commit(ctx)
}
