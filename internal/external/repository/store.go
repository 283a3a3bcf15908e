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
	GetExternalSystemByCredentials(ctx context.Context, name, apiKey string) (ExternalSystem, error)
	ListActiveSystemsByEventCode(ctx context.Context, eventCode string) ([]ExternalSystem, error)

	UpsertDevice(ctx context.Context, externalSystemID int64, deviceID, deviceInfo string) error
	InsertDeviceStatusLog(ctx context.Context, externalSystemID int64, deviceID, statusPayload string) error

	InsertAPIReceiveLog(ctx context.Context, externalSystemID int64, endpoint, rawMessage string) (int64, error)
	UpdateAPIReceiveLogStatus(ctx context.Context, id int64, status model.Status, errorMessage string) error

	InsertReportPublishLog(ctx context.Context, apiReceiveLogID int64, reportType model.ReportType, identifier, externalSystemName, rawMessage string) (int64, error)
	ListPendingReportPublish(ctx context.Context, limit int32) ([]ReportPublishLog, error)
	MarkReportPublishStatus(ctx context.Context, id int64, status model.Status) error
	BumpReportPublishRetry(ctx context.Context, id int64) (int32, error)

	InsertMQReceiveLog(ctx context.Context, rawMessage string) (int64, error)
	UpdateMQReceiveLogStatus(ctx context.Context, id int64, status model.Status, errorMessage string) error

	InsertDisasterTransmitLog(ctx context.Context, mqReceiveLogID, externalSystemID int64, identifier, eventCode, rawMessage string) (bool, error)
	ListDispatchableDisasterTransmit(ctx context.Context, staleBefore time.Time, limit int32) ([]DisasterTransmitLog, error)
	GetDisasterTransmitLog(ctx context.Context, id int64) (DisasterTransmitLog, error)
	TransmitIdentifierExists(ctx context.Context, externalSystemID int64, identifier string) (bool, error)
	MarkDisasterTransmitSent(ctx context.Context, id int64) error
	MarkDisasterTransmitResult(ctx context.Context, id int64, status model.Status, errorDetail string) error
	BumpDisasterTransmitRetry(ctx context.Context, id int64) (int32, error)

	InsertConnectionLog(ctx context.Context, externalSystemID int64, event, detail string) error
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

// WithinTx runs fn inside a dedicated transaction, with COMMIT or ROLLBACK on
// every exit path before the connection returns to the pool.
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
