package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/bonghwa-lab/bonghwa-gateway/internal/model"
)

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("repository: not found")

// DBTX is satisfied by *pgxpool.Pool and pgx.Tx.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Queries bundles the external-service statements over one DBTX.
type Queries struct {
	db DBTX
}

// New creates Queries over the given handle.
func New(db DBTX) *Queries {
	return &Queries{db: db}
}

// ── external_systems ────────────────────────────────────────────────────────

// GetExternalSystemByCredentials authenticates an active subscriber by
// (name, api key).
func (q *Queries) GetExternalSystemByCredentials(ctx context.Context, name, apiKey string) (ExternalSystem, error) {
	row := q.db.QueryRow(ctx, `
		SELECT id, name, api_key, subscribed_event_codes, active, created_at
		FROM external_systems
		WHERE name = $1 AND api_key = $2 AND active`,
		name, apiKey,
	)
	s, err := scanExternalSystem(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return s, ErrNotFound
	}
	return s, err
}

// ListActiveSystemsByEventCode returns the active subscribers whose
// subscription covers the given event code.
func (q *Queries) ListActiveSystemsByEventCode(ctx context.Context, eventCode string) ([]ExternalSystem, error) {
	rows, err := q.db.Query(ctx, `
		SELECT id, name, api_key, subscribed_event_codes, active, created_at
		FROM external_systems
		WHERE active AND $1 = ANY (subscribed_event_codes)`,
		eventCode,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ExternalSystem
	for rows.Next() {
		s, err := scanExternalSystem(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// ── devices / device_status_logs ────────────────────────────────────────────

// UpsertDevice inserts or refreshes a device record per (system, device id).
func (q *Queries) UpsertDevice(ctx context.Context, externalSystemID int64, deviceID, deviceInfo string) error {
	_, err := q.db.Exec(ctx, `
		INSERT INTO devices (external_system_id, device_id, device_info)
		VALUES ($1, $2, $3)
		ON CONFLICT (external_system_id, device_id)
		DO UPDATE SET device_info = EXCLUDED.device_info, updated_at = now()`,
		externalSystemID, deviceID, deviceInfo,
	)
	return err
}

// InsertDeviceStatusLog appends one device-status snapshot entry.
func (q *Queries) InsertDeviceStatusLog(ctx context.Context, externalSystemID int64, deviceID, statusPayload string) error {
	_, err := q.db.Exec(ctx, `
		INSERT INTO device_status_logs (external_system_id, device_id, status_payload)
		VALUES ($1, $2, $3)`,
		externalSystemID, deviceID, statusPayload,
	)
	return err
}

// ── api_receive_logs ────────────────────────────────────────────────────────

// InsertAPIReceiveLog appends an HTTP inbox row in PENDING.
func (q *Queries) InsertAPIReceiveLog(ctx context.Context, externalSystemID int64, endpoint, rawMessage string) (int64, error) {
	var id int64
	err := q.db.QueryRow(ctx, `
		INSERT INTO api_receive_logs (external_system_id, endpoint, raw_message, status)
		VALUES ($1, $2, $3, 'PENDING')
		RETURNING id`,
		externalSystemID, endpoint, rawMessage,
	).Scan(&id)
	return id, err
}

// UpdateAPIReceiveLogStatus transitions an HTTP inbox row.
func (q *Queries) UpdateAPIReceiveLogStatus(ctx context.Context, id int64, status model.Status, errorMessage string) error {
	_, err := q.db.Exec(ctx, `
		UPDATE api_receive_logs
		SET status = $2, error_message = NULLIF($3, ''), updated_at = now()
		WHERE id = $1`,
		id, status, errorMessage,
	)
	return err
}

// ── report_publish_logs ─────────────────────────────────────────────────────

// InsertReportPublishLog appends a broker outbox row in PENDING.
func (q *Queries) InsertReportPublishLog(ctx context.Context, apiReceiveLogID int64, reportType model.ReportType, identifier, externalSystemName, rawMessage string) (int64, error) {
	var id int64
	err := q.db.QueryRow(ctx, `
		INSERT INTO report_publish_logs
			(api_receive_log_id, type, identifier, external_system_name, raw_message, status)
		VALUES ($1, $2, NULLIF($3, ''), $4, $5, 'PENDING')
		RETURNING id`,
		apiReceiveLogID, reportType, identifier, externalSystemName, rawMessage,
	).Scan(&id)
	return id, err
}

// ListPendingReportPublish returns a bounded batch of PENDING rows, oldest
// first.
func (q *Queries) ListPendingReportPublish(ctx context.Context, limit int32) ([]ReportPublishLog, error) {
	rows, err := q.db.Query(ctx, `
		SELECT id, api_receive_log_id, type, COALESCE(identifier, ''),
		       external_system_name, raw_message, status, retry_count,
		       created_at, updated_at
		FROM report_publish_logs
		WHERE status = 'PENDING'
		ORDER BY created_at ASC
		LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ReportPublishLog
	for rows.Next() {
		var l ReportPublishLog
		if err := rows.Scan(&l.ID, &l.APIReceiveLogID, &l.Type, &l.Identifier,
			&l.ExternalSystemName, &l.RawMessage, &l.Status, &l.RetryCount,
			&l.CreatedAt, &l.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

// MarkReportPublishStatus transitions an outbox row.
func (q *Queries) MarkReportPublishStatus(ctx context.Context, id int64, status model.Status) error {
	_, err := q.db.Exec(ctx, `
		UPDATE report_publish_logs SET status = $2, updated_at = now() WHERE id = $1`,
		id, status,
	)
	return err
}

// BumpReportPublishRetry increments retry_count and returns the new value.
func (q *Queries) BumpReportPublishRetry(ctx context.Context, id int64) (int32, error) {
	var n int32
	err := q.db.QueryRow(ctx, `
		UPDATE report_publish_logs
		SET retry_count = retry_count + 1, updated_at = now()
		WHERE id = $1
		RETURNING retry_count`,
		id,
	).Scan(&n)
	return n, err
}

// ── mq_receive_logs ─────────────────────────────────────────────────────────

// InsertMQReceiveLog appends a broker inbox row in PENDING.
func (q *Queries) InsertMQReceiveLog(ctx context.Context, rawMessage string) (int64, error) {
	var id int64
	err := q.db.QueryRow(ctx, `
		INSERT INTO mq_receive_logs (raw_message, status)
		VALUES ($1, 'PENDING')
		RETURNING id`,
		rawMessage,
	).Scan(&id)
	return id, err
}

// UpdateMQReceiveLogStatus transitions a broker inbox row.
func (q *Queries) UpdateMQReceiveLogStatus(ctx context.Context, id int64, status model.Status, errorMessage string) error {
	_, err := q.db.Exec(ctx, `
		UPDATE mq_receive_logs
		SET status = $2, error_message = NULLIF($3, ''), updated_at = now()
		WHERE id = $1`,
		id, status, errorMessage,
	)
	return err
}

// ── disaster_transmit_logs ──────────────────────────────────────────────────

// InsertDisasterTransmitLog appends a WS outbox row for one subscriber.
// ON CONFLICT collapses redelivered alerts; the bool reports whether a row
// was actually inserted.
func (q *Queries) InsertDisasterTransmitLog(ctx context.Context, mqReceiveLogID, externalSystemID int64, identifier, eventCode, rawMessage string) (bool, error) {
	tag, err := q.db.Exec(ctx, `
		INSERT INTO disaster_transmit_logs
			(mq_receive_log_id, external_system_id, identifier, event_code, raw_message, status)
		VALUES ($1, $2, $3, $4, $5, 'PENDING')
		ON CONFLICT (external_system_id, identifier) DO NOTHING`,
		mqReceiveLogID, externalSystemID, identifier, eventCode, rawMessage,
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// ListDispatchableDisasterTransmit returns PENDING rows plus SENT rows whose
// ACK window elapsed, oldest first.
func (q *Queries) ListDispatchableDisasterTransmit(ctx context.Context, staleBefore time.Time, limit int32) ([]DisasterTransmitLog, error) {
	rows, err := q.db.Query(ctx, `
		SELECT id, mq_receive_log_id, external_system_id, identifier, event_code,
		       raw_message, status, retry_count, COALESCE(error_detail, ''),
		       created_at, updated_at
		FROM disaster_transmit_logs
		WHERE status = 'PENDING' OR (status = 'SENT' AND updated_at < $1)
		ORDER BY created_at ASC
		LIMIT $2`,
		staleBefore, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []DisasterTransmitLog
	for rows.Next() {
		l, err := scanDisasterTransmitLog(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

// GetDisasterTransmitLog fetches one WS outbox row.
func (q *Queries) GetDisasterTransmitLog(ctx context.Context, id int64) (DisasterTransmitLog, error) {
	row := q.db.QueryRow(ctx, `
		SELECT id, mq_receive_log_id, external_system_id, identifier, event_code,
		       raw_message, status, retry_count, COALESCE(error_detail, ''),
		       created_at, updated_at
		FROM disaster_transmit_logs
		WHERE id = $1`,
		id,
	)
	l, err := scanDisasterTransmitLog(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return l, ErrNotFound
	}
	return l, err
}

// TransmitIdentifierExists reports whether the subscriber was delivered (or
// is owed) the alert, which gates DISASTER_RESULT reports.
func (q *Queries) TransmitIdentifierExists(ctx context.Context, externalSystemID int64, identifier string) (bool, error) {
	var exists bool
	err := q.db.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM disaster_transmit_logs
			WHERE external_system_id = $1 AND identifier = $2
		)`,
		externalSystemID, identifier,
	).Scan(&exists)
	return exists, err
}

// MarkDisasterTransmitSent flips a row to SENT and refreshes updated_at.
func (q *Queries) MarkDisasterTransmitSent(ctx context.Context, id int64) error {
	_, err := q.db.Exec(ctx, `
		UPDATE disaster_transmit_logs SET status = 'SENT', updated_at = now() WHERE id = $1`,
		id,
	)
	return err
}

// MarkDisasterTransmitResult transitions a row, guarded so terminal rows
// never move again.
func (q *Queries) MarkDisasterTransmitResult(ctx context.Context, id int64, status model.Status, errorDetail string) error {
	_, err := q.db.Exec(ctx, `
		UPDATE disaster_transmit_logs
		SET status = $2, error_detail = NULLIF($3, ''), updated_at = now()
		WHERE id = $1 AND status NOT IN ('SUCCESS', 'FAILED')`,
		id, status, errorDetail,
	)
	return err
}

// BumpDisasterTransmitRetry increments retry_count and returns the new value.
func (q *Queries) BumpDisasterTransmitRetry(ctx context.Context, id int64) (int32, error) {
	var n int32
	err := q.db.QueryRow(ctx, `
		UPDATE disaster_transmit_logs
		SET retry_count = retry_count + 1, updated_at = now()
		WHERE id = $1
		RETURNING retry_count`,
		id,
	).Scan(&n)
	return n, err
}

// ── connection_logs ─────────────────────────────────────────────────────────

// InsertConnectionLog records a WebSocket attach or detach.
func (q *Queries) InsertConnectionLog(ctx context.Context, externalSystemID int64, event, detail string) error {
	_, err := q.db.Exec(ctx, `
		INSERT INTO connection_logs (external_system_id, event, detail)
		VALUES ($1, $2, NULLIF($3, ''))`,
		externalSystemID, event, detail,
	)
	return err
}

// ── scan helpers ────────────────────────────────────────────────────────────

func scanExternalSystem(row pgx.Row) (ExternalSystem, error) {
	var s ExternalSystem
	err := row.Scan(&s.ID, &s.Name, &s.APIKey, &s.SubscribedEventCodes, &s.Active, &s.CreatedAt)
	return s, err
}

func scanDisasterTransmitLog(row pgx.Row) (DisasterTransmitLog, error) {
	var l DisasterTransmitLog
	err := row.Scan(&l.ID, &l.MQReceiveLogID, &l.ExternalSystemID, &l.Identifier,
		&l.EventCode, &l.RawMessage, &l.Status, &l.RetryCount, &l.ErrorDetail,
		&l.CreatedAt, &l.UpdatedAt)
	return l, err
}
