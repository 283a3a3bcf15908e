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

// DBTX is satisfied by *pgxpool.Pool and pgx.Tx, so the same queries run
// inside and outside transactions.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Queries bundles the central-service statements over one DBTX.
type Queries struct {
	db DBTX
}

// New creates Queries over the given handle.
func New(db DBTX) *Queries {
	return &Queries{db: db}
}

// ── tcp_receive_logs ────────────────────────────────────────────────────────

// InsertTCPReceiveLog appends a CAS inbox row in PENDING.
func (q *Queries) InsertTCPReceiveLog(ctx context.Context, inboundID string, inboundSeq int32, rawMessage string) (int64, error) {
	var id int64
	err := q.db.QueryRow(ctx, `
		INSERT INTO tcp_receive_logs (inbound_id, inbound_seq, raw_message, status)
		VALUES ($1, $2, $3, 'PENDING')
		RETURNING id`,
		inboundID, inboundSeq, rawMessage,
	).Scan(&id)
	return id, err
}

// TCPReceiveLogExists is the duplicate check on (inbound_id, inbound_seq).
func (q *Queries) TCPReceiveLogExists(ctx context.Context, inboundID string, inboundSeq int32) (bool, error) {
	var exists bool
	err := q.db.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM tcp_receive_logs WHERE inbound_id = $1 AND inbound_seq = $2
		)`,
		inboundID, inboundSeq,
	).Scan(&exists)
	return exists, err
}

// UpdateTCPReceiveLogStatus transitions an inbox row, recording the failure
// reason when present.
func (q *Queries) UpdateTCPReceiveLogStatus(ctx context.Context, id int64, status model.Status, errorMessage string) error {
	_, err := q.db.Exec(ctx, `
		UPDATE tcp_receive_logs
		SET status = $2, error_message = NULLIF($3, ''), updated_at = now()
		WHERE id = $1`,
		id, status, errorMessage,
	)
	return err
}

// ── disaster_publish_logs ───────────────────────────────────────────────────

// InsertDisasterPublishLog appends a broker outbox row. ON CONFLICT(identifier)
// DO NOTHING collapses duplicate alerts that slipped past the inbox dedup;
// the returned bool reports whether a row was actually inserted.
func (q *Queries) InsertDisasterPublishLog(ctx context.Context, tcpReceiveLogID int64, routingKey, identifier, eventCode, rawMessage string) (bool, error) {
	tag, err := q.db.Exec(ctx, `
		INSERT INTO disaster_publish_logs
			(tcp_receive_log_id, routing_key, identifier, event_code, raw_message, status)
		VALUES ($1, $2, $3, $4, $5, 'PENDING')
		ON CONFLICT (identifier) DO NOTHING`,
		tcpReceiveLogID, routingKey, identifier, eventCode, rawMessage,
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// ListPendingDisasterPublish returns a bounded batch of PENDING rows, oldest
// first.
func (q *Queries) ListPendingDisasterPublish(ctx context.Context, limit int32) ([]DisasterPublishLog, error) {
	rows, err := q.db.Query(ctx, `
		SELECT id, tcp_receive_log_id, routing_key, identifier, event_code,
		       raw_message, status, retry_count, created_at, updated_at
		FROM disaster_publish_logs
		WHERE status = 'PENDING'
		ORDER BY created_at ASC
		LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanDisasterPublishLogs(rows)
}

// GetDisasterPublishByIdentifier resolves the original alert for a
// DISASTER_RESULT report.
func (q *Queries) GetDisasterPublishByIdentifier(ctx context.Context, identifier string) (DisasterPublishLog, error) {
	row := q.db.QueryRow(ctx, `
		SELECT id, tcp_receive_log_id, routing_key, identifier, event_code,
		       raw_message, status, retry_count, created_at, updated_at
		FROM disaster_publish_logs
		WHERE identifier = $1`,
		identifier,
	)
	l, err := scanDisasterPublishLog(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return l, ErrNotFound
	}
	return l, err
}

// MarkDisasterPublishStatus transitions an outbox row.
func (q *Queries) MarkDisasterPublishStatus(ctx context.Context, id int64, status model.Status) error {
	_, err := q.db.Exec(ctx, `
		UPDATE disaster_publish_logs SET status = $2, updated_at = now() WHERE id = $1`,
		id, status,
	)
	return err
}

// BumpDisasterPublishRetry increments retry_count and returns the new value.
func (q *Queries) BumpDisasterPublishRetry(ctx context.Context, id int64) (int32, error) {
	var n int32
	err := q.db.QueryRow(ctx, `
		UPDATE disaster_publish_logs
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

// ── report_transmit_logs ────────────────────────────────────────────────────

// InsertReportTransmitLog appends a CAS outbox row with report_sequence 1.
func (q *Queries) InsertReportTransmitLog(ctx context.Context, mqReceiveLogID int64, reportType model.ReportType, outboundID, externalSystemName, rawMessage string) (int64, error) {
	var id int64
	err := q.db.QueryRow(ctx, `
		INSERT INTO report_transmit_logs
			(mq_receive_log_id, type, outbound_id, external_system_name, raw_message,
			 status, report_sequence)
		VALUES ($1, $2, $3, $4, $5, 'PENDING', 1)
		RETURNING id`,
		mqReceiveLogID, reportType, outboundID, externalSystemName, rawMessage,
	).Scan(&id)
	return id, err
}

// ListDispatchableReportTransmit returns PENDING rows plus SENT rows whose
// ACK window elapsed (stuck after a crash or lost timer), oldest first.
func (q *Queries) ListDispatchableReportTransmit(ctx context.Context, staleBefore time.Time, limit int32) ([]ReportTransmitLog, error) {
	rows, err := q.db.Query(ctx, `
		SELECT id, mq_receive_log_id, type, outbound_id, external_system_name,
		       raw_message, status, retry_count, report_sequence,
		       COALESCE(error_detail, ''), created_at, updated_at
		FROM report_transmit_logs
		WHERE status = 'PENDING' OR (status = 'SENT' AND updated_at < $1)
		ORDER BY created_at ASC
		LIMIT $2`,
		staleBefore, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanReportTransmitLogs(rows)
}

// GetReportTransmitLog fetches one outbox row.
func (q *Queries) GetReportTransmitLog(ctx context.Context, id int64) (ReportTransmitLog, error) {
	row := q.db.QueryRow(ctx, `
		SELECT id, mq_receive_log_id, type, outbound_id, external_system_name,
		       raw_message, status, retry_count, report_sequence,
		       COALESCE(error_detail, ''), created_at, updated_at
		FROM report_transmit_logs
		WHERE id = $1`,
		id,
	)
	l, err := scanReportTransmitLog(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return l, ErrNotFound
	}
	return l, err
}

// GetReportTransmitByCorrelation resolves the row a CAS ACK refers to.
func (q *Queries) GetReportTransmitByCorrelation(ctx context.Context, outboundID string, reportSequence int32) (ReportTransmitLog, error) {
	row := q.db.QueryRow(ctx, `
		SELECT id, mq_receive_log_id, type, outbound_id, external_system_name,
		       raw_message, status, retry_count, report_sequence,
		       COALESCE(error_detail, ''), created_at, updated_at
		FROM report_transmit_logs
		WHERE outbound_id = $1 AND report_sequence = $2`,
		outboundID, reportSequence,
	)
	l, err := scanReportTransmitLog(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return l, ErrNotFound
	}
	return l, err
}

// BumpReportTransmitRetry increments retry_count and report_sequence before a
// retry attempt, so the next attempt correlates on a fresh sequence.
func (q *Queries) BumpReportTransmitRetry(ctx context.Context, id int64) (ReportTransmitLog, error) {
	row := q.db.QueryRow(ctx, `
		UPDATE report_transmit_logs
		SET retry_count = retry_count + 1,
		    report_sequence = report_sequence + 1,
		    updated_at = now()
		WHERE id = $1
		RETURNING id, mq_receive_log_id, type, outbound_id, external_system_name,
		          raw_message, status, retry_count, report_sequence,
		          COALESCE(error_detail, ''), created_at, updated_at`,
		id,
	)
	return scanReportTransmitLog(row)
}

// MarkReportTransmitSent flips a row to SENT. updated_at is refreshed so the
// stale-SENT predicate of the poller behaves.
func (q *Queries) MarkReportTransmitSent(ctx context.Context, id int64) error {
	_, err := q.db.Exec(ctx, `
		UPDATE report_transmit_logs SET status = 'SENT', updated_at = now() WHERE id = $1`,
		id,
	)
	return err
}

// MarkReportTransmitResult transitions a row, guarded so terminal rows never
// move again.
func (q *Queries) MarkReportTransmitResult(ctx context.Context, id int64, status model.Status, errorDetail string) error {
	_, err := q.db.Exec(ctx, `
		UPDATE report_transmit_logs
		SET status = $2, error_detail = NULLIF($3, ''), updated_at = now()
		WHERE id = $1 AND status NOT IN ('SUCCESS', 'FAILED')`,
		id, status, errorDetail,
	)
	return err
}

// ── scan helpers ────────────────────────────────────────────────────────────

func scanDisasterPublishLog(row pgx.Row) (DisasterPublishLog, error) {
	var l DisasterPublishLog
	err := row.Scan(&l.ID, &l.TCPReceiveLogID, &l.RoutingKey, &l.Identifier,
		&l.EventCode, &l.RawMessage, &l.Status, &l.RetryCount, &l.CreatedAt, &l.UpdatedAt)
	return l, err
}

func scanDisasterPublishLogs(rows pgx.Rows) ([]DisasterPublishLog, error) {
	var out []DisasterPublishLog
	for rows.Next() {
		l, err := scanDisasterPublishLog(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func scanReportTransmitLog(row pgx.Row) (ReportTransmitLog, error) {
	var l ReportTransmitLog
	err := row.Scan(&l.ID, &l.MQReceiveLogID, &l.Type, &l.OutboundID,
		&l.ExternalSystemName, &l.RawMessage, &l.Status, &l.RetryCount,
		&l.ReportSequence, &l.ErrorDetail, &l.CreatedAt, &l.UpdatedAt)
	return l, err
}

func scanReportTransmitLogs(rows pgx.Rows) ([]ReportTransmitLog, error) {
	var out []ReportTransmitLog
	for rows.Next() {
		l, err := scanReportTransmitLog(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}
