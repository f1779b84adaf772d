package store

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/PratikDhanave/answer-sessions/internal/models"
)

// schemaSQL is embedded so the service can self-bootstrap its database schema.
//
//go:embed schema.sql
var schemaSQL string

var answerLogColumns = []string{"tenant_id", "batch_id", "user_id", "event_id", "sent_at", "question_id"}

// PostgresStore keeps raw answer logs. Sessions are derived on read and
// never stored.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a connection pool and fails fast if DB is unreachable.
func NewPostgresStore(ctx context.Context, dbURL string) (*PostgresStore, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		return nil, err
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return &PostgresStore{pool: pool}, nil
}

// EnsureSchema applies schema.sql. Safe to run multiple times.
func (p *PostgresStore) EnsureSchema(ctx context.Context) error {
	_, err := p.pool.Exec(ctx, schemaSQL)
	return err
}

// Ping is used by readiness endpoint to validate DB connectivity.
func (p *PostgresStore) Ping(ctx context.Context) error {
	return p.pool.Ping(ctx)
}

// Close shuts down the connection pool.
func (p *PostgresStore) Close() {
	p.pool.Close()
}

// InsertRawLogs copies one batch of raw records in a single round trip.
// Row order within the batch is kept by the serial id.
func (p *PostgresStore) InsertRawLogs(
	ctx context.Context,
	tenantID string,
	batchID uuid.UUID,
	recs []models.RawLogRecord,
) (int64, error) {

	if tenantID == "" {
		return 0, errors.New("tenantID required")
	}
	if len(recs) == 0 {
		return 0, nil
	}

	batch := pgtype.UUID{Bytes: batchID, Valid: true}
	n, err := p.pool.CopyFrom(
		ctx,
		pgx.Identifier{"answer_logs"},
		answerLogColumns,
		pgx.CopyFromSlice(len(recs), func(i int) ([]any, error) {
			r := recs[i]
			return []any{tenantID, batch, string(r.User), r.EventID, r.SentAt, r.QuestionID}, nil
		}),
	)
	if err != nil {
		return 0, fmt.Errorf("copy answer logs: %w", err)
	}
	return n, nil
}

// ListRawLogs returns a tenant's raw records in insertion order.
// An empty eventID selects every event.
func (p *PostgresStore) ListRawLogs(ctx context.Context, tenantID, eventID string) ([]models.RawLogRecord, error) {
	rows, err := p.pool.Query(ctx, `
		SELECT user_id, event_id, sent_at, question_id
		FROM answer_logs
		WHERE tenant_id = $1
		  AND ($2 = '' OR event_id = $2)
		ORDER BY id
	`, tenantID, eventID)
	if err != nil {
		return nil, err
	}

	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.RawLogRecord, error) {
		var r models.RawLogRecord
		var user string
		err := row.Scan(&user, &r.EventID, &r.SentAt, &r.QuestionID)
		r.User = models.UserID(user)
		return r, err
	})
}
