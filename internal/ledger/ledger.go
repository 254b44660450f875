// Package ledger records deposit initiation attempts for audit purposes.
// It is an append-only log of outcomes, not resumable conversation state.
package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"
)

// Entry statuses.
const (
	StatusInitiated = "initiated"
	StatusFailed    = "failed"
)

// Entry is one recorded initiation attempt.
type Entry struct {
	ChatID    int64
	Amount    int
	MSISDN    string
	Status    string
	Reason    string
	CreatedAt time.Time
}

// Recorder appends deposit attempts to the ledger.
type Recorder interface {
	Record(ctx context.Context, entry Entry) error
}

// PostgresLedger stores entries in the deposits table.
type PostgresLedger struct {
	db  *sql.DB
	log *slog.Logger
}

var _ Recorder = (*PostgresLedger)(nil)

// NewPostgresLedger creates a SQL-backed ledger.
func NewPostgresLedger(db *sql.DB, log *slog.Logger) *PostgresLedger {
	if log == nil {
		log = slog.Default()
	}

	return &PostgresLedger{db: db, log: log}
}

// Record appends one deposit attempt.
func (l *PostgresLedger) Record(ctx context.Context, entry Entry) error {
	const query = `
		INSERT INTO deposits (chat_id, amount, msisdn, status, reason, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	if _, err := l.db.ExecContext(
		ctx,
		query,
		entry.ChatID,
		entry.Amount,
		entry.MSISDN,
		entry.Status,
		entry.Reason,
		entry.CreatedAt,
	); err != nil {
		l.log.Error("failed to record deposit attempt",
			slog.Int64("chat_id", entry.ChatID), slog.Any("error", err))
		return fmt.Errorf("insert deposit entry: %w", err)
	}

	return nil
}

// Noop discards entries. Used when no database is configured.
type Noop struct{}

var _ Recorder = Noop{}

// Record does nothing.
func (Noop) Record(ctx context.Context, entry Entry) error {
	return nil
}
