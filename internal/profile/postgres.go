package profile

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
)

// PostgresRepository persists profiles in the profiles table.
type PostgresRepository struct {
	db  *sql.DB
	log *slog.Logger
}

// NewPostgresRepository creates a SQL-backed profile repository.
func NewPostgresRepository(db *sql.DB, log *slog.Logger) *PostgresRepository {
	if log == nil {
		log = slog.Default()
	}

	return &PostgresRepository{db: db, log: log}
}

// FindByChatID retrieves a profile by chat identifier.
func (r *PostgresRepository) FindByChatID(ctx context.Context, chatID int64) (*Profile, error) {
	const query = `
		SELECT chat_id, first_name, username, language, notify, created_at
		FROM profiles
		WHERE chat_id = $1
	`

	row := r.db.QueryRowContext(ctx, query, chatID)

	var p Profile
	if err := row.Scan(
		&p.ChatID,
		&p.FirstName,
		&p.Username,
		&p.Language,
		&p.Notify,
		&p.CreatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}

		r.log.Error("failed to fetch profile", slog.Int64("chat_id", chatID), slog.Any("error", err))
		return nil, fmt.Errorf("select profile: %w", err)
	}

	return &p, nil
}

// Upsert inserts the profile or refreshes its mutable fields on conflict.
func (r *PostgresRepository) Upsert(ctx context.Context, p *Profile) error {
	const query = `
		INSERT INTO profiles (chat_id, first_name, username, language, notify, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (chat_id) DO UPDATE
		SET first_name = EXCLUDED.first_name,
		    username = EXCLUDED.username,
		    language = EXCLUDED.language,
		    notify = EXCLUDED.notify
	`

	if _, err := r.db.ExecContext(
		ctx,
		query,
		p.ChatID,
		p.FirstName,
		p.Username,
		p.Language,
		p.Notify,
		p.CreatedAt,
	); err != nil {
		r.log.Error("failed to upsert profile", slog.Int64("chat_id", p.ChatID), slog.Any("error", err))
		return fmt.Errorf("upsert profile: %w", err)
	}

	return nil
}
