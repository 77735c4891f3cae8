package postgres

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/pa816859-hue/shiny-octo-succotash/internal/store/sqlstore"
	"github.com/pa816859-hue/shiny-octo-succotash/internal/tagquery"
)

// Open opens a PostgreSQL connection using the pgx stdlib driver and verifies connectivity.
func Open(dsn string) (*sql.DB, error) {
	if dsn == "" {
		return nil, fmt.Errorf("postgres DSN is empty")
	}
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// NewWithDB constructs the catalog store over an open Postgres handle.
func NewWithDB(db *sql.DB) *sqlstore.Store { return sqlstore.New(db, tagquery.Postgres) }

// EnsureSchema creates the catalog tables when they are missing. Used by
// tests and fresh local databases.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS photos (
            id BIGINT PRIMARY KEY,
            file_path TEXT NOT NULL,
            added_on TIMESTAMPTZ NOT NULL
        )`,
		`CREATE TABLE IF NOT EXISTS videos (
            id BIGINT PRIMARY KEY,
            file_path TEXT NOT NULL,
            added_on TIMESTAMPTZ NOT NULL
        )`,
		`CREATE TABLE IF NOT EXISTS photo_tags (
            photo_id BIGINT NOT NULL,
            tag TEXT NOT NULL,
            tag_key TEXT NOT NULL,
            score DOUBLE PRECISION NOT NULL,
            PRIMARY KEY (photo_id, tag)
        )`,
		`CREATE TABLE IF NOT EXISTS users (
            id BIGINT PRIMARY KEY,
            username TEXT,
            first_name TEXT,
            last_name TEXT
        )`,
		`CREATE TABLE IF NOT EXISTS messages (
            channel_id BIGINT NOT NULL,
            message_id BIGINT NOT NULL,
            user_id BIGINT,
            sent_date TIMESTAMPTZ NOT NULL,
            message_text TEXT,
            photo_id BIGINT,
            video_id BIGINT,
            PRIMARY KEY (channel_id, message_id)
        )`,
		`CREATE INDEX IF NOT EXISTS idx_photos_added ON photos (added_on DESC, id DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_videos_added ON videos (added_on DESC, id DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_photo_tags_tag_key ON photo_tags (tag_key, photo_id)`,
		`CREATE INDEX IF NOT EXISTS idx_messages_photo ON messages (photo_id, sent_date DESC, message_id DESC)`,
	}
	for _, s := range stmts {
		if _, err := db.ExecContext(ctx, s); err != nil {
			return fmt.Errorf("postgres schema: %w", err)
		}
	}
	return nil
}
