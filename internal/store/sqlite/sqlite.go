// Package sqlite opens the local catalog database used for development and tests.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/pa816859-hue/shiny-octo-succotash/internal/store/sqlstore"
	"github.com/pa816859-hue/shiny-octo-succotash/internal/tagquery"
)

// Open opens (or creates) a SQLite database at path in WAL mode. Timestamps
// are written in a sortable text form so ORDER BY added_on works on text.
func Open(path string) (*sql.DB, error) {
	// ensure parent directory exists to avoid SQLITE_CANTOPEN errors
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_time_format=sqlite", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// EnsureSchema creates the catalog tables if they do not exist.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS photos (
            id INTEGER PRIMARY KEY,
            file_path TEXT NOT NULL,
            added_on TIMESTAMP NOT NULL
        );`,
		`CREATE TABLE IF NOT EXISTS videos (
            id INTEGER PRIMARY KEY,
            file_path TEXT NOT NULL,
            added_on TIMESTAMP NOT NULL
        );`,
		`CREATE TABLE IF NOT EXISTS photo_tags (
            photo_id INTEGER NOT NULL,
            tag TEXT NOT NULL,
            tag_key TEXT NOT NULL,
            score REAL NOT NULL,
            PRIMARY KEY (photo_id, tag)
        );`,
		`CREATE TABLE IF NOT EXISTS users (
            id INTEGER PRIMARY KEY,
            username TEXT,
            first_name TEXT,
            last_name TEXT
        );`,
		`CREATE TABLE IF NOT EXISTS messages (
            channel_id INTEGER NOT NULL,
            message_id INTEGER NOT NULL,
            user_id INTEGER,
            sent_date TIMESTAMP NOT NULL,
            message_text TEXT,
            photo_id INTEGER,
            video_id INTEGER,
            PRIMARY KEY (channel_id, message_id)
        );`,
		`CREATE INDEX IF NOT EXISTS idx_photos_added ON photos (added_on DESC, id DESC);`,
		`CREATE INDEX IF NOT EXISTS idx_videos_added ON videos (added_on DESC, id DESC);`,
		`CREATE INDEX IF NOT EXISTS idx_photo_tags_tag_key ON photo_tags (tag_key, photo_id);`,
		`CREATE INDEX IF NOT EXISTS idx_messages_photo ON messages (photo_id, sent_date DESC, message_id DESC);`,
	}
	for _, s := range stmts {
		if _, err := db.ExecContext(ctx, s); err != nil {
			return fmt.Errorf("sqlite schema: %w", err)
		}
	}
	return nil
}

// New opens path, ensures the schema and returns the catalog store.
func New(ctx context.Context, path string) (*sqlstore.Store, error) {
	db, err := Open(path)
	if err != nil {
		return nil, err
	}
	if err := EnsureSchema(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return sqlstore.New(db, tagquery.SQLite), nil
}
