package postgres

import (
	"context"
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/pa816859-hue/shiny-octo-succotash/internal/store/storetest"
)

// withSearchPath points every pooled connection at schema.
func withSearchPath(dsn, schema string) string {
	if strings.Contains(dsn, "://") {
		sep := "?"
		if strings.Contains(dsn, "?") {
			sep = "&"
		}
		return dsn + sep + "search_path=" + schema
	}
	return dsn + " search_path=" + schema
}

func makePGStore(t *testing.T) storetest.Backend {
	t.Helper()
	dsn := os.Getenv("MEDIA_GALLERY_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("MEDIA_GALLERY_POSTGRES_DSN not set; skipping postgres store integration test")
	}
	ctx := context.Background()

	admin, err := Open(dsn)
	if err != nil {
		t.Fatalf("postgres open: %v", err)
	}
	schema := "mg_test_" + strings.ReplaceAll(uuid.NewString(), "-", "")
	if _, err := admin.ExecContext(ctx, fmt.Sprintf("CREATE SCHEMA %s", schema)); err != nil {
		t.Fatalf("create schema: %v", err)
	}
	t.Cleanup(func() {
		_, _ = admin.ExecContext(context.Background(), fmt.Sprintf("DROP SCHEMA %s CASCADE", schema))
		_ = admin.Close()
	})

	db, err := Open(withSearchPath(dsn, schema))
	if err != nil {
		t.Fatalf("postgres open schema: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if err := EnsureSchema(ctx, db); err != nil {
		t.Fatalf("ensure schema: %v", err)
	}
	return NewWithDB(db)
}

func TestPostgresStore_Compliance(t *testing.T) {
	storetest.Run(t, makePGStore)
}

func TestWithSearchPath(t *testing.T) {
	if got := withSearchPath("postgres://u@h/db", "s1"); got != "postgres://u@h/db?search_path=s1" {
		t.Fatalf("url dsn: %s", got)
	}
	if got := withSearchPath("postgres://u@h/db?sslmode=disable", "s1"); got != "postgres://u@h/db?sslmode=disable&search_path=s1" {
		t.Fatalf("url dsn with query: %s", got)
	}
	if got := withSearchPath("host=h dbname=db", "s1"); got != "host=h dbname=db search_path=s1" {
		t.Fatalf("kv dsn: %s", got)
	}
}
