// Package sqlstore implements store.Store over database/sql. The dialect only
// changes placeholder syntax; the SQL itself sticks to what postgres and
// sqlite both accept.
package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/pa816859-hue/shiny-octo-succotash/internal/model"
	"github.com/pa816859-hue/shiny-octo-succotash/internal/store"
	"github.com/pa816859-hue/shiny-octo-succotash/internal/tagquery"
)

// Store is a catalog backed by a relational database.
type Store struct {
	db      *sql.DB
	dialect tagquery.Dialect
}

var (
	_ store.Store  = (*Store)(nil)
	_ store.Loader = (*Store)(nil)
)

// New wraps an open database.
func New(db *sql.DB, dialect tagquery.Dialect) *Store {
	return &Store{db: db, dialect: dialect}
}

func (s *Store) Media() store.Media { return &media{s: s} }
func (s *Store) Tags() store.Tags   { return &tags{s: s} }

// HealthPing implements health.HealthPinger.
func (s *Store) HealthPing(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) Close() error { return s.db.Close() }

func (s *Store) binder() *tagquery.Binder { return tagquery.NewBinder(s.dialect) }

func table(kind model.Kind) (string, error) {
	if !kind.Valid() {
		return "", model.NewValidationError("kind", fmt.Sprintf("unknown media kind %q", kind))
	}
	return kind.Slug(), nil
}

// timeLayouts covers what sqlite drivers hand back as text.
var timeLayouts = []string{
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02T15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999 -0700 MST",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05.999999999",
	time.RFC3339Nano,
	"2006-01-02",
}

// timeValue scans timestamps that arrive either as time.Time or as text.
type timeValue struct {
	Time  time.Time
	Valid bool
}

func (v *timeValue) Scan(src any) error {
	switch x := src.(type) {
	case nil:
		v.Time, v.Valid = time.Time{}, false
		return nil
	case time.Time:
		v.Time, v.Valid = x, true
		return nil
	case []byte:
		return v.parse(string(x))
	case string:
		return v.parse(x)
	case int64:
		v.Time, v.Valid = time.Unix(x, 0).UTC(), true
		return nil
	}
	return fmt.Errorf("unsupported timestamp type %T", src)
}

func (v *timeValue) parse(s string) error {
	s = strings.TrimSpace(s)
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			v.Time, v.Valid = t, true
			return nil
		}
	}
	return fmt.Errorf("unparseable timestamp %q", s)
}

func (v timeValue) ptr() *time.Time {
	if !v.Valid {
		return nil
	}
	t := v.Time
	return &t
}

func nullInt(v sql.NullInt64) *int64 {
	if !v.Valid {
		return nil
	}
	n := v.Int64
	return &n
}

func nullString(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	s := v.String
	return &s
}
