package factory

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"

	"github.com/pa816859-hue/shiny-octo-succotash/internal/config"
	"github.com/pa816859-hue/shiny-octo-succotash/internal/store/postgres"
	"github.com/pa816859-hue/shiny-octo-succotash/internal/store/sqlite"
	"github.com/pa816859-hue/shiny-octo-succotash/internal/store/sqlstore"
)

// NewStore opens the catalog named by cfg.DBDriver. Postgres connects with
// exponential backoff until the bootstrap timeout elapses, then ensures the schema.
func NewStore(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*sqlstore.Store, error) {
	switch cfg.DBDriver {
	case "sqlite":
		if cfg.SQLitePath == "" {
			return nil, fmt.Errorf("MEDIA_GALLERY_SQLITE_PATH is required when DB_DRIVER=sqlite")
		}
		st, err := sqlite.New(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		log.Debug().Str("driver", cfg.DBDriver).Str("path", cfg.SQLitePath).Msg("catalog opened")
		return st, nil
	case "postgres":
		if cfg.PostgresDSN == "" {
			return nil, fmt.Errorf("MEDIA_GALLERY_POSTGRES_DSN is required when DB_DRIVER=postgres")
		}
		db, err := connectPostgres(ctx, cfg.PostgresDSN, cfg.BootstrapTimeout(), log)
		if err != nil {
			return nil, err
		}
		if err := postgres.EnsureSchema(ctx, db); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("postgres schema: %w", err)
		}
		log.Debug().Str("driver", cfg.DBDriver).Msg("catalog opened")
		return postgres.NewWithDB(db), nil
	default:
		return nil, fmt.Errorf("unknown DB_DRIVER: %s", cfg.DBDriver)
	}
}

func connectPostgres(ctx context.Context, dsn string, window time.Duration, log zerolog.Logger) (*sql.DB, error) {
	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = 200 * time.Millisecond
	exp.MaxInterval = 2 * time.Second
	exp.MaxElapsedTime = window

	var db *sql.DB
	attempt := 0
	op := func() error {
		attempt++
		var err error
		db, err = postgres.Open(dsn)
		if err != nil {
			log.Warn().Err(err).Int("attempt", attempt).Msg("postgres not reachable yet")
		}
		return err
	}
	if err := backoff.Retry(op, backoff.WithContext(exp, ctx)); err != nil {
		return nil, fmt.Errorf("connect postgres after %d attempts: %w", attempt, err)
	}
	return db, nil
}
