package factory

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/pa816859-hue/shiny-octo-succotash/internal/config"
	"github.com/pa816859-hue/shiny-octo-succotash/internal/statestore"
	"github.com/pa816859-hue/shiny-octo-succotash/internal/statestore/badgerstore"
	"github.com/pa816859-hue/shiny-octo-succotash/internal/statestore/file"
	"github.com/pa816859-hue/shiny-octo-succotash/internal/statestore/redisstore"
)

const badgerGCInterval = 10 * time.Minute

// NewStateStores builds one interaction store per media kind. The returned
// close func releases the backend and is never nil.
func NewStateStores(ctx context.Context, cfg *config.Config, log zerolog.Logger) (statestore.Stores, func() error, error) {
	noop := func() error { return nil }

	switch cfg.StateDriver {
	case "", "file":
		log.Debug().Str("dir", cfg.StateDir).Msg("file state store")
		return file.NewStores(cfg.StateDir), noop, nil
	case "badger":
		dir := filepath.Join(cfg.StateDir, "badger")
		db, err := badgerstore.Open(dir)
		if err != nil {
			return nil, noop, fmt.Errorf("open badger state at %s: %w", dir, err)
		}
		go badgerstore.RunGC(ctx, db, badgerGCInterval, log)
		log.Debug().Str("dir", dir).Msg("badger state store")
		return badgerstore.NewStores(db), db.Close, nil
	case "redis":
		rdb := redisstore.NewClient(cfg.RedisAddr)
		pingCtx, cancel := context.WithTimeout(ctx, cfg.BootstrapTimeout())
		defer cancel()
		if err := rdb.Ping(pingCtx).Err(); err != nil {
			// Health checks report it until redis comes up.
			log.Warn().Err(err).Str("addr", cfg.RedisAddr).Msg("redis state store not reachable")
		}
		return redisstore.NewStores(rdb, redisstore.DefaultNamespace), rdb.Close, nil
	default:
		return nil, noop, fmt.Errorf("unknown STATE_DRIVER: %s", cfg.StateDriver)
	}
}
