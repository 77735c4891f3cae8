package store

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/pa816859-hue/shiny-octo-succotash/internal/health"
	"github.com/pa816859-hue/shiny-octo-succotash/internal/model"
)

// NewHealthChecker monitors the catalog. Stores implementing health.HealthPinger
// are pinged; others must answer a one-row read.
func NewHealthChecker(s Store, log zerolog.Logger, probeTimeout time.Duration) *health.ProbeChecker {
	if p, ok := s.(health.HealthPinger); ok {
		return health.NewPingChecker("store", p, log, probeTimeout)
	}
	return health.NewProbeChecker("store", func(ctx context.Context) error {
		_, err := s.Media().LatestBatch(ctx, model.KindPhoto, 1)
		return err
	}, log, probeTimeout)
}
