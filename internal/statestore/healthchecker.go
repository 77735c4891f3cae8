package statestore

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/pa816859-hue/shiny-octo-succotash/internal/health"
)

// NewHealthChecker monitors every kind's store. Backends implementing
// health.HealthPinger are pinged; others must answer a read.
func NewHealthChecker(stores Stores, log zerolog.Logger, probeTimeout time.Duration) *health.ProbeChecker {
	return health.NewProbeChecker("state", func(ctx context.Context) error {
		for kind, s := range stores {
			if p, ok := s.(health.HealthPinger); ok {
				if err := p.HealthPing(ctx); err != nil {
					return fmt.Errorf("%s state: %w", kind, err)
				}
				continue
			}
			if _, err := s.ViewedIDs(ctx); err != nil {
				return fmt.Errorf("%s state: %w", kind, err)
			}
		}
		return nil
	}, log, probeTimeout)
}
