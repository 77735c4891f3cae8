// Package feed serves an endless stream of unseen media per kind and records
// skips and likes in the interaction state.
package feed

import (
	"context"
	"fmt"
	"math/rand"
	"sort"

	"github.com/rs/zerolog"

	"github.com/pa816859-hue/shiny-octo-succotash/internal/mediapath"
	"github.com/pa816859-hue/shiny-octo-succotash/internal/metrics"
	"github.com/pa816859-hue/shiny-octo-succotash/internal/model"
	"github.com/pa816859-hue/shiny-octo-succotash/internal/paging"
	"github.com/pa816859-hue/shiny-octo-succotash/internal/statestore"
	"github.com/pa816859-hue/shiny-octo-succotash/internal/store"
)

// Options tune sampling. Zero values fall back to the defaults.
type Options struct {
	BatchSize   int
	MaxAttempts int
	Rand        *rand.Rand
}

// Service is the feed of one media kind.
type Service struct {
	catalog Catalog
	state   statestore.Store
	sampler Sampler
	log     zerolog.Logger
}

// New builds the feed for kind: photos sample random batches, videos the latest batch.
func New(kind model.Kind, media store.Media, state statestore.Store, resolver *mediapath.Resolver, opts Options, log zerolog.Logger) *Service {
	var sampler Sampler
	if kind == model.KindVideo {
		sampler = LatestSampler{BatchSize: opts.BatchSize, Rand: NewLockedRand(opts.Rand)}
	} else {
		sampler = RandomSampler{BatchSize: opts.BatchSize, MaxAttempts: opts.MaxAttempts}
	}
	return NewWithSampler(kind, media, state, resolver, sampler, log)
}

// NewWithSampler builds a feed around a custom sampler.
func NewWithSampler(kind model.Kind, media store.Media, state statestore.Store, resolver *mediapath.Resolver, sampler Sampler, log zerolog.Logger) *Service {
	return &Service{
		catalog: Catalog{Kind: kind, Media: media, Resolver: resolver},
		state:   state,
		sampler: sampler,
		log:     log.With().Str("feed", kind.Slug()).Logger(),
	}
}

// Next returns an item not yet viewed and marks it viewed. A nil item with a
// nil error means nothing is available.
func (s *Service) Next(ctx context.Context) (*model.DisplayItem, error) {
	if !s.catalog.Resolver.Configured() {
		s.log.Warn().Msg("media root not configured; feed is empty")
		return nil, nil
	}

	viewed, err := s.state.ViewedIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("read viewed %s: %w", s.catalog.Kind.Slug(), err)
	}
	liked, err := s.state.LikedIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("read liked %s: %w", s.catalog.Kind.Slug(), err)
	}

	res, err := s.sampler.Sample(ctx, s.catalog, viewed, liked)
	metrics.RecordFeedCall(s.catalog.Kind.Slug(), res.Attempts, err == nil && res.Item != nil)
	if err != nil {
		return nil, fmt.Errorf("sample %s: %w", s.catalog.Kind.Slug(), err)
	}
	if res.Item == nil {
		s.log.Debug().Int("attempts", res.Attempts).Int("viewed", viewed.Len()).Msg("no unseen item")
		return nil, nil
	}
	if res.Recirculated {
		metrics.RecordRecirculation(s.catalog.Kind.Slug())
	}

	if err := s.addViewed(ctx, res.Item.ID); err != nil {
		return nil, err
	}
	return res.Item, nil
}

// Skip marks id viewed, even if it was never served, then returns the next item.
func (s *Service) Skip(ctx context.Context, id int64) (*model.DisplayItem, error) {
	if id > 0 {
		if err := s.addViewed(ctx, id); err != nil {
			return nil, err
		}
	}
	return s.Next(ctx)
}

// Like marks id viewed and liked, then returns the next item.
func (s *Service) Like(ctx context.Context, id int64) (*model.DisplayItem, error) {
	if id > 0 {
		if err := s.addViewed(ctx, id); err != nil {
			return nil, err
		}
		err := s.state.AddLiked(ctx, id)
		metrics.RecordStateOp(s.catalog.Kind.Slug(), "add_liked", err)
		if err != nil {
			return nil, fmt.Errorf("add liked %s %d: %w", s.catalog.Kind.Slug(), id, err)
		}
	}
	return s.Next(ctx)
}

// Unlike removes id from the liked set only. It reports whether id was liked.
func (s *Service) Unlike(ctx context.Context, id int64) (bool, error) {
	removed, err := s.state.RemoveLiked(ctx, id)
	metrics.RecordStateOp(s.catalog.Kind.Slug(), "remove_liked", err)
	if err != nil {
		return false, fmt.Errorf("remove liked %s %d: %w", s.catalog.Kind.Slug(), id, err)
	}
	return removed, nil
}

// Liked resolves every liked id in one fetch, newest first. Items whose path
// cannot be served are left out.
func (s *Service) Liked(ctx context.Context) ([]model.DisplayItem, error) {
	out := []model.DisplayItem{}
	if !s.catalog.Resolver.Configured() {
		return out, nil
	}

	liked, err := s.state.LikedIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("read liked %s: %w", s.catalog.Kind.Slug(), err)
	}
	if liked.Len() == 0 {
		return out, nil
	}

	items, err := s.catalog.Media.ByIDs(ctx, s.catalog.Kind, liked.Sorted())
	if err != nil {
		return nil, fmt.Errorf("fetch liked %s: %w", s.catalog.Kind.Slug(), err)
	}
	for _, item := range items {
		if d, ok := s.catalog.Display(item, liked); ok {
			out = append(out, d)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].AddedOn.Equal(out[j].AddedOn) {
			return out[i].AddedOn.After(out[j].AddedOn)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

// Page lists the catalog newest first, marking liked items. It reads state but
// never records a view.
func (s *Service) Page(ctx context.Context, req paging.Request) (model.Page[model.DisplayItem], error) {
	empty := model.Page[model.DisplayItem]{Items: []model.DisplayItem{}, PageNumber: req.PageNumber, PageSize: req.PageSize, HasPrevious: req.PageNumber > 1}
	if !s.catalog.Resolver.Configured() {
		return empty, nil
	}
	liked, err := s.state.LikedIDs(ctx)
	if err != nil {
		return empty, fmt.Errorf("read liked %s: %w", s.catalog.Kind.Slug(), err)
	}
	rows, err := s.catalog.Media.List(ctx, s.catalog.Kind, req.Offset(), req.FetchLimit())
	if err != nil {
		return empty, fmt.Errorf("list %s: %w", s.catalog.Kind.Slug(), err)
	}
	page := paging.Trim(rows, req)
	out := make([]model.DisplayItem, 0, len(page.Items))
	for _, item := range page.Items {
		if d, ok := s.catalog.Display(item, liked); ok {
			out = append(out, d)
		}
	}
	return paging.WithItems(page, out), nil
}

func (s *Service) addViewed(ctx context.Context, id int64) error {
	err := s.state.AddViewed(ctx, id)
	metrics.RecordStateOp(s.catalog.Kind.Slug(), "add_viewed", err)
	if err != nil {
		return fmt.Errorf("add viewed %s %d: %w", s.catalog.Kind.Slug(), id, err)
	}
	return nil
}
