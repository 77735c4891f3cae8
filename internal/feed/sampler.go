package feed

import (
	"context"
	"math/rand"
	"sync"

	"github.com/pa816859-hue/shiny-octo-succotash/internal/mediapath"
	"github.com/pa816859-hue/shiny-octo-succotash/internal/model"
	"github.com/pa816859-hue/shiny-octo-succotash/internal/statestore"
	"github.com/pa816859-hue/shiny-octo-succotash/internal/store"
)

const (
	DefaultBatchSize   = 50
	DefaultMaxAttempts = 5
)

// Catalog is the slice of the data source one feed draws from.
type Catalog struct {
	Kind     model.Kind
	Media    store.Media
	Resolver *mediapath.Resolver
}

// Display resolves item into its display model. ok is false when the path
// cannot be served.
func (c Catalog) Display(item model.MediaItem, liked statestore.Set) (model.DisplayItem, bool) {
	url, ok := c.Resolver.SourceURL(item.FilePath)
	if !ok {
		return model.DisplayItem{}, false
	}
	return model.DisplayItem{
		ID:        item.ID,
		Kind:      c.Kind,
		SourceURL: url,
		AddedOn:   item.AddedOn,
		Liked:     liked.Contains(item.ID),
	}, true
}

// Result is the outcome of one sampling pass. A nil Item means nothing to serve.
type Result struct {
	Item         *model.DisplayItem
	Attempts     int
	Recirculated bool
}

// Sampler picks the next item from a state snapshot. It must not mutate state.
type Sampler interface {
	Sample(ctx context.Context, c Catalog, viewed, liked statestore.Set) (Result, error)
}

// RandomSampler draws random batches until one holds an unviewed item or the
// attempt budget runs out. An empty batch still spends an attempt.
type RandomSampler struct {
	BatchSize   int
	MaxAttempts int
}

func (s RandomSampler) Sample(ctx context.Context, c Catalog, viewed, liked statestore.Set) (Result, error) {
	batchSize := orDefault(s.BatchSize, DefaultBatchSize)
	maxAttempts := orDefault(s.MaxAttempts, DefaultMaxAttempts)

	attempted := make(map[int64]struct{})
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		batch, err := c.Media.RandomBatch(ctx, c.Kind, batchSize)
		if err != nil {
			return Result{Attempts: attempt}, err
		}
		for _, item := range batch {
			if _, seen := attempted[item.ID]; seen {
				continue
			}
			attempted[item.ID] = struct{}{}

			d, ok := c.Display(item, liked)
			if !ok || viewed.Contains(item.ID) {
				continue
			}
			return Result{Item: &d, Attempts: attempt}, nil
		}
	}
	return Result{Attempts: maxAttempts}, nil
}

// LatestSampler picks at random among the unseen items of the newest batch.
// Once the whole batch has been seen it recirculates the batch.
type LatestSampler struct {
	BatchSize int
	Rand      *LockedRand
}

func (s LatestSampler) Sample(ctx context.Context, c Catalog, viewed, liked statestore.Set) (Result, error) {
	batch, err := c.Media.LatestBatch(ctx, c.Kind, orDefault(s.BatchSize, DefaultBatchSize))
	if err != nil {
		return Result{Attempts: 1}, err
	}

	var fresh, all []model.DisplayItem
	for _, item := range batch {
		d, ok := c.Display(item, liked)
		if !ok {
			continue
		}
		all = append(all, d)
		if !viewed.Contains(item.ID) {
			fresh = append(fresh, d)
		}
	}

	pool, recirculated := fresh, false
	if len(pool) == 0 {
		pool, recirculated = all, true
	}
	if len(pool) == 0 {
		return Result{Attempts: 1}, nil
	}
	rng := s.Rand
	if rng == nil {
		rng = NewLockedRand(nil)
	}
	pick := pool[rng.Intn(len(pool))]
	return Result{Item: &pick, Attempts: 1, Recirculated: recirculated}, nil
}

// LockedRand serializes access to a *rand.Rand, which is not safe for concurrent use.
type LockedRand struct {
	mu sync.Mutex
	r  *rand.Rand
}

// NewLockedRand wraps r. A nil r gets a time-seeded source.
func NewLockedRand(r *rand.Rand) *LockedRand {
	if r == nil {
		r = rand.New(rand.NewSource(rand.Int63()))
	}
	return &LockedRand{r: r}
}

func (l *LockedRand) Intn(n int) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.Intn(n)
}

func orDefault(v, def int) int {
	if v < 1 {
		return def
	}
	return v
}
