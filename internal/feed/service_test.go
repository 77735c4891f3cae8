package feed

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pa816859-hue/shiny-octo-succotash/internal/mediapath"
	"github.com/pa816859-hue/shiny-octo-succotash/internal/model"
	"github.com/pa816859-hue/shiny-octo-succotash/internal/paging"
	"github.com/pa816859-hue/shiny-octo-succotash/internal/statestore"
	"github.com/pa816859-hue/shiny-octo-succotash/internal/statestore/file"
)

const root = "/srv/media"

var base = time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

func item(kind model.Kind, id int64) model.MediaItem {
	return model.MediaItem{
		ID:       id,
		Kind:     kind,
		FilePath: fmt.Sprintf("%s/%s/%d.bin", root, kind.Slug(), id),
		AddedOn:  base.Add(time.Duration(id) * time.Minute),
	}
}

func items(kind model.Kind, ids ...int64) []model.MediaItem {
	out := make([]model.MediaItem, 0, len(ids))
	for _, id := range ids {
		out = append(out, item(kind, id))
	}
	return out
}

// fakeMedia returns the same configured batch on every call.
type fakeMedia struct {
	mu          sync.Mutex
	batch       []model.MediaItem
	all         []model.MediaItem
	err         error
	randomCalls int
	latestCalls int
}

func (f *fakeMedia) RandomBatch(ctx context.Context, kind model.Kind, n int) ([]model.MediaItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.randomCalls++
	return f.batch, f.err
}

func (f *fakeMedia) LatestBatch(ctx context.Context, kind model.Kind, n int) ([]model.MediaItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.latestCalls++
	return f.batch, f.err
}

func (f *fakeMedia) ByIDs(ctx context.Context, kind model.Kind, ids []int64) ([]model.MediaItem, error) {
	want := statestore.NewSet(ids...)
	var out []model.MediaItem
	for _, it := range f.all {
		if want.Contains(it.ID) {
			out = append(out, it)
		}
	}
	return out, f.err
}

func (f *fakeMedia) List(ctx context.Context, kind model.Kind, offset, limit int) ([]model.MediaItem, error) {
	if offset >= len(f.all) {
		return nil, f.err
	}
	out := f.all[offset:]
	if limit < len(out) {
		out = out[:limit]
	}
	return out, f.err
}

func newPhotoFeed(t *testing.T, media *fakeMedia) (*Service, statestore.Store) {
	t.Helper()
	state := file.New(t.TempDir(), model.KindPhoto)
	return New(model.KindPhoto, media, state, mediapath.NewResolver(root), Options{}, zerolog.Nop()), state
}

func TestNext_ReturnsTheOnlyUnviewedCandidate(t *testing.T) {
	ctx := context.Background()
	ids := make([]int64, 0, 50)
	for i := int64(1); i <= 50; i++ {
		ids = append(ids, i)
	}
	media := &fakeMedia{batch: items(model.KindPhoto, ids...)}
	svc, state := newPhotoFeed(t, media)
	for _, id := range ids {
		if id != 37 {
			require.NoError(t, state.AddViewed(ctx, id))
		}
	}

	got, err := svc.Next(ctx)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, int64(37), got.ID)
	assert.Equal(t, 1, media.randomCalls)

	viewed, err := state.ViewedIDs(ctx)
	require.NoError(t, err)
	assert.Equal(t, 50, viewed.Len())
}

func TestNext_ExhaustionReturnsNothing(t *testing.T) {
	ctx := context.Background()
	media := &fakeMedia{batch: items(model.KindPhoto, 1, 2, 3)}
	svc, state := newPhotoFeed(t, media)
	for _, id := range []int64{1, 2, 3} {
		require.NoError(t, state.AddViewed(ctx, id))
	}

	got, err := svc.Next(ctx)
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.Equal(t, DefaultMaxAttempts, media.randomCalls)
}

func TestNext_EndToEnd(t *testing.T) {
	ctx := context.Background()
	media := &fakeMedia{batch: items(model.KindPhoto, 5, 7, 9)}
	svc, state := newPhotoFeed(t, media)

	first, err := svc.Next(ctx)
	require.NoError(t, err)
	require.NotNil(t, first)
	assert.Equal(t, int64(5), first.ID)
	assert.Equal(t, "/media/photos/5.bin", first.SourceURL)
	assert.False(t, first.Liked)

	viewed, err := state.ViewedIDs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int64{5}, viewed.Sorted())

	second, err := svc.Next(ctx)
	require.NoError(t, err)
	require.NotNil(t, second)
	assert.Equal(t, int64(7), second.ID)
}

func TestNext_DropsUnservableCandidates(t *testing.T) {
	batch := items(model.KindPhoto, 1, 2)
	batch[0].FilePath = "  "
	svc, _ := newPhotoFeed(t, &fakeMedia{batch: batch})

	got, err := svc.Next(context.Background())
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, int64(2), got.ID)
}

func TestNext_DataSourceErrorIsNotRetried(t *testing.T) {
	media := &fakeMedia{err: errors.New("connection reset")}
	svc, _ := newPhotoFeed(t, media)

	_, err := svc.Next(context.Background())
	require.Error(t, err)
	assert.Equal(t, 1, media.randomCalls)
}

func TestNext_WithoutMediaRoot(t *testing.T) {
	media := &fakeMedia{batch: items(model.KindPhoto, 1), all: items(model.KindPhoto, 1)}
	state := file.New(t.TempDir(), model.KindPhoto)
	svc := New(model.KindPhoto, media, state, mediapath.NewResolver(""), Options{}, zerolog.Nop())
	ctx := context.Background()
	require.NoError(t, state.AddLiked(ctx, 1))

	got, err := svc.Next(ctx)
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.Zero(t, media.randomCalls)

	liked, err := svc.Liked(ctx)
	require.NoError(t, err)
	assert.Empty(t, liked)
}

func TestLikeAndUnlike(t *testing.T) {
	ctx := context.Background()
	media := &fakeMedia{batch: items(model.KindPhoto, 3, 4)}
	svc, state := newPhotoFeed(t, media)

	next, err := svc.Like(ctx, 3)
	require.NoError(t, err)
	require.NotNil(t, next)
	assert.Equal(t, int64(4), next.ID)

	viewed, err := state.ViewedIDs(ctx)
	require.NoError(t, err)
	liked, err := state.LikedIDs(ctx)
	require.NoError(t, err)
	assert.True(t, viewed.Contains(3))
	assert.True(t, liked.Contains(3))

	removed, err := svc.Unlike(ctx, 3)
	require.NoError(t, err)
	assert.True(t, removed)

	viewed, err = state.ViewedIDs(ctx)
	require.NoError(t, err)
	liked, err = state.LikedIDs(ctx)
	require.NoError(t, err)
	assert.True(t, viewed.Contains(3))
	assert.False(t, liked.Contains(3))

	removed, err = svc.Unlike(ctx, 3)
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestSkip_NonPositiveIDIsNoop(t *testing.T) {
	ctx := context.Background()
	svc, state := newPhotoFeed(t, &fakeMedia{batch: items(model.KindPhoto, 8)})

	got, err := svc.Skip(ctx, 0)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, int64(8), got.ID)

	viewed, err := state.ViewedIDs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int64{8}, viewed.Sorted())
}

func TestSkip_MarksUnservedItem(t *testing.T) {
	ctx := context.Background()
	svc, state := newPhotoFeed(t, &fakeMedia{batch: items(model.KindPhoto, 1, 2)})

	got, err := svc.Skip(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, int64(2), got.ID)

	viewed, err := state.ViewedIDs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2}, viewed.Sorted())
}

func TestLiked_OrderedNewestFirst(t *testing.T) {
	ctx := context.Background()
	all := items(model.KindPhoto, 1, 2, 3, 4)
	all[3].AddedOn = all[2].AddedOn // 3 and 4 tie on time
	all[0].FilePath = ""
	media := &fakeMedia{all: all}
	svc, state := newPhotoFeed(t, media)
	for _, id := range []int64{1, 2, 3, 4} {
		require.NoError(t, state.AddLiked(ctx, id))
	}

	got, err := svc.Liked(ctx)
	require.NoError(t, err)
	ids := make([]int64, 0, len(got))
	for _, d := range got {
		ids = append(ids, d.ID)
		assert.True(t, d.Liked)
	}
	assert.Equal(t, []int64{4, 3, 2}, ids)
}

func TestLiked_EmptyState(t *testing.T) {
	svc, _ := newPhotoFeed(t, &fakeMedia{})
	got, err := svc.Liked(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

type brokenState struct{ statestore.Store }

func (brokenState) ViewedIDs(context.Context) (statestore.Set, error) {
	return nil, errors.New("permission denied")
}

func TestNext_StateErrorPropagates(t *testing.T) {
	svc := New(model.KindPhoto, &fakeMedia{}, brokenState{}, mediapath.NewResolver(root), Options{}, zerolog.Nop())
	_, err := svc.Next(context.Background())
	assert.ErrorContains(t, err, "permission denied")
}

func newVideoFeed(t *testing.T, media *fakeMedia) (*Service, statestore.Store) {
	t.Helper()
	state := file.New(t.TempDir(), model.KindVideo)
	opts := Options{Rand: rand.New(rand.NewSource(1))}
	return New(model.KindVideo, media, state, mediapath.NewResolver(root), opts, zerolog.Nop()), state
}

func TestVideoNext_PrefersUnwatched(t *testing.T) {
	ctx := context.Background()
	media := &fakeMedia{batch: items(model.KindVideo, 1, 2, 3)}
	svc, state := newVideoFeed(t, media)
	require.NoError(t, state.AddViewed(ctx, 1))
	require.NoError(t, state.AddViewed(ctx, 2))

	got, err := svc.Next(ctx)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, int64(3), got.ID)
	assert.Equal(t, model.KindVideo, got.Kind)
	assert.Equal(t, 1, media.latestCalls)
	assert.Zero(t, media.randomCalls)
}

func TestVideoNext_RecirculatesWhenAllWatched(t *testing.T) {
	ctx := context.Background()
	media := &fakeMedia{batch: items(model.KindVideo, 1, 2, 3)}
	svc, state := newVideoFeed(t, media)
	for _, id := range []int64{1, 2, 3} {
		require.NoError(t, state.AddViewed(ctx, id))
	}

	for i := 0; i < 10; i++ {
		got, err := svc.Next(ctx)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Contains(t, []int64{1, 2, 3}, got.ID)
	}
}

func TestVideoNext_EmptyBatch(t *testing.T) {
	svc, _ := newVideoFeed(t, &fakeMedia{})
	got, err := svc.Next(context.Background())
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestLatestSampler_DeterministicWithSeed(t *testing.T) {
	c := Catalog{Kind: model.KindVideo, Media: &fakeMedia{batch: items(model.KindVideo, 1, 2, 3, 4, 5)}, Resolver: mediapath.NewResolver(root)}
	pick := func() int64 {
		s := LatestSampler{Rand: NewLockedRand(rand.New(rand.NewSource(42)))}
		res, err := s.Sample(context.Background(), c, statestore.NewSet(), statestore.NewSet())
		require.NoError(t, err)
		require.NotNil(t, res.Item)
		return res.Item.ID
	}
	assert.Equal(t, pick(), pick())
}

func TestPage_MarksLikedWithoutRecordingViews(t *testing.T) {
	ctx := context.Background()
	media := &fakeMedia{all: items(model.KindPhoto, 9, 8, 7)}
	svc, state := newPhotoFeed(t, media)
	require.NoError(t, state.AddLiked(ctx, 8))

	page, err := svc.Page(ctx, paging.Request{PageNumber: 1, PageSize: 2})
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	assert.Equal(t, int64(9), page.Items[0].ID)
	assert.True(t, page.Items[1].Liked)
	assert.True(t, page.HasNext)
	assert.False(t, page.HasPrevious)

	page, err = svc.Page(ctx, paging.Request{PageNumber: 2, PageSize: 2})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.False(t, page.HasNext)
	assert.True(t, page.HasPrevious)

	viewed, err := state.ViewedIDs(ctx)
	require.NoError(t, err)
	assert.Zero(t, viewed.Len())
}

// emptyFirstMedia returns no rows for the first emptyCalls random draws.
type emptyFirstMedia struct {
	*fakeMedia
	emptyCalls int
}

func (f *emptyFirstMedia) RandomBatch(ctx context.Context, kind model.Kind, n int) ([]model.MediaItem, error) {
	batch, err := f.fakeMedia.RandomBatch(ctx, kind, n)
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.randomCalls <= f.emptyCalls {
		return nil, err
	}
	return batch, err
}

func TestNext_EmptyBatchesSpendAttempts(t *testing.T) {
	ctx := context.Background()

	media := &emptyFirstMedia{fakeMedia: &fakeMedia{batch: items(model.KindPhoto, 8)}, emptyCalls: 2}
	svc := New(model.KindPhoto, media, file.New(t.TempDir(), model.KindPhoto), mediapath.NewResolver(root), Options{}, zerolog.Nop())
	got, err := svc.Next(ctx)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, int64(8), got.ID)
	assert.Equal(t, 3, media.randomCalls)

	empty := &fakeMedia{}
	svc, _ = newPhotoFeed(t, empty)
	got, err = svc.Next(ctx)
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.Equal(t, DefaultMaxAttempts, empty.randomCalls)
}
