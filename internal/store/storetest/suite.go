package storetest

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pa816859-hue/shiny-octo-succotash/internal/model"
	"github.com/pa816859-hue/shiny-octo-succotash/internal/store"
	"github.com/pa816859-hue/shiny-octo-succotash/internal/tagquery"
)

// Backend is a catalog that can also be seeded.
type Backend interface {
	store.Store
	store.Loader
}

var base = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func at(hours int) time.Time { return base.Add(time.Duration(hours) * time.Hour) }

func ptr[T any](v T) *T { return &v }

// Run exercises a compliance suite against a store implementation.
// makeStore must return a clean, isolated, schema-ready store.
func Run(t *testing.T, makeStore func(t *testing.T) Backend) {
	t.Helper()

	s := makeStore(t)
	ctx := context.Background()
	seed(t, ctx, s)

	t.Run("LatestBatchOrder", func(t *testing.T) {
		items, err := s.Media().LatestBatch(ctx, model.KindPhoto, 50)
		require.NoError(t, err)
		assert.Equal(t, []int64{5, 4, 3, 2, 1}, ids(items))
		assert.Equal(t, model.KindPhoto, items[0].Kind)
		assert.Equal(t, "/srv/media/p5.jpg", items[0].FilePath)
		assert.True(t, items[0].AddedOn.Equal(at(4)), "got %v", items[0].AddedOn)

		items, err = s.Media().LatestBatch(ctx, model.KindPhoto, 2)
		require.NoError(t, err)
		assert.Equal(t, []int64{5, 4}, ids(items))
	})

	t.Run("RandomBatchIsSubset", func(t *testing.T) {
		items, err := s.Media().RandomBatch(ctx, model.KindVideo, 50)
		require.NoError(t, err)
		assert.ElementsMatch(t, []int64{10, 11, 12}, ids(items))

		items, err = s.Media().RandomBatch(ctx, model.KindPhoto, 2)
		require.NoError(t, err)
		assert.Len(t, items, 2)
	})

	t.Run("ByIDs", func(t *testing.T) {
		items, err := s.Media().ByIDs(ctx, model.KindPhoto, []int64{2, 0, -4, 5, 2, 99, 1})
		require.NoError(t, err)
		assert.Equal(t, []int64{5, 2, 1}, ids(items))

		items, err = s.Media().ByIDs(ctx, model.KindPhoto, nil)
		require.NoError(t, err)
		assert.Empty(t, items)
	})

	t.Run("ListPaginates", func(t *testing.T) {
		items, err := s.Media().List(ctx, model.KindPhoto, 2, 2)
		require.NoError(t, err)
		assert.Equal(t, []int64{3, 2}, ids(items))
	})

	t.Run("CandidatesExcludeWins", func(t *testing.T) {
		plan := tagquery.NewQuery([]string{"A"}, []string{"B"}).Plan()
		rows, err := s.Tags().Candidates(ctx, plan, 0, 10)
		require.NoError(t, err)
		assert.Equal(t, []int64{3, 2}, candidateIDs(rows))
	})

	t.Run("CandidatesRequireAllIncludes", func(t *testing.T) {
		plan := tagquery.NewQuery([]string{"a", "b"}, nil).Plan()
		rows, err := s.Tags().Candidates(ctx, plan, 0, 10)
		require.NoError(t, err)
		require.Equal(t, []int64{1}, candidateIDs(rows))
		assert.Equal(t, "B", rows[0].Tag, "both tags included, higher score wins")
	})

	t.Run("CandidatesEmptyPlanListsTaggedPhotos", func(t *testing.T) {
		rows, err := s.Tags().Candidates(ctx, tagquery.Plan{}, 0, 10)
		require.NoError(t, err)
		assert.Equal(t, []int64{4, 3, 2, 1}, candidateIDs(rows))

		rows, err = s.Tags().Candidates(ctx, tagquery.Plan{}, 1, 2)
		require.NoError(t, err)
		assert.Equal(t, []int64{3, 2}, candidateIDs(rows))
	})

	t.Run("CandidatesBestTagPrefersInclude", func(t *testing.T) {
		plan := tagquery.NewQuery([]string{"A"}, nil).Plan()
		rows, err := s.Tags().Candidates(ctx, plan, 0, 10)
		require.NoError(t, err)
		require.Equal(t, []int64{3, 2, 1}, candidateIDs(rows))
		assert.Equal(t, "a", rows[0].Tag)
		assert.Equal(t, "A", rows[2].Tag)
		assert.InDelta(t, 0.1, rows[2].Score, 1e-9)
	})

	t.Run("CandidatesLatestMessage", func(t *testing.T) {
		plan := tagquery.NewQuery([]string{"A"}, nil).Plan()
		rows, err := s.Tags().Candidates(ctx, plan, 0, 10)
		require.NoError(t, err)
		byID := map[int64]model.TagCandidateRow{}
		for _, r := range rows {
			byID[r.PhotoID] = r
		}

		msg := byID[2].Message
		require.NotNil(t, msg)
		assert.Equal(t, int64(501), msg.MessageID)
		assert.Equal(t, "@ann", msg.DisplayName())
		require.NotNil(t, msg.Text)
		assert.Equal(t, "newer", *msg.Text)

		assert.Nil(t, byID[3].Message)
	})

	t.Run("ForPhoto", func(t *testing.T) {
		tags, err := s.Tags().ForPhoto(ctx, 1, 0, 10)
		require.NoError(t, err)
		require.Len(t, tags, 2)
		assert.Equal(t, "B", tags[0].Tag)
		assert.Equal(t, "A", tags[1].Tag)

		tags, err = s.Tags().ForPhoto(ctx, 1, 1, 10)
		require.NoError(t, err)
		assert.Len(t, tags, 1)
	})

	t.Run("Summaries", func(t *testing.T) {
		sums, err := s.Tags().Summaries(ctx, 0, 10)
		require.NoError(t, err)
		require.NotEmpty(t, sums)
		assert.Equal(t, model.TagSummary{Tag: "A", PhotoCount: 2}, sums[0])
	})

	// Runs last: it adds photos 20..22 to the catalog.
	t.Run("CandidatesCaseInsensitiveUnicode", func(t *testing.T) {
		extra := []struct {
			id   int64
			tags []string
		}{
			{20, []string{"Été", "Sunset"}},
			{21, []string{"Sunset"}},
			{22, []string{"ÉCOLE"}},
		}
		for i, p := range extra {
			require.NoError(t, s.PutMedia(ctx, model.MediaItem{ID: p.id, Kind: model.KindPhoto, FilePath: "/srv/media/u.jpg", AddedOn: at(10 + i)}))
			for _, tag := range p.tags {
				require.NoError(t, s.PutTag(ctx, model.TagAssociation{PhotoID: p.id, Tag: tag, Score: 0.5}))
			}
		}

		cases := []struct {
			name             string
			include, exclude []string
			want             []int64
		}{
			{"ExactSpelling", []string{"Été"}, nil, []int64{20}},
			{"OtherCase", []string{"ÉTÉ"}, nil, []int64{20}},
			{"LowerOfUpperStored", []string{"école"}, nil, []int64{22}},
			{"ExcludeOtherCase", []string{"sunset"}, []string{"été"}, []int64{21}},
			{"ExcludeOnly", nil, []string{"ÉTÉ", "école"}, []int64{21, 4, 3, 2, 1}},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				plan := tagquery.NewQuery(tc.include, tc.exclude).Plan()
				rows, err := s.Tags().Candidates(ctx, plan, 0, 10)
				require.NoError(t, err)
				assert.Equal(t, tc.want, candidateIDs(rows))
			})
		}

		plan := tagquery.NewQuery([]string{"ÉTÉ"}, nil).Plan()
		rows, err := s.Tags().Candidates(ctx, plan, 0, 10)
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, "Été", rows[0].Tag, "stored spelling is surfaced")
	})
}

// seed loads photos 1..5 (5 newest; 4 and 5 share a timestamp), videos 10..12,
// tags photo1{A,B} photo2{A} photo3{a,C} photo4{B}, and two messages on photo 2.
func seed(t *testing.T, ctx context.Context, s Backend) {
	t.Helper()
	photos := []model.MediaItem{
		{ID: 1, FilePath: "/srv/media/p1.jpg", AddedOn: at(0)},
		{ID: 2, FilePath: "/srv/media/p2.jpg", AddedOn: at(1)},
		{ID: 3, FilePath: "/srv/media/p3.jpg", AddedOn: at(2)},
		{ID: 4, FilePath: "/srv/media/p4.jpg", AddedOn: at(4)},
		{ID: 5, FilePath: "/srv/media/p5.jpg", AddedOn: at(4)},
	}
	for _, p := range photos {
		p.Kind = model.KindPhoto
		require.NoError(t, s.PutMedia(ctx, p))
	}
	for i, id := range []int64{10, 11, 12} {
		require.NoError(t, s.PutMedia(ctx, model.MediaItem{ID: id, Kind: model.KindVideo, FilePath: "v.mp4", AddedOn: at(i)}))
	}

	tags := []model.TagAssociation{
		{PhotoID: 1, Tag: "A", Score: 0.1},
		{PhotoID: 1, Tag: "B", Score: 0.2},
		{PhotoID: 2, Tag: "A", Score: 0.9},
		{PhotoID: 3, Tag: "a", Score: 0.5},
		{PhotoID: 3, Tag: "C", Score: 0.7},
		{PhotoID: 4, Tag: "B", Score: 0.3},
	}
	for _, a := range tags {
		require.NoError(t, s.PutTag(ctx, a))
	}

	require.NoError(t, s.PutUser(ctx, store.UserRecord{ID: 7, Username: ptr("ann")}))
	require.NoError(t, s.PutMessage(ctx, store.MessageRecord{
		ChannelID: 1, MessageID: 500, UserID: ptr(int64(7)), SentDate: at(1), Text: ptr("older"), PhotoID: ptr(int64(2)),
	}))
	require.NoError(t, s.PutMessage(ctx, store.MessageRecord{
		ChannelID: 1, MessageID: 501, UserID: ptr(int64(7)), SentDate: at(3), Text: ptr("newer"), PhotoID: ptr(int64(2)),
	}))
}

func ids(items []model.MediaItem) []int64 {
	out := make([]int64, 0, len(items))
	for _, it := range items {
		out = append(out, it.ID)
	}
	return out
}

func candidateIDs(rows []model.TagCandidateRow) []int64 {
	out := make([]int64, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.PhotoID)
	}
	return out
}
