package badgerstore

import (
	"context"
	"testing"

	"github.com/dgraph-io/badger/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pa816859-hue/shiny-octo-succotash/internal/model"
	"github.com/pa816859-hue/shiny-octo-succotash/internal/statestore"
	"github.com/pa816859-hue/shiny-octo-succotash/internal/statestore/statetest"
)

func openTestDB(t *testing.T) *badger.DB {
	t.Helper()
	db, err := OpenInMemory()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestBadgerStore_Compliance(t *testing.T) {
	statetest.Run(t, func(t *testing.T) statestore.Store {
		return New(openTestDB(t), model.KindPhoto)
	})
}

func TestBadgerStore_KeyLayout(t *testing.T) {
	db := openTestDB(t)
	s := New(db, model.KindVideo)
	require.NoError(t, s.AddLiked(context.Background(), 17))

	err := db.View(func(txn *badger.Txn) error {
		_, err := txn.Get([]byte("state:videos:liked:17"))
		return err
	})
	assert.NoError(t, err)
}

func TestBadgerStore_KindsShareDBButNotState(t *testing.T) {
	stores := NewStores(openTestDB(t))
	ctx := context.Background()
	require.NoError(t, stores[model.KindPhoto].AddViewed(ctx, 1))
	require.NoError(t, stores[model.KindVideo].AddViewed(ctx, 2))

	photos, err := stores[model.KindPhoto].ViewedIDs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int64{1}, photos.Sorted())

	videos, err := stores[model.KindVideo].ViewedIDs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int64{2}, videos.Sorted())
}

func TestBadgerStore_PersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	db, err := Open(dir)
	require.NoError(t, err)
	require.NoError(t, New(db, model.KindPhoto).AddLiked(ctx, 99))
	require.NoError(t, db.Close())

	db, err = Open(dir)
	require.NoError(t, err)
	defer db.Close()
	liked, err := New(db, model.KindPhoto).LikedIDs(ctx)
	require.NoError(t, err)
	assert.True(t, liked.Contains(99))
}
