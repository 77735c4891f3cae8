// Package statetest is the compliance suite every statestore backend runs.
package statetest

import (
	"context"
	"sync"
	"testing"

	"github.com/pa816859-hue/shiny-octo-succotash/internal/statestore"
)

// Run exercises the statestore.Store contract. newStore must return an empty,
// isolated store on every call.
func Run(t *testing.T, newStore func(t *testing.T) statestore.Store) {
	t.Helper()
	ctx := context.Background()

	t.Run("EmptyOnFirstRead", func(t *testing.T) {
		s := newStore(t)
		viewed, err := s.ViewedIDs(ctx)
		if err != nil {
			t.Fatalf("ViewedIDs: %v", err)
		}
		liked, err := s.LikedIDs(ctx)
		if err != nil {
			t.Fatalf("LikedIDs: %v", err)
		}
		if viewed.Len() != 0 || liked.Len() != 0 {
			t.Fatalf("expected empty sets, got viewed=%v liked=%v", viewed, liked)
		}
	})

	t.Run("AddViewedIsIdempotent", func(t *testing.T) {
		s := newStore(t)
		for i := 0; i < 2; i++ {
			if err := s.AddViewed(ctx, 42); err != nil {
				t.Fatalf("AddViewed: %v", err)
			}
		}
		viewed := mustViewed(t, s)
		if viewed.Len() != 1 || !viewed.Contains(42) {
			t.Fatalf("expected {42}, got %v", viewed.Sorted())
		}
	})

	t.Run("NonPositiveIDsIgnored", func(t *testing.T) {
		s := newStore(t)
		for _, id := range []int64{0, -1} {
			if err := s.AddViewed(ctx, id); err != nil {
				t.Fatalf("AddViewed(%d): %v", id, err)
			}
			if err := s.AddLiked(ctx, id); err != nil {
				t.Fatalf("AddLiked(%d): %v", id, err)
			}
			removed, err := s.RemoveLiked(ctx, id)
			if err != nil || removed {
				t.Fatalf("RemoveLiked(%d): removed=%v err=%v", id, removed, err)
			}
		}
		if n := mustViewed(t, s).Len(); n != 0 {
			t.Fatalf("expected no viewed ids, got %d", n)
		}
		if n := mustLiked(t, s).Len(); n != 0 {
			t.Fatalf("expected no liked ids, got %d", n)
		}
	})

	t.Run("RemoveLikedAbsentReturnsFalse", func(t *testing.T) {
		s := newStore(t)
		if err := s.AddLiked(ctx, 3); err != nil {
			t.Fatalf("AddLiked: %v", err)
		}
		removed, err := s.RemoveLiked(ctx, 4)
		if err != nil {
			t.Fatalf("RemoveLiked: %v", err)
		}
		if removed {
			t.Fatalf("expected removed=false for absent id")
		}
		if liked := mustLiked(t, s); liked.Len() != 1 || !liked.Contains(3) {
			t.Fatalf("liked set mutated: %v", liked.Sorted())
		}
	})

	t.Run("LikeThenUnlike", func(t *testing.T) {
		s := newStore(t)
		if err := s.AddViewed(ctx, 7); err != nil {
			t.Fatalf("AddViewed: %v", err)
		}
		if err := s.AddLiked(ctx, 7); err != nil {
			t.Fatalf("AddLiked: %v", err)
		}
		if err := s.AddLiked(ctx, 8); err != nil {
			t.Fatalf("AddLiked: %v", err)
		}
		removed, err := s.RemoveLiked(ctx, 7)
		if err != nil || !removed {
			t.Fatalf("RemoveLiked: removed=%v err=%v", removed, err)
		}
		liked := mustLiked(t, s)
		if liked.Contains(7) || !liked.Contains(8) {
			t.Fatalf("unexpected liked set %v", liked.Sorted())
		}
		if !mustViewed(t, s).Contains(7) {
			t.Fatalf("unlike must not touch viewed")
		}

		removed, err = s.RemoveLiked(ctx, 8)
		if err != nil || !removed {
			t.Fatalf("RemoveLiked last: removed=%v err=%v", removed, err)
		}
		if n := mustLiked(t, s).Len(); n != 0 {
			t.Fatalf("expected empty liked set, got %d", n)
		}
	})

	t.Run("ConcurrentAddsAreNotLost", func(t *testing.T) {
		s := newStore(t)
		const n = 40
		var wg sync.WaitGroup
		errs := make(chan error, n)
		for i := 1; i <= n; i++ {
			wg.Add(1)
			go func(id int64) {
				defer wg.Done()
				if err := s.AddViewed(ctx, id); err != nil {
					errs <- err
				}
			}(int64(i))
		}
		wg.Wait()
		close(errs)
		for err := range errs {
			t.Fatalf("AddViewed: %v", err)
		}
		if got := mustViewed(t, s).Len(); got != n {
			t.Fatalf("expected %d viewed ids, got %d", n, got)
		}
	})
}

func mustViewed(t *testing.T, s statestore.Store) statestore.Set {
	t.Helper()
	v, err := s.ViewedIDs(context.Background())
	if err != nil {
		t.Fatalf("ViewedIDs: %v", err)
	}
	return v
}

func mustLiked(t *testing.T, s statestore.Store) statestore.Set {
	t.Helper()
	v, err := s.LikedIDs(context.Background())
	if err != nil {
		t.Fatalf("LikedIDs: %v", err)
	}
	return v
}
