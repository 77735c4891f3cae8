// Package statestore records which media ids have been viewed or liked.
// Every media kind gets its own Store instance.
package statestore

import (
	"context"
	"sort"

	"github.com/pa816859-hue/shiny-octo-succotash/internal/model"
)

// Store is the per-kind interaction state. A missing backing resource reads as
// an empty set, adds are idempotent and ids <= 0 are ignored.
type Store interface {
	ViewedIDs(ctx context.Context) (Set, error)
	LikedIDs(ctx context.Context) (Set, error)
	AddViewed(ctx context.Context, id int64) error
	AddLiked(ctx context.Context, id int64) error
	// RemoveLiked reports whether id was present.
	RemoveLiked(ctx context.Context, id int64) (bool, error)
}

// Stores holds one Store per kind.
type Stores map[model.Kind]Store

// State names one of the two tracked sets.
type State string

const (
	Viewed State = "viewed"
	Liked  State = "liked"
)

// ResourceName is the persisted name for a (state, kind) pair, e.g. "liked-photos".
func ResourceName(s State, k model.Kind) string {
	return string(s) + "-" + k.Slug()
}

// Set is an unordered id set.
type Set map[int64]struct{}

func NewSet(ids ...int64) Set {
	s := make(Set, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

func (s Set) Contains(id int64) bool {
	_, ok := s[id]
	return ok
}

func (s Set) Add(id int64) { s[id] = struct{}{} }

func (s Set) Len() int { return len(s) }

// Sorted returns the ids in ascending order.
func (s Set) Sorted() []int64 {
	out := make([]int64, 0, len(s))
	for id := range s {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
