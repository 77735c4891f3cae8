// Package redisstore keeps interaction state in Redis sets so several service
// instances can share it.
package redisstore

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"github.com/redis/go-redis/v9"

	"github.com/pa816859-hue/shiny-octo-succotash/internal/model"
	"github.com/pa816859-hue/shiny-octo-succotash/internal/statestore"
)

// DefaultNamespace prefixes every key.
const DefaultNamespace = "mediagallery"

// NewClient returns a client for addr on DB 0.
func NewClient(addr string) *redis.Client {
	return redis.NewClient(&redis.Options{Addr: addr, DB: 0})
}

// Store keeps one kind's viewed and liked ids in two sets.
type Store struct {
	mu     sync.Mutex
	rdb    redis.UniversalClient
	viewed string
	liked  string
}

var _ statestore.Store = (*Store)(nil)

// New returns a store for kind whose keys live under namespace.
func New(rdb redis.UniversalClient, namespace string, kind model.Kind) *Store {
	if namespace == "" {
		namespace = DefaultNamespace
	}
	base := namespace + ":" + kind.Slug() + ":"
	return &Store{
		rdb:    rdb,
		viewed: base + string(statestore.Viewed),
		liked:  base + string(statestore.Liked),
	}
}

// NewStores builds a store for every kind on one client.
func NewStores(rdb redis.UniversalClient, namespace string) statestore.Stores {
	out := make(statestore.Stores, len(model.Kinds))
	for _, k := range model.Kinds {
		out[k] = New(rdb, namespace, k)
	}
	return out
}

func (s *Store) ViewedIDs(ctx context.Context) (statestore.Set, error) {
	return s.members(ctx, s.viewed)
}

func (s *Store) LikedIDs(ctx context.Context) (statestore.Set, error) {
	return s.members(ctx, s.liked)
}

func (s *Store) AddViewed(ctx context.Context, id int64) error {
	return s.add(ctx, s.viewed, id)
}

func (s *Store) AddLiked(ctx context.Context, id int64) error {
	return s.add(ctx, s.liked, id)
}

func (s *Store) RemoveLiked(ctx context.Context, id int64) (bool, error) {
	if id <= 0 {
		return false, nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	n, err := s.rdb.SRem(ctx, s.liked, strconv.FormatInt(id, 10)).Result()
	if err != nil {
		return false, fmt.Errorf("srem %s: %w", s.liked, err)
	}
	return n > 0, nil
}

// HealthPing implements health.HealthPinger.
func (s *Store) HealthPing(ctx context.Context) error {
	return s.rdb.Ping(ctx).Err()
}

func (s *Store) add(ctx context.Context, key string, id int64) error {
	if id <= 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.rdb.SAdd(ctx, key, strconv.FormatInt(id, 10)).Err(); err != nil {
		return fmt.Errorf("sadd %s: %w", key, err)
	}
	return nil
}

func (s *Store) members(ctx context.Context, key string) (statestore.Set, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.rdb.SMembers(ctx, key).Result()
	if err != nil {
		return nil, fmt.Errorf("smembers %s: %w", key, err)
	}
	out := make(statestore.Set, len(items))
	for _, v := range items {
		if id, e := strconv.ParseInt(v, 10, 64); e == nil && id > 0 {
			out.Add(id)
		}
	}
	return out, nil
}
