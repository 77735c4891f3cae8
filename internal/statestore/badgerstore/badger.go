// Package badgerstore keeps interaction state in an embedded BadgerDB, one key per id.
package badgerstore

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/rs/zerolog"

	"github.com/pa816859-hue/shiny-octo-succotash/internal/model"
	"github.com/pa816859-hue/shiny-octo-succotash/internal/statestore"
)

const keyPrefix = "state:"

// Open opens (or creates) the database at path with small value log files and
// synchronous writes.
func Open(path string) (*badger.DB, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil
	opts.ValueLogFileSize = 16 << 20
	opts.SyncWrites = true

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger state db: %w", err)
	}
	return db, nil
}

// OpenInMemory opens a throwaway database for tests.
func OpenInMemory() (*badger.DB, error) {
	return badger.Open(badger.DefaultOptions("").WithInMemory(true).WithLogger(nil))
}

// Store is the interaction state of one kind inside a shared database.
type Store struct {
	mu     sync.Mutex
	db     *badger.DB
	viewed string
	liked  string
}

var _ statestore.Store = (*Store)(nil)

func New(db *badger.DB, kind model.Kind) *Store {
	return &Store{
		db:     db,
		viewed: prefixFor(statestore.Viewed, kind),
		liked:  prefixFor(statestore.Liked, kind),
	}
}

// NewStores builds a store for every kind on one database.
func NewStores(db *badger.DB) statestore.Stores {
	out := make(statestore.Stores, len(model.Kinds))
	for _, k := range model.Kinds {
		out[k] = New(db, k)
	}
	return out
}

func prefixFor(s statestore.State, k model.Kind) string {
	return keyPrefix + k.Slug() + ":" + string(s) + ":"
}

func (s *Store) ViewedIDs(ctx context.Context) (statestore.Set, error) {
	return s.scan(s.viewed)
}

func (s *Store) LikedIDs(ctx context.Context) (statestore.Set, error) {
	return s.scan(s.liked)
}

func (s *Store) AddViewed(ctx context.Context, id int64) error {
	return s.put(s.viewed, id)
}

func (s *Store) AddLiked(ctx context.Context, id int64) error {
	return s.put(s.liked, id)
}

func (s *Store) RemoveLiked(ctx context.Context, id int64) (bool, error) {
	if id <= 0 {
		return false, nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := false
	err := s.db.Update(func(txn *badger.Txn) error {
		key := []byte(s.liked + strconv.FormatInt(id, 10))
		if _, err := txn.Get(key); err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return nil
			}
			return err
		}
		if err := txn.Delete(key); err != nil {
			return err
		}
		removed = true
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("remove liked %d: %w", id, err)
	}
	return removed, nil
}

func (s *Store) put(prefix string, id int64) error {
	if id <= 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(prefix+strconv.FormatInt(id, 10)), nil)
	})
	if err != nil {
		return fmt.Errorf("set %s%d: %w", prefix, id, err)
	}
	return nil
}

func (s *Store) scan(prefix string) (statestore.Set, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := statestore.NewSet()
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		p := []byte(prefix)
		for it.Seek(p); it.ValidForPrefix(p); it.Next() {
			raw := string(it.Item().Key()[len(p):])
			id, err := strconv.ParseInt(raw, 10, 64)
			if err != nil || id <= 0 {
				continue
			}
			out.Add(id)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", prefix, err)
	}
	return out, nil
}

// RunGC reclaims value log space until badger reports nothing to rewrite or
// ctx is done, repeating every interval.
func RunGC(ctx context.Context, db *badger.DB, interval time.Duration, log zerolog.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			for {
				err := db.RunValueLogGC(0.5)
				if err == nil {
					continue
				}
				if !errors.Is(err, badger.ErrNoRewrite) && !errors.Is(err, badger.ErrRejected) {
					log.Warn().Err(err).Msg("badger value log gc failed")
				}
				break
			}
		}
	}
}
