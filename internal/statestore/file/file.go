// Package file keeps interaction state in flat text files, one decimal id per line.
package file

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/pa816859-hue/shiny-octo-succotash/internal/model"
	"github.com/pa816859-hue/shiny-octo-succotash/internal/statestore"
)

// Store persists the viewed and liked sets of one kind under dir.
// All operations on a Store are serialized by a single mutex.
type Store struct {
	mu     sync.Mutex
	dir    string
	viewed string
	liked  string
}

var _ statestore.Store = (*Store)(nil)

// New returns a file store for kind rooted at dir. Files are created lazily.
func New(dir string, kind model.Kind) *Store {
	return &Store{
		dir:    dir,
		viewed: filepath.Join(dir, statestore.ResourceName(statestore.Viewed, kind)+".txt"),
		liked:  filepath.Join(dir, statestore.ResourceName(statestore.Liked, kind)+".txt"),
	}
}

// NewStores builds a file store for every kind sharing dir.
func NewStores(dir string) statestore.Stores {
	out := make(statestore.Stores, len(model.Kinds))
	for _, k := range model.Kinds {
		out[k] = New(dir, k)
	}
	return out
}

func (s *Store) ViewedIDs(ctx context.Context) (statestore.Set, error) {
	return s.readSet(s.viewed)
}

func (s *Store) LikedIDs(ctx context.Context) (statestore.Set, error) {
	return s.readSet(s.liked)
}

func (s *Store) AddViewed(ctx context.Context, id int64) error {
	return s.add(s.viewed, id)
}

func (s *Store) AddLiked(ctx context.Context, id int64) error {
	return s.add(s.liked, id)
}

func (s *Store) RemoveLiked(ctx context.Context, id int64) (bool, error) {
	if id <= 0 {
		return false, nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	ids, _, err := readIDs(s.liked)
	if err != nil {
		return false, err
	}
	idx := -1
	for i, v := range ids {
		if v == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return false, nil
	}
	ids = append(ids[:idx], ids[idx+1:]...)

	if len(ids) == 0 {
		if err := os.Remove(s.liked); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return false, fmt.Errorf("remove %s: %w", s.liked, err)
		}
		return true, nil
	}
	if err := rewrite(s.liked, ids); err != nil {
		return false, err
	}
	return true, nil
}

func (s *Store) readSet(path string) (statestore.Set, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids, _, err := readIDs(path)
	if err != nil {
		return nil, err
	}
	return statestore.NewSet(ids...), nil
}

func (s *Store) add(path string, id int64) error {
	if id <= 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	ids, raw, err := readIDs(path)
	if err != nil {
		return err
	}
	for _, v := range ids {
		if v == id {
			return nil
		}
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	line := strconv.FormatInt(id, 10) + "\n"
	if len(raw) > 0 && raw[len(raw)-1] != '\n' {
		line = "\n" + line
	}
	if _, err := f.WriteString(line); err != nil {
		_ = f.Close()
		return fmt.Errorf("append %s: %w", path, err)
	}
	return f.Close()
}

// readIDs parses path in file order. Blank, unparseable and non-positive
// lines are skipped. A missing file yields no ids.
func readIDs(path string) ([]int64, []byte, error) {
	raw, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("read %s: %w", path, err)
	}

	var ids []int64
	sc := bufio.NewScanner(bytes.NewReader(raw))
	for sc.Scan() {
		v, err := strconv.ParseInt(strings.TrimSpace(sc.Text()), 10, 64)
		if err != nil || v <= 0 {
			continue
		}
		ids = append(ids, v)
	}
	if err := sc.Err(); err != nil {
		return nil, nil, fmt.Errorf("scan %s: %w", path, err)
	}
	return ids, raw, nil
}

// rewrite replaces path with ids via a temp file and rename.
func rewrite(path string, ids []int64) error {
	var buf bytes.Buffer
	for _, id := range ids {
		buf.WriteString(strconv.FormatInt(id, 10))
		buf.WriteByte('\n')
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}
