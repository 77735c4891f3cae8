package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"

	"github.com/pa816859-hue/shiny-octo-succotash/internal/model"
	"github.com/pa816859-hue/shiny-octo-succotash/internal/paging"
)

// byIDsChunk bounds the IN list of a single ByIDs query.
const byIDsChunk = 500

type media struct{ s *Store }

func (m *media) RandomBatch(ctx context.Context, kind model.Kind, n int) ([]model.MediaItem, error) {
	tbl, err := table(kind)
	if err != nil {
		return nil, err
	}
	b := m.s.binder()
	q := fmt.Sprintf(`SELECT id, file_path, added_on FROM %s ORDER BY RANDOM() LIMIT %s`,
		tbl, b.Bind(paging.NormalizeLimit(n)))
	return m.query(ctx, kind, q, b.Args()...)
}

func (m *media) LatestBatch(ctx context.Context, kind model.Kind, n int) ([]model.MediaItem, error) {
	return m.List(ctx, kind, 0, n)
}

func (m *media) List(ctx context.Context, kind model.Kind, offset, limit int) ([]model.MediaItem, error) {
	tbl, err := table(kind)
	if err != nil {
		return nil, err
	}
	b := m.s.binder()
	q := fmt.Sprintf(`SELECT id, file_path, added_on FROM %s ORDER BY added_on DESC, id DESC LIMIT %s OFFSET %s`,
		tbl, b.Bind(paging.NormalizeLimit(limit)), b.Bind(paging.NormalizeOffset(offset)))
	return m.query(ctx, kind, q, b.Args()...)
}

func (m *media) ByIDs(ctx context.Context, kind model.Kind, ids []int64) ([]model.MediaItem, error) {
	tbl, err := table(kind)
	if err != nil {
		return nil, err
	}

	uniq := make([]int64, 0, len(ids))
	seen := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		if id <= 0 {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		uniq = append(uniq, id)
	}

	var out []model.MediaItem
	for start := 0; start < len(uniq); start += byIDsChunk {
		end := start + byIDsChunk
		if end > len(uniq) {
			end = len(uniq)
		}
		b := m.s.binder()
		marks := make([]string, 0, end-start)
		for _, id := range uniq[start:end] {
			marks = append(marks, b.Bind(id))
		}
		q := fmt.Sprintf(`SELECT id, file_path, added_on FROM %s WHERE id IN (%s)`, tbl, strings.Join(marks, ", "))
		rows, err := m.query(ctx, kind, q, b.Args()...)
		if err != nil {
			return nil, err
		}
		out = append(out, rows...)
	}

	sort.Slice(out, func(i, j int) bool {
		if !out[i].AddedOn.Equal(out[j].AddedOn) {
			return out[i].AddedOn.After(out[j].AddedOn)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (m *media) query(ctx context.Context, kind model.Kind, q string, args ...any) ([]model.MediaItem, error) {
	rows, err := m.s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", kind.Slug(), err)
	}
	defer rows.Close()

	var out []model.MediaItem
	for rows.Next() {
		var (
			item  model.MediaItem
			path  sql.NullString
			added timeValue
		)
		if err := rows.Scan(&item.ID, &path, &added); err != nil {
			return nil, fmt.Errorf("scan %s: %w", kind.Slug(), err)
		}
		item.Kind = kind
		item.FilePath = path.String
		item.AddedOn = added.Time
		out = append(out, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s: %w", kind.Slug(), err)
	}
	return out, nil
}
