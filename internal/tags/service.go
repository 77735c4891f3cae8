// Package tags resolves include/exclude tag sets into ranked, paginated photos.
package tags

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/pa816859-hue/shiny-octo-succotash/internal/mediapath"
	"github.com/pa816859-hue/shiny-octo-succotash/internal/metrics"
	"github.com/pa816859-hue/shiny-octo-succotash/internal/model"
	"github.com/pa816859-hue/shiny-octo-succotash/internal/paging"
	"github.com/pa816859-hue/shiny-octo-succotash/internal/store"
	"github.com/pa816859-hue/shiny-octo-succotash/internal/tagquery"
)

const DefaultPhotoTagLimit = 12

type Options struct {
	MaxPageSize   int
	PhotoTagLimit int
}

// QueryResult echoes the normalized tag sets next to the matching page.
type QueryResult struct {
	Include []string                      `json:"include"`
	Exclude []string                      `json:"exclude"`
	Photos  model.Page[model.TaggedPhoto] `json:"photos"`
}

type Service struct {
	tags     store.Tags
	resolver *mediapath.Resolver
	opts     Options
	log      zerolog.Logger
}

func NewService(tags store.Tags, resolver *mediapath.Resolver, opts Options, log zerolog.Logger) *Service {
	if opts.MaxPageSize < 1 {
		opts.MaxPageSize = paging.MaxPageSize
	}
	if opts.PhotoTagLimit < 1 {
		opts.PhotoTagLimit = DefaultPhotoTagLimit
	}
	return &Service{tags: tags, resolver: resolver, opts: opts, log: log}
}

// Query returns photos carrying every include tag and no exclude tag, newest first.
func (s *Service) Query(ctx context.Context, include, exclude []string, page, size int) (*QueryResult, error) {
	req, err := s.pageRequest(page, size)
	if err != nil {
		return nil, err
	}
	q := tagquery.NewQuery(include, exclude)

	start := time.Now()
	rows, err := s.tags.Candidates(ctx, q.Plan(), req.Offset(), req.FetchLimit())
	metrics.RecordTagQuery(len(q.Include), len(q.Exclude), time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("tag candidates: %w", err)
	}

	trimmed := paging.Trim(rows, req)
	photos := make([]model.TaggedPhoto, 0, len(trimmed.Items))
	for _, row := range trimmed.Items {
		p, err := s.taggedPhoto(ctx, row)
		if err != nil {
			return nil, err
		}
		photos = append(photos, p)
	}

	s.log.Debug().
		Strs("include", q.Include).
		Strs("exclude", q.Exclude).
		Int("page", req.PageNumber).
		Int("results", len(photos)).
		Msg("tag query")

	return &QueryResult{
		Include: q.Include,
		Exclude: q.Exclude,
		Photos:  paging.WithItems(trimmed, photos),
	}, nil
}

// Detail lists photos carrying a single tag.
func (s *Service) Detail(ctx context.Context, tag string, page, size int) (*QueryResult, error) {
	if strings.TrimSpace(tag) == "" {
		return nil, model.NewValidationError("tag", "tag is required")
	}
	return s.Query(ctx, []string{tag}, nil, page, size)
}

// Index pages through tags by photo count.
func (s *Service) Index(ctx context.Context, page, size int) (model.Page[model.TagSummary], error) {
	req, err := s.pageRequest(page, size)
	if err != nil {
		return model.Page[model.TagSummary]{}, err
	}
	rows, err := s.tags.Summaries(ctx, req.Offset(), req.FetchLimit())
	if err != nil {
		return model.Page[model.TagSummary]{}, fmt.Errorf("tag summaries: %w", err)
	}
	return paging.Trim(rows, req), nil
}

// PhotoTags returns a photo's tags by score.
func (s *Service) PhotoTags(ctx context.Context, photoID int64, offset, limit int) ([]model.PhotoTag, error) {
	if photoID <= 0 {
		return []model.PhotoTag{}, nil
	}
	out, err := s.tags.ForPhoto(ctx, photoID, paging.NormalizeOffset(offset), paging.ClampPageSize(limit, s.opts.MaxPageSize))
	if err != nil {
		return nil, fmt.Errorf("photo %d tags: %w", photoID, err)
	}
	if out == nil {
		out = []model.PhotoTag{}
	}
	return out, nil
}

func (s *Service) pageRequest(page, size int) (paging.Request, error) {
	if size < 1 {
		return paging.Request{}, model.NewValidationError("pageSize", "page size must be greater than or equal to 1")
	}
	return paging.Normalize(page, size, s.opts.MaxPageSize)
}

func (s *Service) taggedPhoto(ctx context.Context, row model.TagCandidateRow) (model.TaggedPhoto, error) {
	tags, err := s.PhotoTags(ctx, row.PhotoID, 0, s.opts.PhotoTagLimit)
	if err != nil {
		return model.TaggedPhoto{}, err
	}
	p := model.TaggedPhoto{
		PhotoID: row.PhotoID,
		Path:    s.resolver.RelativePath(row.PhotoPath),
		AddedOn: row.PhotoAddedOn,
		BestTag: model.PhotoTag{Tag: row.Tag, Score: row.Score},
		Tags:    tags,
		Message: row.Message,
	}
	if row.Message != nil {
		p.DisplayName = row.Message.DisplayName()
	}
	return p, nil
}
