// Package paging normalizes page requests and derives HasNext by fetching
// one row beyond the requested page size.
package paging

import (
	"github.com/pa816859-hue/shiny-octo-succotash/internal/model"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 500
)

// Request is a validated page request.
type Request struct {
	PageNumber int
	PageSize   int
}

// ClampPageSize forces size into [1, max]. A non-positive max falls back to MaxPageSize.
func ClampPageSize(size, max int) int {
	if max < 1 {
		max = MaxPageSize
	}
	if size < 1 {
		return 1
	}
	if size > max {
		return max
	}
	return size
}

// Normalize validates the page number and clamps the page size.
func Normalize(pageNumber, pageSize, max int) (Request, error) {
	if pageNumber < 1 {
		return Request{}, model.NewValidationError("page", "page number must be greater than or equal to 1")
	}
	return Request{PageNumber: pageNumber, PageSize: ClampPageSize(pageSize, max)}, nil
}

// Offset is the number of rows preceding this page.
func (r Request) Offset() int { return (r.PageNumber - 1) * r.PageSize }

// FetchLimit is the number of rows to request from the source.
func (r Request) FetchLimit() int { return r.PageSize + 1 }

// Trim cuts the over-fetched row and reports whether another page exists.
func Trim[T any](rows []T, r Request) model.Page[T] {
	hasNext := len(rows) > r.PageSize
	if hasNext {
		rows = rows[:r.PageSize]
	}
	if rows == nil {
		rows = []T{}
	}
	return model.Page[T]{
		Items:       rows,
		PageNumber:  r.PageNumber,
		PageSize:    r.PageSize,
		HasNext:     hasNext,
		HasPrevious: r.PageNumber > 1,
	}
}

// WithItems swaps the items of p while keeping its pagination metadata.
// A nil items slice becomes empty.
func WithItems[T, U any](p model.Page[T], items []U) model.Page[U] {
	if items == nil {
		items = []U{}
	}
	return model.Page[U]{
		Items:       items,
		PageNumber:  p.PageNumber,
		PageSize:    p.PageSize,
		HasNext:     p.HasNext,
		HasPrevious: p.HasPrevious,
	}
}

// NormalizeOffset floors negative offsets at zero.
func NormalizeOffset(offset int) int {
	if offset < 0 {
		return 0
	}
	return offset
}

// NormalizeLimit clamps a data-source limit to [1, MaxPageSize+1] so a
// full page plus the look-ahead row always fits.
func NormalizeLimit(limit int) int {
	return ClampPageSize(limit, MaxPageSize+1)
}
