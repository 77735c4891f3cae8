package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/pa816859-hue/shiny-octo-succotash/internal/api/respond"
	"github.com/pa816859-hue/shiny-octo-succotash/internal/api/validate"
	"github.com/pa816859-hue/shiny-octo-succotash/internal/feed"
	"github.com/pa816859-hue/shiny-octo-succotash/internal/model"
	"github.com/pa816859-hue/shiny-octo-succotash/internal/paging"
)

// ItemResponse wraps a feed item. Item is null when nothing is available.
type ItemResponse struct {
	Item *model.DisplayItem `json:"item"`
}

type UnlikeResponse struct {
	Removed bool `json:"removed"`
}

type LikedResponse struct {
	Items []model.DisplayItem `json:"items"`
}

// FeedHandler serves the per-kind feeds under /api/{kind}.
type FeedHandler struct {
	feeds           map[model.Kind]*feed.Service
	defaultPageSize int
	maxPageSize     int
}

func NewFeedHandler(feeds map[model.Kind]*feed.Service, defaultPageSize, maxPageSize int) *FeedHandler {
	if defaultPageSize < 1 {
		defaultPageSize = paging.DefaultPageSize
	}
	return &FeedHandler{feeds: feeds, defaultPageSize: defaultPageSize, maxPageSize: maxPageSize}
}

func (h *FeedHandler) feed(w http.ResponseWriter, r *http.Request) (*feed.Service, bool) {
	kind, err := model.ParseKind(mux.Vars(r)["kind"])
	if err != nil {
		respond.WriteNotFound(w, err.Error())
		return nil, false
	}
	svc, ok := h.feeds[kind]
	if !ok {
		respond.WriteNotFound(w, "no feed for "+kind.Slug())
		return nil, false
	}
	return svc, true
}

// Next handles GET /api/{kind}/next
func (h *FeedHandler) Next(w http.ResponseWriter, r *http.Request) {
	svc, ok := h.feed(w, r)
	if !ok {
		return
	}
	item, err := svc.Next(r.Context())
	if err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, ItemResponse{Item: item})
}

// Skip handles POST /api/{kind}/skip
func (h *FeedHandler) Skip(w http.ResponseWriter, r *http.Request) {
	svc, ok := h.feed(w, r)
	if !ok {
		return
	}
	id, err := validate.DecodeID(r.Body)
	if err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	item, err := svc.Skip(r.Context(), id)
	if err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, ItemResponse{Item: item})
}

// Like handles POST /api/{kind}/like
func (h *FeedHandler) Like(w http.ResponseWriter, r *http.Request) {
	svc, ok := h.feed(w, r)
	if !ok {
		return
	}
	id, err := validate.DecodeID(r.Body)
	if err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	item, err := svc.Like(r.Context(), id)
	if err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, ItemResponse{Item: item})
}

// Unlike handles POST /api/{kind}/unlike
func (h *FeedHandler) Unlike(w http.ResponseWriter, r *http.Request) {
	svc, ok := h.feed(w, r)
	if !ok {
		return
	}
	id, err := validate.DecodeID(r.Body)
	if err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	removed, err := svc.Unlike(r.Context(), id)
	if err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, UnlikeResponse{Removed: removed})
}

// Liked handles GET /api/{kind}/liked
func (h *FeedHandler) Liked(w http.ResponseWriter, r *http.Request) {
	svc, ok := h.feed(w, r)
	if !ok {
		return
	}
	items, err := svc.Liked(r.Context())
	if err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, LikedResponse{Items: items})
}

// List handles GET /api/{kind}?page=&pageSize=
func (h *FeedHandler) List(w http.ResponseWriter, r *http.Request) {
	svc, ok := h.feed(w, r)
	if !ok {
		return
	}
	page, size, err := pageParams(r, h.defaultPageSize)
	if err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	req, err := paging.Normalize(page, size, h.maxPageSize)
	if err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	out, err := svc.Page(r.Context(), req)
	if err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, out)
}

func pageParams(r *http.Request, defaultSize int) (int, int, error) {
	q := r.URL.Query()
	page, err := validate.PositiveInt("page", q.Get("page"), 1)
	if err != nil {
		return 0, 0, err
	}
	size, err := validate.PositiveInt("pageSize", q.Get("pageSize"), defaultSize)
	if err != nil {
		return 0, 0, err
	}
	return page, size, nil
}
