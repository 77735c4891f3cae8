package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/pa816859-hue/shiny-octo-succotash/internal/api/respond"
	"github.com/pa816859-hue/shiny-octo-succotash/internal/api/validate"
	"github.com/pa816859-hue/shiny-octo-succotash/internal/paging"
	"github.com/pa816859-hue/shiny-octo-succotash/internal/tags"
)

// TagHandler exposes the tag index, tag detail and include/exclude queries.
type TagHandler struct {
	svc             *tags.Service
	defaultPageSize int
}

func NewTagHandler(svc *tags.Service, defaultPageSize int) *TagHandler {
	if defaultPageSize < 1 {
		defaultPageSize = paging.DefaultPageSize
	}
	return &TagHandler{svc: svc, defaultPageSize: defaultPageSize}
}

// Index handles GET /api/tags
func (h *TagHandler) Index(w http.ResponseWriter, r *http.Request) {
	page, size, err := pageParams(r, h.defaultPageSize)
	if err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	out, err := h.svc.Index(r.Context(), page, size)
	if err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, out)
}

// Query handles GET /api/tags/query?include=a&exclude=b
func (h *TagHandler) Query(w http.ResponseWriter, r *http.Request) {
	page, size, err := pageParams(r, h.defaultPageSize)
	if err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	q := r.URL.Query()
	out, err := h.svc.Query(r.Context(), validate.TagList(q["include"]), validate.TagList(q["exclude"]), page, size)
	if err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, out)
}

// Detail handles GET /api/tags/{tag}
func (h *TagHandler) Detail(w http.ResponseWriter, r *http.Request) {
	tag := mux.Vars(r)["tag"]
	if err := validate.NonEmpty("tag", tag); err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	page, size, err := pageParams(r, h.defaultPageSize)
	if err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	out, err := h.svc.Detail(r.Context(), tag, page, size)
	if err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, out)
}
