package api

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/pa816859-hue/shiny-octo-succotash/internal/api/recovery"
	"github.com/pa816859-hue/shiny-octo-succotash/internal/feed"
	"github.com/pa816859-hue/shiny-octo-succotash/internal/model"
	"github.com/pa816859-hue/shiny-octo-succotash/internal/tags"
)

// Deps are the services the router exposes.
type Deps struct {
	Feeds           map[model.Kind]*feed.Service
	Tags            *tags.Service
	Health          HealthReporter
	DefaultPageSize int
	MaxPageSize     int
	Log             zerolog.Logger
}

// NewRouter creates a new HTTP router with all API routes
func NewRouter(d Deps) *mux.Router {
	router := mux.NewRouter()

	// Global middlewares; the logger runs outermost so panics still get a request line.
	router.Use(RequestLogger(d.Log))
	router.Use(recovery.Middleware)

	healthHandler := NewHealthHandler(d.Health)
	router.HandleFunc("/api/health", healthHandler.CheckHealth).Methods(http.MethodGet)
	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	// Tag endpoints; fixed paths are registered before {tag}
	tagHandler := NewTagHandler(d.Tags, d.DefaultPageSize)
	router.HandleFunc("/api/tags", tagHandler.Index).Methods(http.MethodGet)
	router.HandleFunc("/api/tags/query", tagHandler.Query).Methods(http.MethodGet)
	router.HandleFunc("/api/tags/{tag}", tagHandler.Detail).Methods(http.MethodGet)

	// Feed endpoints
	feedHandler := NewFeedHandler(d.Feeds, d.DefaultPageSize, d.MaxPageSize)
	const kind = "/api/{kind:photos|videos}"
	router.HandleFunc(kind, feedHandler.List).Methods(http.MethodGet)
	router.HandleFunc(kind+"/next", feedHandler.Next).Methods(http.MethodGet)
	router.HandleFunc(kind+"/liked", feedHandler.Liked).Methods(http.MethodGet)
	router.HandleFunc(kind+"/skip", feedHandler.Skip).Methods(http.MethodPost)
	router.HandleFunc(kind+"/like", feedHandler.Like).Methods(http.MethodPost)
	router.HandleFunc(kind+"/unlike", feedHandler.Unlike).Methods(http.MethodPost)

	return router
}
