package recovery

import (
	"net/http"
	"runtime/debug"

	"github.com/rs/zerolog/log"

	"github.com/pa816859-hue/shiny-octo-succotash/internal/api/respond"
)

// RequestIDHeader carries the id assigned by the request logging middleware.
const RequestIDHeader = "X-Request-ID"

// Middleware intercepts panics from downstream handlers, logs details, and returns HTTP 500.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				log.Error().
					Interface("panic", rec).
					Str("method", r.Method).
					Str("url", r.URL.String()).
					Str("remote", r.RemoteAddr).
					Str("request_id", r.Header.Get(RequestIDHeader)).
					Bytes("stack", debug.Stack()).
					Msg("panic recovered")

				respond.WriteInternalError(w, "internal error")
			}
		}()
		next.ServeHTTP(w, r)
	})
}
