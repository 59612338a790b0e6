package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/tekmiz/tekmiz-backend/pkg/tekmiz"
)

// RouterOptions configures the assembled HTTP router
type RouterOptions struct {
	Logger *slog.Logger
	// DevMode includes internal error detail in 500 responses
	DevMode bool
	// CORSOrigins lists allowed origins; empty allows any
	CORSOrigins []string
	// MaxBodyBytes caps request bodies; zero disables the transport cap
	MaxBodyBytes int64
}

// NewRouter assembles the full HTTP surface: health check at the root and
// the playlist and resource handlers mounted under /api.
func NewRouter(service tekmiz.Service, opts RouterOptions) chi.Router {
	r := chi.NewRouter()

	r.Use(RequestIDMiddleware)
	r.Use(LoggingMiddleware(opts.Logger))
	r.Use(RecoveryMiddleware(opts.Logger))
	r.Use(CORSMiddleware(opts.CORSOrigins))
	if opts.MaxBodyBytes > 0 {
		r.Use(RequestSizeLimitMiddleware(opts.MaxBodyBytes))
	}

	r.Get("/", func(w http.ResponseWriter, req *http.Request) {
		render.JSON(w, req, map[string]string{"message": "Tekmiz API is running..."})
	})

	r.Route("/api", func(api chi.Router) {
		api.Mount("/playlists", NewPlaylistHandler(service, opts.DevMode).Routes())
		api.Mount("/resources", NewResourceHandler(service, opts.DevMode).Routes())
	})

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		respond(w, req, http.StatusNotFound, Envelope{
			Success: false,
			Message: "Route not found",
		})
	})

	return r
}
