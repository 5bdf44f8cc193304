package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"fittingroom/internal/http/handlers"
	"fittingroom/internal/middleware"
	"fittingroom/internal/page"
)

// Options tunes the router's middleware.
type Options struct {
	Logger          zerolog.Logger
	RateLimitPerMin int
	DefaultLocale   string
	// TrustProxy applies chi's RealIP so the client address, and with it the
	// rate limit key, comes from X-Forwarded-For / X-Real-IP.
	TrustProxy bool
}

func NewRouter(app *handlers.App, opts Options) http.Handler {
	r := chi.NewRouter()

	if opts.TrustProxy {
		r.Use(chimw.RealIP)
	}
	r.Use(
		middleware.RequestID,
		middleware.Logger(opts.Logger),
		chimw.Recoverer,
		middleware.Locale(page.SupportedLocales, opts.DefaultLocale),
	)

	r.Get("/v1/healthz", app.Health)

	r.Get("/", app.Index)
	r.Get("/api/state", app.State)

	r.Route("/slots/{slot}", func(r chi.Router) {
		r.Post("/", app.UploadSlot)
		r.Post("/remove", app.RemoveSlot)
	})

	limit := opts.RateLimitPerMin
	if limit <= 0 {
		limit = 30
	}
	r.With(middleware.RateLimit(limit, time.Minute)).Post("/generate", app.Generate)

	return r
}
