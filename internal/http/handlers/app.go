package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"fittingroom/internal/fitting"
	"fittingroom/internal/middleware"
	"fittingroom/internal/page"
)

// DefaultUploadLimit caps a single slot upload when the App is built without one.
const DefaultUploadLimit int64 = 20 << 20

type App struct {
	Session     *fitting.Session
	Renderer    *page.Renderer
	Logger      zerolog.Logger
	UploadLimit int64

	mu           sync.Mutex
	uploadFailed bool
}

func NewApp(session *fitting.Session, logger zerolog.Logger, uploadLimit int64) *App {
	if uploadLimit <= 0 {
		uploadLimit = DefaultUploadLimit
	}
	return &App{
		Session:     session,
		Renderer:    &page.Renderer{},
		Logger:      logger.With().Str("component", "http").Logger(),
		UploadLimit: uploadLimit,
	}
}

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, code int, errCode, message string) {
	a.json(w, code, errorBody{Error: errorDetail{Code: errCode, Message: message}})
}

func (a *App) setUploadNotice(failed bool) {
	a.mu.Lock()
	a.uploadFailed = failed
	a.mu.Unlock()
}

// surface builds the page state for the request's locale, including the
// pending upload notice.
func (a *App) surface(r *http.Request) page.Surface {
	s := page.Build(a.Session.Snapshot(), middleware.LocaleFromContext(r.Context()))
	a.mu.Lock()
	if a.uploadFailed {
		s.Notice = s.Text.UploadFailed
	}
	a.mu.Unlock()
	return s
}

func wantsJSON(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "application/json")
}

func redirectHome(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
