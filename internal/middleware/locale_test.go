package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"golang.org/x/text/language"
)

func TestLocaleNegotiation(t *testing.T) {
	tests := []struct {
		name     string
		setup    func(r *http.Request)
		fallback string
		want     string
	}{
		{
			name:     "no hints uses fallback",
			fallback: "id",
			want:     "id",
		},
		{
			name: "accept-language english",
			setup: func(r *http.Request) {
				r.Header.Set("Accept-Language", "en-US,en;q=0.9")
			},
			fallback: "id",
			want:     "en",
		},
		{
			name: "accept-language indonesian preferred",
			setup: func(r *http.Request) {
				r.Header.Set("Accept-Language", "id-ID,en;q=0.8")
			},
			fallback: "en",
			want:     "id",
		},
		{
			name: "x-locale overrides accept-language",
			setup: func(r *http.Request) {
				r.Header.Set("X-Locale", "ID")
				r.Header.Set("Accept-Language", "en-US")
			},
			fallback: "en",
			want:     "id",
		},
		{
			name: "query overrides header",
			setup: func(r *http.Request) {
				q := r.URL.Query()
				q.Set("lang", "en")
				r.URL.RawQuery = q.Encode()
				r.Header.Set("X-Locale", "id")
			},
			fallback: "id",
			want:     "en",
		},
		{
			name: "garbage header falls back",
			setup: func(r *http.Request) {
				r.Header.Set("Accept-Language", ";;;")
			},
			fallback: "en",
			want:     "en",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.setup != nil {
				tc.setup(req)
			}
			var got string
			handler := Locale([]language.Tag{language.English, language.Indonesian}, tc.fallback)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				got = LocaleFromContext(r.Context())
			}))
			handler.ServeHTTP(httptest.NewRecorder(), req)
			if got != tc.want {
				t.Fatalf("locale = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestLocaleFromContextDefault(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if got := LocaleFromContext(req.Context()); got != "en" {
		t.Fatalf("LocaleFromContext = %q, want en", got)
	}
}
