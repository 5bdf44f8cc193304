package middleware

import (
	"context"
	"net/http"
	"strings"

	"golang.org/x/text/language"
)

type localeContextKey struct{}

// Locale negotiates the response locale from the "lang" query parameter, the
// X-Locale header and Accept-Language, in that order, against supported.
// fallback is used when nothing matches.
func Locale(supported []language.Tag, fallback string) func(http.Handler) http.Handler {
	matcher := language.NewMatcher(supported)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			locale := negotiateLocale(r, matcher, fallback)
			ctx := context.WithValue(r.Context(), localeContextKey{}, locale)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func negotiateLocale(r *http.Request, matcher language.Matcher, fallback string) string {
	var tags []language.Tag
	for _, explicit := range []string{r.URL.Query().Get("lang"), r.Header.Get("X-Locale")} {
		if explicit = strings.TrimSpace(explicit); explicit == "" {
			continue
		}
		if tag, err := language.Parse(explicit); err == nil {
			tags = append(tags, tag)
		}
	}
	if accept, _, err := language.ParseAcceptLanguage(r.Header.Get("Accept-Language")); err == nil {
		tags = append(tags, accept...)
	}
	if len(tags) == 0 {
		return fallback
	}
	tag, _, confidence := matcher.Match(tags...)
	if confidence == language.No {
		return fallback
	}
	base, _ := tag.Base()
	return base.String()
}

// LocaleFromContext returns the negotiated locale, or "en" outside the middleware.
func LocaleFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(localeContextKey{}).(string); ok && v != "" {
		return v
	}
	return "en"
}
