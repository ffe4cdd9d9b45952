// Package locale picks the display language of a request.
package locale

import (
	"context"
	"net/http"
	"strings"
	"time"

	"golang.org/x/text/language"
)

// Lang is a supported display language.
type Lang string

const (
	English Lang = "en"
	Arabic  Lang = "ar"
)

const (
	// QueryParam overrides the language for one request and remembers it.
	QueryParam = "lang"
	// CookieName persists the chosen language.
	CookieName = "centersguide_lang"
)

var (
	supported = []language.Tag{language.English, language.Arabic}
	langs     = []Lang{English, Arabic}
	matcher   = language.NewMatcher(supported)
)

// Parse returns the supported language named by raw.
func Parse(raw string) (Lang, bool) {
	switch Lang(strings.ToLower(strings.TrimSpace(raw))) {
	case English:
		return English, true
	case Arabic:
		return Arabic, true
	}
	return "", false
}

// Match picks the best supported language for an Accept-Language header.
func Match(acceptLanguage string) Lang {
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return English
	}
	_, idx, _ := matcher.Match(tags...)
	return langs[idx]
}

// FromRequest resolves the language from the query, the cookie, then Accept-Language.
func FromRequest(r *http.Request) Lang {
	if lang, ok := Parse(r.URL.Query().Get(QueryParam)); ok {
		return lang
	}
	if cookie, err := r.Cookie(CookieName); err == nil {
		if lang, ok := Parse(cookie.Value); ok {
			return lang
		}
	}
	return Match(r.Header.Get("Accept-Language"))
}

// Dir returns the text direction of the language.
func (l Lang) Dir() string {
	if l == Arabic {
		return "rtl"
	}
	return "ltr"
}

// Digits renders ASCII digits in the numeral system of the language.
func (l Lang) Digits(s string) string {
	if l != Arabic {
		return s
	}
	var b strings.Builder
	b.Grow(len(s) * 2)
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune('٠' + (r - '0'))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

type contextKey struct{}

// WithLang stores the language in ctx.
func WithLang(ctx context.Context, lang Lang) context.Context {
	return context.WithValue(ctx, contextKey{}, lang)
}

// FromContext returns the request language, English when unset.
func FromContext(ctx context.Context) Lang {
	if lang, ok := ctx.Value(contextKey{}).(Lang); ok {
		return lang
	}
	return English
}

// Middleware resolves the language per request and remembers explicit choices.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		lang := FromRequest(r)
		if _, ok := Parse(r.URL.Query().Get(QueryParam)); ok {
			http.SetCookie(w, &http.Cookie{
				Name:     CookieName,
				Value:    string(lang),
				Path:     "/",
				Expires:  time.Now().AddDate(1, 0, 0),
				SameSite: http.SameSiteLaxMode,
			})
		}
		next.ServeHTTP(w, r.WithContext(WithLang(r.Context(), lang)))
	})
}
