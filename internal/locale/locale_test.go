package locale

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatch(t *testing.T) {
	assert.Equal(t, Arabic, Match("ar-EG,ar;q=0.9,en;q=0.5"))
	assert.Equal(t, English, Match("en-US,en;q=0.9"))
	assert.Equal(t, English, Match(""))
	assert.Equal(t, English, Match("de-DE"))
}

func TestFromRequestPrecedence(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/centers?lang=ar", nil)
	req.Header.Set("Accept-Language", "en")
	assert.Equal(t, Arabic, FromRequest(req))

	req = httptest.NewRequest(http.MethodGet, "/centers", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: "en"})
	req.Header.Set("Accept-Language", "ar")
	assert.Equal(t, English, FromRequest(req))
}

func TestMiddlewareRemembersChoice(t *testing.T) {
	var got Lang
	h := Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = FromContext(r.Context())
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/?lang=ar", nil))
	assert.Equal(t, Arabic, got)
	assert.Contains(t, rec.Header().Get("Set-Cookie"), CookieName+"=ar")
}

func TestDigits(t *testing.T) {
	assert.Equal(t, "٤:٣٠", Arabic.Digits("4:30"))
	assert.Equal(t, "4:30", English.Digits("4:30"))
	assert.Equal(t, "rtl", Arabic.Dir())
}

func TestT(t *testing.T) {
	assert.Equal(t, "Centers", T(English, "nav.centers"))
	assert.Equal(t, "السناتر", T(Arabic, "nav.centers"))
	assert.Equal(t, "missing.key", T(Arabic, "missing.key"))
}
