package middleware

import (
	"net/http"
	"strings"

	"timeismoney.app/web/internal/i18n"
)

// Locale resolves the preferred language from the `hl` query parameter or
// cookie, falling back to Accept-Language, and stores it in the request
// context. The marketing site keeps no session; a cookie is enough.
func Locale(bundle *i18n.Bundle) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			lang := ""
			if q := strings.ToLower(r.URL.Query().Get("hl")); q != "" && bundle.IsSupported(q) {
				lang = q
				http.SetCookie(w, &http.Cookie{Name: "hl", Value: q, Path: "/"})
			} else if c, err := r.Cookie("hl"); err == nil && bundle.IsSupported(strings.ToLower(c.Value)) {
				lang = strings.ToLower(c.Value)
			} else {
				lang = bundle.Resolve(r.Header.Get("Accept-Language"))
			}
			if lang == "" {
				lang = bundle.Fallback()
			}
			w.Header().Set("Content-Language", lang)
			next.ServeHTTP(w, r.WithContext(WithLang(r.Context(), lang)))
		})
	}
}

// VaryLocale sets Vary for Accept-Language on dynamic responses
func VaryLocale(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Add("Vary", "Accept-Language")
		next.ServeHTTP(w, r)
	})
}
