package i18n

import (
	"context"
	"net/http"
)

// Middleware picks a localizer from the request's Accept-Language header,
// falling back to lang, and stores it in the request context.
func Middleware(lang string) func(http.Handler) http.Handler {
	fallback := NewLocalizer(lang)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			loc := fallback
			if accept := r.Header.Get("Accept-Language"); accept != "" {
				loc = NewLocalizer(accept, lang)
			}
			next.ServeHTTP(w, r.WithContext(WithLocalizer(r.Context(), loc)))
		})
	}
}

// Prefer returns the request context with a localizer that tries lang before
// the Accept-Language header and the bundle's default language.
func Prefer(r *http.Request, lang string) context.Context {
	return WithLocalizer(r.Context(), NewLocalizer(lang, r.Header.Get("Accept-Language"), defaultLang))
}
