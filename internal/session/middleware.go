package session

import (
	"context"
	"net/http"
)

// CookieName is the cookie holding the viewer token.
const CookieName = "viewer"

type contextKey string

const viewerKey contextKey = "viewer"

func WithViewer(ctx context.Context, v Viewer) context.Context {
	return context.WithValue(ctx, viewerKey, v)
}

// ViewerFromContext returns the viewer attached by LoadViewer or WithViewer.
// ok is false for anonymous requests.
func ViewerFromContext(ctx context.Context) (Viewer, bool) {
	v, ok := ctx.Value(viewerKey).(Viewer)
	return v, ok && v.Handle != ""
}

// LoadViewer attaches the viewer named by a valid cookie to the request
// context. Missing or invalid cookies leave the request anonymous. A nil
// manager disables cookies altogether.
func LoadViewer(m *Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if m != nil {
				if cookie, err := r.Cookie(CookieName); err == nil {
					if v, err := m.Parse(cookie.Value); err == nil {
						r = r.WithContext(WithViewer(r.Context(), v))
					}
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// SetCookie issues a token for v and writes it as the viewer cookie.
// It does nothing when m is nil.
func SetCookie(w http.ResponseWriter, m *Manager, v Viewer) error {
	if m == nil {
		return nil
	}
	token, err := m.Issue(v)
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(m.lifetime.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}
