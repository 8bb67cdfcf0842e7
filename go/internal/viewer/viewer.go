package viewer

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

const (
	// Header carries an explicit viewer id, e.g. from a non-browser client
	Header = "X-Viewer-ID"

	// CookieName holds the viewer id issued to browsers
	CookieName = "viewer_id"

	// QueryParam is accepted on WebSocket upgrades, where custom headers are awkward
	QueryParam = "viewer_id"

	maxIDLength = 64
)

type contextKey struct{}

// WithID returns a context carrying the viewer id
func WithID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, contextKey{}, id)
}

// FromContext returns the viewer id stored by WithID
func FromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(contextKey{}).(string)
	return id, ok && id != ""
}

// FromRequest identifies the viewer by header, then query parameter, then
// cookie. If none carries a usable id a new one is minted and isNew is true.
func FromRequest(r *http.Request) (id string, isNew bool) {
	candidates := []string{
		r.Header.Get(Header),
		r.URL.Query().Get(QueryParam),
	}
	if c, err := r.Cookie(CookieName); err == nil {
		candidates = append(candidates, c.Value)
	}

	for _, c := range candidates {
		if valid(c) {
			return c, false
		}
	}
	return uuid.NewString(), true
}

// Cookie builds the cookie that pins a newly minted viewer id
func Cookie(id string) *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}

// valid rejects ids that could escape the viewer's key namespace
func valid(id string) bool {
	if id == "" || len(id) > maxIDLength {
		return false
	}
	return !strings.ContainsAny(id, ":*?[]\\%_ \t\r\n")
}
