package viewer_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/mcdev12/nflreplay/go/internal/viewer"
)

func TestFromRequest(t *testing.T) {
	tests := []struct {
		name   string
		setup  func(r *http.Request)
		wantID string
	}{
		{
			name:   "header wins",
			setup:  func(r *http.Request) { r.Header.Set(viewer.Header, "abc"); r.AddCookie(viewer.Cookie("cookie")) },
			wantID: "abc",
		},
		{
			name:   "cookie",
			setup:  func(r *http.Request) { r.AddCookie(viewer.Cookie("cookie")) },
			wantID: "cookie",
		},
		{
			name:   "query parameter",
			setup:  func(r *http.Request) { r.URL.RawQuery = "viewer_id=fromquery" },
			wantID: "fromquery",
		},
		{
			name:   "invalid header falls through to cookie",
			setup:  func(r *http.Request) { r.Header.Set(viewer.Header, "a:b"); r.AddCookie(viewer.Cookie("cookie")) },
			wantID: "cookie",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/api/games/1", nil)
			tt.setup(r)

			id, isNew := viewer.FromRequest(r)
			if isNew || id != tt.wantID {
				t.Fatalf("FromRequest = %q, %v; want %q, false", id, isNew, tt.wantID)
			}
		})
	}
}

func TestFromRequest_MintsID(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/api/games/1", nil)
	r.Header.Set(viewer.Header, "viewer:*")

	id, isNew := viewer.FromRequest(r)
	if !isNew {
		t.Fatal("expected a new id")
	}
	if _, err := uuid.Parse(id); err != nil {
		t.Fatalf("minted id %q is not a uuid: %v", id, err)
	}
}

func TestContext(t *testing.T) {
	if _, ok := viewer.FromContext(context.Background()); ok {
		t.Fatal("empty context has a viewer")
	}
	ctx := viewer.WithID(context.Background(), "abc")
	if id, ok := viewer.FromContext(ctx); !ok || id != "abc" {
		t.Fatalf("FromContext = %q, %v", id, ok)
	}
}
