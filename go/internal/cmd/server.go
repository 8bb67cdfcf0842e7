package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/mcdev12/nflreplay/go/clients/nfl_api_client"
	"github.com/mcdev12/nflreplay/go/internal/access"
	"github.com/mcdev12/nflreplay/go/internal/models"
	"github.com/mcdev12/nflreplay/go/internal/summaries"
	"github.com/mcdev12/nflreplay/go/internal/viewer"
	"github.com/rs/cors"
	"github.com/rs/zerolog/log"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
)

// gameSource is what the handlers need from the summaries app
type gameSource interface {
	Game(ctx context.Context, gameID string) (*summaries.GameView, error)
	Schedule(ctx context.Context, day time.Time) (models.Schedule, error)
}

// routeRegistrar mounts extra routes behind the access guard
type routeRegistrar interface {
	RegisterRoutes(mux *http.ServeMux, guard func(http.Handler) http.Handler)
}

type server struct {
	games   gameSource
	gateFor func(viewerID string) *access.Gate
	gateway routeRegistrar

	overviewPath   string
	redirectStatus int
}

func newServer(config *Config, services *Services) *server {
	return &server{
		games:          services.Summaries,
		gateFor:        services.gateFor,
		gateway:        services.Gateway,
		overviewPath:   config.Server.OverviewPath,
		redirectStatus: config.Server.AccessRedirectStatus,
	}
}

func setupServer(config *Config, services *Services) *http.Server {
	s := newServer(config, services)

	// Setup CORS middleware
	c := cors.New(cors.Options{
		AllowedMethods: []string{
			http.MethodHead,
			http.MethodGet,
			http.MethodDelete,
		},
		AllowedOrigins:   config.Server.AllowedOrigins,
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{accessRemainingHeader},
		AllowCredentials: true,
	})

	// Setup HTTP/2 server
	return &http.Server{
		Addr:              fmt.Sprintf(":%s", config.Server.Port),
		Handler:           h2c.NewHandler(c.Handler(s.routes()), &http2.Server{}),
		ReadHeaderTimeout: 10 * time.Second,
	}
}

func (s *server) routes() http.Handler {
	mux := http.NewServeMux()

	setupHealthCheck(mux)

	mux.HandleFunc("GET /api/schedule", s.handleSchedule)
	mux.Handle("GET /api/games/{id}", s.requireAccess(http.HandlerFunc(s.handleGame)))
	mux.Handle("GET /api/games/{id}/scoreboard", s.requireAccess(http.HandlerFunc(s.handleScoreboard)))
	mux.HandleFunc("GET /api/games/{id}/access", s.handleAccessStatus)
	mux.HandleFunc("DELETE /api/access", s.handleClearAccess)

	if s.gateway != nil {
		s.gateway.RegisterRoutes(mux, s.requireAccess)
	}

	return withViewer(mux)
}

func setupHealthCheck(mux *http.ServeMux) {
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			log.Error().Err(err).Msg("failed to write health check response")
		}
	})
}

const accessRemainingHeader = "X-Access-Remaining"

// withViewer resolves the viewer for every request and pins new ids in a cookie
func withViewer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, isNew := viewer.FromRequest(r)
		if isNew {
			http.SetCookie(w, viewer.Cookie(id))
		}
		w.Header().Set(viewer.Header, id)
		next.ServeHTTP(w, r.WithContext(viewer.WithID(r.Context(), id)))
	})
}

func viewerID(r *http.Request) string {
	if id, ok := viewer.FromContext(r.Context()); ok {
		return id
	}
	id, _ := viewer.FromRequest(r)
	return id
}

// gameID reads the game from the path, or from game_id on WebSocket routes
func gameID(r *http.Request) string {
	if id := r.PathValue("id"); id != "" {
		return id
	}
	return r.URL.Query().Get("game_id")
}

// requireAccess runs the access gate and sends expired viewers to the overview
func (s *server) requireAccess(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := gameID(r)
		if id == "" {
			next.ServeHTTP(w, r)
			return
		}

		gate := s.gateFor(viewerID(r))
		if v := gate.Validate(r.Context(), id); v.ShouldRedirect {
			log.Info().Str("game_id", id).Str("viewer_id", viewerID(r)).Msg("redirecting expired viewer")
			http.Redirect(w, r, s.overviewPath, s.redirectStatus)
			return
		}

		if left, ok := gate.Remaining(r.Context(), id); ok {
			w.Header().Set(accessRemainingHeader, strconv.FormatInt(int64(left/time.Second), 10))
		}
		next.ServeHTTP(w, r)
	})
}

func (s *server) handleSchedule(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("date")
	if raw == "" {
		writeError(w, http.StatusBadRequest, "date is required")
		return
	}
	day, err := time.Parse(time.DateOnly, raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
		return
	}

	schedule, err := s.games.Schedule(r.Context(), day)
	if err != nil {
		writeGameError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, schedule)
}

func (s *server) handleGame(w http.ResponseWriter, r *http.Request) {
	view, err := s.games.Game(r.Context(), r.PathValue("id"))
	if err != nil {
		writeGameError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *server) handleScoreboard(w http.ResponseWriter, r *http.Request) {
	view, err := s.games.Game(r.Context(), r.PathValue("id"))
	if err != nil {
		writeGameError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view.Scoreboard)
}

type accessStatus struct {
	access.CheckResult
	RemainingSeconds int64 `json:"remainingSeconds"`
}

// handleAccessStatus reports the gate without refreshing it
func (s *server) handleAccessStatus(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	gate := s.gateFor(viewerID(r))

	status := accessStatus{CheckResult: gate.Check(r.Context(), id)}
	if left, ok := gate.Remaining(r.Context(), id); ok {
		status.RemainingSeconds = int64(left / time.Second)
	}
	writeJSON(w, http.StatusOK, status)
}

func (s *server) handleClearAccess(w http.ResponseWriter, r *http.Request) {
	s.gateFor(viewerID(r)).ClearAll(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("failed to encode response")
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func writeGameError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, summaries.ErrNotFound):
		writeError(w, http.StatusNotFound, "game not found")
	case errors.Is(err, context.Canceled):
		// client went away
	default:
		writeError(w, http.StatusBadGateway, nfl_api_client.ErrFetchFailed.Error())
	}
}
