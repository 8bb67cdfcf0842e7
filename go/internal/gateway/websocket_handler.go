package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mcdev12/nflreplay/go/clients/nfl_api_client"
	"github.com/mcdev12/nflreplay/go/internal/replay"
	"github.com/mcdev12/nflreplay/go/internal/summaries"
	"github.com/mcdev12/nflreplay/go/internal/viewer"
	"github.com/rs/zerolog/log"
)

// SummaryProvider loads the game a session replays
type SummaryProvider interface {
	Summary(ctx context.Context, gameID string) (*nfl_api_client.SummaryResult, error)
}

// WebSocketHandler handles WebSocket upgrade requests for replays
type WebSocketHandler struct {
	connectionManager *ConnectionManager
	summaries         SummaryProvider
	publisher         Publisher
	replayOpts        []replay.Option
}

// NewWebSocketHandler creates a new WebSocket handler
func NewWebSocketHandler(cm *ConnectionManager, summaries SummaryProvider, publisher Publisher, replayOpts ...replay.Option) *WebSocketHandler {
	return &WebSocketHandler{
		connectionManager: cm,
		summaries:         summaries,
		publisher:         publisher,
		replayOpts:        replayOpts,
	}
}

// HandleReplayConnection starts a replay of game_id on a new WebSocket
func (h *WebSocketHandler) HandleReplayConnection(w http.ResponseWriter, r *http.Request) {
	gameID := r.URL.Query().Get("game_id")
	if gameID == "" {
		writeJSONError(w, http.StatusBadRequest, "game_id is required")
		return
	}

	viewerID, ok := viewer.FromContext(r.Context())
	if !ok {
		viewerID, _ = viewer.FromRequest(r)
	}

	result, err := h.summaries.Summary(r.Context(), gameID)
	if err != nil {
		log.Error().Err(err).Str("game_id", gameID).Msg("failed to load game for replay")
		if errors.Is(err, summaries.ErrNotFound) {
			writeJSONError(w, http.StatusNotFound, "game not found")
			return
		}
		writeJSONError(w, http.StatusBadGateway, nfl_api_client.ErrFetchFailed.Error())
		return
	}

	// the upgrader has already answered the request on failure
	conn, err := h.connectionManager.UpgradeConnection(w, r, viewerID, gameID)
	if err != nil {
		return
	}

	session := newSession(conn, result.Summary, h.publisher, h.replayOpts...)
	conn.Serve(session.HandleMessage, session.Close)
	session.Start()
}

// HandleConnectionStats returns statistics about active connections
func (h *WebSocketHandler) HandleConnectionStats(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(h.connectionManager.GetConnectionStats()); err != nil {
		log.Error().Err(err).Msg("failed to encode connection stats")
	}
}

// RegisterRoutes registers WebSocket routes with an HTTP mux. The replay
// route is wrapped in guard, e.g. an access check.
func (h *WebSocketHandler) RegisterRoutes(mux *http.ServeMux, guard func(http.Handler) http.Handler) {
	var replayHandler http.Handler = http.HandlerFunc(h.HandleReplayConnection)
	if guard != nil {
		replayHandler = guard(replayHandler)
	}
	mux.Handle("GET /ws/replay", replayHandler)
	mux.HandleFunc("GET /ws/stats", h.HandleConnectionStats)
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}
