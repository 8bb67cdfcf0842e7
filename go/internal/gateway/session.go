package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/mcdev12/nflreplay/go/internal/game"
	"github.com/mcdev12/nflreplay/go/internal/models"
	"github.com/mcdev12/nflreplay/go/internal/replay"
	"github.com/rs/zerolog/log"
)

const publishTimeout = 5 * time.Second

// Session drives one replay for one connection
type Session struct {
	conn       *Connection
	gameID     string
	teams      []models.TeamSummary
	controller *replay.Controller
	publisher  Publisher

	// coalesces change notifications; the loop always sends the latest state
	changed chan struct{}
	done    chan struct{}
	once    sync.Once
}

func newSession(conn *Connection, summary *models.GameSummary, publisher Publisher, opts ...replay.Option) *Session {
	s := &Session{
		conn:      conn,
		gameID:    conn.GameID,
		teams:     summary.Teams,
		publisher: publisher,
		changed:   make(chan struct{}, 1),
		done:      make(chan struct{}),
	}

	opts = append(opts, replay.WithCompleteFunc(s.signal))
	s.controller = replay.NewController(summary.Drives.Previous, func([]models.Drive) { s.signal() }, opts...)
	return s
}

// Start begins playback and pushes updates until Close
func (s *Session) Start() {
	go s.loop()
	s.controller.Start()
}

// Close stops playback. Safe to call more than once.
func (s *Session) Close() {
	s.once.Do(func() {
		s.controller.Stop()
		close(s.done)
		log.Debug().
			Str("connection_id", s.conn.ID).
			Str("game_id", s.gameID).
			Msg("replay session closed")
	})
}

// signal must not block: it runs under the controller lock
func (s *Session) signal() {
	select {
	case s.changed <- struct{}{}:
	default:
	}
}

func (s *Session) loop() {
	for {
		select {
		case <-s.done:
			return
		case <-s.changed:
			s.pushUpdate()
		}
	}
}

func (s *Session) pushUpdate() {
	drives := s.controller.Drives()
	payload := ReplayUpdatePayload{
		Drives:     drives,
		Scoreboard: game.BuildScoreboard(drives, s.teams),
		State:      s.controller.State().String(),
		Speed:      s.controller.Speed(),
	}

	event, err := NewReplayEvent(s.gameID, EventTypeReplayUpdate, payload)
	if err != nil {
		log.Error().Err(err).Str("game_id", s.gameID).Msg("failed to build replay update")
		return
	}

	s.conn.Manager.SendToConnection(s.conn, event)

	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()
	if err := s.publisher.Publish(ctx, event); err != nil {
		log.Warn().Err(err).Str("game_id", s.gameID).Msg("failed to publish replay update")
	}
}

// HandleMessage applies a client control message
func (s *Session) HandleMessage(message []byte) {
	var msg ControlMessage
	if err := json.Unmarshal(message, &msg); err != nil {
		s.sendError(fmt.Sprintf("invalid message: %v", err))
		return
	}

	if err := s.apply(msg.Type); err != nil {
		s.sendError(err.Error())
		return
	}

	log.Debug().
		Str("connection_id", s.conn.ID).
		Str("control", string(msg.Type)).
		Str("state", s.controller.State().String()).
		Msg("replay control applied")

	s.signal()
}

func (s *Session) apply(control ControlType) error {
	switch control {
	case ControlPause:
		if s.controller.State() == replay.StateRunning {
			s.controller.TogglePause()
		}
	case ControlResume:
		if s.controller.IsPaused() {
			s.controller.TogglePause()
		}
	case ControlSpeed:
		s.controller.AdjustSpeed()
	case ControlNextDrive:
		s.controller.JumpToNextDrive()
	case ControlStop:
		s.controller.Stop()
	default:
		return fmt.Errorf("unknown control %q", control)
	}
	return nil
}

func (s *Session) sendError(message string) {
	event, err := NewReplayEvent(s.gameID, EventTypeError, ErrorPayload{Message: message})
	if err != nil {
		log.Error().Err(err).Msg("failed to build error event")
		return
	}
	s.conn.Manager.SendToConnection(s.conn, event)
}
