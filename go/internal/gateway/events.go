package gateway

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mcdev12/nflreplay/go/internal/game"
	"github.com/mcdev12/nflreplay/go/internal/models"
)

// ReplayEvent is the envelope for every server to client message
type ReplayEvent struct {
	ID        string          `json:"id"`
	GameID    string          `json:"game_id"`
	Type      EventType       `json:"type"`
	Timestamp time.Time       `json:"timestamp"`
	Data      json.RawMessage `json:"data"`
}

// EventType represents the type of replay event
type EventType string

const (
	EventTypeReplayUpdate EventType = "replay.update"
	EventTypeError        EventType = "error"
)

// ReplayUpdatePayload is the full replay state after a change
type ReplayUpdatePayload struct {
	Drives     []models.Drive  `json:"drives"`
	Scoreboard game.Scoreboard `json:"scoreboard"`
	State      string          `json:"state"`
	Speed      float64         `json:"speed"`
}

// ErrorPayload reports a rejected client message
type ErrorPayload struct {
	Message string `json:"message"`
}

// NewReplayEvent wraps payload in an envelope with a fresh id
func NewReplayEvent(gameID string, eventType EventType, payload interface{}) (*ReplayEvent, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s payload: %w", eventType, err)
	}
	return &ReplayEvent{
		ID:        uuid.New().String(),
		GameID:    gameID,
		Type:      eventType,
		Timestamp: time.Now().UTC(),
		Data:      data,
	}, nil
}

// ControlType names a client command
type ControlType string

const (
	ControlPause     ControlType = "pause"
	ControlResume    ControlType = "resume"
	ControlSpeed     ControlType = "speed"
	ControlNextDrive ControlType = "next_drive"
	ControlStop      ControlType = "stop"
)

// ControlMessage is sent by clients to steer their replay
type ControlMessage struct {
	Type ControlType `json:"type"`
}
