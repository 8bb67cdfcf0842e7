package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/rs/zerolog/log"
)

// Publisher fans replay events out beyond the WebSocket that produced them
type Publisher interface {
	Publish(ctx context.Context, event *ReplayEvent) error
	Close() error
}

// NoopPublisher drops every event
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, *ReplayEvent) error { return nil }
func (NoopPublisher) Close() error                                { return nil }

type JetStreamConfig struct {
	URL             string        `yaml:"url"`
	StreamName      string        `yaml:"stream_name"`
	SubjectPrefix   string        `yaml:"subject_prefix"`
	MaxReconnects   int           `yaml:"max_reconnects"`
	ReconnectWait   time.Duration `yaml:"reconnect_wait"`
	MaxAge          time.Duration `yaml:"max_age"`          // How long to keep messages
	MaxMsgs         int64         `yaml:"max_msgs"`         // Max number of messages to keep
	Replicas        int           `yaml:"replicas"`         // Number of replicas for the stream
	DuplicateWindow time.Duration `yaml:"duplicate_window"` // Window for duplicate detection
}

func DefaultJetStreamConfig() JetStreamConfig {
	return JetStreamConfig{
		URL:             nats.DefaultURL,
		StreamName:      "REPLAY_EVENTS",
		SubjectPrefix:   "replay.events",
		MaxReconnects:   -1, // Infinite
		ReconnectWait:   2 * time.Second,
		MaxAge:          24 * time.Hour,
		MaxMsgs:         -1, // No limit
		Replicas:        1,
		DuplicateWindow: 2 * time.Minute,
	}
}

// Subject returns the subject events for gameID are published on. Characters
// that would split or wildcard a subject token are replaced.
func (c JetStreamConfig) Subject(gameID string) string {
	return c.SubjectPrefix + "." + subjectToken(gameID)
}

// streamConfig captures every game subject under the prefix. The duplicate
// window is what makes Nats-Msg-Id dedupe retried publishes.
func (c JetStreamConfig) streamConfig() jetstream.StreamConfig {
	return jetstream.StreamConfig{
		Name:        c.StreamName,
		Description: "Replay updates per game",
		Subjects:    []string{c.SubjectPrefix + ".>"},
		Retention:   jetstream.LimitsPolicy,
		MaxAge:      c.MaxAge,
		MaxMsgs:     c.MaxMsgs,
		Storage:     jetstream.FileStorage,
		Replicas:    c.Replicas,
		Duplicates:  c.DuplicateWindow,
	}
}

func subjectToken(s string) string {
	if s == "" {
		return "_"
	}
	return strings.Map(func(r rune) rune {
		switch {
		case r == '.', r == '*', r == '>', unicode.IsSpace(r), !unicode.IsPrint(r):
			return '_'
		}
		return r
	}, s)
}

// Headers set on every published replay event
const (
	HeaderEventType = "Event-Type"
	HeaderGameID    = "Game-ID"
	HeaderEventID   = "Event-ID"
)

// newReplayMsg builds the JetStream message for event. The event id is the
// message id, so a retried publish of the same event is stored once.
func (c JetStreamConfig) newReplayMsg(event *ReplayEvent) (*nats.Msg, error) {
	if event.ID == "" {
		return nil, fmt.Errorf("replay event for game %s has no id", event.GameID)
	}

	data, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("marshal event: %w", err)
	}

	msg := nats.NewMsg(c.Subject(event.GameID))
	msg.Data = data
	msg.Header.Set(HeaderEventType, string(event.Type))
	msg.Header.Set(HeaderGameID, event.GameID)
	msg.Header.Set(HeaderEventID, event.ID)
	msg.Header.Set(nats.MsgIdHdr, event.ID)
	msg.Header.Set(nats.ExpectedStreamHdr, c.StreamName)
	return msg, nil
}

type JetStreamPublisher struct {
	nc     *nats.Conn
	js     jetstream.JetStream
	config JetStreamConfig
}

func connectOptions(cfg JetStreamConfig) []nats.Option {
	return []nats.Option{
		nats.Name("nflreplay"),
		nats.MaxReconnects(cfg.MaxReconnects),
		nats.ReconnectWait(cfg.ReconnectWait),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			log.Error().Err(err).Str("stream", cfg.StreamName).Msg("NATS disconnected, replay events will queue until reconnect")
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Info().Str("url", nc.ConnectedUrl()).Msg("NATS reconnected")
		}),
		nats.ErrorHandler(func(nc *nats.Conn, sub *nats.Subscription, err error) {
			log.Error().Err(err).Msg("NATS error")
		}),
	}
}

// NewJetStreamPublisher connects and makes sure the replay stream exists with
// the configured limits.
func NewJetStreamPublisher(ctx context.Context, cfg JetStreamConfig) (*JetStreamPublisher, error) {
	nc, err := nats.Connect(cfg.URL, connectOptions(cfg)...)
	if err != nil {
		return nil, fmt.Errorf("connect to NATS: %w", err)
	}

	js, err := jetstream.New(nc)
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("create JetStream context: %w", err)
	}

	stream, err := js.CreateOrUpdateStream(ctx, cfg.streamConfig())
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("ensure stream %s: %w", cfg.StreamName, err)
	}
	info := stream.CachedInfo()
	log.Info().
		Str("stream", info.Config.Name).
		Strs("subjects", info.Config.Subjects).
		Uint64("messages", info.State.Msgs).
		Msg("replay stream ready")

	return &JetStreamPublisher{nc: nc, js: js, config: cfg}, nil
}

// Publish sends the event on its game's subject
func (p *JetStreamPublisher) Publish(ctx context.Context, event *ReplayEvent) error {
	msg, err := p.config.newReplayMsg(event)
	if err != nil {
		return err
	}

	ack, err := p.js.PublishMsg(ctx, msg)
	if err != nil {
		return fmt.Errorf("publish to JetStream: %w", err)
	}

	log.Debug().
		Str("subject", msg.Subject).
		Str("event_id", event.ID).
		Uint64("sequence", ack.Sequence).
		Bool("duplicate", ack.Duplicate).
		Msg("published replay event")

	return nil
}

func (p *JetStreamPublisher) Close() error {
	if p.nc != nil {
		if err := p.nc.Drain(); err != nil {
			p.nc.Close()
			return fmt.Errorf("drain NATS connection: %w", err)
		}
	}
	return nil
}
