package access

import (
	"context"
	"strconv"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/mcdev12/nflreplay/go/internal/storage"
	"github.com/rs/zerolog/log"
)

const (
	// Duration a game stays viewable after the last valid access
	Duration = 3600000 * time.Millisecond

	// KeyPrefix is reserved for access timestamps in the store
	KeyPrefix = "game_access_"
)

// CheckResult reports whether access is valid and whether a timestamp was found
type CheckResult struct {
	IsValid      bool `json:"isValid"`
	HasTimestamp bool `json:"hasTimestamp"`
}

// Validation is the outcome of Validate. ShouldRedirect tells the host to
// send the viewer back to the overview; the gate never navigates itself.
type Validation struct {
	IsValid        bool `json:"isValid"`
	ShouldRedirect bool `json:"shouldRedirect"`
}

// Gate grants time-boxed access to a game with a sliding expiry
type Gate struct {
	store    *storage.Accessor
	clock    clockwork.Clock
	duration time.Duration
}

// NewGate creates a gate over store. A nil clock uses the real clock.
func NewGate(store *storage.Accessor, clock clockwork.Clock) *Gate {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Gate{
		store:    store,
		clock:    clock,
		duration: Duration,
	}
}

// Key returns the storage key for a game
func Key(gameID string) string {
	return KeyPrefix + gameID
}

// Timestamp returns the stored access time in ms since epoch. Values that
// do not parse as an integer are treated as absent.
func (g *Gate) Timestamp(ctx context.Context, gameID string) (int64, bool) {
	raw, ok := g.store.Get(ctx, Key(gameID))
	if !ok || raw == "" {
		return 0, false
	}
	ts, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		log.Debug().Str("game_id", gameID).Str("value", raw).Msg("ignoring unparseable access timestamp")
		return 0, false
	}
	return ts, true
}

// IsExpired reports whether ts is at least one access Duration before now.
func (g *Gate) IsExpired(ts int64) bool {
	elapsed := g.clock.Now().UnixMilli() - ts
	return elapsed >= g.duration.Milliseconds()
}

// Check reads the stored timestamp without changing it. No timestamp means
// a first visit, which is valid.
func (g *Gate) Check(ctx context.Context, gameID string) CheckResult {
	ts, ok := g.Timestamp(ctx, gameID)
	if !ok {
		return CheckResult{IsValid: true, HasTimestamp: false}
	}
	return CheckResult{IsValid: !g.IsExpired(ts), HasTimestamp: true}
}

// Grant stores the current time for gameID, overwriting any previous value
func (g *Gate) Grant(ctx context.Context, gameID string) {
	now := g.clock.Now().UnixMilli()
	g.store.Set(ctx, Key(gameID), strconv.FormatInt(now, 10))
}

// Validate checks access and refreshes the timestamp when it is valid.
// Expired access leaves the store untouched. Without a backing store the
// gate is advisory and always valid.
func (g *Gate) Validate(ctx context.Context, gameID string) Validation {
	if !g.store.Available() {
		return Validation{IsValid: true, ShouldRedirect: false}
	}

	if g.Check(ctx, gameID).IsValid {
		g.Grant(ctx, gameID)
		return Validation{IsValid: true, ShouldRedirect: false}
	}

	log.Info().Str("game_id", gameID).Msg("game access expired")
	return Validation{IsValid: false, ShouldRedirect: true}
}

// Remaining returns how long access to gameID stays valid. It reports false
// when no timestamp is stored.
func (g *Gate) Remaining(ctx context.Context, gameID string) (time.Duration, bool) {
	ts, ok := g.Timestamp(ctx, gameID)
	if !ok {
		return 0, false
	}
	left := time.Duration(ts)*time.Millisecond + g.duration - time.Duration(g.clock.Now().UnixMilli())*time.Millisecond
	if left < 0 {
		left = 0
	}
	return left, true
}

// ClearAll removes every access timestamp, leaving unrelated keys alone
func (g *Gate) ClearAll(ctx context.Context) {
	g.store.ClearPrefix(ctx, KeyPrefix)
}
