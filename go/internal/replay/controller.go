package replay

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/mcdev12/nflreplay/go/internal/models"
	"github.com/rs/zerolog/log"
)

// DefaultBaseInterval is the tick interval at 1x speed
const DefaultBaseInterval = 2000 * time.Millisecond

// ErrInvalidDrives is returned by SetDrives when the given drives are not a
// prefix of the source game.
var ErrInvalidDrives = errors.New("drives are not a prefix of the source game")

// State of a replay
type State int

const (
	StateNotStarted State = iota
	StateRunning
	StatePaused
	StateComplete
)

func (s State) String() string {
	switch s {
	case StateNotStarted:
		return "not_started"
	case StateRunning:
		return "running"
	case StatePaused:
		return "paused"
	case StateComplete:
		return "complete"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Speed multipliers cycled by AdjustSpeed
var speeds = []float64{1, 1.5, 2}

// UpdateFunc receives a copy of the revealed drives, newest first, after
// every change. It is called with the controller locked and must not call
// back into the controller.
type UpdateFunc func(drives []models.Drive)

// CompleteFunc is called once, with the controller locked, when playback
// reaches the end. The completing tick does not call UpdateFunc.
type CompleteFunc func()

// Option configures a Controller
type Option func(*Controller)

// WithClock replaces the real clock, mostly for tests
func WithClock(clock clockwork.Clock) Option {
	return func(c *Controller) { c.clock = clock }
}

// WithCompleteFunc registers a hook for the end of playback
func WithCompleteFunc(fn CompleteFunc) Option {
	return func(c *Controller) { c.onComplete = fn }
}

// WithBaseInterval sets the tick interval at 1x speed
func WithBaseInterval(d time.Duration) Option {
	return func(c *Controller) {
		if d > 0 {
			c.baseInterval = d
		}
	}
}

// Controller reveals a finished game's drives one play per tick so that it
// can be watched as if it were live.
//
// Both the source and the revealed drives are newest first. Revealed drive i
// counted from the end corresponds to source drive i.
type Controller struct {
	mu sync.Mutex

	source     []models.Drive
	revealed   []models.Drive
	onUpdate   UpdateFunc
	onComplete CompleteFunc

	state        State
	speedIdx     int
	baseInterval time.Duration
	clock        clockwork.Clock

	// at most one ticker is live; gen invalidates ticks from a replaced one
	ticker clockwork.Ticker
	stopCh chan struct{}
	gen    uint64
}

// NewController creates a controller over a complete, newest-first drive list.
func NewController(source []models.Drive, onUpdate UpdateFunc, opts ...Option) *Controller {
	c := &Controller{
		source:       normalizeSource(source),
		onUpdate:     onUpdate,
		state:        StateNotStarted,
		baseInterval: DefaultBaseInterval,
		clock:        clockwork.NewRealClock(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// normalizeSource copies the source so later edits by the caller cannot
// break the prefix invariant. Every source drive is complete.
func normalizeSource(drives []models.Drive) []models.Drive {
	out := models.CloneDrives(drives)
	for i := range out {
		out[i].Finished = true
	}
	return out
}

// Start begins or resumes playback. A fresh controller opens the first drive
// immediately.
func (c *Controller) Start() {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch c.state {
	case StateRunning, StateComplete:
		return
	case StateNotStarted:
		if len(c.source) == 0 {
			c.complete()
			return
		}
		c.openNextDrive()
		c.notify()
	}

	c.state = StateRunning
	c.startTicker()
}

// Stop halts playback without discarding what has been revealed. Start
// resumes from the same point.
func (c *Controller) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.stopTicker()
	if c.state == StateRunning {
		c.state = StatePaused
	}
}

// TogglePause switches between running and paused
func (c *Controller) TogglePause() {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch c.state {
	case StateRunning:
		c.stopTicker()
		c.state = StatePaused
	case StatePaused:
		c.state = StateRunning
		c.startTicker()
	}
}

// AdjustSpeed cycles 1x -> 1.5x -> 2x -> 1x. A running ticker restarts at
// the new interval right away.
func (c *Controller) AdjustSpeed() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.speedIdx = (c.speedIdx + 1) % len(speeds)
	if c.state == StateRunning {
		c.startTicker()
	}
}

// JumpToNextDrive reveals the rest of the current drive at once and opens the
// next one, if any.
func (c *Controller) JumpToNextDrive() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.revealed) == 0 || c.state == StateComplete {
		return
	}

	c.stopTicker()

	front := &c.revealed[0]
	src := c.sourceFor(0)
	if n := len(front.Plays); n < len(src.Plays) {
		// source plays [0, len-n) are the ones still hidden, already newest first
		remaining := src.Plays[:len(src.Plays)-n]
		plays := make([]models.Play, 0, len(src.Plays))
		plays = append(plays, remaining...)
		plays = append(plays, front.Plays...)
		front.Plays = plays
	}
	front.Finished = true

	if len(c.revealed) < len(c.source) {
		c.openNextDrive()
	}
	c.notify()

	if c.state == StateRunning {
		c.startTicker()
	}
}

// State returns the current playback state
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Speed returns the current multiplier
func (c *Controller) Speed() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return speeds[c.speedIdx]
}

// Interval returns the current tick interval
func (c *Controller) Interval() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.interval()
}

func (c *Controller) IsPaused() bool {
	return c.State() == StatePaused
}

// Drives returns a copy of the revealed drives, newest first
func (c *Controller) Drives() []models.Drive {
	c.mu.Lock()
	defer c.mu.Unlock()
	return models.CloneDrives(c.revealed)
}

// SetDrives replaces the revealed drives. They must be a prefix of the
// source, drive for drive and play for play.
func (c *Controller) SetDrives(drives []models.Drive) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.checkPrefix(drives); err != nil {
		return err
	}
	c.revealed = models.CloneDrives(drives)
	for i := range c.revealed {
		src := c.sourceFor(i)
		c.revealed[i].Finished = len(c.revealed[i].Plays) == len(src.Plays)
	}
	return nil
}

func (c *Controller) checkPrefix(drives []models.Drive) error {
	if len(drives) > len(c.source) {
		return fmt.Errorf("%w: %d drives, source has %d", ErrInvalidDrives, len(drives), len(c.source))
	}
	// drives[len-1] is the oldest and pairs with source[len(source)-1]
	for k := 0; k < len(drives); k++ {
		got := drives[len(drives)-1-k]
		src := c.source[len(c.source)-1-k]
		if len(got.Plays) > len(src.Plays) {
			return fmt.Errorf("%w: drive %d has %d plays, source has %d", ErrInvalidDrives, k, len(got.Plays), len(src.Plays))
		}
		if k < len(drives)-1 && len(got.Plays) != len(src.Plays) {
			return fmt.Errorf("%w: drive %d is incomplete but not the latest", ErrInvalidDrives, k)
		}
		// revealed plays are the oldest ones, which sit at the end of the source
		tail := src.Plays[len(src.Plays)-len(got.Plays):]
		for j := range got.Plays {
			if got.Plays[j].SequenceNumber != tail[j].SequenceNumber {
				return fmt.Errorf("%w: drive %d play %d does not match", ErrInvalidDrives, k, j)
			}
		}
	}
	return nil
}

// sourceFor returns the source drive for revealed index i. Both lists are
// newest first and the oldest revealed drive is the oldest source drive.
func (c *Controller) sourceFor(i int) models.Drive {
	return c.source[len(c.source)-len(c.revealed)+i]
}

func (c *Controller) interval() time.Duration {
	return time.Duration(float64(c.baseInterval) / speeds[c.speedIdx])
}

// openNextDrive prepends the next source drive with no plays revealed.
// Callers check that one remains.
func (c *Controller) openNextDrive() {
	src := c.source[len(c.source)-1-len(c.revealed)]
	next := src.Clone()
	next.Plays = []models.Play{}
	next.Finished = len(src.Plays) == 0

	c.revealed = append([]models.Drive{next}, c.revealed...)
}

// tick advances playback by one step and reports whether anything changed
func (c *Controller) tick() bool {
	if len(c.revealed) > 0 {
		front := &c.revealed[0]
		src := c.sourceFor(0)
		if n := len(front.Plays); n < len(src.Plays) {
			// source is newest first, so the next play in time is the one just
			// before those already revealed
			next := src.Plays[len(src.Plays)-1-n]
			front.Plays = append([]models.Play{next}, front.Plays...)
			front.Finished = len(front.Plays) == len(src.Plays)

			if front.Finished && len(c.revealed) < len(c.source) {
				c.openNextDrive()
			}
			return true
		}
	}

	if len(c.revealed) < len(c.source) {
		c.openNextDrive()
		return true
	}

	c.complete()
	return false
}

func (c *Controller) complete() {
	c.stopTicker()
	c.state = StateComplete
	log.Debug().Int("drives", len(c.revealed)).Msg("replay complete")
	if c.onComplete != nil {
		c.onComplete()
	}
}

func (c *Controller) notify() {
	if c.onUpdate != nil {
		c.onUpdate(models.CloneDrives(c.revealed))
	}
}

// startTicker replaces any live ticker with a new one at the current interval
func (c *Controller) startTicker() {
	c.stopTicker()

	c.gen++
	gen := c.gen
	ticker := c.clock.NewTicker(c.interval())
	stopCh := make(chan struct{})
	c.ticker = ticker
	c.stopCh = stopCh

	go c.run(ticker, stopCh, gen)
}

func (c *Controller) stopTicker() {
	if c.ticker == nil {
		return
	}
	c.ticker.Stop()
	close(c.stopCh)
	c.ticker = nil
	c.stopCh = nil
}

func (c *Controller) run(ticker clockwork.Ticker, stopCh <-chan struct{}, gen uint64) {
	for {
		select {
		case <-stopCh:
			return
		case <-ticker.Chan():
			c.mu.Lock()
			if c.gen != gen || c.state != StateRunning {
				c.mu.Unlock()
				return
			}
			if c.tick() {
				c.notify()
			}
			c.mu.Unlock()
		}
	}
}
