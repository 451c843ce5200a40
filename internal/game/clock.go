package game

import (
	"context"
	"sync"
	"time"

	"github.com/hailam/chessgrid/internal/board"
)

// Clock is a two-sided chess clock with a Fischer increment. Time is read from
// a pluggable source, so the clock only advances when it is observed.
// A Clock is safe for concurrent use.
type Clock struct {
	mu        sync.Mutex
	remaining [3]time.Duration // indexed by color
	increment time.Duration
	active    board.Color
	running   bool
	since     time.Time
	now       func() time.Time
}

// ClockOption configures a Clock.
type ClockOption func(*Clock)

// WithTimeSource replaces time.Now as the clock's time source.
func WithTimeSource(now func() time.Time) ClockOption {
	return func(c *Clock) {
		c.now = now
	}
}

// NewClock creates a stopped clock giving each side the given minutes.
func NewClock(minutes int, increment time.Duration, opts ...ClockOption) *Clock {
	c := &Clock{increment: increment, now: time.Now}
	for _, opt := range opts {
		opt(c)
	}
	c.Reset(minutes)
	return c
}

// Start runs the clock of color. Starting the already running side is a no-op.
func (c *Clock) Start(color board.Color) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.start(color)
}

func (c *Clock) start(color board.Color) {
	if c.running && c.active == color {
		return
	}
	c.settle()
	c.active = color
	c.running = c.remaining[color] > 0
	c.since = c.now()
}

// Stop halts the clock. The active side is remembered.
func (c *Clock) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.settle()
	c.running = false
}

// SwitchTurn credits the increment to the side that just moved and starts the
// opponent's clock. Before the first move it starts White's clock.
func (c *Clock) SwitchTurn() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.settle()
	switch c.active {
	case board.White, board.Black:
		if c.remaining[c.active] > 0 {
			c.remaining[c.active] += c.increment
		}
		c.start(c.active.Other())
	default:
		c.start(board.White)
	}
}

// Reset stops the clock and gives each side the given minutes.
func (c *Clock) Reset(minutes int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	total := time.Duration(minutes) * time.Minute
	c.remaining = [3]time.Duration{board.White: total, board.Black: total}
	c.active = board.NoColor
	c.running = false
}

// Remaining returns the time left for color.
func (c *Clock) Remaining(color board.Color) time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.settle()
	return c.remaining[color]
}

// Active returns the side whose clock was last started, or board.NoColor.
func (c *Clock) Active() board.Color {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active
}

// Running reports whether a side's time is currently running.
func (c *Clock) Running() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.settle()
	return c.running
}

// Flagged returns the side that has run out of time.
func (c *Clock) Flagged() (board.Color, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.settle()
	for _, color := range [2]board.Color{board.White, board.Black} {
		if c.remaining[color] <= 0 {
			return color, true
		}
	}
	return board.NoColor, false
}

// settle charges the running side for the time elapsed since the last observation.
func (c *Clock) settle() {
	if !c.running {
		return
	}
	now := c.now()
	c.remaining[c.active] -= now.Sub(c.since)
	c.since = now
	if c.remaining[c.active] <= 0 {
		c.remaining[c.active] = 0
		c.running = false
	}
}

// Run calls onTick with both remaining times every interval until ctx is done.
func (c *Clock) Run(ctx context.Context, interval time.Duration, onTick func(white, black time.Duration)) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			onTick(c.Remaining(board.White), c.Remaining(board.Black))
		}
	}
}
