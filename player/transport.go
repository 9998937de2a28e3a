// ABOUTME: Media transport errors and the player-less fallback transport
// ABOUTME: Null keeps a manual clock so marks still carry positions without mpv

// Package player drives the external media player used to watch videos while
// marking them.
package player

import (
	"context"
	"errors"
	"sync"
	"time"
)

var (
	// ErrNoPlayer is returned by Null for operations that need a real player
	ErrNoPlayer = errors.New("no media player available")
	// ErrClosed is returned after the transport has been closed
	ErrClosed = errors.New("player closed")
	// ErrUnavailable is returned when a property has no value yet (e.g. nothing loaded)
	ErrUnavailable = errors.New("property unavailable")
)

// Null is a transport without a video player. Its clock advances in wall time
// while playing.
type Null struct {
	mu      sync.Mutex
	now     func() time.Time
	started time.Time
	offset  time.Duration
	playing bool
}

// NewNull creates a paused Null transport at position 0
func NewNull() *Null {
	return &Null{now: time.Now}
}

// Position returns the manual clock in milliseconds
func (n *Null) Position(_ context.Context) (int64, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	return n.elapsed().Milliseconds(), nil
}

// Duration is unknown without a player
func (n *Null) Duration(_ context.Context) (int64, error) {
	return 0, ErrUnavailable
}

// Play starts the clock
func (n *Null) Play(_ context.Context) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if !n.playing {
		n.started = n.now()
		n.playing = true
	}

	return nil
}

// Pause stops the clock
func (n *Null) Pause(_ context.Context) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.playing {
		n.offset = n.elapsed()
		n.playing = false
	}

	return nil
}

// Paused reports whether the clock is stopped
func (n *Null) Paused(_ context.Context) (bool, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	return !n.playing, nil
}

// Load rewinds the clock; there is nothing to show the video with
func (n *Null) Load(_ context.Context, _ string) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.offset = 0
	n.playing = false

	return ErrNoPlayer
}

// Close is a no-op
func (n *Null) Close() error { return nil }

// elapsed must be called with mu held
func (n *Null) elapsed() time.Duration {
	if !n.playing {
		return n.offset
	}

	return n.offset + n.now().Sub(n.started)
}
