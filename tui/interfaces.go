// ABOUTME: Interfaces defining dependencies for the TUI package
// ABOUTME: Allows clean separation and easy testing with fakes

package tui

import (
	"context"
)

// Transport controls video playback. Positions and durations are in
// milliseconds; an error means the value is unknown.
type Transport interface {
	Position(ctx context.Context) (int64, error)
	Duration(ctx context.Context) (int64, error)
	Play(ctx context.Context) error
	Pause(ctx context.Context) error
	Paused(ctx context.Context) (bool, error)
	Load(ctx context.Context, path string) error
}

// Logger provides debug logging capability
type Logger interface {
	Debugf(format string, args ...interface{})
	Warnf(format string, args ...interface{})
}

type nopLogger struct{}

func (nopLogger) Debugf(string, ...interface{}) {}

func (nopLogger) Warnf(string, ...interface{}) {}
