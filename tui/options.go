// ABOUTME: TUI mode configuration and command-line options
// ABOUTME: Defines input parameters and injected dependencies for running the TUI

package tui

import (
	"video-marker/config"
	"video-marker/marks"
	"video-marker/player"
)

// Options contains configuration for running the TUI
type Options struct {
	VideoPath   string        // Video to load on start (optional)
	OutputPath  string        // Explicit CSV path; disables per-video defaults
	MinGapFixed bool          // MinGapMS came from the command line; ignore config reloads
	Config      config.Config // Effective configuration (flags already applied)
	ConfigPath  string        // Watched for changes when non-empty
}

// Dependencies holds all external dependencies for the TUI
// This allows for clean dependency injection and easy testing
type Dependencies struct {
	Transport     Transport
	SaveMarks     func(path string, r *marks.Recorder) (int, error)
	ResolveOutput func(videoPath string, cfg config.Config) string
	Probe         func(path string) (player.MediaInfo, error)
	OpenFolder    func(dir string) error
	LoadConfig    func(path string) (config.Config, error)
	Logger        Logger
}
