// ABOUTME: Configuration management for the video marker
// ABOUTME: Handles loading/saving TOML config files with fallback to defaults

// Package config loads and saves video-marker settings.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

const (
	localConfigName = "video-marker.toml"
	appDirName      = "video-marker"
)

// Config holds user-tunable settings
type Config struct {
	// Marking
	MinGapMS int64 `toml:"min_gap_ms"` // Debounce between marks

	// Output target
	OutputDir string `toml:"output_dir"` // Directory for marks files (empty: desktop fallback chain)
	UserName  string `toml:"user_name"`  // Name used in default file names (empty: OS account)

	// Player
	PlayerPath     string   `toml:"player_path"`      // mpv binary (empty: $VIDEO_MARKER_MPV or PATH)
	PlayerArgs     []string `toml:"player_args"`      // Extra mpv arguments
	StartTimeoutMS int      `toml:"start_timeout_ms"` // How long to wait for the mpv IPC socket
	Autoplay       bool     `toml:"autoplay"`         // Start playback after loading a video

	// UI
	PollIntervalMS int `toml:"poll_interval_ms"` // Position/time display refresh
}

// DefaultConfig returns the default configuration
func DefaultConfig() Config {
	return Config{
		MinGapMS:       250,
		StartTimeoutMS: 5000,
		Autoplay:       true,
		PollIntervalMS: 1000,
	}
}

// Validate reports settings that cannot be used
func (c Config) Validate() error {
	var errs []error

	if c.MinGapMS < 0 {
		errs = append(errs, fmt.Errorf("min_gap_ms must be >= 0, got %d", c.MinGapMS))
	}

	if c.PollIntervalMS <= 0 {
		errs = append(errs, fmt.Errorf("poll_interval_ms must be > 0, got %d", c.PollIntervalMS))
	}

	if c.StartTimeoutMS <= 0 {
		errs = append(errs, fmt.Errorf("start_timeout_ms must be > 0, got %d", c.StartTimeoutMS))
	}

	return errors.Join(errs...)
}

// GetConfigPath returns the default config file path
// First tries current directory, then falls back to ~/.config/video-marker/config.toml
func GetConfigPath() string {
	if _, err := os.Stat("./" + localConfigName); err == nil {
		return "./" + localConfigName
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "./" + localConfigName
	}

	return filepath.Join(home, ".config", appDirName, "config.toml")
}

// LoadConfig loads configuration from a TOML file
// If the file doesn't exist, returns default config. Keys missing from the
// file keep their default values.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}

		return DefaultConfig(), fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, &config); err != nil {
		return DefaultConfig(), fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := config.Validate(); err != nil {
		return DefaultConfig(), fmt.Errorf("invalid config file %s: %w", path, err)
	}

	return config, nil
}

// SaveConfig saves configuration to a TOML file
func SaveConfig(path string, config Config) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer func() {
		if err := f.Close(); err != nil {
			fmt.Printf("Warning: failed to close config file: %v\n", err)
		}
	}()

	encoder := toml.NewEncoder(f)
	if err := encoder.Encode(config); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}
