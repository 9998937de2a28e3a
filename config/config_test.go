// ABOUTME: Tests for configuration load/save functionality
// ABOUTME: Validates TOML parsing, partial files and default config fallback behavior

package config

import (
	"os"
	"path/filepath"
	"slices"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.MinGapMS != 250 {
		t.Errorf("Expected MinGapMS 250, got %d", cfg.MinGapMS)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("Expected default config to be valid, got %v", err)
	}
}

func TestSaveAndLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.toml")

	cfg := DefaultConfig()
	cfg.MinGapMS = 400
	cfg.OutputDir = "/data/marks"
	cfg.PlayerArgs = []string{"--volume=50", "--mute=yes"}

	if err := SaveConfig(path, cfg); err != nil {
		t.Fatalf("SaveConfig failed: %v", err)
	}

	loaded, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if loaded.MinGapMS != cfg.MinGapMS {
		t.Errorf("MinGapMS mismatch: got %d, want %d", loaded.MinGapMS, cfg.MinGapMS)
	}

	if loaded.OutputDir != cfg.OutputDir {
		t.Errorf("OutputDir mismatch: got %q, want %q", loaded.OutputDir, cfg.OutputDir)
	}

	if !slices.Equal(loaded.PlayerArgs, cfg.PlayerArgs) {
		t.Errorf("PlayerArgs mismatch: got %v, want %v", loaded.PlayerArgs, cfg.PlayerArgs)
	}
}

func TestLoadPartialConfigKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("min_gap_ms = 500\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.MinGapMS != 500 {
		t.Errorf("Expected MinGapMS 500, got %d", cfg.MinGapMS)
	}

	if cfg.PollIntervalMS != DefaultConfig().PollIntervalMS {
		t.Errorf("Expected default PollIntervalMS, got %d", cfg.PollIntervalMS)
	}

	if !cfg.Autoplay {
		t.Error("Expected default Autoplay true")
	}
}

func TestLoadNonExistentConfig(t *testing.T) {
	cfg, err := LoadConfig("/nonexistent/path/config.toml")
	if err != nil {
		t.Errorf("Expected no error for non-existent file, got: %v", err)
	}

	if cfg.MinGapMS != DefaultConfig().MinGapMS {
		t.Errorf("Expected default MinGapMS, got %d", cfg.MinGapMS)
	}
}

func TestLoadInvalidConfig(t *testing.T) {
	tests := map[string]string{
		"syntax":       "min_gap_ms = = 3\n",
		"negative gap": "min_gap_ms = -1\n",
		"zero poll":    "poll_interval_ms = 0\n",
	}

	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			if err := os.WriteFile(path, []byte(content), 0644); err != nil {
				t.Fatal(err)
			}

			cfg, err := LoadConfig(path)
			if err == nil {
				t.Error("Expected error for invalid config")
			}

			if cfg.MinGapMS != DefaultConfig().MinGapMS {
				t.Errorf("Expected defaults on error, got MinGapMS %d", cfg.MinGapMS)
			}
		})
	}
}
