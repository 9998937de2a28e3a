// ABOUTME: Adapter implementations for TUI dependencies
// ABOUTME: Bridges marks, player and config packages to the TUI dependency contracts

package main

import (
	"fmt"
	"os/exec"
	"runtime"

	"video-marker/config"
	"video-marker/marks"
	"video-marker/player"
	"video-marker/tui"
)

// newDependencies wires the real implementations into the TUI
func newDependencies(transport tui.Transport) tui.Dependencies {
	return tui.Dependencies{
		Transport:     transport,
		SaveMarks:     marks.Save,
		ResolveOutput: resolveOutput,
		Probe:         player.Probe,
		OpenFolder:    openFolder,
		LoadConfig:    config.LoadConfig,
		Logger:        &loggerAdapter{},
	}
}

// resolveOutput builds the default marks path for videoPath
func resolveOutput(videoPath string, cfg config.Config) string {
	return marks.DefaultOutputPath(marks.OutputOptions{
		VideoPath: videoPath,
		Dir:       cfg.OutputDir,
		UserName:  cfg.UserName,
	})
}

// folderCommand returns the file manager invocation for dir on goos
func folderCommand(goos, dir string) (string, []string) {
	switch goos {
	case "windows":
		return "explorer", []string{dir}
	case "darwin":
		return "open", []string{dir}
	default:
		return "xdg-open", []string{dir}
	}
}

// openFolder shows dir in the platform file manager
func openFolder(dir string) error {
	name, args := folderCommand(runtime.GOOS, dir)

	cmd := exec.Command(name, args...)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to run %s: %w", name, err)
	}

	go func() { _ = cmd.Wait() }()

	return nil
}

// loggerAdapter adapts the debug logger to tui.Logger interface
type loggerAdapter struct{}

func (l *loggerAdapter) Debugf(format string, args ...interface{}) {
	logger.WithField("session", sessionID).Debugf(format, args...)
}

func (l *loggerAdapter) Warnf(format string, args ...interface{}) {
	logger.WithField("session", sessionID).Warnf(format, args...)
}
