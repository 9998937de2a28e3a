// ABOUTME: Config file watching for live debounce tuning
// ABOUTME: Wraps fsnotify so config edits reach the running TUI as messages

package tui

import (
	"fmt"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"
)

// configChangedMsg is sent when the config file is written or replaced
type configChangedMsg struct{}

// settleDelay lets editors finish writing before the file is re-read
const settleDelay = 100 * time.Millisecond

// newConfigWatcher watches the directory holding path, so editors that
// replace the file by rename are still seen
func newConfigWatcher(path string) (*fsnotify.Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	if err := watcher.Add(filepath.Dir(path)); err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("failed to watch config directory: %w", err)
	}

	return watcher, nil
}

// waitForConfigChange returns a command that waits for the next change to path
func waitForConfigChange(watcher *fsnotify.Watcher, path string, log Logger) tea.Cmd {
	if watcher == nil {
		return nil
	}

	target := filepath.Clean(path)

	return func() tea.Msg {
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return nil
				}

				if filepath.Clean(event.Name) != target {
					continue
				}

				if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
					time.Sleep(settleDelay)
					return configChangedMsg{}
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return nil
				}

				log.Debugf("[WATCHER] Error: %v", err)
			}
		}
	}
}
