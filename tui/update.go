// ABOUTME: Event handling and state updates for the TUI
// ABOUTME: Implements the Bubble Tea Init() and Update() functions and message handlers

package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime/debug"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// Init starts polling, loads the initial video and watches the config file
func (m model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.tick(), tea.EnterAltScreen}

	if m.initialVideo != "" {
		path := m.initialVideo
		cmds = append(cmds, func() tea.Msg { return openVideoMsg{path: path} })
	}

	if m.watcher != nil {
		cmds = append(cmds, waitForConfigChange(m.watcher, m.configPath, m.log))
	}

	return tea.Batch(cmds...)
}

// userHomeDir is replaced in tests
var userHomeDir = os.UserHomeDir

// openVideoMsg requests a new session for path
type openVideoMsg struct {
	path string
}

// Update handles messages and updates the model
//
//nolint:ireturn // Bubble Tea framework requires returning tea.Model interface
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	defer func() {
		if r := recover(); r != nil {
			m.log.Warnf("[PANIC] Update panic: %v", r)
			m.log.Warnf("[PANIC] Stack trace: %s", string(debug.Stack()))
			panic(r) // Re-panic so Bubble Tea can handle it
		}
	}()

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		m.viewport.Width = max(msg.Width-2, minViewportWidth)
		m.viewport.Height = max(msg.Height-totalUIChrome, minViewportHeight)
		m.prompt.Width = max(msg.Width-len(m.prompt.Prompt)-2, minViewportWidth)

		m.ensureCursorVisible()
		m.updateViewportContent()

		return m, nil

	case tickMsg:
		return m, tea.Batch(pollPosition(m.transport, m.durationMS), m.tick())

	case positionMsg:
		m.positionMS = msg.positionMS
		m.durationMS = msg.durationMS

		if msg.pausedOK {
			m.playing = !msg.paused
		}

		return m, nil

	case markPositionMsg:
		if msg.err != nil {
			// Unknown position (nothing loaded, player gone) marks at 0
			m.log.Debugf("[TUI] Position unavailable for mark: %v", msg.err)
			msg.positionMS = 0
		}

		m.positionMS = max(msg.positionMS, 0)
		m.recordMark(m.positionMS)

		return m, nil

	case playStateMsg:
		if msg.err != nil {
			m.setStatusMsg(fmt.Sprintf("Playback error: %v", msg.err))
			m.log.Warnf("[TUI] Play/pause failed: %v", msg.err)

			return m, nil
		}

		m.playing = msg.playing

		return m, nil

	case openVideoMsg:
		return m, m.openVideo(msg.path)

	case videoLoadedMsg:
		if msg.path != m.videoPath {
			// A newer video replaced this one while it was loading
			return m, nil
		}

		if msg.err != nil {
			m.setStatusMsg(fmt.Sprintf("Failed to load video: %v", msg.err))
			m.log.Warnf("[TUI] Load failed for %s: %v", msg.path, msg.err)

			return m, nil
		}

		m.setStatusMsg("Loaded: " + filepath.Base(msg.path))

		if m.cfg.Autoplay {
			return m, setPlaying(m.transport, true)
		}

		return m, nil

	case folderOpenedMsg:
		if msg.err != nil {
			m.setStatusMsg(fmt.Sprintf("Could not open folder %s: %v", msg.dir, msg.err))
		}

		return m, nil

	case configChangedMsg:
		cfg, err := m.loadConfig(m.configPath)
		if err != nil {
			m.setStatusMsg(fmt.Sprintf("Config reload failed: %v", err))
			m.log.Warnf("[TUI] Config reload failed: %v", err)
		} else {
			m.applyConfig(cfg)
		}

		return m, waitForConfigChange(m.watcher, m.configPath, m.log)

	case tea.MouseMsg:
		return m, m.handleMouse(msg)

	case tea.KeyMsg:
		if m.prompting {
			return m.handlePromptKey(msg)
		}

		switch {
		case key.Matches(msg, keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, keys.PlayPause):
			return m, setPlaying(m.transport, !m.playing)

		case key.Matches(msg, keys.Mark):
			return m, readMarkPosition(m.transport)

		case key.Matches(msg, keys.Undo):
			m.undo()

		case key.Matches(msg, keys.Save):
			m.save()

		case key.Matches(msg, keys.Open):
			m.prompting = true
			m.prompt.SetValue("")

			return m, m.prompt.Focus()

		case key.Matches(msg, keys.OpenFolder):
			return m, openFolderCmd(m.openFolder, filepath.Dir(m.outputPath))

		case key.Matches(msg, keys.Up):
			if m.cursorPos > 0 {
				m.cursorPos--
				m.ensureCursorVisible()
				m.updateViewportContent()
			}

		case key.Matches(msg, keys.Down):
			if m.cursorPos < m.recorder.Len()-1 {
				m.cursorPos++
				m.ensureCursorVisible()
				m.updateViewportContent()
			}
		}
	}

	return m, nil
}

// handlePromptKey routes keys to the open-video prompt
func (m model) handlePromptKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	// q is typeable in a path, ctrl+c is not
	case key.Matches(msg, keys.ForceQuit):
		m.prompting = false
		m.prompt.Blur()
		m.quitting = true

		return m, tea.Quit

	case key.Matches(msg, keys.Cancel):
		m.prompting = false
		m.prompt.Blur()

		return m, nil

	case key.Matches(msg, keys.Confirm):
		m.prompting = false
		m.prompt.Blur()

		path := expandHome(strings.TrimSpace(m.prompt.Value()))
		if path == "" {
			return m, nil
		}

		return m, m.openVideo(path)
	}

	var cmd tea.Cmd
	m.prompt, cmd = m.prompt.Update(msg)

	return m, cmd
}

// handleMouse turns a left double click on the mark button into a mark.
// Single clicks are ignored.
func (m *model) handleMouse(msg tea.MouseMsg) tea.Cmd {
	if msg.Button != tea.MouseButtonLeft || msg.Action != tea.MouseActionPress || msg.Y != markButtonRow {
		return nil
	}

	now := time.Now()
	if !m.lastClick.IsZero() && now.Sub(m.lastClick) <= doubleClickWindow {
		m.lastClick = time.Time{}
		return readMarkPosition(m.transport)
	}

	m.lastClick = now

	return nil
}

// expandHome replaces a leading ~ with the home directory
func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}

	home, err := userHomeDir()
	if err != nil {
		return path
	}

	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
