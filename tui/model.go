// ABOUTME: Terminal UI model and core state management
// ABOUTME: Bubble Tea model wiring the mark recorder to the media transport

// Package tui provides an interactive terminal UI for marking moments in a video.
package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/fsnotify/fsnotify"

	"video-marker/config"
	"video-marker/marks"
	"video-marker/player"
)

// Layout constants for UI dimensions
const (
	// Rows above the marks list: title, output, blank, mark button, blank, clock, list header
	headerRows      = 7
	markButtonRow   = 3
	statusBarHeight = 1
	helpHeight      = 1
	totalUIChrome   = headerRows + statusBarHeight + helpHeight

	minViewportWidth  = 20
	minViewportHeight = 3
)

// Interaction constants
const (
	statusMessageDuration = 5 * time.Second        // How long to show transient status messages
	doubleClickWindow     = 400 * time.Millisecond // Max gap between clicks of a double click
	transportTimeout      = 500 * time.Millisecond // Per-call limit for player IPC
)

// model holds the TUI state
type model struct {
	// Dependencies
	transport     Transport
	saveMarks     func(string, *marks.Recorder) (int, error)
	resolveOutput func(string, config.Config) string
	probe         func(string) (player.MediaInfo, error)
	openFolder    func(string) error
	loadConfig    func(string) (config.Config, error)
	log           Logger

	// Configuration
	cfg         config.Config
	configPath  string
	minGapFixed bool
	watcher     *fsnotify.Watcher

	// Session
	recorder     *marks.Recorder
	dirty        bool   // Marks changed since the last save
	initialVideo string // Loaded by Init
	videoPath    string
	media        player.MediaInfo
	outputPath   string
	outputFixed  bool // Output path given explicitly; keep it across videos

	// Playback
	playing    bool
	positionMS int64
	durationMS int64

	// UI state
	width        int
	height       int
	quitting     bool
	statusMsg    string
	statusMsgAge time.Time
	cursorPos    int
	viewport     viewport.Model
	prompt       textinput.Model
	prompting    bool
	lastClick    time.Time
}

// Key bindings
type keyMap struct {
	PlayPause  key.Binding
	Mark       key.Binding
	Undo       key.Binding
	Save       key.Binding
	Open       key.Binding
	OpenFolder key.Binding
	Up         key.Binding
	Down       key.Binding
	Quit       key.Binding
	ForceQuit  key.Binding
	Confirm    key.Binding
	Cancel     key.Binding
}

var keys = keyMap{
	PlayPause: key.NewBinding(
		key.WithKeys(" "),
		key.WithHelp("space", "play/pause"),
	),
	Mark: key.NewBinding(
		key.WithKeys("m", "M"),
		key.WithHelp("m", "mark"),
	),
	Undo: key.NewBinding(
		key.WithKeys("u", "U"),
		key.WithHelp("u", "undo"),
	),
	Save: key.NewBinding(
		key.WithKeys("s", "ctrl+s"),
		key.WithHelp("s", "save csv"),
	),
	Open: key.NewBinding(
		key.WithKeys("o"),
		key.WithHelp("o", "open video"),
	),
	OpenFolder: key.NewBinding(
		key.WithKeys("f"),
		key.WithHelp("f", "open folder"),
	),
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "browse marks"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "browse marks"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "save & quit"),
	),
	ForceQuit: key.NewBinding(
		key.WithKeys("ctrl+c"),
		key.WithHelp("ctrl+c", "save & quit"),
	),
	Confirm: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "open"),
	),
	Cancel: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "cancel"),
	),
}

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("12"))

	outputStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))

	markButtonStyle = lipgloss.NewStyle().
			Bold(true).
			Background(lipgloss.Color("22")).
			Foreground(lipgloss.Color("15")).
			Padding(0, 2)

	clockStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("33"))

	listHeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("10"))

	statusStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("236")).
			Foreground(lipgloss.Color("15")).
			Padding(0, 1)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	cursorStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("240")).
			Foreground(lipgloss.Color("15"))
)

// Result summarizes a finished session
type Result struct {
	OutputPath string
	Saved      int // Marks written on exit (0 when nothing was saved)
}

// Run starts the TUI and saves any marks when it exits
func Run(opts Options, deps Dependencies) (Result, error) {
	m := initModel(opts, deps)

	if opts.ConfigPath != "" {
		watcher, err := newConfigWatcher(opts.ConfigPath)
		if err != nil {
			m.log.Warnf("[TUI] Config hot reload disabled: %v", err)
		} else {
			m.watcher = watcher
			defer watcher.Close()
		}
	}

	// Closing the terminal sends SIGHUP, which bubbletea does not handle itself
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGHUP)
	defer stop()

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx))

	finalModel, runErr := p.Run()

	fm, ok := finalModel.(model)
	if !ok {
		if runErr != nil {
			return Result{}, fmt.Errorf("TUI error: %w", runErr)
		}

		return Result{OutputPath: m.outputPath}, nil
	}

	// Signals and kills still return the live model, so its marks are saved
	if runErr != nil {
		fm.log.Warnf("[TUI] Program ended: %v", runErr)
	}

	result, err := saveOnExit(fm, os.Stdout)
	if err != nil {
		return result, err
	}

	if runErr != nil && !interruptedExit(runErr) {
		return result, fmt.Errorf("TUI error: %w", runErr)
	}

	return result, nil
}

// interruptedExit reports whether err only means the program was stopped by a signal
func interruptedExit(err error) bool {
	if errors.Is(err, tea.ErrProgramPanic) {
		return false
	}

	return errors.Is(err, tea.ErrInterrupted) || errors.Is(err, tea.ErrProgramKilled)
}

// saveOnExit writes the final marks. When the write fails the CSV is
// copied to dump so the marks are not lost.
func saveOnExit(fm model, dump io.Writer) (Result, error) {
	result := Result{OutputPath: fm.outputPath}

	if fm.recorder.Len() == 0 {
		return result, nil
	}

	n, err := fm.saveMarks(fm.outputPath, fm.recorder)
	if err != nil {
		if data, encErr := marks.EncodeCSV(fm.recorder.Export()); encErr == nil {
			fmt.Fprintln(os.Stderr, "Failed to save marks, dumping them to stdout:")
			_, _ = dump.Write(data)
		}

		return result, fmt.Errorf("failed to save marks on exit: %w", err)
	}

	fm.log.Debugf("[TUI] Saved %d marks on exit to %s", n, fm.outputPath)

	result.Saved = n

	return result, nil
}

// initModel creates the initial model with injected dependencies
func initModel(opts Options, deps Dependencies) model {
	logger := deps.Logger
	if logger == nil {
		logger = nopLogger{}
	}

	prompt := textinput.New()
	prompt.Placeholder = "/path/to/video.mp4"
	prompt.Prompt = "Open video: "
	prompt.CharLimit = 4096

	m := model{
		transport:     deps.Transport,
		saveMarks:     deps.SaveMarks,
		resolveOutput: deps.ResolveOutput,
		probe:         deps.Probe,
		openFolder:    deps.OpenFolder,
		loadConfig:    deps.LoadConfig,
		log:           logger,

		cfg:         opts.Config,
		configPath:  opts.ConfigPath,
		minGapFixed: opts.MinGapFixed,

		recorder:    marks.NewRecorder(opts.Config.MinGapMS),
		outputPath:  opts.OutputPath,
		outputFixed: opts.OutputPath != "",

		viewport: viewport.New(0, 0), // Width and height set on first WindowSizeMsg
		prompt:   prompt,
	}

	if m.transport == nil {
		m.transport = player.NewNull()
	}

	if m.outputPath == "" {
		m.outputPath = m.resolveOutput(opts.VideoPath, m.cfg)
	}

	m.initialVideo = opts.VideoPath

	return m
}

// ========== Commands ==========

// tickMsg drives position polling
type tickMsg time.Time

// positionMsg carries a polled transport snapshot
type positionMsg struct {
	positionMS int64
	durationMS int64 // 0 when still unknown
	paused     bool
	pausedOK   bool
}

// markPositionMsg carries the position read for a mark request
type markPositionMsg struct {
	positionMS int64
	err        error
}

// playStateMsg reports the result of a play/pause request
type playStateMsg struct {
	playing bool
	err     error
}

// videoLoadedMsg reports the result of loading a video
type videoLoadedMsg struct {
	path string
	err  error
}

// folderOpenedMsg reports the result of opening the output folder
type folderOpenedMsg struct {
	dir string
	err error
}

func (m model) tick() tea.Cmd {
	interval := time.Duration(m.cfg.PollIntervalMS) * time.Millisecond
	if interval <= 0 {
		interval = time.Second
	}

	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// pollPosition reads position, duration and pause state from the transport
func pollPosition(t Transport, knownDuration int64) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), transportTimeout)
		defer cancel()

		msg := positionMsg{durationMS: knownDuration}

		if pos, err := t.Position(ctx); err == nil {
			msg.positionMS = pos
		}

		if knownDuration == 0 {
			if dur, err := t.Duration(ctx); err == nil && dur > 0 {
				msg.durationMS = dur
			}
		}

		if paused, err := t.Paused(ctx); err == nil {
			msg.paused = paused
			msg.pausedOK = true
		}

		return msg
	}
}

// readMarkPosition fetches the current position for a mark request
func readMarkPosition(t Transport) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), transportTimeout)
		defer cancel()

		pos, err := t.Position(ctx)

		return markPositionMsg{positionMS: pos, err: err}
	}
}

// setPlaying plays or pauses the transport
func setPlaying(t Transport, play bool) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), transportTimeout)
		defer cancel()

		var err error
		if play {
			err = t.Play(ctx)
		} else {
			err = t.Pause(ctx)
		}

		return playStateMsg{playing: play, err: err}
	}
}

// loadVideo asks the transport to open path
func loadVideo(t Transport, path string) tea.Cmd {
	return func() tea.Msg {
		// Loading can take longer than a property read
		ctx, cancel := context.WithTimeout(context.Background(), 10*transportTimeout)
		defer cancel()

		return videoLoadedMsg{path: path, err: t.Load(ctx, path)}
	}
}

func openFolderCmd(open func(string) error, dir string) tea.Cmd {
	return func() tea.Msg {
		return folderOpenedMsg{dir: dir, err: open(dir)}
	}
}

// ========== Helper Methods ==========

// setStatusMsg sets a transient status message with current timestamp
func (m *model) setStatusMsg(msg string) {
	m.statusMsg = msg
	m.statusMsgAge = time.Now()
}

// recordMark applies a mark at posMS and reports the outcome in the status bar
func (m *model) recordMark(posMS int64) {
	mark, ok := m.recorder.Record(posMS)
	if !ok {
		last, _ := m.recorder.Last()
		m.setStatusMsg(fmt.Sprintf("(debounced, last mark @ %ss)", marks.FormatSeconds(last)))
		m.log.Debugf("[TUI] Mark debounced at %dms (gap %dms)", posMS, m.recorder.MinGap())

		return
	}

	m.dirty = true
	m.cursorPos = mark.Index
	m.ensureCursorVisible()
	m.updateViewportContent()
	m.setStatusMsg(fmt.Sprintf("Marked @ %ss", marks.FormatSeconds(mark.MS)))
	m.log.Debugf("[TUI] Mark %d recorded at %dms", mark.Index, mark.MS)
}

// undo removes the most recent mark
func (m *model) undo() {
	v, ok := m.recorder.Undo()
	if !ok {
		m.setStatusMsg("Nothing to undo")

		return
	}

	m.dirty = true

	if m.cursorPos >= m.recorder.Len() {
		m.cursorPos = max(m.recorder.Len()-1, 0)
	}

	m.ensureCursorVisible()
	m.updateViewportContent()
	m.setStatusMsg("Undid last mark")
	m.log.Debugf("[TUI] Undid mark at %dms", v)
}

// save writes the current marks to the output path
func (m *model) save() bool {
	n, err := m.saveMarks(m.outputPath, m.recorder)
	if err != nil {
		m.setStatusMsg(fmt.Sprintf("Save failed: %v", err))
		m.log.Warnf("[TUI] Save failed: %v", err)

		return false
	}

	m.dirty = false
	m.setStatusMsg(fmt.Sprintf("Saved %d marks: %s", n, m.outputPath))
	m.log.Debugf("[TUI] Saved %d marks to %s", n, m.outputPath)

	return true
}

// openVideo starts a new session for path and asks the transport to load it
func (m *model) openVideo(path string) tea.Cmd {
	path = filepath.Clean(path)

	media, err := m.probe(path)
	if err != nil {
		m.setStatusMsg(fmt.Sprintf("File not found: %s", path))
		m.log.Warnf("[TUI] Cannot open %s: %v", path, err)

		return nil
	}

	// Unsaved marks belong to the previous video's file
	if m.dirty && !m.save() {
		return nil
	}

	m.recorder.Reset(m.cfg.MinGapMS)
	m.dirty = false
	m.cursorPos = 0
	m.videoPath = path
	m.media = media
	m.positionMS = 0
	m.durationMS = 0
	m.playing = false

	if !m.outputFixed {
		m.outputPath = m.resolveOutput(path, m.cfg)
	}

	m.updateViewportContent()
	m.log.Debugf("[TUI] New session for %s, output %s", path, m.outputPath)

	return loadVideo(m.transport, path)
}

// applyConfig adopts a reloaded configuration
func (m *model) applyConfig(cfg config.Config) {
	oldGap := m.recorder.MinGap()

	if m.minGapFixed {
		cfg.MinGapMS = m.cfg.MinGapMS
	}

	m.cfg = cfg

	if cfg.MinGapMS != oldGap {
		m.recorder.SetMinGap(cfg.MinGapMS)
		m.setStatusMsg(fmt.Sprintf("Debounce set to %d ms", cfg.MinGapMS))
		m.log.Debugf("[TUI] Debounce changed %dms -> %dms", oldGap, cfg.MinGapMS)
	}
}

// ensureCursorVisible adjusts viewport offset to keep the cursor visible
func (m *model) ensureCursorVisible() {
	m.viewport.SetYOffset(markListOffset(m.viewport.Height, m.cursorPos, m.recorder.Len()))
}

// truncate shortens a string to maxLen, adding "..." if truncated
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}

	if maxLen <= 3 {
		return s[:maxLen]
	}

	return s[:maxLen-3] + "..."
}
