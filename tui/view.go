// ABOUTME: Rendering and display functions for the TUI
// ABOUTME: Implements the Bubble Tea View() function and all render helpers

package tui

import (
	"fmt"
	"runtime/debug"
	"strings"
	"time"

	"video-marker/marks"
)

// View renders the TUI
func (m model) View() string {
	defer func() {
		if r := recover(); r != nil {
			m.log.Warnf("[PANIC] View panic: %v", r)
			m.log.Warnf("[PANIC] Stack trace: %s", string(debug.Stack()))
			panic(r) // Re-panic so Bubble Tea can handle it
		}
	}()

	if m.quitting {
		return "Saving marks and exiting...\n"
	}

	// Row order must match headerRows and markButtonRow
	var b strings.Builder

	b.WriteString(m.renderTitle() + "\n")
	b.WriteString(outputStyle.Render("Output: "+truncate(m.outputPath, max(m.width-10, 20))) + "\n")
	b.WriteString("\n")
	b.WriteString(markButtonStyle.Render("MARK (double-click)") + "\n")
	b.WriteString("\n")
	b.WriteString(m.renderClock() + "\n")
	b.WriteString(listHeaderStyle.Render(fmt.Sprintf("Marks (s)  %d total", m.recorder.Len())) + "\n")
	b.WriteString(m.viewport.View() + "\n")
	b.WriteString(m.renderStatus() + "\n")
	b.WriteString(m.renderHelp())

	return b.String()
}

// renderTitle renders the title line with the loaded video
func (m model) renderTitle() string {
	title := "Video Timestamp Marker"

	if m.videoPath != "" {
		title += " | " + m.media.DisplayName()
	}

	return titleStyle.Render(title)
}

// renderClock renders position / duration and the play state
func (m model) renderClock() string {
	state := "▶ Play (space)"
	if m.playing {
		state = "⏸ Pause (space)"
	}

	return clockStyle.Render(fmt.Sprintf("%s / %s", marks.FormatClock(m.positionMS), marks.FormatClock(m.durationMS))) + "  " + helpStyle.Render(state)
}

// updateViewportContent builds and sets the marks list content
// Renders ALL marks - let viewport handle scrolling
func (m *model) updateViewportContent() {
	var b strings.Builder

	for i, ms := range m.recorder.Entries() {
		line := fmt.Sprintf("%4d  %10s", i+1, marks.FormatSeconds(ms))

		if i == m.cursorPos {
			line = cursorStyle.Render(line)
		}

		b.WriteString(line + "\n")
	}

	m.viewport.SetContent(b.String())
}

// renderStatus renders the status bar or the open-video prompt
func (m model) renderStatus() string {
	if m.prompting {
		return m.prompt.View()
	}

	if m.statusMsg != "" && time.Since(m.statusMsgAge) < statusMessageDuration {
		return statusStyle.Width(m.width).Render(m.statusMsg)
	}

	saved := "saved"
	if m.dirty {
		saved = "unsaved"
	}

	status := fmt.Sprintf("%d marks (%s) | debounce %d ms", m.recorder.Len(), saved, m.recorder.MinGap())
	if m.videoPath == "" {
		status = "Ready | press o to open a video | " + status
	}

	return statusStyle.Width(m.width).Render(status)
}

// renderHelp renders the help text
func (m model) renderHelp() string {
	if m.prompting {
		return helpStyle.Render(" enter: open | esc: cancel")
	}

	return helpStyle.Render(" space: play/pause | m / double-click: mark | u: undo | s: save csv | o: open video | f: open folder | ↑/↓: browse | q: save & quit")
}
