package ui

import (
	"fmt"
	"strings"

	"github.com/carsonvertex/tauri-pos-app/pkg/logs"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// LogsView is a scrollable, filterable pane of shell and backend log lines.
type LogsView struct {
	viewport      viewport.Model
	filterInput   textinput.Model
	lines         []string
	wrapped       []string // lines wrapped to width, parallel to lines
	filteredLines []string
	filteredWrap  []string
	maxLines      int
	wrap          func(s, indent string, maxWidth int) string
	keys          LogsKeyMap
	ready         bool
	autoScroll    bool
	filterMode    bool
	filterText    string
	width         int
	height        int
}

// NewLogsView creates a log pane keeping at most maxLines lines.
func NewLogsView(maxLines int) *LogsView {
	filterInput := textinput.New()
	filterInput.Placeholder = "Filter logs..."
	filterInput.CharLimit = 100
	filterInput.Width = 50

	if maxLines < 1 {
		maxLines = 1
	}

	return &LogsView{
		lines:       make([]string, 0),
		maxLines:    maxLines,
		keys:        DefaultLogsKeyMap(),
		autoScroll:  true,
		filterInput: filterInput,
		wrap:        WrapText,
	}
}

// SetSize resizes the pane. A width change rewraps every kept line.
func (lv *LogsView) SetSize(width, height int) {
	rewrap := width != lv.width
	lv.width = width
	lv.height = height
	lv.viewport.Width = width
	lv.viewport.Height = height
	lv.ready = true
	if rewrap {
		for i, line := range lv.lines {
			lv.wrapped[i] = lv.wrapLine(line)
		}
	}
	lv.applyFilter()
	lv.updateViewport()
}

// Update handles log lines and navigation keys.
func (lv *LogsView) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case logs.LogLineMsg:
		lv.appendLine(msg.Line)
		lv.updateViewport()
		if lv.autoScroll {
			lv.viewport.GotoBottom()
		}
		return nil

	case tea.KeyMsg:
		if lv.filterMode {
			switch {
			case key.Matches(msg, lv.keys.Confirm):
				lv.filterMode = false
				lv.filterText = lv.filterInput.Value()
				lv.applyFilter()
				lv.updateViewport()
				return nil
			case key.Matches(msg, lv.keys.Cancel):
				lv.filterMode = false
				lv.filterInput.SetValue(lv.filterText)
				return nil
			default:
				var cmd tea.Cmd
				lv.filterInput, cmd = lv.filterInput.Update(msg)
				return cmd
			}
		}

		switch {
		case key.Matches(msg, lv.keys.Filter):
			lv.filterMode = true
			lv.filterInput.Focus()
			return nil
		case key.Matches(msg, lv.keys.Cancel) && lv.filterText != "":
			lv.filterText = ""
			lv.filterInput.SetValue("")
			lv.applyFilter()
			lv.updateViewport()
			return nil
		case key.Matches(msg, lv.keys.GotoTop):
			lv.autoScroll = false
			lv.viewport.GotoTop()
			return nil
		case key.Matches(msg, lv.keys.GotoEnd):
			lv.autoScroll = true
			lv.viewport.GotoBottom()
			return nil
		}
	}

	var cmd tea.Cmd
	lv.viewport, cmd = lv.viewport.Update(msg)
	if !lv.viewport.AtBottom() {
		lv.autoScroll = false
	} else {
		lv.autoScroll = true
	}
	return cmd
}

// View renders the pane.
func (lv *LogsView) View() string {
	if !lv.ready {
		return "Initializing logs..."
	}
	return lv.viewport.View()
}

// FooterView shows the filter input or the active filter.
func (lv *LogsView) FooterView() string {
	if lv.filterMode {
		filterStyle := lipgloss.NewStyle().
			Foreground(primaryColor).
			Bold(true)
		return filterStyle.Render("Filter: ") + lv.filterInput.View()
	}

	if lv.filterText != "" {
		return dimStyle.Render(fmt.Sprintf("Filter: '%s' (%d/%d lines) • Press / to edit, Esc to clear",
			lv.filterText, len(lv.filteredLines), len(lv.lines)))
	}

	return ""
}

// IsCapturingInput reports whether keys go to the filter input.
func (lv *LogsView) IsCapturingInput() bool {
	return lv.filterMode
}

// Lines returns the lines currently shown, after filtering.
func (lv *LogsView) Lines() []string {
	return lv.filteredLines
}

// appendLine wraps only the new line and keeps the filtered view in step.
func (lv *LogsView) appendLine(line string) {
	wrapped := lv.wrapLine(line)
	lv.lines = append(lv.lines, line)
	lv.wrapped = append(lv.wrapped, wrapped)

	if len(lv.lines) > lv.maxLines {
		dropped := lv.lines[0]
		lv.lines = lv.lines[1:]
		lv.wrapped = lv.wrapped[1:]
		// the oldest line heads the filtered view when it matched
		if lv.filterText != "" && lv.matches(dropped) && len(lv.filteredLines) > 0 {
			lv.filteredLines = lv.filteredLines[1:]
			lv.filteredWrap = lv.filteredWrap[1:]
		}
	}

	switch {
	case lv.filterText == "":
		lv.filteredLines, lv.filteredWrap = lv.lines, lv.wrapped
	case lv.matches(line):
		lv.filteredLines = append(lv.filteredLines, line)
		lv.filteredWrap = append(lv.filteredWrap, wrapped)
	}
}

func (lv *LogsView) wrapLine(line string) string {
	return lv.wrap(strings.TrimRight(line, "\n"), "  ", lv.width)
}

func (lv *LogsView) matches(line string) bool {
	return strings.Contains(strings.ToLower(line), strings.ToLower(lv.filterText))
}

// applyFilter filters log lines based on current filter text
func (lv *LogsView) applyFilter() {
	if lv.filterText == "" {
		lv.filteredLines, lv.filteredWrap = lv.lines, lv.wrapped
		return
	}

	lv.filteredLines = make([]string, 0)
	lv.filteredWrap = make([]string, 0)
	for i, line := range lv.lines {
		if lv.matches(line) {
			lv.filteredLines = append(lv.filteredLines, line)
			lv.filteredWrap = append(lv.filteredWrap, lv.wrapped[i])
		}
	}
}

// updateViewport shows the already wrapped visible lines
func (lv *LogsView) updateViewport() {
	lv.viewport.SetContent(strings.Join(lv.filteredWrap, "\n"))
}
