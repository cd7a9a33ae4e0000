// Package ui is the terminal front end of the POS shell. It drives the
// backend through the command dispatcher and listens for the
// backend-starting event.
package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/carsonvertex/tauri-pos-app/pkg/backend"
	"github.com/carsonvertex/tauri-pos-app/pkg/commands"
	"github.com/carsonvertex/tauri-pos-app/pkg/events"
	"github.com/carsonvertex/tauri-pos-app/pkg/health"
	"github.com/carsonvertex/tauri-pos-app/pkg/logs"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/enescakir/emoji"
)

// Invoker runs a named command.
type Invoker interface {
	Invoke(name string) (backend.Status, error)
}

// Prober checks the backend's health endpoint.
type Prober interface {
	Check(ctx context.Context) health.Result
	URL() string
}

// PortSource reports the backend pid and its listening ports.
type PortSource interface {
	PID() (int, bool)
	ListeningPorts() []uint16
}

// Options wires the model to the rest of the shell.
type Options struct {
	Commands Invoker
	// Health and Ports are optional; nil disables the panel row.
	Health Prober
	Ports  PortSource
	// RefreshInterval drives health probes and port scans. Zero disables polling.
	RefreshInterval time.Duration
	AutoStart       bool
	MaxLogLines     int
}

// Model represents the shell state.
type Model struct {
	opts     Options
	keys     KeyMap
	help     help.Model
	logsView *LogsView
	showHelp bool
	width    int
	height   int
	ready    bool

	status     backend.Status
	inFlight   map[string]int
	lastErr    error
	lastResult string
	health     *events.HealthMsg
	ports      events.PortsMsg
	startingAt time.Time
	now        func() time.Time
}

// NewModel creates the shell model.
func NewModel(opts Options) Model {
	return Model{
		opts:     opts,
		keys:     DefaultKeyMap(),
		help:     help.New(),
		logsView: NewLogsView(opts.MaxLogLines),
		status:   backend.Stopped(),
		inFlight: make(map[string]int),
		now:      time.Now,
	}
}

// Init fetches the initial status and starts polling.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.invoke(commands.GetBackendStatus),
		m.probe(),
		m.scanPorts(),
		m.tick(),
	)
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.ready = true
		m.logsView.SetSize(m.width-4, m.logsHeight())
		return m, nil

	case tea.KeyMsg:
		if m.logsView.IsCapturingInput() {
			return m, m.logsView.Update(msg)
		}
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.showHelp = !m.showHelp
			m.logsView.SetSize(m.width-4, m.logsHeight())
			return m, nil
		case key.Matches(msg, m.keys.Start):
			return m, m.invoke(commands.StartBackend)
		case key.Matches(msg, m.keys.Stop):
			return m, m.invoke(commands.StopBackend)
		case key.Matches(msg, m.keys.Refresh):
			return m, tea.Batch(m.invoke(commands.GetBackendStatus), m.probe(), m.scanPorts())
		}
		return m, m.logsView.Update(msg)

	case events.CommandResultMsg:
		if m.inFlight[msg.Command] > 0 {
			m.inFlight[msg.Command]--
		}
		if msg.Err != nil {
			m.lastErr = msg.Err
			m.lastResult = fmt.Sprintf("%s failed", msg.Command)
			if msg.Command == commands.GetBackendStatus {
				return m, nil
			}
			// A failed command may still have changed the backend state.
			return m, tea.Batch(m.invoke(commands.GetBackendStatus), m.scanPorts())
		}
		m.status = msg.Status
		if msg.Command != commands.GetBackendStatus {
			m.lastErr = nil
			m.lastResult = fmt.Sprintf("%s: %s", msg.Command, msg.Status)
			return m, m.scanPorts()
		}
		return m, nil

	case events.BackendStartingMsg:
		m.startingAt = m.now()
		if m.opts.AutoStart {
			return m, m.invoke(commands.StartBackend)
		}
		return m, nil

	case events.HealthMsg:
		m.health = &msg
		return m, nil

	case events.PortsMsg:
		m.ports = msg
		return m, nil

	case events.TickMsg:
		return m, tea.Batch(m.probe(), m.scanPorts(), m.tick())

	case logs.LogLineMsg:
		return m, m.logsView.Update(msg)
	}

	return m, m.logsView.Update(msg)
}

// Status returns the last status reported by a command.
func (m Model) Status() backend.Status {
	return m.status
}

// invoke runs a command off the update loop, so invocations can overlap.
func (m Model) invoke(name string) tea.Cmd {
	if m.opts.Commands == nil {
		return nil
	}
	m.inFlight[name]++
	inv := m.opts.Commands
	return func() tea.Msg {
		st, err := inv.Invoke(name)
		return events.CommandResultMsg{Command: name, Status: st, Err: err}
	}
}

func (m Model) probe() tea.Cmd {
	if m.opts.Health == nil {
		return nil
	}
	prober := m.opts.Health
	return func() tea.Msg {
		r := prober.Check(context.Background())
		return events.HealthMsg{
			URL:        r.URL,
			Reachable:  r.Reachable,
			StatusCode: r.StatusCode,
			Latency:    r.Latency,
			Err:        r.Err,
			CheckedAt:  r.CheckedAt,
		}
	}
}

func (m Model) scanPorts() tea.Cmd {
	if m.opts.Ports == nil {
		return nil
	}
	src := m.opts.Ports
	return func() tea.Msg {
		pid, ok := src.PID()
		if !ok {
			return events.PortsMsg{}
		}
		return events.PortsMsg{PID: pid, Ports: src.ListeningPorts()}
	}
}

func (m Model) tick() tea.Cmd {
	if m.opts.RefreshInterval <= 0 || (m.opts.Health == nil && m.opts.Ports == nil) {
		return nil
	}
	return tea.Tick(m.opts.RefreshInterval, func(t time.Time) tea.Msg {
		return events.TickMsg(t)
	})
}

const (
	headerHeight = 1
	panelHeight  = 7
)

func (m Model) footerHeight() int {
	if m.showHelp {
		return lipgloss.Height(m.help.FullHelpView(m.keys.FullHelp())) + 1
	}
	return 2
}

func (m Model) logsHeight() int {
	h := m.height - headerHeight - panelHeight - m.footerHeight() - 2
	if h < 1 {
		return 1
	}
	return h
}

// View renders the UI.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.renderHeader(),
		m.renderPanel(),
		panelStyle.Width(m.width-2).Render(m.logsView.View()),
		m.renderFooter(),
	)
}

func (m Model) renderHeader() string {
	title := titleStyle.Render(fmt.Sprintf("%v POS Shell", emoji.ShoppingCart))
	state := stoppedStyle.Render("● stopped")
	if m.status.Running {
		state = runningStyle.Render("● running")
	}
	return headerStyle.Width(m.width).Render(lipgloss.JoinHorizontal(lipgloss.Top, title, " ", state))
}

func (m Model) renderPanel() string {
	row := func(label, value string) string {
		return labelStyle.Render(label) + value
	}

	rows := []string{row("Backend", valueStyle.Render(m.status.String()))}

	if m.ports.PID != 0 {
		rows = append(rows, row("Process", valueStyle.Render(fmt.Sprintf("pid %d, listening on %s", m.ports.PID, formatPorts(m.ports.Ports)))))
	} else {
		rows = append(rows, row("Process", dimStyle.Render("none")))
	}

	if m.opts.Health != nil {
		rows = append(rows, row("Health", m.renderHealth()))
	}

	if m.startingAt.IsZero() {
		rows = append(rows, row("Startup", dimStyle.Render("waiting for "+events.BackendStarting)))
	} else {
		rows = append(rows, row("Startup", bannerStyle.Render(fmt.Sprintf("%s received %s", events.BackendStarting, formatAge(m.now(), m.startingAt)))))
	}

	if pending := m.pending(); pending != "" {
		rows = append(rows, row("Pending", dimStyle.Render(pending)))
	}

	switch {
	case m.lastErr != nil:
		rows = append(rows, row("Last", errorStyle.Render(WrapText(m.lastErr.Error(), strings.Repeat(" ", 12), m.width-4))))
	case m.lastResult != "":
		rows = append(rows, row("Last", valueStyle.Render(m.lastResult)))
	}

	return panelStyle.Width(m.width - 2).Render(strings.Join(rows, "\n"))
}

func (m Model) renderHealth() string {
	if m.health == nil {
		return dimStyle.Render("not checked yet")
	}
	text := fmt.Sprintf("%s %s", m.health.URL, healthText(*m.health))
	if m.health.Reachable {
		return runningStyle.Render(text)
	}
	return stoppedStyle.Render(text)
}

func healthText(h events.HealthMsg) string {
	return health.Result{
		Reachable:  h.Reachable,
		StatusCode: h.StatusCode,
		Latency:    h.Latency,
		Err:        h.Err,
	}.String()
}

func (m Model) pending() string {
	var names []string
	for _, name := range []string{commands.StartBackend, commands.StopBackend, commands.GetBackendStatus} {
		if m.inFlight[name] > 0 {
			names = append(names, name)
		}
	}
	return strings.Join(names, ", ")
}

func (m Model) renderFooter() string {
	var helpView string
	if m.showHelp {
		helpView = m.help.FullHelpView(m.keys.FullHelp())
	} else {
		helpView = m.help.ShortHelpView(m.keys.ShortHelp())
	}
	if filter := m.logsView.FooterView(); filter != "" {
		helpView = filter + "\n" + helpView
	}
	return footerStyle.Width(m.width).Render(helpView)
}
