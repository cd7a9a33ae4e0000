package ui_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/carsonvertex/tauri-pos-app/pkg/backend"
	"github.com/carsonvertex/tauri-pos-app/pkg/commands"
	"github.com/carsonvertex/tauri-pos-app/pkg/events"
	"github.com/carsonvertex/tauri-pos-app/pkg/health"
	"github.com/carsonvertex/tauri-pos-app/pkg/logs"
	"github.com/carsonvertex/tauri-pos-app/pkg/ui"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeInvoker struct {
	mu      sync.Mutex
	running bool
	fail    error
	// stopErr makes stop_backend fail after releasing the backend, the
	// way a kill error leaves the supervisor stopped.
	stopErr error
	calls   []string
}

func (f *fakeInvoker) Invoke(name string) (backend.Status, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, name)
	if f.fail != nil {
		return backend.Status{}, f.fail
	}
	switch name {
	case commands.StartBackend:
		f.running = true
	case commands.StopBackend:
		f.running = false
		if f.stopErr != nil {
			return backend.Stopped(), f.stopErr
		}
	}
	if f.running {
		return backend.Running(8080), nil
	}
	return backend.Stopped(), nil
}

func (f *fakeInvoker) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

type fakeProber struct{ reachable bool }

func (p fakeProber) URL() string { return health.URL(8080, health.DefaultPath) }

func (p fakeProber) Check(context.Context) health.Result {
	if p.reachable {
		return health.Result{URL: p.URL(), Reachable: true, StatusCode: 200, Latency: 3 * time.Millisecond}
	}
	return health.Result{URL: p.URL(), Err: errors.New("connection refused")}
}

type fakePorts struct{}

func (fakePorts) PID() (int, bool)          { return 4242, true }
func (fakePorts) ListeningPorts() []uint16 { return []uint16{8080} }

func keyPress(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

// drain runs cmd and every command batched inside it, returning the
// produced messages.
func drain(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, drain(c)...)
		}
		return out
	}
	if msg == nil {
		return nil
	}
	return []tea.Msg{msg}
}

// feed applies messages to the model, following up on the commands they return.
func feed(t *testing.T, m tea.Model, msgs ...tea.Msg) tea.Model {
	t.Helper()
	for len(msgs) > 0 {
		msg := msgs[0]
		msgs = msgs[1:]
		var cmd tea.Cmd
		m, cmd = m.Update(msg)
		msgs = append(msgs, drain(cmd)...)
	}
	return m
}

func newModel(inv *fakeInvoker, opts ui.Options) tea.Model {
	opts.Commands = inv
	if opts.MaxLogLines == 0 {
		opts.MaxLogLines = 100
	}
	m := ui.NewModel(opts)
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return updated
}

func TestInitFetchesStatus(t *testing.T) {
	inv := &fakeInvoker{}
	m := ui.NewModel(ui.Options{Commands: inv, MaxLogLines: 10, Health: fakeProber{reachable: true}, Ports: fakePorts{}})

	msgs := drain(m.Init())
	require.Equal(t, []string{commands.GetBackendStatus}, inv.Calls())

	var kinds []string
	for _, msg := range msgs {
		switch msg.(type) {
		case events.CommandResultMsg:
			kinds = append(kinds, "command")
		case events.HealthMsg:
			kinds = append(kinds, "health")
		case events.PortsMsg:
			kinds = append(kinds, "ports")
		}
	}
	assert.ElementsMatch(t, []string{"command", "health", "ports"}, kinds)
}

func TestStartAndStopKeys(t *testing.T) {
	inv := &fakeInvoker{}
	m := newModel(inv, ui.Options{})

	m = feed(t, m, keyPress('s'))
	require.Equal(t, backend.Running(8080), m.(ui.Model).Status())
	assert.Contains(t, m.View(), "running on port 8080")

	m = feed(t, m, keyPress('x'))
	require.Equal(t, backend.Stopped(), m.(ui.Model).Status())
	assert.Contains(t, m.View(), "stop_backend: stopped")

	require.Equal(t, []string{commands.StartBackend, commands.StopBackend}, inv.Calls())
}

func TestCommandErrorIsShown(t *testing.T) {
	inv := &fakeInvoker{fail: errors.New("failed to start backend: executable file not found")}
	m := newModel(inv, ui.Options{})

	m = feed(t, m, keyPress('s'))
	assert.False(t, m.(ui.Model).Status().Running)
	assert.Contains(t, m.View(), "executable file not found")
}

func TestFailedCommandRefreshesStatus(t *testing.T) {
	inv := &fakeInvoker{}
	m := newModel(inv, ui.Options{})

	m = feed(t, m, keyPress('s'))
	require.True(t, m.(ui.Model).Status().Running)

	inv.mu.Lock()
	inv.stopErr = errors.New("failed to stop backend: operation not permitted")
	inv.mu.Unlock()

	m = feed(t, m, keyPress('x'))
	require.Equal(t, []string{commands.StartBackend, commands.StopBackend, commands.GetBackendStatus}, inv.Calls())
	assert.Equal(t, backend.Stopped(), m.(ui.Model).Status(), "status must follow the backend after a failed stop")

	view := m.View()
	assert.Contains(t, view, "operation not permitted", "the refresh must keep the error visible")
	assert.NotContains(t, view, "running on port 8080")
}

func TestBackendStartingEvent(t *testing.T) {
	inv := &fakeInvoker{}
	m := newModel(inv, ui.Options{})
	assert.Contains(t, m.View(), "waiting for backend-starting")

	m = feed(t, m, events.BackendStartingMsg{})
	assert.Contains(t, m.View(), "backend-starting received")
	assert.Empty(t, inv.Calls(), "the event alone must not start the backend")
}

func TestBackendStartingAutoStart(t *testing.T) {
	inv := &fakeInvoker{}
	m := newModel(inv, ui.Options{AutoStart: true})

	m = feed(t, m, events.BackendStartingMsg{})
	require.Equal(t, []string{commands.StartBackend}, inv.Calls())
	assert.True(t, m.(ui.Model).Status().Running)
}

func TestHealthAndPortsRows(t *testing.T) {
	inv := &fakeInvoker{}
	m := newModel(inv, ui.Options{Health: fakeProber{reachable: false}, Ports: fakePorts{}})

	m = feed(t, m, keyPress('r'))
	view := m.View()
	assert.Contains(t, view, "unreachable")
	assert.Contains(t, view, "pid 4242, listening on 8080")
}

func TestLogLinesReachPane(t *testing.T) {
	inv := &fakeInvoker{}
	m := newModel(inv, ui.Options{})

	m = feed(t, m, logs.LogLineMsg{Line: "12:00:00 INF Backend started pid=4242\n"})
	assert.Contains(t, m.View(), "Backend started")
}

func TestQuit(t *testing.T) {
	m := newModel(&fakeInvoker{}, ui.Options{})
	_, cmd := m.Update(keyPress('q'))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}
