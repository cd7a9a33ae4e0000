package events

import (
	"time"

	"github.com/carsonvertex/tauri-pos-app/pkg/backend"
)

// BackendStartingMsg is the backend-starting event delivered to the shell.
type BackendStartingMsg struct{}

func (m BackendStartingMsg) String() string {
	return BackendStarting
}

// CommandResultMsg carries the outcome of an asynchronous command invocation.
type CommandResultMsg struct {
	Command string
	Status  backend.Status
	Err     error
}

// HealthMsg reports one health probe of the backend's HTTP endpoint.
type HealthMsg struct {
	URL        string
	Reachable  bool
	StatusCode int
	Latency    time.Duration
	Err        error
	CheckedAt  time.Time
}

// PortsMsg lists the ports the backend process tree is listening on.
type PortsMsg struct {
	PID   int
	Ports []uint16
}

// TickMsg drives the shell's periodic refresh.
type TickMsg time.Time
