// Package commands exposes the supervisor to the front end as named,
// argument-less commands.
package commands

import (
	"encoding/json"
	"sort"

	"github.com/carsonvertex/tauri-pos-app/pkg/backend"
	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
)

const (
	StartBackend     = "start_backend"
	StopBackend      = "stop_backend"
	GetBackendStatus = "get_backend_status"
)

// ErrUnknownCommand is returned by Invoke for names it does not handle.
var ErrUnknownCommand = errors.New("unknown command")

// Backend is the part of the supervisor the commands drive.
type Backend interface {
	Start() (backend.Status, error)
	Stop() (backend.Status, error)
	Status() backend.Status
}

var _ Backend = (*backend.Supervisor)(nil)

// Observer is told about every invocation of a known command.
type Observer interface {
	ObserveCommand(name string, st backend.Status, err error)
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

func WithObserver(o Observer) Option {
	return func(d *Dispatcher) {
		d.observer = o
	}
}

// Response is the serialized result of a command: exactly one of Status
// or Error is set.
type Response struct {
	Status *backend.Status `json:"status,omitempty"`
	Error  string          `json:"error,omitempty"`
}

func (r Response) JSON() []byte {
	b, _ := json.Marshal(r)
	return b
}

// Dispatcher routes command names to the backend. It is safe for concurrent
// use; serialization is the backend's job.
type Dispatcher struct {
	backend  Backend
	logger   zerolog.Logger
	observer Observer
	handlers map[string]func() (backend.Status, error)
}

func New(b Backend, logger zerolog.Logger, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		backend: b,
		logger:  logger.With().Str("component", "commands").Logger(),
	}
	d.handlers = map[string]func() (backend.Status, error){
		StartBackend: b.Start,
		StopBackend:  b.Stop,
		GetBackendStatus: func() (backend.Status, error) {
			return b.Status(), nil
		},
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Invoke runs the named command.
func (d *Dispatcher) Invoke(name string) (backend.Status, error) {
	h, ok := d.handlers[name]
	if !ok {
		d.logger.Warn().Str("command", name).Msg("Unknown command")
		return backend.Status{}, errors.Wrapf(ErrUnknownCommand, "invoke %q", name)
	}

	d.logger.Debug().Str("command", name).Msg("Invoking command")
	st, err := h()
	if d.observer != nil {
		d.observer.ObserveCommand(name, st, err)
	}
	if err != nil {
		d.logger.Error().Err(err).Str("command", name).Msg("Command failed")
		return backend.Status{}, err
	}
	d.logger.Debug().Str("command", name).Stringer("status", st).Msg("Command finished")
	return st, nil
}

// Call is Invoke with the result folded into a Response.
func (d *Dispatcher) Call(name string) Response {
	st, err := d.Invoke(name)
	if err != nil {
		return Response{Error: err.Error()}
	}
	return Response{Status: &st}
}

// Names lists the registered commands in sorted order.
func (d *Dispatcher) Names() []string {
	names := make([]string, 0, len(d.handlers))
	for name := range d.handlers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
