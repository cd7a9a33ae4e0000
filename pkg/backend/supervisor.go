// Package backend supervises the POS backend server process.
//
// A Supervisor holds at most one backend process. Start, Stop and Status
// take the same lock for their whole critical section, so concurrent
// callers always observe the result of a completed operation. Spawning
// and killing happen while the lock is held.
package backend

import (
	"bufio"
	"io"
	"os"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/enescakir/emoji"
	"github.com/rs/zerolog"
)

const maxOutputLine = 1024 * 1024

// Supervisor owns the backend process handle.
type Supervisor struct {
	mu   sync.Mutex
	proc Process

	command Command
	port    uint16
	spawner Spawner
	logger  zerolog.Logger
	output  zerolog.Logger
}

// Option configures a Supervisor.
type Option func(*Supervisor)

// WithSpawner replaces the os/exec spawner.
func WithSpawner(sp Spawner) Option {
	return func(s *Supervisor) {
		s.spawner = sp
	}
}

// WithPort sets the port reported while the backend is running.
func WithPort(port uint16) Option {
	return func(s *Supervisor) {
		s.port = port
	}
}

// WithOutputLogger sets the logger receiving the backend's stdout and stderr.
func WithOutputLogger(logger zerolog.Logger) Option {
	return func(s *Supervisor) {
		s.output = logger
	}
}

func NewSupervisor(command Command, logger zerolog.Logger, opts ...Option) *Supervisor {
	s := &Supervisor{
		command: command,
		port:    DefaultPort,
		spawner: ExecSpawner{},
		logger:  logger.With().Str("component", "supervisor").Logger(),
		output:  logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start launches the backend unless one is already held.
func (s *Supervisor) Start() (Status, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.proc != nil {
		s.logger.Debug().Int("pid", s.proc.Pid()).Msg("Backend already running")
		return Running(s.port), nil
	}

	s.logger.Info().
		Str("command", s.command.String()).
		Str("dir", s.command.Dir).
		Msgf("%v Starting backend", emoji.Rocket)

	proc, err := s.spawner.Spawn(s.command)
	if err != nil {
		s.logger.Error().Err(err).Str("command", s.command.String()).Msg("Failed to start backend")
		return Status{}, errors.Wrap(err, "failed to start backend")
	}

	s.proc = proc
	s.watch(proc)

	s.logger.Info().Int("pid", proc.Pid()).Uint16("port", s.port).Msg("Backend started")
	return Running(s.port), nil
}

// Stop forcefully terminates the held backend. The handle is released
// before the kill is issued, so a failed kill leaves no record of the
// process.
func (s *Supervisor) Stop() (Status, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	proc := s.proc
	if proc == nil {
		return Stopped(), nil
	}
	s.proc = nil

	pid := proc.Pid()
	s.logger.Info().Int("pid", pid).Msgf("%v Stopping backend", emoji.StopSign)

	if err := proc.Kill(); err != nil && !errors.Is(err, os.ErrProcessDone) {
		s.logger.Error().Err(err).Int("pid", pid).Msg("Failed to stop backend")
		return Status{}, errors.Wrap(err, "failed to stop backend")
	}
	return Stopped(), nil
}

func (s *Supervisor) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.proc == nil {
		return Stopped()
	}
	return Running(s.port)
}

// PID returns the pid of the held backend.
func (s *Supervisor) PID() (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.proc == nil {
		return 0, false
	}
	return s.proc.Pid(), true
}

// ListeningPorts reports the TCP ports the backend process tree listens on.
// It is diagnostic only and does not affect Status.
func (s *Supervisor) ListeningPorts() []uint16 {
	pid, ok := s.PID()
	if !ok {
		return nil
	}
	return ListeningPorts(s.logger, pid)
}

// watch drains the output pipes and reaps the process once they close.
// An exit is logged but leaves the handle in place; only Stop releases it.
func (s *Supervisor) watch(proc Process) {
	var drained sync.WaitGroup
	drained.Go(func() { s.scanOutput(proc.Stdout(), "stdout", zerolog.InfoLevel) })
	drained.Go(func() { s.scanOutput(proc.Stderr(), "stderr", zerolog.WarnLevel) })

	pid := proc.Pid()
	go func() {
		drained.Wait()
		err := proc.Wait()
		if err != nil {
			s.logger.Warn().Err(err).Int("pid", pid).Msg("Backend process exited")
			return
		}
		s.logger.Info().Int("pid", pid).Msg("Backend process exited")
	}()
}

func (s *Supervisor) scanOutput(r io.Reader, stream string, level zerolog.Level) {
	if r == nil {
		return
	}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxOutputLine)
	for scanner.Scan() {
		s.output.WithLevel(level).Str("stream", stream).Msg(scanner.Text())
	}
	if err := scanner.Err(); err != nil && !errors.Is(err, os.ErrClosed) {
		s.logger.Debug().Err(err).Str("stream", stream).Msg("Error scanning backend output")
		// Keep the pipe empty so the child never blocks on a full buffer.
		_, _ = io.Copy(io.Discard, r)
	}
}
