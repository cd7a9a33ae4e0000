package backend

import (
	"io"
	"os"
	"os/exec"
	"strings"
	"sync/atomic"

	"github.com/cockroachdb/errors"
)

// Command describes the backend process to launch.
type Command struct {
	Path string
	Args []string
	// Dir is the working directory. Empty means the shell's own.
	Dir string
	// Env is appended to the inherited environment (KEY=value).
	Env []string
}

func (c Command) String() string {
	return strings.Join(append([]string{c.Path}, c.Args...), " ")
}

// Process is a spawned backend whose output streams belong to the caller.
type Process interface {
	Pid() int
	Stdout() io.Reader
	Stderr() io.Reader
	// Kill forcefully terminates the process. os.ErrProcessDone is returned
	// when it has already exited.
	Kill() error
	// Wait blocks until the process exits. Both output streams must be
	// fully read before calling it.
	Wait() error
}

// Spawner launches backend processes.
type Spawner interface {
	Spawn(cmd Command) (Process, error)
}

// ExecSpawner is the default Spawner backed by os/exec.
type ExecSpawner struct{}

var _ Spawner = ExecSpawner{}

func (ExecSpawner) Spawn(c Command) (Process, error) {
	cmd := exec.Command(c.Path, c.Args...)
	cmd.Dir = c.Dir
	if len(c.Env) > 0 {
		cmd.Env = append(os.Environ(), c.Env...)
	}
	setupProcessGroup(cmd)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, errors.Wrap(err, "create stdout pipe")
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, errors.Wrap(err, "create stderr pipe")
	}

	if err := cmd.Start(); err != nil {
		return nil, err
	}

	return &execProcess{cmd: cmd, stdout: stdout, stderr: stderr}, nil
}

type execProcess struct {
	cmd    *exec.Cmd
	stdout io.ReadCloser
	stderr io.ReadCloser
	exited atomic.Bool
}

func (p *execProcess) Pid() int          { return p.cmd.Process.Pid }
func (p *execProcess) Stdout() io.Reader { return p.stdout }
func (p *execProcess) Stderr() io.Reader { return p.stderr }

func (p *execProcess) Kill() error {
	// Once reaped the pid may belong to someone else.
	if p.exited.Load() {
		return os.ErrProcessDone
	}
	return killProcess(p.cmd)
}

func (p *execProcess) Wait() error {
	err := p.cmd.Wait()
	p.exited.Store(true)
	return err
}
