package backend_test

import (
	"io"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/carsonvertex/tauri-pos-app/pkg/backend"
)

// fakeSpawner records spawns and tracks how many fake processes are alive.
type fakeSpawner struct {
	mu        sync.Mutex
	spawned   []*fakeProcess
	failNext  error
	killErr   error
	gate      chan struct{} // when set, Spawn blocks until it is closed
	entered   chan struct{}
	live      atomic.Int32
	maxLive   atomic.Int32
	nextPid   int
	lastCmd   backend.Command
	stdoutTxt string
}

func newFakeSpawner() *fakeSpawner {
	return &fakeSpawner{nextPid: 4100}
}

func (f *fakeSpawner) Spawn(cmd backend.Command) (backend.Process, error) {
	f.mu.Lock()
	gate, entered := f.gate, f.entered
	f.mu.Unlock()
	if entered != nil {
		entered <- struct{}{}
	}
	if gate != nil {
		<-gate
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	f.lastCmd = cmd
	if f.failNext != nil {
		err := f.failNext
		f.failNext = nil
		return nil, err
	}

	f.nextPid++
	p := &fakeProcess{
		pid:     f.nextPid,
		stdout:  f.stdoutTxt,
		killErr: f.killErr,
		done:    make(chan struct{}),
		owner:   f,
	}
	f.spawned = append(f.spawned, p)

	n := f.live.Add(1)
	for {
		m := f.maxLive.Load()
		if n <= m || f.maxLive.CompareAndSwap(m, n) {
			break
		}
	}
	return p, nil
}

func (f *fakeSpawner) spawnCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.spawned)
}

// releaseAll ends every fake process, including ones whose Kill failed.
func (f *fakeSpawner) releaseAll() {
	f.mu.Lock()
	procs := append([]*fakeProcess(nil), f.spawned...)
	f.mu.Unlock()
	for _, p := range procs {
		p.exit()
	}
}

type fakeProcess struct {
	pid     int
	stdout  string
	killErr error
	done    chan struct{}
	once    sync.Once
	kills   atomic.Int32
	owner   *fakeSpawner
}

func (p *fakeProcess) Pid() int          { return p.pid }
func (p *fakeProcess) Stdout() io.Reader { return strings.NewReader(p.stdout) }
func (p *fakeProcess) Stderr() io.Reader { return strings.NewReader("") }

func (p *fakeProcess) Kill() error {
	p.kills.Add(1)
	if p.killErr != nil {
		return p.killErr
	}
	p.exit()
	return nil
}

func (p *fakeProcess) Wait() error {
	<-p.done
	return nil
}

func (p *fakeProcess) exit() {
	p.once.Do(func() {
		p.owner.live.Add(-1)
		close(p.done)
	})
}
