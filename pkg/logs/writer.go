package logs

import (
	"bytes"
	"sync"

	"github.com/carsonvertex/tauri-pos-app/pkg/events"
)

// LogLineMsg carries one formatted log line to the shell.
type LogLineMsg struct {
	Line string
}

// DefaultPendingLines bounds the lines kept before a sender is attached.
const DefaultPendingLines = 1000

// LogWriter is an io.Writer that sends complete log lines to the shell.
// Lines written before Attach are held (oldest dropped first) and flushed
// when a sender arrives.
type LogWriter struct {
	mu         sync.Mutex
	sender     events.Sender
	buffer     bytes.Buffer
	pending    []string
	maxPending int
}

// NewLogWriter creates a log writer. sender may be nil and attached later.
func NewLogWriter(sender events.Sender) *LogWriter {
	return &LogWriter{
		sender:     sender,
		maxPending: DefaultPendingLines,
	}
}

// Attach sets the sender and flushes lines written so far. Writers block
// until the flush is done.
func (w *LogWriter) Attach(sender events.Sender) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.sender = sender
	for _, line := range w.pending {
		sender.Send(LogLineMsg{Line: line})
	}
	w.pending = nil
}

// Write implements io.Writer and sends complete lines to the shell.
func (w *LogWriter) Write(p []byte) (n int, err error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	n, err = w.buffer.Write(p)
	if err != nil {
		return n, err
	}

	for {
		data := w.buffer.Bytes()
		i := bytes.IndexByte(data, '\n')
		if i < 0 {
			break
		}
		line := string(data[:i+1])
		w.buffer.Next(i + 1)
		w.emit(line)
	}
	return n, nil
}

func (w *LogWriter) emit(line string) {
	if w.sender != nil {
		w.sender.Send(LogLineMsg{Line: line})
		return
	}
	if len(w.pending) >= w.maxPending {
		w.pending = w.pending[1:]
	}
	w.pending = append(w.pending, line)
}

// Sync flushes nothing; lines are sent as soon as they are complete.
func (w *LogWriter) Sync() error {
	return nil
}
