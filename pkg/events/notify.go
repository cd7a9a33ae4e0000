// Package events carries notifications from the shell runtime to the front end.
package events

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// BackendStarting is the name of the startup event.
const BackendStarting = "backend-starting"

// DefaultNotifyDelay is how long after startup the event is emitted.
const DefaultNotifyDelay = 2 * time.Second

// Sender delivers messages to the front end. *tea.Program satisfies it.
type Sender interface {
	Send(msg tea.Msg)
}

var _ Sender = (*tea.Program)(nil)

// SenderFunc adapts a function to Sender.
type SenderFunc func(msg tea.Msg)

func (f SenderFunc) Send(msg tea.Msg) {
	f(msg)
}

// NotifyBackendStarting emits BackendStartingMsg once, delay after the call,
// from a detached goroutine. Delivery failures, including a panicking
// sender, are dropped. The returned channel is closed when the attempt is
// over.
func NotifyBackendStarting(sender Sender, delay time.Duration) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		defer func() {
			_ = recover()
		}()

		if delay > 0 {
			time.Sleep(delay)
		}
		if sender == nil {
			return
		}
		sender.Send(BackendStartingMsg{})
	}()
	return done
}
