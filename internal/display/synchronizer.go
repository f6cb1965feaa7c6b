package display

import (
	"fmt"
	"sync"
)

// runnableLock pairs a queued callable with the channel a synchronous caller
// blocks on. done is nil for asynchronous entries.
type runnableLock struct {
	fn   func()
	done chan struct{}
	err  error
}

func (r *runnableLock) run() {
	if r.done == nil {
		r.fn()
		return
	}
	defer func() {
		if p := recover(); p != nil {
			r.err = fmt.Errorf("%w: %v", ErrFailedExec, p)
		}
		close(r.done)
	}()
	r.fn()
}

// Synchronizer owns the cross-goroutine message queue for one display. All
// methods are safe from any goroutine; queued callables only ever run on the
// display goroutine.
type Synchronizer struct {
	display *Display

	mu       sync.Mutex
	messages []*runnableLock
	released bool
}

func newSynchronizer(d *Display) *Synchronizer {
	return &Synchronizer{display: d}
}

func (s *Synchronizer) asyncExec(fn func()) {
	if fn != nil {
		s.mu.Lock()
		s.messages = append(s.messages, &runnableLock{fn: fn})
		s.mu.Unlock()
	}
	s.display.wakeThread()
}

func (s *Synchronizer) syncExec(fn func()) error {
	r := &runnableLock{fn: fn, done: make(chan struct{})}
	s.mu.Lock()
	if s.released {
		s.mu.Unlock()
		return ErrDisposed
	}
	s.messages = append(s.messages, r)
	s.mu.Unlock()
	s.display.wakeThread()
	<-r.done
	return r.err
}

func (s *Synchronizer) messageCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.messages)
}

// runAsyncMessages drains the queue on the display goroutine. With all false
// it runs at most one message, so a busy queue cannot starve native events.
func (s *Synchronizer) runAsyncMessages(all bool) bool {
	run := false
	for {
		s.mu.Lock()
		if len(s.messages) == 0 {
			s.mu.Unlock()
			return run
		}
		r := s.messages[0]
		s.messages = s.messages[1:]
		s.mu.Unlock()
		r.run()
		run = true
		if !all {
			return true
		}
	}
}

// release rejects future synchronous callers and unblocks any that are still
// waiting, reporting disposal to them.
func (s *Synchronizer) release() {
	s.mu.Lock()
	pending := s.messages
	s.messages = nil
	s.released = true
	s.mu.Unlock()
	for _, r := range pending {
		if r.done != nil {
			r.err = ErrDisposed
			close(r.done)
		}
	}
}
