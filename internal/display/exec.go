package display

import (
	"fmt"
	"reflect"
	"time"
)

// AsyncExec queues fn to run on the display goroutine at the next reasonable
// opportunity. A nil fn just wakes the pump. Safe from any goroutine.
func (d *Display) AsyncExec(fn func()) error {
	if d.disposed.Load() {
		return ErrDisposed
	}
	d.synchronizer.asyncExec(fn)
	return nil
}

// SyncExec runs fn on the display goroutine and waits for it to finish. When
// called on the display goroutine itself fn runs inline. A panic inside fn is
// reported to the caller as an execution failure. Safe from any goroutine.
func (d *Display) SyncExec(fn func()) error {
	if d.disposed.Load() {
		return ErrDisposed
	}
	if fn == nil {
		d.wakeThread()
		return nil
	}
	if d.isValidThread() {
		return runCaught(fn)
	}
	return d.synchronizer.syncExec(fn)
}

func runCaught(fn func()) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("%w: %v", ErrFailedExec, p)
		}
	}()
	fn()
	return nil
}

type timerEntry struct {
	id       uintptr
	deadline time.Time
	fn       func()
}

// TimerExec schedules fn to run on the display goroutine after delay. The
// schedule is keyed by the callable's identity: scheduling the same func
// again moves its deadline, and a negative delay cancels it without
// rescheduling. Closures created by separate evaluations of the same literal
// share an identity.
func (d *Display) TimerExec(delay time.Duration, fn func()) error {
	if err := d.CheckDevice(); err != nil {
		return err
	}
	if fn == nil {
		return ErrNilArgument
	}
	id := reflect.ValueOf(fn).Pointer()
	d.cancelTimer(id)
	if delay < 0 {
		return nil
	}
	d.timers = append(d.timers, &timerEntry{
		id:       id,
		deadline: time.Now().Add(delay),
		fn:       fn,
	})
	return nil
}

func (d *Display) cancelTimer(id uintptr) {
	for i, t := range d.timers {
		if t.id == id {
			d.timers = append(d.timers[:i:i], d.timers[i+1:]...)
			return
		}
	}
}

// runTimers fires every timer due at the start of the call. Entries are
// removed before firing, so a callable may reschedule itself; the new entry
// waits for the next cycle.
func (d *Display) runTimers() bool {
	now := time.Now()
	var due []*timerEntry
	rest := d.timers[:0]
	for _, entry := range d.timers {
		if entry.deadline.After(now) {
			rest = append(rest, entry)
		} else {
			due = append(due, entry)
		}
	}
	d.timers = rest
	for _, entry := range due {
		entry.fn()
	}
	return len(due) > 0
}

func (d *Display) nextTimerDelay() (time.Duration, bool) {
	if len(d.timers) == 0 {
		return 0, false
	}
	next := d.timers[0].deadline
	for _, t := range d.timers[1:] {
		if t.deadline.Before(next) {
			next = t.deadline
		}
	}
	return time.Until(next), true
}

func (d *Display) timerDue() bool {
	delay, ok := d.nextTimerDelay()
	return ok && delay <= 0
}

func (d *Display) releaseTimers() {
	d.timers = nil
	d.hoverer = nil
}

// AddMouseHoverTimeout arms the hover timer for a widget, replacing any
// previous arming. The display keeps a single hover schedule.
func (d *Display) AddMouseHoverTimeout(w Widget) error {
	if err := d.CheckDevice(); err != nil {
		return err
	}
	if w == nil {
		return ErrNilArgument
	}
	d.hoverer = w
	return d.TimerExec(d.hoverDelay, d.hoverProc)
}

// RemoveMouseHoverTimeout disarms the hover timer if it is armed for the
// widget.
func (d *Display) RemoveMouseHoverTimeout(w Widget) error {
	if err := d.CheckDevice(); err != nil {
		return err
	}
	if d.hoverer != w {
		return nil
	}
	d.hoverer = nil
	return d.TimerExec(-1, d.hoverProc)
}

func (d *Display) mouseHoverFired() {
	w := d.hoverer
	d.hoverer = nil
	if w == nil || w.Disposed() {
		return
	}
	e := &Event{Type: EventMouseHover, Widget: w, Time: d.lastEventTime, Doit: true}
	if !d.FilterEvent(e) {
		w.SendEvent(e)
	}
}
