package display

import (
	"time"

	"github.com/Mailaender/eclipse.platform.swt/internal/platform"
)

// Sleep never blocks longer than this. The native wakeup can race with a
// timeout computed before blocking, so an unknown deadline gets a short
// ceiling instead of an indefinite wait.
const sleepCeiling = 50 * time.Millisecond

// ReadAndDispatch runs one dispatch cycle: pending skin and layout work,
// due timers, settings and popup phases, then a single non-blocking native
// iteration. If any phase processed events the deferred queue is drained;
// otherwise at most one queued callable runs. It reports whether there is
// more work, so callers Sleep when it returns false.
func (d *Display) ReadAndDispatch() (bool, error) {
	if err := d.CheckDevice(); err != nil {
		return false, err
	}
	d.runSkin()
	d.runDeferredLayouts()
	events := d.runTimers()
	if d.runSettings() {
		events = true
	}
	if d.runPopups() {
		events = true
	}
	if d.backend.Iterate() {
		events = true
	}
	if events {
		d.runDeferredEvents()
		return true, nil
	}
	if d.disposed.Load() {
		return false, nil
	}
	return d.synchronizer.runAsyncMessages(false), nil
}

// Sleep blocks until an event, timer, or queued callable needs the display
// goroutine. It reports whether the caller should keep pumping.
func (d *Display) Sleep() (bool, error) {
	if err := d.CheckDevice(); err != nil {
		return false, err
	}
	if d.settingsChanged {
		d.settingsChanged = false
		d.settingsPending = true
		return false, nil
	}
	if d.synchronizer.messageCount() != 0 {
		return true, nil
	}
	for {
		timeout := sleepCeiling
		if delay, ok := d.nextTimerDelay(); ok {
			if delay < 0 {
				delay = 0
			}
			if delay < timeout {
				timeout = delay
			}
		}
		d.clearWake()
		ready := d.backend.Wait(timeout)
		if ready || d.synchronizer.messageCount() != 0 || d.takeWake() || d.timerDue() || d.disposed.Load() {
			break
		}
	}
	d.clearWake()
	return true, nil
}

// Wake unblocks a Sleep in progress on the display goroutine. Safe from any
// goroutine.
func (d *Display) Wake() error {
	if d.disposed.Load() {
		return ErrDisposed
	}
	if d.isValidThread() {
		return nil
	}
	d.wakeThread()
	return nil
}

func (d *Display) wakeThread() {
	d.wakeMu.Lock()
	d.wakePending = true
	d.wakeMu.Unlock()
	d.backend.Wake()
}

func (d *Display) clearWake() {
	d.wakeMu.Lock()
	d.wakePending = false
	d.wakeMu.Unlock()
}

func (d *Display) takeWake() bool {
	d.wakeMu.Lock()
	defer d.wakeMu.Unlock()
	return d.wakePending
}

// SetEventFilter installs the component that gets first refusal on native
// events, or removes it when nil. Only one filter can be active.
func (d *Display) SetEventFilter(f EventFilter) {
	d.filter = f
}

// RestrictDispatch limits widget dispatch to the given native event types.
// Events of other types are buffered instead of dispatched.
func (d *Display) RestrictDispatch(types []platform.EventType) {
	d.restrictTypes = types
}

// UnrestrictDispatch lifts the restriction and replays buffered events in
// arrival order.
func (d *Display) UnrestrictDispatch() {
	d.restrictTypes = nil
	d.replayBuffered()
}

// handleNativeEvent is the single entry point for decoded native events.
// Timestamps update unconditionally so they stay fresh even while dispatch
// is restricted.
func (d *Display) handleNativeEvent(ev *platform.Event) {
	if ev.Time != 0 {
		d.lastEventTime = ev.Time
	}
	if ev.IsUserInput() && ev.Time != 0 {
		d.lastUserEventTime = ev.Time
	}
	if ev.Type == platform.EventSettingsChanged {
		d.settingsChanged = true
		return
	}
	if d.restrictTypes != nil && !d.restrictionAllows(ev.Type) {
		buffered := *ev
		d.buffered = append(d.buffered, &buffered)
		return
	}
	if d.filter != nil && !d.filter.FilterNativeEvent(ev) {
		return
	}
	d.dispatchToWidget(ev)
	if d.restrictTypes == nil {
		d.replayBuffered()
	}
}

func (d *Display) restrictionAllows(t platform.EventType) bool {
	for _, allowed := range d.restrictTypes {
		if allowed == t {
			return true
		}
	}
	return false
}

func (d *Display) dispatchToWidget(ev *platform.Event) {
	if !d.signalRoutes[ev.Type] {
		return
	}
	w := d.getWidget(ev.Window)
	if w == nil || w.Disposed() {
		return
	}
	w.HandleNativeEvent(ev)
}

func (d *Display) replayBuffered() {
	for len(d.buffered) > 0 {
		ev := d.buffered[0]
		d.buffered = d.buffered[1:]
		if d.filter != nil && !d.filter.FilterNativeEvent(ev) {
			continue
		}
		d.dispatchToWidget(ev)
	}
	d.buffered = nil
}

// runSettings reacts to a settings change that Sleep noticed: system colors
// are rebuilt and every shell is notified and re-laid out. The change flag
// itself only converts to pending work in Sleep, which returns false so the
// caller re-enters the pump.
func (d *Display) runSettings() bool {
	if !d.settingsPending {
		return false
	}
	d.settingsPending = false
	d.initializeSystemColors(d.colorOverrides)
	d.sendDisplayEvent(EventSettings)
	for _, s := range d.shellSnapshot() {
		if !s.Disposed() {
			s.themeChanged()
		}
	}
	return true
}

// runSkin delivers pending skin events to widgets registered for reskinning.
func (d *Display) runSkin() bool {
	if len(d.skinList) == 0 {
		return false
	}
	list := d.skinList
	d.skinList = nil
	run := false
	for _, w := range list {
		if w == nil || w.Disposed() {
			continue
		}
		run = true
		e := &Event{Type: EventSkin, Widget: w, Time: d.lastEventTime, Doit: true}
		if !d.FilterEvent(e) {
			w.SendEvent(e)
		}
	}
	return run
}

// ScheduleSkin queues a widget for the next skin phase.
func (d *Display) ScheduleSkin(w Widget) error {
	if err := d.CheckDevice(); err != nil {
		return err
	}
	if w == nil {
		return ErrNilArgument
	}
	d.skinList = append(d.skinList, w)
	return nil
}

// runDeferredLayouts flushes layout work postponed while layouts were
// deferred.
func (d *Display) runDeferredLayouts() bool {
	if len(d.layoutDeferred) == 0 {
		return false
	}
	list := d.layoutDeferred
	d.layoutDeferred = nil
	run := false
	for _, s := range list {
		if !s.Disposed() {
			s.flushLayout()
			run = true
		}
	}
	return run
}

func (d *Display) deferLayout(s *Shell) {
	for _, queued := range d.layoutDeferred {
		if queued == s {
			return
		}
	}
	d.layoutDeferred = append(d.layoutDeferred, s)
}

// runPopups maps shells whose showing was deferred until the pump was idle
// enough to present them.
func (d *Display) runPopups() bool {
	run := false
	for len(d.popups) > 0 {
		s := d.popups[0]
		d.popups = d.popups[1:]
		if s.Disposed() {
			continue
		}
		s.mapNow()
		run = true
	}
	d.popups = nil
	return run
}

func (d *Display) addPopup(s *Shell) {
	for _, queued := range d.popups {
		if queued == s {
			return
		}
	}
	d.popups = append(d.popups, s)
}

func (d *Display) removePopup(s *Shell) {
	for i, queued := range d.popups {
		if queued == s {
			d.popups = append(d.popups[:i:i], d.popups[i+1:]...)
			return
		}
	}
}
